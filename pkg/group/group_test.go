package group

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/rectgroup/pkg/geometry"
	"github.com/matzehuels/rectgroup/pkg/scene"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func newAttached(t *testing.T) (*scene.Scene, *Group) {
	t.Helper()
	s := scene.New(800, 600)
	g := New(s, s.Root())
	g.Attach()
	return s, g
}

func attr(t *testing.T, n *scene.Node, name string) string {
	t.Helper()
	v, ok := n.Attr(name)
	if !ok {
		t.Fatalf("node %d has no %q attribute", n.ID(), name)
	}
	return v
}

func xs(g *Group) []float64 {
	out := make([]float64, 0, g.Count())
	for _, r := range g.Rectangles() {
		out = append(out, r.FloatAttr(scene.AttrX))
	}
	return out
}

func TestNew(t *testing.T) {
	s := scene.New(800, 600)
	g := New(s, s.Root())

	if g.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", g.Count())
	}
	if len(s.Root().Children()) != 0 {
		t.Error("New must not attach the group")
	}
	r := g.Rectangles()[0]
	for name, want := range map[string]string{"x": "50", "y": "50", "width": "50", "height": "50"} {
		if got := attr(t, r, name); got != want {
			t.Errorf("rect %s = %q, want %q", name, got, want)
		}
	}
	if r.Parent() != g.Container() {
		t.Error("rectangle should live in the container")
	}
	if _, ok := g.Container().Attr(scene.AttrTransform); ok {
		t.Error("fresh container should carry no transform")
	}
}

func TestAttachDetach(t *testing.T) {
	s, g := newAttached(t)
	if kids := s.Root().Children(); len(kids) != 1 || kids[0] != g.Container() {
		t.Fatalf("Attach should mount the container, got %d children", len(kids))
	}

	g.Detach()
	if len(s.Root().Children()) != 0 {
		t.Fatal("Detach should unmount the container")
	}
	g.Detach() // no-op when already detached
}

func TestSetPositionUpdatesX(t *testing.T) {
	_, g := newAttached(t)
	r := g.Rectangles()[0]

	g.SetPosition(At(100, 100))

	if got := attr(t, r, "x"); got != "100" {
		t.Errorf("x = %q, want %q", got, "100")
	}
	// The y attribute is never re-applied by SetPosition.
	if got := attr(t, r, "y"); got != "50" {
		t.Errorf("y = %q, want %q", got, "50")
	}
	if g.Position() != (geometry.Point{X: 100, Y: 100}) {
		t.Errorf("Position() = %v, want {100 100}", g.Position())
	}
}

func TestSetPositionPartial(t *testing.T) {
	_, g := newAttached(t)
	g.AddRectangle()
	g.AddRectangle()

	x := 20.0
	g.SetPosition(PositionUpdate{X: &x})
	if g.Position() != (geometry.Point{X: 20, Y: 50}) {
		t.Errorf("Position() = %v, want {20 50}", g.Position())
	}
	if diff := cmp.Diff([]float64{20, 80, 140}, xs(g)); diff != "" {
		t.Errorf("x attributes (-want +got):\n%s", diff)
	}

	y := 7.0
	g.SetPosition(PositionUpdate{Y: &y})
	if g.Position() != (geometry.Point{X: 20, Y: 7}) {
		t.Errorf("Position() = %v, want {20 7}", g.Position())
	}
	if diff := cmp.Diff([]float64{20, 80, 140}, xs(g)); diff != "" {
		t.Errorf("x attributes after y-only update (-want +got):\n%s", diff)
	}
}

func TestAddRectangle(t *testing.T) {
	_, g := newAttached(t)
	g.AddRectangle()
	g.AddRectangle()

	if g.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", g.Count())
	}
	if g.GroupWidth() != 170 {
		t.Errorf("GroupWidth() = %v, want 170", g.GroupWidth())
	}
	if g.GroupHeight() != 50 {
		t.Errorf("GroupHeight() = %v, want 50", g.GroupHeight())
	}
	// New rectangles go to position.x + gap + count*width.
	if diff := cmp.Diff([]float64{50, 110, 160}, xs(g)); diff != "" {
		t.Errorf("x attributes (-want +got):\n%s", diff)
	}
	if len(g.Container().Children()) != 3 {
		t.Errorf("container has %d children, want 3", len(g.Container().Children()))
	}
}

func TestGroupWidth(t *testing.T) {
	_, g := newAttached(t)
	for count := 1; count <= 6; count++ {
		want := float64(count)*50 + float64(count-1)*10
		if g.Count() != count {
			t.Fatalf("Count() = %d, want %d", g.Count(), count)
		}
		if g.GroupWidth() != want {
			t.Errorf("count %d: GroupWidth() = %v, want %v", count, g.GroupWidth(), want)
		}
		g.AddRectangle()
	}
}

func TestGroupCoordinatesUnrotated(t *testing.T) {
	_, g := newAttached(t)
	g.AddRectangle()

	want := geometry.Quad{
		TopLeft:     geometry.Point{X: 50, Y: 50},
		TopRight:    geometry.Point{X: 160, Y: 50},
		BottomLeft:  geometry.Point{X: 50, Y: 100},
		BottomRight: geometry.Point{X: 160, Y: 100},
	}
	if diff := cmp.Diff(want, g.GroupCoordinates()); diff != "" {
		t.Errorf("GroupCoordinates (-want +got):\n%s", diff)
	}
}

func TestSetRotationSingle(t *testing.T) {
	_, g := newAttached(t)
	g.SetRotation(90)

	if got := attr(t, g.Container(), scene.AttrTransform); got != "rotate(90, 75, 75)" {
		t.Errorf("transform = %q", got)
	}
	if g.Position() != (geometry.Point{X: 50, Y: 50}) {
		t.Errorf("Position() = %v, want {50 50}", g.Position())
	}

	q := g.GroupCoordinates()
	want := geometry.Quad{
		TopLeft:     geometry.Point{X: 100, Y: 50},
		TopRight:    geometry.Point{X: 100, Y: 100},
		BottomLeft:  geometry.Point{X: 50, Y: 50},
		BottomRight: geometry.Point{X: 50, Y: 100},
	}
	if diff := cmp.Diff(want, q, approx); diff != "" {
		t.Errorf("GroupCoordinates (-want +got):\n%s", diff)
	}
}

func TestSetRotationRebuildsLayout(t *testing.T) {
	_, g := newAttached(t)
	g.AddRectangle()
	g.AddRectangle()
	before := g.Rectangles()

	g.SetRotation(30)

	if g.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", g.Count())
	}
	if len(g.Container().Children()) != 3 {
		t.Fatalf("container has %d children, want 3", len(g.Container().Children()))
	}
	for i, r := range g.Rectangles() {
		if r == before[i] {
			t.Errorf("rectangle %d was not recreated", i)
		}
		if before[i].Parent() != nil {
			t.Errorf("old rectangle %d still attached", i)
		}
	}
	// Recreated nodes use uniform spacing from the anchor.
	if diff := cmp.Diff([]float64{50, 110, 170}, xs(g), approx); diff != "" {
		t.Errorf("x attributes (-want +got):\n%s", diff)
	}
	want := geometry.Rotation{AngleDeg: 30, OriginX: 135, OriginY: 75}
	if diff := cmp.Diff(want, g.Rotation(), approx); diff != "" {
		t.Errorf("Rotation (-want +got):\n%s", diff)
	}
}

func TestSetRotationKeepsFootprintCentered(t *testing.T) {
	_, g := newAttached(t)
	g.AddRectangle()
	g.AddRectangle()
	g.SetRotation(30)
	g.SetRotation(75)

	base := geometry.AxisAligned(geometry.Point{X: 50, Y: 50}, 170, 50)
	pivot := base.Centroid()
	want := base.Map(func(p geometry.Point) geometry.Point {
		return geometry.RotateAbout(p, pivot, -geometry.Radians(75))
	})
	if diff := cmp.Diff(want, g.GroupCoordinates(), approx); diff != "" {
		t.Errorf("GroupCoordinates (-want +got):\n%s", diff)
	}
}

func TestSetRotationRoundTrip(t *testing.T) {
	s, g := newAttached(t)
	g.AddRectangle()
	g.AddRectangle()

	g.SetRotation(30)
	g.SetRotation(0)

	r, err := scene.ParseRotate(attr(t, g.Container(), scene.AttrTransform))
	if err != nil {
		t.Fatalf("ParseRotate: %v", err)
	}
	if r.AngleDeg != 0 {
		t.Errorf("transform angle = %v, want 0", r.AngleDeg)
	}
	if diff := cmp.Diff(geometry.Point{X: 50, Y: 50}, g.Position(), approx); diff != "" {
		t.Errorf("Position (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{50, 110, 170}, xs(g), approx); diff != "" {
		t.Errorf("x attributes (-want +got):\n%s", diff)
	}

	f, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if f.RectCount() != 3 {
		t.Errorf("frame has %d rects, want 3", f.RectCount())
	}
}

func TestAddRectangleKeepsTransform(t *testing.T) {
	_, g := newAttached(t)
	g.SetRotation(45)
	before := attr(t, g.Container(), scene.AttrTransform)

	g.AddRectangle()

	if got := attr(t, g.Container(), scene.AttrTransform); got != before {
		t.Errorf("transform changed from %q to %q", before, got)
	}
	if g.Rotation().AngleDeg != 45 {
		t.Errorf("angle = %v, want 45", g.Rotation().AngleDeg)
	}
}

func TestResetDefault(t *testing.T) {
	s, g := newAttached(t)
	g.AddRectangle()
	g.SetPosition(At(10, 20))
	g.SetRotation(33)
	old := g.Container()

	g.ResetDefault()

	if g.Position() != (geometry.Point{X: 50, Y: 50}) {
		t.Errorf("Position() = %v", g.Position())
	}
	if g.RectangleWidth() != 50 || g.Gap() != 10 {
		t.Errorf("width/gap = %v/%v, want 50/10", g.RectangleWidth(), g.Gap())
	}
	if g.Rotation() != (geometry.Rotation{AngleDeg: 0, OriginX: 75, OriginY: 75}) {
		t.Errorf("Rotation() = %+v", g.Rotation())
	}
	// The stale sequence is dropped and reseeded with one rectangle.
	if g.Count() != 1 {
		t.Errorf("Count() = %d, want 1", g.Count())
	}
	if old.Parent() != nil {
		t.Error("old container should be detached")
	}
	kids := s.Root().Children()
	if len(kids) != 1 || kids[0] != g.Container() || g.Container() == old {
		t.Error("a fresh container should be attached")
	}
	if got := attr(t, g.Rectangles()[0], "x"); got != "50" {
		t.Errorf("x = %q, want 50", got)
	}
}

func TestWithConfig(t *testing.T) {
	s := scene.New(100, 100)
	cfg := Config{
		Position:       geometry.Point{X: 5, Y: 6},
		RectangleWidth: 20,
		Gap:            2,
		Rotation:       geometry.Rotation{OriginX: 15, OriginY: 16},
	}
	g := New(s, s.Root(), WithConfig(cfg))
	g.AddRectangle()

	if g.GroupWidth() != 42 {
		t.Errorf("GroupWidth() = %v, want 42", g.GroupWidth())
	}
	g.SetPosition(At(0, 0))
	g.ResetDefault()
	if g.Position() != cfg.Position {
		t.Errorf("ResetDefault should restore configured position, got %v", g.Position())
	}
}

func TestSetPositionAfterRotationMovesLiveNodes(t *testing.T) {
	_, g := newAttached(t)
	g.AddRectangle()
	g.AddRectangle()
	g.SetRotation(30)

	g.SetPosition(At(0, 0))

	kids := g.Container().Children()
	if len(kids) != 3 {
		t.Fatalf("container has %d children, want 3", len(kids))
	}
	got := make([]float64, 0, len(kids))
	for i, k := range kids {
		if k != g.Rectangles()[i] {
			t.Errorf("rectangle %d is not the attached node", i)
		}
		got = append(got, k.FloatAttr(scene.AttrX))
	}
	if diff := cmp.Diff([]float64{0, 60, 120}, got); diff != "" {
		t.Errorf("attached x attributes (-want +got):\n%s", diff)
	}
}

func TestNaNPropagates(t *testing.T) {
	_, g := newAttached(t)
	g.AddRectangle()

	g.SetRotation(math.NaN())
	if got := attr(t, g.Container(), scene.AttrTransform); got != "rotate(NaN, 105, 75)" {
		t.Errorf("transform = %q, want %q", got, "rotate(NaN, 105, 75)")
	}

	g.SetPosition(At(math.NaN(), 0))
	for i, r := range g.Rectangles() {
		if got := attr(t, r, scene.AttrX); got != "NaN" {
			t.Errorf("rect %d x = %q, want NaN", i, got)
		}
		if got := attr(t, r, scene.AttrY); got != "50" {
			t.Errorf("rect %d y = %q, want 50", i, got)
		}
	}

	q := g.GroupCoordinates()
	for _, p := range []geometry.Point{q.TopLeft, q.TopRight, q.BottomLeft, q.BottomRight} {
		if !math.IsNaN(p.X) || !math.IsNaN(p.Y) {
			t.Errorf("corner %v should be NaN", p)
		}
	}
}
