package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/rectgroup/pkg/group"
	"github.com/matzehuels/rectgroup/pkg/scene"
)

func newScene(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.New(400, 300)
	g := group.New(s, s.Root())
	g.Attach()
	g.AddRectangle()
	g.SetRotation(90)
	return s
}

func TestToDOT(t *testing.T) {
	s := newScene(t)
	dot := ToDOT(s.Root(), Options{})

	if !strings.HasPrefix(dot, "digraph scene {") || !strings.HasSuffix(dot, "}\n") {
		t.Fatalf("not a digraph:\n%s", dot)
	}
	if got := strings.Count(dot, " -> "); got != 3 {
		t.Errorf("edges = %d, want 3 (root->g, g->rect x2)\n%s", got, dot)
	}
	if !strings.Contains(dot, `transform=rotate(90, 105, 75)`) {
		t.Errorf("container label should carry the transform:\n%s", dot)
	}
	if strings.Contains(dot, "width=") {
		t.Errorf("compact labels should omit width:\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(newScene(t).Root(), Options{Detailed: true})
	for _, want := range []string{"width=50", "height=50", "y=50"} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed DOT missing %q", want)
		}
	}
}

func TestToDOTDetachedSubtree(t *testing.T) {
	s := scene.New(10, 10)
	g := s.CreateGroup()
	s.Append(g, s.CreateRect(1, 1, 0, 0))

	dot := ToDOT(g, Options{})
	if got := strings.Count(dot, " -> "); got != 1 {
		t.Errorf("edges = %d, want 1\n%s", got, dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.HasPrefix(got, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44">`) {
		t.Errorf("normalizeViewBox = %s", got)
	}
	if string(normalizeViewBox([]byte("<svg/>"))) != "<svg/>" {
		t.Error("input without a viewBox should pass through")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz runtime start-up is slow")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(newScene(t).Root(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("output is not SVG: %.80s", svg)
	}
}
