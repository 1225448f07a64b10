package group_test

import (
	"fmt"

	"github.com/matzehuels/rectgroup/pkg/group"
	"github.com/matzehuels/rectgroup/pkg/scene"
)

func Example() {
	s := scene.New(400, 300)
	g := group.New(s, s.Root())
	g.Attach()

	g.AddRectangle()
	g.AddRectangle()
	fmt.Println(g.Count(), g.GroupWidth(), g.GroupHeight())

	g.SetRotation(90)
	t, _ := g.Container().Attr(scene.AttrTransform)
	fmt.Println(t)
	// Output:
	// 3 170 50
	// rotate(90, 135, 75)
}

func ExampleGroup_SetPosition() {
	s := scene.New(400, 300)
	g := group.New(s, s.Root())
	g.AddRectangle()

	g.SetPosition(group.At(100, 100))
	for _, r := range g.Rectangles() {
		x, _ := r.Attr("x")
		y, _ := r.Attr("y")
		fmt.Println(x, y)
	}
	// Output:
	// 100 50
	// 160 50
}
