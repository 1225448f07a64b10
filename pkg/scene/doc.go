// Package scene provides the drawing-surface abstraction the rectangle group
// renders into, plus an in-memory implementation.
//
// # Surface
//
// [Surface] is the minimal contract a host environment has to offer: create a
// container, create a rect with width/height/x/y, append and remove children,
// and set a named attribute. Any retained-mode scene graph can satisfy it.
//
// # Scene
//
// [Scene] is the reference implementation. It keeps a tree of [Node] values
// with string attributes, the same shape an SVG DOM has, so attribute-level
// behaviour of the group (which attributes are rewritten, which are left
// alone) is observable in tests.
//
// # Frames
//
// [Scene.Snapshot] turns the attached tree into a [Frame], a plain value that
// the renderers in pkg/render/sink consume. The group itself never talks to
// a renderer.
//
//	s := scene.New(800, 600)
//	g := group.New(s, s.Root())
//	g.Attach()
//	frame, err := s.Snapshot()
package scene
