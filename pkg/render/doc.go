// Package render groups the renderers for rectangle group scenes.
//
// Nothing lives in this package itself. The work is split across:
//
//   - [styles]: the look of a rendered group (simple, blueprint, handdrawn)
//   - [sink]: frame to SVG, PNG, PDF or JSON
//   - [nodelink]: the scene tree as a Graphviz diagram
//
// Sinks consume a [scene.Frame], never a group, so anything that can build
// a Frame can be rendered:
//
//	frame, _ := s.Snapshot()
//	svg := sink.RenderSVG(frame, sink.WithStyle(styles.Handdrawn{}))
//	png, err := sink.RenderPNG(frame, sink.WithScale(2))
//
// [styles]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/render/styles
// [sink]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/render/sink
// [nodelink]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/render/nodelink
// [scene.Frame]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/scene#Frame
package render
