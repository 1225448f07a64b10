// Package nodelink draws the scene tree behind a rendered group as a
// node-link diagram.
//
// Where the sinks in pkg/render/sink show what the group looks like, this
// package shows how it is built: the root, each container with its rotate
// transform and the rect children under it. It is a debugging view for the
// attribute-level behaviour of the group, for example the fresh nodes a
// rotation creates.
//
//	dot := nodelink.ToDOT(s.Root(), nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [ToDOT] is plain text and needs nothing else. [RenderSVG] lays the graph
// out with the WebAssembly build of Graphviz from github.com/goccy/go-graphviz,
// so no system binary is required.
package nodelink
