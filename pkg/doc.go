// Package pkg provides the core libraries for rectgroup.
//
// # Overview
//
// rectgroup manages a row of equally sized squares that move and rotate as
// one rigid body on a drawing surface. Rotation is kept as a single
// transform on the container, and the real on-surface corners are
// recomputed on demand. The pkg directory is organized into these areas:
//
//  1. Domain: [geometry], [scene] and [group]
//  2. Rendering: [render/styles], [render/sink] and [render/nodelink]
//  3. Orchestration: [pipeline] and [script]
//  4. Infrastructure: [cache], [session], [watch] and [config]
//  5. Serving: [server] and [httputil]
//
// # Architecture
//
// The typical data flow:
//
//	operations (add, move, rotate, reset) or a tengo script
//	         ↓
//	    [group] package (mutates nodes on a scene.Surface)
//	         ↓
//	    [scene] package (Snapshot → Frame)
//	         ↓
//	    [render/sink] package (SVG/PNG/PDF/JSON)
//
// [pipeline.Runner] ties these together and caches rendered artifacts.
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/rectgroup/pkg/group"
//	    "github.com/matzehuels/rectgroup/pkg/render/sink"
//	    "github.com/matzehuels/rectgroup/pkg/scene"
//	)
//
//	s := scene.New(800, 600)
//	g := group.New(s, s.Root())
//	g.Attach()
//	g.AddRectangle()
//	g.SetRotation(30)
//
//	corners := g.GroupCoordinates()
//	frame, _ := s.Snapshot()
//	svg := sink.RenderSVG(frame, sink.WithCorners())
//
// # Error Handling
//
// Operations that can fail return errors from [errors], which carry a
// [errors.Code] so the CLI and the HTTP server can report them uniformly.
//
// # Observability
//
// [observability] exposes hooks for the pipeline and the server. The CLI
// installs hooks that log through github.com/charmbracelet/log.
//
// [geometry]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/geometry
// [scene]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/scene
// [group]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/group
// [render/styles]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/render/styles
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/pipeline#Runner
// [script]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/script
// [cache]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/session
// [watch]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/watch
// [config]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/server
// [httputil]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/errors
// [errors.Code]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/errors#Code
// [observability]: https://pkg.go.dev/github.com/matzehuels/rectgroup/pkg/observability
package pkg
