// Package sink provides output format renderers for rectangle group frames.
//
// # Overview
//
// A "sink" transforms a [scene.Frame] captured with [scene.Scene.Snapshot]
// into a final output format:
//
//   - SVG: one <g> per layer carrying the rotate() transform
//   - PNG: raster output drawn with github.com/gogpu/gg
//   - PDF: single-page vector output drawn with seehuhn.de/go/pdf
//   - JSON: the frame itself, readable again with [ReadFrame]
//
// All sinks take functional options. The visual look comes from a
// [styles.Style]; when none is given the simple style is used.
//
//	frame, _ := s.Snapshot()
//	svg := sink.RenderSVG(frame,
//	    sink.WithStyle(styles.Blueprint{}),
//	    sink.WithCorners(),
//	)
//
// # Corner Markers
//
// With the corners option each layer's rotated footprint is marked at its
// four corners (labelled TL, TR, BR, BL) and, when rotated, at its pivot.
// [LayerQuad] exposes the same footprint for callers.
package sink
