// Package styles defines how a rendered rectangle group looks.
//
// A [Style] writes SVG fragments for the frame background, each rectangle
// and the optional corner/pivot markers, and exposes a flat [Palette] for the
// PNG and PDF sinks. Three styles ship: "simple", "blueprint" and
// "handdrawn". The hand-drawn style seeds its wobble from each rectangle's
// id, so a scene always renders the same way.
package styles
