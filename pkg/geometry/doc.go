// Package geometry holds the 2D primitives shared by the group model and the
// renderers: points, rotations about a pivot and four-corner quads.
//
// All coordinates use the drawing-surface convention where X grows to the
// right and Y grows downward.
package geometry
