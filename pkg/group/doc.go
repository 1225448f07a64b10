// Package group implements the rectangle group: a row of equally sized
// squares that is positioned, extended and rotated as a single rigid body.
//
// # Layout
//
// Rectangles are laid out left to right from [Group.Position] with a uniform
// gap. The group's width is count·w + (count-1)·gap and its height is w.
//
// # Rotation
//
// The group is never rotated by moving rectangles. Instead the container node
// carries a single rotate(angle, ox, oy) transform. [Group.SetRotation] picks
// the pivot fresh on every call as the centroid of the group's current
// on-surface corners, then re-derives the unrotated anchor so the footprint
// does not jump when the pivot moves.
//
// # Surfaces
//
// A group draws through a [scene.Surface] and mounts itself under a host node
// passed to [New]. Nothing is looked up globally.
package group
