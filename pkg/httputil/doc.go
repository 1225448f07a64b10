// Package httputil provides JSON helpers for the preview server handlers.
//
//   - [WriteJSON] writes a value with the right content type and status
//   - [WriteError] maps coded errors from pkg/errors to HTTP statuses
//   - [DecodeJSON] reads a bounded request body and rejects unknown fields
//
// Error bodies have a single shape:
//
//	{"error": {"code": "INVALID_INPUT", "message": "angle must be a finite number"}}
package httputil
