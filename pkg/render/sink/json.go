package sink

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/rectgroup/pkg/geometry"
	"github.com/matzehuels/rectgroup/pkg/scene"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	style   string
	corners bool
}

// WithJSONStyle records the style name in the output so that a later
// visualize run can pick the same look.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// WithJSONCorners adds the rotated footprint of every layer.
func WithJSONCorners() JSONOption { return func(r *jsonRenderer) { r.corners = true } }

type jsonOutput struct {
	scene.Frame
	Style   string          `json:"style,omitempty"`
	Corners []geometry.Quad `json:"corners,omitempty"`
}

// RenderJSON exports the frame as a pretty-printed JSON document. The output
// can be read back with [ReadFrame].
func RenderJSON(f scene.Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	out := jsonOutput{Frame: f, Style: r.style}
	if out.Layers == nil {
		out.Layers = []scene.Layer{}
	}
	if r.corners {
		for _, l := range f.Layers {
			if q, ok := LayerQuad(l); ok {
				out.Corners = append(out.Corners, q)
			}
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// ReadFrame decodes a document written by [RenderJSON]. It also returns the
// recorded style name, if any.
func ReadFrame(r io.Reader) (scene.Frame, string, error) {
	var in jsonOutput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return scene.Frame{}, "", fmt.Errorf("decode frame: %w", err)
	}
	if in.Width <= 0 || in.Height <= 0 {
		return scene.Frame{}, "", fmt.Errorf("frame size %vx%v must be positive", in.Width, in.Height)
	}
	return in.Frame, in.Style, nil
}
