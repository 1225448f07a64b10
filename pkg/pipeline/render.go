package pipeline

import (
	errs "github.com/matzehuels/rectgroup/pkg/errors"
	"github.com/matzehuels/rectgroup/pkg/render/sink"
	"github.com/matzehuels/rectgroup/pkg/scene"
)

// Render generates output artifacts for f in the requested formats.
func Render(f scene.Frame, opts Options) (map[string][]byte, error) {
	style := opts.ResolveStyle()
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			svgOpts := []sink.SVGOption{sink.WithStyle(style)}
			if opts.Corners {
				svgOpts = append(svgOpts, sink.WithCorners())
			}
			if opts.Background {
				svgOpts = append(svgOpts, sink.WithBackground())
			}
			data = sink.RenderSVG(f, svgOpts...)
		case FormatPNG:
			pngOpts := []sink.PNGOption{sink.WithPNGStyle(style), sink.WithScale(opts.Scale)}
			if opts.Corners {
				pngOpts = append(pngOpts, sink.WithPNGCorners())
			}
			if opts.Background {
				pngOpts = append(pngOpts, sink.WithPNGBackground())
			}
			data, err = sink.RenderPNG(f, pngOpts...)
		case FormatPDF:
			pdfOpts := []sink.PDFOption{sink.WithPDFStyle(style)}
			if opts.Corners {
				pdfOpts = append(pdfOpts, sink.WithPDFCorners())
			}
			if opts.Background {
				pdfOpts = append(pdfOpts, sink.WithPDFBackground())
			}
			data, err = sink.RenderPDF(f, pdfOpts...)
		case FormatJSON:
			jsonOpts := []sink.JSONOption{sink.WithJSONStyle(opts.Style)}
			if opts.Corners {
				jsonOpts = append(jsonOpts, sink.WithJSONCorners())
			}
			data, err = sink.RenderJSON(f, jsonOpts...)
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeRenderFailed, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
