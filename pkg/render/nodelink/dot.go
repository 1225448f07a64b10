package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/rectgroup/pkg/scene"
)

// Options controls the generated diagram.
type Options struct {
	// Detailed adds every attribute of a node to its label.
	Detailed bool
}

// ToDOT describes the scene tree as a Graphviz digraph. Each node is a box
// labelled with its kind and id, and each edge points from parent to child.
func ToDOT(root *scene.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph scene {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=12];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	var edges []string
	scene.Walk(root, func(n *scene.Node) {
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(n), strings.Join(fmtAttrs(n, opts.Detailed), ", "))
		if p := n.Parent(); p != nil && n != root {
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", nodeID(p), nodeID(n)))
		}
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(n *scene.Node) string {
	return fmt.Sprintf("%s%d", n.Kind(), n.ID())
}

func fmtLabel(n *scene.Node, detailed bool) string {
	head := fmt.Sprintf("<%s> #%d", n.Kind(), n.ID())
	var parts []string
	for _, k := range n.AttrNames() {
		if !detailed && k != scene.AttrTransform && k != scene.AttrX {
			continue
		}
		v, _ := n.Attr(k)
		parts = append(parts, k+"="+v)
	}
	if len(parts) == 0 {
		return head
	}
	return head + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *scene.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	switch n.Kind() {
	case scene.KindRoot:
		attrs = append(attrs, "fillcolor=lightgrey")
	case scene.KindGroup:
		if _, ok := n.Attr(scene.AttrTransform); ok {
			attrs = append(attrs, "style=\"rounded,filled,bold\"")
		}
	}
	return attrs
}

// RenderSVG lays out dot with Graphviz and returns the SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one whose
// viewBox starts at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
