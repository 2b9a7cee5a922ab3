package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"devloy/internal/resolver"
)

// ToDOT converts the registry's dependency edges to Graphviz DOT.
// Edges to projects that were never registered are left out.
func ToDOT(reg *resolver.Registry) string {
	var buf bytes.Buffer
	buf.WriteString("digraph devloy {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white];\n")
	buf.WriteString("\n")

	root, _ := reg.Root()
	for _, p := range reg.Projects() {
		label := p.Name
		if p.Suffix != "" {
			label += "\n" + p.Suffix
		}
		attrs := fmt.Sprintf("label=%q", label)
		if p.Name == root.Name {
			attrs += ", penwidth=2"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", p.Name, attrs)
	}

	buf.WriteString("\n")
	for _, e := range reg.Edges() {
		if !reg.Has(e.From) || !reg.Has(e.To) {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
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
	return buf.Bytes(), nil
}
