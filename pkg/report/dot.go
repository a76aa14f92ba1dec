package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pkgsizer/pkg/scan"
)

// ToDOT converts scan results to Graphviz DOT format, one node per
// package with its declared-dependency edges. Direct packages are
// highlighted, editable installs dashed.
func ToDOT(results *scan.Results) string {
	var buf bytes.Buffer
	buf.WriteString("digraph deps {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, p := range results.Packages {
		label := fmt.Sprintf("%s %s\n%s", p.Dist.Name, p.Dist.Version, FormatBytes(p.Size.Bytes))
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if p.Node.Direct {
			attrs = append(attrs, "fillcolor=lightblue")
		}
		if p.Dist.Editable {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", p.Node.Name(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, p := range results.Packages {
		for _, dep := range p.Node.Dependencies {
			fmt.Fprintf(&buf, "  %q -> %q;\n", p.Node.Name(), dep.Name())
		}
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
