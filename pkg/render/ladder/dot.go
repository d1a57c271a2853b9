package ladder

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cosmicscale/pkg/catalog"
	"github.com/matzehuels/cosmicscale/pkg/core/scale"
	"github.com/matzehuels/cosmicscale/pkg/hud"
)

const (
	activeFill    = "#ffd54f"
	inactiveFill  = "white"
	invisibleFont = "grey50"
)

// Options configures ladder rendering.
type Options struct {
	// Detailed adds the scale factor and distance to each label.
	Detailed bool

	// Colors outlines each node with its catalog color when the entity's
	// handle is a *catalog.Body.
	Colors bool
}

// Order returns the states sorted by exponent. Entities sharing an
// exponent keep their registration order.
func Order(res *scale.Result) []scale.State {
	states := slices.Clone(res.States)
	slices.SortStableFunc(states, func(a, b scale.State) int {
		return cmp.Compare(a.Entity.Exponent, b.Entity.Exponent)
	})
	return states
}

// ToDOT converts an evaluation to Graphviz DOT format.
func ToDOT(res *scale.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph ladder {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  label=%q;\n", hud.Readout(res.Current))
	buf.WriteString("  labelloc=t;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=12, arrowsize=0.6];\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	states := Order(res)
	for i, s := range states {
		attrs := fmtAttrs(s, s.Entity == res.Active, opts)
		fmt.Fprintf(&buf, "  n%d [%s];\n", i, strings.Join(attrs, ", "))
	}

	if len(states) > 1 {
		buf.WriteString("\n")
	}
	for i := 1; i < len(states); i++ {
		gap := states[i].Entity.Exponent - states[i-1].Entity.Exponent
		fmt.Fprintf(&buf, "  n%d -> n%d [label=%q];\n", i-1, i, fmtDecades(gap))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(s scale.State, detailed bool) string {
	label := fmt.Sprintf("%s\n10^%s m", s.Entity.Name, strconv.FormatFloat(s.Entity.Exponent, 'f', -1, 64))
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\nscale: %s\ndistance: %.2f", label, hud.Factor(s.ScaleFactor), s.Distance)
}

func fmtAttrs(s scale.State, active bool, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(s, opts.Detailed))}
	switch {
	case active:
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", activeFill), "penwidth=3")
	case !s.Visible:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", fmt.Sprintf("fillcolor=%q", inactiveFill), fmt.Sprintf("fontcolor=%q", invisibleFont))
	}
	if opts.Colors {
		if b, ok := s.Entity.Handle.(*catalog.Body); ok {
			attrs = append(attrs, fmt.Sprintf("color=\"#%02x%02x%02x\"", b.Color.R, b.Color.G, b.Color.B))
		}
	}
	return attrs
}

func fmtDecades(gap float64) string {
	if gap == 1 {
		return "1 decade"
	}
	return strconv.FormatFloat(math.Round(gap*100)/100, 'f', -1, 64) + " decades"
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
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// unitless viewBox so the diagram scales in browsers.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
