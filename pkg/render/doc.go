// Package render converts rendered diagrams between output formats.
//
// The [ladder] subpackage draws the scale ladder with Graphviz and produces
// SVG. [ToPDF] and [ToPNG] convert that SVG with the external rsvg-convert
// tool (from librsvg):
//
//	svg, err := ladder.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
package render
