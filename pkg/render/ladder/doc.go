// Package ladder renders a scale evaluation as a "ladder" diagram: one node
// per entity, ordered from smallest to largest, with the number of decades
// between neighbours on each rung.
//
// # Usage
//
//	res, _ := resolver.EvaluateRegistry(7.1, reg)
//	dot := ladder.ToDOT(res, ladder.Options{Detailed: true})
//	svg, err := ladder.RenderSVG(ctx, dot)
//
// The active entity is highlighted. Entities outside the visibility band
// are drawn dashed and greyed out. The graph label carries the readout for
// the current exponent.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion lives in the parent render package.
package ladder
