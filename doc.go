// Package symexpr provides a small symbolic algebra engine for Go.
//
// Expressions are immutable trees generic over a numeric value type T. The
// arithmetic on T is supplied once, as a Numeric[T] capability, when an
// Engine is constructed:
//
//	eng := symexpr.MustNew[*big.Rat](symexpr.RatOps{})
//	e, _ := eng.Parse("2 * (7 / [x])")
//	e = eng.Substitute(e, "x", big.NewRat(9, 1))
//	e, _ = eng.Simplify(e)
//	fmt.Println(eng.String(e)) // 14/9
//
// Design goals:
//   - Text and Go function literals as input (Parse, ParseFunc)
//   - A single idempotent simplification pass: constant folding plus a
//     fixed set of identities, no commutative reordering
//   - Printed output that parses back to the same tree
//   - JSON, LaTeX and a tool-call surface for agent backends
//
// Trees never change after construction, so they and their Engine may be
// shared freely between goroutines.
package symexpr

// Version is reported by the command line tools and the MCP server.
const Version = "0.3.0"
