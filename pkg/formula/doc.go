// Package formula parses, validates, normalizes and evaluates infix
// arithmetic formulas over cell variables.
//
// # Grammar
//
// A formula is a sequence of tokens:
//
//   - "(" and ")"
//   - the operators + - * /
//   - variables: one or more ASCII letters followed by one or more digits (a1, XY25)
//   - numbers: 12, 1.5, .5, 2e10, 3.1E-4 (no sign; unary minus is not supported)
//
// Whitespace separates tokens and is otherwise ignored. Anything else is an
// invalid token.
//
// [New] checks eight rules while scanning left to right and fails with a
// [*FormatError] naming the first violated [Rule]. A formula value is never
// returned partially built.
//
// # Canonical Form
//
// Every formula carries a canonical string: variables upper-cased, numbers
// re-printed with [FormatNumber], no whitespace. [Formula.String] returns it
// and [Formula.Equal] compares it, so "x1 + 2.0" equals "X1+2" but "1+2" does
// not equal "2+1".
//
// # Evaluation
//
// [Formula.Evaluate] resolves variables through a [Lookup] and applies the
// usual precedence with left-to-right associativity. Undefined variables and
// division by zero are reported as an [*EvalError]; evaluation never panics
// on a valid formula.
//
//	f, err := formula.New("(a1 + 3) * 2")
//	if err != nil {
//	    return err
//	}
//	v, err := f.Evaluate(func(name string) (float64, bool) {
//	    return 4, name == "A1"
//	})
//	// v == 14
package formula
