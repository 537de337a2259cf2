package formula

import (
	"strconv"
	"strings"
)

// Lookup resolves an upper-cased variable name to its value. It returns
// false when the variable is undefined.
type Lookup func(name string) (float64, bool)

// Evaluate computes the formula's value. Variables that lookup cannot
// resolve and division by zero produce an *EvalError.
func (f *Formula) Evaluate(lookup Lookup) (float64, error) {
	var (
		vals []float64
		ops  []string
	)
	top := func() string {
		if len(ops) == 0 {
			return ""
		}
		return ops[len(ops)-1]
	}
	pop := func() (float64, float64, string) {
		b, a := vals[len(vals)-1], vals[len(vals)-2]
		op := ops[len(ops)-1]
		vals, ops = vals[:len(vals)-2], ops[:len(ops)-1]
		return a, b, op
	}
	addSub := func() {
		if op := top(); op == "+" || op == "-" {
			a, b, op := pop()
			if op == "+" {
				vals = append(vals, a+b)
			} else {
				vals = append(vals, a-b)
			}
		}
	}
	// mulDiv pops a pending * or / and applies it to a and b.
	mulDiv := func(a, b float64) error {
		op := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if op == "*" {
			vals = append(vals, a*b)
			return nil
		}
		if b == 0 {
			return divideByZero()
		}
		vals = append(vals, a/b)
		return nil
	}

	for _, tok := range f.tokens {
		switch tok.Kind {
		case Number, Variable:
			v, err := operand(tok, lookup)
			if err != nil {
				return 0, err
			}
			if op := top(); op == "*" || op == "/" {
				a := vals[len(vals)-1]
				vals = vals[:len(vals)-1]
				if err := mulDiv(a, v); err != nil {
					return 0, err
				}
				continue
			}
			vals = append(vals, v)
		case Operator:
			if tok.Text == "+" || tok.Text == "-" {
				addSub()
			}
			ops = append(ops, tok.Text)
		case LeftParen:
			ops = append(ops, "(")
		case RightParen:
			addSub()
			ops = ops[:len(ops)-1]
			if op := top(); op == "*" || op == "/" {
				b, a := vals[len(vals)-1], vals[len(vals)-2]
				vals = vals[:len(vals)-2]
				if err := mulDiv(a, b); err != nil {
					return 0, err
				}
			}
		}
	}

	if len(ops) == 0 {
		return vals[len(vals)-1], nil
	}
	a, b, op := pop()
	if op == "+" {
		return a + b, nil
	}
	return a - b, nil
}

func operand(tok Token, lookup Lookup) (float64, error) {
	if tok.Kind == Number {
		v, _ := strconv.ParseFloat(tok.Text, 64)
		return v, nil
	}
	name := strings.ToUpper(tok.Text)
	v, ok := lookup(name)
	if !ok {
		return 0, &EvalError{Reason: "undefined variable " + name}
	}
	return v, nil
}

func divideByZero() error { return &EvalError{Reason: "division by zero"} }
