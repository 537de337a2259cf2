package formula

import (
	"hash/fnv"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Formula is a validated formula in canonical form. It is immutable; the
// zero value is not usable.
type Formula struct {
	tokens []Token
	canon  string
	vars   []string
}

// New tokenizes and validates expr. It returns a *FormatError naming the
// first rule violated.
func New(expr string) (*Formula, error) {
	tokens := Tokenize(expr)
	if len(tokens) == 0 {
		return nil, &FormatError{Rule: RuleOneToken}
	}

	var (
		canon      strings.Builder
		open, shut int
		prev       *Token
		vars       []string
	)
	for i := range tokens {
		tok := &tokens[i]
		if err := checkToken(tok, prev); err != nil {
			return nil, err
		}
		switch tok.Kind {
		case LeftParen:
			open++
		case RightParen:
			shut++
		}
		if shut > open {
			return nil, &FormatError{Rule: RuleClosingParen, Token: tok.Text, Pos: tok.Pos}
		}

		switch tok.Kind {
		case Variable:
			name := strings.ToUpper(tok.Text)
			canon.WriteString(name)
			if !slices.Contains(vars, name) {
				vars = append(vars, name)
			}
		case Number:
			v, _ := strconv.ParseFloat(tok.Text, 64)
			canon.WriteString(FormatNumber(v))
		default:
			canon.WriteString(tok.Text)
		}
		prev = tok
	}

	if last := tokens[len(tokens)-1]; !last.operand() && last.Kind != RightParen {
		return nil, &FormatError{Rule: RuleLastToken, Token: last.Text, Pos: last.Pos}
	}
	if open != shut {
		return nil, &FormatError{Rule: RuleBalancedParen}
	}

	slices.Sort(vars)
	return &Formula{tokens: tokens, canon: canon.String(), vars: vars}, nil
}

// MustNew is like New but panics if expr is not a valid formula.
func MustNew(expr string) *Formula {
	f, err := New(expr)
	if err != nil {
		panic("formula: " + err.Error())
	}
	return f
}

func checkToken(tok, prev *Token) error {
	if tok.Kind == Invalid || (tok.Kind == Number && !finite(tok.Text)) {
		return &FormatError{Rule: RuleValidToken, Token: tok.Text, Pos: tok.Pos}
	}
	startsOperand := tok.operand() || tok.Kind == LeftParen
	switch {
	case prev == nil:
		if !startsOperand {
			return &FormatError{Rule: RuleFirstToken, Token: tok.Text, Pos: tok.Pos}
		}
	case prev.Kind == LeftParen || prev.Kind == Operator:
		if !startsOperand {
			return &FormatError{Rule: RuleParenOpFollowing, Token: tok.Text, Pos: tok.Pos}
		}
	default:
		if tok.Kind != Operator && tok.Kind != RightParen {
			return &FormatError{Rule: RuleExtraFollowing, Token: tok.Text, Pos: tok.Pos}
		}
	}
	return nil
}

func finite(literal string) bool {
	v, err := strconv.ParseFloat(literal, 64)
	return err == nil && !math.IsInf(v, 0)
}

// Variables returns the distinct upper-cased variable names, sorted.
func (f *Formula) Variables() []string { return slices.Clone(f.vars) }

// Tokens returns the formula's tokens as written.
func (f *Formula) Tokens() []Token { return slices.Clone(f.tokens) }

// String returns the canonical form.
func (f *Formula) String() string { return f.canon }

// Equal reports whether f and other have the same canonical form.
// A nil formula equals nothing.
func (f *Formula) Equal(other *Formula) bool {
	if f == nil || other == nil {
		return false
	}
	return f.canon == other.canon
}

// Hash returns a hash of the canonical form, consistent with Equal.
func (f *Formula) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(f.canon))
	return h.Sum64()
}
