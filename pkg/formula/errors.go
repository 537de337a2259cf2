package formula

import (
	"errors"
	"fmt"
)

// ErrFormat is matched by every [*FormatError].
var ErrFormat = errors.New("invalid formula")

// Rule identifies a grammar rule checked by [New].
type Rule int

const (
	RuleOneToken       Rule = iota + 1 // at least one token
	RuleValidToken                     // every token is a paren, operator, variable or number
	RuleClosingParen                   // no prefix has more ")" than "("
	RuleBalancedParen                  // equal counts of "(" and ")"
	RuleFirstToken                     // starts with a number, variable or "("
	RuleLastToken                      // ends with a number, variable or ")"
	RuleParenOpFollowing               // after "(" or an operator: number, variable or "("
	RuleExtraFollowing                 // after a number, variable or ")": operator or ")"
)

var ruleNames = map[Rule]string{
	RuleOneToken:         "one token rule",
	RuleValidToken:       "valid token rule",
	RuleClosingParen:     "closing parenthesis rule",
	RuleBalancedParen:    "balanced parentheses rule",
	RuleFirstToken:       "first token rule",
	RuleLastToken:        "last token rule",
	RuleParenOpFollowing: "parenthesis/operator following rule",
	RuleExtraFollowing:   "extra following rule",
}

func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// FormatError reports a formula that violates a grammar rule. Token and Pos
// locate the offending token; both are zero for rules about the whole formula.
type FormatError struct {
	Rule  Rule
	Token string
	Pos   int
}

func (e *FormatError) Error() string {
	switch e.Rule {
	case RuleOneToken:
		return "formula must contain at least one token (" + e.Rule.String() + ")"
	case RuleBalancedParen:
		return "unbalanced parentheses (" + e.Rule.String() + ")"
	default:
		return fmt.Sprintf("unexpected %q at offset %d (%s)", e.Token, e.Pos, e.Rule)
	}
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// EvalError is the result of a formula that cannot be evaluated. It is a
// value, not a failure of the caller: a cell holding one shows it as its value.
type EvalError struct {
	Reason string
}

func (e *EvalError) Error() string { return e.Reason }
