package formula

import "regexp"

// Kind classifies a token.
type Kind int

const (
	Invalid Kind = iota
	LeftParen
	RightParen
	Operator
	Variable
	Number
)

func (k Kind) String() string {
	switch k {
	case LeftParen:
		return "left paren"
	case RightParen:
		return "right paren"
	case Operator:
		return "operator"
	case Variable:
		return "variable"
	case Number:
		return "number"
	default:
		return "invalid"
	}
}

// Token is one lexical element of a formula. Pos is the byte offset of Text
// in the input.
type Token struct {
	Kind Kind
	Text string
	Pos  int
}

// operand reports whether the token can stand on either side of an operator.
func (t Token) operand() bool { return t.Kind == Number || t.Kind == Variable }

var (
	tokenRegex = regexp.MustCompile(
		`(\()|(\))|([\+\-*/])|([a-zA-Z]+\d+)|((?:\d+\.\d*|\d*\.\d+|\d+)(?:[eE][\+-]?\d+)?)|(\s+)`)
	variableRegex = regexp.MustCompile(`^[a-zA-Z]+\d+$`)
	numberRegex   = regexp.MustCompile(`^(\d+(\.\d+)?|\.\d+)([eE][+-]?\d+)?$`)
)

// Tokenize splits expr into tokens. Runs of characters that match no token
// pattern become a single Invalid token; whitespace is dropped.
func Tokenize(expr string) []Token {
	var tokens []Token
	last := 0
	for _, m := range tokenRegex.FindAllStringSubmatchIndex(expr, -1) {
		if m[0] > last {
			tokens = append(tokens, Token{Kind: Invalid, Text: expr[last:m[0]], Pos: last})
		}
		last = m[1]
		if m[12] >= 0 {
			continue
		}
		text := expr[m[0]:m[1]]
		tokens = append(tokens, Token{Kind: classify(text), Text: text, Pos: m[0]})
	}
	if last < len(expr) {
		tokens = append(tokens, Token{Kind: Invalid, Text: expr[last:], Pos: last})
	}
	return tokens
}

func classify(text string) Kind {
	switch {
	case text == "(":
		return LeftParen
	case text == ")":
		return RightParen
	case text == "+" || text == "-" || text == "*" || text == "/":
		return Operator
	case variableRegex.MatchString(text):
		return Variable
	case numberRegex.MatchString(text):
		return Number
	default:
		return Invalid
	}
}
