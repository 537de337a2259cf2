package sheet

import (
	"github.com/matzehuels/gridcalc/pkg/formula"
)

// Contents is what a cell holds: Text, Number or Formula.
type Contents interface {
	isContents()
	// StringForm is the text that, passed to SetContentsOfCell, reproduces
	// the contents.
	StringForm() string
}

// Value is what a cell evaluates to: Text, Number or ErrorValue.
type Value interface {
	isValue()
	// String is the value as shown in a grid.
	String() string
}

// Text is literal text contents and value.
type Text string

// Number is numeric contents and value.
type Number float64

// Formula is formula contents.
type Formula struct {
	*formula.Formula
}

// ErrorValue is the value of a formula that could not be evaluated.
type ErrorValue struct {
	Err *formula.EvalError
}

func (Text) isContents()    {}
func (Number) isContents()  {}
func (Formula) isContents() {}

func (Text) isValue()       {}
func (Number) isValue()     {}
func (ErrorValue) isValue() {}

func (t Text) StringForm() string    { return string(t) }
func (n Number) StringForm() string  { return formula.FormatNumber(float64(n)) }
func (f Formula) StringForm() string { return "=" + f.Formula.String() }

func (t Text) String() string   { return string(t) }
func (n Number) String() string { return formula.FormatNumber(float64(n)) }

// String returns "#ERROR"; the reason is available from Reason.
func (e ErrorValue) String() string { return "#ERROR" }

// Reason explains why the formula could not be evaluated.
func (e ErrorValue) Reason() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Reason
}

// Cell is a snapshot of one stored cell.
type Cell struct {
	Name     string
	Contents Contents
	Value    Value
}

// StringForm is the persisted form of the cell's contents.
func (c Cell) StringForm() string { return c.Contents.StringForm() }
