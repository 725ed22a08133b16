package ast

import (
	"testing"

	"github.com/scriptlang/pyfrontend/pkg/source"
	"github.com/scriptlang/pyfrontend/pkg/util/assert"
)

func Test_Module_Span(t *testing.T) {
	sp := source.NewSpan(0, 10)
	mod := &Module{Body: nil, Sp: sp}

	assert.Equal(t, sp, mod.Span())
}

func Test_If_ElifDesugarsToNestedOrelse(t *testing.T) {
	inner := &If{Test: &Name{Id: "y"}, Body: []Stmt{}, Orelse: nil}
	outer := &If{Test: &Name{Id: "x"}, Body: []Stmt{}, Orelse: []Stmt{inner}}

	assert.Equal(t, 1, len(outer.Orelse))

	nested, ok := outer.Orelse[0].(*If)
	assert.True(t, ok, "elif clause should desugar to a nested *If in Orelse")
	assert.Equal(t, "y", nested.Test.(*Name).Id)
}

func Test_Compare_ChainedOperatorCountsMatch(t *testing.T) {
	cmp := &Compare{
		Left:        &Constant{Kind: IntConstant, Str: "1"},
		Ops:         []string{"<", "<="},
		Comparators: []Expr{&Constant{Kind: IntConstant, Str: "2"}, &Constant{Kind: IntConstant, Str: "3"}},
	}

	assert.Equal(t, len(cmp.Ops), len(cmp.Comparators))
}

func Test_JoinedStr_PartsAreConstantOrFormattedValue(t *testing.T) {
	js := &JoinedStr{Parts: []Expr{
		&Constant{Kind: StringConstant, Str: "n="},
		&FormattedValue{Value: &Name{Id: "n"}},
	}}

	for _, part := range js.Parts {
		switch part.(type) {
		case *Constant, *FormattedValue:
			// expected shapes
		default:
			t.Errorf("unexpected JoinedStr part type %T", part)
		}
	}
}
