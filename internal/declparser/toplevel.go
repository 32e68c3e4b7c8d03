// Package declparser implements the declaration-head analysis of
// spec.md §4.3-4.5: locating the operator that governs a flat item
// slice, splitting argument-definition slots into their pattern/type/
// default parts, and assembling function, constructor, and foreign
// function declarations from the result. It is grounded line-by-line
// on original_source/.../syntax/statement/function_def.rs.
package declparser

import (
	"github.com/wisplang/wisp/internal/config"
	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/item"
	"github.com/wisplang/wisp/internal/precedence"
	"github.com/wisplang/wisp/internal/token"
)

// TopLevelOperator is one candidate found by FindTopLevelOperator.
type TopLevelOperator struct {
	Pos   int
	Token token.Token
}

// FindTopLevelOperator scans items for the syntactic binary operator
// (spec.md §4.1: `=`, `:`, `->`, `,`) that would end up at the root of
// this slice's resolved parse: the minimum-precedence candidate not
// nested in a Group or Block, ties broken by leftmost position (spec.md
// §4.3). function_def.rs's own worked example requires this reading
// rather than a plain first-occurrence scan: `x : Int = 0` must yield
// `=` as the governing operator (with the nested `:` found only by a
// second, narrower call over the slice before it), which only happens
// if the search is precedence-ordered, since `:` appears textually
// first. Returns ok=false, err=nil when no such operator is present.
func FindTopLevelOperator(items []item.Item) (result TopLevelOperator, ok bool, err *diagnostics.SyntaxError) {
	var candidates []TopLevelOperator
	for i, it := range items {
		if it.Kind != item.KindToken {
			continue // Groups and Blocks are never top-level.
		}
		if !config.IsSyntacticBinaryOperator(it.Tok.Variant) {
			continue
		}
		candidates = append(candidates, TopLevelOperator{Pos: i, Token: it.Tok})
	}
	if len(candidates) == 0 {
		return TopLevelOperator{}, false, nil
	}

	best := candidates[0]
	bestPrec := precedenceOf(best.Token)
	tiedCount := 1
	sameKindAsBest := true
	for _, c := range candidates[1:] {
		p := precedenceOf(c.Token)
		switch {
		case p < bestPrec:
			best, bestPrec, tiedCount, sameKindAsBest = c, p, 1, true
		case p == bestPrec:
			tiedCount++
			if c.Token.Variant != best.Token.Variant {
				sameKindAsBest = false
			}
		}
	}
	if tiedCount > 1 && !sameKindAsBest {
		e := diagnostics.New(diagnostics.MultipleOperators, best.Token)
		return TopLevelOperator{}, false, &e
	}
	return best, true, nil
}

func precedenceOf(tok token.Token) precedence.Precedence {
	props, _ := config.SyntacticOperatorProperties(tok.Variant)
	p, _ := props.BinaryInfixPrecedence()
	return p
}
