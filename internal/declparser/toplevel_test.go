package declparser

import (
	"testing"

	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/item"
	"github.com/wisplang/wisp/internal/token"
)

func ident(name string) token.Token {
	return token.Token{Variant: token.Ident, Code: token.Span{Text: name}}
}

func number(text string) token.Token {
	return token.Token{Variant: token.Number, Code: token.Span{Text: text}}
}

func spaced(tok token.Token) item.Item {
	tok.LeftOffset = token.Span{Text: " "}
	return item.FromToken(tok)
}

func spacedGroup(g item.Item) item.Item {
	g.Group.Open.LeftOffset = token.Span{Text: " "}
	return g
}

func tok(t token.Token) item.Item { return item.FromToken(t) }

func assign() token.Token {
	return token.Token{Variant: token.AssignmentOperator, Code: token.Span{Text: "="}}
}

func typeAnnot() token.Token {
	return token.Token{Variant: token.TypeAnnotationOperator, Code: token.Span{Text: ":"}}
}

func comma() token.Token {
	return token.Token{Variant: token.CommaOperator, Code: token.Span{Text: ","}}
}

func TestFindTopLevelOperator_PrecedenceGoverned(t *testing.T) {
	// x : Int = 0  --  outer call finds `=` (lower precedence than `:`),
	// a narrower call over the slice before it finds `:`.
	items := []item.Item{
		tok(ident("x")), spaced(typeAnnot()), spaced(ident("Int")),
		spaced(assign()), spaced(number("0")),
	}
	top, ok, err := FindTopLevelOperator(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || top.Token.Variant != token.AssignmentOperator {
		t.Fatalf("expected = as the governing operator, got %+v ok=%v", top, ok)
	}

	inner, ok, err := FindTopLevelOperator(items[:top.Pos])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || inner.Token.Variant != token.TypeAnnotationOperator {
		t.Fatalf("expected : on the narrower slice, got %+v ok=%v", inner, ok)
	}
}

func TestFindTopLevelOperator_SkipsGroupsAndBlocks(t *testing.T) {
	group := item.FromGroup(item.Group{
		Open:  token.Token{Code: token.Span{Text: "("}},
		Body:  []item.Item{tok(ident("y")), spaced(assign()), spaced(number("1"))},
		Close: &token.Token{Code: token.Span{Text: ")"}},
	})
	items := []item.Item{tok(ident("x")), spaced(assign()), spacedGroup(group)}
	top, ok, err := FindTopLevelOperator(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || top.Pos != 1 {
		t.Fatalf("expected the outer = at position 1, got %+v ok=%v", top, ok)
	}
}

func TestFindTopLevelOperator_MultipleOperatorsIsAnError(t *testing.T) {
	// a = b, c  --  `=` and `,` share Assignment precedence but differ in
	// kind, so neither can be singled out as the governing operator.
	items := []item.Item{
		tok(ident("a")), spaced(assign()), spaced(ident("b")),
		tok(comma()), spaced(ident("c")),
	}
	_, ok, err := FindTopLevelOperator(items)
	if ok {
		t.Fatal("expected ok=false when operators tie at the same precedence")
	}
	if err == nil || err.Code != diagnostics.MultipleOperators {
		t.Fatalf("expected MultipleOperators, got %v", err)
	}
}

func TestFindTopLevelOperator_NoCandidates(t *testing.T) {
	items := []item.Item{tok(ident("x")), spaced(ident("y"))}
	_, ok, err := FindTopLevelOperator(items)
	if ok || err != nil {
		t.Fatalf("expected no operator found, got ok=%v err=%v", ok, err)
	}
}
