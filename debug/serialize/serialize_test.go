package serialize

import (
	"testing"

	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/item"
	"github.com/wisplang/wisp/internal/lexer"
	"github.com/wisplang/wisp/internal/resolver"
	"github.com/wisplang/wisp/internal/token"
)

func itemsFromSource(t *testing.T, src string) []item.Item {
	t.Helper()
	lines := lexer.Lex(src)
	if len(lines) == 0 {
		t.Fatalf("no lines lexed from %q", src)
	}
	return lines[0].Items
}

func roundTrip(t *testing.T, tree *ast.Tree) *ast.Tree {
	t.Helper()
	data, err := Serialize(tree)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	return got
}

func TestRoundTrip_SimpleExpression(t *testing.T) {
	items := itemsFromSource(t, "x + y * 2")
	tree := resolver.New().Resolve(items)
	if tree == nil {
		t.Fatal("expected a tree")
	}
	got := roundTrip(t, tree)
	if got.Kind != ast.KindOprApp || got.Op.Code.Text != "+" {
		t.Fatalf("unexpected root after round-trip: %+v", got)
	}
	if got.Rhs == nil || got.Rhs.Kind != ast.KindOprApp || got.Rhs.Op.Code.Text != "*" {
		t.Fatalf("unexpected rhs after round-trip: %+v", got.Rhs)
	}
}

func TestRoundTrip_Section(t *testing.T) {
	items := itemsFromSource(t, "+1")
	tree := resolver.New().Resolve(items)
	if tree == nil {
		t.Fatal("expected a section tree")
	}
	if tree.Lhs != nil {
		t.Fatalf("expected a left-missing section, got lhs %+v", tree.Lhs)
	}
	got := roundTrip(t, tree)
	if got.Lhs != nil {
		t.Fatalf("lhs should still be nil after round-trip, got %+v", got.Lhs)
	}
	if got.Rhs == nil || got.Rhs.Kind != ast.KindNumber {
		t.Fatalf("expected rhs number after round-trip, got %+v", got.Rhs)
	}
}

func TestRoundTrip_Group(t *testing.T) {
	items := itemsFromSource(t, "(x + 1)")
	tree := resolver.New().Resolve(items)
	if tree == nil || tree.Kind != ast.KindGroup {
		t.Fatalf("expected a group, got %+v", tree)
	}
	got := roundTrip(t, tree)
	if got.Kind != ast.KindGroup || got.GroupClose == nil {
		t.Fatalf("unexpected group after round-trip: %+v", got)
	}
}

func TestRoundTrip_InvalidNode(t *testing.T) {
	tree := ast.WithError(ast.Ident(token.Token{Variant: token.Ident, Code: token.Span{Text: "x", Start: 0, End: 1}}),
		diagnostics.New(diagnostics.ExpectedExpression, token.Token{Code: token.Span{Start: 1, End: 1}}))
	got := roundTrip(t, &tree)
	if got.Kind != ast.KindInvalid {
		t.Fatalf("expected Invalid root, got %+v", got)
	}
	if got.Error.Code != diagnostics.ExpectedExpression {
		t.Fatalf("unexpected error code: %+v", got.Error)
	}
	if got.Inner == nil || got.Inner.IdentToken.Code.Text != "x" {
		t.Fatalf("unexpected inner tree: %+v", got.Inner)
	}
}

func TestSerialize_NilRootIsError(t *testing.T) {
	if _, err := Serialize(nil); err == nil {
		t.Fatal("expected an error serializing a nil tree")
	}
}

func TestSerialize_MissingRequiredChildIsError(t *testing.T) {
	// KindApp requires both Func and Arg; a hand-built node omitting
	// Arg must fail to serialize rather than panic.
	tree := ast.Tree{Kind: ast.KindApp, Func: &ast.Tree{Kind: ast.KindIdent}}
	if _, err := Serialize(&tree); err == nil {
		t.Fatal("expected an error serializing an App with a missing Arg")
	}
}

func TestRoundTrip_FunctionDefWithArgsAndReturn(t *testing.T) {
	body := ast.Ident(token.Token{Variant: token.Ident, Code: token.Span{Text: "x"}})
	ret := &ast.ReturnSpecification{
		Arrow: token.Token{Variant: token.ArrowOperator, Code: token.Span{Text: "->"}},
		Type:  ast.Ident(token.Token{Variant: token.Ident, Code: token.Span{Text: "Int"}}),
	}
	arg := ast.ArgumentDefinition{Pattern: ast.Ident(token.Token{Variant: token.Ident, Code: token.Span{Text: "x"}})}
	tree := ast.Tree{
		Kind:       ast.KindFunctionDef,
		FuncName:   func() *ast.Tree { n := ast.Ident(token.Token{Variant: token.Ident, Code: token.Span{Text: "f"}}); return &n }(),
		FuncArgs:   []ast.ArgumentDefinition{arg},
		FuncReturn: ret,
		FuncBody:   &body,
	}
	got := roundTrip(t, &tree)
	if got.Kind != ast.KindFunctionDef || len(got.FuncArgs) != 1 {
		t.Fatalf("unexpected function def after round-trip: %+v", got)
	}
	if got.FuncReturn == nil || got.FuncReturn.Type.IdentToken.Code.Text != "Int" {
		t.Fatalf("unexpected return spec after round-trip: %+v", got.FuncReturn)
	}
}
