package declparser

import (
	"testing"

	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/item"
	"github.com/wisplang/wisp/internal/token"
)

func arrow() token.Token {
	return token.Token{Variant: token.ArrowOperator, Code: token.Span{Text: "->"}}
}

func textLit(text string) token.Token {
	return token.Token{Variant: token.TextLiteral, Code: token.Span{Text: text}}
}

func foreignKw() token.Token {
	return token.Token{Code: token.Span{Text: "foreign"}}
}

func TestParseFunctionDecl_ArgsAndReturn(t *testing.T) {
	// add x y -> Int
	items := []item.Item{
		tok(ident("add")), spaced(ident("x")), spaced(ident("y")),
		spaced(arrow()), spaced(ident("Int")),
	}
	qn, args, ret := New().ParseFunctionDecl(items, 1)
	if qn.Kind != ast.KindIdent || qn.IdentToken.Code.Text != "add" {
		t.Fatalf("expected qualified name add, got %+v", qn)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 arguments, got %d: %+v", len(args), args)
	}
	if args[0].Pattern.IdentToken.Code.Text != "x" || args[1].Pattern.IdentToken.Code.Text != "y" {
		t.Fatalf("expected args x, y in source order, got %+v", args)
	}
	if ret == nil || ret.Type.IdentToken.Code.Text != "Int" {
		t.Fatalf("expected return type Int, got %+v", ret)
	}
}

func TestParseFunctionDecl_NoArgsNoReturn(t *testing.T) {
	items := []item.Item{tok(ident("main"))}
	qn, args, ret := New().ParseFunctionDecl(items, 1)
	if qn.IdentToken.Code.Text != "main" {
		t.Fatalf("expected qn main, got %+v", qn)
	}
	if len(args) != 0 {
		t.Fatalf("expected no arguments, got %+v", args)
	}
	if ret != nil {
		t.Fatalf("expected no return spec, got %+v", ret)
	}
}

func TestParseFunctionDecl_ArgWithTypeAndDefault(t *testing.T) {
	// add x (y : Int = 0)
	group := item.FromGroup(item.Group{
		Open: token.Token{Code: token.Span{Text: "("}, LeftOffset: token.Span{Text: " "}},
		Body: []item.Item{
			tok(ident("y")), spaced(typeAnnot()), spaced(ident("Int")),
			spaced(assign()), spaced(number("0")),
		},
		Close: &token.Token{Code: token.Span{Text: ")"}},
	})
	items := []item.Item{tok(ident("add")), spaced(ident("x")), group}
	_, args, _ := New().ParseFunctionDecl(items, 1)
	if len(args) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(args))
	}
	second := args[1]
	if second.Open == nil || second.Close == nil {
		t.Fatalf("expected the parenthesized slot to carry Open/Close, got %+v", second)
	}
	if second.Pattern.IdentToken.Code.Text != "y" {
		t.Fatalf("expected pattern y, got %+v", second.Pattern)
	}
	if second.Type == nil || second.Type.Type.IdentToken.Code.Text != "Int" {
		t.Fatalf("expected type Int, got %+v", second.Type)
	}
	if second.Default == nil || second.Default.Expression.NumberText != "0" {
		t.Fatalf("expected default 0, got %+v", second.Default)
	}
}

func TestParseConstructorDefinition_InlineArgs(t *testing.T) {
	// Point x y
	items := []item.Item{tok(ident("Point")), spaced(ident("x")), spaced(ident("y"))}
	def := New().ParseConstructorDefinition(items)
	if def.Kind != ast.KindConstructorDef || def.CtorName.Code.Text != "Point" {
		t.Fatalf("expected constructor Point, got %+v", def)
	}
	if len(def.CtorArgs) != 2 {
		t.Fatalf("expected 2 inline args, got %d", len(def.CtorArgs))
	}
	if def.CtorArgs[0].Pattern.IdentToken.Code.Text != "x" || def.CtorArgs[1].Pattern.IdentToken.Code.Text != "y" {
		t.Fatalf("expected args x, y, got %+v", def.CtorArgs)
	}
}

func TestParseConstructorDefinition_TypeArgWithDefault(t *testing.T) {
	// Point x = 0
	items := []item.Item{tok(ident("Point")), spaced(ident("x")), spaced(assign()), spaced(number("0"))}
	def := New().ParseConstructorDefinition(items)
	if len(def.CtorArgs) != 1 {
		t.Fatalf("expected 1 arg (x = 0 as a single slot), got %d: %+v", len(def.CtorArgs), def.CtorArgs)
	}
	arg := def.CtorArgs[0]
	if arg.Pattern.IdentToken.Code.Text != "x" {
		t.Fatalf("expected pattern x, got %+v", arg.Pattern)
	}
	if arg.Default == nil || arg.Default.Expression.NumberText != "0" {
		t.Fatalf("expected default 0, got %+v", arg.Default)
	}
}

func TestParseConstructorDefinition_BlockArgs(t *testing.T) {
	// Point
	//     x
	//     y
	block := item.Block{Lines: []item.Line{
		{Newline: token.Token{}, Items: []item.Item{tok(ident("x"))}},
		{Newline: token.Token{}, Items: []item.Item{tok(ident("y"))}},
	}}
	items := []item.Item{tok(ident("Point")), item.FromBlock(block)}
	def := New().ParseConstructorDefinition(items)
	if len(def.CtorArgs) != 0 {
		t.Fatalf("expected no inline args, got %+v", def.CtorArgs)
	}
	if len(def.CtorBlockArgs) != 2 {
		t.Fatalf("expected 2 block-arg lines, got %d", len(def.CtorBlockArgs))
	}
	if def.CtorBlockArgs[0].Argument == nil || def.CtorBlockArgs[0].Argument.Pattern.IdentToken.Code.Text != "x" {
		t.Fatalf("expected first block line to be pattern x, got %+v", def.CtorBlockArgs[0])
	}
}

func TestTryParseForeignFunction_Valid(t *testing.T) {
	// foreign js add a b = "a + b"
	items := []item.Item{
		tok(foreignKw()), spaced(ident("js")), spaced(ident("add")),
		spaced(ident("a")), spaced(ident("b")),
		spaced(assign()), spaced(textLit("a + b")),
	}
	tree, ok := New().TryParseForeignFunction(items)
	if !ok {
		t.Fatal("expected TryParseForeignFunction to recognize the foreign keyword")
	}
	if tree.Kind != ast.KindForeignFunctionDef {
		t.Fatalf("expected ForeignFunctionDef, got %v", tree.Kind)
	}
	if tree.ForeignLanguage.Code.Text != "js" || tree.ForeignName.Code.Text != "add" {
		t.Fatalf("expected language js, name add, got %+v / %+v", tree.ForeignLanguage, tree.ForeignName)
	}
	if len(tree.ForeignArgs) != 2 {
		t.Fatalf("expected 2 foreign args, got %d", len(tree.ForeignArgs))
	}
	if tree.ForeignBody == nil || tree.ForeignBody.Kind != ast.KindTextLiteral {
		t.Fatalf("expected a text literal body, got %+v", tree.ForeignBody)
	}
}

func TestTryParseForeignFunction_NotForeign(t *testing.T) {
	items := []item.Item{tok(ident("add")), spaced(ident("x"))}
	_, ok := New().TryParseForeignFunction(items)
	if ok {
		t.Fatal("expected ok=false when the statement doesn't start with foreign")
	}
}

func TestTryParseForeignFunction_MissingLanguage(t *testing.T) {
	// foreign = "body"
	items := []item.Item{tok(foreignKw()), spaced(assign()), spaced(textLit("body"))}
	tree, ok := New().TryParseForeignFunction(items)
	if !ok {
		t.Fatal("expected ok=true: foreign was matched, even though the shape is invalid")
	}
	if tree.Kind != ast.KindInvalid {
		t.Fatalf("expected an Invalid re-stitched expression, got %v", tree.Kind)
	}
	if tree.Error.Code != diagnostics.ForeignFnExpectedLanguage {
		t.Fatalf("expected ForeignFnExpectedLanguage, got %v", tree.Error.Code)
	}
}

func TestTryParseForeignFunction_NonTextBody(t *testing.T) {
	// foreign js add = 1
	items := []item.Item{
		tok(foreignKw()), spaced(ident("js")), spaced(ident("add")),
		spaced(assign()), spaced(number("1")),
	}
	tree, ok := New().TryParseForeignFunction(items)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if tree.Kind != ast.KindForeignFunctionDef {
		t.Fatalf("expected ForeignFunctionDef with an erroring body, got %v", tree.Kind)
	}
	if tree.ForeignBody == nil || tree.ForeignBody.Kind != ast.KindInvalid {
		t.Fatalf("expected the body to be wrapped as Invalid, got %+v", tree.ForeignBody)
	}
	if tree.ForeignBody.Error.Code != diagnostics.ForeignFnExpectedStringBody {
		t.Fatalf("expected ForeignFnExpectedStringBody, got %v", tree.ForeignBody.Error.Code)
	}
}
