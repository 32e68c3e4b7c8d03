package lexer

import (
	"testing"

	"github.com/wisplang/wisp/internal/item"
	"github.com/wisplang/wisp/internal/token"
)

func flatKinds(items []item.Item) []token.Kind {
	var out []token.Kind
	for _, it := range items {
		if tok, ok := it.AsToken(); ok {
			out = append(out, tok.Variant)
			continue
		}
		out = append(out, -1)
	}
	return out
}

func TestLex_SimpleAssignment(t *testing.T) {
	lines := Lex("x = 5")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	kinds := flatKinds(lines[0].Items)
	want := []token.Kind{token.Ident, token.AssignmentOperator, token.Number}
	if len(kinds) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("item %d: expected %v, got %v", i, want[i], kinds[i])
		}
	}
}

func TestLex_ParenthesizedGroup(t *testing.T) {
	lines := Lex("f (x : Int)")
	items := lines[0].Items
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(items), items)
	}
	if items[1].Kind != item.KindGroup {
		t.Fatalf("expected a Group for the parenthesized part, got %+v", items[1])
	}
	if items[1].Group.Close == nil || items[1].Group.Close.Code.Text != ")" {
		t.Fatalf("expected a matched close paren, got %+v", items[1].Group.Close)
	}
	body := items[1].Group.Body
	if len(body) != 3 {
		t.Fatalf("expected 3 items inside the group, got %d", len(body))
	}
}

func TestLex_UnterminatedGroupHasNilClose(t *testing.T) {
	lines := Lex("f (x")
	group := lines[0].Items[1]
	if group.Kind != item.KindGroup {
		t.Fatalf("expected a Group, got %+v", group)
	}
	if group.Group.Close != nil {
		t.Fatalf("expected a nil Close for an unterminated group, got %+v", group.Group.Close)
	}
}

func TestLex_IndentedBlockNesting(t *testing.T) {
	src := "f x =\n    y = 1\n    y\n"
	lines := Lex(src)
	if len(lines) != 1 {
		t.Fatalf("expected the indented lines to nest under the header, got %d top-level lines", len(lines))
	}
	header := lines[0].Items
	last := header[len(header)-1]
	if last.Kind != item.KindBlock {
		t.Fatalf("expected a trailing Block item, got %+v", last)
	}
	if len(last.Block.Lines) != 2 {
		t.Fatalf("expected 2 nested lines, got %d", len(last.Block.Lines))
	}
}

func TestLex_DedentEndsBlock(t *testing.T) {
	src := "f =\n    x\ng = 1\n"
	lines := Lex(src)
	if len(lines) != 2 {
		t.Fatalf("expected 2 top-level lines after the dedent, got %d", len(lines))
	}
	if lines[1].Items[0].Tok.Code.Text != "g" {
		t.Fatalf("expected the second top-level line to start with g, got %+v", lines[1].Items[0])
	}
}

func TestLex_TypeIdentIsMarked(t *testing.T) {
	lines := Lex("x : Int")
	typeTok, _ := lines[0].Items[2].AsToken()
	if !typeTok.IsType {
		t.Fatalf("expected Int to be marked as a type identifier, got %+v", typeTok)
	}
	nameTok, _ := lines[0].Items[0].AsToken()
	if nameTok.IsType {
		t.Fatalf("expected x to not be marked as a type identifier, got %+v", nameTok)
	}
}

func TestLex_NegationVsSubtraction(t *testing.T) {
	lines := Lex("a - b")
	minus, _ := lines[0].Items[1].AsToken()
	if minus.Variant != token.Operator {
		t.Fatalf("expected spaced `-` to lex as a plain Operator, got %v", minus.Variant)
	}

	lines = Lex("f -b")
	items := lines[0].Items
	neg, _ := items[1].AsToken()
	if neg.Variant != token.NegationOperator {
		t.Fatalf("expected `-b` to lex `-` as Negation, got %v", neg.Variant)
	}
}

func TestLex_TextLiteralWithEscapes(t *testing.T) {
	src := `s = "a\nb"`
	lines := Lex(src)
	lit, _ := lines[0].Items[2].AsToken()
	if lit.Variant != token.TextLiteral {
		t.Fatalf("expected a text literal, got %v", lit.Variant)
	}
	// Code.Text keeps the raw source slice (quotes and escapes intact)
	// so that leaf tokens still cover the input exactly; decoding
	// happens downstream in resolver.DecodeTextLiteral.
	if lit.Code.Text != `"a\nb"` {
		t.Fatalf("expected the raw escaped slice to be preserved, got %q", lit.Code.Text)
	}
	if got, want := lit.Code.Start, len("s = "); got != want {
		t.Fatalf("expected the literal to start at %d, got %d", want, got)
	}
	if src[lit.Code.Start:lit.Code.End] != lit.Code.Text {
		t.Fatalf("span does not match raw source slice: %q vs %q", lit.Code.Text, src[lit.Code.Start:lit.Code.End])
	}
}

func TestLex_CommentIsDropped(t *testing.T) {
	lines := Lex("x = 1 # trailing comment\ny = 2\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if len(lines[0].Items) != 3 {
		t.Fatalf("expected the comment to be dropped, got %+v", lines[0].Items)
	}
}
