package metadata

import "testing"

func TestParse_NoPreamble(t *testing.T) {
	meta, rest := Parse("x = 1\ny = 2\n")
	if meta != "" {
		t.Fatalf("expected no metadata, got %q", meta)
	}
	if rest != "x = 1\ny = 2\n" {
		t.Fatalf("expected rest to be the whole input, got %q", rest)
	}
}

func TestParse_WithPreamble(t *testing.T) {
	input := "author: jane\nversion: 1\n---\n\nx = 1\n"
	meta, rest := Parse(input)
	if meta != "author: jane\nversion: 1" {
		t.Fatalf("unexpected metadata: %q", meta)
	}
	if rest != "x = 1\n" {
		t.Fatalf("unexpected rest: %q", rest)
	}
}

func TestParse_MarkerWithoutBlankLineIsNotAPreamble(t *testing.T) {
	input := "---\nx = 1\n"
	meta, rest := Parse(input)
	if meta != "" {
		t.Fatalf("expected no metadata when --- isn't followed by a blank line, got %q", meta)
	}
	if rest != input {
		t.Fatalf("expected rest to be the whole input, got %q", rest)
	}
}

func TestParse_EmptyPreamble(t *testing.T) {
	input := "---\n\nx = 1\n"
	meta, rest := Parse(input)
	if meta != "" {
		t.Fatalf("expected empty metadata, got %q", meta)
	}
	if rest != "x = 1\n" {
		t.Fatalf("unexpected rest: %q", rest)
	}
}

func TestParse_CRLFLineEndings(t *testing.T) {
	// The marker and blank-line checks tolerate a trailing \r, but the
	// returned text is never rewritten: rest must stay a byte-exact
	// substring of input, since it's what the lexer sees next.
	input := "author: jane\r\n---\r\n\r\nx = 1\r\n"
	meta, rest := Parse(input)
	if meta != "author: jane\r" {
		t.Fatalf("unexpected metadata: %q", meta)
	}
	if rest != "x = 1\r\n" {
		t.Fatalf("unexpected rest: %q", rest)
	}
}
