// Package token defines the indivisible lexical unit the resolver and
// declaration parsers consume.
package token

import "fmt"

// Kind tags the variant of a Token. It plays the role of the teacher's
// token.TokenType, specialized to the closed set of variants spec.md
// §3 names.
type Kind int

const (
	Ident Kind = iota
	Operator
	AssignmentOperator
	TypeAnnotationOperator
	ArrowOperator
	AnnotationOperator
	AutoscopeOperator
	NegationOperator
	LambdaOperator
	DotOperator
	SuspensionOperator
	CommaOperator
	ForeignKeyword
	OpenSymbol
	CloseSymbol
	TextLiteral
	Number
	Newline
)

func (k Kind) String() string {
	switch k {
	case Ident:
		return "Ident"
	case Operator:
		return "Operator"
	case AssignmentOperator:
		return "AssignmentOperator"
	case TypeAnnotationOperator:
		return "TypeAnnotationOperator"
	case ArrowOperator:
		return "ArrowOperator"
	case AnnotationOperator:
		return "AnnotationOperator"
	case AutoscopeOperator:
		return "AutoscopeOperator"
	case NegationOperator:
		return "NegationOperator"
	case LambdaOperator:
		return "LambdaOperator"
	case DotOperator:
		return "DotOperator"
	case SuspensionOperator:
		return "SuspensionOperator"
	case CommaOperator:
		return "CommaOperator"
	case ForeignKeyword:
		return "ForeignKeyword"
	case OpenSymbol:
		return "OpenSymbol"
	case CloseSymbol:
		return "CloseSymbol"
	case TextLiteral:
		return "TextLiteral"
	case Number:
		return "Number"
	case Newline:
		return "Newline"
	default:
		return "Unknown"
	}
}

// Span is a slice of the source text together with its byte offsets,
// so that concatenating the Text of every leaf token in traversal
// order reproduces the original input (spec.md §8, "Total coverage").
type Span struct {
	Text  string
	Start int
	End   int
}

// PositionAfter returns a zero-width Span immediately after this one,
// used to anchor synthesized empty trees at a specific source position.
func (s Span) PositionAfter() Span {
	return Span{Text: "", Start: s.End, End: s.End}
}

// PositionBefore returns a zero-width Span immediately before this one.
func (s Span) PositionBefore() Span {
	return Span{Text: "", Start: s.Start, End: s.Start}
}

// Token is an indivisible lexical unit.
type Token struct {
	Variant Kind
	// IsType is only meaningful when Variant == Ident: true for
	// identifiers lexed as type constructors (leading uppercase).
	IsType bool
	// Code is the source slice this token covers.
	Code Span
	// LeftOffset is the whitespace (or other inter-token material)
	// immediately preceding this token. Its emptiness is the sole
	// source of Spaced/Unspaced classification.
	LeftOffset Span
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Variant, t.Code.Text, t.Code.Start)
}

// IsSpaced reports whether this token was preceded by whitespace.
func (t Token) IsSpaced() bool { return t.LeftOffset.Text != "" }

// New builds a Token with no leading offset (unspaced).
func New(variant Kind, code Span) Token {
	return Token{Variant: variant, Code: code}
}

// WithLeftOffset returns a copy of the token with the given left
// offset attached.
func (t Token) WithLeftOffset(off Span) Token {
	t.LeftOffset = off
	return t
}
