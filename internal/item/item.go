// Package item defines the Item tagged union the resolver and
// declaration parsers drain: a flat token, a parenthesized Group, or
// an indented Block of Lines (spec.md §3).
package item

import "github.com/wisplang/wisp/internal/token"

// Kind tags which alternative an Item holds.
type Kind int

const (
	KindToken Kind = iota
	KindGroup
	KindBlock
)

// Group is a bracketed span: an open symbol, a body, and an optional
// close symbol. Close is nil when the group was never terminated
// (spec.md §3 invariant: this always yields an Invalid wrapper at the
// boundary where resolution ends).
type Group struct {
	Open  token.Token
	Body  []Item
	Close *token.Token
}

// Line is one line of an indented Block: the newline token that
// introduced it, and the items on that line.
type Line struct {
	Newline token.Token
	Items   []Item
}

// Block is a sequence of Lines produced by the lexer's off-side rule.
type Block struct {
	Lines []Line
}

// Item is a tagged union of Token, Group, or Block.
type Item struct {
	Kind  Kind
	Tok   token.Token
	Group Group
	Block Block
}

// FromToken wraps a Token as an Item.
func FromToken(t token.Token) Item { return Item{Kind: KindToken, Tok: t} }

// FromGroup wraps a Group as an Item.
func FromGroup(g Group) Item { return Item{Kind: KindGroup, Group: g} }

// FromBlock wraps a Block as an Item.
func FromBlock(b Block) Item { return Item{Kind: KindBlock, Block: b} }

// AsToken returns the wrapped Token and true if this Item holds one.
func (it Item) AsToken() (token.Token, bool) {
	if it.Kind == KindToken {
		return it.Tok, true
	}
	return token.Token{}, false
}

// blockLeftOffset is a synthetic non-empty span standing in for the
// line break and indentation that always separate a Block from
// whatever precedes it: the lexer only ever produces a Block by
// nesting a more-indented line under its predecessor, so the gap is
// never zero-width even though no single token spans it.
var blockLeftOffset = token.Span{Text: "\n"}

// LeftOffset returns the whitespace-or-similar material immediately
// preceding this item, regardless of which alternative it holds: for a
// Token it's the token's own LeftOffset; for a Group it's the left
// offset of its open token; for a Block it's always non-empty, since a
// Block can only begin after a line break.
func (it Item) LeftOffset() token.Span {
	switch it.Kind {
	case KindToken:
		return it.Tok.LeftOffset
	case KindGroup:
		return it.Group.Open.LeftOffset
	case KindBlock:
		return blockLeftOffset
	}
	return token.Span{}
}

// Spacing is derived from an item's leading whitespace and is the
// boundary signal used to split argument sequences.
type Spacing int

const (
	Unspaced Spacing = iota
	Spaced
)

// OfItem classifies the spacing of an item from its LeftOffset.
func OfItem(it Item) Spacing {
	if it.LeftOffset().Text != "" {
		return Spaced
	}
	return Unspaced
}
