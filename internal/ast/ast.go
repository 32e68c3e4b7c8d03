// Package ast defines Tree, the output of the precedence resolver and
// declaration parsers (spec.md §3). Tree is a single closed tagged
// union rather than an interface hierarchy: dispatch on Kind, not on
// virtual calls (spec.md §9, "Tagged variants over inheritance").
package ast

import (
	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/token"
)

// Kind tags which alternative a Tree holds.
type Kind int

const (
	KindIdent Kind = iota
	KindApp
	KindOprApp
	KindOprSectionBoundary
	KindUnaryOprApp
	KindTextLiteral
	KindNumber
	KindGroup
	KindArgumentBlockApplication
	KindOperatorBlockApplication
	KindFunctionDef
	KindConstructorDef
	KindForeignFunctionDef
	KindInvalid
)

func (k Kind) String() string {
	names := [...]string{
		"Ident", "App", "OprApp", "OprSectionBoundary", "UnaryOprApp",
		"TextLiteral", "Number", "Group", "ArgumentBlockApplication",
		"OperatorBlockApplication", "FunctionDef", "ConstructorDef",
		"ForeignFunctionDef", "Invalid",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// ArgumentDefault is the `= expression` suffix of an ArgumentDefinition.
type ArgumentDefault struct {
	Equals     token.Token
	Expression Tree
}

// ArgumentType is the `: type` suffix of an ArgumentDefinition.
type ArgumentType struct {
	Operator token.Token
	Type     Tree
}

// ArgumentDefinition is one parsed argument slot of a declaration head
// (spec.md §3). A pattern may be nested within at most two levels of
// parentheses: the inner pair attributable to a type ascription
// (Open2/Close2), the outer to the whole slot including any default
// (Open/Close).
type ArgumentDefinition struct {
	Open       *token.Token
	Open2      *token.Token
	Suspension *token.Token
	Pattern    Tree
	Type       *ArgumentType
	Close2     *token.Token
	Default    *ArgumentDefault
	Close      *token.Token
}

// ArgumentDefinitionLine is one line of a constructor's block-form
// argument list (spec.md §4.5).
type ArgumentDefinitionLine struct {
	Newline  token.Token
	Argument *ArgumentDefinition
}

// ReturnSpecification is the `-> type` suffix of a function
// declaration head.
type ReturnSpecification struct {
	Arrow token.Token
	Type  Tree
}

// Tree is the AST node produced by the resolver and declaration
// parsers. Exactly one set of the fields documented per Kind below is
// meaningful for a given value; the rest are zero.
type Tree struct {
	Kind Kind
	Span token.Span

	// KindIdent
	IdentToken token.Token

	// KindApp: implicit function application (juxtaposition)
	Func *Tree
	Arg  *Tree

	// KindOprApp / KindUnaryOprApp
	Lhs           *Tree // nil for a right section or a unary application
	Op            token.Token
	Rhs           *Tree // nil for a left section
	IsModifierApp bool  // true when Op is a modifier operator (e.g. +=)

	// KindOprSectionBoundary / KindInvalid: a single wrapped child.
	Inner *Tree
	Error diagnostics.SyntaxError

	// KindTextLiteral
	Text string

	// KindNumber
	NumberText string

	// KindGroup
	GroupOpen  token.Token
	GroupBody  *Tree
	GroupClose *token.Token

	// KindArgumentBlockApplication / KindOperatorBlockApplication
	BlockLHS   *Tree
	BlockExprs []Tree

	// KindFunctionDef
	FuncName   *Tree
	FuncArgs   []ArgumentDefinition
	FuncReturn *ReturnSpecification
	FuncBody   *Tree

	// KindConstructorDef
	CtorName      token.Token
	CtorArgs      []ArgumentDefinition
	CtorBlockArgs []ArgumentDefinitionLine

	// KindForeignFunctionDef
	ForeignKeyword  token.Token
	ForeignLanguage token.Token
	ForeignName     token.Token
	ForeignArgs     []ArgumentDefinition
	ForeignEquals   token.Token
	ForeignBody     *Tree
}

// Ident builds an identifier leaf.
func Ident(tok token.Token) Tree {
	return Tree{Kind: KindIdent, Span: tok.Code, IdentToken: tok}
}

// TextLit builds a text literal leaf.
func TextLit(tok token.Token, text string) Tree {
	return Tree{Kind: KindTextLiteral, Span: tok.Code, Text: text, IdentToken: tok}
}

// NumberLit builds a number literal leaf.
func NumberLit(tok token.Token) Tree {
	return Tree{Kind: KindNumber, Span: tok.Code, NumberText: tok.Code.Text, IdentToken: tok}
}

// App builds an implicit function application.
func App(fn, arg Tree) Tree {
	return Tree{Kind: KindApp, Span: span(fn.Span, arg.Span), Func: &fn, Arg: &arg}
}

// OprApp builds a binary operator application. Either lhs or rhs may
// be nil (a section); modifier marks the node as a modifier-operator
// application (e.g. `x += 1` desugars to an OprApp over `+=` flagged
// IsModifierApp, per spec.md §4.2 step 4).
func OprApp(lhs *Tree, op token.Token, rhs *Tree, modifier bool) Tree {
	t := Tree{Kind: KindOprApp, Op: op, Lhs: lhs, Rhs: rhs, IsModifierApp: modifier}
	t.Span = oprSpan(lhs, op, rhs)
	return t
}

// UnaryOprApp builds a unary-prefix operator application.
func UnaryOprApp(op token.Token, rhs *Tree) Tree {
	t := Tree{Kind: KindUnaryOprApp, Op: op, Rhs: rhs}
	if rhs != nil {
		t.Span = span(op.Code, rhs.Span)
	} else {
		t.Span = op.Code
	}
	return t
}

// SectionBoundary wraps a section subtree that must be reified at the
// scope boundary that forbids further section propagation (spec.md
// §4.2 step 5, SectionTermination.Reify).
func SectionBoundary(inner Tree) Tree {
	return Tree{Kind: KindOprSectionBoundary, Span: inner.Span, Inner: &inner}
}

// Group builds a parenthesized group node. Close is nil when the
// group was never terminated.
func Group(open token.Token, body *Tree, close *token.Token) Tree {
	t := Tree{Kind: KindGroup, GroupOpen: open, GroupBody: body, GroupClose: close}
	end := open.Code
	if close != nil {
		end = close.Code
	} else if body != nil {
		end = body.Span
	}
	t.Span = span(open.Code, end)
	return t
}

// EmptyTree synthesizes a zero-width placeholder tree at the given
// position, used when a required subtree is missing (spec.md §4.4
// step 5, §4.5 error recovery).
func EmptyTree(at token.Span) Tree {
	return Tree{Kind: KindIdent, Span: at, IdentToken: token.Token{Code: at}}
}

// WithError wraps t in an Invalid node carrying err. This is the sole
// mechanism by which a SyntaxError enters the tree (spec.md §7): no
// panics, no error return channel.
func WithError(t Tree, err diagnostics.SyntaxError) Tree {
	return Tree{Kind: KindInvalid, Span: t.Span, Inner: &t, Error: err}
}

// MaybeWithError wraps t in an Invalid node iff err is non-nil.
func MaybeWithError(t Tree, err *diagnostics.SyntaxError) Tree {
	if err == nil {
		return t
	}
	return WithError(t, *err)
}

func span(a, b token.Span) token.Span {
	start := a.Start
	if b.Start < start {
		start = b.Start
	}
	end := a.End
	if b.End > end {
		end = b.End
	}
	return token.Span{Start: start, End: end}
}

func oprSpan(lhs *Tree, op token.Token, rhs *Tree) token.Span {
	s := op.Code
	if lhs != nil {
		s = span(lhs.Span, s)
	}
	if rhs != nil {
		s = span(s, rhs.Span)
	}
	return s
}

// Walk visits every node of t in source order, calling visit on each.
// Used to gather Invalid nodes for diagnostic reporting (spec.md §7,
// "diagnostics are collected by walking the tree").
func Walk(t *Tree, visit func(*Tree)) {
	if t == nil {
		return
	}
	visit(t)
	switch t.Kind {
	case KindApp:
		Walk(t.Func, visit)
		Walk(t.Arg, visit)
	case KindOprApp:
		Walk(t.Lhs, visit)
		Walk(t.Rhs, visit)
	case KindUnaryOprApp:
		Walk(t.Rhs, visit)
	case KindOprSectionBoundary, KindInvalid:
		Walk(t.Inner, visit)
	case KindGroup:
		Walk(t.GroupBody, visit)
	case KindArgumentBlockApplication, KindOperatorBlockApplication:
		Walk(t.BlockLHS, visit)
		for i := range t.BlockExprs {
			Walk(&t.BlockExprs[i], visit)
		}
	case KindFunctionDef:
		Walk(t.FuncName, visit)
		for i := range t.FuncArgs {
			walkArgDef(&t.FuncArgs[i], visit)
		}
		if t.FuncReturn != nil {
			Walk(&t.FuncReturn.Type, visit)
		}
		Walk(t.FuncBody, visit)
	case KindConstructorDef:
		for i := range t.CtorArgs {
			walkArgDef(&t.CtorArgs[i], visit)
		}
		for i := range t.CtorBlockArgs {
			if t.CtorBlockArgs[i].Argument != nil {
				walkArgDef(t.CtorBlockArgs[i].Argument, visit)
			}
		}
	case KindForeignFunctionDef:
		for i := range t.ForeignArgs {
			walkArgDef(&t.ForeignArgs[i], visit)
		}
		Walk(t.ForeignBody, visit)
	}
}

func walkArgDef(a *ArgumentDefinition, visit func(*Tree)) {
	Walk(&a.Pattern, visit)
	if a.Type != nil {
		Walk(&a.Type.Type, visit)
	}
	if a.Default != nil {
		Walk(&a.Default.Expression, visit)
	}
}

// Diagnostics collects every SyntaxError attached to an Invalid node
// beneath t, in source order.
func Diagnostics(t *Tree) []diagnostics.SyntaxError {
	var out []diagnostics.SyntaxError
	Walk(t, func(n *Tree) {
		if n.Kind == KindInvalid {
			out = append(out, n.Error)
		}
	})
	return out
}
