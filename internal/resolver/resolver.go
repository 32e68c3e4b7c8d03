// Package resolver implements the operator-precedence resolution
// algorithm of spec.md §4.2: it turns a flat sequence of Items into a
// single Tree, applying precedence climbing extended with operator
// sections and modifier desugaring. There is no direct teacher
// analogue for the section/modifier extensions (funxy's expressions.go
// Pratt loop has neither); the base precedence-climbing shape is
// grounded on that file's parseExpression loop, generalized here to a
// two-stack (operand/operator) form because sections require folding
// an operator that may turn out to have no operand on one side.
package resolver

import (
	"strings"

	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/item"
	"github.com/wisplang/wisp/internal/precedence"
	"github.com/wisplang/wisp/internal/token"
)

// operatorFrame is one entry on the operator stack: either a unary
// prefix operator awaiting its single operand, or a binary infix
// operator awaiting its rhs (and, unless hasLHS is false, its lhs).
// pendingLHS holds an operand that was already on the operand stack
// when a unary-only operator was pushed directly after it (e.g. the
// `a` in `a -b`, or the `f` in `f -1`): since the operator has no
// binary mode, spec.md §4.2 step 1 pushes it as a prefix operator
// regardless, but the juxtaposed operand still needs to end up applied
// to whatever the prefix chain eventually resolves to (step 3).
// Storing it on the frame rather than leaving it on the shared operand
// stack keeps it safe from being mistaken for the unary operator's own
// rhs if that rhs turns out to be missing.
type operatorFrame struct {
	tok        token.Token
	props      precedence.OperatorProperties
	isUnary    bool
	hasLHS     bool
	pendingLHS *ast.Tree
}

func (f operatorFrame) precedence() precedence.Precedence {
	if f.isUnary {
		p, _ := f.props.UnaryPrefixPrecedence()
		return p
	}
	p, _ := f.props.BinaryInfixPrecedence()
	return p
}

// Parser holds the scratch buffers the resolution algorithm reuses
// across calls, the way funxy's Parser reuses its token buffer (see
// internal/parser/parser.go). A Parser is not safe for concurrent use;
// callers that resolve on multiple goroutines should use one Parser
// per goroutine.
type Parser struct {
	operandStack  []ast.Tree
	operatorStack []operatorFrame
	allowSection  bool
}

// New returns a Parser with freshly allocated scratch buffers.
func New() *Parser {
	return &Parser{}
}

// Resolve turns items into a single Tree, forming operator sections
// where an operand is missing and the operator allows it. It returns
// nil only when items is empty.
func (p *Parser) Resolve(items []item.Item) *ast.Tree {
	return p.resolveCore(items, true)
}

// ResolveNonSection is Resolve with section formation suppressed: a
// missing operand always becomes (or is wrapped in) an Invalid node
// instead of a bare section. Used for contexts that must yield a
// complete tree, such as an argument's pattern or type (spec.md §4.4).
func (p *Parser) ResolveNonSection(items []item.Item) *ast.Tree {
	return p.resolveCore(items, false)
}

func (p *Parser) resolveCore(items []item.Item, allowSection bool) *ast.Tree {
	p.operandStack = p.operandStack[:0]
	p.operatorStack = p.operatorStack[:0]
	p.allowSection = allowSection
	if len(items) == 0 {
		return nil
	}

	lastWasOperand := false
	for _, it := range items {
		if tok, ok := it.AsToken(); ok {
			if props, isOp := OperatorPropertiesOf(tok); isOp {
				p.handleOperator(tok, props, &lastWasOperand, allowSection)
				continue
			}
		}
		p.handleLeaf(p.leafFromItem(it), &lastWasOperand)
	}

	for len(p.operatorStack) > 0 {
		p.foldTop(allowSection)
	}

	if len(p.operandStack) == 0 {
		return nil
	}
	result := p.operandStack[len(p.operandStack)-1]
	return &result
}

// handleLeaf processes a non-operator item: a plain operand that
// either starts a new value or, if the previous emitted token was
// itself an operand, combines with it via implicit application
// (spec.md §4.2 step 1, juxtaposition).
func (p *Parser) handleLeaf(leaf ast.Tree, lastWasOperand *bool) {
	if *lastWasOperand {
		p.foldWhileHigherPrecedence(precedence.Application, precedence.Left)
		prev, ok := p.popOperand()
		if ok {
			leaf = ast.App(prev, leaf)
		}
	}
	p.pushOperand(leaf)
	*lastWasOperand = true
}

// handleOperator dispatches an operator-like token to unary or binary
// mode based on the immediately preceding token (spec.md §4.2 step 2):
// binary mode requires a preceding operand and a binary_infix_precedence;
// unary mode requires the opposite and a unary_prefix_precedence. If
// only one mode is available in context it is used regardless of which
// the context nominally called for (this is how `+1` at the start of
// an expression, or after another operator, becomes a right section
// rather than a syntax error); if neither applies, the token is an
// error marker and is kept as an Invalid leaf so no input is dropped.
func (p *Parser) handleOperator(tok token.Token, props precedence.OperatorProperties, lastWasOperand *bool, allowSection bool) {
	_, hasUnary := props.UnaryPrefixPrecedence()
	_, hasBin := props.BinaryInfixPrecedence()

	useUnary, useBinary := false, false
	switch {
	case *lastWasOperand && hasBin:
		useBinary = true
	case *lastWasOperand && hasUnary:
		useUnary = true
	case !*lastWasOperand && hasUnary:
		useUnary = true
	case !*lastWasOperand && hasBin:
		useBinary = true
	}

	if !useUnary && !useBinary {
		leaf := ast.WithError(ast.Ident(tok), diagnostics.New(diagnostics.UnexpectedToken, tok))
		p.handleLeaf(leaf, lastWasOperand)
		return
	}

	if useUnary {
		// Prefix operators nest rather than compete for the top of the
		// stack: no pre-push fold, so that e.g. `~@x` resolves as
		// `~(@x)`: the inner `@` closes over `x` before `~` closes over
		// the result, purely by LIFO pop order at drain time.
		frame := operatorFrame{tok: tok, props: props, isUnary: true}
		if *lastWasOperand {
			if lhs, ok := p.popOperand(); ok {
				frame.pendingLHS = &lhs
			}
		}
		p.operatorStack = append(p.operatorStack, frame)
		*lastWasOperand = false
		return
	}

	// With no operand directly before it, the operator has no left
	// operand of its own: it is pushed without folding, so the operator
	// before it keeps its pending rhs and this one becomes a right
	// section over what follows.
	binPrec, _ := props.BinaryInfixPrecedence()
	hasLHS := *lastWasOperand
	if hasLHS {
		p.foldWhileHigherPrecedence(binPrec, props.Associativity())
	}
	p.operatorStack = append(p.operatorStack, operatorFrame{tok: tok, props: props, isUnary: false, hasLHS: hasLHS})
	*lastWasOperand = false
}

// foldWhileHigherPrecedence pops and folds operator-stack entries that
// must close before an operator of the given incoming precedence and
// associativity can be pushed (spec.md §4.2 step 3): an entry binds
// tighter than the incoming operator if its own precedence is strictly
// greater, or equal and the incoming operator is left-associative.
func (p *Parser) foldWhileHigherPrecedence(incoming precedence.Precedence, assoc precedence.Associativity) {
	for len(p.operatorStack) > 0 {
		top := p.operatorStack[len(p.operatorStack)-1]
		topPrec := top.precedence()
		if topPrec > incoming || (topPrec == incoming && assoc == precedence.Left) {
			p.foldTop(p.allowSection)
			continue
		}
		break
	}
}

// foldTop pops the top operator-stack frame, consumes whatever operands
// it needs from the operand stack, and pushes the resulting Tree back
// onto the operand stack (spec.md §4.2 steps 4-5).
func (p *Parser) foldTop(allowSection bool) {
	n := len(p.operatorStack)
	frame := p.operatorStack[n-1]
	p.operatorStack = p.operatorStack[:n-1]

	if frame.isUnary {
		var node ast.Tree
		if rhs, ok := p.popOperand(); ok {
			node = ast.UnaryOprApp(frame.tok, &rhs)
		} else {
			empty := ast.WithError(ast.EmptyTree(frame.tok.Code.PositionAfter()), diagnostics.New(diagnostics.ExpectedExpression, frame.tok))
			node = ast.UnaryOprApp(frame.tok, &empty)
		}
		if frame.pendingLHS != nil {
			node = ast.App(*frame.pendingLHS, node)
		}
		p.pushOperand(node)
		return
	}

	rhs, rhsOk := p.popOperand()
	var lhs ast.Tree
	lhsOk := false
	if frame.hasLHS {
		lhs, lhsOk = p.popOperand()
	}

	var lhsPtr, rhsPtr *ast.Tree
	if lhsOk {
		lhsPtr = &lhs
	}
	if rhsOk {
		rhsPtr = &rhs
	}

	node := ast.OprApp(lhsPtr, frame.tok, rhsPtr, frame.props.IsModifier())

	isSection := lhsPtr == nil || rhsPtr == nil
	if isSection {
		if frame.props.CanFormSection() && allowSection {
			p.pushOperand(node)
			return
		}
		errCode := diagnostics.ExpectedExpression
		if !frame.props.RHSIsExpression() {
			errCode = diagnostics.ExpectedType
		}
		if term, ok := frame.props.LHSSectionTermination(); ok && term == precedence.Reify {
			node = ast.WithError(ast.SectionBoundary(node), diagnostics.New(errCode, frame.tok))
		} else {
			node = ast.WithError(node, diagnostics.New(errCode, frame.tok))
		}
	}
	p.pushOperand(node)
}

func (p *Parser) pushOperand(t ast.Tree) {
	p.operandStack = append(p.operandStack, t)
}

func (p *Parser) popOperand() (ast.Tree, bool) {
	n := len(p.operandStack)
	if n == 0 {
		return ast.Tree{}, false
	}
	t := p.operandStack[n-1]
	p.operandStack = p.operandStack[:n-1]
	return t, true
}

// leafFromItem converts a non-operator Item into a Tree leaf: a Group
// is resolved recursively (a fresh sub-resolution, since its contents
// are independent of the enclosing precedence chain); a Block becomes
// an ArgumentBlockApplication or OperatorBlockApplication depending on
// whether its first line opens with an operator token (spec.md §3);
// any other token becomes an Ident, text literal, or number leaf.
func (p *Parser) leafFromItem(it item.Item) ast.Tree {
	switch it.Kind {
	case item.KindToken:
		return leafFromToken(it.Tok)
	case item.KindGroup:
		return p.leafFromGroup(it.Group)
	case item.KindBlock:
		return p.leafFromBlock(it.Block)
	default:
		return ast.EmptyTree(token.Span{})
	}
}

func leafFromToken(tok token.Token) ast.Tree {
	switch tok.Variant {
	case token.TextLiteral:
		return ast.TextLit(tok, DecodeTextLiteral(tok.Code.Text))
	case token.Number:
		return ast.NumberLit(tok)
	default:
		return ast.Ident(tok)
	}
}

// DecodeTextLiteral strips the surrounding quotes from a raw text
// literal slice and resolves its backslash escapes, producing the
// literal's semantic value. The token's own Code.Text keeps the raw
// slice (quotes and escapes included) so that concatenating leaf-token
// source slices in traversal order still reproduces the original input
// (spec.md §8, "Total coverage"); this decoding only happens here, when
// building the Tree's own Text field.
func DecodeTextLiteral(raw string) string {
	s := raw
	if len(s) > 0 && s[0] == '"' {
		s = s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == '"' {
		s = s[:len(s)-1]
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func (p *Parser) leafFromGroup(g item.Group) ast.Tree {
	sub := New()
	body := sub.Resolve(g.Body)
	if g.Close == nil {
		inner := ast.Group(g.Open, body, nil)
		at := g.Open.Code.PositionAfter()
		if body != nil {
			at = body.Span.PositionAfter()
		}
		return ast.WithError(inner, diagnostics.New(diagnostics.MismatchedParen, token.Token{Code: at}))
	}
	return ast.Group(g.Open, body, g.Close)
}

// leafFromBlock resolves each line of an indented block independently
// and joins them under a single application node, distinguishing the
// operator-block form (the first line begins with an operator token,
// e.g. a chained `+`) from the plain argument-block form (each line is
// an ordinary expression continuing the previous one). Only the first
// line's leading token decides the form.
func (p *Parser) leafFromBlock(b item.Block) ast.Tree {
	exprs := make([]ast.Tree, 0, len(b.Lines))
	isOperatorBlock := false
	for i, line := range b.Lines {
		sub := New()
		t := sub.Resolve(line.Items)
		if t == nil {
			continue
		}
		if i == 0 {
			if tok, ok := firstToken(line.Items); ok && tok.Variant != token.Ident {
				if _, isOp := OperatorPropertiesOf(tok); isOp {
					isOperatorBlock = true
				}
			}
		}
		exprs = append(exprs, *t)
	}
	kind := ast.KindArgumentBlockApplication
	if isOperatorBlock {
		kind = ast.KindOperatorBlockApplication
	}
	result := ast.Tree{Kind: kind, BlockExprs: exprs}
	if len(exprs) > 0 {
		result.Span = token.Span{Start: exprs[0].Span.Start, End: exprs[len(exprs)-1].Span.End}
	}
	return result
}

func firstToken(items []item.Item) (token.Token, bool) {
	if len(items) == 0 {
		return token.Token{}, false
	}
	return items[0].AsToken()
}
