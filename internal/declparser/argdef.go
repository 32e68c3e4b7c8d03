package declparser

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/item"
	"github.com/wisplang/wisp/internal/resolver"
	"github.com/wisplang/wisp/internal/token"
)

// Parser holds the reusable resolver scratch state declaration parsing
// drives (spec.md §5: "A Parser value holds reusable scratch buffers").
// It is not safe for concurrent use.
type Parser struct {
	res *resolver.Parser
}

// New returns a Parser with a fresh resolver.
func New() *Parser {
	return &Parser{res: resolver.New()}
}

// argDefInfo is the result of analyzeArgDef: which top-level operators
// govern an argument slot's body, mirroring function_def.rs's ArgDefInfo.
type argDefInfo struct {
	hasType           bool
	typeParenthesized bool
	typePos           int
	hasDefault        bool
	defaultPos        int
}

// analyzeArgDef implements spec.md §4.4 step 2: classify the top-level
// operators of an argument slot's body (already unwrapped of its own
// outer Group, if any) into an optional type ascription and an
// optional default.
func analyzeArgDef(outer []item.Item) (argDefInfo, *diagnostics.SyntaxError) {
	var info argDefInfo

	top, ok, err := FindTopLevelOperator(outer)
	if err != nil {
		return info, err
	}
	if ok {
		switch top.Token.Variant {
		case token.TypeAnnotationOperator:
			info.hasType, info.typePos = true, top.Pos
		case token.AssignmentOperator:
			info.hasDefault, info.defaultPos = true, top.Pos
			innerTop, innerOk, innerErr := FindTopLevelOperator(outer[:top.Pos])
			if innerErr != nil {
				return info, innerErr
			}
			if innerOk {
				if innerTop.Token.Variant != token.TypeAnnotationOperator {
					e := diagnostics.New(diagnostics.ArgDefUnexpectedOpInParenClause, innerTop.Token)
					return info, &e
				}
				info.hasType, info.typePos = true, innerTop.Pos
			}
		default:
			e := diagnostics.New(diagnostics.ArgDefUnexpectedOpInParenClause, top.Token)
			return info, &e
		}
	}

	if !info.hasType && len(outer) > 0 && outer[0].Kind == item.KindGroup {
		inner := outer[0].Group
		innerOp, innerOk, innerErr := FindTopLevelOperator(inner.Body)
		if innerErr != nil {
			return info, innerErr
		}
		if !innerOk {
			e := diagnostics.New(diagnostics.ArgDefSpuriousParens, inner.Open)
			return info, &e
		}
		if innerOp.Token.Variant != token.TypeAnnotationOperator {
			e := diagnostics.New(diagnostics.ArgDefUnexpectedOpInParenClause, innerOp.Token)
			return info, &e
		}
		info.hasType, info.typeParenthesized, info.typePos = true, true, innerOp.Pos
	}

	return info, nil
}

// ParseArgDef parses one argument-definition slot (spec.md §4.4): the
// items between two spaced-item boundaries in a declaration head, or
// one line of a constructor's block-form argument list.
func (p *Parser) ParseArgDef(slot []item.Item) ast.ArgumentDefinition {
	var open1, close1 *token.Token
	items := slot
	if len(items) == 1 && items[0].Kind == item.KindGroup {
		g := items[0].Group
		open1, close1 = &g.Open, g.Close
		items = g.Body
	}

	info, err := analyzeArgDef(items)
	if err != nil {
		pattern := ast.WithError(p.resolveNonSectionOrEmpty(items, token.Span{}, diagnostics.ArgDefExpectedPattern), *err)
		return ast.ArgumentDefinition{Open: open1, Pattern: pattern, Close: close1}
	}

	var def *ast.ArgumentDefault
	if info.hasDefault {
		equals, _ := items[info.defaultPos].AsToken()
		rhs := items[info.defaultPos+1:]
		expr := p.resolveOrEmpty(rhs, equals.Code.PositionAfter(), diagnostics.ExpectedExpression, equals)
		def = &ast.ArgumentDefault{Equals: equals, Expression: expr}
		items = items[:info.defaultPos]
	}

	var open2, close2 *token.Token
	var argType *ast.ArgumentType
	if info.hasType {
		typeItems := items
		typePos := info.typePos
		if info.typeParenthesized && len(items) == 1 && items[0].Kind == item.KindGroup {
			g := items[0].Group
			open2, close2 = &g.Open, g.Close
			items = g.Body
			typeItems = items
		}
		operator, _ := typeItems[typePos].AsToken()
		rhs := typeItems[typePos+1:]
		typeTree := p.resolveNonSectionOrEmpty(rhs, operator.Code.PositionAfter(), diagnostics.ExpectedType)
		argType = &ast.ArgumentType{Operator: operator, Type: typeTree}
		items = typeItems[:typePos]
	}

	suspension, patternTree := p.parsePattern(items)
	var pattern ast.Tree
	if patternTree != nil {
		pattern = *patternTree
	} else {
		at := argDefFallbackPosition(suspension, open2, open1, argType, close2, def, close1)
		pattern = ast.WithError(ast.EmptyTree(at), diagnostics.New(diagnostics.ArgDefExpectedPattern, token.Token{Code: at}))
	}

	return ast.ArgumentDefinition{
		Open: open1, Open2: open2, Suspension: suspension,
		Pattern: pattern, Type: argType, Close2: close2,
		Default: def, Close: close1,
	}
}

// parsePattern implements spec.md §4.4 step 5: an optional leading `~`
// suspension marker followed by a pattern subtree, resolved without
// section formation (a pattern is not a partially-applicable value).
func (p *Parser) parsePattern(items []item.Item) (*token.Token, *ast.Tree) {
	var suspension *token.Token
	if len(items) > 0 {
		if tok, ok := items[0].AsToken(); ok && tok.Variant == token.SuspensionOperator {
			suspension = &tok
			items = items[1:]
		}
	}
	return suspension, p.res.ResolveNonSection(items)
}

func (p *Parser) resolveOrEmpty(items []item.Item, at token.Span, code diagnostics.Code, errTok token.Token) ast.Tree {
	if t := p.res.Resolve(items); t != nil {
		return *t
	}
	return ast.WithError(ast.EmptyTree(at), diagnostics.New(code, errTok))
}

func (p *Parser) resolveNonSectionOrEmpty(items []item.Item, at token.Span, code diagnostics.Code) ast.Tree {
	if t := p.res.ResolveNonSection(items); t != nil {
		return *t
	}
	return ast.WithError(ast.EmptyTree(at), diagnostics.New(code, token.Token{Code: at}))
}

// argDefFallbackPosition synthesizes an anchor for the missing-pattern
// Invalid node, preferring the first of these that is present (spec.md
// §4.4 step 5's precedence-ordered fallback).
func argDefFallbackPosition(suspension, open2, open1 *token.Token, argType *ast.ArgumentType, close2 *token.Token, def *ast.ArgumentDefault, close1 *token.Token) token.Span {
	if suspension != nil {
		return suspension.Code.PositionAfter()
	}
	if open2 != nil {
		return open2.Code.PositionAfter()
	}
	if open1 != nil {
		return open1.Code.PositionAfter()
	}
	if argType != nil {
		return argType.Operator.LeftOffset.PositionBefore()
	}
	if close2 != nil {
		return close2.LeftOffset.PositionBefore()
	}
	if def != nil {
		return def.Equals.LeftOffset.PositionBefore()
	}
	if close1 != nil {
		return close1.LeftOffset.PositionBefore()
	}
	return token.Span{}
}
