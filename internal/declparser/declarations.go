package declparser

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/item"
	"github.com/wisplang/wisp/internal/token"
)

// ParseFunctionDecl implements spec.md §4.5's function declaration
// parser. items[:qnLen] is the qualified name; the remainder is
// scanned for argument boundaries (every spaced item starts a new
// argument) and an optional trailing `->` return type. Per spec.md §9
// ("Iteration order for argument collection"), arguments are located
// left-to-right but parsed right-to-left, since each slot is resolved
// against everything still remaining to its right; the result is
// reversed before being returned so callers see source order.
func (p *Parser) ParseFunctionDecl(items []item.Item, qnLen int) (ast.Tree, []ast.ArgumentDefinition, *ast.ReturnSpecification) {
	arrowPos := -1
	for i := qnLen; i < len(items); i++ {
		if tok, ok := items[i].AsToken(); ok && tok.Variant == token.ArrowOperator {
			arrowPos = i
			break
		}
	}

	body := items
	var ret *ast.ReturnSpecification
	if arrowPos >= 0 {
		arrow, _ := items[arrowPos].AsToken()
		typeTree := p.resolveNonSectionOrEmpty(items[arrowPos+1:], arrow.Code.PositionAfter(), diagnostics.ExpectedExpression)
		ret = &ast.ReturnSpecification{Arrow: arrow, Type: typeTree}
		body = items[:arrowPos]
	}

	var argStarts []int
	for i := qnLen; i < len(body); i++ {
		if i == qnLen || item.OfItem(body[i]) == item.Spaced {
			argStarts = append(argStarts, i)
		}
	}

	args := make([]ast.ArgumentDefinition, 0, len(argStarts))
	end := len(body)
	for i := len(argStarts) - 1; i >= 0; i-- {
		start := argStarts[i]
		args = append(args, p.ParseArgDef(body[start:end]))
		end = start
	}
	reverseArgDefs(args)

	qn := p.resolveNonSectionOrEmpty(body[:end], token.Span{}, diagnostics.ExpectedExpression)
	return qn, args, ret
}

// ParseConstructorDefinition implements spec.md §4.5's constructor
// parser: an optional trailing Block supplies newline-separated
// additional argument lines, and the head is a name followed by
// type-style arguments.
func (p *Parser) ParseConstructorDefinition(items []item.Item) ast.Tree {
	var blockArgs []ast.ArgumentDefinitionLine
	if n := len(items); n > 0 && items[n-1].Kind == item.KindBlock {
		block := items[n-1].Block
		items = items[:n-1]
		blockArgs = make([]ast.ArgumentDefinitionLine, 0, len(block.Lines))
		for _, line := range block.Lines {
			var arg *ast.ArgumentDefinition
			if len(line.Items) > 0 {
				a := p.ParseArgDef(line.Items)
				arg = &a
			}
			blockArgs = append(blockArgs, ast.ArgumentDefinitionLine{Newline: line.Newline, Argument: arg})
		}
	}

	name, inlineArgs := p.parseConstructorDecl(items)
	return ast.Tree{
		Kind:          ast.KindConstructorDef,
		CtorName:      name,
		CtorArgs:      inlineArgs,
		CtorBlockArgs: blockArgs,
	}
}

func (p *Parser) parseConstructorDecl(items []item.Item) (token.Token, []ast.ArgumentDefinition) {
	if len(items) == 0 {
		return token.Token{}, nil
	}
	name, _ := items[0].AsToken()
	return name, p.ParseTypeArgs(items[1:])
}

// ParseTypeArgs implements spec.md §4.5's type-style argument list: the
// first item always starts an argument slot, further spaced items start
// more slots, and an `=` puts the scanner into "expecting RHS" mode so
// that `x = default` occupies a single slot instead of splitting in two.
func (p *Parser) ParseTypeArgs(rest []item.Item) []ast.ArgumentDefinition {
	if len(rest) == 0 {
		return nil
	}
	argStarts := []int{0}
	expectingRHS := false
	for i := 1; i < len(rest); i++ {
		if expectingRHS {
			expectingRHS = false
			continue
		}
		if tok, ok := rest[i].AsToken(); ok && tok.Variant == token.AssignmentOperator {
			expectingRHS = true
			continue
		}
		if item.OfItem(rest[i]) == item.Spaced {
			argStarts = append(argStarts, i)
		}
	}
	args := make([]ast.ArgumentDefinition, 0, len(argStarts))
	end := len(rest)
	for i := len(argStarts) - 1; i >= 0; i-- {
		start := argStarts[i]
		args = append(args, p.ParseArgDef(rest[start:end]))
		end = start
	}
	reverseArgDefs(args)
	return args
}

// TryParseForeignFunction implements spec.md §4.5's foreign function
// recognizer: the literal keyword `foreign`, two non-type identifiers
// (language, name), zero or more arguments, `=`, and a text-literal
// body. A missing or malformed language or name re-resolves the
// original tokens as a plain (non-section) expression carrying the
// error; a missing or non-text body keeps the ForeignFunctionDef and
// wraps only its body in an Invalid node. Either way no input is ever
// dropped (spec.md §4.6).
func (p *Parser) TryParseForeignFunction(items []item.Item) (ast.Tree, bool) {
	if len(items) == 0 {
		return ast.Tree{}, false
	}
	kw, ok := items[0].AsToken()
	if !ok || kw.Code.Text != "foreign" {
		return ast.Tree{}, false
	}

	top, found, _ := FindTopLevelOperator(items)
	headEnd := len(items)
	var equals token.Token
	var bodyItems []item.Item
	haveBody := false
	if found && top.Token.Variant == token.AssignmentOperator {
		equals, _ = items[top.Pos].AsToken()
		bodyItems = items[top.Pos+1:]
		headEnd = top.Pos
		haveBody = true
	}
	head := items[1:headEnd]

	if len(head) < 1 || !isPlainIdent(head[0]) {
		return p.restitchForeignError(items, kw, diagnostics.ForeignFnExpectedLanguage), true
	}
	if len(head) < 2 || !isPlainIdent(head[1]) {
		return p.restitchForeignError(items, kw, diagnostics.ForeignFnExpectedName), true
	}
	language, _ := head[0].AsToken()
	name, _ := head[1].AsToken()

	var body ast.Tree
	switch {
	case !haveBody:
		body = ast.WithError(ast.EmptyTree(kw.Code.PositionAfter()), diagnostics.New(diagnostics.ForeignFnExpectedStringBody, kw))
	default:
		resolved := p.res.ResolveNonSection(bodyItems)
		switch {
		case resolved == nil:
			body = ast.WithError(ast.EmptyTree(equals.Code.PositionAfter()), diagnostics.New(diagnostics.ForeignFnExpectedStringBody, equals))
		case resolved.Kind != ast.KindTextLiteral:
			body = ast.WithError(*resolved, diagnostics.New(diagnostics.ForeignFnExpectedStringBody, equals))
		default:
			body = *resolved
		}
	}

	argItems := head[2:]
	var args []ast.ArgumentDefinition
	if len(argItems) > 0 {
		argStarts := []int{0}
		for i := 1; i < len(argItems); i++ {
			if item.OfItem(argItems[i]) == item.Spaced {
				argStarts = append(argStarts, i)
			}
		}
		end := len(argItems)
		for i := len(argStarts) - 1; i >= 0; i-- {
			start := argStarts[i]
			args = append(args, p.ParseArgDef(argItems[start:end]))
			end = start
		}
		reverseArgDefs(args)
	}

	keyword := token.Token{Variant: token.ForeignKeyword, Code: kw.Code, LeftOffset: kw.LeftOffset}
	return ast.Tree{
		Kind:            ast.KindForeignFunctionDef,
		ForeignKeyword:  keyword,
		ForeignLanguage: language,
		ForeignName:     name,
		ForeignArgs:     args,
		ForeignEquals:   equals,
		ForeignBody:     &body,
	}, true
}

func (p *Parser) restitchForeignError(items []item.Item, anchor token.Token, code diagnostics.Code) ast.Tree {
	resolved := p.res.ResolveNonSection(items)
	var t ast.Tree
	if resolved != nil {
		t = *resolved
	} else {
		t = ast.EmptyTree(anchor.Code)
	}
	return ast.WithError(t, diagnostics.New(code, anchor))
}

func isPlainIdent(it item.Item) bool {
	tok, ok := it.AsToken()
	return ok && tok.Variant == token.Ident && !tok.IsType
}

func reverseArgDefs(s []ast.ArgumentDefinition) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
