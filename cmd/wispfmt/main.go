// Command wispfmt is a small debug CLI driving the parser core end to
// end: it reads a source file (or stdin), strips its metadata preamble,
// lexes it into Items, parses each top-level line into a declaration or
// bare-expression Tree, and either prints the tree or (with -b) writes
// its binary serialization. It plays the role spec.md §1 assigns to
// "the enclosing statement-level dispatcher that decides which
// declaration form to attempt" for the declaration and bare-expression
// forms needed to exercise the core; it does not attempt the other
// statement forms (if/match/trait/import/...), which are out of scope.
//
// Structure (manual os.Args handling, panic recovery in main, errors
// written with fmt.Fprintf to stderr) is grounded on cmd/funxy/main.go.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/wisplang/wisp/debug/serialize"
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/declparser"
	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/item"
	"github.com/wisplang/wisp/internal/lexer"
	"github.com/wisplang/wisp/internal/metadata"
	"github.com/wisplang/wisp/internal/resolver"
	"github.com/wisplang/wisp/internal/token"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	runID := uuid.New()

	writeBinary := false
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "-b" {
		writeBinary = true
		args = args[1:]
	}

	sourceCode, path, err := readInput(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "wispfmt run %s\n", runID)

	_, rest := metadata.Parse(sourceCode)
	lines := lexer.Lex(rest)

	module := parseModule(lines)

	diags := ast.Diagnostics(&module)
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "- %s\n", d.Error())
	}

	if writeBinary {
		data, err := serialize.Serialize(&module)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Serialization error: %s\n", err)
			os.Exit(1)
		}
		outPath := "stdin.binast"
		if path != "" {
			outPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".binast"
		}
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %s\n", outPath, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", outPath, len(data))
		return
	}

	printTree(os.Stdout, &module, 0)

	if len(diags) > 0 {
		os.Exit(1)
	}
}

func readInput(args []string) (source string, path string, err error) {
	if len(args) == 0 {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return "", "", fmt.Errorf("usage: wispfmt [-b] <file> (or pipe from stdin)")
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "", nil
	}
	path = args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	return string(data), path, nil
}

// parseModule wraps every top-level line's parsed statement under a
// single ArgumentBlockApplication root, since spec.md's Tree has no
// dedicated module/program node (outputs are "a Tree root (module)
// containing statements", spec.md §6).
func parseModule(lines []item.Line) ast.Tree {
	stmts := make([]ast.Tree, 0, len(lines))
	for _, line := range lines {
		if len(line.Items) == 0 {
			continue
		}
		stmts = append(stmts, parseStatement(line.Items))
	}
	mod := ast.Tree{Kind: ast.KindArgumentBlockApplication, BlockExprs: stmts}
	if len(stmts) > 0 {
		mod.Span = token.Span{Start: stmts[0].Span.Start, End: stmts[len(stmts)-1].Span.End}
	}
	return mod
}

// parseStatement implements the dispatch order spec.md §4.5 describes:
// try a foreign function first, then fall back to a constructor
// definition (first identifier is a type constructor) or a function
// declaration; anything else is parsed as a bare expression statement.
func parseStatement(items []item.Item) ast.Tree {
	dp := declparser.New()

	if tree, ok := dp.TryParseForeignFunction(items); ok {
		return tree
	}

	if first, ok := items[0].AsToken(); ok && first.Variant == token.Ident && first.IsType {
		return dp.ParseConstructorDefinition(items)
	}

	if top, found, err := declparser.FindTopLevelOperator(items); found && err == nil && top.Token.Variant == token.AssignmentOperator {
		return parseFunctionStatement(dp, items, top.Pos)
	}

	res := resolver.New()
	if t := res.Resolve(items); t != nil {
		return *t
	}
	return ast.EmptyTree(token.Span{})
}

func parseFunctionStatement(dp *declparser.Parser, items []item.Item, equalsPos int) ast.Tree {
	head := items[:equalsPos]
	equals, _ := items[equalsPos].AsToken()
	qnLen := qualifiedNameLength(head)
	qn, args, ret := dp.ParseFunctionDecl(head, qnLen)

	res := resolver.New()
	var body ast.Tree
	if t := res.Resolve(items[equalsPos+1:]); t != nil {
		body = *t
	} else {
		body = ast.WithError(ast.EmptyTree(equals.Code.PositionAfter()), diagnostics.New(diagnostics.ExpectedExpression, equals))
	}

	return ast.Tree{
		Kind:       ast.KindFunctionDef,
		FuncName:   &qn,
		FuncArgs:   args,
		FuncReturn: ret,
		FuncBody:   &body,
	}
}

// qualifiedNameLength scans the leading dot-joined identifier run that
// forms a declaration's name (spec.md GLOSSARY, "Qualified name").
func qualifiedNameLength(items []item.Item) int {
	if len(items) == 0 {
		return 0
	}
	n := 1
	for n+1 < len(items) {
		dot, ok := items[n].AsToken()
		if !ok || dot.Variant != token.DotOperator {
			break
		}
		name, ok2 := items[n+1].AsToken()
		if !ok2 || name.Variant != token.Ident {
			break
		}
		n += 2
	}
	return n
}

// printTree writes an indented textual rendering of t to w. It is a
// small purpose-built printer for the closed ast.Tree union, not a
// Visitor over an open class hierarchy: spec.md §9 calls for dispatch
// by pattern matching, not virtual calls, and a node-per-method
// Visitor (as the teacher's prettyprinter.TreePrinter implements for
// its own, interface-based Tree) doesn't fit this shape.
func printTree(w io.Writer, t *ast.Tree, depth int) {
	if t == nil {
		fmt.Fprintf(w, "%s<nil>\n", strings.Repeat("  ", depth))
		return
	}
	pad := strings.Repeat("  ", depth)
	switch t.Kind {
	case ast.KindIdent:
		fmt.Fprintf(w, "%sIdent(%s)\n", pad, t.IdentToken.Code.Text)
	case ast.KindTextLiteral:
		fmt.Fprintf(w, "%sTextLiteral(%q)\n", pad, t.Text)
	case ast.KindNumber:
		fmt.Fprintf(w, "%sNumber(%s)\n", pad, t.NumberText)
	case ast.KindApp:
		fmt.Fprintf(w, "%sApp\n", pad)
		printTree(w, t.Func, depth+1)
		printTree(w, t.Arg, depth+1)
	case ast.KindOprApp:
		mod := ""
		if t.IsModifierApp {
			mod = " modifier"
		}
		fmt.Fprintf(w, "%sOprApp(%s%s)\n", pad, t.Op.Code.Text, mod)
		printTree(w, t.Lhs, depth+1)
		printTree(w, t.Rhs, depth+1)
	case ast.KindUnaryOprApp:
		fmt.Fprintf(w, "%sUnaryOprApp(%s)\n", pad, t.Op.Code.Text)
		printTree(w, t.Rhs, depth+1)
	case ast.KindOprSectionBoundary:
		fmt.Fprintf(w, "%sOprSectionBoundary\n", pad)
		printTree(w, t.Inner, depth+1)
	case ast.KindGroup:
		fmt.Fprintf(w, "%sGroup\n", pad)
		printTree(w, t.GroupBody, depth+1)
	case ast.KindArgumentBlockApplication, ast.KindOperatorBlockApplication:
		name := "ArgumentBlockApplication"
		if t.Kind == ast.KindOperatorBlockApplication {
			name = "OperatorBlockApplication"
		}
		fmt.Fprintf(w, "%s%s\n", pad, name)
		for i := range t.BlockExprs {
			printTree(w, &t.BlockExprs[i], depth+1)
		}
	case ast.KindFunctionDef:
		fmt.Fprintf(w, "%sFunctionDef\n", pad)
		printTree(w, t.FuncName, depth+1)
		for i := range t.FuncArgs {
			printArgDef(w, &t.FuncArgs[i], depth+1)
		}
		if t.FuncReturn != nil {
			fmt.Fprintf(w, "%s  Return ->\n", pad)
			printTree(w, &t.FuncReturn.Type, depth+2)
		}
		printTree(w, t.FuncBody, depth+1)
	case ast.KindConstructorDef:
		fmt.Fprintf(w, "%sConstructorDef(%s)\n", pad, t.CtorName.Code.Text)
		for i := range t.CtorArgs {
			printArgDef(w, &t.CtorArgs[i], depth+1)
		}
		for _, line := range t.CtorBlockArgs {
			if line.Argument != nil {
				printArgDef(w, line.Argument, depth+1)
			}
		}
	case ast.KindForeignFunctionDef:
		fmt.Fprintf(w, "%sForeignFunctionDef(%s, %s)\n", pad, t.ForeignLanguage.Code.Text, t.ForeignName.Code.Text)
		for i := range t.ForeignArgs {
			printArgDef(w, &t.ForeignArgs[i], depth+1)
		}
		printTree(w, t.ForeignBody, depth+1)
	case ast.KindInvalid:
		fmt.Fprintf(w, "%sInvalid(%s)\n", pad, t.Error.Code)
		printTree(w, t.Inner, depth+1)
	default:
		fmt.Fprintf(w, "%sUnknown(kind=%d)\n", pad, t.Kind)
	}
}

func printArgDef(w io.Writer, a *ast.ArgumentDefinition, depth int) {
	pad := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%sArgumentDefinition\n", pad)
	printTree(w, &a.Pattern, depth+1)
	if a.Type != nil {
		fmt.Fprintf(w, "%s  Type\n", pad)
		printTree(w, &a.Type.Type, depth+2)
	}
	if a.Default != nil {
		fmt.Fprintf(w, "%s  Default\n", pad)
		printTree(w, &a.Default.Expression, depth+2)
	}
}
