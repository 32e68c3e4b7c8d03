// Package serialize implements the binary AST codec spec.md §6 asks
// an external `serialize(&ast)` function to provide: a stable,
// length-prefixed record format that is lossless, deterministic for
// identical ASTs, and returns an error rather than panicking on
// unserializable input (a Tree with a nil child in a position its Kind
// requires to be present). The concrete wire layout is this repo's own
// design, grounded on the responsibility described by
// original_source/.../debug/src/bin/binary_ast.rs (a CLI that drives a
// parse and writes the result to a `.binast` file) rather than on any
// fixed format from that file, since the original's actual byte layout
// is not part of the retrieved excerpt.
package serialize

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/token"
)

// presence markers for optional (possibly-nil) fields.
const (
	absent  byte = 0
	present byte = 1
)

// Serialize encodes t into its deterministic binary form. t must not
// be nil; Serialize returns an error instead of panicking if t (or any
// descendant) omits a child its Kind requires.
func Serialize(t *ast.Tree) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("serialize: root tree is nil")
	}
	var buf bytes.Buffer
	if err := writeTree(&buf, t, true); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Deserialize decodes a tree previously produced by Serialize.
func Deserialize(data []byte) (*ast.Tree, error) {
	r := bytes.NewReader(data)
	t, err := readTree(r, true)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("deserialize: %d trailing bytes", r.Len())
	}
	return t, nil
}

// --- primitive writers/readers ---

func writeUvarint(w io.Writer, n uint64) error {
	var buf [binary.MaxVarintLen64]byte
	sz := binary.PutUvarint(buf[:], n)
	_, err := w.Write(buf[:sz])
	return err
}

func readUvarint(r io.ByteReader) (uint64, error) {
	return binary.ReadUvarint(r)
}

func writeString(w io.Writer, s string) error {
	if err := writeUvarint(w, uint64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUvarint(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeBool(w io.Writer, b bool) error {
	v := byte(0)
	if b {
		v = 1
	}
	_, err := w.Write([]byte{v})
	return err
}

func readBool(r *bytes.Reader) (bool, error) {
	b, err := r.ReadByte()
	return b != 0, err
}

// --- Span / Token ---

func writeSpan(w io.Writer, s token.Span) error {
	if err := writeString(w, s.Text); err != nil {
		return err
	}
	if err := writeUvarint(w, uint64(s.Start)); err != nil {
		return err
	}
	return writeUvarint(w, uint64(s.End))
}

func readSpan(r *bytes.Reader) (token.Span, error) {
	text, err := readString(r)
	if err != nil {
		return token.Span{}, err
	}
	start, err := readUvarint(r)
	if err != nil {
		return token.Span{}, err
	}
	end, err := readUvarint(r)
	if err != nil {
		return token.Span{}, err
	}
	return token.Span{Text: text, Start: int(start), End: int(end)}, nil
}

func writeToken(w io.Writer, tok token.Token) error {
	if err := writeUvarint(w, uint64(tok.Variant)); err != nil {
		return err
	}
	if err := writeBool(w, tok.IsType); err != nil {
		return err
	}
	if err := writeSpan(w, tok.Code); err != nil {
		return err
	}
	return writeSpan(w, tok.LeftOffset)
}

func readToken(r *bytes.Reader) (token.Token, error) {
	variant, err := readUvarint(r)
	if err != nil {
		return token.Token{}, err
	}
	isType, err := readBool(r)
	if err != nil {
		return token.Token{}, err
	}
	code, err := readSpan(r)
	if err != nil {
		return token.Token{}, err
	}
	left, err := readSpan(r)
	if err != nil {
		return token.Token{}, err
	}
	return token.Token{Variant: token.Kind(variant), IsType: isType, Code: code, LeftOffset: left}, nil
}

func writeOptionalToken(w io.Writer, tok *token.Token) error {
	if tok == nil {
		_, err := w.Write([]byte{absent})
		return err
	}
	if _, err := w.Write([]byte{present}); err != nil {
		return err
	}
	return writeToken(w, *tok)
}

func readOptionalToken(r *bytes.Reader) (*token.Token, error) {
	marker, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if marker == absent {
		return nil, nil
	}
	tok, err := readToken(r)
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// --- diagnostics.SyntaxError ---

func writeSyntaxError(w io.Writer, e diagnostics.SyntaxError) error {
	if err := writeString(w, string(e.Code)); err != nil {
		return err
	}
	return writeToken(w, e.At)
}

func readSyntaxError(r *bytes.Reader) (diagnostics.SyntaxError, error) {
	code, err := readString(r)
	if err != nil {
		return diagnostics.SyntaxError{}, err
	}
	at, err := readToken(r)
	if err != nil {
		return diagnostics.SyntaxError{}, err
	}
	return diagnostics.SyntaxError{Code: diagnostics.Code(code), At: at}, nil
}

// --- Tree ---

// writeTree encodes t. When required is true, a nil t is the
// "unserializable input" case spec.md §6(c) asks callers to reject
// without panicking.
func writeTree(w io.Writer, t *ast.Tree, required bool) error {
	if t == nil {
		if required {
			return fmt.Errorf("serialize: missing required tree node")
		}
		_, err := w.Write([]byte{absent})
		return err
	}
	if !required {
		if _, err := w.Write([]byte{present}); err != nil {
			return err
		}
	}
	if err := writeUvarint(w, uint64(t.Kind)); err != nil {
		return err
	}
	if err := writeSpan(w, t.Span); err != nil {
		return err
	}
	switch t.Kind {
	case ast.KindIdent, ast.KindTextLiteral, ast.KindNumber:
		if err := writeToken(w, t.IdentToken); err != nil {
			return err
		}
		if t.Kind == ast.KindTextLiteral {
			return writeString(w, t.Text)
		}
		if t.Kind == ast.KindNumber {
			return writeString(w, t.NumberText)
		}
		return nil
	case ast.KindApp:
		if err := writeTree(w, t.Func, true); err != nil {
			return err
		}
		return writeTree(w, t.Arg, true)
	case ast.KindOprApp:
		if err := writeTree(w, t.Lhs, false); err != nil {
			return err
		}
		if err := writeToken(w, t.Op); err != nil {
			return err
		}
		if err := writeTree(w, t.Rhs, false); err != nil {
			return err
		}
		return writeBool(w, t.IsModifierApp)
	case ast.KindUnaryOprApp:
		if err := writeToken(w, t.Op); err != nil {
			return err
		}
		return writeTree(w, t.Rhs, false)
	case ast.KindOprSectionBoundary:
		return writeTree(w, t.Inner, true)
	case ast.KindGroup:
		if err := writeToken(w, t.GroupOpen); err != nil {
			return err
		}
		if err := writeTree(w, t.GroupBody, false); err != nil {
			return err
		}
		return writeOptionalToken(w, t.GroupClose)
	case ast.KindArgumentBlockApplication, ast.KindOperatorBlockApplication:
		if err := writeTree(w, t.BlockLHS, false); err != nil {
			return err
		}
		if err := writeUvarint(w, uint64(len(t.BlockExprs))); err != nil {
			return err
		}
		for i := range t.BlockExprs {
			if err := writeTree(w, &t.BlockExprs[i], true); err != nil {
				return err
			}
		}
		return nil
	case ast.KindFunctionDef:
		if err := writeTree(w, t.FuncName, true); err != nil {
			return err
		}
		if err := writeArgDefs(w, t.FuncArgs); err != nil {
			return err
		}
		if t.FuncReturn == nil {
			if err := w2(w, absent); err != nil {
				return err
			}
		} else {
			if err := w2(w, present); err != nil {
				return err
			}
			if err := writeToken(w, t.FuncReturn.Arrow); err != nil {
				return err
			}
			if err := writeTree(w, &t.FuncReturn.Type, true); err != nil {
				return err
			}
		}
		return writeTree(w, t.FuncBody, true)
	case ast.KindConstructorDef:
		if err := writeToken(w, t.CtorName); err != nil {
			return err
		}
		if err := writeArgDefs(w, t.CtorArgs); err != nil {
			return err
		}
		if err := writeUvarint(w, uint64(len(t.CtorBlockArgs))); err != nil {
			return err
		}
		for _, line := range t.CtorBlockArgs {
			if err := writeToken(w, line.Newline); err != nil {
				return err
			}
			if line.Argument == nil {
				if err := w2(w, absent); err != nil {
					return err
				}
				continue
			}
			if err := w2(w, present); err != nil {
				return err
			}
			if err := writeArgDef(w, *line.Argument); err != nil {
				return err
			}
		}
		return nil
	case ast.KindForeignFunctionDef:
		for _, tok := range []token.Token{t.ForeignKeyword, t.ForeignLanguage, t.ForeignName, t.ForeignEquals} {
			if err := writeToken(w, tok); err != nil {
				return err
			}
		}
		if err := writeArgDefs(w, t.ForeignArgs); err != nil {
			return err
		}
		return writeTree(w, t.ForeignBody, true)
	case ast.KindInvalid:
		if err := writeTree(w, t.Inner, true); err != nil {
			return err
		}
		return writeSyntaxError(w, t.Error)
	default:
		return fmt.Errorf("serialize: unknown tree kind %d", t.Kind)
	}
}

func w2(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

func writeArgDefs(w io.Writer, args []ast.ArgumentDefinition) error {
	if err := writeUvarint(w, uint64(len(args))); err != nil {
		return err
	}
	for _, a := range args {
		if err := writeArgDef(w, a); err != nil {
			return err
		}
	}
	return nil
}

func writeArgDef(w io.Writer, a ast.ArgumentDefinition) error {
	if err := writeOptionalToken(w, a.Open); err != nil {
		return err
	}
	if err := writeOptionalToken(w, a.Open2); err != nil {
		return err
	}
	if err := writeOptionalToken(w, a.Suspension); err != nil {
		return err
	}
	if err := writeTree(w, &a.Pattern, true); err != nil {
		return err
	}
	if a.Type == nil {
		if err := w2(w, absent); err != nil {
			return err
		}
	} else {
		if err := w2(w, present); err != nil {
			return err
		}
		if err := writeToken(w, a.Type.Operator); err != nil {
			return err
		}
		if err := writeTree(w, &a.Type.Type, true); err != nil {
			return err
		}
	}
	if err := writeOptionalToken(w, a.Close2); err != nil {
		return err
	}
	if a.Default == nil {
		if err := w2(w, absent); err != nil {
			return err
		}
	} else {
		if err := w2(w, present); err != nil {
			return err
		}
		if err := writeToken(w, a.Default.Equals); err != nil {
			return err
		}
		if err := writeTree(w, &a.Default.Expression, true); err != nil {
			return err
		}
	}
	return writeOptionalToken(w, a.Close)
}

func readTree(r *bytes.Reader, required bool) (*ast.Tree, error) {
	if !required {
		marker, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if marker == absent {
			return nil, nil
		}
	}
	kind, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	span, err := readSpan(r)
	if err != nil {
		return nil, err
	}
	t := &ast.Tree{Kind: ast.Kind(kind), Span: span}
	switch t.Kind {
	case ast.KindIdent, ast.KindTextLiteral, ast.KindNumber:
		tok, err := readToken(r)
		if err != nil {
			return nil, err
		}
		t.IdentToken = tok
		if t.Kind == ast.KindTextLiteral {
			t.Text, err = readString(r)
			if err != nil {
				return nil, err
			}
		}
		if t.Kind == ast.KindNumber {
			t.NumberText, err = readString(r)
			if err != nil {
				return nil, err
			}
		}
	case ast.KindApp:
		if t.Func, err = readTree(r, true); err != nil {
			return nil, err
		}
		if t.Arg, err = readTree(r, true); err != nil {
			return nil, err
		}
	case ast.KindOprApp:
		if t.Lhs, err = readTree(r, false); err != nil {
			return nil, err
		}
		if t.Op, err = readToken(r); err != nil {
			return nil, err
		}
		if t.Rhs, err = readTree(r, false); err != nil {
			return nil, err
		}
		if t.IsModifierApp, err = readBool(r); err != nil {
			return nil, err
		}
	case ast.KindUnaryOprApp:
		if t.Op, err = readToken(r); err != nil {
			return nil, err
		}
		if t.Rhs, err = readTree(r, false); err != nil {
			return nil, err
		}
	case ast.KindOprSectionBoundary:
		if t.Inner, err = readTree(r, true); err != nil {
			return nil, err
		}
	case ast.KindGroup:
		if t.GroupOpen, err = readToken(r); err != nil {
			return nil, err
		}
		if t.GroupBody, err = readTree(r, false); err != nil {
			return nil, err
		}
		if t.GroupClose, err = readOptionalToken(r); err != nil {
			return nil, err
		}
	case ast.KindArgumentBlockApplication, ast.KindOperatorBlockApplication:
		if t.BlockLHS, err = readTree(r, false); err != nil {
			return nil, err
		}
		n, err := readUvarint(r)
		if err != nil {
			return nil, err
		}
		t.BlockExprs = make([]ast.Tree, n)
		for i := range t.BlockExprs {
			sub, err := readTree(r, true)
			if err != nil {
				return nil, err
			}
			t.BlockExprs[i] = *sub
		}
	case ast.KindFunctionDef:
		if t.FuncName, err = readTree(r, true); err != nil {
			return nil, err
		}
		if t.FuncArgs, err = readArgDefs(r); err != nil {
			return nil, err
		}
		marker, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if marker == present {
			arrow, err := readToken(r)
			if err != nil {
				return nil, err
			}
			typ, err := readTree(r, true)
			if err != nil {
				return nil, err
			}
			t.FuncReturn = &ast.ReturnSpecification{Arrow: arrow, Type: *typ}
		}
		if t.FuncBody, err = readTree(r, true); err != nil {
			return nil, err
		}
	case ast.KindConstructorDef:
		if t.CtorName, err = readToken(r); err != nil {
			return nil, err
		}
		if t.CtorArgs, err = readArgDefs(r); err != nil {
			return nil, err
		}
		n, err := readUvarint(r)
		if err != nil {
			return nil, err
		}
		t.CtorBlockArgs = make([]ast.ArgumentDefinitionLine, n)
		for i := range t.CtorBlockArgs {
			nl, err := readToken(r)
			if err != nil {
				return nil, err
			}
			marker, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			line := ast.ArgumentDefinitionLine{Newline: nl}
			if marker == present {
				arg, err := readArgDef(r)
				if err != nil {
					return nil, err
				}
				line.Argument = &arg
			}
			t.CtorBlockArgs[i] = line
		}
	case ast.KindForeignFunctionDef:
		toks := make([]token.Token, 4)
		for i := range toks {
			if toks[i], err = readToken(r); err != nil {
				return nil, err
			}
		}
		t.ForeignKeyword, t.ForeignLanguage, t.ForeignName, t.ForeignEquals = toks[0], toks[1], toks[2], toks[3]
		if t.ForeignArgs, err = readArgDefs(r); err != nil {
			return nil, err
		}
		if t.ForeignBody, err = readTree(r, true); err != nil {
			return nil, err
		}
	case ast.KindInvalid:
		if t.Inner, err = readTree(r, true); err != nil {
			return nil, err
		}
		if t.Error, err = readSyntaxError(r); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("deserialize: unknown tree kind %d", t.Kind)
	}
	return t, nil
}

func readArgDefs(r *bytes.Reader) ([]ast.ArgumentDefinition, error) {
	n, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]ast.ArgumentDefinition, n)
	for i := range out {
		a, err := readArgDef(r)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

func readArgDef(r *bytes.Reader) (ast.ArgumentDefinition, error) {
	var a ast.ArgumentDefinition
	var err error
	if a.Open, err = readOptionalToken(r); err != nil {
		return a, err
	}
	if a.Open2, err = readOptionalToken(r); err != nil {
		return a, err
	}
	if a.Suspension, err = readOptionalToken(r); err != nil {
		return a, err
	}
	pattern, err := readTree(r, true)
	if err != nil {
		return a, err
	}
	a.Pattern = *pattern
	marker, err := r.ReadByte()
	if err != nil {
		return a, err
	}
	if marker == present {
		op, err := readToken(r)
		if err != nil {
			return a, err
		}
		typ, err := readTree(r, true)
		if err != nil {
			return a, err
		}
		a.Type = &ast.ArgumentType{Operator: op, Type: *typ}
	}
	if a.Close2, err = readOptionalToken(r); err != nil {
		return a, err
	}
	marker, err = r.ReadByte()
	if err != nil {
		return a, err
	}
	if marker == present {
		eq, err := readToken(r)
		if err != nil {
			return a, err
		}
		expr, err := readTree(r, true)
		if err != nil {
			return a, err
		}
		a.Default = &ast.ArgumentDefault{Equals: eq, Expression: *expr}
	}
	if a.Close, err = readOptionalToken(r); err != nil {
		return a, err
	}
	return a, nil
}
