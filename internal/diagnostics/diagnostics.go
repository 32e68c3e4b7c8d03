// Package diagnostics defines the SyntaxError taxonomy of spec.md §7
// and the SyntaxError value every Invalid tree node carries.
// Errors here are never unwound: every fallible constructor in
// internal/resolver and internal/declparser returns a Tree whose root
// (or some descendant) may be Invalid, and the caller decides whether
// to reject or proceed.
package diagnostics

import (
	"fmt"

	"github.com/wisplang/wisp/internal/token"
)

// Code identifies one member of the SyntaxError taxonomy.
type Code string

const (
	ExpectedExpression              Code = "ExpectedExpression"
	ExpectedType                     Code = "ExpectedType"
	ArgDefExpectedPattern            Code = "ArgDefExpectedPattern"
	ArgDefUnexpectedOpInParenClause Code = "ArgDefUnexpectedOpInParenClause"
	ArgDefSpuriousParens             Code = "ArgDefSpuriousParens"
	ForeignFnExpectedLanguage        Code = "ForeignFnExpectedLanguage"
	ForeignFnExpectedName            Code = "ForeignFnExpectedName"
	ForeignFnExpectedStringBody      Code = "ForeignFnExpectedStringBody"
	MultipleOperators                Code = "MultipleOperators"
	UnexpectedToken                  Code = "UnexpectedToken"
	MismatchedParen                  Code = "MismatchedParen"
)

var messages = map[Code]string{
	ExpectedExpression:              "expected an expression",
	ExpectedType:                     "expected a type",
	ArgDefExpectedPattern:            "expected a pattern in argument definition",
	ArgDefUnexpectedOpInParenClause: "unexpected operator in argument definition",
	ArgDefSpuriousParens:             "parentheses around argument definition serve no purpose",
	ForeignFnExpectedLanguage:        "expected a foreign function language",
	ForeignFnExpectedName:            "expected a foreign function name",
	ForeignFnExpectedStringBody:      "expected a text literal as the foreign function body",
	MultipleOperators:                "multiple top-level operators found",
	UnexpectedToken:                  "unexpected token",
	MismatchedParen:                  "mismatched parenthesis",
}

// SyntaxError is the value attached to an Invalid tree node. It pairs
// an error Code with the token that best locates the problem, mirroring
// the teacher's DiagnosticError (Code + Token), narrowed to this
// domain's own taxonomy instead of funxy's L/P/A/R codes.
type SyntaxError struct {
	Code Code
	At   token.Token
}

// New builds a SyntaxError anchored at tok.
func New(code Code, tok token.Token) SyntaxError {
	return SyntaxError{Code: code, At: tok}
}

// Error implements the error interface so a SyntaxError can be
// returned from functions such as FindTopLevelOperator that need to
// distinguish "no error" from "found an error" before a Tree exists to
// attach it to.
func (e SyntaxError) Error() string {
	msg, ok := messages[e.Code]
	if !ok {
		msg = fmt.Sprintf("unknown syntax error %q", e.Code)
	}
	if e.At.Code.Text != "" {
		return fmt.Sprintf("%d:%d: %s: %s", e.At.Code.Start, e.At.Code.End, e.Code, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}
