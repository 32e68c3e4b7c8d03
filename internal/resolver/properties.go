package resolver

import (
	"strings"

	"github.com/wisplang/wisp/internal/config"
	"github.com/wisplang/wisp/internal/precedence"
	"github.com/wisplang/wisp/internal/token"
)

// AnalyzeNonSyntacticOperator classifies a plain symbol-sequence
// operator (e.g. "+", "*", "<|", "+=") by its lexeme shape, the way
// spec.md §4.1 describes: "properties are derived from the lexeme via
// a shared analyzer that classifies by symbol structure (e.g. trailing
// `=` implies modifier; leading `.` affects precedence)". This is the
// lexer-shared half of operator classification (spec.md §6,
// analyze_non_syntactic_operator); the exact scheme is this repo's own
// reconstruction since the retrieved original_source excerpt only
// references the function, it doesn't define it.
func AnalyzeNonSyntacticOperator(lexeme string) precedence.OperatorProperties {
	if lexeme == "" {
		return precedence.New()
	}

	// Trailing '=' (but not one of the fixed comparison spellings)
	// marks a modifier operator: `x += 1` binds like assignment but
	// the resulting node is flagged as a modifier application.
	if strings.HasSuffix(lexeme, "=") && !isComparisonSpelling(lexeme) && lexeme != "=" {
		return precedence.New().
			WithBinaryInfixPrecedence(precedence.Assignment).
			AsRightAssociative().
			AsModifier()
	}

	if prec, ok := fixedSymbolPrecedence[lexeme]; ok {
		p := precedence.Value().WithBinaryInfixPrecedence(prec.level)
		if prec.rightAssoc {
			p = p.AsRightAssociative()
		}
		return p
	}

	// Leading '.' raises an otherwise-unknown operator to
	// Application precedence, matching the way the Dot operator
	// itself behaves (method-chaining pipelines such as `.map`).
	if strings.HasPrefix(lexeme, ".") {
		return precedence.New().WithBinaryInfixPrecedence(precedence.Application)
	}

	// Anything else is a user-definable operator: classify by its
	// leading character into the coarse category spec.md's Precedence
	// scale reserves for it, falling back to OtherUserOperator.
	switch lexeme[0] {
	case '|':
		return precedence.Value().WithBinaryInfixPrecedence(precedence.BitwiseOr)
	case '&':
		return precedence.Value().WithBinaryInfixPrecedence(precedence.BitwiseAnd)
	case '<', '>':
		return precedence.Value().WithBinaryInfixPrecedence(precedence.Inequality)
	case '+', '-':
		return precedence.Value().WithBinaryInfixPrecedence(precedence.Addition)
	case '*', '/', '%':
		return precedence.Value().WithBinaryInfixPrecedence(precedence.Multiplication)
	case '^':
		return precedence.Value().
			WithBinaryInfixPrecedence(precedence.Exponentiation).
			AsRightAssociative()
	default:
		return precedence.New().WithBinaryInfixPrecedence(precedence.OtherUserOperator)
	}
}

func isComparisonSpelling(lexeme string) bool {
	switch lexeme {
	case "==", "!=", "<=", ">=":
		return true
	default:
		return false
	}
}

type fixedPrec struct {
	level      precedence.Precedence
	rightAssoc bool
}

var fixedSymbolPrecedence = map[string]fixedPrec{
	"||": {precedence.Logical, false},
	"&&": {precedence.Logical, false},
	"==": {precedence.Equality, false},
	"!=": {precedence.Equality, false},
	"<":  {precedence.Inequality, false},
	">":  {precedence.Inequality, false},
	"<=": {precedence.Inequality, false},
	">=": {precedence.Inequality, false},
	"+":  {precedence.Addition, false},
	"-":  {precedence.Addition, false},
	"*":  {precedence.Multiplication, false},
	"/":  {precedence.Multiplication, false},
	"%":  {precedence.Multiplication, false},
	"^":  {precedence.Exponentiation, true},
	"**": {precedence.Exponentiation, true},
}

// OperatorPropertiesOf returns the OperatorProperties for tok if it is
// operator-like, and false otherwise (spec.md §4.1 public contract).
// Syntactic operators use the fixed table in internal/config; plain
// Operator tokens are classified by AnalyzeNonSyntacticOperator.
func OperatorPropertiesOf(tok token.Token) (precedence.OperatorProperties, bool) {
	if tok.Variant == token.Operator {
		return AnalyzeNonSyntacticOperator(tok.Code.Text), true
	}
	return config.SyntacticOperatorProperties(tok.Variant)
}
