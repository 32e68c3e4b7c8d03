// Package config is the single source of truth for the fixed
// properties of the syntactic operators spec.md §4.1 enumerates
// (Assignment, TypeAnnotation, Arrow, Annotation, Autoscope, Negation,
// Lambda, Dot, Suspension, Comma). Non-syntactic (symbolic, user
// visible) operators are classified on the fly by
// internal/resolver.AnalyzeNonSyntacticOperator instead of listed here.
package config

import (
	"github.com/wisplang/wisp/internal/precedence"
	"github.com/wisplang/wisp/internal/token"
)

// SyntacticOperator describes one fixed-property entry of the table in
// spec.md §4.1.
type SyntacticOperator struct {
	Kind       token.Kind
	Properties precedence.OperatorProperties
}

// AllSyntacticOperators is the single source of truth for the table in
// spec.md §4.1.
var AllSyntacticOperators = []SyntacticOperator{
	{
		Kind: token.AssignmentOperator,
		Properties: precedence.New().
			WithBinaryInfixPrecedence(precedence.Assignment).
			AsRightAssociative().
			AsCompileTime().
			WithLHSSectionTermination(precedence.Unwrap),
	},
	{
		Kind: token.TypeAnnotationOperator,
		Properties: precedence.New().
			WithBinaryInfixPrecedence(precedence.TypeAnnotation).
			AsCompileTime().
			WithRHSNonExpression().
			WithLHSSectionTermination(precedence.Reify),
	},
	{
		Kind: token.ArrowOperator,
		Properties: precedence.New().
			WithBinaryInfixPrecedence(precedence.Arrow).
			AsRightAssociative().
			AsCompileTime().
			WithLHSSectionTermination(precedence.Unwrap),
	},
	{
		Kind: token.AnnotationOperator,
		Properties: precedence.New().
			WithUnaryPrefixMode(precedence.Annotation).
			AsRightAssociative().
			AsCompileTime().
			WithRHSNonExpression(),
	},
	{
		Kind: token.AutoscopeOperator,
		Properties: precedence.New().
			WithUnaryPrefixMode(precedence.MinValid()).
			AsCompileTime().
			WithRHSNonExpression(),
	},
	{
		Kind: token.NegationOperator,
		Properties: precedence.Value().
			WithUnaryPrefixMode(precedence.Negation),
	},
	{
		Kind: token.LambdaOperator,
		Properties: precedence.New().
			WithUnaryPrefixMode(precedence.MinValid()).
			AsCompileTime(),
	},
	{
		Kind: token.DotOperator,
		Properties: precedence.New().
			WithBinaryInfixPrecedence(precedence.Application),
	},
	{
		Kind: token.SuspensionOperator,
		Properties: precedence.New().
			WithUnaryPrefixMode(precedence.Max).
			AsCompileTime().
			WithRHSNonExpression(),
	},
	{
		Kind: token.CommaOperator,
		Properties: precedence.New().
			WithBinaryInfixPrecedence(precedence.Assignment).
			AsCompileTime().
			WithRHSNonExpression(),
	},
}

// syntacticProperties indexes AllSyntacticOperators by token kind.
var syntacticProperties = func() map[token.Kind]precedence.OperatorProperties {
	m := make(map[token.Kind]precedence.OperatorProperties, len(AllSyntacticOperators))
	for _, op := range AllSyntacticOperators {
		m[op.Kind] = op.Properties
	}
	return m
}()

// SyntacticOperatorProperties returns the fixed properties for a
// syntactic operator kind, or false if kind isn't one of the fixed
// syntactic operators.
func SyntacticOperatorProperties(kind token.Kind) (precedence.OperatorProperties, bool) {
	p, ok := syntacticProperties[kind]
	return p, ok
}

// IsSyntacticBinaryOperator reports whether kind is one of the
// statement-structuring operators the top-level-operator finder looks
// for: Assignment, TypeAnnotation, Arrow, Comma.
func IsSyntacticBinaryOperator(kind token.Kind) bool {
	switch kind {
	case token.AssignmentOperator, token.TypeAnnotationOperator, token.ArrowOperator, token.CommaOperator:
		return true
	default:
		return false
	}
}
