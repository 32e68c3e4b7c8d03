// Package precedence defines the ordered precedence scale operators are
// compared against during resolution, and the OperatorProperties value
// type that classifies each operator-like token.
package precedence

// Precedence is a small ordered enum. Values are comparable with the
// usual integer operators; Min is lower than every operator and Max is
// higher than every operator.
type Precedence int

const (
	Min Precedence = iota
	Assignment
	TypeAnnotation
	Arrow
	Not
	Logical
	Equality
	Functional
	BitwiseOr
	BitwiseAnd
	Inequality
	Addition
	Multiplication
	Exponentiation
	OtherUserOperator
	Negation
	Application
	Annotation
	Max
)

// MinValid returns the lowest precedence any real operator can hold.
func MinValid() Precedence { return Assignment }

// Associativity is left or right.
type Associativity int

const (
	Left Associativity = iota
	Right
)

// SectionTermination describes how a syntactic operator with no left
// operand is resolved at the boundary of the scope that forbids
// sections.
type SectionTermination int

const (
	// Reify preserves the section wrapper node.
	Reify SectionTermination = iota
	// Unwrap elides the wrapper, attaching the error to the inner tree.
	Unwrap
)

// OperatorProperties classifies a single operator-like token: its
// precedence in each of the modes it can be used in, its
// associativity, and the special behaviors that drive section
// formation, modifier desugaring, and compile-time handling.
type OperatorProperties struct {
	binaryInfixPrecedence Precedence
	hasBinaryInfix        bool
	unaryPrefixPrecedence Precedence
	hasUnaryPrefix        bool
	isValueOperation      bool
	isRightAssociative    bool
	lhsSectionTermination SectionTermination
	hasLHSSectionTerm     bool
	isModifier            bool
	isCompileTime         bool
	rhsIsNonExpression    bool
}

// New returns a zero-valued OperatorProperties (functional, left
// associative, no precedence assigned in either mode).
func New() OperatorProperties { return OperatorProperties{} }

// Value returns an OperatorProperties marked as a value-level operation.
func Value() OperatorProperties { return OperatorProperties{isValueOperation: true} }

// WithBinaryInfixPrecedence returns a copy with the given binary infix
// precedence set.
func (p OperatorProperties) WithBinaryInfixPrecedence(prec Precedence) OperatorProperties {
	p.binaryInfixPrecedence = prec
	p.hasBinaryInfix = true
	return p
}

// WithUnaryPrefixMode returns a copy allowing unary-prefix parsing at
// the given precedence. Panics if prec is not strictly above Min,
// mirroring the debug_assert in the original implementation.
func (p OperatorProperties) WithUnaryPrefixMode(prec Precedence) OperatorProperties {
	if prec <= Min {
		panic("precedence: unary prefix precedence must be above Min")
	}
	p.unaryPrefixPrecedence = prec
	p.hasUnaryPrefix = true
	return p
}

// AsValueOperation marks the operator as a value-level operation.
func (p OperatorProperties) AsValueOperation() OperatorProperties {
	p.isValueOperation = true
	return p
}

// IsValueOperation reports whether this is a value-level operation, as
// opposed to a functional one.
func (p OperatorProperties) IsValueOperation() bool { return p.isValueOperation }

// AsRightAssociative marks the operator as right associative.
func (p OperatorProperties) AsRightAssociative() OperatorProperties {
	p.isRightAssociative = true
	return p
}

// AsModifier marks the operator as a modified-assignment operator
// (e.g. `+=`).
func (p OperatorProperties) AsModifier() OperatorProperties {
	p.isModifier = true
	return p
}

// AsCompileTime marks the operator as compile-time (processed by the
// parser itself, excluded from sections and user reassignment).
func (p OperatorProperties) AsCompileTime() OperatorProperties {
	p.isCompileTime = true
	return p
}

// WithLHSSectionTermination sets the LHS section-termination policy.
func (p OperatorProperties) WithLHSSectionTermination(t SectionTermination) OperatorProperties {
	p.lhsSectionTermination = t
	p.hasLHSSectionTerm = true
	return p
}

// WithRHSNonExpression marks the RHS of this operator as not being a
// plain expression (e.g. a type, a pattern, a suspended body).
func (p OperatorProperties) WithRHSNonExpression() OperatorProperties {
	p.rhsIsNonExpression = true
	return p
}

// BinaryInfixPrecedence returns the operator's binary infix precedence,
// if it has one.
func (p OperatorProperties) BinaryInfixPrecedence() (Precedence, bool) {
	return p.binaryInfixPrecedence, p.hasBinaryInfix
}

// UnaryPrefixPrecedence returns the operator's unary prefix precedence,
// if it has one.
func (p OperatorProperties) UnaryPrefixPrecedence() (Precedence, bool) {
	return p.unaryPrefixPrecedence, p.hasUnaryPrefix
}

// CanFormSection reports whether this operator can appear as an
// operator section. Compile-time operators cannot.
func (p OperatorProperties) CanFormSection() bool { return !p.isCompileTime }

// LHSSectionTermination returns this operator's LHS section-termination
// policy, if it has one.
func (p OperatorProperties) LHSSectionTermination() (SectionTermination, bool) {
	return p.lhsSectionTermination, p.hasLHSSectionTerm
}

// IsModifier reports whether this is a modified-assignment operator.
func (p OperatorProperties) IsModifier() bool { return p.isModifier }

// IsCompileTime reports whether this operator is handled by the parser
// itself.
func (p OperatorProperties) IsCompileTime() bool { return p.isCompileTime }

// Associativity returns the operator's associativity.
func (p OperatorProperties) Associativity() Associativity {
	if p.isRightAssociative {
		return Right
	}
	return Left
}

// RHSIsExpression reports whether the RHS of this operator is an
// ordinary expression (as opposed to a type, pattern, or similar).
func (p OperatorProperties) RHSIsExpression() bool { return !p.rhsIsNonExpression }
