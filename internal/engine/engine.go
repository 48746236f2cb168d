// Package engine defines a small capability interface in front of a concrete
// CP/MIP solver library, so the constraint model builder and solver driver
// never import a specific solver package directly.
package engine

import (
	"context"
	"time"
)

// Var is an opaque handle to a 0/1 decision variable.
type Var interface {
	// ID is a stable, arena-local identifier useful for debugging and tests.
	ID() int
}

// Status reports the terminal state of a solve attempt.
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
	StatusTimeout
)

// Result is the outcome of a single SolveWithTimeout call.
type Result interface {
	Status() Status
	// ValueOf reports whether the given variable was set to 1 in the solution.
	// Calling it when Status is Infeasible or Unknown always returns false.
	ValueOf(v Var) bool
}

// Model is the capability interface a constraint-model builder writes
// against: create Boolean variables, post linear inequalities and
// implications over them, shape a linear objective, and solve under a wall
// clock budget.
type Model interface {
	// NewBoolVar creates a fresh 0/1 decision variable.
	NewBoolVar(label string) Var

	// PostLessEqual posts sum(coef_i * var_i) <= rhs.
	PostLessEqual(terms []Term, rhs float64)

	// PostGreaterEqual posts sum(coef_i * var_i) >= rhs.
	PostGreaterEqual(terms []Term, rhs float64)

	// PostImplication posts the Boolean implication a => b, i.e. b >= a.
	PostImplication(a, b Var)

	// AddObjectiveTerm adds coef * v to the (implicitly maximized) objective.
	AddObjectiveTerm(v Var, coef float64)

	// Maximize finalizes the objective direction. The model already only
	// supports maximization (the spec never asks for minimization), so this
	// exists mainly to make the call site read like the capability list in
	// the design notes.
	Maximize()

	// SolveWithTimeout runs the solver for at most budget, shortened to the
	// time left before ctx's deadline when ctx has one. Cancelling a ctx that
	// has no deadline does not stop a solve already in progress.
	SolveWithTimeout(ctx context.Context, budget time.Duration) (Result, error)
}

// Term is one coefficient*variable addend of a linear expression.
type Term struct {
	Coefficient float64
	Var         Var
}

// NewModel constructs the default engine.Model implementation.
func NewModel() Model {
	return newNextmvModel()
}
