/*
Copyright 2026 The planx Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package lp

import (
	"fmt"
	"math"
)

// Sense is the direction of a linear constraint.
type Sense int

// enumeration of Sense
const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

// String returns the relational operator for the sense.
func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Equal:
		return "=="
	default:
		return fmt.Sprintf("Sense(%d)", int(s))
	}
}

// Variable is a nonnegative decision variable with an optional upper bound.
type Variable struct {
	Name  string
	Upper float64 // +Inf when unbounded above
}

// Constraint is a named linear constraint: Expr Sense RHS.
type Constraint struct {
	Name  string
	Expr  Expr
	Sense Sense
	RHS   float64
}

// Model is a named linear program under construction. All variables are
// nonnegative; upper bounds and general rows express everything else.
type Model struct {
	name string

	vars   []Variable
	varIdx map[string]int

	cons   []*Constraint
	conIdx map[string]int

	exprs map[string]Expr

	objective Expr
}

// NewModel returns an empty model.
func NewModel(name string) *Model {
	return &Model{
		name:   name,
		varIdx: map[string]int{},
		conIdx: map[string]int{},
		exprs:  map[string]Expr{},
	}
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// NumVariables returns the number of registered variables.
func (m *Model) NumVariables() int { return len(m.vars) }

// NumConstraints returns the number of registered constraints.
func (m *Model) NumConstraints() int { return len(m.cons) }

// AddVariable registers a nonnegative variable with no upper bound.
func (m *Model) AddVariable(name string) error {
	return m.AddBoundedVariable(name, math.Inf(1))
}

// AddBoundedVariable registers a nonnegative variable with an upper bound.
func (m *Model) AddBoundedVariable(name string, upper float64) error {
	if name == "" {
		return fmt.Errorf("model %s: variable name cannot be empty", m.name)
	}
	if _, exists := m.varIdx[name]; exists {
		return fmt.Errorf("model %s: duplicate variable %q", m.name, name)
	}
	if upper < 0 {
		return fmt.Errorf("model %s: variable %q upper bound %g is negative", m.name, name, upper)
	}
	m.varIdx[name] = len(m.vars)
	m.vars = append(m.vars, Variable{Name: name, Upper: upper})
	return nil
}

// HasVariable reports whether the named variable exists.
func (m *Model) HasVariable(name string) bool {
	_, ok := m.varIdx[name]
	return ok
}

// SetUpper replaces the upper bound of an existing variable.
func (m *Model) SetUpper(name string, upper float64) error {
	i, ok := m.varIdx[name]
	if !ok {
		return fmt.Errorf("model %s: unknown variable %q", m.name, name)
	}
	if upper < 0 {
		return fmt.Errorf("model %s: variable %q upper bound %g is negative", m.name, name, upper)
	}
	m.vars[i].Upper = upper
	return nil
}

// Variables returns the variables in registration order.
func (m *Model) Variables() []Variable {
	out := make([]Variable, len(m.vars))
	copy(out, m.vars)
	return out
}

// AddConstraint registers a named constraint.
func (m *Model) AddConstraint(name string, expr Expr, sense Sense, rhs float64) error {
	if name == "" {
		return fmt.Errorf("model %s: constraint name cannot be empty", m.name)
	}
	if _, exists := m.conIdx[name]; exists {
		return fmt.Errorf("model %s: duplicate constraint %q", m.name, name)
	}
	for _, t := range expr.Terms() {
		if !m.HasVariable(t.Var) {
			return fmt.Errorf("model %s: constraint %q references unknown variable %q", m.name, name, t.Var)
		}
	}
	m.conIdx[name] = len(m.cons)
	m.cons = append(m.cons, &Constraint{Name: name, Expr: expr.Clone(), Sense: sense, RHS: rhs})
	return nil
}

// Constraint returns the named constraint, or nil when absent.
func (m *Model) Constraint(name string) *Constraint {
	i, ok := m.conIdx[name]
	if !ok {
		return nil
	}
	return m.cons[i]
}

// HasConstraint reports whether the named constraint exists.
func (m *Model) HasConstraint(name string) bool {
	_, ok := m.conIdx[name]
	return ok
}

// SetRHS replaces the right-hand side of an existing constraint. This is how
// the sequential solve pins a stage's starting values to earlier results.
func (m *Model) SetRHS(name string, rhs float64) error {
	i, ok := m.conIdx[name]
	if !ok {
		return fmt.Errorf("model %s: unknown constraint %q", m.name, name)
	}
	m.cons[i].RHS = rhs
	return nil
}

// Constraints returns the constraints in registration order.
func (m *Model) Constraints() []*Constraint {
	out := make([]*Constraint, len(m.cons))
	copy(out, m.cons)
	return out
}

// DefineExpr registers a named expression (e.g. a stage's ending-capacity
// expression) for later lookup by other components.
func (m *Model) DefineExpr(name string, expr Expr) error {
	if _, exists := m.exprs[name]; exists {
		return fmt.Errorf("model %s: duplicate expression %q", m.name, name)
	}
	m.exprs[name] = expr.Clone()
	return nil
}

// Expr returns a named expression. The second return is false when absent.
func (m *Model) Expr(name string) (Expr, bool) {
	e, ok := m.exprs[name]
	return e, ok
}

// AddToObjective adds scale*expr into the objective (minimization).
func (m *Model) AddToObjective(scale float64, expr Expr) {
	m.objective = m.objective.AddExpr(scale, expr)
}

// ScaleObjective multiplies the whole objective by f.
func (m *Model) ScaleObjective(f float64) {
	m.objective = m.objective.Scale(f)
}

// Objective returns a copy of the objective expression.
func (m *Model) Objective() Expr {
	return m.objective.Clone()
}

// Merge copies every variable, expression, and constraint of other into m
// with the given name prefix, and adds other's objective to m's. Constraint
// names listed in skip are not copied; the caller uses this to leave out
// per-stage rows that a cross-stage replacement supersedes.
func (m *Model) Merge(other *Model, prefix string, skip map[string]bool) error {
	for _, v := range other.vars {
		if err := m.AddBoundedVariable(prefix+v.Name, v.Upper); err != nil {
			return err
		}
	}
	for name, e := range other.exprs {
		if err := m.DefineExpr(prefix+name, e.prefixed(prefix)); err != nil {
			return err
		}
	}
	for _, c := range other.cons {
		if skip[c.Name] {
			continue
		}
		if err := m.AddConstraint(prefix+c.Name, c.Expr.prefixed(prefix), c.Sense, c.RHS); err != nil {
			return err
		}
	}
	m.objective = m.objective.AddExpr(1, other.objective.prefixed(prefix))
	return nil
}
