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
	"sort"
	"strings"
)

// Term is one variable coefficient of a linear expression.
type Term struct {
	Var  string
	Coef float64
}

// Expr is a linear expression: a sum of coefficient*variable terms plus a
// constant. The zero value is an empty expression and ready to use.
type Expr struct {
	terms    map[string]float64
	constant float64
}

// NewExpr returns an empty expression.
func NewExpr() Expr {
	return Expr{terms: map[string]float64{}}
}

// Clone returns a deep copy of the expression.
func (e Expr) Clone() Expr {
	out := Expr{terms: make(map[string]float64, len(e.terms)), constant: e.constant}
	for v, c := range e.terms {
		out.terms[v] = c
	}
	return out
}

// AddTerm adds coef*name to the expression, merging with any existing
// coefficient for the same variable. Returns the expression for chaining.
func (e Expr) AddTerm(name string, coef float64) Expr {
	if e.terms == nil {
		e.terms = map[string]float64{}
	}
	e.terms[name] += coef
	return e
}

// AddConst adds a constant to the expression.
func (e Expr) AddConst(c float64) Expr {
	e.constant += c
	return e
}

// AddExpr adds scale*other into the expression.
func (e Expr) AddExpr(scale float64, other Expr) Expr {
	if e.terms == nil {
		e.terms = map[string]float64{}
	}
	for v, c := range other.terms {
		e.terms[v] += scale * c
	}
	e.constant += scale * other.constant
	return e
}

// Scale multiplies every coefficient and the constant in place.
func (e Expr) Scale(f float64) Expr {
	for v := range e.terms {
		e.terms[v] *= f
	}
	e.constant *= f
	return e
}

// Constant returns the constant term.
func (e Expr) Constant() float64 {
	return e.constant
}

// Coef returns the coefficient of a variable (0 when absent).
func (e Expr) Coef(name string) float64 {
	return e.terms[name]
}

// Terms returns the nonzero terms sorted by variable name for deterministic
// traversal.
func (e Expr) Terms() []Term {
	out := make([]Term, 0, len(e.terms))
	for v, c := range e.terms {
		if c == 0 {
			continue
		}
		out = append(out, Term{Var: v, Coef: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Var < out[j].Var })
	return out
}

// Evaluate computes the expression value under the given variable values.
// Variables absent from values evaluate as zero.
func (e Expr) Evaluate(values map[string]float64) float64 {
	total := e.constant
	for v, c := range e.terms {
		total += c * values[v]
	}
	return total
}

// prefixed returns a copy of the expression with every variable name
// prefixed, used when merging stage models into a joint model.
func (e Expr) prefixed(prefix string) Expr {
	out := Expr{terms: make(map[string]float64, len(e.terms)), constant: e.constant}
	for v, c := range e.terms {
		out.terms[prefix+v] = c
	}
	return out
}

// String renders the expression for logs and test failures.
func (e Expr) String() string {
	var b strings.Builder
	for i, t := range e.Terms() {
		if i > 0 {
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "%g*%s", t.Coef, t.Var)
	}
	if e.constant != 0 || b.Len() == 0 {
		if b.Len() > 0 {
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "%g", e.constant)
	}
	return b.String()
}
