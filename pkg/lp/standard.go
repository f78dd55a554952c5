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

	"gonum.org/v1/gonum/mat"
)

// Standard is the standard-form export of a Model:
//
//	minimize  C'x  subject to  A x = B,  x >= 0
//
// The first len(VarNames) columns of A are the model's variables in
// registration order; the remaining columns are slack/surplus variables
// introduced for inequality rows and upper bounds.
type Standard struct {
	C        []float64
	A        *mat.Dense
	B        []float64
	VarNames []string
	NumSlack int

	// ObjOffset is the objective's constant term, dropped from C and added
	// back to the solver's optimal value.
	ObjOffset float64
}

// Standardize converts the model to standard form. Inequality rows gain a
// slack (<=) or surplus (>=) column; finite upper bounds become extra <=
// rows. Expression constants fold into the right-hand side.
func (m *Model) Standardize() (*Standard, error) {
	if len(m.vars) == 0 {
		return nil, fmt.Errorf("model %s: no variables", m.name)
	}

	type row struct {
		expr  Expr
		sense Sense
		rhs   float64
	}
	rows := make([]row, 0, len(m.cons)+len(m.vars))
	for _, c := range m.cons {
		rows = append(rows, row{expr: c.Expr, sense: c.Sense, rhs: c.RHS - c.Expr.Constant()})
	}
	for _, v := range m.vars {
		if !math.IsInf(v.Upper, 1) {
			rows = append(rows, row{expr: NewExpr().AddTerm(v.Name, 1), sense: LessEq, rhs: v.Upper})
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("model %s: no constraints", m.name)
	}

	numSlack := 0
	for _, r := range rows {
		if r.sense != Equal {
			numSlack++
		}
	}

	n := len(m.vars)
	total := n + numSlack
	a := mat.NewDense(len(rows), total, nil)
	b := make([]float64, len(rows))
	slack := n
	for i, r := range rows {
		for _, t := range r.expr.Terms() {
			a.Set(i, m.varIdx[t.Var], t.Coef)
		}
		b[i] = r.rhs
		switch r.sense {
		case LessEq:
			a.Set(i, slack, 1)
			slack++
		case GreaterEq:
			a.Set(i, slack, -1)
			slack++
		}
	}

	c := make([]float64, total)
	for _, t := range m.objective.Terms() {
		c[m.varIdx[t.Var]] = t.Coef
	}

	names := make([]string, n)
	for i, v := range m.vars {
		names[i] = v.Name
	}

	return &Standard{
		C:         c,
		A:         a,
		B:         b,
		VarNames:  names,
		NumSlack:  numSlack,
		ObjOffset: m.objective.Constant(),
	}, nil
}
