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
	"math"
	"strings"
	"testing"
)

func TestModelDuplicateNamesRejected(t *testing.T) {
	m := NewModel("test")
	if err := m.AddVariable("x"); err != nil {
		t.Fatalf("AddVariable: %v", err)
	}
	if err := m.AddVariable("x"); err == nil {
		t.Error("duplicate variable accepted")
	}
	if err := m.AddConstraint("c", NewExpr().AddTerm("x", 1), LessEq, 1); err != nil {
		t.Fatalf("AddConstraint: %v", err)
	}
	if err := m.AddConstraint("c", NewExpr().AddTerm("x", 1), LessEq, 2); err == nil {
		t.Error("duplicate constraint accepted")
	}
	if err := m.DefineExpr("e", NewExpr()); err != nil {
		t.Fatalf("DefineExpr: %v", err)
	}
	if err := m.DefineExpr("e", NewExpr()); err == nil {
		t.Error("duplicate expression accepted")
	}
}

func TestModelConstraintUnknownVariable(t *testing.T) {
	m := NewModel("test")
	err := m.AddConstraint("c", NewExpr().AddTerm("ghost", 1), Equal, 0)
	if err == nil || !strings.Contains(err.Error(), "ghost") {
		t.Errorf("want unknown-variable error naming ghost, got %v", err)
	}
}

func TestModelSetRHS(t *testing.T) {
	m := NewModel("test")
	if err := m.AddVariable("x"); err != nil {
		t.Fatal(err)
	}
	if err := m.AddConstraint("pin", NewExpr().AddTerm("x", 1), Equal, 5); err != nil {
		t.Fatal(err)
	}
	if err := m.SetRHS("pin", 7); err != nil {
		t.Fatal(err)
	}
	if got := m.Constraint("pin").RHS; got != 7 {
		t.Errorf("RHS = %g, want 7", got)
	}
	if err := m.SetRHS("nope", 1); err == nil {
		t.Error("SetRHS on unknown constraint accepted")
	}
}

func TestStandardizeSlacksAndBounds(t *testing.T) {
	m := NewModel("test")
	if err := m.AddVariable("x"); err != nil {
		t.Fatal(err)
	}
	if err := m.AddBoundedVariable("y", 4); err != nil {
		t.Fatal(err)
	}
	if err := m.AddConstraint("le", NewExpr().AddTerm("x", 1).AddTerm("y", 1), LessEq, 10); err != nil {
		t.Fatal(err)
	}
	if err := m.AddConstraint("ge", NewExpr().AddTerm("x", 2), GreaterEq, 3); err != nil {
		t.Fatal(err)
	}
	if err := m.AddConstraint("eq", NewExpr().AddTerm("y", 1).AddConst(1), Equal, 3); err != nil {
		t.Fatal(err)
	}
	m.AddToObjective(1, NewExpr().AddTerm("x", 1).AddConst(100))

	std, err := m.Standardize()
	if err != nil {
		t.Fatal(err)
	}

	// rows: le, ge, eq + upper bound on y; slacks for le, ge, and the bound
	rows, cols := std.A.Dims()
	if rows != 4 {
		t.Errorf("rows = %d, want 4", rows)
	}
	if std.NumSlack != 3 {
		t.Errorf("NumSlack = %d, want 3", std.NumSlack)
	}
	if cols != 2+3 {
		t.Errorf("cols = %d, want 5", cols)
	}
	if std.ObjOffset != 100 {
		t.Errorf("ObjOffset = %g, want 100", std.ObjOffset)
	}
	// expression constant folds into the rhs: y + 1 == 3 becomes y == 2
	if got := std.B[2]; got != 2 {
		t.Errorf("eq rhs = %g, want 2", got)
	}
	// slack signs: +1 for <=, -1 for >=
	if got := std.A.At(0, 2); got != 1 {
		t.Errorf("le slack coefficient = %g, want 1", got)
	}
	if got := std.A.At(1, 3); got != -1 {
		t.Errorf("ge surplus coefficient = %g, want -1", got)
	}
	if got := std.VarNames[0]; got != "x" {
		t.Errorf("VarNames[0] = %q, want x", got)
	}
}

func TestMergePrefixesAndSkips(t *testing.T) {
	a := NewModel("a")
	if err := a.AddVariable("x"); err != nil {
		t.Fatal(err)
	}
	if err := a.AddConstraint("keep", NewExpr().AddTerm("x", 1), LessEq, 1); err != nil {
		t.Fatal(err)
	}
	if err := a.AddConstraint("drop", NewExpr().AddTerm("x", 1), Equal, 2); err != nil {
		t.Fatal(err)
	}
	if err := a.DefineExpr("end", NewExpr().AddTerm("x", 1)); err != nil {
		t.Fatal(err)
	}
	a.AddToObjective(3, NewExpr().AddTerm("x", 1))

	joint := NewModel("joint")
	if err := joint.Merge(a, "p1.", map[string]bool{"drop": true}); err != nil {
		t.Fatal(err)
	}

	if !joint.HasVariable("p1.x") {
		t.Error("merged variable p1.x missing")
	}
	if !joint.HasConstraint("p1.keep") {
		t.Error("merged constraint p1.keep missing")
	}
	if joint.HasConstraint("p1.drop") {
		t.Error("skipped constraint p1.drop was merged")
	}
	e, ok := joint.Expr("p1.end")
	if !ok {
		t.Fatal("merged expression p1.end missing")
	}
	if got := e.Coef("p1.x"); got != 1 {
		t.Errorf("merged expression coefficient = %g, want 1", got)
	}
	if got := joint.Objective().Coef("p1.x"); got != 3 {
		t.Errorf("merged objective coefficient = %g, want 3", got)
	}
}

func TestStandardizeRejectsEmptyModel(t *testing.T) {
	if _, err := NewModel("empty").Standardize(); err == nil {
		t.Error("empty model standardized without error")
	}
}

func TestVariableBounds(t *testing.T) {
	m := NewModel("test")
	if err := m.AddBoundedVariable("x", -1); err == nil {
		t.Error("negative upper bound accepted")
	}
	if err := m.AddVariable("x"); err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(m.Variables()[0].Upper, 1) {
		t.Error("default upper bound is not +Inf")
	}
	if err := m.SetUpper("x", 9); err != nil {
		t.Fatal(err)
	}
	if got := m.Variables()[0].Upper; got != 9 {
		t.Errorf("Upper = %g, want 9", got)
	}
}
