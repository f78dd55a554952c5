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

package stage

import (
	"fmt"
	"math"

	"github.com/resilient-transition/planx/pkg/lp"
)

// buildStageModel constructs a single stage's sub-model: capacity balance
// variables and the named ending-capacity expression per family and resource,
// plus a peak-demand adequacy row and the annualized cost objective.
//
// The per-stage dispatch formulation deliberately stays out; the multi-stage
// engine only requires the named capacity surface built here.
func buildStageModel(st Stage, in *Input) (*lp.Model, error) {
	m := lp.NewModel(fmt.Sprintf("stage_%d", st.Index))

	for _, f := range in.Families() {
		for _, r := range in.FamilyResources(f) {
			if err := addCapacityBalance(m, f, r); err != nil {
				return nil, err
			}
		}
	}

	if in.PeakDemand > 0 {
		adequacy := lp.NewExpr()
		for _, r := range in.FamilyResources(Discharge) {
			end, ok := m.Expr(Key(Discharge.EndExpr(), r.Name))
			if !ok {
				return nil, fmt.Errorf("stage %d: missing ending-capacity expression for %q", st.Index, r.Name)
			}
			adequacy = adequacy.AddExpr(1, end)
		}
		if err := m.AddConstraint("cPeakDemand", adequacy, lp.GreaterEq, in.PeakDemand); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// addCapacityBalance adds Start/New/Ret variables, the EndCap expression, the
// single-stage start pin, and the cost terms for one (family, resource) pair.
func addCapacityBalance(m *lp.Model, f Family, r Resource) error {
	start := Key(f.StartVar(), r.Name)
	newCap := Key(f.NewVar(), r.Name)
	retCap := Key(f.RetVar(), r.Name)

	canBuild := r.NewBuild || f.AlwaysLinked()
	canRetire := r.CanRetire && !f.AlwaysLinked()

	if err := m.AddVariable(start); err != nil {
		return err
	}
	newUpper := math.Inf(1)
	if !canBuild {
		newUpper = 0
	} else if u, ok := r.MaxNew[f]; ok {
		newUpper = u
	}
	if err := m.AddBoundedVariable(newCap, newUpper); err != nil {
		return err
	}
	retUpper := math.Inf(1)
	if !canRetire {
		retUpper = 0
	}
	if err := m.AddBoundedVariable(retCap, retUpper); err != nil {
		return err
	}

	// StartCap pins to the stage's own existing capacity. For t>1 the linkage
	// layer supersedes (joint mode) or re-targets (sequential mode) this row.
	pin := lp.NewExpr().AddTerm(start, 1)
	if err := m.AddConstraint(Key(f.StartConstraint(), r.Name), pin, lp.Equal, r.Existing[f]); err != nil {
		return err
	}

	if canRetire {
		maxRet := lp.NewExpr().AddTerm(retCap, 1).AddTerm(start, -1)
		if err := m.AddConstraint(Key(f.MaxRetConstraint(), r.Name), maxRet, lp.LessEq, 0); err != nil {
			return err
		}
	}

	end := lp.NewExpr().AddTerm(start, 1).AddTerm(newCap, 1).AddTerm(retCap, -1)
	if err := m.DefineExpr(Key(f.EndExpr(), r.Name), end); err != nil {
		return err
	}

	// Annualized costs; investment terms arrive pre-scaled by the upstream
	// 1/WACC annualization, so no discounting happens here.
	if c := r.InvCost[f]; c != 0 {
		m.AddToObjective(c, lp.NewExpr().AddTerm(newCap, 1))
	}
	if c := r.FixedCost[f]; c != 0 {
		m.AddToObjective(c, end)
	}
	return nil
}
