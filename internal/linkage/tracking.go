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

package linkage

import (
	"fmt"

	"github.com/resilient-transition/planx/internal/stage"
	"github.com/resilient-transition/planx/pkg/lp"
	"github.com/resilient-transition/planx/pkg/solver"
)

// TrackEdge records one prior-vintage tracking pin: stage Stage's tracking
// entry for (Family, Resource, Vintage) carries the value decided in stage
// Vintage. Own-vintage entries (Stage == Vintage) stay free and are tied to
// the stage's own NewCap/RetCap instead.
type TrackEdge struct {
	Stage    int
	Vintage  int
	Family   stage.Family
	Resource string
}

// builtVar returns the built-capacity tracking variable name.
func (e TrackEdge) builtVar() string {
	return stage.VintageKey(e.Family.TrackVar(), e.Resource, e.Vintage)
}

// builtConstraint returns the built tracking constraint name.
func (e TrackEdge) builtConstraint() string {
	return stage.VintageKey(e.Family.TrackConstraint(), e.Resource, e.Vintage)
}

// retiredVar returns the retired-capacity tracking variable name.
func (e TrackEdge) retiredVar() string {
	return stage.VintageKey(e.Family.RetTrackVar(), e.Resource, e.Vintage)
}

// retiredConstraint returns the retired tracking constraint name.
func (e TrackEdge) retiredConstraint() string {
	return stage.VintageKey(e.Family.RetTrackConstraint(), e.Resource, e.Vintage)
}

// InstallTracking adds vintage tracking to every stage model and returns the
// prior-vintage edges. For each tracked family with a non-empty resource set,
// each participating resource r, stage t, and vintage p <= t it creates
// nonnegative CapTrack[r,p] and RetCapTrack[r,p] variables plus:
//
//   - p == t: equalities tying the entries to the stage's own NewCap[r] and
//     RetCap[r]. These are the only writable entries for vintage p.
//   - p < t: pin constraints (RHS filled per solve mode) recorded as edges.
//
// Resources with neither can_retire nor new_build have fixed capacity and get
// no vintage bookkeeping at all.
func InstallTracking(reg *stage.Registry) ([]TrackEdge, error) {
	var edges []TrackEdge
	for t := 1; t <= reg.NumStages(); t++ {
		m := reg.Model(t)
		in := reg.Input(t)
		for _, f := range in.Families() {
			if !f.Tracked() {
				continue
			}
			for _, r := range in.FamilyResources(f) {
				if !r.Participates() {
					continue
				}
				for p := 1; p <= t; p++ {
					e := TrackEdge{Stage: t, Vintage: p, Family: f, Resource: r.Name}
					if err := installEntry(m, f, r.Name, e, p == t); err != nil {
						return nil, fmt.Errorf("stage %d vintage %d: %w", t, p, err)
					}
					if p < t {
						edges = append(edges, e)
					}
				}
			}
		}
	}
	return edges, nil
}

// installEntry adds the built and retired tracking variables for one
// (stage, family, resource, vintage) cell plus its constraint pair.
func installEntry(m *lp.Model, f stage.Family, resource string, e TrackEdge, ownVintage bool) error {
	if err := m.AddVariable(e.builtVar()); err != nil {
		return err
	}
	if err := m.AddVariable(e.retiredVar()); err != nil {
		return err
	}
	if ownVintage {
		built := lp.NewExpr().AddTerm(e.builtVar(), 1).AddTerm(stage.Key(f.NewVar(), resource), -1)
		if err := m.AddConstraint(e.builtConstraint(), built, lp.Equal, 0); err != nil {
			return err
		}
		retired := lp.NewExpr().AddTerm(e.retiredVar(), 1).AddTerm(stage.Key(f.RetVar(), resource), -1)
		return m.AddConstraint(e.retiredConstraint(), retired, lp.Equal, 0)
	}
	// Prior vintage: pin to a value decided elsewhere. The RHS starts at zero
	// and is either replaced by the solved carry-over (sequential mode) or the
	// whole row is superseded by a cross-stage equality (joint mode).
	built := lp.NewExpr().AddTerm(e.builtVar(), 1)
	if err := m.AddConstraint(e.builtConstraint(), built, lp.Equal, 0); err != nil {
		return err
	}
	retired := lp.NewExpr().AddTerm(e.retiredVar(), 1)
	return m.AddConstraint(e.retiredConstraint(), retired, lp.Equal, 0)
}

// FixTracking pins stage t's prior-vintage entries to the values solved in
// their vintage stages. Sequential mode calls this right before solving
// stage t.
func FixTracking(reg *stage.Registry, edges []TrackEdge, t int, results map[int]*solver.Result) error {
	m := reg.Model(t)
	for _, e := range edges {
		if e.Stage != t {
			continue
		}
		res, ok := results[e.Vintage]
		if !ok {
			return fmt.Errorf("fixing tracking for stage %d: no solved result for vintage stage %d", t, e.Vintage)
		}
		if err := m.SetRHS(e.builtConstraint(), res.Value(e.builtVar())); err != nil {
			return err
		}
		if err := m.SetRHS(e.retiredConstraint(), res.Value(e.retiredVar())); err != nil {
			return err
		}
	}
	return nil
}
