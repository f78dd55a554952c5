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

package reliability

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-logr/logr"

	"github.com/resilient-transition/planx/internal/logging"
	"github.com/resilient-transition/planx/internal/stage"
	"github.com/resilient-transition/planx/pkg/lp"
)

// Facet is one linear piece of an ELCC surface.
type Facet struct {
	Surface   string
	Index     int
	Intercept float64
	Slope1    float64
	Slope2    float64
}

// AxisMultiplier maps (surface, resource, axis) to the resource's
// participation coefficient on that axis.
type AxisMultiplier struct {
	Surface  string
	Resource string
	Axis     int
	Value    float64
}

// Derate is a resource's static NQC capacity-credit factor.
type Derate struct {
	Resource string
	Factor   float64
}

// Inputs is one stage's reliability case data.
type Inputs struct {
	Facets      []Facet
	Multipliers []AxisMultiplier
	Derates     []Derate

	// Target is the stage's reliability requirement (MW of qualifying
	// capacity). Zero disables the requirement row.
	Target float64
}

// Multiplier looks up the axis coefficient for (surface, resource, axis).
// Absence means "no contribution" and returns 0.0, never an error.
func (in *Inputs) Multiplier(surface, resource string, axis int) float64 {
	for _, m := range in.Multipliers {
		if m.Surface == surface && m.Resource == resource && m.Axis == axis {
			return m.Value
		}
	}
	return 0.0
}

// Surfaces returns the distinct surface names in sorted order.
func (in *Inputs) Surfaces() []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range in.Facets {
		if !seen[f.Surface] {
			seen[f.Surface] = true
			out = append(out, f.Surface)
		}
	}
	sort.Strings(out)
	return out
}

// SurfaceVar is the credit variable name for a surface.
func SurfaceVar(surface string) string {
	return "ELCC[" + surface + "]"
}

// FacetConstraint is the name of one facet's upper-bound row.
func FacetConstraint(surface string, facet int) string {
	return fmt.Sprintf("cELCCFacet[%s,%d]", surface, facet)
}

// ReliabilityConstraint is the name of the stage's requirement row.
const ReliabilityConstraint = "cMinReliability"

// NQC computes the baseline net qualifying capacity: the sum over resources
// of existing capacity times the static derate factor. A resource with no
// derate row contributes nothing (logged and skipped); a resource matching
// more than one row is ambiguous and fatal.
func NQC(ctx context.Context, resources []stage.Resource, derates []Derate) (float64, error) {
	logger := logr.FromContextOrDiscard(ctx)

	total := 0.0
	for _, r := range resources {
		matches := 0
		factor := 0.0
		for _, d := range derates {
			if d.Resource == r.Name {
				matches++
				factor = d.Factor
			}
		}
		switch {
		case matches == 0:
			logger.V(logging.DEBUG).Info("No NQC derate factor for resource, skipping",
				"resource", r.Name)
			continue
		case matches > 1:
			return 0, fmt.Errorf("duplicate NQC derate rows for resource %q", r.Name)
		}
		total += r.Existing[stage.Discharge] * factor
	}
	return total, nil
}

// Apply generates the stage's reliability constraints in the given model:
// one credit variable and facet envelope per surface, then the requirement
// row NQC + sum(credits) >= target.
func Apply(ctx context.Context, m *lp.Model, resources []stage.Resource, in *Inputs) error {
	logger := logr.FromContextOrDiscard(ctx)

	nqc, err := NQC(ctx, resources, in.Derates)
	if err != nil {
		return err
	}

	requirement := lp.NewExpr()
	for _, surface := range in.Surfaces() {
		credit := SurfaceVar(surface)
		if err := m.AddVariable(credit); err != nil {
			return err
		}
		requirement = requirement.AddTerm(credit, 1)

		for _, f := range in.Facets {
			if f.Surface != surface {
				continue
			}
			// credit - slope1*axis1 - slope2*axis2 <= intercept, where each
			// axis aggregate is sum(multiplier(r) * ending capacity(r)).
			row := lp.NewExpr().AddTerm(credit, 1)
			for _, r := range resources {
				end, ok := m.Expr(stage.Key(stage.Discharge.EndExpr(), r.Name))
				if !ok {
					continue
				}
				if mult := in.Multiplier(surface, r.Name, 1); mult != 0 {
					row = row.AddExpr(-f.Slope1*mult, end)
				}
				if mult := in.Multiplier(surface, r.Name, 2); mult != 0 {
					row = row.AddExpr(-f.Slope2*mult, end)
				}
			}
			if err := m.AddConstraint(FacetConstraint(surface, f.Index), row, lp.LessEq, f.Intercept); err != nil {
				return err
			}
		}
	}

	if in.Target > 0 {
		logger.V(logging.DEBUG).Info("Adding reliability requirement",
			"model", m.Name(),
			"target", in.Target,
			"nqc", nqc,
			"surfaces", len(in.Surfaces()))
		if err := m.AddConstraint(ReliabilityConstraint, requirement, lp.GreaterEq, in.Target-nqc); err != nil {
			return err
		}
	}
	return nil
}
