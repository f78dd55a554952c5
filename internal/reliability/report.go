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
	"math"

	"github.com/resilient-transition/planx/internal/stage"
	"github.com/resilient-transition/planx/pkg/lp"
)

// bindingTol is the slack below which a facet counts as binding.
const bindingTol = 1e-6

// FacetStatus is the post-solve state of one facet of a surface.
type FacetStatus struct {
	Surface string
	Index   int
	// Bound is the facet's value at the solved capacity vector.
	Bound float64
	// Slack is Bound minus the surface's credit value.
	Slack   float64
	Binding bool
}

// SurfaceStatus is the post-solve state of one surface.
type SurfaceStatus struct {
	Surface string
	Credit  float64
	Facets  []FacetStatus
}

// Diagnostics reports per-facet binding status and the reliability total for
// one solved stage.
type Diagnostics struct {
	NQC      float64
	Surfaces []SurfaceStatus
	// Total is NQC plus all surface credits.
	Total  float64
	Target float64
}

// Report evaluates the reliability structure under solved values. The model
// must be the one Apply was called on, and values its solved variable values.
func Report(ctx context.Context, m *lp.Model, resources []stage.Resource, in *Inputs, values map[string]float64) (*Diagnostics, error) {
	nqc, err := NQC(ctx, resources, in.Derates)
	if err != nil {
		return nil, err
	}
	diag := &Diagnostics{NQC: nqc, Total: nqc, Target: in.Target}

	for _, surface := range in.Surfaces() {
		credit := values[SurfaceVar(surface)]
		status := SurfaceStatus{Surface: surface, Credit: credit}
		for _, f := range in.Facets {
			if f.Surface != surface {
				continue
			}
			bound := facetBound(m, resources, in, f, values)
			status.Facets = append(status.Facets, FacetStatus{
				Surface: surface,
				Index:   f.Index,
				Bound:   bound,
				Slack:   bound - credit,
				Binding: math.Abs(bound-credit) <= bindingTol,
			})
		}
		diag.Surfaces = append(diag.Surfaces, status)
		diag.Total += credit
	}
	return diag, nil
}

// facetBound evaluates intercept + slope1*axis1 + slope2*axis2 at the solved
// capacity vector.
func facetBound(m *lp.Model, resources []stage.Resource, in *Inputs, f Facet, values map[string]float64) float64 {
	bound := f.Intercept
	for _, r := range resources {
		end, ok := m.Expr(stage.Key(stage.Discharge.EndExpr(), r.Name))
		if !ok {
			continue
		}
		cap := end.Evaluate(values)
		bound += f.Slope1 * in.Multiplier(f.Surface, r.Name, 1) * cap
		bound += f.Slope2 * in.Multiplier(f.Surface, r.Name, 2) * cap
	}
	return bound
}

// Envelope returns the surface value implied by the facets at an arbitrary
// capacity vector: the minimum facet bound. Useful for verifying the concave
// envelope without a solve.
func Envelope(m *lp.Model, resources []stage.Resource, in *Inputs, surface string, values map[string]float64) float64 {
	min := math.Inf(1)
	for _, f := range in.Facets {
		if f.Surface != surface {
			continue
		}
		if b := facetBound(m, resources, in, f, values); b < min {
			min = b
		}
	}
	return min
}
