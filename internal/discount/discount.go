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

// Package discount rescales per-stage objectives into the combined
// multi-stage objective.
//
// A stage's contribution is DF * OPEXMULT * objective, where
// DF = 1/(1+WACC)^cum_years discounts back across all earlier stages and
// OPEXMULT is the within-stage multi-year operating-expense factor supplied
// by the input layer. Investment terms arrive already annualized by an
// upstream 1/WACC factor; the DF*OPEXMULT scaling composes multiplicatively
// with that and must not duplicate it. Myopic runs skip scaling entirely.
package discount

import (
	"math"

	"github.com/resilient-transition/planx/internal/stage"
	"github.com/resilient-transition/planx/pkg/lp"
)

// CumulativeYears sums the lengths of stages 1..t-1.
func CumulativeYears(stages []stage.Stage, t int) int {
	years := 0
	for _, st := range stages[:t-1] {
		years += st.LengthYears
	}
	return years
}

// Factor returns the discount factor DF for stage t. In myopic mode the
// factor is 1 regardless of WACC: stages optimize independently with costs
// left annualized.
func Factor(stages []stage.Stage, t int) float64 {
	st := stages[t-1]
	if st.Myopic {
		return 1.0
	}
	return 1.0 / math.Pow(1.0+st.WACC, float64(CumulativeYears(stages, t)))
}

// ScaleObjective applies the stage's contribution factor DF*OPEXMULT to the
// model's objective in place. Myopic runs leave the objective unscaled.
func ScaleObjective(m *lp.Model, stages []stage.Stage, t int) {
	st := stages[t-1]
	if st.Myopic {
		return
	}
	m.ScaleObjective(Factor(stages, t) * st.OpexMult)
}
