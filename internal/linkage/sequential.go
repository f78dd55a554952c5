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
	"github.com/resilient-transition/planx/pkg/solver"
)

// ApplyStart re-targets stage t's start-capacity pins at the ending-capacity
// values solved for stage t-1. Sequential mode calls this right before
// solving stage t; the pin constraint itself is reused, only its right-hand
// side changes.
func ApplyStart(reg *stage.Registry, edges []Edge, t int, results map[int]*solver.Result) error {
	prev, ok := results[t-1]
	if !ok {
		return fmt.Errorf("linking stage %d: no solved result for stage %d", t, t-1)
	}
	m := reg.Model(t)
	from := reg.Model(t - 1)
	for _, e := range edges {
		if e.ToStage != t {
			continue
		}
		end, ok := from.Expr(e.EndExpr())
		if !ok {
			return fmt.Errorf("linking stage %d: missing expression %s in stage %d", t, e.EndExpr(), t-1)
		}
		if err := m.SetRHS(e.StartConstraint(), prev.Evaluate(end)); err != nil {
			return err
		}
	}
	return nil
}
