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
)

// StagePrefix is the namespace a stage's names carry inside the joint model.
func StagePrefix(t int) string {
	return fmt.Sprintf("p%d.", t)
}

// ComposeJoint assembles all stage sub-models plus the link and tracking
// structure into one combined program. Per-stage rows superseded by a
// cross-stage replacement (start-capacity pins of linked resources,
// prior-vintage tracking pins) are omitted during the merge rather than
// deleted afterwards, so no live constraint is ever mutated.
func ComposeJoint(reg *stage.Registry, links []Edge, tracks []TrackEdge) (*lp.Model, error) {
	superseded := make(map[int]map[string]bool, reg.NumStages())
	for t := 1; t <= reg.NumStages(); t++ {
		superseded[t] = map[string]bool{}
	}
	for _, e := range links {
		superseded[e.ToStage][e.StartConstraint()] = true
	}
	for _, e := range tracks {
		superseded[e.Stage][e.builtConstraint()] = true
		superseded[e.Stage][e.retiredConstraint()] = true
	}

	joint := lp.NewModel("multi_stage")
	for t := 1; t <= reg.NumStages(); t++ {
		if err := joint.Merge(reg.Model(t), StagePrefix(t), superseded[t]); err != nil {
			return nil, fmt.Errorf("merging stage %d into joint model: %w", t, err)
		}
	}

	for _, e := range links {
		from := reg.Model(e.ToStage - 1)
		end, ok := from.Expr(e.EndExpr())
		if !ok {
			return nil, fmt.Errorf("joint link for stage %d: missing expression %s", e.ToStage, e.EndExpr())
		}
		expr := lp.NewExpr().
			AddTerm(StagePrefix(e.ToStage)+e.StartVar(), 1).
			AddExpr(-1, prefixExpr(end, StagePrefix(e.ToStage-1)))
		name := StagePrefix(e.ToStage) + e.LinkConstraint()
		if err := joint.AddConstraint(name, expr, lp.Equal, 0); err != nil {
			return nil, err
		}
	}

	for _, e := range tracks {
		// The vintage stage's own entry is the single source of truth; every
		// later stage's copy equals it symbolically.
		builtEq := lp.NewExpr().
			AddTerm(StagePrefix(e.Stage)+e.builtVar(), 1).
			AddTerm(StagePrefix(e.Vintage)+e.builtVar(), -1)
		if err := joint.AddConstraint(StagePrefix(e.Stage)+e.builtConstraint(), builtEq, lp.Equal, 0); err != nil {
			return nil, err
		}
		retiredEq := lp.NewExpr().
			AddTerm(StagePrefix(e.Stage)+e.retiredVar(), 1).
			AddTerm(StagePrefix(e.Vintage)+e.retiredVar(), -1)
		if err := joint.AddConstraint(StagePrefix(e.Stage)+e.retiredConstraint(), retiredEq, lp.Equal, 0); err != nil {
			return nil, err
		}
	}

	return joint, nil
}

// prefixExpr rebuilds an expression with every variable name prefixed.
func prefixExpr(e lp.Expr, prefix string) lp.Expr {
	out := lp.NewExpr().AddConst(e.Constant())
	for _, t := range e.Terms() {
		out = out.AddTerm(prefix+t.Var, t.Coef)
	}
	return out
}
