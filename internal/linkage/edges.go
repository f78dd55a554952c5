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

	"github.com/resilient-transition/planx/internal/config"
	"github.com/resilient-transition/planx/internal/stage"
)

// Edge is one directed cross-stage link: stage ToStage's starting capacity of
// (Family, Resource) equals stage ToStage-1's ending capacity.
type Edge struct {
	ToStage  int
	Family   stage.Family
	Resource string
}

// StartVar returns the starting-capacity variable name in the target stage.
func (e Edge) StartVar() string {
	return stage.Key(e.Family.StartVar(), e.Resource)
}

// StartConstraint returns the single-stage pin the link supersedes.
func (e Edge) StartConstraint() string {
	return stage.Key(e.Family.StartConstraint(), e.Resource)
}

// LinkConstraint returns the cross-stage equality name.
func (e Edge) LinkConstraint() string {
	return stage.Key(e.Family.LinkConstraint(), e.Resource)
}

// EndExpr returns the ending-capacity expression name in the source stage.
func (e Edge) EndExpr() string {
	return stage.Key(e.Family.EndExpr(), e.Resource)
}

// BuildEdges computes the link set for stages 2..N. A resource joins the set
// when it is retireable or new-buildable; transmission always links. Every
// expected variable, pin constraint, and ending-capacity expression must
// exist in the respective stage models; a missing one is a configuration
// error, not a skip.
func BuildEdges(reg *stage.Registry) ([]Edge, error) {
	var edges []Edge
	for t := 2; t <= reg.NumStages(); t++ {
		in := reg.Input(t)
		for _, f := range in.Families() {
			for _, r := range in.FamilyResources(f) {
				if !r.Participates() && !f.AlwaysLinked() {
					continue
				}
				e := Edge{ToStage: t, Family: f, Resource: r.Name}
				if err := checkEdge(reg, e); err != nil {
					return nil, err
				}
				edges = append(edges, e)
			}
		}
	}
	return edges, nil
}

// checkEdge verifies both endpoints of a link exist.
func checkEdge(reg *stage.Registry, e Edge) error {
	to := reg.Model(e.ToStage)
	if !to.HasVariable(e.StartVar()) {
		return &config.ConfigError{
			Field: "linking",
			Msg: fmt.Sprintf("stage %d has no variable %s for family %s",
				e.ToStage, e.StartVar(), e.Family),
		}
	}
	if !to.HasConstraint(e.StartConstraint()) {
		return &config.ConfigError{
			Field: "linking",
			Msg: fmt.Sprintf("stage %d has no constraint %s for family %s",
				e.ToStage, e.StartConstraint(), e.Family),
		}
	}
	from := reg.Model(e.ToStage - 1)
	if _, ok := from.Expr(e.EndExpr()); !ok {
		return &config.ConfigError{
			Field: "linking",
			Msg: fmt.Sprintf("stage %d has no ending-capacity expression %s: resource %q is absent from the stage's variable space",
				e.ToStage-1, e.EndExpr(), e.Resource),
		}
	}
	return nil
}
