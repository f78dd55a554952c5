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

// Package results collects solved values across stages into the multi-stage
// summary tables consumed by downstream reporting.
package results

import (
	"fmt"
	"sort"

	"github.com/resilient-transition/planx/internal/ddp"
	"github.com/resilient-transition/planx/internal/stage"
)

// CapacityRow is one resource's capacity trajectory across all stages for a
// single family. Slices are indexed by stage-1.
type CapacityRow struct {
	Resource string
	Family   stage.Family
	Zone     int

	Start []float64
	End   []float64
	New   []float64
	Ret   []float64
}

// MultiStage is the aggregated run summary.
type MultiStage struct {
	NumStages int
	Capacity  []CapacityRow
	// TotalCosts is each stage's (discounted) objective contribution.
	TotalCosts []float64
	Stats      ddp.Stats
}

// Collect reads the solved per-stage values out of a solved plan and marks
// the plan's outputs as written.
func Collect(p *ddp.Plan) (*MultiStage, error) {
	reg := p.Registry()
	n := reg.NumStages()

	rows := map[string]*CapacityRow{}
	var keys []string
	for t := 1; t <= n; t++ {
		res := p.Result(t)
		if res == nil {
			return nil, fmt.Errorf("collecting outputs: no result for stage %d", t)
		}
		in := reg.Input(t)
		for _, f := range in.Families() {
			for _, r := range in.FamilyResources(f) {
				key := fmt.Sprintf("%s/%s", r.Name, f)
				row, ok := rows[key]
				if !ok {
					row = &CapacityRow{
						Resource: r.Name,
						Family:   f,
						Zone:     r.Zone,
						Start:    make([]float64, n),
						End:      make([]float64, n),
						New:      make([]float64, n),
						Ret:      make([]float64, n),
					}
					rows[key] = row
					keys = append(keys, key)
				}
				row.Start[t-1] = res.Value(stage.Key(f.StartVar(), r.Name))
				row.New[t-1] = res.Value(stage.Key(f.NewVar(), r.Name))
				row.Ret[t-1] = res.Value(stage.Key(f.RetVar(), r.Name))
				if end, ok := reg.Model(t).Expr(stage.Key(f.EndExpr(), r.Name)); ok {
					row.End[t-1] = res.Evaluate(end)
				}
			}
		}
	}
	sort.Strings(keys)

	out := &MultiStage{
		NumStages:  n,
		TotalCosts: make([]float64, n),
		Stats:      p.Stats(),
	}
	for _, key := range keys {
		out.Capacity = append(out.Capacity, *rows[key])
	}
	for t := 1; t <= n; t++ {
		out.TotalCosts[t-1] = p.Result(t).Objective
	}

	if err := p.MarkOutputsWritten(); err != nil {
		return nil, err
	}
	return out, nil
}
