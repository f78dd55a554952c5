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

	"github.com/resilient-transition/planx/pkg/lp"
)

// Stage is the immutable metadata of one planning period. Created once at
// run start and never mutated afterwards.
type Stage struct {
	// Index is the 1-based ordinal of the stage.
	Index int
	// LengthYears is the stage's duration.
	LengthYears int
	// WACC is the discount rate applied across stage boundaries.
	WACC float64
	// Myopic disables inter-stage discounting and feedback for the run.
	Myopic bool
	// OpexMult is the within-stage multi-year operating-expense aggregation
	// factor, precomputed by the input layer.
	OpexMult float64
}

// Registry owns one optimization sub-model per stage plus the resource and
// category metadata the multi-stage components read. Stages must be added in
// index order.
type Registry struct {
	stages []Stage
	inputs []*Input
	models []*lp.Model
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// AddStage builds the stage's sub-model from its input and registers both.
func (g *Registry) AddStage(st Stage, in *Input) error {
	if st.Index != len(g.stages)+1 {
		return fmt.Errorf("stage %d added out of order (want %d)", st.Index, len(g.stages)+1)
	}
	if st.LengthYears <= 0 {
		return fmt.Errorf("stage %d: length %d years is not positive", st.Index, st.LengthYears)
	}
	m, err := buildStageModel(st, in)
	if err != nil {
		return fmt.Errorf("building stage %d model: %w", st.Index, err)
	}
	g.stages = append(g.stages, st)
	g.inputs = append(g.inputs, in)
	g.models = append(g.models, m)
	return nil
}

// NumStages returns the number of registered stages.
func (g *Registry) NumStages() int { return len(g.stages) }

// Stage returns the metadata of stage t (1-based).
func (g *Registry) Stage(t int) Stage { return g.stages[t-1] }

// Stages returns all stage metadata in order.
func (g *Registry) Stages() []Stage {
	out := make([]Stage, len(g.stages))
	copy(out, g.stages)
	return out
}

// Model returns the sub-model of stage t (1-based).
func (g *Registry) Model(t int) *lp.Model { return g.models[t-1] }

// Input returns the case input of stage t (1-based).
func (g *Registry) Input(t int) *Input { return g.inputs[t-1] }
