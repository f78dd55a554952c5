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

package ddp

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/resilient-transition/planx/internal/config"
	"github.com/resilient-transition/planx/internal/discount"
	"github.com/resilient-transition/planx/internal/linkage"
	"github.com/resilient-transition/planx/internal/logging"
	"github.com/resilient-transition/planx/internal/metrics"
	"github.com/resilient-transition/planx/internal/reliability"
	"github.com/resilient-transition/planx/internal/stage"
	"github.com/resilient-transition/planx/pkg/solver"
)

// State is a Plan's position in the pipeline. Transitions are strictly
// forward.
type State int

// enumeration of State
const (
	StateUninitialized State = iota
	StateStagesBuilt
	StateLinked
	StateSolved
	StateOutputsWritten
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateStagesBuilt:
		return "StagesBuilt"
	case StateLinked:
		return "Linked"
	case StateSolved:
		return "Solved"
	case StateOutputsWritten:
		return "OutputsWritten"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Stats summarizes a completed run.
type Stats struct {
	Mode       string
	Iterations int
	Converged  bool
	// Gap is the absolute objective change of the last sequential forward
	// pass; zero for joint solves.
	Gap       float64
	Objective float64
	SolveTime time.Duration
}

// Plan drives one multi-stage run over an already-populated registry.
type Plan struct {
	cfg *config.Run
	reg *stage.Registry
	rel map[int]*reliability.Inputs

	links  []linkage.Edge
	tracks []linkage.TrackEdge

	results map[int]*solver.Result
	stats   Stats
	state   State

	metrics *metrics.Set
}

// New wraps a populated registry into a plan. The registry must hold exactly
// the configured number of stages, built with the settings' myopic flag.
// rel maps stage index to that stage's
// reliability inputs; stages without an entry get no reliability constraints.
func New(cfg *config.Run, reg *stage.Registry, rel map[int]*reliability.Inputs, ms *metrics.Set) (*Plan, error) {
	if reg.NumStages() != cfg.NumStages {
		return nil, &config.ConfigError{
			Field: "NumStages",
			Msg:   fmt.Sprintf("settings declare %d stages but %d were built", cfg.NumStages, reg.NumStages()),
		}
	}
	// The discounting layer reads myopia off the stage metadata; a registry
	// built with flags that disagree with the run settings would discount a
	// myopic run (or skip discounting a non-myopic one) without any error.
	for t := 1; t <= reg.NumStages(); t++ {
		if reg.Stage(t).Myopic != cfg.Myopic {
			return nil, &config.ConfigError{
				Field: "Myopic",
				Msg:   fmt.Sprintf("stage %d was built with myopic=%t but settings say %t", t, reg.Stage(t).Myopic, cfg.Myopic),
			}
		}
	}
	if ms == nil {
		ms = metrics.NewSet()
	}
	return &Plan{
		cfg:     cfg,
		reg:     reg,
		rel:     rel,
		results: map[int]*solver.Result{},
		state:   StateStagesBuilt,
		metrics: ms,
	}, nil
}

// State returns the plan's pipeline state.
func (p *Plan) State() State { return p.state }

// Registry returns the stage registry.
func (p *Plan) Registry() *stage.Registry { return p.reg }

// Config returns the run settings.
func (p *Plan) Config() *config.Run { return p.cfg }

// Stats returns the run summary; valid once Solved.
func (p *Plan) Stats() Stats { return p.stats }

// Metrics returns the run's metrics set.
func (p *Plan) Metrics() *metrics.Set { return p.metrics }

// Result returns stage t's solved result; nil before Solve.
func (p *Plan) Result(t int) *solver.Result { return p.results[t] }

// advance checks and performs one forward state transition.
func (p *Plan) advance(from, to State) error {
	if p.state != from {
		return fmt.Errorf("invalid transition to %s: plan is %s, want %s", to, p.state, from)
	}
	p.state = to
	return nil
}

// Link validates the cross-stage metadata, generates each stage's
// reliability constraints, materializes the link and tracking structure, and
// applies objective discounting. StagesBuilt → Linked.
func (p *Plan) Link(ctx context.Context) error {
	logger := logr.FromContextOrDiscard(ctx)
	if p.state != StateStagesBuilt {
		return fmt.Errorf("invalid transition to %s: plan is %s, want %s", StateLinked, p.state, StateStagesBuilt)
	}

	if err := linkage.ValidateRetirementFlags(p.reg); err != nil {
		return err
	}

	for t := 1; t <= p.reg.NumStages(); t++ {
		in, ok := p.rel[t]
		if !ok {
			continue
		}
		if err := reliability.Apply(ctx, p.reg.Model(t), p.reg.Input(t).Resources, in); err != nil {
			return fmt.Errorf("stage %d reliability constraints: %w", t, err)
		}
	}

	links, err := linkage.BuildEdges(p.reg)
	if err != nil {
		return err
	}
	tracks, err := linkage.InstallTracking(p.reg)
	if err != nil {
		return err
	}
	p.links, p.tracks = links, tracks

	stages := p.reg.Stages()
	for t := 1; t <= p.reg.NumStages(); t++ {
		discount.ScaleObjective(p.reg.Model(t), stages, t)
	}

	logger.V(logging.DEBUG).Info("Linked multi-stage structure",
		"stages", p.reg.NumStages(),
		"linkEdges", len(links),
		"trackEdges", len(tracks))
	return p.advance(StateStagesBuilt, StateLinked)
}

// Solve runs the configured strategy. Linked → Solved. Any non-optimal stage
// halts the pipeline with the solver's error.
func (p *Plan) Solve(ctx context.Context) error {
	if p.state != StateLinked {
		return fmt.Errorf("invalid transition to %s: plan is %s, want %s", StateSolved, p.state, StateLinked)
	}

	var err error
	switch p.cfg.SolveMode {
	case config.ModeJoint:
		err = p.solveJoint(ctx)
	case config.ModeSequential:
		err = p.solveSequential(ctx)
	default:
		err = &config.ConfigError{Field: "SolveMode", Msg: fmt.Sprintf("unknown mode %q", p.cfg.SolveMode)}
	}
	if err != nil {
		return err
	}

	p.metrics.SetIterations(p.stats.Iterations)
	p.metrics.SetObjective(p.stats.Objective)
	return p.advance(StateLinked, StateSolved)
}

// MarkOutputsWritten records that the aggregated outputs left the plan.
// Solved → OutputsWritten.
func (p *Plan) MarkOutputsWritten() error {
	return p.advance(StateSolved, StateOutputsWritten)
}

// ReliabilityReport returns post-solve ELCC diagnostics for stage t, or nil
// when the stage has no reliability inputs.
func (p *Plan) ReliabilityReport(ctx context.Context, t int) (*reliability.Diagnostics, error) {
	if p.state != StateSolved && p.state != StateOutputsWritten {
		return nil, fmt.Errorf("reliability report: plan is %s, want %s", p.state, StateSolved)
	}
	in, ok := p.rel[t]
	if !ok {
		return nil, nil
	}
	res := p.results[t]
	if res == nil {
		return nil, fmt.Errorf("reliability report: no result for stage %d", t)
	}
	return reliability.Report(ctx, p.reg.Model(t), p.reg.Input(t).Resources, in, res.Values)
}
