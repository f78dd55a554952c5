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
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/resilient-transition/planx/internal/config"
	"github.com/resilient-transition/planx/internal/linkage"
	"github.com/resilient-transition/planx/internal/logging"
	"github.com/resilient-transition/planx/pkg/solver"
)

// solveJoint composes the combined program and solves it once, then
// distributes the solved values back into per-stage results.
func (p *Plan) solveJoint(ctx context.Context) error {
	logger := logr.FromContextOrDiscard(ctx)

	joint, err := linkage.ComposeJoint(p.reg, p.links, p.tracks)
	if err != nil {
		return err
	}
	res, err := p.solveOne(ctx, joint.Name(), func() (*solver.Result, error) {
		return solver.Solve(ctx, joint)
	})
	if err != nil {
		return err
	}

	for t := 1; t <= p.reg.NumStages(); t++ {
		prefix := linkage.StagePrefix(t)
		values := make(map[string]float64)
		for name, v := range res.Values {
			if strings.HasPrefix(name, prefix) {
				values[strings.TrimPrefix(name, prefix)] = v
			}
		}
		p.results[t] = &solver.Result{
			Model:     p.reg.Model(t).Name(),
			Objective: p.reg.Model(t).Objective().Evaluate(values),
			Values:    values,
			SolveTime: res.SolveTime,
		}
	}

	p.stats = Stats{
		Mode:       config.ModeJoint,
		Iterations: 1,
		Converged:  true,
		Objective:  res.Objective,
		SolveTime:  res.SolveTime,
	}
	logger.Info("Joint solve completed",
		"objective", res.Objective,
		"elapsed", res.SolveTime)
	return nil
}

// solveSequential runs forward passes in stage order, pinning every stage to
// the previous stages' solved values, and repeats until the combined
// objective stops moving. Myopic runs do exactly one pass.
func (p *Plan) solveSequential(ctx context.Context) error {
	logger := logr.FromContextOrDiscard(ctx)

	maxIter := p.cfg.MaxIterations
	if p.cfg.Myopic {
		maxIter = 1
	}

	var totalTime time.Duration
	prevTotal := math.NaN()
	gap := math.Inf(1)
	converged := p.cfg.Myopic
	iter := 0
	for iter = 1; iter <= maxIter; iter++ {
		total := 0.0
		for t := 1; t <= p.reg.NumStages(); t++ {
			if t > 1 {
				if err := linkage.ApplyStart(p.reg, p.links, t, p.results); err != nil {
					return err
				}
				if err := linkage.FixTracking(p.reg, p.tracks, t, p.results); err != nil {
					return err
				}
			}
			m := p.reg.Model(t)
			res, err := p.solveOne(ctx, m.Name(), func() (*solver.Result, error) {
				return solver.Solve(ctx, m)
			})
			if err != nil {
				return fmt.Errorf("forward pass %d: %w", iter, err)
			}
			p.results[t] = res
			total += res.Objective
			totalTime += res.SolveTime
		}

		if !math.IsNaN(prevTotal) {
			gap = math.Abs(total - prevTotal)
			if gap <= p.cfg.ConvergenceTolerance {
				converged = true
				prevTotal = total
				break
			}
		}
		prevTotal = total
		logger.V(logging.DEBUG).Info("Forward pass completed",
			"iteration", iter,
			"objective", total,
			"gap", gap)
	}
	if iter > maxIter {
		iter = maxIter
	}
	if p.cfg.Myopic {
		gap = 0
	}

	p.stats = Stats{
		Mode:       config.ModeSequential,
		Iterations: iter,
		Converged:  converged,
		Gap:        gap,
		Objective:  prevTotal,
		SolveTime:  totalTime,
	}
	logger.Info("Sequential solve completed",
		"iterations", iter,
		"converged", converged,
		"objective", prevTotal,
		"elapsed", totalTime)
	return nil
}

// solveOne delegates a solve and records its outcome metrics. A non-optimal
// outcome is fatal for the pipeline.
func (p *Plan) solveOne(ctx context.Context, model string, solve func() (*solver.Result, error)) (*solver.Result, error) {
	start := time.Now()
	res, err := solve()
	if err != nil {
		status := solver.StatusFailed
		var serr *solver.SolveError
		if errors.As(err, &serr) {
			status = serr.Status
		}
		p.metrics.ObserveSolve(model, status.String(), time.Since(start))
		return nil, fmt.Errorf("stage pipeline halted: %w", err)
	}
	p.metrics.ObserveSolve(model, solver.StatusOptimal.String(), res.SolveTime)
	return res, nil
}
