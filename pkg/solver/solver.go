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

package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	gonumlp "gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/resilient-transition/planx/internal/logging"
	"github.com/resilient-transition/planx/pkg/lp"
)

// simplexTol is the pivot tolerance handed to the simplex backend.
const simplexTol = 1e-10

// Status classifies the outcome of a solve.
type Status int

// enumeration of Status
const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result holds the outcome of a successful solve.
type Result struct {
	Model     string
	Objective float64
	// Values maps every model variable name to its solved value.
	Values    map[string]float64
	SolveTime time.Duration
}

// Value returns the solved value of a variable (0 when absent).
func (r *Result) Value(name string) float64 {
	return r.Values[name]
}

// Evaluate computes a model expression under the solved values.
func (r *Result) Evaluate(e lp.Expr) float64 {
	return e.Evaluate(r.Values)
}

// SolveError is returned for any non-optimal outcome. It carries the status
// so callers can distinguish infeasible from unbounded from backend failure.
type SolveError struct {
	Model  string
	Status Status
	Err    error
}

// Error implements the error interface.
func (e *SolveError) Error() string {
	return fmt.Sprintf("solve %s: %s: %v", e.Model, e.Status, e.Err)
}

// Unwrap returns the backend error.
func (e *SolveError) Unwrap() error { return e.Err }

// Solve converts the model to standard form and runs the simplex backend.
// A non-optimal outcome returns a *SolveError; the result is nil in that case.
func Solve(ctx context.Context, m *lp.Model) (*Result, error) {
	logger := logr.FromContextOrDiscard(ctx)

	std, err := m.Standardize()
	if err != nil {
		return nil, &SolveError{Model: m.Name(), Status: StatusFailed, Err: err}
	}
	rows, cols := std.A.Dims()
	logger.V(logging.DEBUG).Info("Solving linear program",
		"model", m.Name(),
		"rows", rows,
		"cols", cols,
		"slacks", std.NumSlack)

	start := time.Now()
	opt, x, err := gonumlp.Simplex(std.C, std.A, std.B, simplexTol, nil)
	elapsed := time.Since(start)
	if err != nil {
		return nil, &SolveError{Model: m.Name(), Status: classify(err), Err: err}
	}

	values := make(map[string]float64, len(std.VarNames))
	for i, name := range std.VarNames {
		values[name] = x[i]
	}

	logger.V(logging.DEBUG).Info("Solved linear program",
		"model", m.Name(),
		"objective", opt+std.ObjOffset,
		"elapsed", elapsed)
	return &Result{
		Model:     m.Name(),
		Objective: opt + std.ObjOffset,
		Values:    values,
		SolveTime: elapsed,
	}, nil
}

// classify maps backend errors onto the status taxonomy.
func classify(err error) Status {
	switch {
	case errors.Is(err, gonumlp.ErrInfeasible):
		return StatusInfeasible
	case errors.Is(err, gonumlp.ErrUnbounded):
		return StatusUnbounded
	default:
		return StatusFailed
	}
}
