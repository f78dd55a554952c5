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

// Package metrics exposes solve statistics as Prometheus collectors. The
// decomposition driver records into a run-local registry; embedding callers
// decide whether to serve or just read it.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Set bundles the planner's collectors with their registry.
type Set struct {
	registry *prometheus.Registry

	solveDuration *prometheus.HistogramVec
	solveTotal    *prometheus.CounterVec
	iterations    prometheus.Gauge
	objective     prometheus.Gauge
}

// NewSet creates and registers the planner collectors.
func NewSet() *Set {
	s := &Set{
		registry: prometheus.NewRegistry(),
		solveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "planx_solve_duration_seconds",
			Help:    "Wall-clock duration of each delegated LP solve.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"model"}),
		solveTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planx_solves_total",
			Help: "Delegated LP solves by model and outcome.",
		}, []string{"model", "status"}),
		iterations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planx_ddp_iterations",
			Help: "Forward-pass iterations of the last sequential run.",
		}),
		objective: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planx_objective_value",
			Help: "Combined multi-stage objective of the last run.",
		}),
	}
	s.registry.MustRegister(s.solveDuration, s.solveTotal, s.iterations, s.objective)
	return s
}

// Registry returns the underlying registry for serving or gathering.
func (s *Set) Registry() *prometheus.Registry { return s.registry }

// ObserveSolve records one delegated solve.
func (s *Set) ObserveSolve(model, status string, d time.Duration) {
	s.solveDuration.WithLabelValues(model).Observe(d.Seconds())
	s.solveTotal.WithLabelValues(model, status).Inc()
}

// SetIterations records the sequential iteration count.
func (s *Set) SetIterations(n int) { s.iterations.Set(float64(n)) }

// SetObjective records the combined objective value.
func (s *Set) SetObjective(v float64) { s.objective.Set(v) }
