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

package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, s *Set) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := s.Registry().Gather()
	require.NoError(t, err)
	out := map[string]*dto.MetricFamily{}
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func TestObserveSolve(t *testing.T) {
	s := NewSet()
	s.ObserveSolve("stage_1", "optimal", 5*time.Millisecond)
	s.ObserveSolve("stage_1", "optimal", 7*time.Millisecond)
	s.ObserveSolve("stage_2", "infeasible", time.Millisecond)

	families := gather(t, s)

	total, ok := families["planx_solves_total"]
	require.True(t, ok)
	require.Len(t, total.GetMetric(), 2)

	byLabels := map[string]float64{}
	for _, m := range total.GetMetric() {
		key := ""
		for _, l := range m.GetLabel() {
			key += l.GetName() + "=" + l.GetValue() + ";"
		}
		byLabels[key] = m.GetCounter().GetValue()
	}
	assert.Equal(t, 2.0, byLabels["model=stage_1;status=optimal;"])
	assert.Equal(t, 1.0, byLabels["model=stage_2;status=infeasible;"])

	duration, ok := families["planx_solve_duration_seconds"]
	require.True(t, ok)
	var count uint64
	for _, m := range duration.GetMetric() {
		count += m.GetHistogram().GetSampleCount()
	}
	assert.Equal(t, uint64(3), count)
}

func TestGauges(t *testing.T) {
	s := NewSet()
	s.SetIterations(4)
	s.SetObjective(12345.6)

	families := gather(t, s)
	assert.Equal(t, 4.0, families["planx_ddp_iterations"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, 12345.6, families["planx_objective_value"].GetMetric()[0].GetGauge().GetValue())
}
