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

// Package config holds the immutable run settings of a multi-stage case and
// their validation. The settings file follows the multi_stage_settings.yml
// vocabulary of the upstream case tooling.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/resilient-transition/planx/internal/stage"
)

// Solve mode names accepted in settings.
const (
	ModeJoint      = "joint"
	ModeSequential = "sequential"
)

// Defaults applied by Validate when fields are zero.
const (
	DefaultConvergenceTolerance = 1e-6
	DefaultMaxIterations        = 10
)

// ConfigError reports malformed run settings. It is fatal and aborts before
// any solve.
type ConfigError struct {
	Field string
	Msg   string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Msg)
}

// Run is the immutable configuration of one multi-stage run. Components
// receive it by value or pointer; the current stage index is always an
// explicit call parameter, never ambient state.
type Run struct {
	NumStages    int     `mapstructure:"NumStages" yaml:"NumStages"`
	StageLengths []int   `mapstructure:"StageLengths" yaml:"StageLengths"`
	WACC         float64 `mapstructure:"WACC" yaml:"WACC"`
	Myopic       bool    `mapstructure:"Myopic" yaml:"Myopic"`

	// SolveMode selects the decomposition strategy: "joint" or "sequential".
	SolveMode string `mapstructure:"SolveMode" yaml:"SolveMode"`

	// ConvergenceTolerance bounds the objective gap that ends the sequential
	// iteration loop. MaxIterations caps the loop regardless.
	ConvergenceTolerance float64 `mapstructure:"ConvergenceTolerance" yaml:"ConvergenceTolerance"`
	MaxIterations        int     `mapstructure:"MaxIterations" yaml:"MaxIterations"`

	// OpexMult is the per-stage operating-expense aggregation factor computed
	// upstream. Empty means 1.0 for every stage.
	OpexMult []float64 `mapstructure:"OpexMult" yaml:"OpexMult"`
}

// Load reads run settings from a YAML file and validates them.
func Load(path string) (*Run, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading run settings %s: %w", path, err)
	}
	var run Run
	if err := v.Unmarshal(&run); err != nil {
		return nil, fmt.Errorf("parsing run settings %s: %w", path, err)
	}
	if err := run.Validate(); err != nil {
		return nil, err
	}
	return &run, nil
}

// Validate checks the settings and fills defaults. Returns a *ConfigError on
// the first problem found.
func (r *Run) Validate() error {
	if r.NumStages < 1 {
		return &ConfigError{Field: "NumStages", Msg: fmt.Sprintf("must be >= 1, got %d", r.NumStages)}
	}
	if len(r.StageLengths) != r.NumStages {
		return &ConfigError{
			Field: "StageLengths",
			Msg:   fmt.Sprintf("want %d entries, got %d", r.NumStages, len(r.StageLengths)),
		}
	}
	for i, l := range r.StageLengths {
		if l <= 0 {
			return &ConfigError{Field: "StageLengths", Msg: fmt.Sprintf("stage %d length %d is not positive", i+1, l)}
		}
	}
	if r.WACC < 0 {
		return &ConfigError{Field: "WACC", Msg: fmt.Sprintf("must be >= 0, got %g", r.WACC)}
	}
	switch r.SolveMode {
	case ModeJoint, ModeSequential:
	case "":
		if r.Myopic {
			r.SolveMode = ModeSequential
		} else {
			r.SolveMode = ModeJoint
		}
	default:
		return &ConfigError{Field: "SolveMode", Msg: fmt.Sprintf("unknown mode %q", r.SolveMode)}
	}
	if r.Myopic && r.SolveMode == ModeJoint {
		return &ConfigError{Field: "SolveMode", Msg: "joint mode cannot run myopic; myopic stages solve independently"}
	}
	if len(r.OpexMult) == 0 {
		r.OpexMult = make([]float64, r.NumStages)
		for i := range r.OpexMult {
			r.OpexMult[i] = 1.0
		}
	}
	if len(r.OpexMult) != r.NumStages {
		return &ConfigError{
			Field: "OpexMult",
			Msg:   fmt.Sprintf("want %d entries, got %d", r.NumStages, len(r.OpexMult)),
		}
	}
	for i, m := range r.OpexMult {
		if m <= 0 {
			return &ConfigError{Field: "OpexMult", Msg: fmt.Sprintf("stage %d multiplier %g is not positive", i+1, m)}
		}
	}
	if r.ConvergenceTolerance == 0 {
		r.ConvergenceTolerance = DefaultConvergenceTolerance
	}
	if r.ConvergenceTolerance < 0 {
		return &ConfigError{Field: "ConvergenceTolerance", Msg: fmt.Sprintf("must be > 0, got %g", r.ConvergenceTolerance)}
	}
	if r.MaxIterations == 0 {
		r.MaxIterations = DefaultMaxIterations
	}
	if r.MaxIterations < 1 {
		return &ConfigError{Field: "MaxIterations", Msg: fmt.Sprintf("must be >= 1, got %d", r.MaxIterations)}
	}
	return nil
}

// Stages expands the settings into per-stage metadata.
func (r *Run) Stages() []stage.Stage {
	out := make([]stage.Stage, r.NumStages)
	for i := range out {
		out[i] = stage.Stage{
			Index:       i + 1,
			LengthYears: r.StageLengths[i],
			WACC:        r.WACC,
			Myopic:      r.Myopic,
			OpexMult:    r.OpexMult[i],
		}
	}
	return out
}
