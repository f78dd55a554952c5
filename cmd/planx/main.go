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

// planx runs a multi-stage capacity-expansion case end to end: it loads the
// per-stage inputs, links the stage models, solves with the configured
// decomposition strategy, and writes the multi-stage summary tables.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/resilient-transition/planx/internal/config"
	"github.com/resilient-transition/planx/internal/ddp"
	"github.com/resilient-transition/planx/internal/logging"
	"github.com/resilient-transition/planx/internal/metrics"
	"github.com/resilient-transition/planx/internal/reliability"
	"github.com/resilient-transition/planx/internal/results"
	"github.com/resilient-transition/planx/internal/stage"
)

// Case layout file and directory names.
const (
	settingsPath  = "settings/multi_stage_settings.yml"
	inputsDir     = "inputs"
	resourcesFile = "Resource_multistage_data.csv"
	stageDataFile = "stage_data.yml"
	policyDir     = "policy_assignments"
)

func main() {
	var (
		caseDir   string
		outDir    string
		mode      string
		verbosity int
		dev       bool
	)
	flag.StringVar(&caseDir, "case", "", "case directory")
	flag.StringVar(&outDir, "out", "", "output directory (default <case>/results)")
	flag.StringVar(&mode, "mode", "", "override solve mode: joint or sequential")
	flag.IntVarP(&verbosity, "verbosity", "v", 0, "log verbosity")
	flag.BoolVar(&dev, "dev", false, "developer-friendly log output")
	flag.Parse()

	logger, err := logging.NewLogger(verbosity, dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setting up logging: %v\n", err)
		os.Exit(1)
	}
	if caseDir == "" {
		logger.Error(nil, "missing required --case flag")
		os.Exit(2)
	}
	if outDir == "" {
		outDir = filepath.Join(caseDir, "results")
	}
	ctx := logr.NewContext(context.Background(), logger)

	if err := run(ctx, caseDir, outDir, mode); err != nil {
		logger.Error(err, "run failed", "case", caseDir)
		os.Exit(1)
	}
}

func run(ctx context.Context, caseDir, outDir, modeOverride string) error {
	logger := logr.FromContextOrDiscard(ctx)

	cfg, err := config.Load(filepath.Join(caseDir, settingsPath))
	if err != nil {
		return err
	}
	if modeOverride != "" {
		cfg.SolveMode = modeOverride
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	logger.Info("Loaded run settings",
		"stages", cfg.NumStages,
		"mode", cfg.SolveMode,
		"myopic", cfg.Myopic,
		"wacc", cfg.WACC)

	reg := stage.NewRegistry()
	rel := map[int]*reliability.Inputs{}
	for t, st := range cfg.Stages() {
		dir := filepath.Join(caseDir, inputsDir, fmt.Sprintf("inputs_p%d", t+1))
		in, target, err := loadStageInput(dir)
		if err != nil {
			return fmt.Errorf("loading stage %d inputs: %w", t+1, err)
		}
		if err := reg.AddStage(st, in); err != nil {
			return err
		}
		relIn, err := reliability.LoadDir(filepath.Join(dir, policyDir), target)
		if err != nil {
			return fmt.Errorf("loading stage %d reliability inputs: %w", t+1, err)
		}
		if len(relIn.Facets) > 0 || len(relIn.Derates) > 0 || target > 0 {
			rel[t+1] = relIn
		}
	}

	plan, err := ddp.New(cfg, reg, rel, metrics.NewSet())
	if err != nil {
		return err
	}
	if err := plan.Link(ctx); err != nil {
		return err
	}
	if err := plan.Solve(ctx); err != nil {
		return err
	}

	for t := 1; t <= cfg.NumStages; t++ {
		diag, err := plan.ReliabilityReport(ctx, t)
		if err != nil {
			return err
		}
		if diag == nil {
			continue
		}
		for _, s := range diag.Surfaces {
			logger.V(logging.DEBUG).Info("ELCC surface credit",
				"stage", t,
				"surface", s.Surface,
				"credit", s.Credit)
		}
		logger.Info("Stage reliability",
			"stage", t,
			"nqc", diag.NQC,
			"total", diag.Total,
			"target", diag.Target)
	}

	ms, err := results.Collect(plan)
	if err != nil {
		return err
	}
	if err := ms.WriteCSV(outDir); err != nil {
		return fmt.Errorf("writing results to %s: %w", outDir, err)
	}

	stats := plan.Stats()
	logger.Info("Run completed",
		"mode", stats.Mode,
		"objective", stats.Objective,
		"iterations", stats.Iterations,
		"converged", stats.Converged,
		"elapsed", stats.SolveTime,
		"out", outDir)
	return nil
}

// stageData is the per-stage scalar input file. Missing keys mean zero.
type stageData struct {
	PeakDemand        float64 `yaml:"PeakDemand"`
	ReliabilityTarget float64 `yaml:"ReliabilityTarget"`
}

// loadStageInput reads one stage's resource table and scalar stage data.
func loadStageInput(dir string) (*stage.Input, float64, error) {
	resources, err := stage.LoadResources(filepath.Join(dir, resourcesFile))
	if err != nil {
		return nil, 0, err
	}
	in := &stage.Input{Resources: resources}

	path := filepath.Join(dir, stageDataFile)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return in, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	var sd stageData
	if err := yaml.Unmarshal(raw, &sd); err != nil {
		return nil, 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	in.PeakDemand = sd.PeakDemand
	return in, sd.ReliabilityTarget, nil
}
