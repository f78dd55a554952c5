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
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/resilient-transition/planx/internal/config"
	"github.com/resilient-transition/planx/internal/reliability"
	"github.com/resilient-transition/planx/internal/stage"
	"github.com/resilient-transition/planx/pkg/solver"
)

// gasCase builds a two-stage case with one expandable gas resource holding
// 100 MW. Stage peak demands drive the expansion decisions. The myopic flag
// must match the run settings the plan is built with.
func gasCase(peaks []float64, maxNew float64, myopic bool) *stage.Registry {
	reg := stage.NewRegistry()
	for i, peak := range peaks {
		gas := stage.Resource{
			Name:      "gas",
			CanRetire: true,
			NewBuild:  true,
			Families:  []stage.Family{stage.Discharge},
			Existing:  map[stage.Family]float64{stage.Discharge: 100},
			InvCost:   map[stage.Family]float64{stage.Discharge: 1000},
			FixedCost: map[stage.Family]float64{stage.Discharge: 10},
			MaxNew:    map[stage.Family]float64{},
		}
		if maxNew > 0 {
			gas.MaxNew[stage.Discharge] = maxNew
		}
		in := &stage.Input{Resources: []stage.Resource{gas}, PeakDemand: peak}
		Expect(reg.AddStage(stage.Stage{
			Index:       i + 1,
			LengthYears: 5,
			WACC:        0.05,
			Myopic:      myopic,
			OpexMult:    1,
		}, in)).To(Succeed())
	}
	return reg
}

func gasConfig(mode string, myopic bool) *config.Run {
	cfg := &config.Run{
		NumStages:    2,
		StageLengths: []int{5, 5},
		WACC:         0.05,
		SolveMode:    mode,
		Myopic:       myopic,
	}
	Expect(cfg.Validate()).To(Succeed())
	return cfg
}

var _ = Describe("Plan", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("construction", func() {
		It("rejects a registry with the wrong stage count", func() {
			cfg := gasConfig(config.ModeJoint, false)
			cfg.NumStages = 3
			cfg.StageLengths = []int{5, 5, 5}

			_, err := New(cfg, gasCase([]float64{100, 100}, 0, false), nil, nil)
			var cfgErr *config.ConfigError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Field).To(Equal("NumStages"))
		})

		It("rejects stage flags that disagree with the settings", func() {
			// Discounting reads myopia off the stage metadata; a registry
			// built non-myopic under myopic settings would be discounted.
			cfg := gasConfig(config.ModeSequential, true)

			_, err := New(cfg, gasCase([]float64{100, 100}, 0, false), nil, nil)
			var cfgErr *config.ConfigError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Field).To(Equal("Myopic"))
		})

		It("starts in StagesBuilt", func() {
			p, err := New(gasConfig(config.ModeJoint, false), gasCase([]float64{100, 100}, 0, false), nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.State()).To(Equal(StateStagesBuilt))
		})
	})

	Describe("state machine", func() {
		var p *Plan

		BeforeEach(func() {
			var err error
			p, err = New(gasConfig(config.ModeJoint, false), gasCase([]float64{100, 100}, 0, false), nil, nil)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects Solve before Link", func() {
			Expect(p.Solve(ctx)).To(MatchError(ContainSubstring("invalid transition")))
		})

		It("rejects a second Link", func() {
			Expect(p.Link(ctx)).To(Succeed())
			Expect(p.Link(ctx)).To(MatchError(ContainSubstring("invalid transition")))
		})

		It("rejects MarkOutputsWritten before Solve", func() {
			Expect(p.MarkOutputsWritten()).To(MatchError(ContainSubstring("invalid transition")))
		})

		It("walks forward through the pipeline", func() {
			Expect(p.Link(ctx)).To(Succeed())
			Expect(p.State()).To(Equal(StateLinked))
			Expect(p.Solve(ctx)).To(Succeed())
			Expect(p.State()).To(Equal(StateSolved))
			Expect(p.MarkOutputsWritten()).To(Succeed())
			Expect(p.State()).To(Equal(StateOutputsWritten))
		})
	})

	Describe("joint solve", func() {
		It("carries stage 1 expansion into stage 2's starting capacity", func() {
			p, err := New(gasConfig(config.ModeJoint, false), gasCase([]float64{120, 120}, 0, false), nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Link(ctx)).To(Succeed())
			Expect(p.Solve(ctx)).To(Succeed())

			r1, r2 := p.Result(1), p.Result(2)
			Expect(r1.Value("NewCap[gas]")).To(BeNumerically("~", 20, 1e-6))
			Expect(r2.Value("StartCap[gas]")).To(BeNumerically("~", 120, 1e-6))
			Expect(r2.Value("NewCap[gas]")).To(BeNumerically("~", 0, 1e-6))

			stats := p.Stats()
			Expect(stats.Mode).To(Equal(config.ModeJoint))
			Expect(stats.Iterations).To(Equal(1))
			Expect(stats.Converged).To(BeTrue())
			Expect(stats.Objective).To(BeNumerically(">", 0))
		})

		It("records the vintage of new builds", func() {
			p, err := New(gasConfig(config.ModeJoint, false), gasCase([]float64{120, 120}, 0, false), nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Link(ctx)).To(Succeed())
			Expect(p.Solve(ctx)).To(Succeed())

			// Stage 1's 20 MW build shows up under vintage 1 in both stages.
			Expect(p.Result(1).Value("CapTrack[gas,1]")).To(BeNumerically("~", 20, 1e-6))
			Expect(p.Result(2).Value("CapTrack[gas,1]")).To(BeNumerically("~", 20, 1e-6))
			Expect(p.Result(2).Value("CapTrack[gas,2]")).To(BeNumerically("~", 0, 1e-6))
		})
	})

	Describe("sequential solve", func() {
		It("reaches the same expansion plan as the joint mode", func() {
			p, err := New(gasConfig(config.ModeSequential, false), gasCase([]float64{120, 120}, 0, false), nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Link(ctx)).To(Succeed())
			Expect(p.Solve(ctx)).To(Succeed())

			Expect(p.Result(1).Value("NewCap[gas]")).To(BeNumerically("~", 20, 1e-6))
			Expect(p.Result(2).Value("StartCap[gas]")).To(BeNumerically("~", 120, 1e-6))

			stats := p.Stats()
			Expect(stats.Mode).To(Equal(config.ModeSequential))
			Expect(stats.Converged).To(BeTrue())
			Expect(stats.Gap).To(BeNumerically("<=", 1e-6))
		})

		It("runs exactly one forward pass in myopic mode", func() {
			p, err := New(gasConfig(config.ModeSequential, true), gasCase([]float64{120, 120}, 0, true), nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Link(ctx)).To(Succeed())
			Expect(p.Solve(ctx)).To(Succeed())

			stats := p.Stats()
			Expect(stats.Iterations).To(Equal(1))
			Expect(stats.Converged).To(BeTrue())
			Expect(stats.Gap).To(BeZero())
			Expect(p.Result(2).Value("StartCap[gas]")).To(BeNumerically("~", 120, 1e-6))
		})
	})

	Describe("infeasible stages", func() {
		It("halts the pipeline with the solver status", func() {
			// 5 MW of allowed expansion cannot reach a 200 MW peak.
			p, err := New(gasConfig(config.ModeSequential, false), gasCase([]float64{200, 200}, 5, false), nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Link(ctx)).To(Succeed())

			err = p.Solve(ctx)
			Expect(err).To(MatchError(ContainSubstring("stage pipeline halted")))
			var serr *solver.SolveError
			Expect(errors.As(err, &serr)).To(BeTrue())
			Expect(serr.Status).To(Equal(solver.StatusInfeasible))
			Expect(p.State()).To(Equal(StateLinked))
		})
	})

	Describe("reliability", func() {
		var rel map[int]*reliability.Inputs

		BeforeEach(func() {
			rel = map[int]*reliability.Inputs{
				2: {
					Facets: []reliability.Facet{
						{Surface: "gas_fleet", Index: 1, Intercept: 0, Slope1: 0.25},
					},
					Multipliers: []reliability.AxisMultiplier{
						{Surface: "gas_fleet", Resource: "gas", Axis: 1, Value: 1},
					},
					Derates: []reliability.Derate{{Resource: "gas", Factor: 0.5}},
					Target:  70,
				},
			}
		})

		It("solves with the requirement and reports diagnostics", func() {
			p, err := New(gasConfig(config.ModeJoint, false), gasCase([]float64{120, 120}, 0, false), rel, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Link(ctx)).To(Succeed())
			Expect(p.Solve(ctx)).To(Succeed())

			diag, err := p.ReliabilityReport(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(diag).NotTo(BeNil())
			Expect(diag.NQC).To(BeNumerically("~", 50, 1e-6))
			Expect(diag.Total).To(BeNumerically(">=", 70-1e-6))
		})

		It("returns no diagnostics for stages without inputs", func() {
			p, err := New(gasConfig(config.ModeJoint, false), gasCase([]float64{120, 120}, 0, false), rel, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Link(ctx)).To(Succeed())
			Expect(p.Solve(ctx)).To(Succeed())

			diag, err := p.ReliabilityReport(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(diag).To(BeNil())
		})

		It("refuses diagnostics before the solve", func() {
			p, err := New(gasConfig(config.ModeJoint, false), gasCase([]float64{120, 120}, 0, false), rel, nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = p.ReliabilityReport(ctx, 2)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("discounting", func() {
		It("leaves myopic stage objectives undiscounted", func() {
			myopic, err := New(gasConfig(config.ModeSequential, true), gasCase([]float64{120, 120}, 0, true), nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(myopic.Link(ctx)).To(Succeed())
			Expect(myopic.Solve(ctx)).To(Succeed())

			discounted, err := New(gasConfig(config.ModeSequential, false), gasCase([]float64{120, 120}, 0, false), nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(discounted.Link(ctx)).To(Succeed())
			Expect(discounted.Solve(ctx)).To(Succeed())

			// Same physical plan either way, but stage 2's cost contribution
			// shrinks by 1/1.05^5 under discounting.
			df := 1 / math.Pow(1.05, 5)
			Expect(discounted.Result(2).Objective).To(
				BeNumerically("~", df*myopic.Result(2).Objective, 1e-6))
		})
	})
})
