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

// Package ddp orchestrates the multi-stage solve.
//
// A Plan moves strictly forward through
//
//	StagesBuilt → Linked → Solved → OutputsWritten
//
// and fails the whole pipeline on the first stage whose solve is not optimal;
// no stage ever continues on stale values.
//
// Two mutually exclusive strategies exist:
//
//   - Joint-graph: all stage sub-models, link equalities, and tracking
//     equalities compose into one combined program whose objective is the sum
//     of the stages' discounted contributions; one solve.
//
//   - Sequential: stages solve in index order, each pinned to the previous
//     stage's solved ending capacities and vintage values. Non-myopic runs
//     repeat forward passes until the total objective stops moving; myopic
//     runs are a single pass by definition.
package ddp
