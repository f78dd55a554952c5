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

// Package solver delegates linear programs to an LP algorithm and normalizes
// the outcome into a small status taxonomy.
//
// The planner treats solving as an external contract: it hands over a model
// and receives back one of optimal / infeasible / unbounded / failed plus the
// solved variable values and wall-clock timing. No retry, timeout, or tuning
// logic lives here; orchestration layers own those policies.
//
// The current backend is gonum's dense simplex
// (gonum.org/v1/gonum/optimize/convex/lp), which consumes the standard-form
// export produced by pkg/lp.
package solver
