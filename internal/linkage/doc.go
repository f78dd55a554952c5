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

// Package linkage stitches per-stage sub-models into a multi-stage structure.
//
// It owns the two bookkeeping layers of the engine:
//
//   - Linking: for every stage t > 1 and every capacity family present, an
//     equality ties stage t's starting-capacity variable to stage t-1's
//     ending-capacity expression. The link set is materialized first as an
//     explicit edge list, independent of any model, and only then applied:
//     either as symbolic cross-stage equalities in the joint graph or as
//     right-hand-side updates during the sequential solve.
//
//   - Vintage tracking: for every (resource, vintage) pair, nonnegative
//     built and retired tracking entries. A vintage's own-stage constraint is
//     the sole writable entry; every later stage pins its copy to the value
//     carried over from the vintage stage.
//
// A validation pass runs before any linking: resources whose can_retire flag
// differs between stages are rejected with a *ConsistencyError, and a
// resource expected by the link set but absent from a stage's variable space
// is a configuration error, never a silent skip.
package linkage
