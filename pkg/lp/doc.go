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

// Package lp provides the linear-program container used by the planning engine.
//
// A Model holds named nonnegative decision variables, named linear
// expressions, and named linear constraints. Components build stage models
// against this container and the solver consumes its standard-form export.
//
// Key types:
//
//   - Expr: a linear expression (coefficient map plus constant term)
//   - Model: variables, expressions, constraints, and the objective
//   - Standard: the standard-form (min c'x, Ax = b, x >= 0) export
//
// Models can be merged with a name prefix, which is how the joint multi-stage
// program is assembled from per-stage sub-models.
//
// The container is deliberately small: it does no solving itself and no
// presolve. Naming is the contract: every variable, expression, and
// constraint is addressable by the name it was registered under, and
// registering a duplicate name is an error rather than an overwrite.
package lp
