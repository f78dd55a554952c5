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

// Package stage holds the per-stage building blocks of a multi-stage
// capacity-expansion run: stage metadata, the closed set of capacity-variable
// families, resource membership data, and the registry that owns one
// optimization sub-model per planning stage.
//
// The family set is a closed enumeration. Every family knows the names of its
// own variables, expressions, and constraints inside a stage model, so cross
// components never guess at string keys.
package stage
