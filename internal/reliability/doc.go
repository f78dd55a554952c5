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

// Package reliability generates the piecewise-linear capacity-credit
// constraints of a single stage.
//
// The baseline contribution is net qualifying capacity (NQC): each resource's
// existing capacity times a static derate factor. On top of that, each named
// ELCC surface contributes one nonnegative credit variable bounded above by
// every facet of the surface; because all facets bound the same variable, the
// surface value is the minimum over facets, a concave piecewise-linear upper
// envelope of the capacity mix. The stage's reliability requirement is then
//
//	NQC + sum of surface credits >= target.
//
// Generation is orthogonal to the multi-stage machinery: it touches only the
// one stage model it is applied to, before solve.
package reliability
