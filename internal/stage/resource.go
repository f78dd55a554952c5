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

package stage

import "sort"

// Resource is one asset (plant, storage unit, or transmission line) with its
// family memberships and per-family capacity data for a single stage.
type Resource struct {
	Name string
	Zone int

	// CanRetire must be identical for the resource across all stages; the
	// linkage validation pass enforces that before any solve.
	CanRetire bool
	NewBuild  bool

	Families []Family

	// Per-family data. Missing entries mean zero (Existing, costs) or
	// unlimited (MaxNew).
	Existing  map[Family]float64
	InvCost   map[Family]float64
	FixedCost map[Family]float64
	MaxNew    map[Family]float64
}

// InFamily reports whether the resource belongs to the family.
func (r Resource) InFamily(f Family) bool {
	for _, rf := range r.Families {
		if rf == f {
			return true
		}
	}
	return false
}

// Participates reports whether the resource's capacity can change across the
// run. Resources with neither flag keep fixed capacity and stay out of
// linking and vintage tracking entirely.
func (r Resource) Participates() bool {
	return r.CanRetire || r.NewBuild
}

// Input is the per-stage case data handed to the registry by the input layer.
type Input struct {
	Resources []Resource

	// PeakDemand is the stage's capacity-adequacy requirement (MW).
	PeakDemand float64
}

// Families returns the families with a non-empty resource set, in declaration
// order. Families that don't apply to the case are omitted, not zero-filled.
func (in *Input) Families() []Family {
	present := map[Family]bool{}
	for _, r := range in.Resources {
		for _, f := range r.Families {
			present[f] = true
		}
	}
	out := make([]Family, 0, len(present))
	for _, f := range AllFamilies() {
		if present[f] {
			out = append(out, f)
		}
	}
	return out
}

// FamilyResources returns the resources belonging to a family, sorted by name
// for deterministic model assembly.
func (in *Input) FamilyResources(f Family) []Resource {
	out := make([]Resource, 0, len(in.Resources))
	for _, r := range in.Resources {
		if r.InFamily(f) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resource returns the named resource. The second return is false when absent.
func (in *Input) Resource(name string) (Resource, bool) {
	for _, r := range in.Resources {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}
