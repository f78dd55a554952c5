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

package linkage

import (
	"fmt"

	"github.com/resilient-transition/planx/internal/stage"
)

// ConsistencyError reports a resource whose cross-stage metadata disagrees.
// It is fatal and detected before any constraint linking.
type ConsistencyError struct {
	Resource string
	Field    string
	StageA   int
	StageB   int
}

// Error implements the error interface.
func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("model consistency error: resource %q: %s differs between stage %d and stage %d",
		e.Resource, e.Field, e.StageA, e.StageB)
}

// ValidateRetirementFlags checks that every resource keeps the same
// can_retire flag in every stage it appears in. The flag decides link-set and
// tracking membership, so a mid-horizon flip would silently change the
// multi-stage structure.
func ValidateRetirementFlags(reg *stage.Registry) error {
	type seen struct {
		stage     int
		canRetire bool
	}
	first := map[string]seen{}
	for t := 1; t <= reg.NumStages(); t++ {
		for _, r := range reg.Input(t).Resources {
			prev, ok := first[r.Name]
			if !ok {
				first[r.Name] = seen{stage: t, canRetire: r.CanRetire}
				continue
			}
			if prev.canRetire != r.CanRetire {
				return &ConsistencyError{
					Resource: r.Name,
					Field:    "can_retire",
					StageA:   prev.stage,
					StageB:   t,
				}
			}
		}
	}
	return nil
}
