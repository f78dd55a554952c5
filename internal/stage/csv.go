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

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadResources reads a stage's resource table. One row per (resource, family)
// pair with columns:
//
//	resource,zone,family,can_retire,new_build,existing_cap,inv_cost,fixed_om_cost,max_new_cap
//
// max_new_cap may be blank for unlimited. Rows for the same resource are
// merged; conflicting can_retire/new_build flags within one file are an error.
func LoadResources(path string) ([]Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseResources(f)
}

// ParseResources parses the resource table from a reader.
func ParseResources(r io.Reader) ([]Resource, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading resource table header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"resource", "family", "can_retire", "new_build"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("resource table missing column %q", required)
		}
	}

	byName := map[string]*Resource{}
	var order []string
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading resource table line %d: %w", line, err)
		}
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		name := get("resource")
		if name == "" {
			return nil, fmt.Errorf("resource table line %d: empty resource name", line)
		}
		fam, err := ParseFamily(get("family"))
		if err != nil {
			return nil, fmt.Errorf("resource table line %d: %w", line, err)
		}
		canRetire, err := parseFlag(get("can_retire"))
		if err != nil {
			return nil, fmt.Errorf("resource table line %d: can_retire: %w", line, err)
		}
		newBuild, err := parseFlag(get("new_build"))
		if err != nil {
			return nil, fmt.Errorf("resource table line %d: new_build: %w", line, err)
		}

		res, seen := byName[name]
		if !seen {
			res = &Resource{
				Name:      name,
				CanRetire: canRetire,
				NewBuild:  newBuild,
				Existing:  map[Family]float64{},
				InvCost:   map[Family]float64{},
				FixedCost: map[Family]float64{},
				MaxNew:    map[Family]float64{},
			}
			if z := get("zone"); z != "" {
				if res.Zone, err = strconv.Atoi(z); err != nil {
					return nil, fmt.Errorf("resource table line %d: zone: %w", line, err)
				}
			}
			byName[name] = res
			order = append(order, name)
		} else if res.CanRetire != canRetire || res.NewBuild != newBuild {
			return nil, fmt.Errorf("resource table line %d: resource %q has conflicting retire/build flags", line, name)
		}
		if res.InFamily(fam) {
			return nil, fmt.Errorf("resource table line %d: duplicate family %s for resource %q", line, fam, name)
		}
		res.Families = append(res.Families, fam)

		if res.Existing[fam], err = parseFloat(get("existing_cap"), 0); err != nil {
			return nil, fmt.Errorf("resource table line %d: existing_cap: %w", line, err)
		}
		if res.InvCost[fam], err = parseFloat(get("inv_cost"), 0); err != nil {
			return nil, fmt.Errorf("resource table line %d: inv_cost: %w", line, err)
		}
		if res.FixedCost[fam], err = parseFloat(get("fixed_om_cost"), 0); err != nil {
			return nil, fmt.Errorf("resource table line %d: fixed_om_cost: %w", line, err)
		}
		if raw := get("max_new_cap"); raw != "" {
			if res.MaxNew[fam], err = parseFloat(raw, 0); err != nil {
				return nil, fmt.Errorf("resource table line %d: max_new_cap: %w", line, err)
			}
		}
	}

	out := make([]Resource, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out, nil
}

func parseFlag(s string) (bool, error) {
	switch s {
	case "1", "true", "True":
		return true, nil
	case "", "0", "false", "False":
		return false, nil
	default:
		return false, fmt.Errorf("invalid flag value %q", s)
	}
}

func parseFloat(s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseFloat(s, 64)
}
