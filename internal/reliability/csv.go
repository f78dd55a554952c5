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

package reliability

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Input file names inside a stage's policy_assignments directory, following
// the upstream case layout.
const (
	FacetsFile      = "ELCC_facets.csv"
	MultipliersFile = "ELCC_multipliers.csv"
	DeratesFile     = "Resource_NQC_derate.csv"
)

// LoadDir reads the reliability tables from a directory. Missing files leave
// the corresponding slice empty; the target is supplied by the caller.
func LoadDir(dir string, target float64) (*Inputs, error) {
	in := &Inputs{Target: target}
	var err error
	if in.Facets, err = loadFacets(filepath.Join(dir, FacetsFile)); err != nil {
		return nil, err
	}
	if in.Multipliers, err = loadMultipliers(filepath.Join(dir, MultipliersFile)); err != nil {
		return nil, err
	}
	if in.Derates, err = loadDerates(filepath.Join(dir, DeratesFile)); err != nil {
		return nil, err
	}
	return in, nil
}

func loadFacets(path string) ([]Facet, error) {
	rows, err := readTable(path, []string{"surface", "facet", "intercept", "axis1", "axis2"})
	if err != nil || rows == nil {
		return nil, err
	}
	out := make([]Facet, 0, len(rows))
	for i, r := range rows {
		idx, err := strconv.Atoi(r["facet"])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: facet: %w", path, i+2, err)
		}
		f := Facet{Surface: r["surface"], Index: idx}
		if f.Intercept, err = strconv.ParseFloat(r["intercept"], 64); err != nil {
			return nil, fmt.Errorf("%s row %d: intercept: %w", path, i+2, err)
		}
		if f.Slope1, err = strconv.ParseFloat(r["axis1"], 64); err != nil {
			return nil, fmt.Errorf("%s row %d: axis1: %w", path, i+2, err)
		}
		if f.Slope2, err = strconv.ParseFloat(r["axis2"], 64); err != nil {
			return nil, fmt.Errorf("%s row %d: axis2: %w", path, i+2, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func loadMultipliers(path string) ([]AxisMultiplier, error) {
	rows, err := readTable(path, []string{"surface", "resource", "axis", "multiplier"})
	if err != nil || rows == nil {
		return nil, err
	}
	out := make([]AxisMultiplier, 0, len(rows))
	for i, r := range rows {
		axis, err := strconv.Atoi(r["axis"])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: axis: %w", path, i+2, err)
		}
		value, err := strconv.ParseFloat(r["multiplier"], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: multiplier: %w", path, i+2, err)
		}
		out = append(out, AxisMultiplier{
			Surface:  r["surface"],
			Resource: r["resource"],
			Axis:     axis,
			Value:    value,
		})
	}
	return out, nil
}

func loadDerates(path string) ([]Derate, error) {
	rows, err := readTable(path, []string{"resource", "derate"})
	if err != nil || rows == nil {
		return nil, err
	}
	out := make([]Derate, 0, len(rows))
	for i, r := range rows {
		factor, err := strconv.ParseFloat(r["derate"], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: derate: %w", path, i+2, err)
		}
		out = append(out, Derate{Resource: r["resource"], Factor: factor})
	}
	return out, nil
}

// readTable reads a CSV file into header-keyed rows. A missing file returns
// (nil, nil); a present file must carry all required columns.
func readTable(path string, required []string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", path, err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range required {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, want)
		}
	}

	var rows []map[string]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		row := map[string]string{}
		for name, i := range col {
			if i < len(rec) {
				row[name] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	if rows == nil {
		rows = []map[string]string{}
	}
	return rows, nil
}
