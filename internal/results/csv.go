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

package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Output file names, matching the upstream multi-stage result layout.
const (
	CapacitiesFile = "capacities_multi_stage.csv"
	CostsFile      = "costs_multi_stage.csv"
)

// WriteCSV writes the capacity and cost tables into dir, creating it if
// needed. Columns follow the StartCap_p#/EndCap_p# and TotalCosts_p#
// conventions of the upstream reporting tooling.
func (ms *MultiStage) WriteCSV(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := ms.writeCapacities(filepath.Join(dir, CapacitiesFile)); err != nil {
		return err
	}
	return ms.writeCosts(filepath.Join(dir, CostsFile))
}

func (ms *MultiStage) writeCapacities(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)

	header := []string{"Resource", "Family", "Zone"}
	for t := 1; t <= ms.NumStages; t++ {
		header = append(header,
			fmt.Sprintf("StartCap_p%d", t),
			fmt.Sprintf("NewCap_p%d", t),
			fmt.Sprintf("RetCap_p%d", t),
			fmt.Sprintf("EndCap_p%d", t),
		)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range ms.Capacity {
		rec := []string{row.Resource, row.Family.String(), strconv.Itoa(row.Zone)}
		for t := 0; t < ms.NumStages; t++ {
			rec = append(rec,
				formatValue(row.Start[t]),
				formatValue(row.New[t]),
				formatValue(row.Ret[t]),
				formatValue(row.End[t]),
			)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (ms *MultiStage) writeCosts(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)

	header := []string{"Costs"}
	for t := 1; t <= ms.NumStages; t++ {
		header = append(header, fmt.Sprintf("TotalCosts_p%d", t))
	}
	if err := w.Write(header); err != nil {
		return err
	}
	rec := []string{"cTotal"}
	for t := 0; t < ms.NumStages; t++ {
		rec = append(rec, formatValue(ms.TotalCosts[t]))
	}
	if err := w.Write(rec); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
