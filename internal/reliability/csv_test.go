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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FacetsFile, `surface,facet,intercept,axis1,axis2
solar_wind,1,0,0.5,0
solar_wind,2,50,0.1,0
`)
	writeFile(t, dir, MultipliersFile, `surface,resource,axis,multiplier
solar_wind,wind,1,1.0
solar_wind,solar,2,0.8
`)
	writeFile(t, dir, DeratesFile, `resource,derate
gas,0.95
wind,0.2
`)

	in, err := LoadDir(dir, 120)
	require.NoError(t, err)

	assert.Equal(t, 120.0, in.Target)
	require.Len(t, in.Facets, 2)
	assert.Equal(t, Facet{Surface: "solar_wind", Index: 2, Intercept: 50, Slope1: 0.1}, in.Facets[1])

	require.Len(t, in.Multipliers, 2)
	assert.Equal(t, 0.8, in.Multiplier("solar_wind", "solar", 2))

	require.Len(t, in.Derates, 2)
	assert.Equal(t, Derate{Resource: "wind", Factor: 0.2}, in.Derates[1])
}

func TestLoadDirMissingFiles(t *testing.T) {
	// A case with no reliability inputs at all is valid: everything empty.
	in, err := LoadDir(t.TempDir(), 0)
	require.NoError(t, err)
	assert.Empty(t, in.Facets)
	assert.Empty(t, in.Multipliers)
	assert.Empty(t, in.Derates)
}

func TestLoadDirErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "facets missing column",
			file:    FacetsFile,
			content: "surface,facet\nsolar_wind,1\n",
		},
		{
			name:    "facets bad index",
			file:    FacetsFile,
			content: "surface,facet,intercept,axis1,axis2\nsolar_wind,one,0,0.5,0\n",
		},
		{
			name:    "multipliers bad value",
			file:    MultipliersFile,
			content: "surface,resource,axis,multiplier\nsolar_wind,wind,1,lots\n",
		},
		{
			name:    "derates bad factor",
			file:    DeratesFile,
			content: "resource,derate\ngas,high\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)
			_, err := LoadDir(dir, 0)
			assert.Error(t, err)
		})
	}
}
