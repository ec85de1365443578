package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// JetMenuHCL is a minimal menu: one jet input, one sort and a two-line
// decision on the sorted jets.
const JetMenuHCL = `
root "RootAlg" "root" {}

input "InputTOBs" "jJ" {
  category = "jet"
}

sort "EtSort" "jJs" {
  category   = "jet"
  inputs     = ["jJ"]
  parameters = { max_objects = 6, min_et = 0 }
}

decision "EtCut" "J20" {
  category   = "jet"
  inputs     = ["jJs"]
  parameters = { thresholds = [20, 50] }

  trigger_line "L1_J20" { position = 0 }
  trigger_line "L1_J50" { position = 1 }
}
`

// MuonMenuYAML adds a muon multiplicity count to JetMenuHCL when both are
// loaded from the same directory.
const MuonMenuYAML = `
inputs:
  - name: MU
    class: InputTOBs
    category: muon
counts:
  - name: MUc
    class: MultiplicityCount
    category: muon
    inputs: [MU]
    parameters:
      thresholds: [4, 10]
`

// CyclicMenuHCL declares a sort that depends on the decision reading it.
const CyclicMenuHCL = `
input "InputTOBs" "jJ" {}

sort "EtSort" "jJs" {
  inputs = ["J20"]
}

decision "EtCut" "J20" {
  inputs     = ["jJs"]
  parameters = { thresholds = [20] }
  trigger_line "L1_J20" { position = 0 }
}
`

// EventsYAML holds two events: the first fires L1_J20 only, the second
// fires nothing.
const EventsYAML = `
events:
  - run: 1
    event: 1
    collections:
      jJ:
        - {et: 35, eta: 2, phi: 10}
        - {et: 8, eta: -4, phi: 3}
      MU:
        - {et: 12, eta: 1, phi: 1}
  - run: 1
    event: 2
    collections:
      jJ:
        - {et: 5, eta: 0, phi: 0}
`

// WriteFiles writes name→content pairs below a new temporary directory and
// returns the directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}
