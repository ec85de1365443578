package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zzalscv2/athena-atlas-sub040/internal/orchestrator"
	"github.com/zzalscv2/athena-atlas-sub040/internal/testutil"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "want *ExitError, got %T: %v", err, err)
	return exitErr.Code
}

func TestExecute_Commands(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"menu/jets.hcl":   testutil.JetMenuHCL,
		"menu/muons.yaml": testutil.MuonMenuYAML,
		"events.yaml":     testutil.EventsYAML,
	})
	menu := filepath.Join(dir, "menu")

	t.Run("validate", func(t *testing.T) {
		out, logs, err := execute(t, "validate", menu, "--log-level", "debug")
		require.NoError(t, err)
		assert.Equal(t, "Trigger menu is valid: 6 algorithms.\n", out)
		assert.Contains(t, logs, "level=DEBUG")
	})

	t.Run("order", func(t *testing.T) {
		out, _, err := execute(t, "order", menu)
		require.NoError(t, err)
		assert.Contains(t, out, "RootAlg/root[0]")
		assert.Contains(t, out, "EtCut/J20[")
	})

	t.Run("graph dot", func(t *testing.T) {
		out, _, err := execute(t, "graph", menu, "--format", "dot")
		require.NoError(t, err)
		assert.Contains(t, out, "digraph {")
	})

	t.Run("run", func(t *testing.T) {
		out, logs, err := execute(t, "run", menu,
			"--events", filepath.Join(dir, "events.yaml"),
			"--boards", "2", "--parallel", "--dump", "--log-format", "json")
		require.NoError(t, err)
		assert.Contains(t, out, "--- # run 1 event 1 board 1")
		assert.Contains(t, logs, `"msg":"Event decided."`)
	})
}

func TestExecute_UsageErrors(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown flag", args: []string{"validate", "m", "--nope"}, wantErr: "unknown flag: --nope"},
		{name: "missing menu", args: []string{"order"}, wantErr: "accepts 1 arg(s), received 0"},
		{name: "unknown command", args: []string{"explode"}, wantErr: `unknown command "explode"`},
		{name: "bad log level", args: []string{"validate", "m", "--log-level", "loud"}, wantErr: `invalid log level "loud"`},
		{name: "bad graph format", args: []string{"graph", "m", "--format", "svg"}, wantErr: `invalid graph format "svg"`},
		{name: "bad boards", args: []string{"run", "m", "--events", "e", "--boards", "-2"}, wantErr: "invalid board count -2"},
		{name: "run without events", args: []string{"run", "m"}, wantErr: `required flag(s) "events" not set`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			require.Error(t, err)
			assert.Equal(t, 2, exitCode(t, err))
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestExecute_Failures(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"menu.hcl": testutil.CyclicMenuHCL})

	out, _, err := execute(t, "order", dir)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.ErrorIs(t, err, orchestrator.ErrNotDAG)
	assert.Empty(t, out)

	_, _, err = execute(t, "validate", filepath.Join(dir, "missing"))
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, err.Error(), "no trigger menu entries found")
}

func TestExecute_Help(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Available Commands:")
	assert.Contains(t, out, "validate")
	assert.Contains(t, out, "--log-level")
}
