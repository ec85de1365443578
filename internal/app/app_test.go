package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zzalscv2/athena-atlas-sub040/internal/algorithm"
	"github.com/zzalscv2/athena-atlas-sub040/internal/orchestrator"
	"github.com/zzalscv2/athena-atlas-sub040/internal/registry"
	"github.com/zzalscv2/athena-atlas-sub040/internal/schedstore"
	"github.com/zzalscv2/athena-atlas-sub040/internal/testutil"
	"github.com/zzalscv2/athena-atlas-sub040/internal/tob"
	"github.com/zzalscv2/athena-atlas-sub040/modules/decision"
)

func menuDir(t *testing.T) string {
	t.Helper()
	return testutil.WriteFiles(t, map[string]string{
		"menu/jets.hcl":   testutil.JetMenuHCL,
		"menu/muons.yaml": testutil.MuonMenuYAML,
		"events.yaml":     testutil.EventsYAML,
	})
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := NewConfig(Config{MenuPath: "menu"})
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "text", cfg.GraphFormat)
		assert.Equal(t, 1, cfg.Boards)
	})

	t.Run("menu path required", func(t *testing.T) {
		_, err := NewConfig(Config{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MenuPath")
	})

	t.Run("all invalid fields are reported", func(t *testing.T) {
		_, err := NewConfig(Config{
			MenuPath:        "menu",
			LogLevel:        "loud",
			LogFormat:       "xml",
			GraphFormat:     "svg",
			Boards:          -1,
			HealthcheckPort: 70000,
		})
		require.Error(t, err)
		msg := err.Error()
		assert.True(t, strings.HasPrefix(msg, "invalid configuration:\n- "), msg)
		for _, want := range []string{`log level "loud"`, `log format "xml"`, `graph format "svg"`, "board count -1", "healthcheck port 70000"} {
			assert.Contains(t, msg, want)
		}
	})
}

func TestApp_Validate(t *testing.T) {
	dir := menuDir(t)
	a, out, logs := SetupAppTest(t, Config{MenuPath: filepath.Join(dir, "menu")})

	require.NoError(t, a.Validate(context.Background()))
	assert.Equal(t, "Trigger menu is valid: 6 algorithms.\n", out.String())
	assert.Contains(t, logs.String(), "Trigger menu loaded.")
}

func TestApp_PrintOrder(t *testing.T) {
	dir := menuDir(t)
	a, out, _ := SetupAppTest(t, Config{MenuPath: filepath.Join(dir, "menu")})

	require.NoError(t, a.PrintOrder(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "RootAlg/root[0]")

	pos := func(name string) int {
		for i, l := range lines {
			if strings.Contains(l, "/"+name+"[") {
				return i
			}
		}
		t.Fatalf("%s missing from order:\n%s", name, out.String())
		return -1
	}
	assert.Less(t, pos("jJ"), pos("jJs"))
	assert.Less(t, pos("jJs"), pos("J20"))
	assert.Less(t, pos("MU"), pos("MUc"))
}

func TestApp_PrintGraph(t *testing.T) {
	dir := menuDir(t)

	t.Run("text", func(t *testing.T) {
		a, out, _ := SetupAppTest(t, Config{MenuPath: filepath.Join(dir, "menu")})
		require.NoError(t, a.PrintGraph(context.Background()))
		assert.True(t, strings.HasPrefix(out.String(), "6\n5\n"), out.String())
	})

	t.Run("dot", func(t *testing.T) {
		a, out, _ := SetupAppTest(t, Config{MenuPath: filepath.Join(dir, "menu"), GraphFormat: "dot"})
		require.NoError(t, a.PrintGraph(context.Background()))
		assert.True(t, strings.HasPrefix(out.String(), "digraph {"), out.String())
		assert.Contains(t, out.String(), `"cluster_jet"`)
		assert.Contains(t, out.String(), `"cluster_muon"`)
	})
}

func TestApp_Run(t *testing.T) {
	dir := menuDir(t)
	a, out, logs := SetupAppTest(t, Config{
		MenuPath:       filepath.Join(dir, "menu"),
		EventsPath:     filepath.Join(dir, "events.yaml"),
		Boards:         2,
		ParallelBoards: true,
		DumpRepository: true,
	})

	require.NoError(t, a.Run(context.Background()))

	dump := out.String()
	assert.Contains(t, dump, "--- # run 1 event 1 board 0")
	assert.Contains(t, dump, "--- # run 1 event 2 board 1")
	assert.Contains(t, dump, "name: J20")
	assert.Contains(t, logs.String(), "L1_J20")
	assert.Contains(t, logs.String(), "Event processing finished.")

	srv := httptest.NewServer(a.router())
	defer srv.Close()
	body := get(t, srv.URL+"/metrics")
	assert.Contains(t, body, `l1topo_events_total{status="ok"} 2`)
	assert.Contains(t, body, `l1topo_trigger_line_accepts_total{line="L1_J20"} 2`)
}

func TestApp_Run_RequiresEvents(t *testing.T) {
	dir := menuDir(t)
	a, _, _ := SetupAppTest(t, Config{MenuPath: filepath.Join(dir, "menu")})

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EventsPath is required")
}

type failingSortModule struct{}

func (failingSortModule) Register(r *registry.Registry) {
	r.RegisterSorter("EtSort", func(registry.Params) (algorithm.Sorter, error) {
		return algorithm.SorterFunc(func(context.Context, tob.Refs) (tob.Array, error) {
			return tob.Array{}, errors.New("sorter exploded")
		}), nil
	})
}

func TestApp_Run_ReportsFailedEvents(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"menu.hcl":    testutil.JetMenuHCL,
		"events.yaml": testutil.EventsYAML,
	})
	a, _, logs := SetupAppTest(t,
		Config{MenuPath: filepath.Join(dir, "menu.hcl"), EventsPath: filepath.Join(dir, "events.yaml")},
		WithModules(failingSortModule{}, &decision.Module{}),
	)

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 2 events failed:\n- run 1 event 1: ")
	assert.Contains(t, err.Error(), "sorter exploded")
	assert.Contains(t, logs.String(), "Event processing failed.")
}

func TestApp_LoadErrors(t *testing.T) {
	testCases := []struct {
		name    string
		menu    string
		wantErr string
		is      error
	}{
		{
			name:    "cycle",
			menu:    testutil.CyclicMenuHCL,
			wantErr: "cycle",
			is:      orchestrator.ErrNotDAG,
		},
		{
			name:    "unknown class",
			menu:    `sort "NoSuchSort" "s" {}`,
			wantErr: `unknown implementation class "NoSuchSort"`,
		},
		{
			name:    "undefined child",
			menu:    `sort "EtSort" "s" { inputs = ["ghost"] }`,
			wantErr: `references undefined algorithm "ghost"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := testutil.WriteFiles(t, map[string]string{"menu.hcl": tc.menu})
			a, out, _ := SetupAppTest(t, Config{MenuPath: dir})

			err := a.Validate(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			if tc.is != nil {
				assert.ErrorIs(t, err, tc.is)
			}
			assert.Empty(t, out.String())
		})
	}
}

func TestApp_ScheduleStore(t *testing.T) {
	dir := menuDir(t)
	store := schedstore.NewMemory()
	cfg := Config{MenuPath: filepath.Join(dir, "menu")}

	first, _, logs1 := SetupAppTest(t, cfg, WithStore(store))
	require.NoError(t, first.Load(context.Background()))
	assert.Contains(t, logs1.String(), "No stored schedule for this menu.")

	second, _, logs2 := SetupAppTest(t, cfg, WithStore(store))
	require.NoError(t, second.Load(context.Background()))
	assert.Contains(t, logs2.String(), "Execution order matches the stored schedule.")
}

func TestApp_RedisScheduleStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	dir := menuDir(t)
	a, _, _ := SetupAppTest(t, Config{
		MenuPath:    filepath.Join(dir, "menu"),
		RedisAddr:   mr.Addr(),
		RedisPrefix: "test:",
	})
	require.NoError(t, a.Load(context.Background()))

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "test:"), keys[0])
}

func TestApp_Router(t *testing.T) {
	dir := menuDir(t)
	a, _, logs := SetupAppTest(t, Config{MenuPath: filepath.Join(dir, "menu")})

	t.Run("health before load", func(t *testing.T) {
		srv := httptest.NewServer(a.router())
		defer srv.Close()
		assert.Equal(t, "OK\n", get(t, srv.URL+"/health"))

		resp, err := srv.Client().Get(srv.URL + "/metrics")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("metrics after load", func(t *testing.T) {
		require.NoError(t, a.Load(context.Background()))
		srv := httptest.NewServer(a.router())
		defer srv.Close()
		// Vectors with no observations are not exported yet.
		assert.NotContains(t, get(t, srv.URL+"/metrics"), "l1topo_events_total{")
	})

	assert.Contains(t, logs.String(), "Health check endpoint hit.")
}

func get(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestApp_ShippedExamples(t *testing.T) {
	a, out, logs := SetupAppTest(t, Config{
		MenuPath:   filepath.Join("..", "..", "examples", "menu"),
		EventsPath: filepath.Join("..", "..", "examples", "events.yaml"),
	})

	require.NoError(t, a.Validate(context.Background()))
	assert.Equal(t, "Trigger menu is valid: 8 algorithms.\n", out.String())

	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, logs.String(), "L1_J50")
}
