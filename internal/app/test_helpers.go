package app

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zzalscv2/athena-atlas-sub040/internal/testutil"
)

// SetupAppTest validates cfg, forces debug logging and returns an App whose
// command output and logs go to separate buffers.
func SetupAppTest(t *testing.T, cfg Config, opts ...Option) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	cfg.LogLevel = "debug"
	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	outBuffer := &testutil.SafeBuffer{}
	logBuffer := &testutil.SafeBuffer{}
	testApp := NewApp(outBuffer, validated, append([]Option{WithLogWriter(logBuffer)}, opts...)...)

	t.Cleanup(func() {
		if err := testApp.Close(); err != nil {
			t.Errorf("failed to close app: %v", err)
		}
		if os.Getenv("L1TOPO_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, outBuffer, logBuffer
}
