package testutil

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/zzalscv2/athena-atlas-sub040/internal/ctxlog"
)

// Context returns a context carrying a debug-level text logger that writes to
// a fresh SafeBuffer. With L1TOPO_TEST_LOGS=true the captured output is
// printed when the test ends.
func Context(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()

	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() {
		if os.Getenv("L1TOPO_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
	return ctxlog.WithLogger(context.Background(), logger), buf
}
