package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zzalscv2/athena-atlas-sub040/internal/ctxlog"
	"github.com/zzalscv2/athena-atlas-sub040/internal/digraph"
	"github.com/zzalscv2/athena-atlas-sub040/internal/event"
	"github.com/zzalscv2/athena-atlas-sub040/internal/repository"
)

// Validate loads the menu and reports its size.
func (a *App) Validate(ctx context.Context) error {
	if err := a.Load(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.outW, "Trigger menu is valid: %d algorithms.\n", len(a.orch.Descriptors()))
	return nil
}

// PrintOrder writes the execution sequence, one algorithm per line.
func (a *App) PrintOrder(ctx context.Context) error {
	if err := a.Load(ctx); err != nil {
		return err
	}
	for i, d := range a.orch.Sequence() {
		fmt.Fprintf(a.outW, "%3d  %-8s %s\n", i, d.Kind, d)
	}
	return nil
}

// PrintGraph writes the dependency graph in the configured format.
func (a *App) PrintGraph(ctx context.Context) error {
	if err := a.Load(ctx); err != nil {
		return err
	}
	g := a.orch.Graph()
	if a.config.GraphFormat == "dot" {
		descs := a.orch.Descriptors()
		fmt.Fprint(a.outW, g.Dot(digraph.DotOptions{
			Label:   func(v int) string { return descs[v].String() },
			Cluster: func(v int) string { return descs[v].Category },
		}))
		return nil
	}
	fmt.Fprint(a.outW, g.Text())
	return nil
}

// Run executes the main application logic: every event of the event file is
// run through the sequence on every board. A failing event is logged and
// skipped; Run reports all failures once the file is done.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := a.logger
	logger.Debug("App.Run method started.")

	if a.config.EventsPath == "" {
		return errors.New("EventsPath is required to run events")
	}
	if err := a.Load(ctx); err != nil {
		return err
	}
	events, err := event.ReadFile(a.config.EventsPath)
	if err != nil {
		return err
	}

	a.healthCheckServer()
	defer a.closeHealthCheckServer()

	logger.Info("🚀 Starting event processing...", "events", len(events), "boards", a.orch.Boards())
	var failed []string
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		repos, err := a.orch.RunEvent(ctx, ev)
		if err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", ev.Info(), err))
			continue
		}
		if err := a.report(ctx, ev.Info(), repos); err != nil {
			return err
		}
	}
	logger.Info("🏁 Event processing finished.", "events", len(events), "failed", len(failed))

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d events failed:\n- %s", len(failed), len(events), strings.Join(failed, "\n- "))
	}
	return nil
}

// report logs the accepted trigger lines of one event and, when configured,
// dumps every board's repository.
func (a *App) report(ctx context.Context, info event.Info, repos []*repository.Repository) error {
	logger := ctxlog.FromContext(ctx)
	names := repository.NameFunc(a.orch.Name)
	descs := a.orch.Descriptors()

	for b, repo := range repos {
		lines := newLineCollector(descs)
		if err := repo.Accept(lines); err != nil {
			return err
		}
		logger.Info("Event decided.", "event", info.String(), "board", b, "accepted", lines.accepted)

		if logger.Enabled(ctx, slog.LevelDebug) {
			if err := repo.Accept(repository.NewLogVisitor(ctx, logger, slog.LevelDebug, names)); err != nil {
				return err
			}
		}

		if a.config.DumpRepository {
			fmt.Fprintf(a.outW, "--- # %s board %d\n", info, b)
			if err := repository.Dump(a.outW, repo, names); err != nil {
				return fmt.Errorf("failed to dump repository: %w", err)
			}
		}
	}
	return nil
}
