package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/zzalscv2/athena-atlas-sub040/internal/ctxlog"
	"github.com/zzalscv2/athena-atlas-sub040/internal/descriptor"
	"github.com/zzalscv2/athena-atlas-sub040/internal/event"
	"github.com/zzalscv2/athena-atlas-sub040/internal/repository"
	"golang.org/x/sync/errgroup"
)

// Observer is notified as units and events complete. Implementations must be
// safe for concurrent use when boards run in parallel.
type Observer interface {
	UnitDone(d descriptor.Descriptor, elapsed time.Duration, err error)
	EventDone(info event.Info, repos []*repository.Repository, err error)
}

// RunEvent executes the sequence once per board, each board against its own
// fresh repository, and returns the repositories indexed by board. Any unit
// error aborts the event; no partial results are returned.
func (o *Orchestrator) RunEvent(ctx context.Context, ev event.Context) ([]*repository.Repository, error) {
	logger := ctxlog.FromContext(ctx).With("event", ev.Info().String())
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Event processing started.", "boards", o.boards)

	repos := make([]*repository.Repository, o.boards)
	var err error
	if o.parallel && o.boards > 1 {
		g, gctx := errgroup.WithContext(ctx)
		for b := range repos {
			g.Go(func() error {
				repo, err := o.runBoard(gctx, b, ev)
				repos[b] = repo
				return err
			})
		}
		err = g.Wait()
	} else {
		for b := range repos {
			if repos[b], err = o.runBoard(ctx, b, ev); err != nil {
				break
			}
		}
	}

	if err != nil {
		logger.Error("Event processing failed.", "error", err)
		o.eventDone(ev.Info(), nil, err)
		return nil, err
	}
	logger.Debug("Event processing finished.")
	o.eventDone(ev.Info(), repos, nil)
	return repos, nil
}

func (o *Orchestrator) runBoard(ctx context.Context, board int, ev event.Context) (*repository.Repository, error) {
	repo := repository.New()
	for i, u := range o.units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d := o.descs[o.order[i]]
		start := time.Now()
		err := u.Run(ctx, repo, ev)
		o.unitDone(d, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("board %d: %s: %w", board, d, err)
		}
	}
	return repo, nil
}

func (o *Orchestrator) unitDone(d descriptor.Descriptor, elapsed time.Duration, err error) {
	for _, obs := range o.observers {
		obs.UnitDone(d, elapsed, err)
	}
}

func (o *Orchestrator) eventDone(info event.Info, repos []*repository.Repository, err error) {
	for _, obs := range o.observers {
		obs.EventDone(info, repos, err)
	}
}
