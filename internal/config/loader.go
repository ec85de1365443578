package config

import (
	"context"
	"fmt"

	"github.com/zzalscv2/athena-atlas-sub040/internal/ctxlog"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads every file of its format found under the given paths and
	// translates them into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Menu, error)
}

// MultiLoader runs several loaders over the same paths and merges their
// menus in loader order.
type MultiLoader []Loader

// Load implements Loader.
func (ml MultiLoader) Load(ctx context.Context, paths ...string) (*Menu, error) {
	logger := ctxlog.FromContext(ctx)
	menu := NewMenu()
	for i, l := range ml {
		m, err := l.Load(ctx, paths...)
		if err != nil {
			return nil, fmt.Errorf("loader %d: %w", i, err)
		}
		logger.Debug("Loader finished.", "loader", fmt.Sprintf("%T", l), "entries", m.Len())
		menu.Merge(m)
	}
	if menu.Len() == 0 {
		return nil, fmt.Errorf("no trigger menu entries found in %v", paths)
	}
	return menu, nil
}
