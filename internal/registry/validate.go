package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/zzalscv2/athena-atlas-sub040/internal/ctxlog"
	"github.com/zzalscv2/athena-atlas-sub040/internal/descriptor"
)

// Validate checks that every count, sort and decision descriptor names a
// class registered for its kind. All mismatches are reported together.
func (r *Registry) Validate(ctx context.Context, descs []descriptor.Descriptor) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	for _, d := range descs {
		switch d.Kind {
		case descriptor.Count, descriptor.Sort, descriptor.Decision:
		default:
			continue
		}
		if r.Has(d.Kind, d.Class) {
			continue
		}
		msg := fmt.Sprintf("%s %q: %s %q", d.Kind, d.Name, ErrUnknownClass, d.Class)
		if other := r.kindsOf(d.Class); len(other) > 0 {
			msg += fmt.Sprintf(" (registered as %v)", other)
		}
		errs = append(errs, msg)
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validation passed.", "descriptors", len(descs))
	return nil
}
