// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zzalscv2/athena-atlas-sub040/internal/config"
	"github.com/zzalscv2/athena-atlas-sub040/internal/ctxlog"
)

// translateBlock converts one algorithm block into a config entry.
func translateBlock(ctx context.Context, file, kind string, b *AlgorithmBlock) (*config.Entry, error) {
	logger := ctxlog.FromContext(ctx).With("kind", kind, "class", b.Class, "name", b.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL block to internal config model.")

	entry := &config.Entry{
		Name:     b.Name,
		Class:    b.Class,
		Category: b.Category,
		Inputs:   b.Inputs,
		Selector: b.Selector,
		Origin:   file,
	}

	if isExprDefined(ctx, b.Parameters, "parameters") {
		params, err := evalParameters(b.Parameters)
		if err != nil {
			return nil, fmt.Errorf("%s %q in %s: %w", kind, b.Name, file, err)
		}
		entry.Parameters = params
	}

	if len(b.TriggerLines) > 0 && kind != "decision" {
		logger.Warn("Ignoring trigger_line blocks on a non-decision algorithm.", "count", len(b.TriggerLines))
	}
	if kind == "decision" {
		for _, tl := range b.TriggerLines {
			pos := -1
			if tl.Position != nil {
				pos = *tl.Position
			}
			entry.TriggerLines = append(entry.TriggerLines, config.TriggerLine{Name: tl.Name, Position: pos})
		}
	}
	return entry, nil
}

func evalParameters(expr hcl.Expression) (map[string]any, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid parameters: %w", diags)
	}
	native, err := ctyToNative(val)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if native == nil {
		return nil, nil
	}
	params, ok := native.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parameters must be an object, got %s", val.Type().FriendlyName())
	}
	return params, nil
}

// isExprDefined checks if an HCL expression was actually present in the source.
// The decoder fills omitted optional attributes with zero-width placeholder
// expressions, so a nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	isDefined := r.End.Byte > r.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", r.String(),
		"is_defined", isDefined,
	)
	return isDefined
}
