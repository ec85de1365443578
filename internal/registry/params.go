package registry

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Params are the free-form parameters configured for one algorithm.
type Params map[string]any

// Decode fills out, a pointer to a parameter struct, from p. Keys match the
// `mapstructure` field tags. Input is weakly typed so that numbers written
// as strings or floats still decode into integer fields; unknown keys are
// an error.
func (p Params) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		ZeroFields:       false,
	})
	if err != nil {
		return fmt.Errorf("failed to create parameter decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(p)); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}
