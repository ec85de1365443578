package decision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zzalscv2/athena-atlas-sub040/internal/descriptor"
	"github.com/zzalscv2/athena-atlas-sub040/internal/registry"
	"github.com/zzalscv2/athena-atlas-sub040/internal/tob"
)

func TestModule_Registers(t *testing.T) {
	r := registry.New(&Module{})
	assert.Equal(t, []string{"DeltaEta", "EtCut"}, r.Classes(descriptor.Decision))
}

func TestEtCut(t *testing.T) {
	c, err := NewEtCut(registry.Params{"thresholds": []any{20, 50}})
	require.NoError(t, err)
	assert.Equal(t, 2, c.NumOutputBits())

	in := []tob.Array{{Name: "jJs", TOBs: []tob.TOB{{Et: 40}, {Et: 25}, {Et: 10}}}}
	out, dec, err := c.Decide(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "10", dec.String())
	require.Len(t, out, 2)
	assert.Equal(t, "et>20", out[0].Name)
	assert.Equal(t, []tob.TOB{{Et: 40}, {Et: 25}}, out[0].TOBs)
	assert.Empty(t, out[1].TOBs)

	_, _, err = c.Decide(context.Background(), nil)
	assert.Error(t, err)
}

func TestEtCut_Params(t *testing.T) {
	_, err := NewEtCut(nil)
	assert.Error(t, err)

	many := make([]int, tob.MaxDecisionBits+1)
	_, err = NewEtCut(registry.Params{"thresholds": many})
	assert.Error(t, err)
}

func TestDeltaEta(t *testing.T) {
	d, err := NewDeltaEta(registry.Params{"windows": []any{
		map[string]any{"min": 0, "max": 5},
		map[string]any{"min": 10, "max": 20},
	}})
	require.NoError(t, err)
	require.Equal(t, 2, d.NumOutputBits())

	t.Run("two inputs", func(t *testing.T) {
		in := []tob.Array{
			{TOBs: []tob.TOB{{Et: 30, Eta: 8}, {Et: 5, Eta: 0}}},
			{TOBs: []tob.TOB{{Et: 20, Eta: -4}}},
		}
		out, dec, err := d.Decide(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "01", dec.String())
		assert.Equal(t, []tob.TOB{{Et: 30, Eta: 8}, {Et: 20, Eta: -4}}, out[1].TOBs)
		assert.Empty(t, out[0].TOBs)
	})

	t.Run("single input uses its two leading objects", func(t *testing.T) {
		in := []tob.Array{{TOBs: []tob.TOB{{Et: 30, Eta: 3}, {Et: 20, Eta: 1}}}}
		_, dec, err := d.Decide(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "10", dec.String())
	})

	t.Run("not enough objects", func(t *testing.T) {
		in := []tob.Array{{TOBs: []tob.TOB{{Et: 30}}}}
		out, dec, err := d.Decide(context.Background(), in)
		require.NoError(t, err)
		assert.False(t, dec.Any())
		assert.Len(t, out, 2)
	})

	t.Run("too many inputs", func(t *testing.T) {
		_, _, err := d.Decide(context.Background(), make([]tob.Array, 3))
		assert.Error(t, err)
	})
}

func TestDeltaEta_Params(t *testing.T) {
	_, err := NewDeltaEta(registry.Params{"windows": []any{map[string]any{"min": 5, "max": 1}}})
	assert.ErrorContains(t, err, "window 0")

	_, err = NewDeltaEta(nil)
	assert.Error(t, err)
}
