package event

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zzalscv2/athena-atlas-sub040/internal/tob"
)

func TestEvent_Lookup(t *testing.T) {
	ev, err := New(Info{Run: 1, Event: 2}, map[string][]tob.TOB{
		"jJ": {{Et: 40}, {Et: 10}},
	})
	require.NoError(t, err)

	refs, err := ev.Lookup("jJ")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, 40, refs[0].Et)

	empty, err := ev.Lookup("eEM")
	require.NoError(t, err, "known but absent selectors are empty")
	assert.Empty(t, empty)

	_, err = ev.Lookup("bogus")
	require.ErrorIs(t, err, ErrUnknownSelector)
	assert.Contains(t, err.Error(), `"bogus"`)
}

func TestNew_RejectsUnknownCollections(t *testing.T) {
	_, err := New(Info{Run: 3, Event: 9}, map[string][]tob.TOB{"zz": nil, "jJ": nil, "aa": nil})
	require.ErrorIs(t, err, ErrUnknownSelector)
	assert.Contains(t, err.Error(), "run 3 event 9")
	assert.Contains(t, err.Error(), "[aa zz]")
}

const eventFile = `
events:
  - run: 410000
    event: 1
    lumi_block: 7
    bcid: 12
    collections:
      jJ:
        - {et: 55, eta: 10, phi: 3}
        - {et: 21, eta: -4, phi: 30}
  - run: 410000
    event: 2
`

func TestDecode(t *testing.T) {
	events, err := Decode(strings.NewReader(eventFile))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, Info{Run: 410000, Event: 1, LumiBlock: 7, BCID: 12}, events[0].Info())
	refs, err := events[0].Lookup("jJ")
	require.NoError(t, err)
	assert.Equal(t, []tob.TOB{{Et: 55, Eta: 10, Phi: 3}, {Et: 21, Eta: -4, Phi: 30}}, refs.Values())

	refs, err = events[1].Lookup("jJ")
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(strings.NewReader("events:\n  - run: 1\n    collections: {XX: []}\n"))
	require.ErrorIs(t, err, ErrUnknownSelector)
	assert.Contains(t, err.Error(), "event 0")

	_, err = Decode(strings.NewReader("sorts: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode events")
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.yaml")
	require.NoError(t, os.WriteFile(path, []byte(eventFile), 0o644))

	events, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
