package app

import (
	"github.com/zzalscv2/athena-atlas-sub040/internal/registry"
	"github.com/zzalscv2/athena-atlas-sub040/modules/counting"
	"github.com/zzalscv2/athena-atlas-sub040/modules/decision"
	"github.com/zzalscv2/athena-atlas-sub040/modules/sorting"
)

// coreModules is the definitive list of all algorithm modules compiled into
// the l1topo-sim binary.
var coreModules = []registry.Module{
	&sorting.Module{},
	&counting.Module{},
	&decision.Module{},
}
