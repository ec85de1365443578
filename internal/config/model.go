package config

// TriggerLine is one named output bit of a decision algorithm. A negative
// Position means "next free position in declaration order".
type TriggerLine struct {
	Name     string
	Position int
}

// Entry is the format-agnostic representation of one configured algorithm.
type Entry struct {
	Name     string
	Class    string
	Category string
	// Inputs lists child algorithm names, in configuration order.
	Inputs []string
	// TriggerLines is only read for decision entries.
	TriggerLines []TriggerLine
	// Selector is only read for input entries; empty means Name.
	Selector   string
	Parameters map[string]any
	// Origin records where the entry was declared, for diagnostics.
	Origin string
}

// Source is the read-only view of a trigger configuration consumed by the
// fetcher. Each accessor returns entries in configuration order; the accessor
// an entry comes from determines its kind.
type Source interface {
	Roots() []*Entry
	Decisions() []*Entry
	Sorts() []*Entry
	Counts() []*Entry
	Inputs() []*Entry
}

// Menu is the unified representation of a trigger menu and the default
// Source implementation.
type Menu struct {
	RootEntries     []*Entry
	DecisionEntries []*Entry
	SortEntries     []*Entry
	CountEntries    []*Entry
	InputEntries    []*Entry
}

// NewMenu returns an empty menu.
func NewMenu() *Menu {
	return &Menu{}
}

func (m *Menu) Roots() []*Entry     { return m.RootEntries }
func (m *Menu) Decisions() []*Entry { return m.DecisionEntries }
func (m *Menu) Sorts() []*Entry     { return m.SortEntries }
func (m *Menu) Counts() []*Entry    { return m.CountEntries }
func (m *Menu) Inputs() []*Entry    { return m.InputEntries }

// Merge appends all entries of other to m, keeping order.
func (m *Menu) Merge(other *Menu) {
	if other == nil {
		return
	}
	m.RootEntries = append(m.RootEntries, other.RootEntries...)
	m.DecisionEntries = append(m.DecisionEntries, other.DecisionEntries...)
	m.SortEntries = append(m.SortEntries, other.SortEntries...)
	m.CountEntries = append(m.CountEntries, other.CountEntries...)
	m.InputEntries = append(m.InputEntries, other.InputEntries...)
}

// Len returns the total number of entries, duplicates included.
func (m *Menu) Len() int {
	return len(m.RootEntries) + len(m.DecisionEntries) + len(m.SortEntries) +
		len(m.CountEntries) + len(m.InputEntries)
}
