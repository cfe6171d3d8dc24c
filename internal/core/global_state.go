package core

import (
	"slices"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Globals are the host-provided names (special forms, host functions, host variables)
// that are resolved when a name is not found in the scope chain. The host may update
// them from another goroutine between executions.
type Globals struct {
	entries cmap.ConcurrentMap[string, Value]
}

func NewGlobals(entries map[string]Value) *Globals {
	globals := &Globals{entries: cmap.New[Value]()}
	for name, value := range entries {
		globals.entries.Set(name, value)
	}
	return globals
}

func (g *Globals) Get(name string) (Value, bool) {
	return g.entries.Get(name)
}

func (g *Globals) Has(name string) bool {
	return g.entries.Has(name)
}

func (g *Globals) Set(name string, value Value) {
	g.entries.Set(name, value)
}

func (g *Globals) Remove(name string) {
	g.entries.Remove(name)
}

// Names returns the sorted names of the globals.
func (g *Globals) Names() []string {
	names := g.entries.Keys()
	slices.Sort(names)
	return names
}

// Clone returns a copy of g, it is used to give each execution its own globals.
func (g *Globals) Clone() *Globals {
	return NewGlobals(g.entries.Items())
}
