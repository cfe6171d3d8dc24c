package core

import (
	"slices"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/inoxlang/treewalk/internal/utils"
	"github.com/maruel/natural"
)

// A ScopeInfo is the static description of the scopes of a function or module: the
// names of the local slots and their indexes. It is built lazily and shared by all
// the activations (Scope) of its function or module.
type ScopeInfo struct {
	lock            sync.Mutex
	caseInsensitive bool
	names           []string
	indexes         map[string]int
}

func NewScopeInfo(caseInsensitive bool) *ScopeInfo {
	return &ScopeInfo{
		caseInsensitive: caseInsensitive,
		indexes:         map[string]int{},
	}
}

func (info *ScopeInfo) IsCaseInsensitive() bool {
	return info.caseInsensitive
}

func (info *ScopeInfo) normalize(name string) string {
	if info.caseInsensitive {
		return strings.ToLower(name)
	}
	return name
}

// Declare returns the slot of name, the slot is created if it does not exist.
func (info *ScopeInfo) Declare(name string) int {
	info.lock.Lock()
	defer info.lock.Unlock()

	name = info.normalize(name)
	if index, ok := info.indexes[name]; ok {
		return index
	}
	index := len(info.names)
	info.names = append(info.names, name)
	info.indexes[name] = index
	return index
}

func (info *ScopeInfo) Lookup(name string) (int, bool) {
	info.lock.Lock()
	defer info.lock.Unlock()

	index, ok := info.indexes[info.normalize(name)]
	return index, ok
}

func (info *ScopeInfo) SlotCount() int {
	info.lock.Lock()
	defer info.lock.Unlock()

	return len(info.names)
}

// Names returns the slot names ordered by slot index.
func (info *ScopeInfo) Names() []string {
	info.lock.Lock()
	defer info.lock.Unlock()

	return slices.Clone(info.names)
}

// SortedNames returns the slot names in natural order (x2 before x10).
func (info *ScopeInfo) SortedNames() []string {
	names := info.Names()
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		default:
			return 0
		}
	})
	return names
}

// A Scope is an activation of a function or module: it holds the values of the slots
// described by its ScopeInfo. The parent of a scope is the lexically enclosing scope,
// for a function call this is the scope captured by the closure.
type Scope struct {
	info     *ScopeInfo
	parent   *Scope
	slots    []Value
	assigned *bitset.BitSet
}

func NewScope(info *ScopeInfo, parent *Scope) *Scope {
	count := info.SlotCount()
	return &Scope{
		info:     info,
		parent:   parent,
		slots:    make([]Value, count),
		assigned: bitset.New(uint(count)),
	}
}

func (s *Scope) Info() *ScopeInfo {
	return s.info
}

func (s *Scope) Parent() *Scope {
	return s.parent
}

// ancestor returns the scope hops levels above s, or nil if the chain is too short.
func (s *Scope) ancestor(hops int) *Scope {
	scope := s
	for i := 0; i < hops && scope != nil; i++ {
		scope = scope.parent
	}
	return scope
}

func (s *Scope) get(slot int) (Value, bool) {
	if slot >= len(s.slots) || !s.assigned.Test(uint(slot)) {
		return nil, false
	}
	return s.slots[slot], true
}

func (s *Scope) set(slot int, value Value) {
	if slot >= len(s.slots) {
		//the slot has been declared after the creation of the scope
		grown := make([]Value, utils.Max(slot+1, s.info.SlotCount()))
		copy(grown, s.slots)
		s.slots = grown
	}
	s.slots[slot] = value
	s.assigned.Set(uint(slot))
}

// Get returns the value of the first assigned slot named name in s and its ancestors.
// It is intended for hosts and diagnostics, evaluation goes through bindings.
func (s *Scope) Get(name string) (Value, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if slot, ok := scope.info.Lookup(name); ok {
			if value, ok := scope.get(slot); ok {
				return value, true
			}
		}
	}
	return nil, false
}

// AssignedCount returns the number of slots of s that hold a value.
func (s *Scope) AssignedCount() int {
	return int(s.assigned.Count())
}
