package vm

import (
	"sync"
	"sync/atomic"
)

// SelectorTable interns method names to numeric IDs for fast lookup.
//
// Selectors are slot names like "__add__", "__radd__", "__eq__". Converting
// them to dense IDs lets vtables use slice indexing instead of string
// comparison, and lets the method cache key on (class, int).
//
// Reads go through an immutable snapshot and never lock. Interning a new
// name copies the snapshot under mu.
type SelectorTable struct {
	mu   sync.Mutex
	snap atomic.Pointer[selectorSnapshot]
}

type selectorSnapshot struct {
	byName map[string]int // name -> ID
	byID   []string       // ID -> name
}

// NewSelectorTable creates a new empty selector table.
func NewSelectorTable() *SelectorTable {
	st := &SelectorTable{}
	st.snap.Store(&selectorSnapshot{byName: make(map[string]int)})
	return st
}

// Intern returns the ID for a selector name, creating a new ID if needed.
func (st *SelectorTable) Intern(name string) int {
	if id, ok := st.snap.Load().byName[name]; ok {
		return id
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	// Double-check after acquiring the lock
	old := st.snap.Load()
	if id, ok := old.byName[name]; ok {
		return id
	}

	next := &selectorSnapshot{
		byName: make(map[string]int, len(old.byName)+1),
		byID:   make([]string, len(old.byID), len(old.byID)+1),
	}
	for k, v := range old.byName {
		next.byName[k] = v
	}
	copy(next.byID, old.byID)

	id := len(next.byID)
	next.byName[name] = id
	next.byID = append(next.byID, name)
	st.snap.Store(next)
	return id
}

// Lookup returns the ID for a selector name, or -1 if not found.
// Use this when you don't want to create new entries.
func (st *SelectorTable) Lookup(name string) int {
	if id, ok := st.snap.Load().byName[name]; ok {
		return id
	}
	return -1
}

// Name returns the selector name for an ID, or "" if invalid.
func (st *SelectorTable) Name(id int) string {
	byID := st.snap.Load().byID
	if id < 0 || id >= len(byID) {
		return ""
	}
	return byID[id]
}

// Len returns the number of interned selectors.
func (st *SelectorTable) Len() int {
	return len(st.snap.Load().byID)
}
