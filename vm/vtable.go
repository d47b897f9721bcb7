package vm

import (
	"sync"
	"sync/atomic"
)

// Epoch counts method table mutations in one class hierarchy. A root class
// gets a new Epoch and every class derived from it shares that Epoch, so a
// cached lookup stamped with an older value may be stale. Hierarchies never
// see each other's mutations; each VM bootstraps its own.
type Epoch struct {
	n atomic.Uint64
}

// Load returns the number of mutations so far.
func (e *Epoch) Load() uint64 {
	return e.n.Load()
}

func (e *Epoch) bump() {
	e.n.Add(1)
}

// VTable holds the locally defined methods of one class.
//
// Methods are stored in a slice indexed by selector ID. The slice is
// published through an atomic pointer and never modified once published:
// writers copy, modify and swap under mu, so readers never lock and never
// observe a torn entry. Inheritance is handled by walking the owning class's
// MRO.
type VTable struct {
	class   *Class
	mu      sync.Mutex
	methods atomic.Pointer[[]Method]
}

// NewVTable creates an empty vtable for a class.
func NewVTable(class *Class) *VTable {
	vt := &VTable{class: class}
	empty := make([]Method, 0)
	vt.methods.Store(&empty)
	return vt
}

// Lookup finds a method by selector ID, walking the MRO.
// Returns nil if no class in the MRO defines it.
func (vt *VTable) Lookup(selector int) Method {
	if vt.class == nil {
		return vt.LookupLocal(selector)
	}
	for _, c := range vt.class.mro {
		if m := c.VTable.LookupLocal(selector); m != nil {
			return m
		}
	}
	return nil
}

// LookupLocal finds a method by selector ID in this vtable only.
func (vt *VTable) LookupLocal(selector int) Method {
	methods := *vt.methods.Load()
	if selector >= 0 && selector < len(methods) {
		return methods[selector]
	}
	return nil
}

// AddMethod adds or replaces a method at the given selector ID.
func (vt *VTable) AddMethod(selector int, method Method) {
	vt.mu.Lock()
	defer vt.mu.Unlock()

	old := *vt.methods.Load()
	size := len(old)
	if selector >= size {
		size = selector + 1
	}
	methods := make([]Method, size)
	copy(methods, old)
	methods[selector] = method
	vt.methods.Store(&methods)
	vt.bump()
}

// RemoveMethod removes a method at the given selector ID.
func (vt *VTable) RemoveMethod(selector int) {
	vt.mu.Lock()
	defer vt.mu.Unlock()

	old := *vt.methods.Load()
	if selector < 0 || selector >= len(old) || old[selector] == nil {
		return
	}
	methods := make([]Method, len(old))
	copy(methods, old)
	methods[selector] = nil
	vt.methods.Store(&methods)
	vt.bump()
}

// HasMethod returns true if this vtable (not the MRO) has a method for selector.
func (vt *VTable) HasMethod(selector int) bool {
	return vt.LookupLocal(selector) != nil
}

func (vt *VTable) bump() {
	if vt.class != nil && vt.class.epoch != nil {
		vt.class.epoch.bump()
	}
}
