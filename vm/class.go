package vm

import (
	"fmt"
	"strings"
	"sync"
)

// ---------------------------------------------------------------------------
// Class: hierarchy and method resolution order
// ---------------------------------------------------------------------------

// Note: The Class struct is forward-declared in object.go.
// This file contains the hierarchy operations and the class registry.

// DefineClass creates a class with the given bases.
// With no bases the class is a root with its own Epoch. The method resolution
// order is computed with C3 linearization; an inconsistent hierarchy or bases
// from different hierarchies are errors.
func DefineClass(name string, bases ...*Class) (*Class, error) {
	c := &Class{
		Name:  name,
		Bases: append([]*Class(nil), bases...),
	}
	mro, err := linearize(c)
	if err != nil {
		return nil, err
	}
	c.mro = mro
	c.epoch = new(Epoch)
	for i, b := range bases {
		if i == 0 {
			c.epoch = b.epoch
		} else if b.epoch != c.epoch {
			return nil, fmt.Errorf("bases %s and %s belong to different class hierarchies", bases[0].Name, b.Name)
		}
		if b.Native {
			c.Native = true
		}
		// The most specific builtin layout wins over plain object.
		if c.Kind == KindOther || (c.Kind == KindObject && b.Kind != KindOther) {
			c.Kind = b.Kind
		}
	}
	c.VTable = NewVTable(c)
	return c, nil
}

// NewClass is like DefineClass but panics on an inconsistent hierarchy.
// Use it for bootstrap code and hierarchies known to be well formed.
func NewClass(name string, bases ...*Class) *Class {
	c, err := DefineClass(name, bases...)
	if err != nil {
		panic(err)
	}
	return c
}

// linearize computes the C3 method resolution order of c.
func linearize(c *Class) ([]*Class, error) {
	var seqs [][]*Class
	for _, b := range c.Bases {
		seqs = append(seqs, append([]*Class(nil), b.mro...))
	}
	seqs = append(seqs, append([]*Class(nil), c.Bases...))

	result := []*Class{c}
	for {
		nonEmpty := seqs[:0]
		for _, s := range seqs {
			if len(s) > 0 {
				nonEmpty = append(nonEmpty, s)
			}
		}
		seqs = nonEmpty
		if len(seqs) == 0 {
			return result, nil
		}

		var head *Class
		for _, s := range seqs {
			candidate := s[0]
			if !inTail(seqs, candidate) {
				head = candidate
				break
			}
		}
		if head == nil {
			names := make([]string, len(c.Bases))
			for i, b := range c.Bases {
				names[i] = b.Name
			}
			return nil, fmt.Errorf("cannot create a consistent method resolution order (MRO) for bases %s",
				strings.Join(names, ", "))
		}

		result = append(result, head)
		for i, s := range seqs {
			if s[0] == head {
				seqs[i] = s[1:]
			}
		}
	}
}

func inTail(seqs [][]*Class, c *Class) bool {
	for _, s := range seqs {
		for _, x := range s[1:] {
			if x == c {
				return true
			}
		}
	}
	return false
}

// Epoch returns the mutation count of c's hierarchy. Lookups on c computed
// under an older value may be stale.
func (c *Class) Epoch() uint64 {
	return c.epoch.Load()
}

// MRO returns the method resolution order, starting with c itself.
// The returned slice must not be modified.
func (c *Class) MRO() []*Class {
	return c.mro
}

// IsSubclassOf returns true if c is a subclass of other (or is the same class).
func (c *Class) IsSubclassOf(other *Class) bool {
	for _, k := range c.mro {
		if k == other {
			return true
		}
	}
	return false
}

// IsProperSubclassOf returns true if c is a subclass of other and not other
// itself.
func (c *Class) IsProperSubclassOf(other *Class) bool {
	return c != other && c.IsSubclassOf(other)
}

// ---------------------------------------------------------------------------
// Method registration on Class
// ---------------------------------------------------------------------------

// AddMethod registers a method on this class.
// The selector will be interned in the given SelectorTable.
func (c *Class) AddMethod(selectors *SelectorTable, name string, method Method) {
	c.VTable.AddMethod(selectors.Intern(name), method)
}

// RemoveMethod deletes a locally defined method. Inherited definitions become
// visible again.
func (c *Class) RemoveMethod(selectors *SelectorTable, name string) {
	if id := selectors.Lookup(name); id >= 0 {
		c.VTable.RemoveMethod(id)
	}
}

// LookupMethod looks up a method by name along the MRO.
func (c *Class) LookupMethod(selectors *SelectorTable, name string) Method {
	selectorID := selectors.Lookup(name)
	if selectorID < 0 {
		return nil
	}
	return c.VTable.Lookup(selectorID)
}

// HasMethod returns true if this class (not superclasses) defines a method.
func (c *Class) HasMethod(selectors *SelectorTable, name string) bool {
	selectorID := selectors.Lookup(name)
	if selectorID < 0 {
		return false
	}
	return c.VTable.HasMethod(selectorID)
}

// ---------------------------------------------------------------------------
// ClassTable: per-VM class registry
// ---------------------------------------------------------------------------

// ClassTable maps class names to the classes a VM has created.
// It's thread-safe for concurrent access.
type ClassTable struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

// NewClassTable creates a new empty class table.
func NewClassTable() *ClassTable {
	return &ClassTable{
		classes: make(map[string]*Class),
	}
}

// Register adds c under its name unless the name is taken. It returns the
// class already registered under that name, or nil when c was added.
func (ct *ClassTable) Register(c *Class) *Class {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	if old := ct.classes[c.Name]; old != nil {
		return old
	}
	ct.classes[c.Name] = c
	return nil
}

// Lookup finds a class by name.
func (ct *ClassTable) Lookup(name string) *Class {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return ct.classes[name]
}

// String implements the Stringer interface.
func (c *Class) String() string {
	return c.Name
}
