package vm

import (
	"errors"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// SelectorTable tests
// ---------------------------------------------------------------------------

func TestSelectorTableIntern(t *testing.T) {
	st := NewSelectorTable()

	id1 := st.Intern("__add__")
	if id1 != 0 {
		t.Errorf("first Intern got ID %d, want 0", id1)
	}
	if id2 := st.Intern("__add__"); id2 != id1 {
		t.Errorf("re-Intern got ID %d, want %d", id2, id1)
	}
	if id3 := st.Intern("__radd__"); id3 != 1 {
		t.Errorf("second unique Intern got ID %d, want 1", id3)
	}
}

func TestSelectorTableLookup(t *testing.T) {
	st := NewSelectorTable()
	st.Intern("__eq__")
	st.Intern("__ne__")

	if id := st.Lookup("__eq__"); id != 0 {
		t.Errorf("Lookup(__eq__) = %d, want 0", id)
	}
	if id := st.Lookup("__ne__"); id != 1 {
		t.Errorf("Lookup(__ne__) = %d, want 1", id)
	}
	if id := st.Lookup("__lt__"); id != -1 {
		t.Errorf("Lookup(__lt__) = %d, want -1", id)
	}
	if st.Len() != 2 {
		t.Errorf("Len() = %d, want 2", st.Len())
	}
}

func TestSelectorTableName(t *testing.T) {
	st := NewSelectorTable()
	ids := []int{st.Intern("__mul__"), st.Intern("__rmul__")}

	if name := st.Name(ids[0]); name != "__mul__" {
		t.Errorf("Name(%d) = %q, want __mul__", ids[0], name)
	}
	if name := st.Name(ids[1]); name != "__rmul__" {
		t.Errorf("Name(%d) = %q, want __rmul__", ids[1], name)
	}
	if name := st.Name(99); name != "" {
		t.Errorf("Name(99) = %q, want empty", name)
	}
	if name := st.Name(-1); name != "" {
		t.Errorf("Name(-1) = %q, want empty", name)
	}
}

func TestSelectorTableConcurrency(t *testing.T) {
	st := NewSelectorTable()
	names := []string{"__add__", "__sub__", "__mul__", "__truediv__", "__floordiv__", "__mod__"}

	var wg sync.WaitGroup
	results := make([][]int, 8)
	for g := range results {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			ids := make([]int, len(names))
			for i, name := range names {
				ids[i] = st.Intern(name)
			}
			results[g] = ids
		}(g)
	}
	wg.Wait()

	for g := 1; g < len(results); g++ {
		for i := range names {
			if results[g][i] != results[0][i] {
				t.Errorf("goroutine %d got ID %d for %s, goroutine 0 got %d", g, results[g][i], names[i], results[0][i])
			}
		}
	}
	if st.Len() != len(names) {
		t.Errorf("Len() = %d, want %d", st.Len(), len(names))
	}
}

// ---------------------------------------------------------------------------
// VTable tests
// ---------------------------------------------------------------------------

func constMethod(name string, v Value) Method {
	return NewMethod1(name, func(_ *VM, _ Value, _ Value) (Value, error) {
		return v, nil
	})
}

func TestVTableInheritance(t *testing.T) {
	base := NewClass("Base")
	derived := NewClass("Derived", base)
	m := constMethod("__add__", FromInt(1))
	base.VTable.AddMethod(0, m)

	if got := derived.VTable.Lookup(0); got != m {
		t.Error("derived class should inherit base method")
	}
	if derived.VTable.LookupLocal(0) != nil {
		t.Error("LookupLocal should not see inherited methods")
	}
	if derived.VTable.HasMethod(0) {
		t.Error("HasMethod should be false for inherited method")
	}
	if derived.VTable.Lookup(5) != nil {
		t.Error("Lookup of unknown selector should be nil")
	}
}

func TestVTableOverrideAndRemove(t *testing.T) {
	base := NewClass("Base")
	derived := NewClass("Derived", base)
	mb := constMethod("__add__", FromInt(1))
	md := constMethod("__add__", FromInt(2))
	base.VTable.AddMethod(3, mb)
	derived.VTable.AddMethod(3, md)

	if derived.VTable.Lookup(3) != md {
		t.Error("subclass definition should shadow the inherited one")
	}

	derived.VTable.RemoveMethod(3)
	if derived.VTable.Lookup(3) != mb {
		t.Error("removing the override should expose the inherited method")
	}
	// Removing something that isn't there is a no-op.
	derived.VTable.RemoveMethod(3)
	derived.VTable.RemoveMethod(42)
}

func TestVTableMutationBumpsEpoch(t *testing.T) {
	root := NewClass("Root")
	c := NewClass("C", root)
	other := NewClass("Other")
	if c.Epoch() != root.Epoch() {
		t.Fatal("a subclass should share its root's epoch")
	}

	before, otherBefore := c.Epoch(), other.Epoch()
	c.VTable.AddMethod(0, constMethod("__add__", None))
	afterAdd := root.Epoch()
	if afterAdd <= before {
		t.Errorf("epoch after AddMethod = %d, want > %d", afterAdd, before)
	}
	c.VTable.RemoveMethod(0)
	if root.Epoch() <= afterAdd {
		t.Error("RemoveMethod should bump the epoch")
	}
	if other.Epoch() != otherBefore {
		t.Error("mutations must not bump an unrelated hierarchy's epoch")
	}
}

func TestVTableLookupLocal(t *testing.T) {
	parent := NewClass("P")
	c := NewClass("C", parent)
	parent.VTable.AddMethod(1, constMethod("a", None))
	c.VTable.AddMethod(4, constMethod("b", None))

	if c.VTable.LookupLocal(1) != nil {
		t.Error("LookupLocal should not see inherited methods")
	}
	if c.VTable.Lookup(1) == nil {
		t.Error("Lookup should see inherited methods")
	}
	if !c.VTable.HasMethod(4) || c.VTable.HasMethod(2) {
		t.Error("HasMethod should report only local selectors")
	}
	if c.VTable.LookupLocal(-1) != nil || c.VTable.LookupLocal(99) != nil {
		t.Error("out-of-range selectors should miss")
	}
}

func TestVTableConcurrentReadWrite(t *testing.T) {
	c := NewClass("C")
	m1 := constMethod("x", FromInt(1))
	m2 := constMethod("x", FromInt(2))
	c.VTable.AddMethod(0, m1)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if i%2 == 0 {
				c.VTable.AddMethod(0, m2)
			} else {
				c.VTable.AddMethod(0, m1)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if m := c.VTable.Lookup(0); m != m1 && m != m2 {
				t.Error("reader observed a method that was never stored")
				return
			}
		}
	}()
	wg.Wait()
}

// ---------------------------------------------------------------------------
// Method tests
// ---------------------------------------------------------------------------

func TestMethodInvokeArgs(t *testing.T) {
	vm := NewVM()
	m0 := NewMethod0("__len__", func(_ *VM, _ Value) (Value, error) { return FromInt(3), nil })
	m1 := NewMethod1("__add__", func(_ *VM, recv Value, arg Value) (Value, error) {
		return FromInt(recv.Int() + arg.Int()), nil
	})

	if v, err := m0.Invoke(vm, None, nil); err != nil || v.Int() != 3 {
		t.Errorf("Method0 Invoke = %v, %v; want 3", v, err)
	}
	if _, err := m0.Invoke(vm, None, []Value{None}); err == nil {
		t.Error("Method0 with an argument should fail")
	}
	if v, err := m1.Invoke(vm, FromInt(2), []Value{FromInt(5)}); err != nil || v.Int() != 7 {
		t.Errorf("Method1 Invoke = %v, %v; want 7", v, err)
	}
	if _, err := m1.Invoke(vm, FromInt(2), nil); err == nil {
		t.Error("Method1 without an argument should fail")
	}
	if EnclosingType(m1) != nil {
		t.Error("plain methods have no enclosing type")
	}
}

func TestBuiltinEnclosingType(t *testing.T) {
	vm := NewVM()
	m := vm.IntClass.LookupMethod(vm.Selectors, "__add__")
	if m == nil {
		t.Fatal("int.__add__ missing")
	}
	if EnclosingType(m) != vm.IntClass {
		t.Errorf("EnclosingType(int.__add__) = %v, want int", EnclosingType(m))
	}
	if m := vm.BoolClass.LookupMethod(vm.Selectors, "__add__"); EnclosingType(m) != vm.IntClass {
		t.Error("bool inherits int.__add__, owned by int")
	}
}

func TestDescriptorBind(t *testing.T) {
	vm := NewVM()
	a, _ := vm.DefineClass("A")
	b, _ := vm.DefineClass("B", a)
	other, _ := vm.DefineClass("Other")
	target := constMethod("__add__", FromInt(1))
	d := NewDescriptor("__add__", a, target)

	if m, err := d.Bind(b); err != nil || m != target {
		t.Errorf("Bind(subclass) = %v, %v; want target", m, err)
	}
	_, err := d.Bind(other)
	if !errors.Is(err, ErrDescriptorBinding) {
		t.Fatalf("Bind(unrelated) error = %v, want ErrDescriptorBinding", err)
	}
	want := "descriptor '__add__' for 'A' objects doesn't apply to a 'Other' object"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

// ---------------------------------------------------------------------------
// Locator tests
// ---------------------------------------------------------------------------

func TestLocateWalksMRO(t *testing.T) {
	for _, cached := range []bool{false, true} {
		vm := NewVMWithOptions(Options{MethodCache: cached})
		a, _ := vm.DefineClass("A")
		b, _ := vm.DefineClass("B", a)
		m := constMethod("__add__", FromInt(1))
		a.AddMethod(vm.Selectors, "__add__", m)

		got, err := vm.Locate(b, "__add__", false)
		if err != nil || got != m {
			t.Errorf("cached=%v: Locate(B, __add__) = %v, %v; want A's method", cached, got, err)
		}
		got, err = vm.Locate(b, "__never_interned__", false)
		if err != nil || got != nil {
			t.Errorf("cached=%v: Locate of unknown name = %v, %v; want absent", cached, got, err)
		}
		got, err = vm.Locate(b, "__sub__", false)
		if err != nil || got != nil {
			t.Errorf("cached=%v: Locate of undefined slot = %v, %v; want absent", cached, got, err)
		}
	}
}

func TestLocateDescriptor(t *testing.T) {
	vm := NewVM()
	a, _ := vm.DefineClass("A")
	other, _ := vm.DefineClass("Other")
	target := constMethod("__add__", FromInt(1))
	// A descriptor for A stored on an unrelated class.
	other.AddMethod(vm.Selectors, "__add__", NewDescriptor("__add__", a, target))

	if _, err := vm.Locate(other, "__add__", false); !errors.Is(err, ErrDescriptorBinding) {
		t.Errorf("Locate without ignore: err = %v, want ErrDescriptorBinding", err)
	}
	m, err := vm.Locate(other, "__add__", true)
	if err != nil || m != nil {
		t.Errorf("Locate with ignore = %v, %v; want absent", m, err)
	}

	a.AddMethod(vm.Selectors, "__sub__", NewDescriptor("__sub__", a, target))
	if m, err := vm.Locate(a, "__sub__", false); err != nil || m != target {
		t.Errorf("Locate of bindable descriptor = %v, %v; want target", m, err)
	}
}

func TestLocateSeesMethodChanges(t *testing.T) {
	vm := NewVM()
	a, _ := vm.DefineClass("A")
	b, _ := vm.DefineClass("B", a)
	m1 := constMethod("__add__", FromInt(1))
	m2 := constMethod("__add__", FromInt(2))

	if m, _ := vm.Locate(b, "__add__", false); m != nil {
		t.Fatal("nothing defined yet")
	}
	a.AddMethod(vm.Selectors, "__add__", m1)
	if m, _ := vm.Locate(b, "__add__", false); m != m1 {
		t.Error("cached absence should be invalidated by AddMethod")
	}
	b.AddMethod(vm.Selectors, "__add__", m2)
	if m, _ := vm.Locate(b, "__add__", false); m != m2 {
		t.Error("cached inherited method should be invalidated by an override")
	}
	b.RemoveMethod(vm.Selectors, "__add__")
	if m, _ := vm.Locate(b, "__add__", false); m != m1 {
		t.Error("cached override should be invalidated by RemoveMethod")
	}
}
