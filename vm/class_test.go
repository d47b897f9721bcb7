package vm

import (
	"fmt"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// Class creation tests
// ---------------------------------------------------------------------------

func TestNewClass(t *testing.T) {
	c := NewClass("object")
	if c == nil {
		t.Fatal("NewClass returned nil")
	}
	if c.Name != "object" {
		t.Errorf("Name = %q, want %q", c.Name, "object")
	}
	if len(c.Bases) != 0 {
		t.Error("root class should have no bases")
	}
	if c.VTable == nil {
		t.Error("VTable should be created")
	}
	if mro := c.MRO(); len(mro) != 1 || mro[0] != c {
		t.Errorf("MRO() = %v, want [object]", mro)
	}
}

func mroNames(c *Class) string {
	names := ""
	for i, k := range c.MRO() {
		if i > 0 {
			names += " "
		}
		names += k.Name
	}
	return names
}

func TestMRODiamond(t *testing.T) {
	o := NewClass("O")
	a := NewClass("A", o)
	b := NewClass("B", o)
	c := NewClass("C", a, b)

	if got, want := mroNames(c), "C A B O"; got != want {
		t.Errorf("MRO = %q, want %q", got, want)
	}
}

func TestMROClassic(t *testing.T) {
	// The standard C3 example.
	o := NewClass("O")
	f := NewClass("F", o)
	e := NewClass("E", o)
	d := NewClass("D", o)
	c := NewClass("C", d, f)
	b := NewClass("B", d, e)
	a := NewClass("A", b, c)

	if got, want := mroNames(a), "A B C D E F O"; got != want {
		t.Errorf("MRO = %q, want %q", got, want)
	}
}

func TestMROInconsistent(t *testing.T) {
	o := NewClass("O")
	x := NewClass("X", o)
	y := NewClass("Y", o)
	a := NewClass("A", x, y)
	b := NewClass("B", y, x)

	if _, err := DefineClass("Z", a, b); err == nil {
		t.Error("expected an error for an inconsistent hierarchy")
	}

	defer func() {
		if recover() == nil {
			t.Error("NewClass should panic for an inconsistent hierarchy")
		}
	}()
	NewClass("Z", a, b)
}

func TestIsSubclassOf(t *testing.T) {
	o := NewClass("O")
	a := NewClass("A", o)
	b := NewClass("B", a)
	other := NewClass("Other", o)

	tests := []struct {
		c, of  *Class
		sub    bool
		proper bool
	}{
		{b, a, true, true},
		{b, o, true, true},
		{a, a, true, false},
		{a, b, false, false},
		{other, a, false, false},
	}
	for _, tt := range tests {
		if got := tt.c.IsSubclassOf(tt.of); got != tt.sub {
			t.Errorf("%s.IsSubclassOf(%s) = %v, want %v", tt.c.Name, tt.of.Name, got, tt.sub)
		}
		if got := tt.c.IsProperSubclassOf(tt.of); got != tt.proper {
			t.Errorf("%s.IsProperSubclassOf(%s) = %v, want %v", tt.c.Name, tt.of.Name, got, tt.proper)
		}
	}
}

func TestKindAndNativeInheritance(t *testing.T) {
	vm := NewVM()

	myList, _ := vm.DefineClass("MyList", vm.ListClass)
	if myList.Kind != KindList {
		t.Errorf("list subclass Kind = %v, want KindList", myList.Kind)
	}
	if myList.Builtin {
		t.Error("user subclasses are not builtin")
	}

	mixin, _ := vm.DefineClass("Mixin")
	mixed, _ := vm.DefineClass("Mixed", mixin, vm.StrClass)
	if mixed.Kind != KindStr {
		t.Errorf("Kind = %v, want the builtin layout over plain object", mixed.Kind)
	}

	native := NewClass("Foreign")
	native.Native = true
	sub := NewClass("Sub", native)
	if !sub.Native {
		t.Error("subclasses of native classes are native")
	}
}

func TestBuiltinHierarchy(t *testing.T) {
	vm := NewVM()
	if !vm.BoolClass.IsProperSubclassOf(vm.IntClass) {
		t.Error("bool should be a proper subclass of int")
	}
	for _, c := range []*Class{vm.IntClass, vm.FloatClass, vm.StrClass, vm.ListClass, vm.NoneTypeClass} {
		if !c.IsSubclassOf(vm.ObjectClass) {
			t.Errorf("%s should derive from object", c.Name)
		}
		if !c.Builtin {
			t.Errorf("%s should be marked builtin", c.Name)
		}
	}
	if c := vm.Classes.Lookup("int"); c != vm.IntClass {
		t.Error("builtin classes should be registered")
	}
}

// ---------------------------------------------------------------------------
// Method registration tests
// ---------------------------------------------------------------------------

func TestAddMethod(t *testing.T) {
	selectors := NewSelectorTable()
	c := NewClass("Counter")

	c.AddMethod(selectors, "__add__", NewMethod1("__add__", func(_ *VM, recv Value, arg Value) (Value, error) {
		return FromInt(recv.Int() + arg.Int()), nil
	}))
	c.AddMethod(selectors, "__len__", NewMethod0("__len__", func(_ *VM, _ Value) (Value, error) {
		return FromInt(0), nil
	}))

	if !c.HasMethod(selectors, "__add__") {
		t.Error("HasMethod(__add__) should be true")
	}
	if c.HasMethod(selectors, "__sub__") {
		t.Error("HasMethod(__sub__) should be false")
	}
	m := c.LookupMethod(selectors, "__add__")
	if m == nil {
		t.Fatal("LookupMethod(__add__) returned nil")
	}
	v, err := m.Invoke(nil, FromInt(3), []Value{FromInt(4)})
	if err != nil || v.Int() != 7 {
		t.Errorf("Invoke = %v, %v; want 7", v, err)
	}

	c.RemoveMethod(selectors, "__add__")
	if c.LookupMethod(selectors, "__add__") != nil {
		t.Error("method should be gone after RemoveMethod")
	}
	c.RemoveMethod(selectors, "__never_interned__")
}

// ---------------------------------------------------------------------------
// ClassTable tests
// ---------------------------------------------------------------------------

func TestClassTable(t *testing.T) {
	ct := NewClassTable()
	a := NewClass("A")

	if old := ct.Register(a); old != nil {
		t.Error("first Register should return nil")
	}
	if ct.Lookup("A") != a {
		t.Error("Lookup(A) should return the registered class")
	}
	if old := ct.Register(NewClass("A")); old != a {
		t.Error("Register of a taken name should return the existing class")
	}
	if ct.Lookup("A") != a {
		t.Error("a taken name must keep its first class")
	}
	if ct.Lookup("missing") != nil {
		t.Error("Lookup of an unknown name should be nil")
	}
	if a.String() != "A" {
		t.Errorf("String() = %q, want A", a.String())
	}
}

func TestClassTableConcurrency(t *testing.T) {
	ct := NewClassTable()
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := make(map[string]*Class)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				name := fmt.Sprintf("C%d", j)
				c := NewClass(name)
				if ct.Register(c) == nil {
					mu.Lock()
					if winners[name] != nil {
						t.Errorf("%s registered twice", name)
					}
					winners[name] = c
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if len(winners) != 10 {
		t.Fatalf("%d names registered, want 10", len(winners))
	}
	for name, c := range winners {
		if ct.Lookup(name) != c {
			t.Errorf("Lookup(%s) is not the class that won the registration", name)
		}
	}
}

func TestDefineClassRejectsDuplicateName(t *testing.T) {
	vm := NewVM()
	point, err := vm.DefineClass("Point")
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"Point", "int", "object"} {
		if _, err := vm.DefineClass(name); err == nil {
			t.Errorf("DefineClass(%q) should fail for a taken name", name)
		}
	}
	if vm.Classes.Lookup("Point") != point {
		t.Error("a rejected definition must not replace the registered class")
	}
	if vm.Classes.Lookup("int") != vm.IntClass {
		t.Error("builtin classes can't be redefined")
	}
}
