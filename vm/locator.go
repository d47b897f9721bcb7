package vm

import "github.com/tliron/commonlog"

// Locate finds the attribute called name on class, walking the method
// resolution order so that a subclass definition shadows an inherited one.
//
// A nil Method with a nil error means the attribute is absent. Descriptors
// are bound to class before being returned; a descriptor that can't be bound
// is an ErrDescriptorBinding error unless ignoreDescriptorError is set, in
// which case it is treated as absent.
func (vm *VM) Locate(class *Class, name string, ignoreDescriptorError bool) (Method, error) {
	selector := vm.Selectors.Lookup(name)
	if selector < 0 {
		// Never interned, so nothing can define it.
		return nil, nil
	}
	return vm.locateSelector(class, selector, ignoreDescriptorError)
}

func (vm *VM) locateSelector(class *Class, selector int, ignoreDescriptorError bool) (Method, error) {
	attr := vm.lookupAttr(class, selector)
	if attr == nil {
		return nil, nil
	}

	binder, ok := attr.(Binder)
	if !ok {
		return attr, nil
	}
	m, err := binder.Bind(class)
	if err != nil {
		if ignoreDescriptorError {
			if log.AllowLevel(commonlog.Debug) {
				log.Debugf("ignoring descriptor error for %s.%s: %v", class.Name, vm.Selectors.Name(selector), err)
			}
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// lookupAttr returns the raw attribute for (class, selector), consulting the
// method cache when it is enabled.
func (vm *VM) lookupAttr(class *Class, selector int) Method {
	if vm.cache == nil {
		return class.VTable.Lookup(selector)
	}
	if attr, ok := vm.cache.Lookup(class, selector); ok {
		return attr
	}
	epoch := class.Epoch()
	attr := class.VTable.Lookup(selector)
	return vm.cache.Insert(class, selector, attr, epoch)
}

// CacheStats returns the locator cache statistics. The zero value is
// returned when the cache is disabled.
func (vm *VM) CacheStats() CacheStats {
	if vm.cache == nil {
		return CacheStats{}
	}
	return vm.cache.Stats()
}
