package runtime

import (
	"fmt"
	"sort"

	"fractus/interpreter-go/pkg/scope"
)

// Frame holds the variables of one procedure activation. Lookups that miss
// fall back to the global frame, never to any intermediate caller.
type Frame struct {
	name   string
	values map[string]Value
	scope  *scope.Scope
	global *Frame
	retVal Value
}

// NewFrame creates a frame for sc with every variable of sc set to its zero
// value. global is nil for the global frame itself.
func NewFrame(sc *scope.Scope, global *Frame) *Frame {
	f := &Frame{
		values: make(map[string]Value),
		scope:  sc,
		global: global,
	}
	if sc == nil {
		return f
	}
	f.name = sc.Name()
	for _, v := range sc.Variables() {
		kind, ok := KindForTypeName(v.TypeName())
		if !ok {
			continue
		}
		val := Zero(kind)
		if kind == KindBool && v.VarName == "true" {
			val = BoolValue{Val: true}
		}
		f.values[v.VarName] = val
	}
	return f
}

// Name is the name of the scope the frame was built from.
func (f *Frame) Name() string { return f.name }

// Scope is the static scope the frame was built from.
func (f *Frame) Scope() *scope.Scope { return f.scope }

// Global returns the fallback frame, or nil for the global frame.
func (f *Frame) Global() *Frame { return f.global }

// Define inserts or overwrites a binding in this frame.
func (f *Frame) Define(name string, value Value) {
	f.values[name] = value
}

// Get retrieves a binding from this frame or, failing that, the global frame.
func (f *Frame) Get(name string) (Value, error) {
	if owner := f.owner(name); owner != nil {
		return owner.values[name], nil
	}
	return nil, fmt.Errorf("undefined variable '%s'", name)
}

// Assign updates the binding in the nearest frame that owns name.
func (f *Frame) Assign(name string, value Value) error {
	owner := f.owner(name)
	if owner == nil {
		return fmt.Errorf("undefined variable '%s'", name)
	}
	owner.values[name] = value
	return nil
}

func (f *Frame) owner(name string) *Frame {
	if _, ok := f.values[name]; ok {
		return f
	}
	if f.global != nil {
		if _, ok := f.global.values[name]; ok {
			return f.global
		}
	}
	return nil
}

// ReturnValue returns the value stored by the last return statement, or nil.
func (f *Frame) ReturnValue() Value { return f.retVal }

// SetReturnValue fills the return slot.
func (f *Frame) SetReturnValue(v Value) { f.retVal = v }

// Snapshot returns a copy of the frame's own bindings.
func (f *Frame) Snapshot() map[string]Value {
	out := make(map[string]Value, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Keys returns the frame's own binding names in sorted order.
func (f *Frame) Keys() []string {
	keys := make([]string, 0, len(f.values))
	for k := range f.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
