// Package scope holds the static symbol tables built by semantic analysis.
package scope

import (
	"fmt"
	"sort"
	"strings"
)

// Builtin type and procedure names.
const (
	TypeInteger  = "integer"
	TypeString   = "string"
	TypeFraction = "fraction"
	TypeBoolean  = "boolean"
	TypeVoid     = "void"

	ProcPrint = "print"
	ProcRead  = "read"
)

// Scope maps names to descriptors and optionally points at the scope that
// encloses it.
type Scope struct {
	name      string
	level     int
	enclosing *Scope
	symbols   map[string]Descriptor
}

// New creates an empty scope.
func New(name string, level int, enclosing *Scope) *Scope {
	return &Scope{
		name:      name,
		level:     level,
		enclosing: enclosing,
		symbols:   make(map[string]Descriptor),
	}
}

func (s *Scope) Name() string      { return s.name }
func (s *Scope) Level() int        { return s.level }
func (s *Scope) Enclosing() *Scope { return s.enclosing }

// Insert stores d under its name, replacing any previous entry.
func (s *Scope) Insert(d Descriptor) Descriptor {
	s.symbols[d.Name()] = d
	return d
}

// Lookup searches this scope and then each enclosing one.
func (s *Scope) Lookup(name string) (Descriptor, bool) {
	for cur := s; cur != nil; cur = cur.enclosing {
		if d, ok := cur.symbols[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// LookupLocal searches this scope only.
func (s *Scope) LookupLocal(name string) (Descriptor, bool) {
	d, ok := s.symbols[name]
	return d, ok
}

// Descriptors returns the entries of this scope sorted by name.
func (s *Scope) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(s.symbols))
	for _, d := range s.symbols {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Variables returns the variable descriptors of this scope sorted by name.
func (s *Scope) Variables() []*VariableDescriptor {
	var out []*VariableDescriptor
	for _, d := range s.Descriptors() {
		if v, ok := d.(*VariableDescriptor); ok {
			out = append(out, v)
		}
	}
	return out
}

// InitializeBuiltins seeds the builtin types, the boolean constants and the
// print/read procedures.
func (s *Scope) InitializeBuiltins() {
	types := make(map[string]*BuiltinTypeDescriptor)
	for _, name := range []string{TypeInteger, TypeString, TypeFraction, TypeBoolean} {
		types[name] = &BuiltinTypeDescriptor{TypeName: name}
		s.Insert(types[name])
	}
	s.Insert(&VariableDescriptor{VarName: "true", Type: types[TypeBoolean]})
	s.Insert(&VariableDescriptor{VarName: "false", Type: types[TypeBoolean]})
	s.Insert(&ProcedureDescriptor{
		ProcName:   ProcPrint,
		ReturnType: TypeVoid,
		Params:     []*VariableDescriptor{{VarName: "s", Type: types[TypeString]}},
	})
	s.Insert(&ProcedureDescriptor{
		ProcName:   ProcRead,
		ReturnType: TypeVoid,
		Params:     []*VariableDescriptor{{VarName: "f", Type: types[TypeFraction]}},
	})
}

// String renders the scope header followed by one line per descriptor.
func (s *Scope) String() string {
	var b strings.Builder
	enclosing := "none"
	if s.enclosing != nil {
		enclosing = s.enclosing.name
	}
	fmt.Fprintf(&b, "scope %s (level %d, enclosing: %s)\n", s.name, s.level, enclosing)
	for _, d := range s.Descriptors() {
		fmt.Fprintf(&b, "  %s: %s\n", d.Name(), d)
	}
	return b.String()
}
