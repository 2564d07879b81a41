package scope

import (
	"fmt"
	"strings"
)

// Descriptor is an entry of a scope's symbol table.
type Descriptor interface {
	Name() string
	String() string
	isDescriptor()
}

// BuiltinTypeDescriptor names one of the language's builtin types.
type BuiltinTypeDescriptor struct {
	TypeName string
}

func (d *BuiltinTypeDescriptor) Name() string   { return d.TypeName }
func (d *BuiltinTypeDescriptor) String() string { return fmt.Sprintf("<type %s>", d.TypeName) }
func (*BuiltinTypeDescriptor) isDescriptor()    {}

// VariableDescriptor is a variable or a parameter.
type VariableDescriptor struct {
	VarName string
	Type    *BuiltinTypeDescriptor
}

func (d *VariableDescriptor) Name() string { return d.VarName }
func (d *VariableDescriptor) String() string {
	return fmt.Sprintf("<var %s: %s>", d.VarName, d.TypeName())
}
func (*VariableDescriptor) isDescriptor() {}

// TypeName returns the declared type name, or "" when the type is unknown.
func (d *VariableDescriptor) TypeName() string {
	if d.Type == nil {
		return ""
	}
	return d.Type.TypeName
}

// ProcedureDescriptor records a procedure signature. Params keeps
// declaration order.
type ProcedureDescriptor struct {
	ProcName   string
	ReturnType string
	Params     []*VariableDescriptor
}

func (d *ProcedureDescriptor) Name() string { return d.ProcName }
func (d *ProcedureDescriptor) String() string {
	parts := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		parts = append(parts, p.VarName+": "+p.TypeName())
	}
	return fmt.Sprintf("<proc %s(%s) -> %s>", d.ProcName, strings.Join(parts, ", "), d.ReturnType)
}
func (*ProcedureDescriptor) isDescriptor() {}
