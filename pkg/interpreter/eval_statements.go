package interpreter

import (
	"fractus/interpreter-go/pkg/ast"
	"fractus/interpreter-go/pkg/runtime"
	"fractus/interpreter-go/pkg/scope"
)

func (i *Interpreter) evaluateStatement(node ast.Statement) (runtime.Value, error) {
	switch n := node.(type) {
	case nil:
		return runtime.VoidValue{}, nil
	case *ast.CompoundStatement:
		return i.evaluateCompound(n)
	case *ast.Assignment:
		return i.evaluateAssignment(n)
	case *ast.IfStatement:
		return i.evaluateIf(n)
	case *ast.WhileStatement:
		return i.evaluateWhile(n)
	case *ast.ReturnStatement:
		return i.evaluateReturn(n)
	case *ast.ProcedureCall:
		return i.evaluateCall(n)
	default:
		return nil, runtimeErrorf("unsupported statement %T", node)
	}
}

// evaluateCompound runs children in order and stops once one of them changes
// the frame's return slot.
func (i *Interpreter) evaluateCompound(block *ast.CompoundStatement) (runtime.Value, error) {
	var result runtime.Value = runtime.VoidValue{}
	if block == nil {
		return result, nil
	}
	frame := i.current()
	before := frame.ReturnValue()
	for _, stmt := range block.Statements {
		val, err := i.evaluateStatement(stmt)
		if err != nil {
			return nil, err
		}
		result = val
		if !runtime.Same(before, frame.ReturnValue()) {
			break
		}
	}
	return result, nil
}

func (i *Interpreter) evaluateAssignment(assign *ast.Assignment) (runtime.Value, error) {
	val, err := i.evaluateExpression(assign.Value)
	if err != nil {
		return nil, err
	}
	if val.Kind() == runtime.KindVoid {
		return nil, runtimeErrorf("cannot assign expression of type void")
	}
	desc, ok := i.lookupDescriptor(assign.Target)
	if !ok {
		return nil, runtimeErrorf("undefined variable '%s'", assign.Target)
	}
	v, ok := desc.(*scope.VariableDescriptor)
	if !ok {
		return nil, runtimeErrorf("symbol before equal sign is not a valid variable: '%s'", assign.Target)
	}
	if val.Kind().String() != v.TypeName() {
		return nil, runtimeErrorf("cannot assign %s to '%s' of type %s", val.Kind(), assign.Target, v.TypeName())
	}
	if err := i.current().Assign(assign.Target, val); err != nil {
		return nil, runtimeErrorf("%s", err.Error())
	}
	return val, nil
}

func (i *Interpreter) evaluateIf(stmt *ast.IfStatement) (runtime.Value, error) {
	cond, err := i.evaluateExpression(stmt.Condition)
	if err != nil {
		return nil, err
	}
	if runtime.Truthy(cond) {
		return i.evaluateStatement(stmt.Then)
	}
	if stmt.Else != nil {
		return i.evaluateStatement(stmt.Else)
	}
	return cond, nil
}

// evaluateWhile loops while the condition is truthy and the body has not
// filled the return slot.
func (i *Interpreter) evaluateWhile(loop *ast.WhileStatement) (runtime.Value, error) {
	var result runtime.Value = runtime.VoidValue{}
	frame := i.current()
	before := frame.ReturnValue()
	for {
		cond, err := i.evaluateExpression(loop.Condition)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(cond) {
			return result, nil
		}
		if result, err = i.evaluateStatement(loop.Body); err != nil {
			return nil, err
		}
		if !runtime.Same(before, frame.ReturnValue()) {
			return result, nil
		}
	}
}

func (i *Interpreter) evaluateReturn(stmt *ast.ReturnStatement) (runtime.Value, error) {
	val, err := i.evaluateExpression(stmt.Argument)
	if err != nil {
		return nil, err
	}
	i.current().SetReturnValue(val)
	return val, nil
}
