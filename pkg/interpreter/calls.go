package interpreter

import (
	"fractus/interpreter-go/pkg/ast"
	"fractus/interpreter-go/pkg/runtime"
	"fractus/interpreter-go/pkg/scope"
)

// maxCallDepth bounds recursion so runaway programs fail with a runtime
// error instead of exhausting the Go stack.
const maxCallDepth = 10000

func (i *Interpreter) evaluateCall(call *ast.ProcedureCall) (runtime.Value, error) {
	desc, ok := i.lookupDescriptor(call.Callee)
	if !ok {
		return nil, runtimeErrorf("'%s' is not a defined procedure", call.Callee)
	}
	proc, ok := desc.(*scope.ProcedureDescriptor)
	if !ok {
		return nil, runtimeErrorf("'%s' is not a defined procedure", call.Callee)
	}
	if len(call.Arguments) != len(proc.Params) {
		return nil, runtimeErrorf("incorrect number of arguments for '%s': expected %d, got %d",
			call.Callee, len(proc.Params), len(call.Arguments))
	}
	if i.isBuiltin(proc) {
		switch proc.ProcName {
		case scope.ProcPrint:
			return i.builtinPrint(proc, call)
		case scope.ProcRead:
			return i.builtinRead(call)
		}
	}

	args := make([]runtime.Value, len(call.Arguments))
	for idx, argNode := range call.Arguments {
		val, err := i.evaluateExpression(argNode)
		if err != nil {
			return nil, err
		}
		if err := checkArgument(proc, idx, val); err != nil {
			return nil, err
		}
		args[idx] = val
	}
	return i.invokeProcedure(proc, args)
}

func (i *Interpreter) isBuiltin(proc *scope.ProcedureDescriptor) bool {
	global := i.protos.Global()
	if global == nil {
		return false
	}
	d, ok := global.LookupLocal(proc.ProcName)
	return ok && d == scope.Descriptor(proc) && (proc.ProcName == scope.ProcPrint || proc.ProcName == scope.ProcRead)
}

func checkArgument(proc *scope.ProcedureDescriptor, idx int, val runtime.Value) error {
	param := proc.Params[idx]
	if val.Kind().String() != param.TypeName() {
		return runtimeErrorf("incorrect argument type for parameter '%s' of '%s': expected %s, got %s",
			param.VarName, proc.ProcName, param.TypeName(), val.Kind())
	}
	return nil
}

// invokeProcedure pushes a fresh frame, binds args and runs the body. The
// value left in the return slot must match the declared return type.
func (i *Interpreter) invokeProcedure(proc *scope.ProcedureDescriptor, args []runtime.Value) (runtime.Value, error) {
	decl, ok := i.procedures[proc.ProcName]
	if !ok {
		return nil, runtimeErrorf("cannot find declared procedure: %s", proc.ProcName)
	}
	if len(i.frames) >= maxCallDepth {
		return nil, runtimeErrorf("call stack exhausted in '%s'", proc.ProcName)
	}
	frame, err := i.pushFrame(proc.ProcName)
	if err != nil {
		return nil, err
	}
	defer i.popFrame()

	for idx, param := range proc.Params {
		frame.Define(param.VarName, args[idx])
	}
	if decl.Body != nil {
		if _, err := i.evaluateStatement(decl.Body.Body); err != nil {
			return nil, err
		}
	}

	ret := frame.ReturnValue()
	if proc.ReturnType == scope.TypeVoid {
		if ret != nil {
			return nil, runtimeErrorf("incorrect return type for '%s': expected void, got %s", proc.ProcName, ret.Kind())
		}
		return runtime.VoidValue{}, nil
	}
	if ret == nil {
		return nil, runtimeErrorf("incorrect return type for '%s': expected %s, got void", proc.ProcName, proc.ReturnType)
	}
	if ret.Kind().String() != proc.ReturnType {
		return nil, runtimeErrorf("incorrect return type for '%s': expected %s, got %s", proc.ProcName, proc.ReturnType, ret.Kind())
	}
	return ret, nil
}
