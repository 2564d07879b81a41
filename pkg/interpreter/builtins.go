package interpreter

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"fractus/interpreter-go/pkg/ast"
	"fractus/interpreter-go/pkg/fraction"
	"fractus/interpreter-go/pkg/runtime"
	"fractus/interpreter-go/pkg/scope"
)

func (i *Interpreter) builtinPrint(proc *scope.ProcedureDescriptor, call *ast.ProcedureCall) (runtime.Value, error) {
	val, err := i.evaluateExpression(call.Arguments[0])
	if err != nil {
		return nil, err
	}
	if err := checkArgument(proc, 0, val); err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintln(i.stdout, runtime.Format(val)); err != nil {
		return nil, runtimeErrorf("print: %v", err)
	}
	return runtime.VoidValue{}, nil
}

// builtinRead overwrites its variable argument with the next
// whitespace-delimited token of stdin, parsed per the variable's type.
func (i *Interpreter) builtinRead(call *ast.ProcedureCall) (runtime.Value, error) {
	ref, ok := call.Arguments[0].(*ast.VariableReference)
	if !ok {
		return nil, runtimeErrorf("read expects a variable argument")
	}
	desc, ok := i.lookupDescriptor(ref.Name)
	if !ok {
		return nil, runtimeErrorf("undefined variable '%s'", ref.Name)
	}
	v, ok := desc.(*scope.VariableDescriptor)
	if !ok {
		return nil, runtimeErrorf("read expects a variable argument, '%s' is not one", ref.Name)
	}
	kind, ok := runtime.KindForTypeName(v.TypeName())
	if !ok {
		return nil, runtimeErrorf("read: unsupported type %s", v.TypeName())
	}
	token, err := i.nextInputToken()
	if err != nil {
		return nil, err
	}
	val, err := parseInput(token, kind)
	if err != nil {
		return nil, err
	}
	if err := i.current().Assign(ref.Name, val); err != nil {
		return nil, runtimeErrorf("%s", err.Error())
	}
	return runtime.VoidValue{}, nil
}

func (i *Interpreter) nextInputToken() (string, error) {
	var b strings.Builder
	for {
		ch, _, err := i.stdin.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if b.Len() > 0 {
					return b.String(), nil
				}
				return "", runtimeErrorf("read: unexpected end of input")
			}
			return "", runtimeErrorf("read: %v", err)
		}
		if unicode.IsSpace(ch) {
			if b.Len() > 0 {
				return b.String(), nil
			}
			continue
		}
		b.WriteRune(ch)
	}
}

func parseInput(token string, kind runtime.Kind) (runtime.Value, error) {
	switch kind {
	case runtime.KindInt:
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return nil, runtimeErrorf("read: cannot parse %q as integer", token)
		}
		return runtime.IntValue{Val: n}, nil
	case runtime.KindBool:
		switch token {
		case "true":
			return runtime.BoolValue{Val: true}, nil
		case "false":
			return runtime.BoolValue{Val: false}, nil
		}
		return nil, runtimeErrorf("read: cannot parse %q as boolean", token)
	case runtime.KindFraction:
		f, err := fraction.Parse(token)
		if err != nil {
			return nil, runtimeErrorf("read: cannot parse %q as fraction", token)
		}
		return runtime.FractionValue{Val: f}, nil
	case runtime.KindString:
		return runtime.StringValue{Val: token}, nil
	default:
		return nil, runtimeErrorf("read: unsupported type %s", kind)
	}
}
