// Package semantic resolves names against static scopes and produces the
// per-procedure scope table the interpreter builds frames from.
package semantic

import (
	"fmt"
	"io"

	"fractus/interpreter-go/pkg/ast"
	"fractus/interpreter-go/pkg/scope"
)

// GlobalScopeName keys the program-level scope in Prototypes.
const GlobalScopeName = "global"

// Prototypes maps each procedure name, plus GlobalScopeName, to the scope
// built for it.
type Prototypes map[string]*scope.Scope

// Global returns the program-level scope.
func (p Prototypes) Global() *scope.Scope { return p[GlobalScopeName] }

type Option func(*Analyzer)

// WithTrace writes ENTER/LEAVE lines and a dump of every finished scope to w.
func WithTrace(w io.Writer) Option {
	return func(a *Analyzer) { a.trace = w }
}

// Analyzer walks a program once. Use Analyze rather than constructing one.
type Analyzer struct {
	current *scope.Scope
	protos  Prototypes
	trace   io.Writer
}

// Analyze checks program and returns the scope table. It stops at the first
// error.
func Analyze(program *ast.Program, opts ...Option) (Prototypes, error) {
	a := &Analyzer{protos: make(Prototypes)}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.visitProgram(program); err != nil {
		return nil, err
	}
	return a.protos, nil
}

func (a *Analyzer) tracef(format string, args ...any) {
	if a.trace != nil {
		fmt.Fprintf(a.trace, format, args...)
	}
}

func (a *Analyzer) visitProgram(program *ast.Program) error {
	if program == nil || program.Block == nil {
		return errorf("empty program")
	}
	a.tracef("ENTER scope: %s\n", GlobalScopeName)
	global := scope.New(GlobalScopeName, 1, nil)
	global.InitializeBuiltins()
	a.protos[GlobalScopeName] = global
	a.current = global

	if err := a.visitBlock(program.Block); err != nil {
		return err
	}
	a.tracef("%s", global)
	a.current = nil
	a.tracef("LEAVE scope: %s\n", GlobalScopeName)
	return nil
}

func (a *Analyzer) visitBlock(block *ast.Block) error {
	for _, decl := range block.Variables {
		if _, err := a.declareVariable(decl.Name, decl.Type); err != nil {
			return err
		}
	}
	for _, proc := range block.Procedures {
		if err := a.visitProcedure(proc); err != nil {
			return err
		}
	}
	return a.visitStatement(block.Body)
}

func (a *Analyzer) resolveType(ref *ast.TypeReference) (*scope.BuiltinTypeDescriptor, error) {
	if ref == nil {
		return nil, errorf("missing type")
	}
	d, ok := a.current.Lookup(ref.Name)
	if !ok {
		return nil, errorf("unknown type '%s'", ref.Name)
	}
	typ, ok := d.(*scope.BuiltinTypeDescriptor)
	if !ok {
		return nil, errorf("'%s' is not a type", ref.Name)
	}
	return typ, nil
}

func (a *Analyzer) declareVariable(name string, ref *ast.TypeReference) (*scope.VariableDescriptor, error) {
	typ, err := a.resolveType(ref)
	if err != nil {
		return nil, err
	}
	if _, exists := a.current.LookupLocal(name); exists {
		return nil, errorf("duplicate identifier '%s' found", name)
	}
	desc := &scope.VariableDescriptor{VarName: name, Type: typ}
	a.current.Insert(desc)
	return desc, nil
}

func (a *Analyzer) visitProcedure(proc *ast.ProcedureDeclaration) error {
	name := proc.Name
	if _, exists := a.protos[name]; exists {
		return errorf("duplicate procedure '%s' found", name)
	}
	if _, exists := a.current.LookupLocal(name); exists {
		return errorf("duplicate identifier '%s' found", name)
	}
	ret := scope.TypeVoid
	if proc.ReturnType != nil {
		ret = proc.ReturnType.Name
	}
	desc := &scope.ProcedureDescriptor{ProcName: name, ReturnType: ret}
	a.current.Insert(desc)

	a.tracef("ENTER scope: %s\n", name)
	procScope := scope.New(name, a.current.Level()+1, a.current)
	a.protos[name] = procScope
	a.current = procScope
	for _, param := range proc.Params {
		v, err := a.declareVariable(param.Name, param.Type)
		if err != nil {
			return err
		}
		desc.Params = append(desc.Params, v)
	}
	if err := a.visitBlock(proc.Body); err != nil {
		return err
	}
	a.tracef("%s", procScope)
	a.current = procScope.Enclosing()
	a.tracef("LEAVE scope: %s\n", name)
	return nil
}

func (a *Analyzer) visitStatement(stmt ast.Statement) error {
	switch n := stmt.(type) {
	case nil:
		return nil
	case *ast.CompoundStatement:
		if n == nil {
			return nil
		}
		for _, child := range n.Statements {
			if err := a.visitStatement(child); err != nil {
				return err
			}
		}
		return nil
	case *ast.Assignment:
		if _, ok := a.current.Lookup(n.Target); !ok {
			return errorf("symbol(identifier) not found '%s'", n.Target)
		}
		return a.visitExpression(n.Value)
	case *ast.IfStatement:
		if err := a.visitExpression(n.Condition); err != nil {
			return err
		}
		if err := a.visitStatement(n.Then); err != nil {
			return err
		}
		return a.visitStatement(n.Else)
	case *ast.WhileStatement:
		if err := a.visitExpression(n.Condition); err != nil {
			return err
		}
		return a.visitStatement(n.Body)
	case *ast.ReturnStatement:
		return a.visitExpression(n.Argument)
	case *ast.ProcedureCall:
		return a.visitCall(n)
	default:
		return errorf("unsupported statement %T", stmt)
	}
}

func (a *Analyzer) visitExpression(expr ast.Expression) error {
	switch n := expr.(type) {
	case *ast.IntegerLiteral, *ast.FractionLiteral, *ast.BooleanLiteral, *ast.StringLiteral:
		return nil
	case *ast.VariableReference:
		d, ok := a.current.Lookup(n.Name)
		if !ok {
			return errorf("symbol(identifier) not found '%s'", n.Name)
		}
		if _, isVar := d.(*scope.VariableDescriptor); !isVar {
			return errorf("'%s' is not a variable", n.Name)
		}
		return nil
	case *ast.BinaryExpression:
		if err := a.visitExpression(n.Left); err != nil {
			return err
		}
		return a.visitExpression(n.Right)
	case *ast.LogicalExpression:
		if err := a.visitExpression(n.Left); err != nil {
			return err
		}
		return a.visitExpression(n.Right)
	case *ast.UnaryExpression:
		return a.visitExpression(n.Operand)
	case *ast.ProcedureCall:
		return a.visitCall(n)
	case nil:
		return errorf("missing expression")
	default:
		return errorf("unsupported expression %T", expr)
	}
}

func (a *Analyzer) visitCall(call *ast.ProcedureCall) error {
	d, ok := a.current.Lookup(call.Callee)
	if !ok {
		return errorf("symbol(identifier) not found '%s'", call.Callee)
	}
	proc, ok := d.(*scope.ProcedureDescriptor)
	if !ok {
		return errorf("'%s' is not a procedure", call.Callee)
	}
	if len(proc.Params) != len(call.Arguments) {
		return errorf("wrong number of arguments for procedure '%s', expected: %d, but got: %d",
			call.Callee, len(proc.Params), len(call.Arguments))
	}
	for _, arg := range call.Arguments {
		if err := a.visitExpression(arg); err != nil {
			return err
		}
	}
	return nil
}
