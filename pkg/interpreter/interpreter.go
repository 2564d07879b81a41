// Package interpreter executes an analyzed FraCtuS program by walking its AST.
package interpreter

import (
	"bufio"
	"io"
	"os"

	"fractus/interpreter-go/pkg/ast"
	"fractus/interpreter-go/pkg/runtime"
	"fractus/interpreter-go/pkg/scope"
	"fractus/interpreter-go/pkg/semantic"
)

// Interpreter drives evaluation of a FraCtuS program.
type Interpreter struct {
	program    *ast.Program
	protos     semantic.Prototypes
	procedures map[string]*ast.ProcedureDeclaration
	global     *runtime.Frame
	frames     []*runtime.Frame
	stdout     io.Writer
	stdin      *bufio.Reader
}

type Option func(*Interpreter)

// WithStdout redirects print output.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) { i.stdout = w }
}

// WithStdin sets the source read() consumes tokens from.
func WithStdin(r io.Reader) Option {
	return func(i *Interpreter) { i.stdin = bufio.NewReader(r) }
}

// New prepares an interpreter for program using the scopes produced by
// semantic analysis.
func New(program *ast.Program, protos semantic.Prototypes, opts ...Option) *Interpreter {
	i := &Interpreter{
		program:    program,
		protos:     protos,
		procedures: make(map[string]*ast.ProcedureDeclaration),
		stdout:     os.Stdout,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.stdin == nil {
		i.stdin = bufio.NewReader(os.Stdin)
	}
	if program != nil {
		for _, proc := range program.Block.AllProcedures() {
			i.procedures[proc.Name] = proc
		}
	}
	return i
}

// Global returns the global frame once Run has started, nil before.
func (i *Interpreter) Global() *runtime.Frame {
	return i.global
}

// Run executes the main compound statement of the program.
func (i *Interpreter) Run() error {
	if i.program == nil || i.program.Block == nil {
		return runtimeErrorf("no program to run")
	}
	globalScope := i.protos.Global()
	if globalScope == nil {
		return runtimeErrorf("cannot find declared procedure: %s", semantic.GlobalScopeName)
	}
	i.global = runtime.NewFrame(globalScope, nil)
	i.frames = []*runtime.Frame{i.global}
	_, err := i.evaluateStatement(i.program.Block.Body)
	return err
}

func (i *Interpreter) current() *runtime.Frame {
	return i.frames[len(i.frames)-1]
}

func (i *Interpreter) pushFrame(name string) (*runtime.Frame, error) {
	sc, ok := i.protos[name]
	if !ok {
		return nil, runtimeErrorf("cannot find declared procedure: %s", name)
	}
	frame := runtime.NewFrame(sc, i.global)
	i.frames = append(i.frames, frame)
	return frame, nil
}

func (i *Interpreter) popFrame() {
	i.frames = i.frames[:len(i.frames)-1]
}

// lookupDescriptor resolves name through the static scope of the current
// frame.
func (i *Interpreter) lookupDescriptor(name string) (scope.Descriptor, bool) {
	sc := i.current().Scope()
	if sc == nil {
		return nil, false
	}
	return sc.Lookup(name)
}
