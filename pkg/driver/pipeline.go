package driver

import (
	"errors"
	"fmt"
	"io"
	"os"

	"fractus/interpreter-go/pkg/ast"
	"fractus/interpreter-go/pkg/interpreter"
	"fractus/interpreter-go/pkg/lexer"
	"fractus/interpreter-go/pkg/parser"
	"fractus/interpreter-go/pkg/semantic"
	"fractus/interpreter-go/pkg/source"
)

// SourceExt is the file extension of FraCtuS programs.
const SourceExt = ".fs"

// Program is a parsed and analyzed source file ready to run.
type Program struct {
	Path       string
	AST        *ast.Program
	Prototypes semantic.Prototypes
}

// Load parses the program at path without analyzing it.
func Load(path string) (*ast.Program, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("driver: open %s: %w", path, err)
	}
	defer file.Close()
	return parser.ParseSource(path, file)
}

// Check parses and analyzes the program at path.
func Check(path string, opts ...semantic.Option) (*Program, error) {
	prog, err := Load(path)
	if err != nil {
		return nil, err
	}
	protos, err := semantic.Analyze(prog, opts...)
	if err != nil {
		return nil, err
	}
	return &Program{Path: path, AST: prog, Prototypes: protos}, nil
}

// CheckSource is Check for an in-memory program.
func CheckSource(name string, src io.Reader, opts ...semantic.Option) (*Program, error) {
	prog, err := parser.ParseSource(name, src)
	if err != nil {
		return nil, err
	}
	protos, err := semantic.Analyze(prog, opts...)
	if err != nil {
		return nil, err
	}
	return &Program{Path: name, AST: prog, Prototypes: protos}, nil
}

// Run executes prog. The returned interpreter exposes the final global frame
// even when execution failed.
func Run(prog *Program, stdout io.Writer, stdin io.Reader) (*interpreter.Interpreter, error) {
	interp := interpreter.New(prog.AST, prog.Prototypes,
		interpreter.WithStdout(stdout),
		interpreter.WithStdin(stdin),
	)
	return interp, interp.Run()
}

// Tokens lexes the file at path and returns every token up to and including
// EOF, or the tokens read before the first lexical error.
func Tokens(path string) ([]lexer.Token, error) {
	r, closer, err := source.Open(path)
	if err != nil {
		return nil, fmt.Errorf("driver: open %s: %w", path, err)
	}
	defer closer.Close()
	return lexer.New(r).All()
}

// IsLanguageError reports whether err is a lexical, syntax, semantic or
// runtime error in the program itself, as opposed to an I/O or
// configuration failure.
func IsLanguageError(err error) bool {
	return errors.Is(err, lexer.ErrLex) ||
		errors.Is(err, parser.ErrSyntax) ||
		errors.Is(err, semantic.ErrSemantic) ||
		errors.Is(err, interpreter.ErrRuntime)
}

// FormatDiagnostic renders err for the terminal, prefixed with the file it
// came from when known.
func FormatDiagnostic(path string, err error) string {
	if err == nil {
		return ""
	}
	if path == "" || !IsLanguageError(err) {
		return err.Error()
	}
	return fmt.Sprintf("%s: %s", path, err)
}
