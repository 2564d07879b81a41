package driver

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fractus/interpreter-go/pkg/lexer"
	"fractus/interpreter-go/pkg/parser"
	"fractus/interpreter-go/pkg/runtime"
	"fractus/interpreter-go/pkg/semantic"
)

const addProgram = `program sum;
var r: integer;
integer add(integer a, integer b);
begin
  return a + b
end;
begin
  r = add(3, 4);
  print("done")
end.
`

func TestCheckAndRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sum.fs")
	writeFile(t, path, addProgram)

	prog, err := Check(path)
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if prog.AST.Name != "sum" {
		t.Fatalf("program name = %q, want sum", prog.AST.Name)
	}
	if prog.Prototypes["add"] == nil {
		t.Fatalf("prototypes missing add: %v", prog.Prototypes)
	}

	var out bytes.Buffer
	interp, err := Run(prog, &out, strings.NewReader(""))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if out.String() != "done\n" {
		t.Fatalf("stdout = %q, want %q", out.String(), "done\n")
	}
	r, err := interp.Global().Get("r")
	if err != nil {
		t.Fatalf("Get(r): %v", err)
	}
	if got := runtime.Format(r); got != "7" {
		t.Fatalf("r = %s, want 7", got)
	}
}

func TestCheckSourceSemanticError(t *testing.T) {
	_, err := CheckSource("dup", strings.NewReader(`program p;
var x: integer;
var x: string;
begin end.`))
	if !errors.Is(err, semantic.ErrSemantic) {
		t.Fatalf("error = %v, want semantic error", err)
	}
	if !IsLanguageError(err) {
		t.Fatalf("IsLanguageError(%v) = false", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.fs"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("error = %v, want os.ErrNotExist", err)
	}
	if IsLanguageError(err) {
		t.Fatalf("IsLanguageError(%v) = true for I/O failure", err)
	}
}

func TestTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.fs")
	writeFile(t, path, "program p; begin end.")
	toks, err := Tokens(path)
	if err != nil {
		t.Fatalf("Tokens returned error: %v", err)
	}
	want := []lexer.Kind{lexer.Program, lexer.Identifier, lexer.Semicolon, lexer.Begin, lexer.End, lexer.Period, lexer.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestFormatDiagnostic(t *testing.T) {
	_, err := CheckSource("bad.fs", strings.NewReader("program p;\nbegin\n  x = \nend."))
	if !errors.Is(err, parser.ErrSyntax) {
		t.Fatalf("error = %v, want syntax error", err)
	}
	got := FormatDiagnostic("bad.fs", err)
	if !strings.HasPrefix(got, "bad.fs: syntax error in line 4:") {
		t.Fatalf("FormatDiagnostic = %q", got)
	}

	plain := errors.New("driver: open x: boom")
	if got := FormatDiagnostic("x", plain); got != plain.Error() {
		t.Fatalf("FormatDiagnostic(plain) = %q, want %q", got, plain.Error())
	}
	if got := FormatDiagnostic("x", nil); got != "" {
		t.Fatalf("FormatDiagnostic(nil) = %q, want empty", got)
	}
}
