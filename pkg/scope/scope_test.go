package scope_test

import (
	"strings"
	"testing"

	"fractus/interpreter-go/pkg/scope"
)

func TestLookupWalksEnclosingChain(t *testing.T) {
	global := scope.New("global", 1, nil)
	global.InitializeBuiltins()
	proc := scope.New("p", 2, global)

	intType, ok := global.LookupLocal(scope.TypeInteger)
	if !ok {
		t.Fatalf("integer type missing from global scope")
	}
	proc.Insert(&scope.VariableDescriptor{VarName: "x", Type: intType.(*scope.BuiltinTypeDescriptor)})

	if _, ok := proc.Lookup("print"); !ok {
		t.Fatalf("Lookup(print) from procedure scope failed")
	}
	if _, ok := proc.LookupLocal("print"); ok {
		t.Fatalf("LookupLocal(print) found a global entry")
	}
	if _, ok := global.Lookup("x"); ok {
		t.Fatalf("global scope sees procedure local x")
	}
	if proc.Enclosing() != global || proc.Level() != 2 || proc.Name() != "p" {
		t.Fatalf("unexpected scope metadata: %s", proc)
	}
}

func TestInsertOverwrites(t *testing.T) {
	s := scope.New("global", 1, nil)
	s.Insert(&scope.VariableDescriptor{VarName: "x"})
	replacement := &scope.ProcedureDescriptor{ProcName: "x", ReturnType: "void"}
	if got := s.Insert(replacement); got != replacement {
		t.Fatalf("Insert returned %v, want the stored descriptor", got)
	}
	d, _ := s.LookupLocal("x")
	if d != replacement {
		t.Fatalf("LookupLocal(x) = %v, want replacement", d)
	}
}

func TestBuiltins(t *testing.T) {
	s := scope.New("global", 1, nil)
	s.InitializeBuiltins()

	d, ok := s.Lookup("read")
	if !ok {
		t.Fatalf("read not declared")
	}
	read := d.(*scope.ProcedureDescriptor)
	if len(read.Params) != 1 || read.Params[0].TypeName() != scope.TypeFraction || read.ReturnType != scope.TypeVoid {
		t.Fatalf("read = %s", read)
	}
	d, _ = s.Lookup("print")
	if got := d.String(); got != "<proc print(s: string) -> void>" {
		t.Fatalf("print = %q", got)
	}
	d, _ = s.Lookup("true")
	if v, ok := d.(*scope.VariableDescriptor); !ok || v.TypeName() != scope.TypeBoolean {
		t.Fatalf("true = %v, want boolean variable", d)
	}
	vars := s.Variables()
	if len(vars) != 2 || vars[0].VarName != "false" || vars[1].VarName != "true" {
		t.Fatalf("Variables() = %v, want [false true]", vars)
	}
}

func TestStringDump(t *testing.T) {
	global := scope.New("global", 1, nil)
	global.InitializeBuiltins()
	proc := scope.New("add", 2, global)
	proc.Insert(&scope.VariableDescriptor{VarName: "a", Type: &scope.BuiltinTypeDescriptor{TypeName: "integer"}})

	dump := proc.String()
	want := "scope add (level 2, enclosing: global)\n  a: <var a: integer>\n"
	if dump != want {
		t.Fatalf("String() = %q, want %q", dump, want)
	}
	if !strings.HasPrefix(global.String(), "scope global (level 1, enclosing: none)\n  boolean: <type boolean>\n") {
		t.Fatalf("global dump = %q", global.String())
	}
}
