package parser_test

import (
	"errors"
	"strings"
	"testing"

	"fractus/interpreter-go/pkg/ast"
	"fractus/interpreter-go/pkg/fraction"
	"fractus/interpreter-go/pkg/lexer"
	"fractus/interpreter-go/pkg/parser"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}
	return prog
}

func expectSyntaxError(t *testing.T, src string, fragment string) *parser.SyntaxError {
	t.Helper()
	_, err := parser.ParseString(src)
	if err == nil {
		t.Fatalf("ParseString(%q) succeeded, want syntax error", src)
	}
	var synErr *parser.SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("error = %T (%v), want *SyntaxError", err, err)
	}
	if !errors.Is(err, parser.ErrSyntax) {
		t.Fatalf("errors.Is(%v, ErrSyntax) = false", err)
	}
	if !strings.Contains(synErr.Message, fragment) {
		t.Fatalf("message = %q, want it to contain %q", synErr.Message, fragment)
	}
	return synErr
}

func mainStatements(t *testing.T, body string) []ast.Statement {
	t.Helper()
	prog := mustParse(t, "program p; var a, b: integer; s: string; begin "+body+" end.")
	return prog.Block.Body.Statements
}

func TestParseMinimalProgram(t *testing.T) {
	prog := mustParse(t, "program empty; begin end.")
	if prog.Name != "empty" {
		t.Fatalf("Name = %q, want %q", prog.Name, "empty")
	}
	if len(prog.Block.Variables) != 0 || len(prog.Block.Procedures) != 0 {
		t.Fatalf("unexpected declarations: %#v", prog.Block)
	}
	if len(prog.Block.Body.Statements) != 0 {
		t.Fatalf("Statements = %d, want 0", len(prog.Block.Body.Statements))
	}
}

func TestVariableGroupsShareInternedType(t *testing.T) {
	prog := mustParse(t, "program p; var a, b, c: integer; d: fraction; e: integer; begin end.")
	vars := prog.Block.Variables
	if len(vars) != 5 {
		t.Fatalf("len(Variables) = %d, want 5", len(vars))
	}
	if vars[0].Type != vars[1].Type || vars[1].Type != vars[2].Type {
		t.Fatalf("a, b, c do not share one type node")
	}
	if vars[0].Type != vars[4].Type {
		t.Fatalf("separate integer declarations do not share one type node")
	}
	if vars[3].Type.Name != "fraction" {
		t.Fatalf("d type = %q, want fraction", vars[3].Type.Name)
	}
}

func TestRepeatedVarSections(t *testing.T) {
	prog := mustParse(t, "program p; var a: integer; var b: string; c: integer; begin end.")
	vars := prog.Block.Variables
	if len(vars) != 3 {
		t.Fatalf("len(Variables) = %d, want 3", len(vars))
	}
	if vars[1].Name != "b" || vars[1].Type.Name != "string" {
		t.Fatalf("second section = %s: %s, want b: string", vars[1].Name, vars[1].Type.Name)
	}
	if vars[0].Type != vars[2].Type {
		t.Fatalf("integer declarations in separate sections do not share one type node")
	}
}

func TestProcedureDeclarations(t *testing.T) {
	src := `program p;
var x: integer;
integer add(integer a, integer b);
begin
  return a + b
end;
void hello();
  var msg: string;
  begin
    msg = "hi";
    print(msg)
  end;
begin
  x = add(3, 4)
end.`
	prog := mustParse(t, src)
	procs := prog.Block.Procedures
	if len(procs) != 2 {
		t.Fatalf("len(Procedures) = %d, want 2", len(procs))
	}
	add := procs[0]
	if add.Name != "add" || add.ReturnType.Name != "integer" || len(add.Params) != 2 {
		t.Fatalf("add = %#v", add)
	}
	if add.Params[0].Type != prog.Block.Variables[0].Type {
		t.Fatalf("parameter type is not interned with variable type")
	}
	hello := procs[1]
	if hello.ReturnType.Name != "void" || len(hello.Params) != 0 || len(hello.Body.Variables) != 1 {
		t.Fatalf("hello = %#v", hello)
	}
	assign, ok := prog.Block.Body.Statements[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("statement = %T, want *ast.Assignment", prog.Block.Body.Statements[0])
	}
	call, ok := assign.Value.(*ast.ProcedureCall)
	if !ok || call.Callee != "add" || len(call.Arguments) != 2 {
		t.Fatalf("assignment value = %#v, want call to add", assign.Value)
	}
}

func TestNestedProceduresAreCollected(t *testing.T) {
	src := `program p;
void outer();
  void inner(); begin end;
  begin inner() end;
begin outer() end.`
	prog := mustParse(t, src)
	all := prog.Block.AllProcedures()
	if len(all) != 2 || all[0].Name != "outer" || all[1].Name != "inner" {
		t.Fatalf("AllProcedures = %v, want [outer inner]", all)
	}
}

func TestEmptyStatementsProduceNoNodes(t *testing.T) {
	stmts := mainStatements(t, "; a = 1;; b = 2;")
	if len(stmts) != 2 {
		t.Fatalf("len(Statements) = %d, want 2", len(stmts))
	}
}

func TestIfElseAndWhile(t *testing.T) {
	stmts := mainStatements(t, "if a < b then a = b else b = a; while a > 0 do a = a - 1")
	ifStmt, ok := stmts[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *ast.IfStatement", stmts[0])
	}
	if ifStmt.Else == nil {
		t.Fatalf("if statement lost its else branch")
	}
	cond, ok := ifStmt.Condition.(*ast.BinaryExpression)
	if !ok || cond.Operator != "<" {
		t.Fatalf("condition = %#v, want < comparison", ifStmt.Condition)
	}
	loop, ok := stmts[1].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("stmt 1 = %T, want *ast.WhileStatement", stmts[1])
	}
	if _, ok := loop.Body.(*ast.Assignment); !ok {
		t.Fatalf("while body = %T, want *ast.Assignment", loop.Body)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	stmts := mainStatements(t, "a = 1 + 2 * 3")
	sum, ok := stmts[0].(*ast.Assignment).Value.(*ast.BinaryExpression)
	if !ok || sum.Operator != "+" {
		t.Fatalf("value = %#v, want + at the root", stmts[0].(*ast.Assignment).Value)
	}
	product, ok := sum.Right.(*ast.BinaryExpression)
	if !ok || product.Operator != "*" {
		t.Fatalf("right = %#v, want * product", sum.Right)
	}
}

func TestLeadingSignWrapsFirstTerm(t *testing.T) {
	stmts := mainStatements(t, "a = -2 * b + 1")
	sum := stmts[0].(*ast.Assignment).Value.(*ast.BinaryExpression)
	neg, ok := sum.Left.(*ast.UnaryExpression)
	if !ok || neg.Operator != ast.UnaryOperatorNegate {
		t.Fatalf("left = %#v, want unary minus", sum.Left)
	}
	if _, ok := neg.Operand.(*ast.BinaryExpression); !ok {
		t.Fatalf("negated operand = %T, want the whole first term", neg.Operand)
	}

	stmts = mainStatements(t, "a = +5")
	if lit, ok := stmts[0].(*ast.Assignment).Value.(*ast.IntegerLiteral); !ok || lit.Value != 5 {
		t.Fatalf("value = %#v, want plain literal 5", stmts[0].(*ast.Assignment).Value)
	}
}

func TestLogicalAndBooleanLiterals(t *testing.T) {
	stmts := mainStatements(t, "if true or a then a = 1; if !(a < b) and false then a = 2")
	first := stmts[0].(*ast.IfStatement)
	logical, ok := first.Condition.(*ast.LogicalExpression)
	if !ok || logical.Operator != "or" {
		t.Fatalf("condition = %#v, want or", first.Condition)
	}
	if lit, ok := logical.Left.(*ast.BooleanLiteral); !ok || !lit.Value {
		t.Fatalf("left = %#v, want true literal", logical.Left)
	}
	// Only one relational operator is allowed, so `a == b` parses as a bare
	// reference to a followed by an unexpected token.
	if _, err := parser.ParseString("program p; var a, b: integer; begin if true or a == b then a = 1 end."); err == nil {
		t.Fatalf("chained relational operators parsed")
	}

	second := stmts[1].(*ast.IfStatement)
	and, ok := second.Condition.(*ast.LogicalExpression)
	if !ok || and.Operator != "and" {
		t.Fatalf("condition = %#v, want and", second.Condition)
	}
	if not, ok := and.Left.(*ast.UnaryExpression); !ok || not.Operator != ast.UnaryOperatorNot {
		t.Fatalf("left = %#v, want ! expression", and.Left)
	}
	if ref, ok := and.Right.(*ast.BooleanLiteral); !ok || ref.Value {
		t.Fatalf("right = %#v, want false literal", and.Right)
	}
}

func TestBooleanLiteralOnlyStartsSimpleExpression(t *testing.T) {
	stmts := mainStatements(t, "a = (true)")
	ref, ok := stmts[0].(*ast.Assignment).Value.(*ast.BooleanLiteral)
	if !ok || !ref.Value {
		t.Fatalf("value = %#v", stmts[0].(*ast.Assignment).Value)
	}
	stmts = mainStatements(t, "a = 1 + true")
	sum := stmts[0].(*ast.Assignment).Value.(*ast.BinaryExpression)
	if v, ok := sum.Right.(*ast.VariableReference); !ok || v.Name != "true" {
		t.Fatalf("right = %#v, want reference to true", sum.Right)
	}
}

func TestLiterals(t *testing.T) {
	stmts := mainStatements(t, `s = "text"; a = 1.2_3; b = 4_5`)
	if lit := stmts[0].(*ast.Assignment).Value.(*ast.StringLiteral); lit.Value != "text" {
		t.Fatalf("string literal = %q", lit.Value)
	}
	if lit := stmts[1].(*ast.Assignment).Value.(*ast.FractionLiteral); lit.Value != fraction.New(1, 2, 3) {
		t.Fatalf("fraction literal = %v", lit.Value)
	}
	if lit := stmts[2].(*ast.Assignment).Value.(*ast.FractionLiteral); lit.Value != fraction.New(0, 4, 5) {
		t.Fatalf("fraction literal = %v", lit.Value)
	}
}

func TestCallStatementWithoutArguments(t *testing.T) {
	stmts := mainStatements(t, "go()")
	call, ok := stmts[0].(*ast.ProcedureCall)
	if !ok || call.Callee != "go" || len(call.Arguments) != 0 {
		t.Fatalf("statement = %#v, want go()", stmts[0])
	}
}

func TestSyntaxErrors(t *testing.T) {
	expectSyntaxError(t, "begin end.", "'program'")
	expectSyntaxError(t, "program p begin end.", "';'")
	expectSyntaxError(t, "program p; begin end", "'.'")
	expectSyntaxError(t, "program p; var : integer; begin end.", "identifier")
	expectSyntaxError(t, "program p; var a: void; begin end.", "type name")
	expectSyntaxError(t, "program p; begin a + 1 end.", "'=' or '('")
	expectSyntaxError(t, "program p; begin a = end.", "expression")
	expectSyntaxError(t, "program p; begin if a then b = 1 else c = 2 d = 3 end.", "'end'")
	synErr := expectSyntaxError(t, "program p;\nbegin\n  x = (1 + 2\nend.", "')'")
	if synErr.Line != 4 {
		t.Fatalf("Line = %d, want 4", synErr.Line)
	}
	if synErr.Token.Kind != lexer.End {
		t.Fatalf("Token = %v, want END", synErr.Token)
	}
}

func TestLexicalErrorsPassThrough(t *testing.T) {
	_, err := parser.ParseString(`program p; begin s = "bad"" end.`)
	if !errors.Is(err, lexer.ErrLex) {
		t.Fatalf("error = %v, want lexical error", err)
	}
	if errors.Is(err, parser.ErrSyntax) {
		t.Fatalf("lexical error was reported as a syntax error")
	}
}

func TestIsIncomplete(t *testing.T) {
	_, err := parser.ParseString("program p; begin x = 1")
	if !parser.IsIncomplete(err) {
		t.Fatalf("IsIncomplete(%v) = false, want true", err)
	}
	_, err = parser.ParseString("program p; begin x = = 1 end.")
	if parser.IsIncomplete(err) {
		t.Fatalf("IsIncomplete(%v) = true, want false", err)
	}
	if parser.IsIncomplete(nil) {
		t.Fatalf("IsIncomplete(nil) = true")
	}
}

func TestSyntaxErrorFormatting(t *testing.T) {
	_, err := parser.ParseString("program p;\nbegin x = 1 ) end.")
	if err == nil {
		t.Fatalf("expected error")
	}
	want := "syntax error in line 2: expected 'end' (got PARENCLOSE)"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
