package ast

import "fractus/interpreter-go/pkg/fraction"

// Literal helpers.

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Frac(whole, num, den int64) *FractionLiteral {
	return NewFractionLiteral(fraction.New(whole, num, den))
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

// Expression helpers.

func Var(name string) *VariableReference {
	return NewVariableReference(name)
}

func Call(callee string, args ...Expression) *ProcedureCall {
	return NewProcedureCall(callee, args)
}

func Bin(op string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Or(left, right Expression) *LogicalExpression {
	return NewLogicalExpression("or", left, right)
}

func And(left, right Expression) *LogicalExpression {
	return NewLogicalExpression("and", left, right)
}

func Neg(operand Expression) *UnaryExpression {
	return NewUnaryExpression(UnaryOperatorNegate, operand)
}

func Not(operand Expression) *UnaryExpression {
	return NewUnaryExpression(UnaryOperatorNot, operand)
}

// Statement helpers.

func Assign(target string, value Expression) *Assignment {
	return NewAssignment(target, value)
}

func If(cond Expression, then Statement, els Statement) *IfStatement {
	return NewIfStatement(cond, then, els)
}

func While(cond Expression, body Statement) *WhileStatement {
	return NewWhileStatement(cond, body)
}

func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(value)
}

func Begin(stmts ...Statement) *CompoundStatement {
	return NewCompoundStatement(stmts)
}

// Declaration helpers. Type names are not interned here; tests that care
// about sharing build through a TypeTable.

func Ty(name string) *TypeReference {
	return NewTypeReference(name)
}

func VarDecl(name, typ string) *VariableDeclaration {
	return NewVariableDeclaration(name, Ty(typ))
}

func Param(name, typ string) *Parameter {
	return NewParameter(name, Ty(typ))
}

func Proc(name, returnType string, params []*Parameter, body *Block) *ProcedureDeclaration {
	return NewProcedureDeclaration(name, Ty(returnType), params, body)
}

func Blk(vars []*VariableDeclaration, procs []*ProcedureDeclaration, body *CompoundStatement) *Block {
	return NewBlock(vars, procs, body)
}

func Prog(name string, block *Block) *Program {
	return NewProgram(name, block)
}
