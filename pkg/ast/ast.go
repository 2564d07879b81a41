package ast

import "fractus/interpreter-go/pkg/fraction"

type NodeType string

const (
	NodeIntegerLiteral       NodeType = "IntegerLiteral"
	NodeFractionLiteral      NodeType = "FractionLiteral"
	NodeBooleanLiteral       NodeType = "BooleanLiteral"
	NodeStringLiteral        NodeType = "StringLiteral"
	NodeBinaryExpression     NodeType = "BinaryExpression"
	NodeLogicalExpression    NodeType = "LogicalExpression"
	NodeUnaryExpression      NodeType = "UnaryExpression"
	NodeVariableReference    NodeType = "VariableReference"
	NodeProcedureCall        NodeType = "ProcedureCall"
	NodeAssignment           NodeType = "Assignment"
	NodeIfStatement          NodeType = "IfStatement"
	NodeWhileStatement       NodeType = "WhileStatement"
	NodeReturnStatement      NodeType = "ReturnStatement"
	NodeCompoundStatement    NodeType = "CompoundStatement"
	NodeTypeReference        NodeType = "TypeReference"
	NodeVariableDeclaration  NodeType = "VariableDeclaration"
	NodeParameter            NodeType = "Parameter"
	NodeProcedureDeclaration NodeType = "ProcedureDeclaration"
	NodeBlock                NodeType = "Block"
	NodeProgram              NodeType = "Program"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// Literals

type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type FractionLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value fraction.Fraction `json:"value"`
}

func NewFractionLiteral(value fraction.Fraction) *FractionLiteral {
	return &FractionLiteral{nodeImpl: newNodeImpl(NodeFractionLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

// Operators

type UnaryOperator string

const (
	UnaryOperatorNegate UnaryOperator = "-"
	UnaryOperatorNot    UnaryOperator = "!"
)

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func NewUnaryExpression(operator UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

// BinaryExpression covers arithmetic (+ - * /) and comparison
// (== != < <= > >=) operators.
type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

// LogicalExpression is "or" / "and". Both short-circuit and yield the operand
// that decided the result.
type LogicalExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewLogicalExpression(operator string, left, right Expression) *LogicalExpression {
	return &LogicalExpression{nodeImpl: newNodeImpl(NodeLogicalExpression), Operator: operator, Left: left, Right: right}
}

// References and calls

type VariableReference struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewVariableReference(name string) *VariableReference {
	return &VariableReference{nodeImpl: newNodeImpl(NodeVariableReference), Name: name}
}

// ProcedureCall appears both inside expressions and as a statement.
type ProcedureCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Callee    string       `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewProcedureCall(callee string, args []Expression) *ProcedureCall {
	return &ProcedureCall{nodeImpl: newNodeImpl(NodeProcedureCall), Callee: callee, Arguments: args}
}

// Statements

type Assignment struct {
	nodeImpl
	statementMarker

	Target string     `json:"target"`
	Value  Expression `json:"value"`
}

func NewAssignment(target string, value Expression) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Target: target, Value: value}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      Statement  `json:"then,omitempty"`
	Else      Statement  `json:"else,omitempty"`
}

// NewIfStatement builds an if node. Either branch may be nil when it was the
// empty statement.
func NewIfStatement(cond Expression, then, els Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: cond, Then: then, Else: els}
}

type WhileStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      Statement  `json:"body,omitempty"`
}

func NewWhileStatement(cond Expression, body Statement) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Condition: cond, Body: body}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument"`
}

func NewReturnStatement(argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}

type CompoundStatement struct {
	nodeImpl
	statementMarker

	Statements []Statement `json:"statements"`
}

func NewCompoundStatement(stmts []Statement) *CompoundStatement {
	return &CompoundStatement{nodeImpl: newNodeImpl(NodeCompoundStatement), Statements: stmts}
}
