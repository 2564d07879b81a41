package interpreter

import (
	"fractus/interpreter-go/pkg/ast"
	"fractus/interpreter-go/pkg/fraction"
	"fractus/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return runtime.IntValue{Val: n.Value}, nil
	case *ast.FractionLiteral:
		return runtime.FractionValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.VariableReference:
		val, err := i.current().Get(n.Name)
		if err != nil {
			return nil, runtimeErrorf("%s", err.Error())
		}
		return val, nil
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n)
	case *ast.LogicalExpression:
		return i.evaluateLogicalExpression(n)
	case *ast.ProcedureCall:
		return i.evaluateCall(n)
	case nil:
		return nil, runtimeErrorf("missing expression")
	default:
		return nil, runtimeErrorf("unsupported expression %T", node)
	}
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case ast.UnaryOperatorNegate:
		switch v := operand.(type) {
		case runtime.IntValue:
			return runtime.IntValue{Val: -v.Val}, nil
		case runtime.FractionValue:
			return runtime.FractionValue{Val: v.Val.Neg()}, nil
		default:
			return nil, runtimeErrorf("operand must be a number, got %s", operand.Kind())
		}
	case ast.UnaryOperatorNot:
		return runtime.BoolValue{Val: !runtime.Truthy(operand)}, nil
	default:
		return nil, runtimeErrorf("unsupported unary operator %s", expr.Operator)
	}
}

// evaluateLogicalExpression short-circuits and yields the deciding operand
// unchanged.
func (i *Interpreter) evaluateLogicalExpression(expr *ast.LogicalExpression) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case "or":
		if runtime.Truthy(left) {
			return left, nil
		}
	case "and":
		if !runtime.Truthy(left) {
			return left, nil
		}
	default:
		return nil, runtimeErrorf("unsupported logical operator %s", expr.Operator)
	}
	return i.evaluateExpression(expr.Right)
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right)
	if err != nil {
		return nil, err
	}
	if left.Kind() != right.Kind() {
		return nil, runtimeErrorf("type mismatch: %s %s %s", left.Kind(), expr.Operator, right.Kind())
	}
	switch expr.Operator {
	case "+":
		if ls, ok := left.(runtime.StringValue); ok {
			return runtime.StringValue{Val: ls.Val + right.(runtime.StringValue).Val}, nil
		}
		if !isNumericValue(left) {
			return nil, runtimeErrorf("operands must be two numbers, fractions or strings, got %s", left.Kind())
		}
		return applyArithmetic(expr.Operator, left, right)
	case "-", "*", "/":
		if !isNumericValue(left) {
			return nil, runtimeErrorf("operands must be numbers, got %s", left.Kind())
		}
		return applyArithmetic(expr.Operator, left, right)
	case "==", "!=":
		if left.Kind() == runtime.KindVoid {
			return nil, runtimeErrorf("cannot compare void values")
		}
		eq := valuesEqual(left, right)
		if expr.Operator == "!=" {
			eq = !eq
		}
		return runtime.BoolValue{Val: eq}, nil
	case "<", "<=", ">", ">=":
		if !isNumericValue(left) {
			return nil, runtimeErrorf("operands must be numbers, got %s", left.Kind())
		}
		return runtime.BoolValue{Val: comparisonOp(expr.Operator, compareNumbers(left, right))}, nil
	default:
		return nil, runtimeErrorf("unsupported binary operator %s", expr.Operator)
	}
}

func isNumericValue(val runtime.Value) bool {
	switch val.(type) {
	case runtime.IntValue, runtime.FractionValue:
		return true
	default:
		return false
	}
}

// applyArithmetic expects two operands of the same numeric kind.
func applyArithmetic(op string, left, right runtime.Value) (runtime.Value, error) {
	if l, ok := left.(runtime.IntValue); ok {
		r := right.(runtime.IntValue)
		switch op {
		case "+":
			return runtime.IntValue{Val: l.Val + r.Val}, nil
		case "-":
			return runtime.IntValue{Val: l.Val - r.Val}, nil
		case "*":
			return runtime.IntValue{Val: l.Val * r.Val}, nil
		case "/":
			if r.Val == 0 {
				return nil, runtimeErrorf("division by zero")
			}
			return runtime.IntValue{Val: l.Val / r.Val}, nil
		}
	}
	l := left.(runtime.FractionValue).Val
	r := right.(runtime.FractionValue).Val
	switch op {
	case "+":
		return runtime.FractionValue{Val: fraction.Add(l, r)}, nil
	case "-":
		return runtime.FractionValue{Val: fraction.Sub(l, r)}, nil
	case "*":
		return runtime.FractionValue{Val: fraction.Mul(l, r)}, nil
	case "/":
		if r.IsZero() {
			return nil, runtimeErrorf("division by zero")
		}
		return runtime.FractionValue{Val: fraction.Div(l, r)}, nil
	}
	return nil, runtimeErrorf("unsupported arithmetic operator %s", op)
}

func compareNumbers(left, right runtime.Value) int {
	if l, ok := left.(runtime.IntValue); ok {
		r := right.(runtime.IntValue)
		switch {
		case l.Val < r.Val:
			return -1
		case l.Val > r.Val:
			return 1
		default:
			return 0
		}
	}
	return fraction.Compare(left.(runtime.FractionValue).Val, right.(runtime.FractionValue).Val)
}

func valuesEqual(left, right runtime.Value) bool {
	if l, ok := left.(runtime.FractionValue); ok {
		return fraction.Equal(l.Val, right.(runtime.FractionValue).Val)
	}
	return left == right
}

func comparisonOp(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	default:
		return false
	}
}
