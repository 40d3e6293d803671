package analyzer

import (
	"github.com/timetraveler314/SysY-Compiler/lib/parser"
)

// EvalConst folds an expression to an int32 at compile time. lookup
// resolves identifiers to already-folded constant values. Anything
// else in the expression makes it non-constant. Arithmetic wraps in
// 32 bits, matching the generated code.
func EvalConst(e parser.Expr, lookup func(name string) (int32, bool)) (int32, error) {
	switch e := e.(type) {
	case *parser.IntLit:
		return e.Value, nil
	case *parser.LVal:
		if v, ok := lookup(e.Name); ok {
			return v, nil
		}
		return 0, errorf(e.Pos, "'%s' is not a constant", e.Name)
	case *parser.UnaryExpr:
		v, err := EvalConst(e.X, lookup)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case parser.OpPos:
			return v, nil
		case parser.OpNeg:
			return -v, nil
		default: // OpNot
			if v == 0 {
				return 1, nil
			}
			return 0, nil
		}
	case *parser.BinaryExpr:
		x, err := EvalConst(e.X, lookup)
		if err != nil {
			return 0, err
		}
		y, err := EvalConst(e.Y, lookup)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case parser.OpMul:
			return x * y, nil
		case parser.OpDiv:
			if y == 0 {
				return 0, errorf(e.Pos, "division by zero in constant expression")
			}
			return x / y, nil
		case parser.OpMod:
			if y == 0 {
				return 0, errorf(e.Pos, "modulo by zero in constant expression")
			}
			return x % y, nil
		case parser.OpAdd:
			return x + y, nil
		case parser.OpSub:
			return x - y, nil
		case parser.OpLt:
			return b2i(x < y), nil
		case parser.OpGt:
			return b2i(x > y), nil
		case parser.OpLe:
			return b2i(x <= y), nil
		case parser.OpGe:
			return b2i(x >= y), nil
		case parser.OpEq:
			return b2i(x == y), nil
		case parser.OpNe:
			return b2i(x != y), nil
		case parser.OpLAnd:
			return b2i(x != 0 && y != 0), nil
		default: // OpLOr
			return b2i(x != 0 || y != 0), nil
		}
	default:
		return 0, errorf(e.ExprPos(), "expression is not constant")
	}
}

func b2i(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
