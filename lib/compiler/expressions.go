package compiler

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/timetraveler314/SysY-Compiler/lib/parser"
)

// compileExpr lowers an expression to an i32 value (or void, for a
// call to a void function). Comparison results are widened back to i32
// immediately, matching the language's integer-only semantics.
func (ctx *Context) compileExpr(e parser.Expr) (value.Value, error) {
	switch e := e.(type) {
	case *parser.IntLit:
		return constant.NewInt(types.I32, int64(e.Value)), nil
	case *parser.LVal:
		sym, ok := ctx.lookup(e.Name)
		if !ok {
			return nil, errorf(e.Pos, "undefined identifier '%s'", e.Name)
		}
		if sym.constant {
			return constant.NewInt(types.I32, int64(sym.val)), nil
		}
		return ctx.NewLoad(types.I32, sym.ptr), nil
	case *parser.UnaryExpr:
		return ctx.compileUnary(e)
	case *parser.BinaryExpr:
		return ctx.compileBinary(e)
	case *parser.CallExpr:
		return ctx.compileCall(e)
	}
	return nil, errorf(e.ExprPos(), "unsupported expression")
}

func (ctx *Context) compileUnary(e *parser.UnaryExpr) (value.Value, error) {
	val, err := ctx.compileExpr(e.X)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case parser.OpPos:
		return val, nil
	case parser.OpNeg:
		return ctx.NewSub(zero(), val), nil
	default: // OpNot
		isZero := ctx.NewICmp(enum.IPredEQ, val, zero())
		return ctx.NewZExt(isZero, types.I32), nil
	}
}

func (ctx *Context) compileBinary(e *parser.BinaryExpr) (value.Value, error) {
	switch e.Op {
	case parser.OpLAnd, parser.OpLOr:
		return ctx.compileShortCircuit(e)
	}

	x, err := ctx.compileExpr(e.X)
	if err != nil {
		return nil, err
	}
	y, err := ctx.compileExpr(e.Y)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case parser.OpMul:
		return ctx.NewMul(x, y), nil
	case parser.OpDiv:
		return ctx.NewSDiv(x, y), nil
	case parser.OpMod:
		return ctx.NewSRem(x, y), nil
	case parser.OpAdd:
		return ctx.NewAdd(x, y), nil
	case parser.OpSub:
		return ctx.NewSub(x, y), nil
	}

	var pred enum.IPred
	switch e.Op {
	case parser.OpLt:
		pred = enum.IPredSLT
	case parser.OpGt:
		pred = enum.IPredSGT
	case parser.OpLe:
		pred = enum.IPredSLE
	case parser.OpGe:
		pred = enum.IPredSGE
	case parser.OpEq:
		pred = enum.IPredEQ
	default: // OpNe
		pred = enum.IPredNE
	}
	cmp := ctx.NewICmp(pred, x, y)
	return ctx.NewZExt(cmp, types.I32), nil
}

// compileShortCircuit lowers && and || with control flow so the right
// operand is only evaluated when it can still affect the result. The
// result lands in an alloca seeded with the operator's absorbing
// element: 0 for &&, 1 for ||.
func (ctx *Context) compileShortCircuit(e *parser.BinaryExpr) (value.Value, error) {
	fn := ctx.Block.Parent
	result := ctx.NewAlloca(types.I32)
	var seed int64
	if e.Op == parser.OpLOr {
		seed = 1
	}
	ctx.NewStore(constant.NewInt(types.I32, seed), result)

	x, err := ctx.compileExpr(e.X)
	if err != nil {
		return nil, err
	}
	xTrue := ctx.truth(x)

	rhsB := ctx.newBlock(fn, "logic.rhs")
	mergeB := ctx.newBlock(fn, "logic.merge")
	if e.Op == parser.OpLAnd {
		// Left is true: the right operand decides.
		ctx.NewCondBr(xTrue, rhsB, mergeB)
	} else {
		// Left is false: the right operand decides.
		ctx.NewCondBr(xTrue, mergeB, rhsB)
	}

	ctx.Block = rhsB
	y, err := ctx.compileExpr(e.Y)
	if err != nil {
		return nil, err
	}
	yTrue := ctx.truth(y)
	ctx.NewStore(ctx.NewZExt(yTrue, types.I32), result)
	ctx.NewBr(mergeB)

	ctx.Block = mergeB
	return ctx.NewLoad(types.I32, result), nil
}

func (ctx *Context) compileCall(e *parser.CallExpr) (value.Value, error) {
	fn, ok := ctx.Compiler.funcs[e.Name]
	if !ok {
		return nil, errorf(e.Pos, "undefined function '%s'", e.Name)
	}
	args := make([]value.Value, len(e.Args))
	for i, arg := range e.Args {
		val, err := ctx.compileExpr(arg)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}
	return ctx.NewCall(fn, args...), nil
}

// truth normalizes an i32 to i1 by comparing against zero.
func (ctx *Context) truth(val value.Value) value.Value {
	return ctx.NewICmp(enum.IPredNE, val, zero())
}
