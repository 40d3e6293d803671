package compiler

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/timetraveler314/SysY-Compiler/lib/parser"
)

func (ctx *Context) compileItem(item parser.Item) error {
	// Anything after a terminator is unreachable and dropped.
	if ctx.Block.Term != nil {
		return nil
	}
	switch item := item.(type) {
	case *parser.ConstDecl:
		return ctx.compileConstDecl(item)
	case *parser.VarDecl:
		return ctx.compileVarDecl(item)
	case parser.Stmt:
		return ctx.compileStmt(item)
	}
	return nil
}

func (ctx *Context) compileConstDecl(d *parser.ConstDecl) error {
	for _, def := range d.Defs {
		val, err := ctx.foldConst(def.Value)
		if err != nil {
			return err
		}
		ctx.consts[def.Name] = val
	}
	return nil
}

func (ctx *Context) compileVarDecl(d *parser.VarDecl) error {
	for _, def := range d.Defs {
		slot := ctx.NewAlloca(types.I32)
		if def.Init != nil {
			val, err := ctx.compileExpr(def.Init)
			if err != nil {
				return err
			}
			ctx.NewStore(val, slot)
		}
		ctx.vars[def.Name] = slot
	}
	return nil
}

func (ctx *Context) compileStmt(s parser.Stmt) error {
	switch s := s.(type) {
	case *parser.BlockStmt:
		inner := ctx.Compiler.newContext(ctx.Block, ctx)
		for _, item := range s.Items {
			if err := inner.compileItem(item); err != nil {
				return err
			}
		}
		// The inner scope may have moved the emission point.
		ctx.Block = inner.Block
		return nil
	case *parser.IfStmt:
		return ctx.compileIf(s)
	case *parser.WhileStmt:
		return ctx.compileWhile(s)
	case *parser.ReturnStmt:
		if s.Value != nil {
			val, err := ctx.compileExpr(s.Value)
			if err != nil {
				return err
			}
			ctx.NewRet(val)
		} else {
			ctx.NewRet(nil)
		}
		return nil
	case *parser.AssignStmt:
		sym, ok := ctx.lookup(s.Target.Name)
		if !ok {
			return errorf(s.Pos, "undefined identifier '%s'", s.Target.Name)
		}
		if sym.constant {
			return errorf(s.Pos, "cannot assign to constant '%s'", s.Target.Name)
		}
		val, err := ctx.compileExpr(s.Value)
		if err != nil {
			return err
		}
		ctx.NewStore(val, sym.ptr)
		return nil
	case *parser.ExprStmt:
		_, err := ctx.compileExpr(s.X)
		return err
	case *parser.BreakStmt:
		if ctx.fc == nil {
			return errorf(s.Pos, "'break' outside of a loop")
		}
		ctx.NewBr(ctx.fc.Leave)
		return nil
	case *parser.ContinueStmt:
		if ctx.fc == nil {
			return errorf(s.Pos, "'continue' outside of a loop")
		}
		ctx.NewBr(ctx.fc.Continue)
		return nil
	case *parser.EmptyStmt:
		return nil
	}
	return nil
}

func (ctx *Context) compileIf(s *parser.IfStmt) error {
	cond, err := ctx.compileCond(s.Cond)
	if err != nil {
		return err
	}

	fn := ctx.Block.Parent
	thenB := ctx.newBlock(fn, "if.then")
	mergeB := ctx.newBlock(fn, "if.merge")
	elseB := mergeB
	if s.Else != nil {
		elseB = ctx.newBlock(fn, "if.else")
	}
	ctx.NewCondBr(cond, thenB, elseB)

	thenCtx := ctx.Compiler.newContext(thenB, ctx)
	if err := thenCtx.compileStmt(s.Then); err != nil {
		return err
	}
	if thenCtx.Block.Term == nil {
		thenCtx.NewBr(mergeB)
	}

	if s.Else != nil {
		elseCtx := ctx.Compiler.newContext(elseB, ctx)
		if err := elseCtx.compileStmt(s.Else); err != nil {
			return err
		}
		if elseCtx.Block.Term == nil {
			elseCtx.NewBr(mergeB)
		}
	}

	ctx.Block = mergeB
	return nil
}

func (ctx *Context) compileWhile(s *parser.WhileStmt) error {
	fn := ctx.Block.Parent
	condB := ctx.newBlock(fn, "while.cond")
	bodyB := ctx.newBlock(fn, "while.body")
	leaveB := ctx.newBlock(fn, "while.leave")

	ctx.NewBr(condB)

	condCtx := ctx.Compiler.newContext(condB, ctx)
	cond, err := condCtx.compileCond(s.Cond)
	if err != nil {
		return err
	}
	condCtx.NewCondBr(cond, bodyB, leaveB)

	bodyCtx := ctx.Compiler.newContext(bodyB, ctx)
	bodyCtx.fc = &FlowControl{Leave: leaveB, Continue: condB}
	if err := bodyCtx.compileStmt(s.Body); err != nil {
		return err
	}
	if bodyCtx.Block.Term == nil {
		bodyCtx.NewBr(condB)
	}

	ctx.Block = leaveB
	return nil
}

// compileCond evaluates an expression and normalizes it to i1.
func (ctx *Context) compileCond(e parser.Expr) (value.Value, error) {
	val, err := ctx.compileExpr(e)
	if err != nil {
		return nil, err
	}
	return ctx.truth(val), nil
}

func zero() *constant.Int {
	return constant.NewInt(types.I32, 0)
}
