// Package analyzer checks a parsed compilation unit for semantic
// errors the parser cannot see: undefined or redefined names,
// assignment to constants, call shape mismatches, and break or
// continue outside a loop. Constant initializers are folded here.
package analyzer

import (
	"fmt"

	"github.com/timetraveler314/SysY-Compiler/lib/lexer"
	"github.com/timetraveler314/SysY-Compiler/lib/parser"
)

// Error is a semantic error at a source position.
type Error struct {
	Pos lexer.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("semantic error at %s: %s", e.Pos, e.Msg)
}

func errorf(pos lexer.Position, format string, args ...interface{}) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Runtime library functions available in every program without
// declaration.
var Runtime = []Function{
	{Name: "getint", ReturnsValue: true},
	{Name: "getch", ReturnsValue: true},
	{Name: "putint", NumParams: 1},
	{Name: "putch", NumParams: 1},
	{Name: "starttime"},
	{Name: "stoptime"},
}

type analyzer struct {
	ctx       *Context
	fn        *parser.FuncDef
	loopDepth int
}

// Analyze walks the tree and returns the first semantic error found,
// or nil. The tree itself is not modified.
func Analyze(unit *parser.CompUnit) error {
	a := &analyzer{ctx: NewContext()}
	for _, f := range Runtime {
		a.ctx.Functions[f.Name] = f
	}

	for _, el := range unit.Elements {
		var err error
		switch el := el.(type) {
		case *parser.ConstDecl:
			err = a.constDecl(el)
		case *parser.VarDecl:
			err = a.varDecl(el)
		case *parser.FuncDef:
			err = a.funcDef(el)
		}
		if err != nil {
			return err
		}
	}

	if main, ok := a.ctx.Functions["main"]; !ok {
		return errorf(lexer.Position{Line: 1, Column: 1}, "no 'main' function defined")
	} else if !main.ReturnsValue || main.NumParams != 0 {
		return errorf(lexer.Position{Line: 1, Column: 1}, "'main' must be declared as 'int main()'")
	}
	return nil
}

func (a *analyzer) bindVariable(pos lexer.Position, v Variable) error {
	if a.ctx.defined(v.Name) {
		return errorf(pos, "'%s' is already defined in this scope", v.Name)
	}
	a.ctx.Variables[v.Name] = v
	return nil
}

func (a *analyzer) constDecl(d *parser.ConstDecl) error {
	for _, def := range d.Defs {
		val, err := EvalConst(def.Value, func(name string) (int32, bool) {
			v, ok := a.ctx.LookupVariable(name)
			if !ok || !v.Constant {
				return 0, false
			}
			return v.Value, true
		})
		if err != nil {
			return err
		}
		if err := a.bindVariable(def.Pos, Variable{Name: def.Name, Constant: true, Value: val}); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) varDecl(d *parser.VarDecl) error {
	for _, def := range d.Defs {
		if def.Init != nil {
			if err := a.expr(def.Init, true); err != nil {
				return err
			}
		}
		if err := a.bindVariable(def.Pos, Variable{Name: def.Name}); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) funcDef(f *parser.FuncDef) error {
	if a.ctx.defined(f.Name) {
		return errorf(f.Pos, "'%s' is already defined in this scope", f.Name)
	}
	a.ctx.Functions[f.Name] = Function{
		Name:         f.Name,
		ReturnsValue: f.RetType == parser.FuncInt,
		NumParams:    len(f.Params),
	}

	outer := a.ctx
	a.ctx = outer.NewContext()
	a.fn = f
	defer func() { a.ctx, a.fn = outer, nil }()

	for _, param := range f.Params {
		if err := a.bindVariable(param.Pos, Variable{Name: param.Name}); err != nil {
			return err
		}
	}
	return a.blockItems(f.Body)
}

// blockItems analyzes a block's items in the current scope; the caller
// decides whether the block opens a new one.
func (a *analyzer) blockItems(b *parser.BlockStmt) error {
	for _, item := range b.Items {
		var err error
		switch item := item.(type) {
		case *parser.ConstDecl:
			err = a.constDecl(item)
		case *parser.VarDecl:
			err = a.varDecl(item)
		case parser.Stmt:
			err = a.stmt(item)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) stmt(s parser.Stmt) error {
	switch s := s.(type) {
	case *parser.BlockStmt:
		outer := a.ctx
		a.ctx = outer.NewContext()
		err := a.blockItems(s)
		a.ctx = outer
		return err
	case *parser.IfStmt:
		if err := a.expr(s.Cond, true); err != nil {
			return err
		}
		if err := a.stmt(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return a.stmt(s.Else)
		}
		return nil
	case *parser.WhileStmt:
		if err := a.expr(s.Cond, true); err != nil {
			return err
		}
		a.loopDepth++
		err := a.stmt(s.Body)
		a.loopDepth--
		return err
	case *parser.ReturnStmt:
		if s.Value != nil {
			if a.fn.RetType == parser.FuncVoid {
				return errorf(s.Pos, "void function '%s' cannot return a value", a.fn.Name)
			}
			return a.expr(s.Value, true)
		}
		return nil
	case *parser.AssignStmt:
		v, ok := a.ctx.LookupVariable(s.Target.Name)
		if !ok {
			if _, isFn := a.ctx.LookupFunction(s.Target.Name); isFn {
				return errorf(s.Pos, "cannot assign to function '%s'", s.Target.Name)
			}
			return errorf(s.Pos, "undefined identifier '%s'", s.Target.Name)
		}
		if v.Constant {
			return errorf(s.Pos, "cannot assign to constant '%s'", s.Target.Name)
		}
		return a.expr(s.Value, true)
	case *parser.ExprStmt:
		// Result discarded, so a void call is fine here.
		return a.expr(s.X, false)
	case *parser.BreakStmt:
		if a.loopDepth == 0 {
			return errorf(s.Pos, "'break' outside of a loop")
		}
		return nil
	case *parser.ContinueStmt:
		if a.loopDepth == 0 {
			return errorf(s.Pos, "'continue' outside of a loop")
		}
		return nil
	case *parser.EmptyStmt:
		return nil
	}
	return nil
}

func (a *analyzer) expr(e parser.Expr, valueNeeded bool) error {
	switch e := e.(type) {
	case *parser.IntLit:
		return nil
	case *parser.LVal:
		if _, ok := a.ctx.LookupVariable(e.Name); ok {
			return nil
		}
		if _, ok := a.ctx.LookupFunction(e.Name); ok {
			return errorf(e.Pos, "function '%s' used as a value", e.Name)
		}
		return errorf(e.Pos, "undefined identifier '%s'", e.Name)
	case *parser.UnaryExpr:
		return a.expr(e.X, true)
	case *parser.BinaryExpr:
		if err := a.expr(e.X, true); err != nil {
			return err
		}
		return a.expr(e.Y, true)
	case *parser.CallExpr:
		fn, ok := a.ctx.LookupFunction(e.Name)
		if !ok {
			if _, isVar := a.ctx.LookupVariable(e.Name); isVar {
				return errorf(e.Pos, "'%s' is not a function", e.Name)
			}
			return errorf(e.Pos, "undefined function '%s'", e.Name)
		}
		if len(e.Args) != fn.NumParams {
			return errorf(e.Pos, "'%s' expects %d argument(s), got %d", e.Name, fn.NumParams, len(e.Args))
		}
		if valueNeeded && !fn.ReturnsValue {
			return errorf(e.Pos, "void value of '%s' used in an expression", e.Name)
		}
		for _, arg := range e.Args {
			if err := a.expr(arg, true); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}
