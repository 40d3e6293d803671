// Package compiler lowers a checked SysY tree to LLVM IR. Scalars are
// i32 throughout; conditions are normalized with icmp against zero.
package compiler

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/timetraveler314/SysY-Compiler/lib/analyzer"
	"github.com/timetraveler314/SysY-Compiler/lib/lexer"
	"github.com/timetraveler314/SysY-Compiler/lib/parser"
)

// Error is a code-generation failure at a source position. Running the
// analyzer first makes these unreachable in practice.
type Error struct {
	Pos lexer.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("compile error at %s: %s", e.Pos, e.Msg)
}

func errorf(pos lexer.Position, format string, args ...interface{}) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

type Compiler struct {
	Module *ir.Module

	funcs    map[string]*ir.Func
	globals  *Context
	blockSeq int
}

// FlowControl carries the jump targets of the innermost enclosing loop.
type FlowControl struct {
	Leave    *ir.Block
	Continue *ir.Block
}

// Context is one lexical scope during lowering. It embeds the block
// instructions are currently appended to; vars hold i32 pointers
// (allocas or globals), consts hold folded immediates.
type Context struct {
	*ir.Block
	*Compiler
	parent *Context
	vars   map[string]value.Value
	consts map[string]int32
	fc     *FlowControl
}

func NewCompiler() *Compiler {
	c := &Compiler{
		Module: ir.NewModule(),
		funcs:  make(map[string]*ir.Func),
	}
	c.declareRuntime()
	c.globals = &Context{
		Compiler: c,
		vars:     make(map[string]value.Value),
		consts:   make(map[string]int32),
	}
	return c
}

// declareRuntime emits externs for the SysY runtime library.
func (c *Compiler) declareRuntime() {
	decl := func(name string, ret types.Type, params ...*ir.Param) {
		c.funcs[name] = c.Module.NewFunc(name, ret, params...)
	}
	decl("getint", types.I32)
	decl("getch", types.I32)
	decl("putint", types.Void, ir.NewParam("", types.I32))
	decl("putch", types.Void, ir.NewParam("", types.I32))
	decl("starttime", types.Void)
	decl("stoptime", types.Void)
}

func (c *Compiler) newContext(b *ir.Block, parent *Context) *Context {
	ctx := &Context{
		Block:    b,
		Compiler: c,
		parent:   parent,
		vars:     make(map[string]value.Value),
		consts:   make(map[string]int32),
	}
	if parent != nil {
		ctx.fc = parent.fc
	}
	return ctx
}

// newBlock appends a uniquely named block to the current function.
func (c *Compiler) newBlock(fn *ir.Func, prefix string) *ir.Block {
	b := fn.NewBlock(fmt.Sprintf("%s.%d", prefix, c.blockSeq))
	c.blockSeq++
	return b
}

// Compile lowers a whole compilation unit. The returned module can be
// rendered to textual IR with Module.String().
func (c *Compiler) Compile(unit *parser.CompUnit) error {
	for _, el := range unit.Elements {
		var err error
		switch el := el.(type) {
		case *parser.ConstDecl:
			err = c.globalConstDecl(el)
		case *parser.VarDecl:
			err = c.globalVarDecl(el)
		case *parser.FuncDef:
			err = c.funcDef(el)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) globalConstDecl(d *parser.ConstDecl) error {
	for _, def := range d.Defs {
		val, err := c.globals.foldConst(def.Value)
		if err != nil {
			return err
		}
		c.globals.consts[def.Name] = val
	}
	return nil
}

func (c *Compiler) globalVarDecl(d *parser.VarDecl) error {
	for _, def := range d.Defs {
		var init int32
		if def.Init != nil {
			v, err := c.globals.foldConst(def.Init)
			if err != nil {
				return errorf(def.Pos, "global initializer for '%s' is not constant", def.Name)
			}
			init = v
		}
		g := c.Module.NewGlobalDef(def.Name, constant.NewInt(types.I32, int64(init)))
		c.globals.vars[def.Name] = g
	}
	return nil
}

func (c *Compiler) funcDef(f *parser.FuncDef) error {
	var ret types.Type = types.I32
	if f.RetType == parser.FuncVoid {
		ret = types.Void
	}
	params := make([]*ir.Param, len(f.Params))
	for i, p := range f.Params {
		params[i] = ir.NewParam(p.Name, types.I32)
	}
	fn := c.Module.NewFunc(f.Name, ret, params...)
	c.funcs[f.Name] = fn

	entry := fn.NewBlock("entry")
	ctx := c.newContext(entry, c.globals)

	// Parameters are spilled to allocas so they can be assigned like
	// any local.
	for i, p := range f.Params {
		slot := ctx.NewAlloca(types.I32)
		ctx.NewStore(params[i], slot)
		ctx.vars[p.Name] = slot
	}

	for _, item := range f.Body.Items {
		if err := ctx.compileItem(item); err != nil {
			return err
		}
	}

	// Unterminated control paths get the function's default return:
	// void functions return nothing, main (and other int functions)
	// return 0, following the C rule for main.
	for _, b := range fn.Blocks {
		if b.Term == nil {
			if f.RetType == parser.FuncVoid {
				b.NewRet(nil)
			} else {
				b.NewRet(constant.NewInt(types.I32, 0))
			}
		}
	}
	return nil
}

type symbol struct {
	ptr      value.Value
	val      int32
	constant bool
}

// lookup resolves a name through the scope chain, checking constants
// and variables of each scope before moving outward.
func (ctx *Context) lookup(name string) (symbol, bool) {
	for c := ctx; c != nil; c = c.parent {
		if v, ok := c.consts[name]; ok {
			return symbol{val: v, constant: true}, true
		}
		if ptr, ok := c.vars[name]; ok {
			return symbol{ptr: ptr}, true
		}
	}
	return symbol{}, false
}

// foldConst evaluates a constant expression against the scope chain.
func (ctx *Context) foldConst(e parser.Expr) (int32, error) {
	return analyzer.EvalConst(e, func(name string) (int32, bool) {
		sym, ok := ctx.lookup(name)
		if !ok || !sym.constant {
			return 0, false
		}
		return sym.val, true
	})
}
