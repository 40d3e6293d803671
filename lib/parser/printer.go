package parser

import (
	"fmt"
	"strings"
)

// Print renders the tree back to SysY source with expressions fully
// parenthesized. Reparsing the output reproduces an isomorphic tree;
// original positions and formatting are not preserved.
func Print(unit *CompUnit) string {
	var pr printer
	for _, el := range unit.Elements {
		pr.element(el)
	}
	return pr.b.String()
}

// ExprString renders a single expression the way Print does.
func ExprString(e Expr) string {
	var pr printer
	pr.expr(e)
	return pr.b.String()
}

type printer struct {
	b      strings.Builder
	indent int
}

func (pr *printer) line(format string, args ...interface{}) {
	pr.b.WriteString(strings.Repeat("    ", pr.indent))
	fmt.Fprintf(&pr.b, format, args...)
	pr.b.WriteByte('\n')
}

func (pr *printer) element(el Element) {
	switch el := el.(type) {
	case *ConstDecl:
		pr.constDecl(el)
	case *VarDecl:
		pr.varDecl(el)
	case *FuncDef:
		pr.funcDef(el)
	}
}

func (pr *printer) constDecl(d *ConstDecl) {
	defs := make([]string, len(d.Defs))
	for i, def := range d.Defs {
		defs[i] = def.Name + " = " + ExprString(def.Value)
	}
	pr.line("const int %s;", strings.Join(defs, ", "))
}

func (pr *printer) varDecl(d *VarDecl) {
	defs := make([]string, len(d.Defs))
	for i, def := range d.Defs {
		defs[i] = def.Name
		if def.Init != nil {
			defs[i] += " = " + ExprString(def.Init)
		}
	}
	pr.line("int %s;", strings.Join(defs, ", "))
}

func (pr *printer) funcDef(f *FuncDef) {
	params := make([]string, len(f.Params))
	for i, param := range f.Params {
		params[i] = "int " + param.Name
	}
	pr.line("%s %s(%s)", f.RetType, f.Name, strings.Join(params, ", "))
	pr.block(f.Body)
}

func (pr *printer) block(b *BlockStmt) {
	pr.line("{")
	pr.indent++
	for _, item := range b.Items {
		switch item := item.(type) {
		case *ConstDecl:
			pr.constDecl(item)
		case *VarDecl:
			pr.varDecl(item)
		case Stmt:
			pr.stmt(item)
		}
	}
	pr.indent--
	pr.line("}")
}

func (pr *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case *BlockStmt:
		pr.block(s)
	case *IfStmt:
		pr.line("if (%s)", ExprString(s.Cond))
		// A then branch ending in an unmatched if would capture our
		// else on reparse; the parser never builds such a tree, but a
		// hand-built one still prints unambiguously with braces.
		if s.Else != nil && endsOpen(s.Then) {
			pr.clause(s.Then)
		} else {
			pr.indented(s.Then)
		}
		if s.Else != nil {
			pr.line("else")
			pr.indented(s.Else)
		}
	case *WhileStmt:
		pr.line("while (%s)", ExprString(s.Cond))
		pr.indented(s.Body)
	case *ReturnStmt:
		if s.Value != nil {
			pr.line("return %s;", ExprString(s.Value))
		} else {
			pr.line("return;")
		}
	case *AssignStmt:
		pr.line("%s = %s;", s.Target.Name, ExprString(s.Value))
	case *ExprStmt:
		pr.line("%s;", ExprString(s.X))
	case *EmptyStmt:
		pr.line(";")
	case *BreakStmt:
		pr.line("break;")
	case *ContinueStmt:
		pr.line("continue;")
	}
}

// indented prints a control-flow clause one level deeper unless it is
// already a block.
func (pr *printer) indented(s Stmt) {
	if b, ok := s.(*BlockStmt); ok {
		pr.block(b)
		return
	}
	pr.indent++
	pr.stmt(s)
	pr.indent--
}

// clause brace-wraps a clause; used only when printing it bare would
// change which if an else binds to.
func (pr *printer) clause(s Stmt) {
	pr.line("{")
	pr.indent++
	pr.stmt(s)
	pr.indent--
	pr.line("}")
}

// endsOpen reports whether a statement's rightmost trailing clause is
// an if with no else.
func endsOpen(s Stmt) bool {
	switch s := s.(type) {
	case *IfStmt:
		if s.Else == nil {
			return true
		}
		return endsOpen(s.Else)
	case *WhileStmt:
		return endsOpen(s.Body)
	default:
		return false
	}
}

func (pr *printer) expr(e Expr) {
	switch e := e.(type) {
	case *IntLit:
		fmt.Fprintf(&pr.b, "%d", e.Value)
	case *LVal:
		pr.b.WriteString(e.Name)
	case *UnaryExpr:
		pr.b.WriteByte('(')
		pr.b.WriteString(e.Op.String())
		pr.expr(e.X)
		pr.b.WriteByte(')')
	case *BinaryExpr:
		pr.b.WriteByte('(')
		pr.expr(e.X)
		pr.b.WriteString(" " + e.Op.String() + " ")
		pr.expr(e.Y)
		pr.b.WriteByte(')')
	case *CallExpr:
		pr.b.WriteString(e.Name)
		pr.b.WriteByte('(')
		for i, arg := range e.Args {
			if i > 0 {
				pr.b.WriteString(", ")
			}
			pr.expr(arg)
		}
		pr.b.WriteByte(')')
	}
}
