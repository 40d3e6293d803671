package parser

import "github.com/timetraveler314/SysY-Compiler/lib/lexer"

// The AST is built once during parsing and never mutated afterwards;
// each node owns its children. Every node records the position of its
// first token for diagnostics in later phases.

// Element is a top-level item of a compilation unit: a declaration or
// a function definition.
type Element interface {
	elementNode()
}

// Item is a block-level item: a declaration or a statement.
type Item interface {
	itemNode()
}

type Stmt interface {
	Item
	stmtNode()
}

type Expr interface {
	exprNode()
	ExprPos() lexer.Position
}

// CompUnit is the root of every parse. Elements is never empty.
type CompUnit struct {
	Elements []Element
}

// BType is the base type of declarations and parameters. SysY's subset
// has a single spelling.
type BType int

const BTypeInt BType = iota

// FuncType is a function's return type.
type FuncType int

const (
	FuncVoid FuncType = iota
	FuncInt
)

func (t FuncType) String() string {
	if t == FuncVoid {
		return "void"
	}
	return "int"
}

type ConstDef struct {
	Name  string
	Value Expr
	Pos   lexer.Position
}

// ConstDecl declares one or more named constants. Whether each
// initializer is constant-foldable is checked by the analyzer, not here.
type ConstDecl struct {
	Type BType
	Defs []ConstDef
	Pos  lexer.Position
}

func (*ConstDecl) elementNode() {}
func (*ConstDecl) itemNode()    {}

type VarDef struct {
	Name string
	Init Expr // nil when uninitialized
	Pos  lexer.Position
}

type VarDecl struct {
	Type BType
	Defs []VarDef
	Pos  lexer.Position
}

func (*VarDecl) elementNode() {}
func (*VarDecl) itemNode()    {}

type Param struct {
	Type BType
	Name string
	Pos  lexer.Position
}

type FuncDef struct {
	RetType FuncType
	Name    string
	Params  []Param
	Body    *BlockStmt
	Pos     lexer.Position
}

func (*FuncDef) elementNode() {}

// Statements.

type BlockStmt struct {
	Items []Item
	Pos   lexer.Position
}

// IfStmt covers both the single-branch and two-branch forms; Else is
// nil when no else clause was bound to this if.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt
	Pos  lexer.Position
}

type WhileStmt struct {
	Cond Expr
	Body Stmt
	Pos  lexer.Position
}

type ReturnStmt struct {
	Value Expr // nil for a bare return
	Pos   lexer.Position
}

// LVal denotes an assignable location; the language subset has only
// bare identifiers. It doubles as the identifier expression form.
type LVal struct {
	Name string
	Pos  lexer.Position
}

func (*LVal) exprNode()                 {}
func (e *LVal) ExprPos() lexer.Position { return e.Pos }

type AssignStmt struct {
	Target *LVal
	Value  Expr
	Pos    lexer.Position
}

type ExprStmt struct {
	X   Expr
	Pos lexer.Position
}

type EmptyStmt struct {
	Pos lexer.Position
}

type BreakStmt struct {
	Pos lexer.Position
}

type ContinueStmt struct {
	Pos lexer.Position
}

func (*BlockStmt) itemNode()    {}
func (*IfStmt) itemNode()       {}
func (*WhileStmt) itemNode()    {}
func (*ReturnStmt) itemNode()   {}
func (*AssignStmt) itemNode()   {}
func (*ExprStmt) itemNode()     {}
func (*EmptyStmt) itemNode()    {}
func (*BreakStmt) itemNode()    {}
func (*ContinueStmt) itemNode() {}

func (*BlockStmt) stmtNode()    {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode()   {}
func (*AssignStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()     {}
func (*EmptyStmt) stmtNode()    {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}

// Expressions.

type UnaryOp int

const (
	OpPos UnaryOp = iota
	OpNeg
	OpNot
)

var unaryOpNames = [...]string{OpPos: "+", OpNeg: "-", OpNot: "!"}

func (op UnaryOp) String() string { return unaryOpNames[op] }

type BinaryOp int

const (
	OpMul BinaryOp = iota
	OpDiv
	OpMod
	OpAdd
	OpSub
	OpLt
	OpGt
	OpLe
	OpGe
	OpEq
	OpNe
	OpLAnd
	OpLOr
)

var binaryOpNames = [...]string{
	OpMul: "*", OpDiv: "/", OpMod: "%",
	OpAdd: "+", OpSub: "-",
	OpLt: "<", OpGt: ">", OpLe: "<=", OpGe: ">=",
	OpEq: "==", OpNe: "!=",
	OpLAnd: "&&", OpLOr: "||",
}

func (op BinaryOp) String() string { return binaryOpNames[op] }

type IntLit struct {
	Value int32
	Pos   lexer.Position
}

type UnaryExpr struct {
	Op  UnaryOp
	X   Expr
	Pos lexer.Position
}

type BinaryExpr struct {
	Op  BinaryOp
	X   Expr
	Y   Expr
	Pos lexer.Position
}

type CallExpr struct {
	Name string
	Args []Expr
	Pos  lexer.Position
}

func (*IntLit) exprNode()     {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*CallExpr) exprNode()   {}

func (e *IntLit) ExprPos() lexer.Position     { return e.Pos }
func (e *UnaryExpr) ExprPos() lexer.Position  { return e.Pos }
func (e *BinaryExpr) ExprPos() lexer.Position { return e.Pos }
func (e *CallExpr) ExprPos() lexer.Position   { return e.Pos }
