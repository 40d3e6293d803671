package lexer

import "fmt"

type Kind int

const (
	EOF Kind = iota
	Ident
	Int

	// Keywords
	Const
	KwInt
	Void
	If
	Else
	While
	Break
	Continue
	Return

	// Operators and punctuation
	Plus
	Minus
	Star
	Slash
	Percent
	Lt
	Gt
	Le
	Ge
	EqEq
	Ne
	AndAnd
	OrOr
	Not
	Assign
	LParen
	RParen
	LBrace
	RBrace
	Comma
	Semi
)

var kindNames = map[Kind]string{
	EOF:      "end of input",
	Ident:    "identifier",
	Int:      "integer literal",
	Const:    "'const'",
	KwInt:    "'int'",
	Void:     "'void'",
	If:       "'if'",
	Else:     "'else'",
	While:    "'while'",
	Break:    "'break'",
	Continue: "'continue'",
	Return:   "'return'",
	Plus:     "'+'",
	Minus:    "'-'",
	Star:     "'*'",
	Slash:    "'/'",
	Percent:  "'%'",
	Lt:       "'<'",
	Gt:       "'>'",
	Le:       "'<='",
	Ge:       "'>='",
	EqEq:     "'=='",
	Ne:       "'!='",
	AndAnd:   "'&&'",
	OrOr:     "'||'",
	Assign:   "'='",
	LParen:   "'('",
	RParen:   "')'",
	LBrace:   "'{'",
	RBrace:   "'}'",
	Comma:    "','",
	Semi:     "';'",
	Not:      "'!'",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var keywords = map[string]Kind{
	"const":    Const,
	"int":      KwInt,
	"void":     Void,
	"if":       If,
	"else":     Else,
	"while":    While,
	"break":    Break,
	"continue": Continue,
	"return":   Return,
}

// Position locates a token or error in the source buffer.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is one lexeme of a SysY source file. Num carries the decoded
// value for Int tokens.
type Token struct {
	Kind  Kind
	Value string
	Num   int32
	Pos   Position
}

// LexError reports an unrecognized character sequence, an unterminated
// block comment, or a malformed integer literal.
type LexError struct {
	Pos Position
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %s: %s", e.Pos, e.Msg)
}
