// Package lexer turns SysY source text into a token stream. Whitespace
// and comments are discarded; every token carries its source position.
package lexer

import (
	"strconv"
	"strings"
)

type lexer struct {
	src  string
	off  int
	line int
	col  int
}

// Tokenize scans the whole buffer and returns the token sequence,
// terminated by an EOF token. The first invalid lexeme aborts the scan.
func Tokenize(src string) ([]Token, error) {
	l := &lexer{src: src, line: 1, col: 1}
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

func (l *lexer) pos() Position {
	return Position{Offset: l.off, Line: l.line, Column: l.col}
}

func (l *lexer) peek() byte {
	if l.off >= len(l.src) {
		return 0
	}
	return l.src[l.off]
}

func (l *lexer) peek2() byte {
	if l.off+1 >= len(l.src) {
		return 0
	}
	return l.src[l.off+1]
}

func (l *lexer) advance() byte {
	ch := l.src[l.off]
	l.off++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

// skip consumes whitespace, line comments and block comments. Block
// comments do not nest; hitting EOF inside one is a lexical failure.
func (l *lexer) skip() error {
	for l.off < len(l.src) {
		switch ch := l.peek(); {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peek2() == '/':
			for l.off < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		case ch == '/' && l.peek2() == '*':
			start := l.pos()
			l.advance()
			l.advance()
			for {
				if l.off >= len(l.src) {
					return &LexError{Pos: start, Msg: "unterminated block comment"}
				}
				if l.peek() == '*' && l.peek2() == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) next() (Token, error) {
	if err := l.skip(); err != nil {
		return Token{}, err
	}
	pos := l.pos()
	if l.off >= len(l.src) {
		return Token{Kind: EOF, Pos: pos}, nil
	}

	ch := l.peek()
	switch {
	case isIdentStart(ch):
		start := l.off
		for l.off < len(l.src) && isIdentPart(l.peek()) {
			l.advance()
		}
		word := l.src[start:l.off]
		if kw, ok := keywords[word]; ok {
			return Token{Kind: kw, Value: word, Pos: pos}, nil
		}
		return Token{Kind: Ident, Value: word, Pos: pos}, nil

	case isDigit(ch):
		return l.number(pos)
	}

	two := ""
	if l.off+1 < len(l.src) {
		two = l.src[l.off : l.off+2]
	}
	switch two {
	case "<=", ">=", "==", "!=", "&&", "||":
		l.advance()
		l.advance()
		return Token{Kind: twoCharKinds[two], Value: two, Pos: pos}, nil
	}
	if kind, ok := oneCharKinds[ch]; ok {
		l.advance()
		return Token{Kind: kind, Value: string(ch), Pos: pos}, nil
	}
	return Token{}, &LexError{Pos: pos, Msg: "unrecognized character " + strconv.Quote(string(ch))}
}

// number scans a maximal alphanumeric run starting at a digit and
// classifies it by radix, most specific pattern first: hexadecimal,
// octal (a bare "0" lands here), then decimal. Values outside the
// signed 32-bit range are rejected.
func (l *lexer) number(pos Position) (Token, error) {
	start := l.off
	for l.off < len(l.src) && isIdentPart(l.peek()) {
		l.advance()
	}
	lit := l.src[start:l.off]

	var digits string
	var base int
	switch {
	case strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X"):
		digits, base = lit[2:], 16
		if digits == "" || !allDigits(digits, 16) {
			return Token{}, &LexError{Pos: pos, Msg: "malformed hexadecimal literal " + strconv.Quote(lit)}
		}
	case lit[0] == '0':
		digits, base = lit, 8
		if !allDigits(lit[1:], 8) {
			return Token{}, &LexError{Pos: pos, Msg: "malformed octal literal " + strconv.Quote(lit)}
		}
	default:
		digits, base = lit, 10
		if !allDigits(lit, 10) {
			return Token{}, &LexError{Pos: pos, Msg: "malformed decimal literal " + strconv.Quote(lit)}
		}
	}

	n, err := strconv.ParseInt(digits, base, 32)
	if err != nil {
		return Token{}, &LexError{Pos: pos, Msg: "integer literal " + strconv.Quote(lit) + " out of 32-bit range"}
	}
	return Token{Kind: Int, Value: lit, Num: int32(n), Pos: pos}, nil
}

var oneCharKinds = map[byte]Kind{
	'+': Plus,
	'-': Minus,
	'*': Star,
	'/': Slash,
	'%': Percent,
	'<': Lt,
	'>': Gt,
	'!': Not,
	'=': Assign,
	'(': LParen,
	')': RParen,
	'{': LBrace,
	'}': RBrace,
	',': Comma,
	';': Semi,
}

var twoCharKinds = map[string]Kind{
	"<=": Le,
	">=": Ge,
	"==": EqEq,
	"!=": Ne,
	"&&": AndAnd,
	"||": OrOr,
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func allDigits(s string, base int) bool {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		var ok bool
		switch base {
		case 8:
			ok = '0' <= ch && ch <= '7'
		case 10:
			ok = isDigit(ch)
		case 16:
			ok = isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
		}
		if !ok {
			return false
		}
	}
	return true
}
