// Package parser builds a SysY abstract syntax tree from a token
// stream by recursive descent. The first error aborts the parse; no
// recovery is attempted.
package parser

import (
	"fmt"
	"os"

	"github.com/timetraveler314/SysY-Compiler/lib/lexer"
)

// ParseError reports an unexpected token or premature end of input.
type ParseError struct {
	Pos lexer.Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Pos, e.Msg)
}

type Parser struct {
	Tokens []lexer.Token
	Pos    int
}

// Parse lexes and parses a complete source buffer.
func Parse(src string) (*CompUnit, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{Tokens: toks}
	return p.parseCompUnit()
}

// ParseFile reads and parses the named file.
func ParseFile(path string) (*CompUnit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(src))
}

func (p *Parser) tok() lexer.Token {
	return p.Tokens[p.Pos]
}

func (p *Parser) peek(n int) lexer.Token {
	if p.Pos+n >= len(p.Tokens) {
		return p.Tokens[len(p.Tokens)-1] // EOF
	}
	return p.Tokens[p.Pos+n]
}

func (p *Parser) next() lexer.Token {
	t := p.tok()
	if t.Kind != lexer.EOF {
		p.Pos++
	}
	return t
}

func (p *Parser) at(kind lexer.Kind) bool {
	return p.tok().Kind == kind
}

func (p *Parser) accept(kind lexer.Kind) bool {
	if p.at(kind) {
		p.Pos++
		return true
	}
	return false
}

func (p *Parser) expect(kind lexer.Kind) (lexer.Token, error) {
	if !p.at(kind) {
		return lexer.Token{}, p.errorf("expected %s, found %s", kind, p.tok().Kind)
	}
	return p.next(), nil
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Pos: p.tok().Pos, Msg: fmt.Sprintf(format, args...)}
}

// parseCompUnit parses one or more top-level declarations or function
// definitions, through end of input.
func (p *Parser) parseCompUnit() (*CompUnit, error) {
	unit := &CompUnit{}
	for {
		el, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		unit.Elements = append(unit.Elements, el)
		if p.at(lexer.EOF) {
			return unit, nil
		}
	}
}

func (p *Parser) parseElement() (Element, error) {
	switch p.tok().Kind {
	case lexer.Const:
		return p.parseConstDecl()
	case lexer.KwInt, lexer.Void:
		// "int x" begins a variable declaration, "int x(" (or any
		// "void" header) a function definition.
		if p.tok().Kind == lexer.KwInt && p.peek(2).Kind != lexer.LParen {
			return p.parseVarDecl()
		}
		return p.parseFuncDef()
	default:
		return nil, p.errorf("expected a declaration or function definition, found %s", p.tok().Kind)
	}
}

func (p *Parser) parseConstDecl() (*ConstDecl, error) {
	pos := p.tok().Pos
	p.next() // const
	if _, err := p.expect(lexer.KwInt); err != nil {
		return nil, err
	}
	decl := &ConstDecl{Type: BTypeInt, Pos: pos}
	for {
		name, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Assign); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		decl.Defs = append(decl.Defs, ConstDef{Name: name.Value, Value: val, Pos: name.Pos})
		if !p.accept(lexer.Comma) {
			break
		}
	}
	if _, err := p.expect(lexer.Semi); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseVarDecl() (*VarDecl, error) {
	pos := p.tok().Pos
	p.next() // int
	decl := &VarDecl{Type: BTypeInt, Pos: pos}
	for {
		name, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		def := VarDef{Name: name.Value, Pos: name.Pos}
		if p.accept(lexer.Assign) {
			init, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			def.Init = init
		}
		decl.Defs = append(decl.Defs, def)
		if !p.accept(lexer.Comma) {
			break
		}
	}
	if _, err := p.expect(lexer.Semi); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseFuncDef() (*FuncDef, error) {
	pos := p.tok().Pos
	ret := FuncInt
	if p.next().Kind == lexer.Void {
		ret = FuncVoid
	}
	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	fn := &FuncDef{RetType: ret, Name: name.Value, Pos: pos}
	if !p.at(lexer.RParen) {
		for {
			if _, err := p.expect(lexer.KwInt); err != nil {
				return nil, err
			}
			pname, err := p.expect(lexer.Ident)
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, Param{Type: BTypeInt, Name: pname.Value, Pos: pname.Pos})
			if !p.accept(lexer.Comma) {
				break
			}
		}
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

func (p *Parser) parseBlock() (*BlockStmt, error) {
	pos := p.tok().Pos
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}
	block := &BlockStmt{Pos: pos}
	for !p.accept(lexer.RBrace) {
		if p.at(lexer.EOF) {
			return nil, p.errorf("expected '}', found end of input")
		}
		item, err := p.parseBlockItem()
		if err != nil {
			return nil, err
		}
		block.Items = append(block.Items, item)
	}
	return block, nil
}

func (p *Parser) parseBlockItem() (Item, error) {
	switch p.tok().Kind {
	case lexer.Const:
		return p.parseConstDecl()
	case lexer.KwInt:
		return p.parseVarDecl()
	default:
		return p.parseStmt()
	}
}
