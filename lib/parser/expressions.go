package parser

import "github.com/timetraveler314/SysY-Compiler/lib/lexer"

// The expression grammar is a precedence cascade; each tier parses the
// next-higher tier first and then folds left while its own operator is
// next, which makes every binary operator left-associative.

func (p *Parser) parseExpr() (Expr, error) {
	return p.parseLOr()
}

func (p *Parser) parseLOr() (Expr, error) {
	return p.parseBinary(p.parseLAnd, map[lexer.Kind]BinaryOp{
		lexer.OrOr: OpLOr,
	})
}

func (p *Parser) parseLAnd() (Expr, error) {
	return p.parseBinary(p.parseEquality, map[lexer.Kind]BinaryOp{
		lexer.AndAnd: OpLAnd,
	})
}

func (p *Parser) parseEquality() (Expr, error) {
	return p.parseBinary(p.parseRelational, map[lexer.Kind]BinaryOp{
		lexer.EqEq: OpEq,
		lexer.Ne:   OpNe,
	})
}

func (p *Parser) parseRelational() (Expr, error) {
	return p.parseBinary(p.parseAdditive, map[lexer.Kind]BinaryOp{
		lexer.Lt: OpLt,
		lexer.Gt: OpGt,
		lexer.Le: OpLe,
		lexer.Ge: OpGe,
	})
}

func (p *Parser) parseAdditive() (Expr, error) {
	return p.parseBinary(p.parseMultiplicative, map[lexer.Kind]BinaryOp{
		lexer.Plus:  OpAdd,
		lexer.Minus: OpSub,
	})
}

func (p *Parser) parseMultiplicative() (Expr, error) {
	return p.parseBinary(p.parseUnary, map[lexer.Kind]BinaryOp{
		lexer.Star:    OpMul,
		lexer.Slash:   OpDiv,
		lexer.Percent: OpMod,
	})
}

func (p *Parser) parseBinary(higher func() (Expr, error), ops map[lexer.Kind]BinaryOp) (Expr, error) {
	left, err := higher()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.tok().Kind]
		if !ok {
			return left, nil
		}
		pos := p.next().Pos
		right, err := higher()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, X: left, Y: right, Pos: pos}
	}
}

func (p *Parser) parseUnary() (Expr, error) {
	var op UnaryOp
	switch p.tok().Kind {
	case lexer.Plus:
		op = OpPos
	case lexer.Minus:
		op = OpNeg
	case lexer.Not:
		op = OpNot
	default:
		return p.parsePrimary()
	}
	pos := p.next().Pos
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &UnaryExpr{Op: op, X: x, Pos: pos}, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	switch p.tok().Kind {
	case lexer.Int:
		t := p.next()
		return &IntLit{Value: t.Num, Pos: t.Pos}, nil
	case lexer.LParen:
		p.next()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return x, nil
	case lexer.Ident:
		t := p.next()
		if !p.accept(lexer.LParen) {
			return &LVal{Name: t.Value, Pos: t.Pos}, nil
		}
		call := &CallExpr{Name: t.Value, Pos: t.Pos}
		if !p.at(lexer.RParen) {
			for {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, arg)
				if !p.accept(lexer.Comma) {
					break
				}
			}
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return call, nil
	default:
		return nil, p.errorf("expected an expression, found %s", p.tok().Kind)
	}
}
