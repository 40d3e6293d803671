package parser

import "github.com/timetraveler314/SysY-Compiler/lib/lexer"

// Statement parsing is split into two mutually recursive modes to
// resolve the dangling else deterministically. parseStmt accepts open
// statements: an if or while whose trailing clause may itself end in
// an if that has not bound an else. parseClosedStmt accepts everything
// else. An else token is therefore always consumed by the nearest
// preceding if that is still open: the inner parseStmt call binds its
// own else before the outer if ever sees it.

// parseStmt parses an open or closed statement.
func (p *Parser) parseStmt() (Stmt, error) {
	switch p.tok().Kind {
	case lexer.If:
		pos := p.tok().Pos
		cond, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		then, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmt := &IfStmt{Cond: cond, Then: then, Pos: pos}
		if p.accept(lexer.Else) {
			// then is closed here: had it ended in an open if, that
			// inner if would already have consumed this else.
			stmt.Else, err = p.parseStmt()
			if err != nil {
				return nil, err
			}
		}
		return stmt, nil
	case lexer.While:
		pos := p.tok().Pos
		cond, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		body, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		return &WhileStmt{Cond: cond, Body: body, Pos: pos}, nil
	default:
		return p.parseClosedStmt()
	}
}

// parseCond consumes the keyword and a parenthesized condition.
func (p *Parser) parseCond() (Expr, error) {
	p.next() // if / while
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseClosedStmt parses a statement that is guaranteed not to end in
// an unmatched if.
func (p *Parser) parseClosedStmt() (Stmt, error) {
	switch p.tok().Kind {
	case lexer.Return:
		pos := p.next().Pos
		stmt := &ReturnStmt{Pos: pos}
		if !p.at(lexer.Semi) {
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			stmt.Value = val
		}
		if _, err := p.expect(lexer.Semi); err != nil {
			return nil, err
		}
		return stmt, nil
	case lexer.Break:
		pos := p.next().Pos
		if _, err := p.expect(lexer.Semi); err != nil {
			return nil, err
		}
		return &BreakStmt{Pos: pos}, nil
	case lexer.Continue:
		pos := p.next().Pos
		if _, err := p.expect(lexer.Semi); err != nil {
			return nil, err
		}
		return &ContinueStmt{Pos: pos}, nil
	case lexer.Semi:
		pos := p.next().Pos
		return &EmptyStmt{Pos: pos}, nil
	case lexer.LBrace:
		return p.parseBlock()
	case lexer.Ident:
		// One token of lookahead splits "x = e;" from an expression
		// statement beginning with an identifier.
		if p.peek(1).Kind == lexer.Assign {
			name := p.next()
			p.next() // =
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.Semi); err != nil {
				return nil, err
			}
			target := &LVal{Name: name.Value, Pos: name.Pos}
			return &AssignStmt{Target: target, Value: val, Pos: name.Pos}, nil
		}
		fallthrough
	default:
		pos := p.tok().Pos
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Semi); err != nil {
			return nil, err
		}
		return &ExprStmt{X: x, Pos: pos}, nil
	}
}
