package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/timetraveler314/SysY-Compiler/lib/lexer"
)

func parseTestExpr(t *testing.T, src string) Expr {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("lexing %q: %v", src, err)
	}
	p := &Parser{Tokens: toks}
	e, err := p.parseExpr()
	if err != nil {
		t.Fatalf("parsing %q: %v", src, err)
	}
	if !p.at(lexer.EOF) {
		t.Fatalf("parsing %q: trailing tokens from %s", src, p.tok().Pos)
	}
	return e
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"a || b && c", "(a || (b && c))"},
		{"a && b || c && d", "((a && b) || (c && d))"},
		{"1 + 2 < 3 * 4", "((1 + 2) < (3 * 4))"},
		{"a < b == c < d", "((a < b) == (c < d))"},
		{"a == b && c != d", "((a == b) && (c != d))"},
		{"10 % 4 / 2", "((10 % 4) / 2)"},
		{"-x + y", "((-x) + y)"},
		{"!a || b", "((!a) || b)"},
		{"-(x + y) * 2", "((-(x + y)) * 2)"},
		{"+ - !0", "(+(-(!0)))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"f(a, b + 1) * g()", "(f(a, (b + 1)) * g())"},
	}
	for _, tt := range tests {
		got := ExprString(parseTestExpr(t, tt.input))
		if got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestLeftAssociativity(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"1 / 2 / 3", "((1 / 2) / 3)"},
		{"a < b < c", "((a < b) < c)"},
		{"a == b == c", "((a == b) == c)"},
		{"a && b && c", "((a && b) && c)"},
	}
	for _, tt := range tests {
		got := ExprString(parseTestExpr(t, tt.input))
		if got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestDanglingElse(t *testing.T) {
	unit, err := Parse("int main() { if (a) if (b) x = 1; else x = 2; }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outer, ok := unit.Elements[0].(*FuncDef).Body.Items[0].(*IfStmt)
	if !ok {
		t.Fatalf("expected *IfStmt, got %T", unit.Elements[0].(*FuncDef).Body.Items[0])
	}
	if outer.Else != nil {
		t.Fatal("else bound to the outer if")
	}
	inner, ok := outer.Then.(*IfStmt)
	if !ok {
		t.Fatalf("expected nested *IfStmt, got %T", outer.Then)
	}
	if inner.Else == nil {
		t.Fatal("else not bound to the inner if")
	}
	if _, ok := inner.Else.(*AssignStmt); !ok {
		t.Fatalf("expected else branch to be an assignment, got %T", inner.Else)
	}
}

func TestNestedIfElseChain(t *testing.T) {
	unit, err := Parse(`int main() {
		if (a) { x = 1; } else if (b) x = 2; else x = 3;
		while (a) if (b) break; else continue;
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := unit.Elements[0].(*FuncDef).Body.Items
	first := items[0].(*IfStmt)
	chained, ok := first.Else.(*IfStmt)
	if !ok {
		t.Fatalf("expected else-if chain, got %T", first.Else)
	}
	if chained.Else == nil {
		t.Fatal("final else missing from the chain")
	}
	loop := items[1].(*WhileStmt)
	body, ok := loop.Body.(*IfStmt)
	if !ok {
		t.Fatalf("expected if body, got %T", loop.Body)
	}
	if _, ok := body.Else.(*ContinueStmt); !ok {
		t.Fatalf("expected else branch continue, got %T", body.Else)
	}
}

func TestStatementForms(t *testing.T) {
	unit, err := Parse(`int main() {
		;
		x;
		x = f(1);
		return;
		return x + 1;
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := unit.Elements[0].(*FuncDef).Body.Items
	if _, ok := items[0].(*EmptyStmt); !ok {
		t.Errorf("item 0: expected *EmptyStmt, got %T", items[0])
	}
	es, ok := items[1].(*ExprStmt)
	if !ok {
		t.Fatalf("item 1: expected *ExprStmt, got %T", items[1])
	}
	if _, ok := es.X.(*LVal); !ok {
		t.Errorf("item 1: expected l-value expression, got %T", es.X)
	}
	if _, ok := items[2].(*AssignStmt); !ok {
		t.Errorf("item 2: expected *AssignStmt, got %T", items[2])
	}
	if items[3].(*ReturnStmt).Value != nil {
		t.Error("item 3: bare return should have no value")
	}
	if items[4].(*ReturnStmt).Value == nil {
		t.Error("item 4: return value missing")
	}
}

func TestDeclarations(t *testing.T) {
	unit, err := Parse(`
		const int a = 1, b = a + 1;
		int g;
		int h = 0x10, i;
		void log(int level, int code) { putint(level); putint(code); }
		int main() { return b; }
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(unit.Elements) != 5 {
		t.Fatalf("got %d top-level elements, want 5", len(unit.Elements))
	}
	cd := unit.Elements[0].(*ConstDecl)
	if len(cd.Defs) != 2 || cd.Defs[1].Name != "b" {
		t.Errorf("const defs: %+v", cd.Defs)
	}
	vd := unit.Elements[2].(*VarDecl)
	if vd.Defs[0].Init == nil || vd.Defs[1].Init != nil {
		t.Error("initializer placement wrong in 'int h = 0x10, i;'")
	}
	fn := unit.Elements[3].(*FuncDef)
	if fn.RetType != FuncVoid || len(fn.Params) != 2 || fn.Params[1].Name != "code" {
		t.Errorf("function header: %+v", fn)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{"", "declaration or function definition"},
		{"int main() {", "expected '}'"},
		{"int main() { if (x) {", "expected '}'"},
		{"int main() { return 1 }", "expected ';'"},
		{"int main() { x = ; }", "expected an expression"},
		{"int main() { const x = 1; }", "expected 'int'"},
		{"int () {}", "expected identifier"},
		{"int f(int) {}", "expected identifier"},
		{"void v;", "expected '('"},
	}
	for _, tt := range tests {
		_, err := Parse(tt.src)
		if err == nil {
			t.Errorf("%q: expected an error", tt.src)
			continue
		}
		perr, ok := err.(*ParseError)
		if !ok {
			t.Errorf("%q: expected *ParseError, got %T (%v)", tt.src, err, err)
			continue
		}
		if !strings.Contains(perr.Msg, tt.msg) {
			t.Errorf("%q: got %q, want it to mention %q", tt.src, perr.Msg, tt.msg)
		}
	}
}

func TestLexErrorPropagates(t *testing.T) {
	_, err := Parse("/* unterminated")
	if _, ok := err.(*lexer.LexError); !ok {
		t.Fatalf("expected *lexer.LexError, got %T (%v)", err, err)
	}
}

const roundTripSrc = `
const int LIMIT = 0x10, STEP = 2;
int total;

int accumulate(int n) {
    int i = 0;
    while (i < n) {
        if (i % STEP == 0 && i != 4)
            total = total + i;
        else if (i > LIMIT)
            break;
        i = i + 1;
    }
    return total;
}

void report() {
    putint(total);
    return;
}

int main() {
    total = 0;
    if (accumulate(10) >= 0)
        report();
    ;
    return !total || -total < 0;
}
`

func TestDeterministicParse(t *testing.T) {
	a, err := Parse(roundTripSrc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Parse(roundTripSrc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two parses of the same input differ")
	}
}

func TestPrintRoundTrip(t *testing.T) {
	unit, err := Parse(roundTripSrc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rendered := Print(unit)
	reparsed, err := Parse(rendered)
	if err != nil {
		t.Fatalf("reparsing rendered output: %v\n%s", err, rendered)
	}
	if again := Print(reparsed); again != rendered {
		t.Errorf("round trip not stable:\nfirst:\n%s\nsecond:\n%s", rendered, again)
	}
}
