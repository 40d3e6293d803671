package compiler

import (
	"strings"
	"testing"

	"github.com/timetraveler314/SysY-Compiler/lib/parser"
)

func compileSrc(t *testing.T, src string) string {
	t.Helper()
	unit, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	c := NewCompiler()
	if err := c.Compile(unit); err != nil {
		t.Fatalf("compiling: %v", err)
	}
	return c.Module.String()
}

func wantContains(t *testing.T, ir, sub string) {
	t.Helper()
	if !strings.Contains(ir, sub) {
		t.Errorf("IR does not contain %q:\n%s", sub, ir)
	}
}

func wantNotContains(t *testing.T, ir, sub string) {
	t.Helper()
	if strings.Contains(ir, sub) {
		t.Errorf("IR unexpectedly contains %q:\n%s", sub, ir)
	}
}

func TestMainSkeleton(t *testing.T) {
	ir := compileSrc(t, "int main() { return 0; }")
	wantContains(t, ir, "define i32 @main()")
	wantContains(t, ir, "ret i32 0")
	wantContains(t, ir, "declare i32 @getint()")
	wantContains(t, ir, "declare void @putint(i32")
}

func TestConstantsFoldToImmediates(t *testing.T) {
	ir := compileSrc(t, "const int a = 2; int main() { return a + 1; }")
	wantContains(t, ir, "add i32 2, 1")
	// No storage is allocated for a constant.
	wantNotContains(t, ir, "alloca")
}

func TestGlobalVariables(t *testing.T) {
	ir := compileSrc(t, "int g = 3; int main() { g = g + 1; return g; }")
	wantContains(t, ir, "@g = global i32 3")
	wantContains(t, ir, "load i32, i32* @g")
	wantContains(t, ir, "store i32")
}

func TestGlobalInitializerMustBeConstant(t *testing.T) {
	unit, err := parser.Parse("int g = getint(); int main() { return g; }")
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	if err := NewCompiler().Compile(unit); err == nil {
		t.Fatal("expected an error")
	}
}

func TestLocalsAndParams(t *testing.T) {
	ir := compileSrc(t, `
		int twice(int n) { return n * 2; }
		int main() { int x = twice(21); return x; }
	`)
	wantContains(t, ir, "define i32 @twice(i32 %n)")
	wantContains(t, ir, "alloca i32")
	wantContains(t, ir, "call i32 @twice(i32 21)")
}

func TestIfElseBlocks(t *testing.T) {
	ir := compileSrc(t, `int main() {
		int x = getint();
		if (x > 0) putint(1); else putint(0);
		return 0;
	}`)
	wantContains(t, ir, "if.then")
	wantContains(t, ir, "if.else")
	wantContains(t, ir, "if.merge")
	wantContains(t, ir, "icmp sgt i32")
	wantContains(t, ir, "br i1")
}

func TestWhileLoopWithBreakContinue(t *testing.T) {
	ir := compileSrc(t, `int main() {
		int i = 0;
		while (i < 10) {
			i = i + 1;
			if (i == 3) continue;
			if (i == 7) break;
			putint(i);
		}
		return i;
	}`)
	wantContains(t, ir, "while.cond")
	wantContains(t, ir, "while.body")
	wantContains(t, ir, "while.leave")
	wantContains(t, ir, "br label %while.cond")
	wantContains(t, ir, "br label %while.leave")
}

func TestShortCircuitLowering(t *testing.T) {
	ir := compileSrc(t, `int main() {
		int a = getint();
		int b = a && getint();
		int c = a || getint();
		return b + c;
	}`)
	wantContains(t, ir, "logic.rhs")
	wantContains(t, ir, "logic.merge")
	wantContains(t, ir, "icmp ne i32")
}

func TestVoidFunctionImplicitReturn(t *testing.T) {
	ir := compileSrc(t, "void hello() { putch(104); } int main() { hello(); return 0; }")
	wantContains(t, ir, "define void @hello()")
	wantContains(t, ir, "ret void")
	wantContains(t, ir, "call void @hello()")
}

func TestMainFallsOffEndReturnsZero(t *testing.T) {
	ir := compileSrc(t, "int main() { putint(1); }")
	wantContains(t, ir, "ret i32 0")
}

func TestUnreachableCodeDropped(t *testing.T) {
	ir := compileSrc(t, "int main() { return 1; putint(2); }")
	wantNotContains(t, ir, "call void @putint")
	wantContains(t, ir, "ret i32 1")
}

func TestUnaryLowering(t *testing.T) {
	ir := compileSrc(t, "int main() { int x = getint(); return -x + !x; }")
	wantContains(t, ir, "sub i32 0,")
	wantContains(t, ir, "icmp eq i32")
	wantContains(t, ir, "zext i1")
}

func TestScopedShadowing(t *testing.T) {
	// The inner x gets its own alloca; the outer one is untouched by
	// the inner store.
	ir := compileSrc(t, `int main() {
		int x = 1;
		{ int x = 2; putint(x); }
		return x;
	}`)
	if n := strings.Count(ir, "alloca i32"); n != 2 {
		t.Errorf("got %d allocas, want 2:\n%s", n, ir)
	}
}

func TestUndefinedNameWithoutAnalyzer(t *testing.T) {
	unit, err := parser.Parse("int main() { return y; }")
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	err = NewCompiler().Compile(unit)
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := err.(*Error); !ok {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
}
