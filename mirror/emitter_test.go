package mirror

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/mirror/syntax"
)

// emitClass parses src, which must hold exactly one class, and emits it.
func emitClass(t *testing.T, src string, log *zap.SugaredLogger) (string, *Emitter) {
	t.Helper()
	unit, errs := syntax.Parse(src, syntax.Options{Marker: syntax.DefaultMarker})
	require.Empty(t, errs)
	classes := AllClasses(unit)
	require.Len(t, classes, 1)

	em := newEmitter(classes[0], NewDefaultValues(), log)
	var out strings.Builder
	require.NoError(t, em.Emit(&out))
	return out.String(), em
}

func TestEmitModulePattern(t *testing.T) {
	src := `[JavaScript]
public class ToDoItem
{
    string Secret { get; set; }
    public string Title { get; set; }
    public bool Completed { get; set; }
    public int Post(int Item)
    {
        return Item + 1;
    }
}`
	want := `var toDoItem = function() {
  var self = this;
  var secret = "";
  function post(Item) {
    return item + 1;
  }

  return {
    title: "",
    completed: false,
    post: post,
  };
};
`
	got, em := emitClass(t, src, nil)
	assert.Equal(t, want, got)
	assert.Empty(t, em.Diagnostics())
}

func TestEmitDefaultValues(t *testing.T) {
	got, _ := emitClass(t, `class A { public string title; public bool completed; }`, nil)

	assert.Contains(t, got, "    title: \"\",\n")
	assert.Contains(t, got, "    completed: false,\n")
}

func TestEmitPublicMethod(t *testing.T) {
	got, _ := emitClass(t, `class A { public void Post() { } }`, nil)

	fn := strings.Index(got, "  function post() {\n  }\n")
	ref := strings.Index(got, "    post: post,\n")
	require.NotEqual(t, -1, fn, "private function missing:\n%s", got)
	require.NotEqual(t, -1, ref, "accumulator entry missing:\n%s", got)
	assert.Less(t, fn, ref, "function must be declared before it is referenced")
}

func TestEmitPrivateMethodIsNotExposed(t *testing.T) {
	got, _ := emitClass(t, `class A { void Helper() { } }`, nil)

	assert.Contains(t, got, "function helper()")
	assert.NotContains(t, got, "helper: helper")
}

func TestEmitParametersKeepCasing(t *testing.T) {
	got, _ := emitClass(t, `class A { public int Sum(int First, int Second) { return First + Second; } }`, nil)

	assert.Contains(t, got, "function sum(First, Second) {")
	assert.Contains(t, got, "return first + second;")
}

func TestEmitInitializers(t *testing.T) {
	src := `class A {
    public int Count = 3;
    private string label = "it's \"raw\"";
    public string Name { get; set; } = "none";
    public List<string> Tags = new List<string>();
}`
	got, _ := emitClass(t, src, nil)

	assert.Contains(t, got, "    count: 3,\n")
	assert.Contains(t, got, "  var label = \"it's \\\"raw\\\"\";\n", "literals are emitted verbatim")
	assert.Contains(t, got, "    name: \"none\",\n")
	assert.Contains(t, got, "    tags: \"\",\n", "an initializer that lowers to nothing falls back to the default")
}

func TestEmitPublicAccumulatorOrder(t *testing.T) {
	src := `class A {
    public string A1;
    private string b;
    public void M() { }
    int c;
    public bool D;
}`
	got, _ := emitClass(t, src, nil)

	trailer := got[strings.Index(got, "  return {\n"):]
	assert.Equal(t, "  return {\n    a1: \"\",\n    m: m,\n    d: false,\n  };\n};\n", trailer)

	body := got[:strings.Index(got, "  return {\n")]
	assert.Less(t, strings.Index(body, "var b ="), strings.Index(body, "function m()"))
	assert.Less(t, strings.Index(body, "function m()"), strings.Index(body, "var c ="))
}

func TestEmitForEachEnumeratesKeys(t *testing.T) {
	src := `class A {
    public void Each(List<int> Items) {
        foreach (var x in Items) {
            total + x;
            foreach (int y in x) y * 2;
        }
    }
}`
	got, _ := emitClass(t, src, nil)

	want := "" +
		"  function each(Items) {\n" +
		"    for (var x in items) {\n" +
		"      total + x;\n" +
		"      for (var y in x) {\n" +
		"        y * 2;\n" +
		"      }\n" +
		"    }\n" +
		"  }\n"
	assert.Contains(t, got, want)
	// for-in yields keys, so there must be no element-value iteration
	assert.NotContains(t, got, " of ")
}

func TestEmitOmitsUnsupportedStatements(t *testing.T) {
	src := `class A {
    public int F() {
        var local = 1;
        Log(local);
        while (true) { }
        if (local > 0) { return 1; }
        return;
    }
}`
	got, _ := emitClass(t, src, nil)

	assert.Contains(t, got, "  function f() {\n    return;\n  }\n")
}

func TestLowerExpr(t *testing.T) {
	em := newEmitter(&syntax.ClassDecl{Name: "C"}, nil, nil)

	tests := []struct {
		name string
		expr syntax.Expr
		want string
	}{
		{
			name: "identifiers are casing converted",
			expr: &syntax.BinaryExpr{Op: "+", Left: &syntax.IdentExpr{Name: "A"}, Right: &syntax.IdentExpr{Name: "B"}},
			want: "a + b",
		},
		{
			name: "literal passthrough",
			expr: &syntax.LiteralExpr{Raw: `@"C:\dir"`},
			want: `@"C:\dir"`,
		},
		{
			name: "nested binary",
			expr: &syntax.BinaryExpr{
				Op:    "*",
				Left:  &syntax.BinaryExpr{Op: "-", Left: &syntax.IdentExpr{Name: "Total"}, Right: &syntax.LiteralExpr{Raw: "1"}},
				Right: &syntax.LiteralExpr{Raw: "2.5"},
			},
			want: "total - 1 * 2.5",
		},
		{
			name: "grouping kept",
			expr: &syntax.ParenExpr{X: &syntax.BinaryExpr{Op: "+", Left: &syntax.IdentExpr{Name: "A"}, Right: &syntax.LiteralExpr{Raw: "1"}}},
			want: "(a + 1)",
		},
		{name: "empty grouping omitted", expr: &syntax.ParenExpr{X: &syntax.CallExpr{}}, want: ""},
		{name: "call omitted", expr: &syntax.CallExpr{Fun: &syntax.IdentExpr{Name: "F"}}, want: ""},
		{name: "member access omitted", expr: &syntax.MemberExpr{X: &syntax.IdentExpr{Name: "a"}, Name: "B"}, want: ""},
		{name: "nil omitted", expr: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, em.lowerExpr(tt.expr))
		})
	}
	assert.Empty(t, em.Diagnostics())
}

func TestLowerStmtWildcard(t *testing.T) {
	em := newEmitter(&syntax.ClassDecl{Name: "C"}, nil, nil)

	assert.Equal(t, "", em.lowerStmt(&syntax.LocalVarStmt{Name: "x"}, 2))
	assert.Equal(t, "", em.lowerStmt(&syntax.UnsupportedStmt{Keyword: "while"}, 2))
	assert.Equal(t, "", em.lowerStmt(&syntax.ExprStmt{X: &syntax.CallExpr{}}, 2))
	assert.Equal(t, "    a;\n", em.lowerStmt(&syntax.ExprStmt{X: &syntax.IdentExpr{Name: "A"}}, 2))
	assert.Equal(t, "    return;\n", em.lowerStmt(&syntax.ReturnStmt{}, 2))
}

func TestUnsupportedOperatorDiagnostic(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := zap.New(core).Sugar()

	src := `class Calc { public int Mod(int a, int b) { return a % b; } }`
	got, em := emitClass(t, src, log)

	// best-effort passthrough
	assert.Contains(t, got, "return a % b;")

	diags := em.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "Calc", diags[0].Class)
	assert.Equal(t, "%", diags[0].Operator)
	assert.Equal(t, "Unsupported operator: %", diags[0].Message)
	assert.Equal(t, 1, diags[0].Position.Line)

	entries := logs.FilterMessage("Unsupported operator").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "Calc", fields["class"])
	assert.Equal(t, "%", fields["operator"])
}

func TestSupportedOperatorsHaveNoDiagnostic(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	em := newEmitter(&syntax.ClassDecl{Name: "C"}, nil, zap.New(core).Sugar())

	for _, op := range []string{"+", "-", "*", "/"} {
		got := em.lowerExpr(&syntax.BinaryExpr{Op: op, Left: &syntax.IdentExpr{Name: "a"}, Right: &syntax.IdentExpr{Name: "b"}})
		assert.Equal(t, "a "+op+" b", got)
	}
	assert.Empty(t, em.Diagnostics())
	assert.Zero(t, logs.Len())

	for _, op := range []string{"%", "==", "&&", "??"} {
		em.lowerExpr(&syntax.BinaryExpr{Op: op, Left: &syntax.IdentExpr{Name: "a"}, Right: &syntax.IdentExpr{Name: "b"}})
	}
	assert.Len(t, em.Diagnostics(), 4)
	assert.Equal(t, 4, logs.Len())
}
