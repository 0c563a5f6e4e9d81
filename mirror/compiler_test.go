package mirror

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teranos/mirror/errors"
)

const mixedSource = `namespace Demo
{
    [JavaScript]
    public class ToDoItem
    {
        public string title { get; set; }
    }

    public class Controller
    {
        public int Count;
    }

    [JavaScript]
    public class ToDoList
    {
        public bool done;
    }
}
`

func quietCompiler(opts ...Option) *Compiler {
	return NewCompiler(append([]Option{WithLogger(zap.NewNop().Sugar())}, opts...)...)
}

func TestCompileFiltered(t *testing.T) {
	var out strings.Builder
	report, err := quietCompiler().Compile(&out, mixedSource)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "var toDoItem = function() {")
	assert.Contains(t, got, "var toDoList = function() {")
	assert.NotContains(t, got, "controller")
	assert.Less(t, strings.Index(got, "toDoItem"), strings.Index(got, "toDoList"),
		"classes are emitted in selection order")

	assert.Equal(t, []string{"ToDoItem", "ToDoList"}, report.Classes)
	assert.Equal(t, ModeFiltered, report.Mode)
	assert.Equal(t, "JavaScript", report.Marker)
	assert.NotEmpty(t, report.RunID)
}

func TestEmitJSBypassesFilter(t *testing.T) {
	var out strings.Builder
	report, err := quietCompiler().EmitJS(&out, mixedSource)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "var toDoItem = function() {")
	assert.Contains(t, got, "var controller = function() {")
	assert.Contains(t, got, "var toDoList = function() {")
	assert.Equal(t, []string{"ToDoItem", "Controller", "ToDoList"}, report.Classes)
	assert.Equal(t, ModeUnfiltered, report.Mode)
	assert.Empty(t, report.Marker)
}

func TestEmitJSString(t *testing.T) {
	got := EmitJSString(`class Point { public int X; public int Y; }`)
	assert.Equal(t, "var point = function() {\n  var self = this;\n  return {\n    x: \"\",\n    y: \"\",\n  };\n};\n", got)
}

func TestCompileCustomMarkerAndDefaults(t *testing.T) {
	src := `[Mirror] class A { public int N; } [JavaScript] class B { }`
	c := quietCompiler(
		WithMarker("Mirror"),
		WithDefaults(NewDefaultValues().Register("int", "0")),
	)

	var out strings.Builder
	report, err := c.Compile(&out, src)
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, report.Classes)
	assert.Contains(t, out.String(), "    n: 0,\n")
	assert.Equal(t, "Mirror", c.Marker())
}

func TestCompileBuffersDoNotLeakBetweenClasses(t *testing.T) {
	src := `[JavaScript] class A { public string Only; private int secret; }
[JavaScript] class B { public bool Flag; }`

	var out strings.Builder
	_, err := quietCompiler().Compile(&out, src)
	require.NoError(t, err)

	got := out.String()
	second := got[strings.Index(got, "var b = function()"):]
	assert.NotContains(t, second, "only")
	assert.NotContains(t, second, "secret")
	assert.Contains(t, second, "flag: false")
}

func TestCompileCollectsDiagnosticsAndParseErrors(t *testing.T) {
	src := `[JavaScript] class A { public int F(int a) { return a % 2; } public int x = ; }`

	var out strings.Builder
	report, err := quietCompiler().Compile(&out, src)
	require.NoError(t, err, "parse errors and diagnostics are not fatal")

	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, "%", report.Diagnostics[0].Operator)
	assert.True(t, report.HasParseErrors())
	assert.Contains(t, out.String(), "return a % 2;")
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ToDoItem.cs")
	require.NoError(t, os.WriteFile(path, []byte(mixedSource), 0644))

	var out strings.Builder
	report, err := quietCompiler().CompileFile(&out, path)
	require.NoError(t, err)
	assert.Equal(t, path, report.Source)
	assert.Len(t, report.Classes, 2)
}

func TestCompileFileMissing(t *testing.T) {
	var out strings.Builder
	_, err := quietCompiler().CompileFile(&out, filepath.Join(t.TempDir(), "nope.cs"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.Empty(t, out.String())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestCompileWriteError(t *testing.T) {
	report, err := quietCompiler().Compile(failingWriter{}, `[JavaScript] class A {}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write module for A")
	assert.Empty(t, report.Classes)
}
