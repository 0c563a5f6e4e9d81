package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/mirror/am"
	"github.com/teranos/mirror/errors"
	"github.com/teranos/mirror/mirror"
	"github.com/teranos/mirror/version"
	"github.com/teranos/mirror/watch"
)

const modelsSource = `namespace App.Models
{
    [JavaScript]
    public class ToDoItem
    {
        public string Title { get; set; }
        public bool Completed { get; set; }
    }

    [ClientModel]
    public class Tag
    {
        public int Weight;
    }
}`

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

func writeSource(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "Models.cs")
	require.NoError(t, os.WriteFile(path, []byte(modelsSource), 0644))
	return path
}

func TestLegacyOutputPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "input only", args: []string{"in.cs"}, want: ""},
		{name: "two arguments still write to stdout", args: []string{"in.cs", "out.js"}, want: ""},
		{name: "three arguments use the second", args: []string{"in.cs", "out.js", "extra"}, want: "out.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LegacyOutputPath(tt.args))
		})
	}
}

func TestRunLegacy(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir)

	t.Run("stdout", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		require.NoError(t, RunLegacy(am.DefaultConfig(), []string{input, filepath.Join(dir, "ignored.js")}, &stdout, &stderr))

		assert.True(t, strings.HasPrefix(stdout.String(), "var toDoItem = function() {\n"))
		assert.NotContains(t, stdout.String(), "tag", "unmarked classes are skipped")
		assert.NoFileExists(t, filepath.Join(dir, "ignored.js"))
	})

	t.Run("output file", func(t *testing.T) {
		out := filepath.Join(dir, "models.js")
		var stdout, stderr bytes.Buffer
		require.NoError(t, RunLegacy(am.DefaultConfig(), []string{input, out, "x"}, &stdout, &stderr))

		assert.Empty(t, stdout.String())
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(data), "    title: \"\",\n    completed: false,\n")
	})

	t.Run("output cannot be created", func(t *testing.T) {
		out := filepath.Join(dir, "missing", "models.js")
		var stdout, stderr bytes.Buffer
		err := RunLegacy(am.DefaultConfig(), []string{input, out, "x"}, &stdout, &stderr)

		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, 1, exitErr.Code)
		assert.Equal(t, "Failed to create output file.\n", stdout.String())
	})

	t.Run("no arguments", func(t *testing.T) {
		err := RunLegacy(am.DefaultConfig(), nil, &bytes.Buffer{}, &bytes.Buffer{})
		assert.True(t, errors.IsInvalidRequestError(err))
	})
}

func TestRunCompile(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir)

	t.Run("configured marker and defaults", func(t *testing.T) {
		c := am.DefaultConfig()
		c.Mirror.Marker = "ClientModel"
		c.Mirror.Defaults = []am.DefaultLiteral{{Type: "int", Literal: "0"}}

		var stdout, stderr bytes.Buffer
		report, err := runCompile(c, compileOptions{Input: input}, nil, &stdout, &stderr)
		require.NoError(t, err)

		assert.Equal(t, []string{"Tag"}, report.Classes)
		assert.Contains(t, stdout.String(), "var tag = function() {")
		assert.Contains(t, stdout.String(), "    weight: 0,\n")
	})

	t.Run("marker flag wins over config", func(t *testing.T) {
		c := am.DefaultConfig()
		c.Mirror.Marker = "ClientModel"

		report, err := runCompile(c, compileOptions{Input: input, Marker: "JavaScript"}, nil, &bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, []string{"ToDoItem"}, report.Classes)
	})

	t.Run("stdin unfiltered", func(t *testing.T) {
		var stdout bytes.Buffer
		stdin := strings.NewReader(`class Scratch { public int Add(int A) { return A + 1; } }`)
		report, err := runCompile(am.DefaultConfig(), compileOptions{Input: "-", Unfiltered: true}, stdin, &stdout, &bytes.Buffer{})
		require.NoError(t, err)

		assert.Equal(t, []string{"Scratch"}, report.Classes)
		assert.Contains(t, stdout.String(), "  function add(A) {\n    return a + 1;\n  }\n")
	})

	t.Run("report file", func(t *testing.T) {
		reportPath := filepath.Join(dir, "report.json")
		var stderr bytes.Buffer
		_, err := runCompile(am.DefaultConfig(), compileOptions{
			Input:  input,
			Output: filepath.Join(dir, "out.js"),
			Report: reportPath,
		}, nil, &bytes.Buffer{}, &stderr)
		require.NoError(t, err)

		report, err := mirror.ReadReport(reportPath)
		require.NoError(t, err)
		assert.Equal(t, input, report.Source)
		assert.Equal(t, mirror.ModeFiltered, report.Mode)
		assert.Contains(t, stderr.String(), "Wrote 1 module(s)")
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := runCompile(am.DefaultConfig(), compileOptions{Input: filepath.Join(dir, "nope.cs")}, nil, &bytes.Buffer{}, &bytes.Buffer{})
		assert.True(t, errors.Is(err, errors.ErrNotFound))
	})
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir)
	generated := filepath.Join(dir, "models.js")

	_, err := runCompile(am.DefaultConfig(), compileOptions{Input: input, Output: generated}, nil, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)

	var stdout bytes.Buffer
	require.NoError(t, runCheck(am.DefaultConfig(), compileOptions{Input: input}, generated, &stdout))
	assert.Contains(t, stdout.String(), "is up to date")

	require.NoError(t, os.WriteFile(generated, []byte("var stale = 1;\n"), 0644))
	stdout.Reset()
	err = runCheck(am.DefaultConfig(), compileOptions{Input: input}, generated, &stdout)
	assert.True(t, errors.IsOutOfDateError(err))
	assert.Contains(t, stdout.String(), "is out of date")
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir)
	manifest := filepath.Join(dir, "mirror.batch.toml")
	require.NoError(t, os.WriteFile(manifest, []byte(`requires = ">= 1.0"

[[unit]]
input  = "Models.cs"
output = "models.js"
`), 0644))

	t.Run("compiles units", func(t *testing.T) {
		var stderr bytes.Buffer
		err := runBatch(context.Background(), am.DefaultConfig(), manifest, version.Info{Version: "1.2.0"}, &bytes.Buffer{}, &stderr)
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(dir, "models.js"))
		assert.Contains(t, stderr.String(), "Models")
		assert.Contains(t, stderr.String(), "ok")
	})

	t.Run("version too old", func(t *testing.T) {
		err := runBatch(context.Background(), am.DefaultConfig(), manifest, version.Info{Version: "0.9.0"}, &bytes.Buffer{}, &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestRunWatchNeedsOutput(t *testing.T) {
	err := runWatch(context.Background(), am.DefaultConfig(), compileOptions{Input: "Models.cs"}, watch.Options{}, &bytes.Buffer{})
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestRunAmShow(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runAmShow(&out, am.DefaultConfig(), am.FormatJSON))
	assert.Contains(t, out.String(), `"marker": "JavaScript"`)

	out.Reset()
	require.NoError(t, runAmShow(&out, am.DefaultConfig(), am.FormatTOML))
	assert.True(t, strings.HasPrefix(out.String(), "# mirror configuration\n"))

	assert.True(t, errors.IsInvalidRequestError(runAmShow(&out, am.DefaultConfig(), "ini")))
}

func TestRunAmInit(t *testing.T) {
	dir := t.TempDir()
	c := am.DefaultConfig()
	c.Mirror.Marker = "ClientModel"

	var out bytes.Buffer
	require.NoError(t, runAmInit(&out, dir, c))
	assert.Contains(t, out.String(), am.ProjectConfigName)

	loaded, err := am.LoadFromFile(filepath.Join(dir, am.ProjectConfigName))
	require.NoError(t, err)
	assert.Equal(t, "ClientModel", loaded.Mirror.Marker)
}

func TestPrintVersion(t *testing.T) {
	info := version.Info{Version: "1.2.0", CommitHash: "abc1234", BuildTime: "now", Platform: "linux/amd64", GoVersion: "go1.24"}

	var out bytes.Buffer
	require.NoError(t, printVersion(&out, info, true))
	assert.Contains(t, out.String(), `"version": "1.2.0"`)

	out.Reset()
	require.NoError(t, printVersion(&out, info, false))
	assert.Contains(t, out.String(), "mirror 1.2.0 (commit abc1234, built now)")
	assert.Contains(t, out.String(), "Platform: linux/amd64")
}
