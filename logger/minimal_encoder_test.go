package logger

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(str, "")
}

// TestMinimalEncoderNeverDiscardsFields ensures the minimal encoder never
// silently discards log fields.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder()

	entry := zapcore.Entry{
		Level:      zapcore.WarnLevel,
		Time:       time.Now(),
		LoggerName: "mirror.emitter",
		Message:    "Unsupported operator",
	}

	testFields := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String(FieldClass, "ToDoItem"), "class=ToDoItem"},
		{zap.String(FieldOperator, "%"), "operator=%"},
		{zap.Int(FieldLine, 12), "line=12"},
		{zap.Bool("public", true), "public=true"},
		{zap.Float64("ratio", 0.5), "ratio=0.5"},
		{zap.Strings("classes", []string{"A", "B"}), "classes=[A B]"},
		{zap.Error(nil), ""},
		{zap.String("field.with.dots", "x"), "field.with.dots=x"},
	}

	var allFields []zapcore.Field
	for _, tf := range testFields {
		allFields = append(allFields, tf.field)
	}

	buf, err := encoder.EncodeEntry(entry, allFields)
	if err != nil {
		t.Fatalf("Failed to encode entry: %v", err)
	}
	clean := stripANSI(buf.String())

	for _, tf := range testFields {
		if tf.mustFind != "" && !strings.Contains(clean, tf.mustFind) {
			t.Errorf("field silently discarded: %s\noutput: %s", tf.mustFind, clean)
		}
	}
	if !strings.Contains(clean, "WARN") {
		t.Errorf("warn level label missing: %s", clean)
	}
	if !strings.Contains(clean, "m.emitter") {
		t.Errorf("abbreviated component missing: %s", clean)
	}
	if !strings.HasSuffix(clean, "\n") {
		t.Errorf("entry must end with newline: %q", clean)
	}
}

func TestMinimalEncoderInfoHasNoLevelLabel(t *testing.T) {
	encoder := newMinimalEncoder()
	entry := zapcore.Entry{
		Level:   zapcore.InfoLevel,
		Time:    time.Date(2026, 1, 2, 13, 4, 35, 0, time.UTC),
		Message: "Compiled",
	}

	buf, err := encoder.EncodeEntry(entry, nil)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	clean := stripANSI(buf.String())
	if clean != "13:04:35  Compiled\n" {
		t.Errorf("unexpected info line %q", clean)
	}
}

func TestAbbreviateName(t *testing.T) {
	tests := map[string]string{
		"mirror":         "mirror",
		"mirror.emitter": "m.emitter",
		"watch.exec.run": "w.exec.run",
	}
	for in, want := range tests {
		if got := abbreviateName(in); got != want {
			t.Errorf("abbreviateName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSetTheme(t *testing.T) {
	defer SetTheme("everforest")

	SetTheme("gruvbox")
	if currentTheme != "gruvbox" {
		t.Fatalf("theme = %q, want gruvbox", currentTheme)
	}
	SetTheme("solarized")
	if currentTheme != "gruvbox" {
		t.Errorf("unknown theme should be ignored, got %q", currentTheme)
	}
}
