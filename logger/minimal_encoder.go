package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette holds the ANSI codes for one theme
type palette struct {
	fg       string
	time     string
	accent   string // component names
	value    string // field values
	number   string
	yellow   string
	red      string
	redBg    string
	yellowBg string
}

// Gruvbox Dark (warm, muted)
var gruvbox = palette{
	fg:       "\x1b[38;5;223m",
	time:     "\x1b[38;5;108m",
	accent:   "\x1b[38;5;208m",
	value:    "\x1b[38;5;109m",
	number:   "\x1b[38;5;175m",
	yellow:   "\x1b[38;5;214m",
	red:      "\x1b[38;5;167m",
	redBg:    "\x1b[48;5;88m",
	yellowBg: "\x1b[48;5;58m",
}

// Everforest Dark (forest greens)
var everforest = palette{
	fg:       "\x1b[38;5;223m",
	time:     "\x1b[38;5;107m",
	accent:   "\x1b[38;5;108m",
	value:    "\x1b[38;5;109m",
	number:   "\x1b[38;5;108m",
	yellow:   "\x1b[38;5;179m",
	red:      "\x1b[38;5;167m",
	redBg:    "\x1b[48;5;52m",
	yellowBg: "\x1b[48;5;58m",
}

// Current active theme (set from config log.theme)
var currentTheme = "everforest"

// Themes lists the accepted values for SetTheme
var Themes = []string{"everforest", "gruvbox"}

// SetTheme configures the color scheme for log output. Unknown names are ignored.
func SetTheme(theme string) {
	for _, t := range Themes {
		if t == theme {
			currentTheme = theme
			return
		}
	}
}

func colors() palette {
	if currentTheme == "gruvbox" {
		return gruvbox
	}
	return everforest
}

// minimalEncoder implements a calm, compact console encoder with theme support
// Format: "13:04:35  WARN  mirror  Unsupported operator  class=ToDoItem operator=%"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	c := colors()
	final := buffer.NewPool().Get()

	final.AppendString(c.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only show for non-INFO entries
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(c.accent)
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(c.fg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	if rendered := formatFields(fields); rendered != "" {
		final.AppendString("  ")
		final.AppendString(rendered)
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for the level label
func levelColorString(level zapcore.Level) string {
	c := colors()

	switch level {
	case zapcore.DebugLevel:
		return c.value + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + c.yellowBg + c.yellow + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + c.redBg + c.red + "ERROR" + colorReset
	default:
		return colorBold + c.redBg + c.red + level.CapitalString() + colorReset
	}
}

// abbreviateName shortens component names: mirror.emitter -> m.emitter
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// formatFields renders every field as key=value, in the order given.
// No field is ever dropped; skipped fields (zap.Error(nil)) render nothing.
func formatFields(fields []zapcore.Field) string {
	if len(fields) == 0 {
		return ""
	}

	c := colors()
	enc := zapcore.NewMapObjectEncoder()
	parts := make([]string, 0, len(fields))

	for _, field := range fields {
		if field.Type == zapcore.SkipType {
			continue
		}
		field.AddTo(enc)
		value, ok := enc.Fields[field.Key]
		if !ok {
			continue
		}

		color := c.value
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			color = c.number
		}
		parts = append(parts, fmt.Sprintf("%s=%s%v%s", field.Key, color, value, colorReset))
	}

	return strings.Join(parts, " ")
}
