package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowerFirst(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ToDoItem", "toDoItem"},
		{"toDoItem", "toDoItem"},
		{"URL", "uRL"},
		{"X", "x"},
		{"_private", "_private"},
		{"Élan", "élan"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, LowerFirst(tt.in))
		})
	}
}

func TestLowerFirstIsIdempotent(t *testing.T) {
	for _, in := range []string{"Post", "post", "HTTPClient", "Ünicode", "a1", "9Lives", ""} {
		once := LowerFirst(in)
		assert.Equal(t, once, LowerFirst(once), "LowerFirst(%q)", in)
	}
}

func TestLowerFirstChangesOnlyFirstCharacter(t *testing.T) {
	for _, in := range []string{"ToDoItem", "ABC", "Ab_Cd", "Über"} {
		out := []rune(LowerFirst(in))
		orig := []rune(in)
		assert.Equal(t, len(orig), len(out))
		assert.Equal(t, orig[1:], out[1:], "rest of %q must be untouched", in)
	}
}
