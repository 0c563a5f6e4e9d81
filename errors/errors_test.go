package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "try this fix")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestWrapOutputCreate(t *testing.T) {
	err := WrapOutputCreate(New("permission denied"), "/readonly/out.js")

	require.Error(t, err)
	assert.True(t, IsOutputCreateError(err))
	assert.False(t, IsInvalidRequestError(err))
	assert.Contains(t, err.Error(), "/readonly/out.js")
	assert.Contains(t, err.Error(), "permission denied")
}

func TestSentinelPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
		want bool
	}{
		{"nil output error", nil, IsOutputCreateError, false},
		{"nil invalid request", nil, IsInvalidRequestError, false},
		{"invalid request", NewInvalidRequestError("bad marker %q", "1x"), IsInvalidRequestError, true},
		{"wrapped out of date", Wrap(ErrOutOfDate, "models.js"), IsOutOfDateError, true},
		{"unrelated", New("boom"), IsOutOfDateError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pred(tt.err))
		})
	}
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
}

func ExampleWrap() {
	baseErr := New("no such file")
	err := Wrap(baseErr, "failed to read Models/ToDoItem.cs")
	fmt.Println(err)
	// Output: failed to read Models/ToDoItem.cs: no such file
}
