package mirror

import (
	"unicode"
	"unicode/utf8"
)

// LowerFirst lower-cases the first character of an identifier and leaves the
// rest untouched: ToDoItem -> toDoItem, URL -> uRL.
//
// Applied to class, member and method names. Method parameters keep the
// casing they were declared with.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	lower := unicode.ToLower(r)
	if lower == r {
		return s
	}
	return string(lower) + s[size:]
}
