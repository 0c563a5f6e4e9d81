package syntax

import "fmt"

type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF
	IDENT
	NUMBER
	STRING
	CHAR

	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	SEMICOLON
	COLON
	DOT
	QUESTION
	ARROW

	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	BANG
	AMP
	PIPE
	CARET
	ASSIGN
	PLUSEQ
	MINUSEQ
	STAREQ
	SLASHEQ
	EQEQ
	BANGEQ
	LT
	LTEQ
	GT
	GTEQ
	ANDAND
	OROR
	PLUSPLUS
	MINUSMINUS

	USING
	NAMESPACE
	CLASS
	STRUCT
	INTERFACE
	ENUM
	RETURN
	FOREACH
	IN
	IF
	ELSE
	NEW
	TRUE
	FALSE
	NULL
)

type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

func (t Token) String() string {
	if t.Type == EOF {
		return "end of file"
	}
	return fmt.Sprintf("%q", t.Literal)
}

var keywords = map[string]TokenType{
	"using":     USING,
	"namespace": NAMESPACE,
	"class":     CLASS,
	"struct":    STRUCT,
	"interface": INTERFACE,
	"enum":      ENUM,
	"return":    RETURN,
	"foreach":   FOREACH,
	"in":        IN,
	"if":        IF,
	"else":      ELSE,
	"new":       NEW,
	"true":      TRUE,
	"false":     FALSE,
	"null":      NULL,
}

// modifiers are parsed as plain identifiers and collected on declarations
var modifiers = map[string]bool{
	"public":    true,
	"private":   true,
	"protected": true,
	"internal":  true,
	"static":    true,
	"readonly":  true,
	"const":     true,
	"virtual":   true,
	"override":  true,
	"abstract":  true,
	"sealed":    true,
	"partial":   true,
	"async":     true,
	"extern":    true,
	"volatile":  true,
	"unsafe":    true,
	"required":  true,
	"event":     true,
}

func lookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// binaryPrecedence returns the binding power of a binary operator token, or 0.
func binaryPrecedence(t TokenType) int {
	switch t {
	case OROR:
		return 1
	case ANDAND:
		return 2
	case PIPE:
		return 3
	case CARET:
		return 4
	case AMP:
		return 5
	case EQEQ, BANGEQ:
		return 6
	case LT, LTEQ, GT, GTEQ:
		return 7
	case PLUS, MINUS:
		return 8
	case STAR, SLASH, PERCENT:
		return 9
	}
	return 0
}

func isAssignOp(t TokenType) bool {
	switch t {
	case ASSIGN, PLUSEQ, MINUSEQ, STAREQ, SLASHEQ:
		return true
	}
	return false
}
