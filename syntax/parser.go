package syntax

import (
	"fmt"
	"strings"
)

// Options control parsing.
type Options struct {
	// Marker is the attribute name that tags a class for translation.
	// An empty marker tags nothing.
	Marker string
}

// DefaultMarker is the attribute name classes carry when they should be mirrored.
const DefaultMarker = "JavaScript"

// Parse builds a syntax tree for the given source while collecting errors.
// The returned unit is never nil; declarations that could not be parsed are
// skipped and reported.
func Parse(source string, opts Options) (*CompilationUnit, []*ParseError) {
	lexer := NewLexer(source)
	tokens := make([]Token, 0, 256)
	var errs []*ParseError

	for {
		tok := lexer.NextToken()
		if tok.Type == ILLEGAL {
			errs = append(errs, lexicalError(tok))
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			break
		}
	}

	p := &parser{
		tokens: tokens,
		errs:   errs,
		marker: opts.Marker,
	}
	unit := p.parseCompilationUnit()
	return unit, p.errs
}

func lexicalError(tok Token) *ParseError {
	switch {
	case strings.HasPrefix(tok.Literal, "'"):
		return NewParseError(ErrorKindLexical, "unterminated character literal").
			WithPosition(tok.Pos).
			WithSuggestion("close the literal with '")
	case strings.ContainsAny(tok.Literal, `"`):
		return NewParseError(ErrorKindLexical, "unterminated string literal").
			WithPosition(tok.Pos).
			WithSuggestion(`close the literal with "`)
	}
	return NewParseError(ErrorKindLexical, fmt.Sprintf("unexpected character %q", tok.Literal)).
		WithPosition(tok.Pos)
}

type parser struct {
	tokens []Token
	pos    int
	errs   []*ParseError
	marker string
}

// unsupportedStatements are recognised only far enough to be skipped
var unsupportedStatements = map[string]bool{
	"for":      true,
	"while":    true,
	"do":       true,
	"switch":   true,
	"try":      true,
	"throw":    true,
	"break":    true,
	"continue": true,
	"lock":     true,
	"yield":    true,
	"goto":     true,
	"checked":  true,
	"fixed":    true,
}

func (p *parser) parseCompilationUnit() *CompilationUnit {
	unit := &CompilationUnit{}
	unit.Decls = p.parseDecls(unit, EOF)
	return unit
}

// parseDecls parses namespace-level declarations until the closing token.
// Using directives found along the way are recorded on unit.
func (p *parser) parseDecls(unit *CompilationUnit, until TokenType) []Decl {
	var decls []Decl
	for !p.check(until) && !p.isAtEnd() {
		start := p.pos

		switch {
		case p.match(SEMICOLON):
		case p.match(USING):
			if name := p.skipUsing(); name != "" {
				unit.Usings = append(unit.Usings, name)
			}
		case p.check(NAMESPACE):
			decls = append(decls, p.parseNamespace(unit))
		default:
			attrs := p.parseAttributes()
			mods := p.parseModifiers()
			switch {
			case p.check(CLASS), p.check(STRUCT):
				decls = append(decls, p.parseClass(attrs, mods))
			case p.check(INTERFACE), p.check(ENUM):
				p.skipTypeDecl()
			case len(attrs) > 0 && (p.check(NAMESPACE) || p.check(USING) || p.isAtEnd()):
				// assembly-level attributes stand alone
			default:
				p.errorAtCurrent("expected namespace or class declaration")
				p.syncMember()
			}
		}

		if p.pos == start {
			p.advance()
		}
	}
	return decls
}

func (p *parser) skipUsing() string {
	if p.check(IDENT) && p.peek().Literal == "static" {
		p.advance()
	}
	// alias: using Json = System.Text.Json;
	if p.check(IDENT) && p.peekAt(1).Type == ASSIGN {
		p.advance()
		p.advance()
	}
	var parts []string
	for !p.check(SEMICOLON) && !p.isAtEnd() {
		parts = append(parts, p.advance().Literal)
	}
	p.expect(SEMICOLON, "expected ';' after using directive")
	return strings.Join(parts, "")
}

func (p *parser) parseNamespace(unit *CompilationUnit) *NamespaceDecl {
	kw := p.advance()
	ns := &NamespaceDecl{pos: kw.Pos}
	ns.Name = p.parseQualifiedName("expected namespace name")

	// file-scoped: namespace A.B;
	if p.match(SEMICOLON) {
		ns.Decls = p.parseDecls(unit, EOF)
		return ns
	}

	p.expect(LBRACE, "expected '{' to start namespace body")
	ns.Decls = p.parseDecls(unit, RBRACE)
	p.expect(RBRACE, "expected '}' to close namespace body")
	return ns
}

// parseAttributes consumes every attribute list before a declaration and
// returns the attribute names as written.
func (p *parser) parseAttributes() []string {
	var names []string
	for p.check(LBRACKET) {
		p.advance()
		for !p.check(RBRACKET) && !p.isAtEnd() {
			// target specifier: [assembly: Foo]
			if p.check(IDENT) && p.peekAt(1).Type == COLON {
				p.advance()
				p.advance()
			}
			name := p.parseQualifiedName("expected attribute name")
			if name != "" {
				names = append(names, name)
			}
			if p.check(LPAREN) {
				p.skipBalanced(LPAREN, RPAREN)
			}
			if !p.match(COMMA) {
				break
			}
		}
		p.expect(RBRACKET, "expected ']' to close attribute list")
	}
	return names
}

func (p *parser) parseModifiers() []string {
	var mods []string
	for p.check(IDENT) && modifiers[p.peek().Literal] {
		mods = append(mods, p.advance().Literal)
	}
	return mods
}

func (p *parser) parseClass(attrs, mods []string) *ClassDecl {
	p.advance() // class or struct
	nameTok := p.expect(IDENT, "expected class name")
	class := &ClassDecl{
		Name:       nameTok.Literal,
		Attributes: attrs,
		Modifiers:  mods,
		pos:        nameTok.Pos,
	}
	class.Marked = p.marker != "" && class.HasAttribute(p.marker)

	if p.check(LT) {
		p.skipBalanced(LT, GT)
	}
	if p.match(COLON) {
		for {
			base, ok := p.parseType()
			if !ok {
				p.errorAtCurrent("expected base type")
				break
			}
			class.Bases = append(class.Bases, base)
			if !p.match(COMMA) {
				break
			}
		}
	}
	p.skipConstraints()

	p.expect(LBRACE, "expected '{' to start class body")
	class.Members = p.parseMembers(class.Name)
	p.expect(RBRACE, "expected '}' to close class body")
	p.match(SEMICOLON)
	return class
}

func (p *parser) parseMembers(className string) []Member {
	var members []Member
	for !p.check(RBRACE) && !p.isAtEnd() {
		start := p.pos
		members = append(members, p.parseMember(className)...)
		if p.pos == start {
			p.advance()
		}
	}
	return members
}

func (p *parser) parseMember(className string) []Member {
	if p.match(SEMICOLON) {
		return nil
	}

	attrs := p.parseAttributes()
	mods := p.parseModifiers()
	vis := visibilityOf(mods)

	switch {
	case p.check(CLASS), p.check(STRUCT):
		return []Member{p.parseClass(attrs, mods)}
	case p.check(INTERFACE), p.check(ENUM):
		p.skipTypeDecl()
		return nil
	case p.check(IDENT) && p.peek().Literal == className && p.peekAt(1).Type == LPAREN:
		return []Member{p.parseConstructor(vis)}
	}

	typ, ok := p.parseType()
	if !ok {
		p.errorAtCurrent("expected member declaration",
			"declare a field, property, method or constructor")
		p.syncMember()
		return nil
	}

	// indexer: this[int i] { get; }
	if p.check(IDENT) && p.peek().Literal == "this" && p.peekAt(1).Type == LBRACKET {
		p.advance()
		p.skipBalanced(LBRACKET, RBRACKET)
		p.skipAccessors()
		return nil
	}

	nameTok := p.peek()
	name := lastSegment(p.parseQualifiedName("expected member name"))
	if name == "" {
		p.syncMember()
		return nil
	}

	if p.check(LT) {
		p.skipBalanced(LT, GT)
	}

	switch {
	case p.check(LPAREN):
		return []Member{p.parseMethod(nameTok, name, typ, vis, mods, attrs)}
	case p.check(LBRACE):
		prop := &PropertyDecl{
			Name:       name,
			Type:       typ,
			Visibility: vis,
			Modifiers:  mods,
			Attributes: attrs,
			pos:        nameTok.Pos,
		}
		p.skipAccessors()
		if p.match(ASSIGN) {
			prop.Init = p.parseExpr()
			p.expect(SEMICOLON, "expected ';' after property initializer")
		}
		return []Member{prop}
	case p.check(ARROW):
		// expression-bodied getter; the body is not an initial value
		p.advance()
		p.parseExpr()
		p.expect(SEMICOLON, "expected ';' after expression body")
		return []Member{&PropertyDecl{
			Name:       name,
			Type:       typ,
			Visibility: vis,
			Modifiers:  mods,
			Attributes: attrs,
			pos:        nameTok.Pos,
		}}
	}

	return p.parseFieldDeclarators(nameTok, name, typ, vis, mods, attrs)
}

// parseFieldDeclarators splits "int a = 1, b;" into one FieldDecl per name.
func (p *parser) parseFieldDeclarators(nameTok Token, name, typ string, vis Visibility, mods, attrs []string) []Member {
	var fields []Member
	for {
		field := &FieldDecl{
			Name:       name,
			Type:       typ,
			Visibility: vis,
			Modifiers:  mods,
			Attributes: attrs,
			pos:        nameTok.Pos,
		}
		if p.match(ASSIGN) {
			field.Init = p.parseExpr()
		}
		fields = append(fields, field)

		if !p.match(COMMA) {
			break
		}
		nameTok = p.expect(IDENT, "expected field name after ','")
		name = nameTok.Literal
	}
	if !p.check(SEMICOLON) {
		p.errorAtCurrent("expected ';' after field declaration", "add ';'")
		p.syncMember()
		return fields
	}
	p.advance()
	return fields
}

func (p *parser) parseMethod(nameTok Token, name, returnType string, vis Visibility, mods, attrs []string) *MethodDecl {
	m := &MethodDecl{
		Name:       name,
		ReturnType: returnType,
		Visibility: vis,
		Modifiers:  mods,
		Attributes: attrs,
		pos:        nameTok.Pos,
	}
	m.Params = p.parseParams()
	p.skipConstraints()

	switch {
	case p.check(LBRACE):
		m.Body = p.parseBlock()
	case p.match(ARROW):
		x := p.parseExpr()
		if returnType == "void" {
			m.Body = []Stmt{&ExprStmt{X: x, pos: posOf(x, nameTok.Pos)}}
		} else {
			m.Body = []Stmt{&ReturnStmt{Value: x, pos: posOf(x, nameTok.Pos)}}
		}
		p.expect(SEMICOLON, "expected ';' after expression body")
	default:
		// abstract, extern and partial declarations have no body
		p.expect(SEMICOLON, "expected method body or ';'")
	}
	return m
}

func (p *parser) parseConstructor(vis Visibility) *ConstructorDecl {
	nameTok := p.advance()
	ctor := &ConstructorDecl{
		Name:       nameTok.Literal,
		Visibility: vis,
		pos:        nameTok.Pos,
	}
	ctor.Params = p.parseParams()

	// initializer: : base(...) or : this(...)
	if p.match(COLON) {
		p.expect(IDENT, "expected 'base' or 'this'")
		if p.check(LPAREN) {
			p.skipBalanced(LPAREN, RPAREN)
		}
	}

	switch {
	case p.check(LBRACE):
		ctor.Body = p.parseBlock()
	case p.match(ARROW):
		x := p.parseExpr()
		ctor.Body = []Stmt{&ExprStmt{X: x, pos: posOf(x, nameTok.Pos)}}
		p.expect(SEMICOLON, "expected ';' after expression body")
	default:
		p.expect(SEMICOLON, "expected constructor body")
	}
	return ctor
}

var paramModifiers = map[string]bool{
	"ref":    true,
	"out":    true,
	"params": true,
	"this":   true,
	"scoped": true,
}

func (p *parser) parseParams() []Param {
	p.expect(LPAREN, "expected '(' to start parameter list")
	var params []Param
	if !p.check(RPAREN) {
		for {
			p.parseAttributes()
			for p.check(IN) || (p.check(IDENT) && paramModifiers[p.peek().Literal]) {
				p.advance()
			}
			typ, ok := p.parseType()
			if !ok {
				p.errorAtCurrent("expected parameter type")
				break
			}
			nameTok := p.expect(IDENT, "expected parameter name")
			if p.match(ASSIGN) {
				p.parseExpr()
			}
			params = append(params, Param{Name: nameTok.Literal, Type: typ, Pos: nameTok.Pos})
			if !p.match(COMMA) {
				break
			}
		}
	}
	if !p.check(RPAREN) {
		p.errorAtCurrent("expected ')' to close parameter list")
		p.skipUntil(RPAREN, LBRACE, SEMICOLON)
	}
	p.match(RPAREN)
	return params
}

// parseType reads a type reference: qualified names, generic arguments,
// array ranks and the nullable suffix.
func (p *parser) parseType() (string, bool) {
	if !p.check(IDENT) {
		return "", false
	}
	var b strings.Builder
	b.WriteString(p.parseQualifiedName(""))

	if p.check(LT) {
		p.advance()
		var args []string
		for {
			arg, ok := p.parseType()
			if !ok {
				p.errorAtCurrent("expected type argument")
				break
			}
			args = append(args, arg)
			if !p.match(COMMA) {
				break
			}
		}
		p.expect(GT, "expected '>' to close type arguments")
		b.WriteString("<" + strings.Join(args, ", ") + ">")
	}

	for {
		switch {
		case p.check(QUESTION):
			p.advance()
			b.WriteString("?")
			continue
		case p.check(LBRACKET) && (p.peekAt(1).Type == RBRACKET || p.peekAt(1).Type == COMMA):
			p.advance()
			b.WriteString("[")
			for p.match(COMMA) {
				b.WriteString(",")
			}
			p.expect(RBRACKET, "expected ']' in array type")
			b.WriteString("]")
			continue
		}
		break
	}
	return b.String(), true
}

func (p *parser) parseQualifiedName(msg string) string {
	if !p.check(IDENT) {
		if msg != "" {
			p.errorAtCurrent(msg)
		}
		return ""
	}
	parts := []string{p.advance().Literal}
	for p.check(DOT) && p.peekAt(1).Type == IDENT {
		p.advance()
		parts = append(parts, p.advance().Literal)
	}
	return strings.Join(parts, ".")
}

// Statements

func (p *parser) parseBlock() []Stmt {
	p.expect(LBRACE, "expected '{' to start block")
	var stmts []Stmt
	for !p.check(RBRACE) && !p.isAtEnd() {
		start := p.pos
		stmts = append(stmts, p.parseStmt()...)
		if p.pos == start {
			p.advance()
		}
	}
	p.expect(RBRACE, "expected '}' to close block")
	return stmts
}

// parseEmbedded parses the body of foreach/if: a block or a single statement.
func (p *parser) parseEmbedded() []Stmt {
	if p.check(LBRACE) {
		return p.parseBlock()
	}
	return p.parseStmt()
}

func (p *parser) parseStmt() []Stmt {
	tok := p.peek()
	switch {
	case tok.Type == LBRACE:
		return []Stmt{&BlockStmt{Body: p.parseBlock(), pos: tok.Pos}}
	case tok.Type == SEMICOLON:
		p.advance()
		return nil
	case tok.Type == RETURN:
		return []Stmt{p.parseReturn()}
	case tok.Type == FOREACH:
		return []Stmt{p.parseForEach()}
	case tok.Type == IF:
		return []Stmt{p.parseIf()}
	case tok.Type == USING:
		return []Stmt{p.skipUnsupported()}
	case tok.Type == IDENT && unsupportedStatements[tok.Literal]:
		return []Stmt{p.skipUnsupported()}
	case tok.Type == IDENT:
		if stmts, ok := p.tryLocalVar(); ok {
			return stmts
		}
	}

	x := p.parseExpr()
	if x == nil {
		p.syncStatement()
		return nil
	}
	p.expect(SEMICOLON, "expected ';' after expression")
	return []Stmt{&ExprStmt{X: x, pos: tok.Pos}}
}

func (p *parser) parseReturn() *ReturnStmt {
	kw := p.advance()
	stmt := &ReturnStmt{pos: kw.Pos}
	if !p.check(SEMICOLON) {
		stmt.Value = p.parseExpr()
	}
	p.expect(SEMICOLON, "expected ';' after return")
	return stmt
}

func (p *parser) parseForEach() *ForEachStmt {
	kw := p.advance()
	stmt := &ForEachStmt{pos: kw.Pos}
	p.expect(LPAREN, "expected '(' after foreach")
	typ, ok := p.parseType()
	if !ok {
		p.errorAtCurrent("expected loop variable type", "use 'var'")
	}
	stmt.VarType = typ
	stmt.Var = p.expect(IDENT, "expected loop variable name").Literal
	p.expect(IN, "expected 'in' in foreach")
	stmt.Collection = p.parseExpr()
	p.expect(RPAREN, "expected ')' to close foreach header")
	stmt.Body = p.parseEmbedded()
	return stmt
}

func (p *parser) parseIf() *IfStmt {
	kw := p.advance()
	stmt := &IfStmt{pos: kw.Pos}
	p.expect(LPAREN, "expected '(' after if")
	stmt.Cond = p.parseExpr()
	p.expect(RPAREN, "expected ')' to close condition")
	stmt.Then = p.parseEmbedded()
	if p.match(ELSE) {
		stmt.Else = p.parseEmbedded()
	}
	return stmt
}

// tryLocalVar parses "T a = x, b;" when the tokens look like a declaration,
// and otherwise leaves the position untouched.
func (p *parser) tryLocalVar() ([]Stmt, bool) {
	save := p.pos
	saveErrs := len(p.errs)
	for p.check(IDENT) && (p.peek().Literal == "const" || p.peek().Literal == "readonly") {
		p.advance()
	}
	typ, ok := p.parseType()
	if ok && p.check(IDENT) {
		switch p.peekAt(1).Type {
		case ASSIGN, SEMICOLON, COMMA:
			return p.parseLocalDeclarators(typ), true
		}
	}
	p.pos = save
	p.errs = p.errs[:saveErrs]
	return nil, false
}

func (p *parser) parseLocalDeclarators(typ string) []Stmt {
	var stmts []Stmt
	for {
		nameTok := p.expect(IDENT, "expected variable name")
		stmt := &LocalVarStmt{Type: typ, Name: nameTok.Literal, pos: nameTok.Pos}
		if p.match(ASSIGN) {
			stmt.Init = p.parseExpr()
		}
		stmts = append(stmts, stmt)
		if !p.match(COMMA) {
			break
		}
	}
	p.expect(SEMICOLON, "expected ';' after variable declaration")
	return stmts
}

// skipUnsupported consumes a statement the tree does not model, including
// trailing clauses such as catch/finally or the while of a do loop.
func (p *parser) skipUnsupported() *UnsupportedStmt {
	kw := p.advance()
	stmt := &UnsupportedStmt{Keyword: kw.Literal, pos: kw.Pos}

	depth := 0
	for !p.isAtEnd() {
		tok := p.peek()
		switch tok.Type {
		case LPAREN, LBRACKET:
			depth++
		case RPAREN, RBRACKET:
			depth--
		case LBRACE:
			p.skipBalanced(LBRACE, RBRACE)
			if depth > 0 {
				continue
			}
			next := p.peek()
			if next.Type == IDENT && isTrailingClause(kw.Literal, next.Literal) {
				continue
			}
			return stmt
		case RBRACE:
			if depth <= 0 {
				return stmt
			}
		case SEMICOLON:
			if depth <= 0 {
				p.advance()
				return stmt
			}
		}
		p.advance()
	}
	return stmt
}

func isTrailingClause(keyword, next string) bool {
	switch next {
	case "catch", "finally":
		return keyword == "try"
	case "while":
		return keyword == "do"
	}
	return false
}

// Expressions

func (p *parser) parseExpr() Expr {
	left := p.parseConditional()
	if isAssignOp(p.peek().Type) {
		op := p.advance()
		right := p.parseExpr()
		return &AssignExpr{Op: op.Literal, Left: left, Right: right, pos: op.Pos}
	}
	return left
}

func (p *parser) parseConditional() Expr {
	cond := p.parseBinary(1)

	// null-coalescing: a ?? b
	for p.check(QUESTION) && p.peekAt(1).Type == QUESTION {
		op := p.advance()
		p.advance()
		right := p.parseBinary(1)
		cond = &BinaryExpr{Op: "??", Left: cond, Right: right, pos: op.Pos}
	}

	if p.check(QUESTION) {
		q := p.advance()
		then := p.parseExpr()
		p.expect(COLON, "expected ':' in conditional expression")
		els := p.parseExpr()
		return &ConditionalExpr{Cond: cond, Then: then, Else: els, pos: q.Pos}
	}
	return cond
}

// parseBinary is a precedence climber; all binary operators are left associative.
func (p *parser) parseBinary(minPrec int) Expr {
	left := p.parseUnary()
	for {
		prec := binaryPrecedence(p.peek().Type)
		if prec == 0 || prec < minPrec {
			return left
		}
		op := p.advance()
		right := p.parseBinary(prec + 1)
		left = &BinaryExpr{Op: op.Literal, Left: left, Right: right, pos: op.Pos}
	}
}

func (p *parser) parseUnary() Expr {
	switch p.peek().Type {
	case BANG, MINUS, PLUS, PLUSPLUS, MINUSMINUS:
		op := p.advance()
		return &UnaryExpr{Op: op.Literal, X: p.parseUnary(), pos: op.Pos}
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *parser) parsePostfix(x Expr) Expr {
	if x == nil {
		return nil
	}
	for {
		tok := p.peek()
		switch {
		case tok.Type == DOT, tok.Type == QUESTION && p.peekAt(1).Type == DOT:
			if tok.Type == QUESTION {
				p.advance()
			}
			p.advance()
			name := p.expect(IDENT, "expected member name after '.'")
			x = &MemberExpr{X: x, Name: name.Literal, pos: name.Pos}
		case tok.Type == LPAREN:
			x = &CallExpr{Fun: x, Args: p.parseArgs(), pos: tok.Pos}
		case tok.Type == LBRACKET:
			p.advance()
			index := p.parseExpr()
			p.expect(RBRACKET, "expected ']' after index")
			x = &IndexExpr{X: x, Index: index, pos: tok.Pos}
		case tok.Type == PLUSPLUS, tok.Type == MINUSMINUS:
			p.advance()
			x = &UnaryExpr{Op: tok.Literal, X: x, Postfix: true, pos: tok.Pos}
		default:
			return x
		}
	}
}

func (p *parser) parsePrimary() Expr {
	tok := p.peek()
	switch tok.Type {
	case NUMBER, STRING, CHAR, TRUE, FALSE, NULL:
		p.advance()
		return &LiteralExpr{Raw: tok.Literal, pos: tok.Pos}
	case IDENT:
		p.advance()
		if p.check(ARROW) {
			return p.parseLambda([]string{tok.Literal}, tok.Pos)
		}
		return &IdentExpr{Name: tok.Literal, pos: tok.Pos}
	case LPAREN:
		p.advance()
		x := p.parseExpr()
		p.expect(RPAREN, "expected ')' to close expression")
		return &ParenExpr{X: x, pos: tok.Pos}
	case NEW:
		return p.parseNew()
	}

	p.errorAtCurrent("expected expression")
	switch tok.Type {
	case RBRACE, RPAREN, RBRACKET, SEMICOLON, EOF:
	default:
		p.advance()
	}
	return nil
}

func (p *parser) parseLambda(params []string, pos Position) Expr {
	p.advance() // =>
	lambda := &LambdaExpr{Params: params, pos: pos}
	if p.check(LBRACE) {
		lambda.Block = p.parseBlock()
	} else {
		lambda.Body = p.parseExpr()
	}
	return lambda
}

func (p *parser) parseNew() Expr {
	kw := p.advance()
	expr := &NewExpr{pos: kw.Pos}

	if typ, ok := p.parseType(); ok {
		expr.Type = typ
	}
	if p.check(LBRACKET) {
		p.skipBalanced(LBRACKET, RBRACKET)
	}
	if p.check(LPAREN) {
		expr.Args = p.parseArgs()
	}
	// object and collection initializers are not modelled
	if p.check(LBRACE) {
		p.skipBalanced(LBRACE, RBRACE)
	}
	return expr
}

func (p *parser) parseArgs() []Expr {
	p.expect(LPAREN, "expected '('")
	var args []Expr
	if !p.check(RPAREN) {
		for {
			// named argument: name: value
			if p.check(IDENT) && p.peekAt(1).Type == COLON {
				p.advance()
				p.advance()
			}
			for p.check(IN) || (p.check(IDENT) && (p.peek().Literal == "ref" || p.peek().Literal == "out") && p.peekAt(1).Type == IDENT) {
				p.advance()
			}
			args = append(args, p.parseExpr())
			if !p.match(COMMA) {
				break
			}
		}
	}
	p.expect(RPAREN, "expected ')' to close argument list")
	return args
}

// Skipping and recovery

func (p *parser) skipTypeDecl() {
	p.advance() // interface or enum
	p.expect(IDENT, "expected type name")
	p.skipUntil(LBRACE, SEMICOLON)
	if p.check(LBRACE) {
		p.skipBalanced(LBRACE, RBRACE)
	}
	p.match(SEMICOLON)
}

// skipAccessors consumes { get; set; } including accessor bodies.
func (p *parser) skipAccessors() {
	if p.check(LBRACE) {
		p.skipBalanced(LBRACE, RBRACE)
	}
}

// skipConstraints consumes generic constraints: where T : class, new()
func (p *parser) skipConstraints() {
	for p.check(IDENT) && p.peek().Literal == "where" {
		p.skipUntil(LBRACE, ARROW, SEMICOLON)
	}
}

// skipBalanced consumes an open token through its matching close token.
func (p *parser) skipBalanced(open, close TokenType) {
	if !p.check(open) {
		return
	}
	depth := 0
	for !p.isAtEnd() {
		tok := p.advance()
		switch tok.Type {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return
			}
		}
	}
	p.errorAtCurrent(fmt.Sprintf("unbalanced %s", closeName(close)))
}

func closeName(t TokenType) string {
	switch t {
	case RBRACE:
		return "'}'"
	case RPAREN:
		return "')'"
	case RBRACKET:
		return "']'"
	case GT:
		return "'>'"
	}
	return "delimiter"
}

func (p *parser) skipUntil(types ...TokenType) {
	for !p.isAtEnd() {
		for _, t := range types {
			if p.check(t) {
				return
			}
		}
		p.advance()
	}
}

// syncMember skips to the end of the current member: past a ';' or a braced
// body, or up to the '}' closing the enclosing class.
func (p *parser) syncMember() {
	for !p.isAtEnd() {
		switch p.peek().Type {
		case SEMICOLON:
			p.advance()
			return
		case LBRACE:
			p.skipBalanced(LBRACE, RBRACE)
			return
		case RBRACE:
			return
		}
		p.advance()
	}
}

// syncStatement skips past the next ';' without leaving the enclosing block.
func (p *parser) syncStatement() {
	for !p.isAtEnd() {
		switch p.peek().Type {
		case SEMICOLON:
			p.advance()
			return
		case RBRACE:
			return
		}
		p.advance()
	}
}

// Token helpers

func (p *parser) peek() Token {
	return p.peekAt(0)
}

func (p *parser) peekAt(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *parser) advance() Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.pos++
	}
	return tok
}

func (p *parser) check(t TokenType) bool {
	return p.peek().Type == t
}

func (p *parser) match(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) expect(t TokenType, msg string) Token {
	if p.check(t) {
		return p.advance()
	}
	p.errorAtCurrent(msg)
	return Token{Type: t, Pos: p.peek().Pos}
}

// errorAtCurrent records an error at the current token. A second error at the
// same position is dropped so one mistake does not cascade.
func (p *parser) errorAtCurrent(msg string, suggestions ...string) {
	tok := p.peek()
	if n := len(p.errs); n > 0 && p.errs[n-1].Pos == tok.Pos {
		return
	}
	err := NewParseError(ErrorKindSyntax, msg).WithPosition(tok.Pos).WithToken(tok)
	for _, s := range suggestions {
		err.WithSuggestion(s)
	}
	p.errs = append(p.errs, err)
}

func (p *parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func posOf(x Expr, fallback Position) Position {
	if x == nil {
		return fallback
	}
	return x.Pos()
}

func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
