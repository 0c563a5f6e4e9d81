package syntax

import "fmt"

// Position tracks a 1-based line and column inside the source file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position points into a source file.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// CompilationUnit is the root node for one source file.
type CompilationUnit struct {
	Usings []string
	Decls  []Decl
}

type Decl interface {
	declNode()
	Pos() Position
}

type NamespaceDecl struct {
	Name  string
	Decls []Decl
	pos   Position
}

func (n *NamespaceDecl) declNode()     {}
func (n *NamespaceDecl) Pos() Position { return n.pos }

// ClassDecl is a class or struct declaration. Nested classes appear both as
// members of their parent and, through the selector, as classes of their own.
type ClassDecl struct {
	Name       string
	Attributes []string
	// Marked is set by the parser when an attribute name equals the marker.
	Marked    bool
	Modifiers []string
	Bases     []string
	Members   []Member
	pos       Position
}

func (c *ClassDecl) declNode()          {}
func (c *ClassDecl) memberNode()        {}
func (c *ClassDecl) Pos() Position      { return c.pos }
func (c *ClassDecl) MemberName() string { return c.Name }

// HasAttribute reports whether an attribute with exactly this name is attached.
func (c *ClassDecl) HasAttribute(name string) bool {
	for _, a := range c.Attributes {
		if a == name {
			return true
		}
	}
	return false
}

type Visibility int

const (
	NonPublic Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "public"
	}
	return "non-public"
}

// visibilityOf maps a modifier list to the two-valued visibility the emitter uses.
func visibilityOf(mods []string) Visibility {
	for _, m := range mods {
		if m == "public" {
			return Public
		}
	}
	return NonPublic
}

type Member interface {
	memberNode()
	Pos() Position
	MemberName() string
}

type FieldDecl struct {
	Name       string
	Type       string
	Visibility Visibility
	Modifiers  []string
	Attributes []string
	Init       Expr // nil without an initializer
	pos        Position
}

func (f *FieldDecl) memberNode()        {}
func (f *FieldDecl) Pos() Position      { return f.pos }
func (f *FieldDecl) MemberName() string { return f.Name }

type PropertyDecl struct {
	Name       string
	Type       string
	Visibility Visibility
	Modifiers  []string
	Attributes []string
	Init       Expr
	pos        Position
}

func (p *PropertyDecl) memberNode()        {}
func (p *PropertyDecl) Pos() Position      { return p.pos }
func (p *PropertyDecl) MemberName() string { return p.Name }

type MethodDecl struct {
	Name       string
	ReturnType string
	Visibility Visibility
	Modifiers  []string
	Attributes []string
	Params     []Param
	Body       []Stmt
	pos        Position
}

func (m *MethodDecl) memberNode()        {}
func (m *MethodDecl) Pos() Position      { return m.pos }
func (m *MethodDecl) MemberName() string { return m.Name }

// ParamNames returns the parameter names in declaration order.
func (m *MethodDecl) ParamNames() []string {
	names := make([]string, len(m.Params))
	for i, p := range m.Params {
		names[i] = p.Name
	}
	return names
}

type ConstructorDecl struct {
	Name       string
	Visibility Visibility
	Params     []Param
	Body       []Stmt
	pos        Position
}

func (c *ConstructorDecl) memberNode()        {}
func (c *ConstructorDecl) Pos() Position      { return c.pos }
func (c *ConstructorDecl) MemberName() string { return c.Name }

type Param struct {
	Name string
	Type string
	Pos  Position
}

type Stmt interface {
	stmtNode()
	Pos() Position
}

type ReturnStmt struct {
	Value Expr // nil for a bare return
	pos   Position
}

func (s *ReturnStmt) stmtNode()     {}
func (s *ReturnStmt) Pos() Position { return s.pos }

type ExprStmt struct {
	X   Expr
	pos Position
}

func (s *ExprStmt) stmtNode()     {}
func (s *ExprStmt) Pos() Position { return s.pos }

type ForEachStmt struct {
	VarType    string
	Var        string
	Collection Expr
	Body       []Stmt
	pos        Position
}

func (s *ForEachStmt) stmtNode()     {}
func (s *ForEachStmt) Pos() Position { return s.pos }

type LocalVarStmt struct {
	Type string
	Name string
	Init Expr
	pos  Position
}

func (s *LocalVarStmt) stmtNode()     {}
func (s *LocalVarStmt) Pos() Position { return s.pos }

type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
	pos  Position
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.pos }

type BlockStmt struct {
	Body []Stmt
	pos  Position
}

func (s *BlockStmt) stmtNode()     {}
func (s *BlockStmt) Pos() Position { return s.pos }

// UnsupportedStmt stands in for statements the parser recognises only far
// enough to skip (while, switch, try, ...).
type UnsupportedStmt struct {
	Keyword string
	pos     Position
}

func (s *UnsupportedStmt) stmtNode()     {}
func (s *UnsupportedStmt) Pos() Position { return s.pos }

type Expr interface {
	exprNode()
	Pos() Position
}

type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	pos   Position
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() Position { return e.pos }

// LiteralExpr holds the literal exactly as written, quotes included.
type LiteralExpr struct {
	Raw string
	pos Position
}

func (e *LiteralExpr) exprNode()     {}
func (e *LiteralExpr) Pos() Position { return e.pos }

type IdentExpr struct {
	Name string
	pos  Position
}

func (e *IdentExpr) exprNode()     {}
func (e *IdentExpr) Pos() Position { return e.pos }

type UnaryExpr struct {
	Op      string
	X       Expr
	Postfix bool
	pos     Position
}

func (e *UnaryExpr) exprNode()     {}
func (e *UnaryExpr) Pos() Position { return e.pos }

type ParenExpr struct {
	X   Expr
	pos Position
}

func (e *ParenExpr) exprNode()     {}
func (e *ParenExpr) Pos() Position { return e.pos }

type MemberExpr struct {
	X    Expr
	Name string
	pos  Position
}

func (e *MemberExpr) exprNode()     {}
func (e *MemberExpr) Pos() Position { return e.pos }

type CallExpr struct {
	Fun  Expr
	Args []Expr
	pos  Position
}

func (e *CallExpr) exprNode()     {}
func (e *CallExpr) Pos() Position { return e.pos }

type IndexExpr struct {
	X     Expr
	Index Expr
	pos   Position
}

func (e *IndexExpr) exprNode()     {}
func (e *IndexExpr) Pos() Position { return e.pos }

type AssignExpr struct {
	Op    string
	Left  Expr
	Right Expr
	pos   Position
}

func (e *AssignExpr) exprNode()     {}
func (e *AssignExpr) Pos() Position { return e.pos }

type ConditionalExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	pos  Position
}

func (e *ConditionalExpr) exprNode()     {}
func (e *ConditionalExpr) Pos() Position { return e.pos }

// LambdaExpr has either an expression body or a block body.
type LambdaExpr struct {
	Params []string
	Body   Expr
	Block  []Stmt
	pos    Position
}

func (e *LambdaExpr) exprNode()     {}
func (e *LambdaExpr) Pos() Position { return e.pos }

type NewExpr struct {
	Type string
	Args []Expr
	pos  Position
}

func (e *NewExpr) exprNode()     {}
func (e *NewExpr) Pos() Position { return e.pos }
