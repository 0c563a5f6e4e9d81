package mirror

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/mirror/logger"
	"github.com/teranos/mirror/syntax"
)

// supportedOperators pass through without a diagnostic. Every other binary
// operator is still emitted as written.
var supportedOperators = map[string]bool{
	"+": true,
	"-": true,
	"*": true,
	"/": true,
}

// Diagnostic is an advisory finding recorded while emitting a class.
// It never stops translation.
type Diagnostic struct {
	Class    string          `json:"class"`
	Operator string          `json:"operator"`
	Message  string          `json:"message"`
	Position syntax.Position `json:"position"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (class %s)", d.Position, d.Message, d.Class)
}

// Emitter translates a single class into a module-pattern function.
//
// Non-public members go straight into body as private bindings. Public
// members are collected in publicAccumulator and exposed through the
// returned object once the whole class has been visited. Both buffers belong
// to this class alone; Compiler creates a fresh Emitter per class.
type Emitter struct {
	class    *syntax.ClassDecl
	defaults *DefaultValues
	log      *zap.SugaredLogger

	body              strings.Builder
	publicAccumulator strings.Builder
	diagnostics       []Diagnostic
}

func newEmitter(class *syntax.ClassDecl, defaults *DefaultValues, log *zap.SugaredLogger) *Emitter {
	if defaults == nil {
		defaults = NewDefaultValues()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Emitter{
		class:    class,
		defaults: defaults,
		log:      log,
	}
}

// Emit lowers the class and writes the complete module to w.
func (e *Emitter) Emit(w io.Writer) error {
	for _, m := range e.class.Members {
		e.lowerMember(m)
	}

	var out strings.Builder
	fmt.Fprintf(&out, "var %s = function() {\n", LowerFirst(e.class.Name))
	out.WriteString("  var self = this;\n")
	out.WriteString(e.body.String())
	out.WriteString("  return {\n")
	out.WriteString(e.publicAccumulator.String())
	out.WriteString("  };\n")
	out.WriteString("};\n")

	_, err := io.WriteString(w, out.String())
	return err
}

// Diagnostics returns the advisory findings recorded by Emit.
func (e *Emitter) Diagnostics() []Diagnostic {
	return e.diagnostics
}

func (e *Emitter) lowerMember(m syntax.Member) {
	switch m := m.(type) {
	case *syntax.FieldDecl:
		e.lowerValueMember(m.Name, m.Type, m.Visibility, m.Init)
	case *syntax.PropertyDecl:
		e.lowerValueMember(m.Name, m.Type, m.Visibility, m.Init)
	case *syntax.MethodDecl:
		e.lowerMethod(m)
	default:
		// constructors, nested classes: nothing to emit
	}
}

func (e *Emitter) lowerValueMember(name, typeName string, vis syntax.Visibility, init syntax.Expr) {
	value := ""
	if init != nil {
		value = e.lowerExpr(init)
	}
	if value == "" {
		value = e.defaults.FromType(typeName)
	}

	name = LowerFirst(name)
	if vis == syntax.Public {
		fmt.Fprintf(&e.publicAccumulator, "    %s: %s,\n", name, value)
		return
	}
	fmt.Fprintf(&e.body, "  var %s = %s;\n", name, value)
}

func (e *Emitter) lowerMethod(m *syntax.MethodDecl) {
	name := LowerFirst(m.Name)
	params := strings.Join(m.ParamNames(), ", ")

	fmt.Fprintf(&e.body, "  function %s(%s) {\n", name, params)
	e.body.WriteString(e.lowerStmts(m.Body, 2))
	e.body.WriteString("  }\n\n")

	if m.Visibility == syntax.Public {
		fmt.Fprintf(&e.publicAccumulator, "    %s: %s,\n", name, name)
	}
}

// lowerStmts sequences statements one per line at the given nesting depth.
// Statements that lower to nothing are dropped.
func (e *Emitter) lowerStmts(stmts []syntax.Stmt, depth int) string {
	var b strings.Builder
	for _, s := range stmts {
		b.WriteString(e.lowerStmt(s, depth))
	}
	return b.String()
}

func (e *Emitter) lowerStmt(s syntax.Stmt, depth int) string {
	indent := strings.Repeat("  ", depth)

	switch s := s.(type) {
	case *syntax.ReturnStmt:
		value := ""
		if s.Value != nil {
			value = e.lowerExpr(s.Value)
		}
		if value == "" {
			return indent + "return;\n"
		}
		return indent + "return " + value + ";\n"

	case *syntax.ExprStmt:
		text := e.lowerExpr(s.X)
		if text == "" {
			return ""
		}
		return indent + text + ";\n"

	case *syntax.ForEachStmt:
		// for-in enumerates keys/indices, not element values
		var b strings.Builder
		fmt.Fprintf(&b, "%sfor (var %s in %s) {\n", indent, s.Var, e.lowerExpr(s.Collection))
		b.WriteString(e.lowerStmts(s.Body, depth+1))
		b.WriteString(indent + "}\n")
		return b.String()
	}

	return ""
}

func (e *Emitter) lowerExpr(x syntax.Expr) string {
	switch x := x.(type) {
	case *syntax.BinaryExpr:
		if !supportedOperators[x.Op] {
			e.unsupportedOperator(x)
		}
		return e.lowerExpr(x.Left) + " " + x.Op + " " + e.lowerExpr(x.Right)

	case *syntax.LiteralExpr:
		return x.Raw

	case *syntax.IdentExpr:
		return LowerFirst(x.Name)

	case *syntax.ParenExpr:
		if inner := e.lowerExpr(x.X); inner != "" {
			return "(" + inner + ")"
		}
	}

	return ""
}

func (e *Emitter) unsupportedOperator(x *syntax.BinaryExpr) {
	d := Diagnostic{
		Class:    e.class.Name,
		Operator: x.Op,
		Message:  "Unsupported operator: " + x.Op,
		Position: x.Pos(),
	}
	e.diagnostics = append(e.diagnostics, d)
	e.log.Warnw("Unsupported operator",
		logger.FieldClass, d.Class,
		logger.FieldOperator, d.Operator,
		logger.FieldLine, d.Position.Line,
		logger.FieldColumn, d.Position.Column,
	)
}
