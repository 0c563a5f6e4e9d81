package mirror

import "github.com/teranos/mirror/syntax"

// SelectClasses returns every class the parser tagged with the marker,
// depth first in source order. Namespaces and enclosing classes are searched;
// an outer class precedes the classes nested in it.
func SelectClasses(unit *syntax.CompilationUnit) []*syntax.ClassDecl {
	var selected []*syntax.ClassDecl
	walkClasses(unit, func(c *syntax.ClassDecl) {
		if c.Marked {
			selected = append(selected, c)
		}
	})
	return selected
}

// AllClasses returns every class in the unit in the same order as
// SelectClasses, ignoring the marker.
func AllClasses(unit *syntax.CompilationUnit) []*syntax.ClassDecl {
	var all []*syntax.ClassDecl
	walkClasses(unit, func(c *syntax.ClassDecl) {
		all = append(all, c)
	})
	return all
}

func walkClasses(unit *syntax.CompilationUnit, visit func(*syntax.ClassDecl)) {
	if unit == nil {
		return
	}
	walkDecls(unit.Decls, visit)
}

func walkDecls(decls []syntax.Decl, visit func(*syntax.ClassDecl)) {
	for _, d := range decls {
		switch d := d.(type) {
		case *syntax.NamespaceDecl:
			walkDecls(d.Decls, visit)
		case *syntax.ClassDecl:
			walkClass(d, visit)
		}
	}
}

func walkClass(c *syntax.ClassDecl, visit func(*syntax.ClassDecl)) {
	visit(c)
	for _, m := range c.Members {
		if nested, ok := m.(*syntax.ClassDecl); ok {
			walkClass(nested, visit)
		}
	}
}
