package mirror

import "sort"

// EmptyStringLiteral is the initial value for every type without a mapping.
const EmptyStringLiteral = `""`

// DefaultValues maps a declared type name to the literal a member starts with
// when it has no initializer. Lookups are exact: "bool?" and "Boolean" fall
// back unless registered.
type DefaultValues struct {
	literals map[string]string
}

// NewDefaultValues returns the built-in mapping: bool -> false.
func NewDefaultValues() *DefaultValues {
	return &DefaultValues{
		literals: map[string]string{
			"bool": "false",
		},
	}
}

// Register adds or replaces the literal for a type name.
func (d *DefaultValues) Register(typeName, literal string) *DefaultValues {
	d.literals[typeName] = literal
	return d
}

// RegisterAll adds every mapping in m, typically the mirror.defaults table.
func (d *DefaultValues) RegisterAll(m map[string]string) *DefaultValues {
	for typeName, literal := range m {
		d.Register(typeName, literal)
	}
	return d
}

// FromType returns the default literal text for typeName.
func (d *DefaultValues) FromType(typeName string) string {
	if d != nil {
		if literal, ok := d.literals[typeName]; ok {
			return literal
		}
	}
	return EmptyStringLiteral
}

// Types lists the registered type names in sorted order.
func (d *DefaultValues) Types() []string {
	types := make([]string, 0, len(d.literals))
	for t := range d.literals {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
