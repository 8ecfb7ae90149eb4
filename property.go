package docview

import (
	"fmt"
	"slices"
	"strings"
)

// Property is one repository property in enhanced docview form: a name, a
// type and the string form of each of its values.
//
// A Property is immutable once constructed. A single-valued property always
// holds exactly one value. A reference property is of type Binary and its
// values are binary reference tokens, where an empty value means the binary
// is left untouched.
type Property struct {
	name   string
	values []string
	multi  bool
	typ    PropertyType
	ref    bool
}

// NewProperty creates a property from already serialized values.
//
// An undefined type on jcr:primaryType or jcr:mixinTypes is normalized to
// TypeName. NewProperty returns ErrConstruction if a single-valued property
// does not have exactly one value or if ref is set on a non-binary type.
func NewProperty(name string, values []string, multi bool, typ PropertyType, ref bool) (*Property, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: invalid type code %d", ErrConstruction, int(typ))
	}
	if typ == TypeUndefined && isReservedName(name) {
		typ = TypeName
	}
	if !multi && len(values) != 1 {
		return nil, fmt.Errorf("%w: single value property %q needs exactly 1 value, got %d", ErrConstruction, name, len(values))
	}
	if ref && typ != TypeBinary {
		return nil, fmt.Errorf("%w: reference property %q must be of type %s", ErrConstruction, name, TypeBinary)
	}
	return &Property{
		name:   name,
		values: slices.Clone(values),
		multi:  multi,
		typ:    typ,
		ref:    ref,
	}, nil
}

// MustProperty is like NewProperty but panics on error.
func MustProperty(name string, values []string, multi bool, typ PropertyType, ref bool) *Property {
	p, err := NewProperty(name, values, multi, typ, ref)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Property) Name() string       { return p.name }
func (p *Property) IsMulti() bool      { return p.multi }
func (p *Property) Type() PropertyType { return p.typ }

// IsReference reports whether the values are binary reference tokens.
func (p *Property) IsReference() bool { return p.ref }

// Len returns the number of values.
func (p *Property) Len() int { return len(p.values) }

// Value returns the i-th value.
func (p *Property) Value(i int) string { return p.values[i] }

// Values returns a copy of the values.
func (p *Property) Values() []string {
	if p.values == nil {
		return []string{}
	}
	return slices.Clone(p.values)
}

// Equal reports whether p and o have the same name, values, multiplicity,
// type and reference flag.
func (p *Property) Equal(o *Property) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.name == o.name &&
		p.multi == o.multi &&
		p.typ == o.typ &&
		p.ref == o.ref &&
		slices.Equal(p.values, o.values)
}

// String returns a debug description including the name. Use FormatValue for
// the docview representation.
func (p *Property) String() string {
	var b strings.Builder
	b.WriteString("Property[name=")
	b.WriteString(p.name)
	b.WriteString(", values=[")
	b.WriteString(strings.Join(p.values, ", "))
	fmt.Fprintf(&b, "], multi=%t, type=%s, reference=%t]", p.multi, p.typ, p.ref)
	return b.String()
}
