package docview

import (
	"context"
	"fmt"
)

// Bundle is the ordered property set of one repository node.
type Bundle struct {
	// Path of the node the properties belong to. Informational only.
	Path       string
	Properties []*Property
}

// Property returns the property called name, or nil.
func (b *Bundle) Property(name string) *Property {
	for _, p := range b.Properties {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// Apply applies every property of b to node in order and returns the names
// of the properties that changed. It stops at the first error.
func (b *Bundle) Apply(ctx context.Context, node Node) ([]string, error) {
	var modified []string
	for _, p := range b.Properties {
		changed, err := p.Apply(ctx, node)
		if err != nil {
			return modified, fmt.Errorf("apply %q: %w", p.Name(), err)
		}
		if changed {
			modified = append(modified, p.Name())
		}
	}
	return modified, nil
}

// storedValue is the docview string kept in a bundle. Undefined properties
// come from untagged input, so they are written untagged and escaped like
// String values and parse back as Undefined.
func (p *Property) storedValue() string {
	if p.typ != TypeUndefined {
		return p.FormatValue()
	}
	s := *p
	s.typ = TypeString
	return s.FormatValue()
}

// bundleEntry is the stored form of one property: its name and its docview
// formatted value.
type bundleEntry struct {
	Name  string
	Value string
}

type bundlePayload struct {
	Path    string
	Entries []bundleEntry
}
