package docview

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Node is the repository node a Property is applied to. Errors returned by a
// Node are passed through to the caller unchanged.
type Node interface {
	HasProperty(ctx context.Context, name string) (bool, error)
	Property(ctx context.Context, name string) (StoredProperty, error)
	RemoveProperty(ctx context.Context, name string) error
	// SetProperty stores string values. TypeUndefined lets the node choose
	// the type. A value that cannot be converted to typ must be reported
	// with an error wrapping ErrValueFormat.
	SetProperty(ctx context.Context, name string, values []string, typ PropertyType, multi bool) error
	SetBinaryProperty(ctx context.Context, name string, values []Binary, multi bool) error
	ValueFactory() ValueFactory
}

// StoredProperty is a property as currently stored on a Node.
type StoredProperty interface {
	Type() PropertyType
	IsMulti() bool
	Strings() ([]string, error)
	// Binaries returns one handle per value. The caller owns the handles
	// and must dispose them.
	Binaries(ctx context.Context) ([]Binary, error)
}

// Binary is a handle to binary content held by the repository.
type Binary interface {
	Equal(other Binary) bool
	// Dispose releases the handle. It is safe to call more than once.
	Dispose()
}

// ValueFactory resolves binary reference tokens.
type ValueFactory interface {
	BinaryFromReference(ctx context.Context, ref string) (Binary, error)
}

// Apply writes p to node unless the stored property already holds the same
// values. It reports whether node was modified.
//
// A stored property whose multiplicity differs from p is removed first. A
// stored property of a different type is overwritten without comparing
// values, except that a stored String matches an undefined p.
//
// An empty binary value leaves the stored binary untouched, and a binary
// property with only empty values never modifies node, whatever its
// multiplicity. Binaries that are not references must have empty values;
// any other value fails with ErrInvalidSerializedData.
func (p *Property) Apply(ctx context.Context, node Node) (bool, error) {
	if p.typ == TypeBinary {
		untouched := !slices.ContainsFunc(p.values, func(v string) bool { return v != "" })
		if !p.ref && !untouched {
			return false, fmt.Errorf("%w: inline binaries are only supported as binary references in %q", ErrInvalidSerializedData, p.name)
		}
		if untouched {
			return false, nil
		}
	}
	existing, err := p.storedProperty(ctx, node)
	if err != nil {
		return false, err
	}
	if p.typ == TypeBinary {
		return p.applyBinary(ctx, node, existing)
	}
	if existing != nil {
		current, err := existing.Strings()
		if err != nil {
			return false, err
		}
		if slices.Equal(current, p.values) {
			return false, nil
		}
	}
	err = node.SetProperty(ctx, p.name, p.values, p.typ, p.multi)
	if err != nil && errors.Is(err, ErrValueFormat) && p.typ != TypeString {
		err = node.SetProperty(ctx, p.name, p.values, TypeString, p.multi)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// storedProperty returns the stored property to compare against, or nil if
// there is none or it cannot be compared.
func (p *Property) storedProperty(ctx context.Context, node Node) (StoredProperty, error) {
	ok, err := node.HasProperty(ctx, p.name)
	if err != nil || !ok {
		return nil, err
	}
	existing, err := node.Property(ctx, p.name)
	if err != nil {
		return nil, err
	}
	if existing.IsMulti() != p.multi {
		if err := node.RemoveProperty(ctx, p.name); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if t := existing.Type(); t != p.typ && (t != TypeString || p.typ != TypeUndefined) {
		return nil, nil
	}
	return existing, nil
}

// applyBinary writes a reference property with at least one non-empty
// token. An empty token keeps the stored binary at the same position.
func (p *Property) applyBinary(ctx context.Context, node Node, existing StoredProperty) (bool, error) {
	var handles []Binary
	defer func() {
		for _, h := range handles {
			if h != nil {
				h.Dispose()
			}
		}
	}()

	var old []Binary
	if existing != nil {
		bins, err := existing.Binaries(ctx)
		handles = append(handles, bins...)
		if err != nil {
			return false, err
		}
		old = bins
	}

	factory := node.ValueFactory()
	modified := existing == nil || len(old) != len(p.values)
	created := make([]Binary, 0, len(p.values))
	for n, ref := range p.values {
		if ref == "" {
			if n >= len(old) || old[n] == nil {
				return false, fmt.Errorf("%w: empty binary reference %d in %q has no stored binary to keep", ErrInvalidSerializedData, n, p.name)
			}
			created = append(created, old[n])
			continue
		}
		b, err := factory.BinaryFromReference(ctx, ref)
		if err != nil {
			return false, err
		}
		handles = append(handles, b)
		created = append(created, b)
		if !modified && (old[n] == nil || !old[n].Equal(b)) {
			modified = true
		}
	}
	if !modified {
		return false, nil
	}
	if err := node.SetBinaryProperty(ctx, p.name, created, p.multi); err != nil {
		return false, err
	}
	return true, nil
}
