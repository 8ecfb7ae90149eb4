package docview

import (
	"fmt"
	"slices"
)

// Source is a property-like value set, typically backed by a repository
// property.
type Source interface {
	Name() string
	Type() PropertyType
	IsMulti() bool
	// Values returns all values of the source. A single-valued source
	// returns exactly one.
	Values() ([]Value, error)
}

// FromValues creates a Property from typed values.
//
// values must not contain nil entries and, unless multi is set, must hold
// exactly one value. Binaries are serialized as their reference token when
// WithBinaryReferences is set and a token is available, and as the empty
// string otherwise. FromValues returns ErrValueFormat if a binary property
// mixes referenced and non-referenced values.
func FromValues(name string, values []Value, typ PropertyType, multi bool, opts ...Option) (*Property, error) {
	cfg := newSerializeConfig(opts)
	for i, v := range values {
		if v == nil {
			return nil, fmt.Errorf("%w: value %d of %q is nil", ErrConstruction, i, name)
		}
	}
	if multi && cfg.sort && len(values) > 1 {
		sorted, err := sortValues(values)
		if err != nil {
			return nil, err
		}
		values = sorted
	}

	strValues := make([]string, 0, len(values))
	for _, v := range values {
		s, err := serializeValue(v, cfg.binaryRefs)
		if err != nil {
			return nil, err
		}
		strValues = append(strValues, s)
	}

	ref := false
	if typ == TypeBinary {
		for i, s := range strValues {
			isRef := s != ""
			if i == 0 {
				ref = isRef
			} else if ref != isRef {
				return nil, fmt.Errorf("%w: mixed binary references and regular binary values in multi-value property %q", ErrValueFormat, name)
			}
		}
	}
	return NewProperty(name, strValues, multi, typ, ref)
}

// FromSource creates a Property from src. It returns ErrConstruction if a
// single-valued source does not yield exactly one value.
func FromSource(src Source, opts ...Option) (*Property, error) {
	values, err := src.Values()
	if err != nil {
		return nil, err
	}
	if !src.IsMulti() && len(values) != 1 {
		return nil, fmt.Errorf("%w: single value property %q yielded %d values", ErrConstruction, src.Name(), len(values))
	}
	return FromValues(src.Name(), values, src.Type(), src.IsMulti(), opts...)
}

// Format returns the docview representation of src.
func Format(src Source, opts ...Option) (string, error) {
	p, err := FromSource(src, opts...)
	if err != nil {
		return "", err
	}
	return p.FormatValue(), nil
}

// sortValues returns a sorted copy of values. The caller's slice is not
// reordered.
func sortValues(values []Value) ([]Value, error) {
	sorted := slices.Clone(values)
	var firstErr error
	slices.SortStableFunc(sorted, func(a, b Value) int {
		c, err := CompareValues(a, b)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return c
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return sorted, nil
}
