package docview

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"
)

// Value is a typed repository value.
type Value interface {
	Type() PropertyType
	// Canonical returns the canonical string form of the value.
	Canonical() (string, error)
}

// ReferenceValue is implemented by binary values that can expose a token
// identifying externally stored content.
type ReferenceValue interface {
	Value
	Reference() (string, bool)
}

// DateLayout is the canonical date format: ISO 8601 with milliseconds and a
// numeric zone offset.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

type StringValue string

func (StringValue) Type() PropertyType        { return TypeString }
func (v StringValue) Canonical() (string, error) { return string(v), nil }

type NameValue string

func (NameValue) Type() PropertyType        { return TypeName }
func (v NameValue) Canonical() (string, error) { return string(v), nil }

type PathValue string

func (PathValue) Type() PropertyType        { return TypePath }
func (v PathValue) Canonical() (string, error) { return string(v), nil }

type URIValue string

func (URIValue) Type() PropertyType        { return TypeURI }
func (v URIValue) Canonical() (string, error) { return string(v), nil }

// IdentifierValue is a Reference or WeakReference holding a node identifier.
type IdentifierValue struct {
	ID   string
	Weak bool
}

func (v IdentifierValue) Type() PropertyType {
	if v.Weak {
		return TypeWeakReference
	}
	return TypeReference
}

func (v IdentifierValue) Canonical() (string, error) { return v.ID, nil }

type LongValue int64

func (LongValue) Type() PropertyType        { return TypeLong }
func (v LongValue) Canonical() (string, error) { return strconv.FormatInt(int64(v), 10), nil }

type DoubleValue float64

func (DoubleValue) Type() PropertyType { return TypeDouble }

// Canonical renders the value the way repository exports do: integral values keep
// a ".0" suffix and the special values are spelled out.
func (v DoubleValue) Canonical() (string, error) {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "NaN", nil
	case math.IsInf(f, 1):
		return "Infinity", nil
	case math.IsInf(f, -1):
		return "-Infinity", nil
	case f == math.Trunc(f) && math.Abs(f) < 1e7:
		return strconv.FormatFloat(f, 'f', 1, 64), nil
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

// DecimalValue is an arbitrary precision decimal.
type DecimalValue struct {
	V *big.Float
}

// ParseDecimal parses s into a DecimalValue.
func ParseDecimal(s string) (DecimalValue, error) {
	f, _, err := big.ParseFloat(s, 10, 256, big.ToNearestEven)
	if err != nil {
		return DecimalValue{}, fmt.Errorf("%w: decimal %q: %v", ErrValueFormat, s, err)
	}
	return DecimalValue{V: f}, nil
}

func (DecimalValue) Type() PropertyType { return TypeDecimal }

func (v DecimalValue) Canonical() (string, error) {
	if v.V == nil {
		return "", fmt.Errorf("%w: nil decimal", ErrValueFormat)
	}
	return v.V.Text('f', -1), nil
}

type BooleanValue bool

func (BooleanValue) Type() PropertyType        { return TypeBoolean }
func (v BooleanValue) Canonical() (string, error) { return strconv.FormatBool(bool(v)), nil }

type DateValue time.Time

func (DateValue) Type() PropertyType { return TypeDate }

func (v DateValue) Canonical() (string, error) {
	return time.Time(v).Format(DateLayout), nil
}

// ParseDate parses a canonical date string.
func ParseDate(s string) (DateValue, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
	}
	if err != nil {
		return DateValue{}, fmt.Errorf("%w: date %q", ErrValueFormat, s)
	}
	return DateValue(t), nil
}

// BinaryValue is a binary whose content lives outside the docview. Ref is
// the external reference token, empty when the binary has none.
type BinaryValue struct {
	Ref string
}

func (BinaryValue) Type() PropertyType { return TypeBinary }

// Canonical returns the empty string: binary content is never inlined.
func (BinaryValue) Canonical() (string, error) { return "", nil }

func (v BinaryValue) Reference() (string, bool) { return v.Ref, v.Ref != "" }

// serializeValue returns the docview string of v. Binaries resolve to their
// reference token when useRefs is set and one is available, and to the empty
// string otherwise.
func serializeValue(v Value, useRefs bool) (string, error) {
	if v.Type() == TypeBinary {
		if useRefs {
			if rv, ok := v.(ReferenceValue); ok {
				if ref, ok := rv.Reference(); ok {
					return ref, nil
				}
			}
		}
		return "", nil
	}
	return v.Canonical()
}

// ParseValue converts the canonical string s into a typed value of type typ.
// Undefined is treated as String. Binary values take s as reference token.
func ParseValue(typ PropertyType, s string) (Value, error) {
	switch typ {
	case TypeUndefined, TypeString:
		return StringValue(s), nil
	case TypeName:
		return NameValue(s), nil
	case TypePath:
		return PathValue(s), nil
	case TypeURI:
		return URIValue(s), nil
	case TypeReference, TypeWeakReference:
		return IdentifierValue{ID: s, Weak: typ == TypeWeakReference}, nil
	case TypeBinary:
		return BinaryValue{Ref: s}, nil
	case TypeLong:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: long %q", ErrValueFormat, s)
		}
		return LongValue(n), nil
	case TypeDouble:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: double %q", ErrValueFormat, s)
		}
		return DoubleValue(f), nil
	case TypeBoolean:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%w: boolean %q", ErrValueFormat, s)
		}
		return BooleanValue(b), nil
	case TypeDate:
		return ParseDate(s)
	case TypeDecimal:
		return ParseDecimal(s)
	}
	return nil, fmt.Errorf("%w: unsupported type %s", ErrValueFormat, typ)
}
