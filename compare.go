package docview

import (
	"cmp"
	"strings"
	"time"
)

// CompareValues defines the total order used to sort multi-value properties.
// Values of different types order by type code. Within a type the order is
// numeric for Long, Double and Decimal, chronological for Date, false before
// true for Boolean, by reference token for Binary and lexical on the
// canonical string for everything else.
func CompareValues(a, b Value) (int, error) {
	if c := cmp.Compare(a.Type(), b.Type()); c != 0 {
		return c, nil
	}
	switch av := a.(type) {
	case LongValue:
		if bv, ok := b.(LongValue); ok {
			return cmp.Compare(av, bv), nil
		}
	case DoubleValue:
		if bv, ok := b.(DoubleValue); ok {
			return cmp.Compare(av, bv), nil
		}
	case BooleanValue:
		if bv, ok := b.(BooleanValue); ok {
			return compareBool(bool(av), bool(bv)), nil
		}
	case DateValue:
		if bv, ok := b.(DateValue); ok {
			return time.Time(av).Compare(time.Time(bv)), nil
		}
	case DecimalValue:
		if bv, ok := b.(DecimalValue); ok && av.V != nil && bv.V != nil {
			return av.V.Cmp(bv.V), nil
		}
	}
	if a.Type() == TypeBinary {
		return strings.Compare(binaryRef(a), binaryRef(b)), nil
	}
	as, err := a.Canonical()
	if err != nil {
		return 0, err
	}
	bs, err := b.Canonical()
	if err != nil {
		return 0, err
	}
	return strings.Compare(as, bs), nil
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func binaryRef(v Value) string {
	if rv, ok := v.(ReferenceValue); ok {
		ref, _ := rv.Reference()
		return ref
	}
	return ""
}
