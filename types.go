package docview

import "fmt"

// PropertyType is a repository property type code.
type PropertyType int

const (
	TypeUndefined     PropertyType = 0
	TypeString        PropertyType = 1
	TypeBinary        PropertyType = 2
	TypeLong          PropertyType = 3
	TypeDouble        PropertyType = 4
	TypeDate          PropertyType = 5
	TypeBoolean       PropertyType = 6
	TypeName          PropertyType = 7
	TypePath          PropertyType = 8
	TypeReference     PropertyType = 9
	TypeWeakReference PropertyType = 10
	TypeURI           PropertyType = 11
	TypeDecimal       PropertyType = 12
)

// BinaryRefTag is the type tag emitted for binary reference properties.
const BinaryRefTag = "BinaryRef"

var typeNames = [...]string{
	TypeUndefined:     "undefined",
	TypeString:        "String",
	TypeBinary:        "Binary",
	TypeLong:          "Long",
	TypeDouble:        "Double",
	TypeDate:          "Date",
	TypeBoolean:       "Boolean",
	TypeName:          "Name",
	TypePath:          "Path",
	TypeReference:     "Reference",
	TypeWeakReference: "WeakReference",
	TypeURI:           "URI",
	TypeDecimal:       "Decimal",
}

// String returns the canonical type name as used in type tags.
func (t PropertyType) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("PropertyType(%d)", int(t))
}

// Valid reports whether t is one of the defined type codes.
func (t PropertyType) Valid() bool {
	return t >= TypeUndefined && int(t) < len(typeNames)
}

// TypeFromName resolves a type name to its code. The match is exact.
func TypeFromName(name string) (PropertyType, error) {
	for i, n := range typeNames {
		if n == name {
			return PropertyType(i), nil
		}
	}
	return TypeUndefined, fmt.Errorf("%w: %q", ErrUnknownTypeName, name)
}

// Reserved property names whose type is fixed by the repository model and
// never needs a type tag.
const (
	PrimaryTypeName = "jcr:primaryType"
	MixinTypesName  = "jcr:mixinTypes"
)

var reservedNames = map[string]struct{}{
	PrimaryTypeName: {},
	MixinTypesName:  {},
}

func isReservedName(name string) bool {
	_, ok := reservedNames[name]
	return ok
}

const (
	VersionV1 uint16 = 1

	bundleHeaderSizeV1 uint32 = 32
)

// BundleMagic is the 8-byte property bundle signature.
var BundleMagic = [8]byte{'D', 'V', 'B', 'N', 'D', 'L', '\r', '\n'}

// Compression selects the bundle payload compression.
type Compression uint16

const (
	CompNone Compression = 0x0
	CompZIP  Compression = 0x1
	CompZSTD Compression = 0x2
	CompLZ4  Compression = 0x3
	CompBR   Compression = 0x4
)

const (
	bundleFlagCompressionMask    uint16 = 0x000F
	bundleFlagHasUncompressedLen uint16 = 0x0010
)

// String returns the short name used by the command line tools.
func (c Compression) String() string {
	switch c {
	case CompNone:
		return "none"
	case CompZIP:
		return "zip"
	case CompZSTD:
		return "zstd"
	case CompLZ4:
		return "lz4"
	case CompBR:
		return "br"
	default:
		return "unknown"
	}
}

// CompressionFromName is the inverse of Compression.String.
func CompressionFromName(name string) (Compression, error) {
	for _, c := range []Compression{CompNone, CompZIP, CompZSTD, CompLZ4, CompBR} {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown compression %q", ErrInvalidPayload, name)
}
