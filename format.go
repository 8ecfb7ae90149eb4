package docview

import (
	"strings"
	"unicode/utf16"
)

const hexTable = "0123456789ABCDEF"

// FormatValue returns the enhanced docview representation of the property
// value:
//
//	prop  := [ "{" type "}" ] ( value | "[" [ value { "," value } ] "]" )
//	type  := type name | "BinaryRef"
//
// The type tag is omitted for String properties and for properties whose
// type is fixed by their name. A property holding exactly one empty value is
// written as the escape sequence \0.
func (p *Property) FormatValue() string {
	var b strings.Builder
	if needsTypeTag(p.typ, p.name) {
		b.WriteByte('{')
		if p.ref {
			b.WriteString(BinaryRefTag)
		} else {
			b.WriteString(p.typ.String())
		}
		b.WriteByte('}')
	}
	if p.multi {
		b.WriteByte('[')
	}
	for i, v := range p.values {
		if len(p.values) == 1 && v == "" {
			b.WriteString(`\0`)
			continue
		}
		if i > 0 {
			b.WriteByte(',')
		}
		switch p.typ {
		case TypeString, TypeName, TypePath:
			writeEscaped(&b, v, p.multi)
		default:
			b.WriteString(v)
		}
	}
	if p.multi {
		b.WriteByte(']')
	}
	return b.String()
}

// needsTypeTag reports whether the type cannot be inferred by a reader.
func needsTypeTag(typ PropertyType, name string) bool {
	return typ != TypeString && !isReservedName(name)
}

// Escape returns value escaped for use as a single docview value, or as
// one entry of a multi-value property when multi is set.
func Escape(value string, multi bool) string {
	var b strings.Builder
	writeEscaped(&b, value, multi)
	return b.String()
}

func writeEscaped(b *strings.Builder, value string, multi bool) {
	first := true
	for _, r := range value {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == ',' && multi:
			b.WriteString(`\,`)
		case first && !multi && (r == '[' || r == '{'):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r > 0xFFFF:
			// Supplementary characters are escaped as a surrogate pair.
			hi, lo := utf16.EncodeRune(r)
			writeUnicodeEscape(b, hi)
			writeUnicodeEscape(b, lo)
		case !isXMLChar(r):
			writeUnicodeEscape(b, r)
		default:
			b.WriteRune(r)
		}
		first = false
	}
}

func writeUnicodeEscape(b *strings.Builder, r rune) {
	b.WriteString(`\u`)
	b.WriteByte(hexTable[(r>>12)&15])
	b.WriteByte(hexTable[(r>>8)&15])
	b.WriteByte(hexTable[(r>>4)&15])
	b.WriteByte(hexTable[r&15])
}

// isXMLChar reports whether r may appear literally in an XML 1.0 attribute
// value.
func isXMLChar(r rune) bool {
	switch {
	case r == 0x9, r == 0xA, r == 0xD:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
