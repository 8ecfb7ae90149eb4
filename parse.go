package docview

import (
	"unicode/utf16"
	"unicode/utf8"
)

type parseMode uint8

const (
	modeBegin     parseMode = iota // type tag, array or value
	modeAfterType                  // array or value
	modeTypeTag
	modeValue
	modeEscape
	modeUnicode
)

// parseState is the complete parser state. step never mutates its receiver
// in a way visible to the caller: every transition yields the next state.
type parseState struct {
	mode  parseMode
	multi bool
	ref   bool
	typ   PropertyType

	vals    []string
	hasVals bool // an explicit value list exists, possibly empty
	buf     []byte

	code    rune
	digits  int
	badCode bool
	high    rune // pending high surrogate from a \u escape
}

// Parse parses an enhanced docview attribute value into a Property.
//
// Parse is lenient: malformed brackets and escapes are recovered rather than
// reported. A missing closing bracket still yields the pending value, a ']'
// only terminates the array at the very end of the input and a dangling
// escape is dropped. The only error is ErrUnknownTypeName for a type tag
// that does not name a property type.
func Parse(name, value string) (*Property, error) {
	st := parseState{mode: modeBegin, typ: TypeUndefined}
	for pos := 0; pos < len(value); {
		r, size := utf8.DecodeRuneInString(value[pos:])
		pos += size
		var err error
		if st, err = st.step(r, pos == len(value)); err != nil {
			return nil, err
		}
	}
	values := st.finish()
	return NewProperty(name, values, st.multi, st.typ, st.ref)
}

// MustParse is like Parse but panics on error.
func MustParse(name, value string) *Property {
	p, err := Parse(name, value)
	if err != nil {
		panic(err)
	}
	return p
}

func (s parseState) step(r rune, last bool) (parseState, error) {
	switch s.mode {
	case modeBegin:
		if r == '{' {
			s.mode = modeTypeTag
			return s, nil
		}
		return s.startValue(r), nil
	case modeAfterType:
		return s.startValue(r), nil
	case modeTypeTag:
		if r != '}' {
			s.buf = utf8.AppendRune(s.buf, r)
			return s, nil
		}
		tag := string(s.buf)
		if tag == BinaryRefTag {
			s.typ = TypeBinary
			s.ref = true
		} else {
			typ, err := TypeFromName(tag)
			if err != nil {
				return s, err
			}
			s.typ = typ
		}
		s.buf = nil
		s.mode = modeAfterType
		return s, nil
	case modeValue:
		switch {
		case r == '\\':
			s.mode = modeEscape
		case r == ',' && s.multi:
			s = s.pushValue()
		case r == ']' && s.multi && last:
			if len(s.buf) > 0 || s.high != 0 || s.hasVals {
				s = s.pushValue()
			}
		default:
			s = s.appendRune(r)
		}
		return s, nil
	case modeEscape:
		s.mode = modeValue
		switch r {
		case 'u':
			s.mode = modeUnicode
			s.code, s.digits, s.badCode = 0, 0, false
		case '0':
			// one explicit empty value
			s.hasVals = true
		default:
			s = s.appendRune(r)
		}
		return s, nil
	case modeUnicode:
		d, ok := hexDigit(r)
		if !ok {
			s.badCode = true
		}
		s.code = s.code<<4 | d
		s.digits++
		if s.digits == 4 {
			s.mode = modeValue
			s = s.appendCodeUnit()
		}
		return s, nil
	}
	return s, nil
}

// startValue handles the first character after the optional type tag.
func (s parseState) startValue(r rune) parseState {
	switch r {
	case '[':
		s.multi = true
		s.mode = modeValue
	case '\\':
		s.mode = modeEscape
	default:
		s = s.appendRune(r)
		s.mode = modeValue
	}
	return s
}

// appendRune appends r to the current value, first resolving an unpaired
// high surrogate.
func (s parseState) appendRune(r rune) parseState {
	s = s.flushSurrogate()
	s.buf = utf8.AppendRune(s.buf, r)
	return s
}

// appendCodeUnit appends the UTF-16 code unit accumulated by a \u escape,
// pairing surrogates across consecutive escapes.
func (s parseState) appendCodeUnit() parseState {
	c := s.code
	if s.badCode {
		c = utf8.RuneError
	}
	switch {
	case s.high != 0 && c >= 0xDC00 && c <= 0xDFFF:
		s.buf = utf8.AppendRune(s.buf, utf16.DecodeRune(s.high, c))
		s.high = 0
		return s
	case c >= 0xD800 && c <= 0xDBFF:
		s = s.flushSurrogate()
		s.high = c
		return s
	}
	return s.appendRune(c)
}

func (s parseState) flushSurrogate() parseState {
	if s.high != 0 {
		s.buf = utf8.AppendRune(s.buf, utf8.RuneError)
		s.high = 0
	}
	return s
}

func (s parseState) pushValue() parseState {
	s = s.flushSurrogate()
	s.vals = append(s.vals, string(s.buf))
	s.hasVals = true
	s.buf = s.buf[:0:0]
	return s
}

// finish returns the collected values at end of input.
func (s parseState) finish() []string {
	s = s.flushSurrogate()
	if !s.multi {
		return []string{string(s.buf)}
	}
	if len(s.buf) > 0 {
		s = s.pushValue()
	}
	if s.vals == nil {
		return []string{}
	}
	return s.vals
}

func hexDigit(r rune) (rune, bool) {
	switch {
	case r >= '0' && r <= '9':
		return r - '0', true
	case r >= 'a' && r <= 'f':
		return r - 'a' + 10, true
	case r >= 'A' && r <= 'F':
		return r - 'A' + 10, true
	}
	return 0, false
}
