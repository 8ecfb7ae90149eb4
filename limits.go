package docview

// Limits bounds what DecodeBundle accepts and EncodeBundle produces.
// Zero fields take the defaults.
type Limits struct {
	MaxPayloadLen      uint64 // stored payload length, possibly compressed
	MaxUncompressedLen uint64 // gob bytes after decompression
	MaxProperties      int
	MaxValueLen        int // length of one formatted property value
}

// DefaultLimits returns the limits used when none are given.
func DefaultLimits() Limits {
	return Limits{
		MaxPayloadLen:      64 << 20,  // 64 MiB
		MaxUncompressedLen: 256 << 20, // 256 MiB
		MaxProperties:      65_536,
		MaxValueLen:        16 << 20,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxPayloadLen == 0 {
		l.MaxPayloadLen = d.MaxPayloadLen
	}
	if l.MaxUncompressedLen == 0 {
		l.MaxUncompressedLen = d.MaxUncompressedLen
	}
	if l.MaxProperties == 0 {
		l.MaxProperties = d.MaxProperties
	}
	if l.MaxValueLen == 0 {
		l.MaxValueLen = d.MaxValueLen
	}
	return l
}
