package docview

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
)

// DecodeBundle reads a bundle written by EncodeBundle from r.
//
// DecodeBundle returns ErrInvalidMagic if r does not hold a bundle,
// ErrUnsupportedVersion for an unknown version, ErrLimitExceeded if a size
// limit is exceeded and ErrValidation if the decoded bundle is inconsistent.
// A stored value with an unknown type tag fails with ErrUnknownTypeName.
func DecodeBundle(r io.Reader, opts ...ReadOption) (*Bundle, error) {
	cfg := readConfig{limits: DefaultLimits()}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()

	h, err := readBundleHeader(r)
	if err != nil {
		return nil, err
	}
	if err := h.validate(); err != nil {
		return nil, err
	}
	if int64(h.Count) > int64(cfg.limits.MaxProperties) {
		return nil, fmt.Errorf("%w: %d properties", ErrLimitExceeded, h.Count)
	}
	if h.PayloadLen > cfg.limits.MaxPayloadLen {
		return nil, fmt.Errorf("%w: payload length %d", ErrLimitExceeded, h.PayloadLen)
	}
	stored := make([]byte, h.PayloadLen)
	if _, err := io.ReadFull(r, stored); err != nil {
		return nil, err
	}
	raw, err := decompressPayload(h.compression(), h.Flags, stored, cfg.limits.MaxUncompressedLen)
	if err != nil {
		return nil, err
	}
	var payload bundlePayload
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if len(payload.Entries) != int(h.Count) {
		return nil, fmt.Errorf("%w: header declares %d properties, payload has %d", ErrValidation, h.Count, len(payload.Entries))
	}

	b := &Bundle{Path: payload.Path, Properties: make([]*Property, 0, len(payload.Entries))}
	for _, e := range payload.Entries {
		if len(e.Value) > cfg.limits.MaxValueLen {
			return nil, fmt.Errorf("%w: value of %q too large", ErrLimitExceeded, e.Name)
		}
		p, err := Parse(e.Name, e.Value)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", e.Name, err)
		}
		b.Properties = append(b.Properties, p)
	}
	if err := validateBundle(b, cfg.limits); err != nil {
		return nil, err
	}
	return b, nil
}
