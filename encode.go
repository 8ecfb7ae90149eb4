package docview

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
)

// Function variables for testing injection.
var gobEncodePayload = func(v bundlePayload) ([]byte, error) { return gobEncode(v) }

// EncodeBundle writes b to w.
//
// Every property is stored as its name and its docview string, so reading
// the bundle back goes through Parse. The bundle is validated first: names
// must be non-empty and unique, and the limits must hold.
//
// By default the payload is compressed with Zstandard. Use WithCompression to
// choose another algorithm and WithWriteLimits to change the limits.
func EncodeBundle(w io.Writer, b *Bundle, opts ...WriteOption) error {
	cfg := writeConfig{limits: DefaultLimits(), compression: CompZSTD}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()
	if b == nil {
		return fmt.Errorf("%w: bundle is nil", ErrValidation)
	}
	if err := validateBundle(b, cfg.limits); err != nil {
		return err
	}

	payload := bundlePayload{Path: b.Path, Entries: make([]bundleEntry, 0, len(b.Properties))}
	for _, p := range b.Properties {
		v := p.storedValue()
		if len(v) > cfg.limits.MaxValueLen {
			return fmt.Errorf("%w: value of %q too large", ErrLimitExceeded, p.Name())
		}
		payload.Entries = append(payload.Entries, bundleEntry{Name: p.Name(), Value: v})
	}
	raw, err := gobEncodePayload(payload)
	if err != nil {
		return err
	}
	if uint64(len(raw)) > cfg.limits.MaxUncompressedLen {
		return fmt.Errorf("%w: payload too large", ErrLimitExceeded)
	}
	flags, stored, err := compressPayload(cfg.compression, raw)
	if err != nil {
		return err
	}
	if uint64(len(stored)) > cfg.limits.MaxPayloadLen {
		return fmt.Errorf("%w: stored payload too large", ErrLimitExceeded)
	}

	h := bundleHeaderV1{
		Magic:      BundleMagic,
		Version:    VersionV1,
		Flags:      flags,
		HeaderSize: bundleHeaderSizeV1,
		Count:      uint32(len(payload.Entries)),
		PayloadLen: uint64(len(stored)),
	}
	if err := writeBundleHeader(w, h); err != nil {
		return err
	}
	_, err = w.Write(stored)
	return err
}

func gobEncode[T any](v T) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
