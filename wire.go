package docview

import (
	"encoding/binary"
	"fmt"
	"io"
)

// bundleHeaderV1 is the fixed 32-byte header preceding the payload.
type bundleHeaderV1 struct {
	Magic      [8]byte
	Version    uint16
	Flags      uint16
	HeaderSize uint32
	Count      uint32 // number of properties
	PayloadLen uint64
	Reserved   uint32
}

func readBundleHeader(r io.Reader) (bundleHeaderV1, error) {
	var buf [bundleHeaderSizeV1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return bundleHeaderV1{}, err
	}
	var h bundleHeaderV1
	copy(h.Magic[:], buf[0:8])
	h.Version = binary.LittleEndian.Uint16(buf[8:10])
	h.Flags = binary.LittleEndian.Uint16(buf[10:12])
	h.HeaderSize = binary.LittleEndian.Uint32(buf[12:16])
	h.Count = binary.LittleEndian.Uint32(buf[16:20])
	h.PayloadLen = binary.LittleEndian.Uint64(buf[20:28])
	h.Reserved = binary.LittleEndian.Uint32(buf[28:32])
	return h, nil
}

func writeBundleHeader(w io.Writer, h bundleHeaderV1) error {
	var buf [bundleHeaderSizeV1]byte
	copy(buf[0:8], h.Magic[:])
	binary.LittleEndian.PutUint16(buf[8:10], h.Version)
	binary.LittleEndian.PutUint16(buf[10:12], h.Flags)
	binary.LittleEndian.PutUint32(buf[12:16], h.HeaderSize)
	binary.LittleEndian.PutUint32(buf[16:20], h.Count)
	binary.LittleEndian.PutUint64(buf[20:28], h.PayloadLen)
	binary.LittleEndian.PutUint32(buf[28:32], h.Reserved)
	_, err := w.Write(buf[:])
	return err
}

func (h bundleHeaderV1) compression() Compression {
	return Compression(h.Flags & bundleFlagCompressionMask)
}

func (h bundleHeaderV1) validate() error {
	if h.Magic != BundleMagic {
		return ErrInvalidMagic
	}
	if h.HeaderSize != bundleHeaderSizeV1 {
		return fmt.Errorf("%w: header size %d", ErrInvalidHeader, h.HeaderSize)
	}
	if h.Version != VersionV1 {
		return ErrUnsupportedVersion
	}
	if h.Reserved != 0 {
		return fmt.Errorf("%w: reserved must be zero", ErrInvalidHeader)
	}
	if h.Flags&^(bundleFlagCompressionMask|bundleFlagHasUncompressedLen) != 0 {
		return fmt.Errorf("%w: unknown flags 0x%04x", ErrInvalidHeader, h.Flags)
	}
	switch h.compression() {
	case CompNone, CompZIP, CompZSTD, CompLZ4, CompBR:
	default:
		return fmt.Errorf("%w: unknown compression %d", ErrInvalidHeader, h.compression())
	}
	return nil
}
