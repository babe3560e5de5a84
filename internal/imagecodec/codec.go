// Package imagecodec turns base64 image payloads from generation APIs into
// raw bytes and recovers enough header information (size, format) to plan a
// placement. It is deliberately not a general image decoder.
package imagecodec

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"strings"
)

// ErrDecodeFailed is returned by Payload when a payload yields no usable
// bytes at all.
var ErrDecodeFailed = errors.New("image decode failed")

const (
	// FormatPNG and FormatJPEG are the only formats the header sniffer
	// distinguishes.
	FormatPNG  = "png"
	FormatJPEG = "jpeg"

	// fallbackSize is reported when dimensions cannot be read from the
	// header. Callers needing exact non-PNG dimensions must not rely on it.
	fallbackSize = 512

	// PNG IHDR width/height offsets from the start of the file.
	pngWidthOffset  = 16
	pngHeightOffset = 20
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Header describes a decoded image header.
type Header struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// ImagePayload is a decoded generation result: raw bytes plus the header
// information needed to place it. Consumed once and discarded.
type ImagePayload struct {
	Bytes  []byte
	Width  int
	Height int
	Format string
}

// DecodeHeader inspects a base64 (or data-URI) payload and reports its pixel
// size and format.
//
// PNG dimensions are read as two big-endian 32-bit integers at fixed offsets
// inside the IHDR chunk; nothing else in the file is validated. A JPEG
// start-of-image marker yields the 512x512 fallback with format "jpeg"
// (segment walking is out of scope). Any other signature, or any decode
// failure, yields the same fallback with format "png".
func DecodeHeader(payload string) Header {
	return headerFromBytes(ToBytes(payload))
}

func headerFromBytes(data []byte) Header {
	if len(data) >= pngHeightOffset+4 && hasPNGSignature(data) {
		return Header{
			Width:  int(binary.BigEndian.Uint32(data[pngWidthOffset:])),
			Height: int(binary.BigEndian.Uint32(data[pngHeightOffset:])),
			Format: FormatPNG,
		}
	}
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8 {
		return Header{Width: fallbackSize, Height: fallbackSize, Format: FormatJPEG}
	}
	return Header{Width: fallbackSize, Height: fallbackSize, Format: FormatPNG}
}

// ToBytes decodes a base64 payload, stripping a data:image/...;base64,
// prefix when present. Malformed input yields an empty slice rather than an
// error; callers react to a zero length instead of unwrapping exceptions.
func ToBytes(payload string) []byte {
	s := StripDataURI(payload)
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// Some services omit padding.
		data, err = base64.RawStdEncoding.DecodeString(s)
		if err != nil {
			return nil
		}
	}
	return data
}

// Payload decodes a base64 payload into an ImagePayload ready for placement.
// Unlike ToBytes it hard-fails on an empty result, since a placement with no
// bytes can only produce a confusing host error later.
func Payload(payload string) (ImagePayload, error) {
	return FromBytes(ToBytes(payload))
}

// FromBytes wraps already-decoded image bytes into an ImagePayload, sniffing
// the header the same way DecodeHeader does.
func FromBytes(data []byte) (ImagePayload, error) {
	if len(data) == 0 {
		return ImagePayload{}, ErrDecodeFailed
	}
	h := headerFromBytes(data)
	return ImagePayload{
		Bytes:  data,
		Width:  h.Width,
		Height: h.Height,
		Format: h.Format,
	}, nil
}

// StripDataURI removes a leading data:<mime>;base64, prefix if present.
func StripDataURI(s string) string {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			return s[i+1:]
		}
	}
	return s
}

func hasPNGSignature(data []byte) bool {
	for i, b := range pngSignature {
		if data[i] != b {
			return false
		}
	}
	return true
}
