package imgenc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"
)

// ErrMalformedPNG is returned when encoded PNG data lacks the expected header.
var ErrMalformedPNG = errors.New("malformed PNG stream")

const (
	pngSignatureLen = 8
	ihdrChunkLen    = 4 + 4 + 13 + 4 // length + type + data + crc
	metresPerInch   = 0.0254
	unitMetre       = 1
)

// EncodePNG writes img as PNG with a pHYs chunk recording dpi as the
// horizontal and vertical resolution. dpi <= 0 writes no pHYs chunk.
func EncodePNG(w io.Writer, img image.Image, dpi int) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return err
	}

	data := buf.Bytes()
	if dpi <= 0 {
		_, err := w.Write(data)
		return err
	}

	if len(data) < pngSignatureLen+ihdrChunkLen {
		return ErrMalformedPNG
	}

	// pHYs must precede IDAT; directly after IHDR is always valid.
	split := pngSignatureLen + ihdrChunkLen
	if _, err := w.Write(data[:split]); err != nil {
		return err
	}
	if _, err := w.Write(physChunk(dpi)); err != nil {
		return err
	}
	_, err := w.Write(data[split:])
	return err
}

// PixelsPerMetre converts dpi to the pHYs unit.
func PixelsPerMetre(dpi int) uint32 {
	return uint32(math.Round(float64(dpi) / metresPerInch))
}

// physChunk builds a complete pHYs chunk: length, type, data, CRC.
func physChunk(dpi int) []byte {
	ppm := PixelsPerMetre(dpi)

	chunk := make([]byte, 4+4+9+4)
	binary.BigEndian.PutUint32(chunk[0:4], 9)
	copy(chunk[4:8], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:12], ppm)
	binary.BigEndian.PutUint32(chunk[12:16], ppm)
	chunk[16] = unitMetre
	binary.BigEndian.PutUint32(chunk[17:21], crc32.ChecksumIEEE(chunk[4:17]))
	return chunk
}

// ReadPNGResolution returns the pHYs resolution of PNG data in dots per
// inch, or false when the stream carries no pHYs chunk in metres.
func ReadPNGResolution(data []byte) (int, bool) {
	pos := pngSignatureLen
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		typ := string(data[pos+4 : pos+8])
		body := pos + 8
		if body+length+4 > len(data) {
			return 0, false
		}
		switch typ {
		case "pHYs":
			if length != 9 || data[body+8] != unitMetre {
				return 0, false
			}
			ppm := binary.BigEndian.Uint32(data[body : body+4])
			return int(math.Round(float64(ppm) * metresPerInch)), true
		case "IDAT", "IEND":
			return 0, false
		}
		pos = body + length + 4
	}
	return 0, false
}
