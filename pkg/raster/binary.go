package raster

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Binary layout: 4-byte magic, big-endian uint32 width and height, then
// width*height RGB triples. The format exists so sorted results can live in
// the byte-oriented cache without a round-trip through an image codec.
var magic = [4]byte{'p', 'x', 'r', '1'}

const headerSize = 12

// ErrMalformedData is returned by [Image.UnmarshalBinary] when the input is
// truncated, carries the wrong magic, or its payload does not match the
// declared dimensions.
var ErrMalformedData = errors.New("malformed raster data")

// MarshalBinary encodes the image into the compact cache format. It
// implements [encoding.BinaryMarshaler].
func (m *Image) MarshalBinary() ([]byte, error) {
	buf := make([]byte, headerSize+3*len(m.pix))
	copy(buf[0:4], magic[:])
	binary.BigEndian.PutUint32(buf[4:8], uint32(m.width))
	binary.BigEndian.PutUint32(buf[8:12], uint32(m.height))
	for i, p := range m.pix {
		o := headerSize + 3*i
		buf[o+0] = p[0]
		buf[o+1] = p[1]
		buf[o+2] = p[2]
	}
	return buf, nil
}

// UnmarshalBinary decodes data produced by [Image.MarshalBinary], replacing
// the receiver's contents. It implements [encoding.BinaryUnmarshaler].
func (m *Image) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize {
		return fmt.Errorf("%w: %d bytes is shorter than the header", ErrMalformedData, len(data))
	}
	if [4]byte(data[0:4]) != magic {
		return fmt.Errorf("%w: bad magic", ErrMalformedData)
	}
	w := int(binary.BigEndian.Uint32(data[4:8]))
	h := int(binary.BigEndian.Uint32(data[8:12]))
	if len(data) != headerSize+3*w*h {
		return fmt.Errorf("%w: payload is %d bytes, want %d for %dx%d",
			ErrMalformedData, len(data)-headerSize, 3*w*h, w, h)
	}
	m.width = w
	m.height = h
	m.pix = make([]Pixel, w*h)
	for i := range m.pix {
		o := headerSize + 3*i
		m.pix[i] = Pixel{data[o], data[o+1], data[o+2]}
	}
	return nil
}
