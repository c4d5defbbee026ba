package raster

import (
	"errors"
	"testing"
)

func TestBinaryRoundTrip(t *testing.T) {
	img := New(3, 2)
	img.Set(0, 0, Pixel{1, 2, 3})
	img.Set(2, 1, Pixel{200, 100, 50})

	data, err := img.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if got, want := len(data), headerSize+3*6; got != want {
		t.Errorf("encoded size = %d, want %d", got, want)
	}

	var back Image
	if err := back.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if !img.Equal(&back) {
		t.Error("decoded image differs from original")
	}
}

func TestBinaryRoundTripEmpty(t *testing.T) {
	img := New(0, 0)

	data, err := img.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	var back Image
	if err := back.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if back.Width() != 0 || back.Height() != 0 {
		t.Errorf("dimensions = %dx%d, want 0x0", back.Width(), back.Height())
	}
}

func TestUnmarshalBinaryMalformed(t *testing.T) {
	valid, err := New(2, 2).MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "Empty", data: nil},
		{name: "TruncatedHeader", data: valid[:8]},
		{name: "BadMagic", data: append([]byte("nope"), valid[4:]...)},
		{name: "TruncatedPayload", data: valid[:len(valid)-1]},
		{name: "OversizedPayload", data: append(append([]byte{}, valid...), 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var img Image
			err := img.UnmarshalBinary(tt.data)
			if !errors.Is(err, ErrMalformedData) {
				t.Errorf("err = %v, want ErrMalformedData", err)
			}
		})
	}
}
