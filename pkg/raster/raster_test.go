package raster

import (
	"image"
	"image/color"
	"testing"
)

func TestNewDimensions(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{name: "Empty", width: 0, height: 0},
		{name: "SingleRow", width: 5, height: 1},
		{name: "SingleColumn", width: 1, height: 5},
		{name: "Square", width: 16, height: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := New(tt.width, tt.height)
			if img.Width() != tt.width {
				t.Errorf("Width() = %d, want %d", img.Width(), tt.width)
			}
			if img.Height() != tt.height {
				t.Errorf("Height() = %d, want %d", img.Height(), tt.height)
			}
			if got := len(img.Pix()); got != tt.width*tt.height {
				t.Errorf("len(Pix()) = %d, want %d", got, tt.width*tt.height)
			}
		})
	}
}

func TestNewNegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("New(-1, 3) did not panic")
		}
	}()
	New(-1, 3)
}

func TestAtSetRoundTrip(t *testing.T) {
	img := New(3, 2)
	want := Pixel{10, 20, 30}
	img.Set(2, 1, want)

	if got := img.At(2, 1); got != want {
		t.Errorf("At(2,1) = %v, want %v", got, want)
	}
	if got := img.At(0, 0); got != (Pixel{}) {
		t.Errorf("At(0,0) = %v, want zero pixel", got)
	}
}

func TestRowMajorLayout(t *testing.T) {
	// Set(x=1, y=2) on a 4-wide image must land at flat index 2*4+1.
	img := New(4, 3)
	img.Set(1, 2, Pixel{9, 9, 9})

	if got := img.Pix()[2*4+1]; got != (Pixel{9, 9, 9}) {
		t.Errorf("Pix()[9] = %v, want {9 9 9}", got)
	}
}

func TestRowAliasesBacking(t *testing.T) {
	img := New(3, 2)
	row := img.Row(1)
	row[0] = Pixel{1, 2, 3}

	if got := img.At(0, 1); got != (Pixel{1, 2, 3}) {
		t.Errorf("At(0,1) = %v, want {1 2 3} after writing through Row", got)
	}
	if got := len(row); got != 3 {
		t.Errorf("len(Row(1)) = %d, want 3", got)
	}
}

func TestOutOfRangePanics(t *testing.T) {
	img := New(2, 2)
	tests := []struct {
		name string
		fn   func()
	}{
		{name: "AtNegativeX", fn: func() { img.At(-1, 0) }},
		{name: "AtLargeX", fn: func() { img.At(2, 0) }},
		{name: "AtLargeY", fn: func() { img.At(0, 2) }},
		{name: "SetLargeX", fn: func() { img.Set(2, 0, Pixel{}) }},
		{name: "RowLargeY", fn: func() { img.Row(2) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestCloneIndependence(t *testing.T) {
	img := New(2, 2)
	img.Set(0, 0, Pixel{1, 1, 1})

	cp := img.Clone()
	if !img.Equal(cp) {
		t.Fatal("clone differs from original")
	}

	cp.Set(0, 0, Pixel{2, 2, 2})
	if got := img.At(0, 0); got != (Pixel{1, 1, 1}) {
		t.Errorf("original pixel = %v after mutating clone, want {1 1 1}", got)
	}
	if img.Equal(cp) {
		t.Error("Equal = true after mutating clone")
	}
}

func TestEqual(t *testing.T) {
	base := New(2, 2)
	base.Set(1, 1, Pixel{5, 5, 5})

	tests := []struct {
		name  string
		other func() *Image
		want  bool
	}{
		{name: "Identical", other: func() *Image { return base.Clone() }, want: true},
		{name: "DifferentPixel", other: func() *Image {
			o := base.Clone()
			o.Set(0, 0, Pixel{1, 0, 0})
			return o
		}, want: false},
		{name: "DifferentDims", other: func() *Image { return New(2, 3) }, want: false},
		{name: "TransposedDims", other: func() *Image { return New(4, 1) }, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Equal(tt.other()); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromImageNRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(1, 1, color.NRGBA{R: 40, G: 50, B: 60, A: 128})

	img := FromImage(src)
	if img.Width() != 2 || img.Height() != 2 {
		t.Fatalf("dimensions = %dx%d, want 2x2", img.Width(), img.Height())
	}
	if got := img.At(0, 0); got != (Pixel{10, 20, 30}) {
		t.Errorf("At(0,0) = %v, want {10 20 30}", got)
	}
	// Alpha is dropped, not composited.
	if got := img.At(1, 1); got != (Pixel{40, 50, 60}) {
		t.Errorf("At(1,1) = %v, want {40 50 60}", got)
	}
}

func TestFromImageSubRectangle(t *testing.T) {
	// Non-zero Min bounds must not shift pixel addressing.
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(2, 3, color.NRGBA{R: 7, G: 8, B: 9, A: 255})

	sub := src.SubImage(image.Rect(2, 2, 4, 4)).(*image.NRGBA)
	img := FromImage(sub)

	if img.Width() != 2 || img.Height() != 2 {
		t.Fatalf("dimensions = %dx%d, want 2x2", img.Width(), img.Height())
	}
	if got := img.At(0, 1); got != (Pixel{7, 8, 9}) {
		t.Errorf("At(0,1) = %v, want {7 8 9}", got)
	}
}

func TestFromImageGeneric(t *testing.T) {
	// A non-NRGBA source goes through the color model path.
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.Set(0, 0, color.RGBA{R: 100, G: 150, B: 200, A: 255})

	img := FromImage(src)
	if got := img.At(0, 0); got != (Pixel{100, 150, 200}) {
		t.Errorf("At(0,0) = %v, want {100 150 200}", got)
	}
}

func TestToNRGBARoundTrip(t *testing.T) {
	img := New(3, 2)
	img.Set(0, 0, Pixel{1, 2, 3})
	img.Set(2, 1, Pixel{250, 251, 252})

	out := img.ToNRGBA()
	if got := out.Bounds(); got.Dx() != 3 || got.Dy() != 2 {
		t.Fatalf("bounds = %v, want 3x2", got)
	}
	if c := out.NRGBAAt(0, 0); c != (color.NRGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("NRGBAAt(0,0) = %v", c)
	}
	if c := out.NRGBAAt(2, 1); c.A != 255 {
		t.Errorf("alpha = %d, want 255", c.A)
	}

	back := FromImage(out)
	if !img.Equal(back) {
		t.Error("FromImage(ToNRGBA()) differs from original")
	}
}
