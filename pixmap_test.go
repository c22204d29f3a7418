package motion

import (
	"image"
	"testing"
)

func TestPixmapSetGet(t *testing.T) {
	pm := NewPixmap(4, 3)

	pm.SetPixel(1, 2, 10, 20, 30, 40)
	r, g, b, a := pm.Pixel(1, 2)
	if r != 10 || g != 20 || b != 30 || a != 40 {
		t.Errorf("Pixel = (%d %d %d %d), want (10 20 30 40)", r, g, b, a)
	}

	// Out of bounds reads return transparent black, writes are dropped.
	if r, g, b, a := pm.Pixel(-1, 0); r != 0 || g != 0 || b != 0 || a != 0 {
		t.Errorf("out-of-bounds Pixel = (%d %d %d %d), want zeros", r, g, b, a)
	}
	pm.SetPixel(4, 0, 1, 2, 3, 4) // must not panic
}

func TestPixmapFillClone(t *testing.T) {
	pm := NewPixmap(3, 3)
	pm.Fill(7, 8, 9, 255)

	cl := pm.Clone()
	if !cl.EqualWithin(pm, 0) {
		t.Error("Clone differs from original")
	}

	cl.SetPixel(0, 0, 0, 0, 0, 0)
	if cl.EqualWithin(pm, 0) {
		t.Error("Clone shares storage with original")
	}
}

func TestPixmapCopyFrom(t *testing.T) {
	a := NewPixmap(2, 2)
	a.Fill(1, 2, 3, 4)
	b := NewPixmap(2, 2)

	if !b.CopyFrom(a) {
		t.Fatal("CopyFrom same-size = false, want true")
	}
	if !b.EqualWithin(a, 0) {
		t.Error("CopyFrom result differs from source")
	}

	c := NewPixmap(3, 2)
	if c.CopyFrom(a) {
		t.Error("CopyFrom mismatched size = true, want false")
	}
}

func TestPixmapEqualWithin(t *testing.T) {
	a := NewPixmap(2, 1)
	b := NewPixmap(2, 1)
	a.SetPixel(0, 0, 100, 100, 100, 255)
	b.SetPixel(0, 0, 103, 97, 100, 255)

	if !a.EqualWithin(b, 3) {
		t.Error("EqualWithin(3) = false, want true")
	}
	if a.EqualWithin(b, 2) {
		t.Error("EqualWithin(2) = true, want false")
	}
}

func TestPixmapImageRoundTrip(t *testing.T) {
	pm := NewPixmap(5, 4)
	pm.SetPixel(2, 3, 200, 150, 100, 255)

	img := pm.ToImage()
	if img.Bounds() != image.Rect(0, 0, 5, 4) {
		t.Fatalf("ToImage bounds = %v", img.Bounds())
	}

	back := FromImage(img)
	if !back.EqualWithin(pm, 0) {
		t.Error("FromImage(ToImage()) differs from original")
	}
}
