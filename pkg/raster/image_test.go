package raster

import (
	"image"
	"image/color"
	"testing"
)

// grayImage builds a grayscale test image from a grid of luminance values.
func grayImage(vals [][]uint8) image.Image {
	h, w := len(vals), len(vals[0])
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: vals[y][x]})
		}
	}
	return img
}

func TestSilhouette(t *testing.T) {
	img := grayImage([][]uint8{
		{255, 0, 255},
		{0, 0, 255},
	})

	m := Silhouette(img, DefaultThreshold, false)
	want := []int{0, 1, 0, 1, 1, 0}
	for i, w := range want {
		if got := m.At(i/3, i%3); got != w {
			t.Errorf("pixel %d = %d, want %d", i, got, w)
		}
	}
}

func TestSilhouetteInverted(t *testing.T) {
	img := grayImage([][]uint8{
		{255, 0},
	})

	m := Silhouette(img, DefaultThreshold, true)
	if m.At(0, 0) != 1 {
		t.Error("light pixel should be labelled when inverted")
	}
	if m.At(0, 1) != 0 {
		t.Error("dark pixel should be forbidden when inverted")
	}
}

func TestIndexed(t *testing.T) {
	// Three distinct luminance values: 0 → index 0 (forbidden background),
	// 100 → 1, 200 → 2.
	img := grayImage([][]uint8{
		{0, 100, 200},
		{200, 0, 100},
	})

	m := Indexed(img)
	want := []int{0, 1, 2, 2, 0, 1}
	for i, w := range want {
		if got := m.At(i/3, i%3); got != w {
			t.Errorf("pixel %d = %d, want %d", i, got, w)
		}
	}

	labels := m.Labels()
	if len(labels) != 2 || labels[0] != 1 || labels[1] != 2 {
		t.Errorf("Labels() = %v, want [1 2]", labels)
	}
}

func TestLoadSilhouetteMissingFile(t *testing.T) {
	if _, err := LoadSilhouette("does-not-exist.png", DefaultThreshold, false); err == nil {
		t.Fatal("expected error for missing file")
	}
}
