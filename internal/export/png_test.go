package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"slowreveal/internal/domain"
)

func TestExportSlidePNGs(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 120, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 120; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	slides := []domain.Slide{
		{ID: 1, Selection: domain.Region{Active: true, StartX: 0.25, StartY: 0.25, EndX: 0.75, EndY: 0.75},
			Data: domain.SlideData{GraphicalFeature: "center"}},
		{ID: 2, Selection: domain.Region{Active: true, StartX: 0, StartY: 0, EndX: 0.5, EndY: 0.5},
			Data: domain.SlideData{GraphicalFeature: "corner"}},
	}

	dir := t.TempDir()
	if err := ExportSlidePNGs(src, slides, dir, PNGOptions{MaxWidth: 120}); err != nil {
		t.Fatalf("export: %v", err)
	}

	for i := 1; i <= 2; i++ {
		f, err := os.Open(filepath.Join(dir, fmt.Sprintf("slide-%d.png", i)))
		if err != nil {
			t.Fatalf("open slide %d: %v", i, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode slide %d: %v", i, err)
		}
		if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 80 {
			t.Fatalf("slide %d bounds = %v", i, img.Bounds())
		}
	}

	// inside the region the image keeps its brightness, outside it is dimmed
	f, _ := os.Open(filepath.Join(dir, "slide-1.png"))
	img, err := png.Decode(f)
	f.Close()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	inR, _, _, _ := img.At(60, 40).RGBA()
	outR, _, _, _ := img.At(5, 5).RGBA()
	if inR <= outR {
		t.Fatalf("region not brighter than surroundings: in=%d out=%d", inR, outR)
	}
}

func TestExportSlidePNGsNilSource(t *testing.T) {
	if err := ExportSlidePNGs(nil, nil, t.TempDir(), PNGOptions{}); err == nil {
		t.Fatalf("expected error for nil source")
	}
}
