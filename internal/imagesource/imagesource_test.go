package imagesource

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestValidateLink(t *testing.T) {
	valid := []string{
		"https://example.com/map.png",
		"http://example.com/a/b/photo.JPG",
		"https://cdn.example.org/chart.jpeg",
		"HTTPS://EXAMPLE.COM/X.GIF",
		"https://example.com/figure.svg",
	}
	for _, link := range valid {
		if err := ValidateLink(link); err != nil {
			t.Fatalf("ValidateLink(%q) = %v, want nil", link, err)
		}
	}
	invalid := []string{
		"",
		"example.com/map.png",
		"ftp://example.com/map.png",
		"https://example.com/page.html",
		"https://example.com/map",
	}
	for _, link := range invalid {
		if err := ValidateLink(link); !errors.Is(err, ErrInvalidLink) {
			t.Fatalf("ValidateLink(%q) = %v, want ErrInvalidLink", link, err)
		}
	}
}

func TestFromLinkDefaultsAspect(t *testing.T) {
	ref, err := FromLink("https://example.com/map.png")
	if err != nil {
		t.Fatalf("FromLink: %v", err)
	}
	if ref.URL != "https://example.com/map.png" {
		t.Fatalf("url = %q", ref.URL)
	}
	if ref.Width != 0 || ref.Height != 0 {
		t.Fatalf("unfetched link has dimensions: %+v", ref)
	}
	if ref.AspectRatio != 1.5 {
		t.Fatalf("aspect = %v, want default 1.5", ref.AspectRatio)
	}
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "img.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestFromFileMeasuresAspect(t *testing.T) {
	path := writePNG(t, 300, 200)
	ref, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if ref.Width != 300 || ref.Height != 200 {
		t.Fatalf("dims = %dx%d", ref.Width, ref.Height)
	}
	if ref.AspectRatio != 1.5 {
		t.Fatalf("aspect = %v, want 1.5", ref.AspectRatio)
	}
}

func TestFromFileMissing(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestHandleReleasedAfterDecode(t *testing.T) {
	src := writePNG(t, 10, 10)
	h, err := NewHandle(src)
	if err != nil {
		t.Fatalf("NewHandle: %v", err)
	}
	staged := h.Path()
	if staged == "" {
		t.Fatalf("handle has no path")
	}
	img, err := h.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds().Dx() != 10 {
		t.Fatalf("decoded width = %d", img.Bounds().Dx())
	}
	if h.Path() != "" {
		t.Fatalf("handle not released after decode")
	}
	if _, err := os.Stat(staged); !os.IsNotExist(err) {
		t.Fatalf("working copy still on disk: %v", err)
	}
	if _, err := h.Decode(); err == nil {
		t.Fatalf("second decode must fail after release")
	}
}

func TestHandleReleaseIdempotent(t *testing.T) {
	h, err := NewHandle(writePNG(t, 5, 5))
	if err != nil {
		t.Fatalf("NewHandle: %v", err)
	}
	h.Release()
	h.Release()
	if h.Path() != "" {
		t.Fatalf("path after release = %q", h.Path())
	}
}
