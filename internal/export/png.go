/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"slowreveal/internal/domain"
)

// PNGOptions controls preview rendering.
// - MaxWidth: output pixel width; the source is scaled down to fit (0 uses 800)
// - DimAlpha: opacity of the veil over everything outside the slide's region
// - StrokeColor: border drawn around the revealed region
type PNGOptions struct {
	MaxWidth    int
	DimAlpha    uint8
	StrokeColor color.RGBA
}

// ExportSlidePNGs renders one preview image per slide: the source scaled to
// MaxWidth, everything outside the slide's selection dimmed, and the
// selection outlined. Files are named slide-<n>.png under outDir.
func ExportSlidePNGs(src image.Image, slides []domain.Slide, outDir string, opt PNGOptions) error {
	if src == nil {
		return fmt.Errorf("source image is nil")
	}
	if opt.MaxWidth <= 0 {
		opt.MaxWidth = 800
	}
	if opt.DimAlpha == 0 {
		opt.DimAlpha = 160
	}
	if opt.StrokeColor.A == 0 {
		opt.StrokeColor = color.RGBA{R: 255, G: 214, B: 0, A: 255}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}

	sb := src.Bounds()
	w := opt.MaxWidth
	if sb.Dx() < w {
		w = sb.Dx()
	}
	h := int(math.Round(float64(w) * float64(sb.Dy()) / float64(sb.Dx())))
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, sb, xdraw.Src, nil)

	for i, slide := range slides {
		img := image.NewRGBA(scaled.Bounds())
		copy(img.Pix, scaled.Pix)

		r := slide.Selection.Normalized().Rect()
		x0 := int(math.Round(r.X * float64(w)))
		y0 := int(math.Round(r.Y * float64(h)))
		x1 := int(math.Round((r.X + r.Width) * float64(w)))
		y1 := int(math.Round((r.Y + r.Height) * float64(h)))
		dimOutside(img, x0, y0, x1, y1, opt.DimAlpha)
		strokeRect(img, clampInt(x0, 0, w-1), clampInt(y0, 0, h-1), clampInt(x1, 0, w-1), clampInt(y1, 0, h-1), opt.StrokeColor)

		name := filepath.Join(outDir, fmt.Sprintf("slide-%d.png", i+1))
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("create png: %w", err)
		}
		if err := png.Encode(f, img); err != nil {
			_ = f.Close()
			return fmt.Errorf("encode png: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close png: %w", err)
		}
	}
	return nil
}

// dimOutside blends a dark veil over every pixel outside [x0,x1)x[y0,y1).
func dimOutside(img *image.RGBA, x0, y0, x1, y1 int, alpha uint8) {
	b := img.Bounds()
	a := uint32(alpha)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if x >= x0 && x < x1 && y >= y0 && y < y1 {
				continue
			}
			c := img.RGBAAt(x, y)
			c.R = uint8(uint32(c.R) * (255 - a) / 255)
			c.G = uint8(uint32(c.G) * (255 - a) / 255)
			c.B = uint8(uint32(c.B) * (255 - a) / 255)
			img.SetRGBA(x, y, c)
		}
	}
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
