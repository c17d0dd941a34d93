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
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"slowreveal/internal/domain"
)

// PDFOptions controls storyboard export behavior.
// Units are points (pt). Built-in Helvetica is used for portability.
//
// The storyboard is a review artifact: one page per slide showing the image
// frame, the revealed region and the caption text, so an author can proof
// the reveal order away from the browser.
type PDFOptions struct {
	// ImagePath optionally embeds a local copy of the source image into each
	// frame. Without it the frame is drawn empty with the region outlined.
	ImagePath string
}

const (
	pdfPageW      = 612.0 // US Letter in points
	pdfPageH      = 792.0
	pdfMargin     = 54.0
	pdfFrameW     = pdfPageW - 2*pdfMargin
	pdfCaptionGap = 24.0
)

// ExportStoryboardPDF writes a multi-page PDF to outPath, one page per slide
// in reveal order. An empty deck is an error; there is nothing to proof.
func ExportStoryboardPDF(p domain.Project, outPath string, opt PDFOptions) error {
	if len(p.Slides) == 0 {
		return fmt.Errorf("project has no slides")
	}

	aspect := p.AspectRatio
	if aspect <= 0 {
		aspect = domain.DefaultAspectRatio
	}
	frameH := pdfFrameW / aspect

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pdfPageW, Ht: pdfPageH},
		OrientationStr: "",
	})
	pdf.SetTitle(fmt.Sprintf("%s — Storyboard", p.Title), false)
	pdf.SetAuthor("Slow Reveal Builder", false)

	embed := ""
	if opt.ImagePath != "" {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(opt.ImagePath), "."))
		if ext == "png" || ext == "jpg" || ext == "jpeg" || ext == "gif" {
			embed = opt.ImagePath
		}
	}

	for i, slide := range p.Slides {
		pdf.AddPageFormat("", gofpdf.SizeType{Wd: pdfPageW, Ht: pdfPageH})

		// Header: project title and slide position
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetXY(pdfMargin, pdfMargin-18)
		pdf.CellFormat(pdfFrameW, 18, p.Title, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 18, fmt.Sprintf("Slide %d of %d", i+1, len(p.Slides)), "", 0, "R", false, 0, "")

		// Image frame
		fy := pdfMargin + 12
		if embed != "" {
			pdf.ImageOptions(embed, pdfMargin, fy, pdfFrameW, frameH, false, gofpdf.ImageOptions{}, 0, "")
		}
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(0.5)
		pdf.Rect(pdfMargin, fy, pdfFrameW, frameH, "D")

		// Revealed region in frame coordinates
		r := slide.Selection.Normalized().Rect()
		pdf.SetDrawColor(214, 160, 0)
		pdf.SetLineWidth(1.5)
		pdf.Rect(pdfMargin+r.X*pdfFrameW, fy+r.Y*frameH, r.Width*pdfFrameW, r.Height*frameH, "D")

		// Caption
		cy := fy + frameH + pdfCaptionGap
		pdf.SetXY(pdfMargin, cy)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.MultiCell(pdfFrameW, 16, slide.Data.GraphicalFeature, "", "L", false)
		if slide.Data.Description != "" {
			pdf.SetX(pdfMargin)
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(pdfFrameW, 14, slide.Data.Description, "", "L", false)
		}
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
