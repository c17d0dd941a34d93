/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a project into its distributable artifacts: the
// embeddable HTML page, a storyboard PDF and per-slide preview images.
package export

import (
	"strconv"
	"strings"

	"slowreveal/internal/domain"
)

// embedTemplate is the self-contained viewer page. Runtime behavior comes
// from the pinned CDN script; the page itself only carries the project data
// in hidden divs the script reads back out.
const embedTemplate = `<html>
        <head>
          <meta charset="utf-8" />
          <meta http-equiv="X-UA-Compatible" content="IE=edge" />
          <title>{sitetitle}</title>
          <meta name="description" content="" />
          <meta name="viewport" content="width=device-width, initial-scale=1" />
          <link rel="stylesheet" href="https://cdn.jsdelivr.net/gh/bsteinig/slow-analysis-cdn/style.css" />
        </head>
        <body>
          <div class="container">
            <div class="img-comp">
              <div class="img-comp-highlight" id="img-comp-highlight"></div>
              <img
                src="{imageURL}"
                alt="graphic"
                class="responsive"
                id="img-comp-img"
              />
            </div>
            <div class="info-comp">
              <h1 class="headline">
                  {title}
              </h1>
              <div class="text-container">
                <h3 class="comp-title" id="comp-title">Click Next to begin</h3>
                <p class="comp-info" id="comp-info"></p>
              </div>
              <div class="btn-group">
                  <button class="btn" onclick="backClick()">Back</button>
                  <button class="btn" onclick="nextClick()">Next</button>
                </div>
            </div>
          </div>
          <script src="https://cdn.jsdelivr.net/gh/bsteinig/slow-analysis-cdn/script.js" async defer></script>
          <div id="aspect" style="display: none;">{aspect}</div>
          <div id="titles" style="display: none;">{GraphArea}</div>
          <div id="descs" style="display: none;">{descriptions}</div>
          <div id="coords" style="display: none;">{coords}</div>
        </body>
      </html>`

// sep joins the per-slide payload lists inside the hidden divs. The viewer
// script splits on the same token, so slide text must not contain it.
const sep = "||"

// HTML renders the embeddable page for a project. It is a pure string
// derivation: placeholders are substituted globally, in a fixed order, with
// no HTML escaping. Callers decide when a render is meaningful (an empty
// deck produces a page with empty payload divs).
func HTML(p domain.Project) string {
	html := strings.ReplaceAll(embedTemplate, "{title}", p.Title)
	html = strings.ReplaceAll(html, "{sitetitle}", p.Title)
	html = strings.ReplaceAll(html, "{imageURL}", p.Image)
	html = strings.ReplaceAll(html, "{aspect}", formatFloat(p.AspectRatio))

	var graphArea, descriptions, coords strings.Builder
	for i, slide := range p.Slides {
		graphArea.WriteString(slide.Data.GraphicalFeature)
		// an absent description still occupies its slot
		if slide.Data.Description != "" {
			descriptions.WriteString(slide.Data.Description)
		} else {
			descriptions.WriteString(" ")
		}
		coords.WriteString(formatFloat(slide.Selection.StartX))
		coords.WriteString(",")
		coords.WriteString(formatFloat(slide.Selection.StartY))
		coords.WriteString(",")
		coords.WriteString(formatFloat(slide.Selection.EndX))
		coords.WriteString(",")
		coords.WriteString(formatFloat(slide.Selection.EndY))
		if i != len(p.Slides)-1 {
			graphArea.WriteString(sep)
			descriptions.WriteString(sep)
			coords.WriteString(sep)
		}
	}

	html = strings.ReplaceAll(html, "{GraphArea}", graphArea.String())
	html = strings.ReplaceAll(html, "{descriptions}", descriptions.String())
	html = strings.ReplaceAll(html, "{coords}", coords.String())
	return html
}

// formatFloat renders numbers the way the viewer script expects them:
// shortest round-trip form, no trailing zeros, "0.5" not "0.500000".
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
