/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for the Slow Reveal builder.
// A Project is the aggregate root that serializes to the JSON manifest;
// slides carry an immutable Region snapshot plus descriptive text.

// DefaultAspectRatio is used when the image's intrinsic dimensions are unknown.
const DefaultAspectRatio = 1.5

// Region is a rectangle in fractional image-space coordinates.
// Start/end corners are not ordering-constrained: a reverse drag stores
// start > end and consumers that need min/max must call Normalized.
// When Active is false the coordinate fields carry no meaning and are zero.
type Region struct {
	Active bool    `json:"active"`
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	EndX   float64 `json:"endX"`
	EndY   float64 `json:"endY"`
}

// Normalized returns a copy with start <= end on both axes.
func (r Region) Normalized() Region {
	n := r
	if n.StartX > n.EndX {
		n.StartX, n.EndX = n.EndX, n.StartX
	}
	if n.StartY > n.EndY {
		n.StartY, n.EndY = n.EndY, n.StartY
	}
	return n
}

// IsZero reports whether all four coordinates are zero.
func (r Region) IsZero() bool {
	return r.StartX == 0 && r.StartY == 0 && r.EndX == 0 && r.EndY == 0
}

// Rect is the width/height form of a region, for collaborators that still
// consume {x, y, width, height}. The corner-pair form is canonical.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect converts the region to its normalized width/height form.
func (r Region) Rect() Rect {
	n := r.Normalized()
	return Rect{X: n.StartX, Y: n.StartY, Width: n.EndX - n.StartX, Height: n.EndY - n.StartY}
}

// SlideData is the user-entered descriptive payload of a slide.
// GraphicalFeature is required; Description may be empty.
type SlideData struct {
	GraphicalFeature string `json:"graphicalFeature"`
	Description      string `json:"description,omitempty"`
}

// Slide is one entry in the ordered presentation. Selection is a snapshot:
// edits replace it with a new Region rather than mutating the stored one.
// ID is unique for the lifetime of the collection but does not track
// position; slides are addressed by index throughout.
type Slide struct {
	ID        int       `json:"id"`
	Selection Region    `json:"selection"`
	Data      SlideData `json:"data"`
}

// Project is the aggregate root consumed by the export renderer and the
// persistence layer.
type Project struct {
	Image       string  `json:"image"`
	Title       string  `json:"title"`
	AspectRatio float64 `json:"aspectRatio"`
	Slides      []Slide `json:"slides"`
}

// NewProject creates a project for a freshly submitted upload step.
func NewProject(image, title string, aspect float64) Project {
	if aspect <= 0 {
		aspect = DefaultAspectRatio
	}
	return Project{Image: image, Title: title, AspectRatio: aspect, Slides: []Slide{}}
}
