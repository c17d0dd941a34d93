/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package selection tracks a single rectangular selection over an image.
//
// A Selector produces one committed Region from either of two input
// modalities: pointer dragging over the image viewport, or a discrete
// keyboard-stepped shadow rectangle. Exactly one modality is in effect at a
// time, selected by the mode tag. All coordinates are fractional image-space
// values; the viewport size only enters at pointer-event conversion.
package selection

import "slowreveal/internal/domain"

// Mode selects the active input modality.
type Mode int

const (
	ModePointer Mode = iota
	ModeKeyboard
)

// Submode is the keyboard editing sub-state. At most one of Move/Resize is
// engaged; engaging one disengages (and thereby commits) the other.
type Submode int

const (
	SubmodeNone Submode = iota
	SubmodeMove
	SubmodeResize
)

// Direction is a discrete arrow-key step.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Step is the fractional distance one keyboard step moves or resizes.
const Step = 0.01

// defaultShadow is the keyboard modality's initial rectangle.
func defaultShadow() domain.Region {
	return domain.Region{StartX: 0.05, StartY: 0.05, EndX: 0.15, EndY: 0.15}
}

// Selector owns the current Region and the per-modality working state.
// It is not safe for concurrent use; all transitions happen inside the
// single-session event loop.
type Selector struct {
	mode   Mode
	region domain.Region
	locked bool

	// pointer modality
	dragging           bool
	startX, startY     float64
	currentX, currentY float64

	// keyboard modality
	shadow  domain.Region
	submode Submode
}

// New returns a selector in pointer mode with no committed region.
func New() *Selector {
	return &Selector{shadow: defaultShadow()}
}

// Region returns the committed region. While a drag is in progress the
// committed region is inactive (the live rectangle is uncommitted state).
func (s *Selector) Region() domain.Region { return s.region }

// Mode returns the active input modality.
func (s *Selector) Mode() Mode { return s.mode }

// SetMode switches the input modality. Switching ends any in-progress
// pointer drag and disengages any keyboard sub-mode without committing.
func (s *Selector) SetMode(m Mode) {
	if m == s.mode {
		return
	}
	s.dragging = false
	s.submode = SubmodeNone
	s.mode = m
}

// Locked reports whether pointer-driven recomputation is suppressed.
func (s *Selector) Locked() bool { return s.locked }

// ToggleLock flips the lock flag. While locked the last committed region is
// frozen against pointer input; Reset clears the lock.
func (s *Selector) ToggleLock() { s.locked = !s.locked }

// Dragging reports whether a pointer gesture is in progress.
func (s *Selector) Dragging() bool { return s.dragging }

// PointerDown begins a drag at viewport pixel (px, py) in a viewport of
// w x h pixels. Ignored outside pointer mode, while locked, or for a
// degenerate viewport.
func (s *Selector) PointerDown(px, py, w, h float64) {
	if s.mode != ModePointer || s.locked || w <= 0 || h <= 0 {
		return
	}
	s.dragging = true
	s.startX = clamp01(px / w)
	s.startY = clamp01(py / h)
	s.currentX = s.startX
	s.currentY = s.startY
	// the live rectangle invalidates any previously committed region
	s.region = domain.Region{}
}

// PointerMove updates the live corner of an in-progress drag.
func (s *Selector) PointerMove(px, py, w, h float64) {
	if !s.dragging || s.locked || w <= 0 || h <= 0 {
		return
	}
	s.currentX = clamp01(px / w)
	s.currentY = clamp01(py / h)
}

// PointerUp ends the drag. An untouched gesture (both corners at the
// origin) or a no-op click (start == current) commits nothing; any other
// release commits the rectangle with its raw, unordered corners.
func (s *Selector) PointerUp() {
	if !s.dragging {
		return
	}
	s.dragging = false
	if s.startX == 0 && s.startY == 0 && s.currentX == 0 && s.currentY == 0 {
		return
	}
	if s.startX == s.currentX && s.startY == s.currentY {
		return
	}
	s.region = domain.Region{
		Active: true,
		StartX: s.startX,
		StartY: s.startY,
		EndX:   s.currentX,
		EndY:   s.currentY,
	}
}

// Reset returns the selector to its initial state for the current mode:
// committed region cleared, pointer corners zeroed, shadow rectangle back
// to its default, sub-mode disengaged, and the lock released.
func (s *Selector) Reset() {
	s.region = domain.Region{}
	s.dragging = false
	s.startX, s.startY = 0, 0
	s.currentX, s.currentY = 0, 0
	s.shadow = defaultShadow()
	s.submode = SubmodeNone
	s.locked = false
}

// Seed loads an existing region as the committed selection, used when an
// edit session re-opens a stored slide. The keyboard shadow follows so a
// subsequent keyboard adjustment starts from the stored rectangle.
func (s *Selector) Seed(r domain.Region) {
	s.region = r
	if r.Active {
		s.shadow = domain.Region{StartX: r.StartX, StartY: r.StartY, EndX: r.EndX, EndY: r.EndY}
	}
}

// Stats is a diagnostic snapshot of the selector's working state.
type Stats struct {
	Mode            Mode
	Locked          bool
	Dragging        bool
	PointerStartX   float64
	PointerStartY   float64
	PointerCurrentX float64
	PointerCurrentY float64
	Shadow          domain.Region
	Submode         Submode
	Region          domain.Region
}

// Stats returns the current diagnostic snapshot.
func (s *Selector) Stats() Stats {
	return Stats{
		Mode:            s.mode,
		Locked:          s.locked,
		Dragging:        s.dragging,
		PointerStartX:   s.startX,
		PointerStartY:   s.startY,
		PointerCurrentX: s.currentX,
		PointerCurrentY: s.currentY,
		Shadow:          s.shadow,
		Submode:         s.submode,
		Region:          s.region,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
