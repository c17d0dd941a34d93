/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package selection

import "slowreveal/internal/domain"

// Keyboard modality. A shadow rectangle is edited through two exclusive
// sub-modes, Move and Resize, stepped by arrow keys in Step-sized
// increments. Leaving a sub-mode (by toggling it off, toggling the other
// one on, or an explicit exit key) commits the shadow as the active region.

// Submode returns the engaged keyboard sub-mode, if any.
func (s *Selector) Submode() Submode { return s.submode }

// Shadow returns the keyboard working rectangle.
func (s *Selector) Shadow() domain.Region { return s.shadow }

// ToggleMove engages or disengages the Move sub-mode. Engaging it while
// Resize is engaged first disengages Resize, committing the shadow.
// Disengaging Move also commits. Ignored outside keyboard mode.
func (s *Selector) ToggleMove() {
	s.toggleSubmode(SubmodeMove)
}

// ToggleResize engages or disengages the Resize sub-mode, with the same
// exclusivity and commit rules as ToggleMove.
func (s *Selector) ToggleResize() {
	s.toggleSubmode(SubmodeResize)
}

func (s *Selector) toggleSubmode(m Submode) {
	if s.mode != ModeKeyboard {
		return
	}
	if s.submode == m {
		s.submode = SubmodeNone
		s.commitShadow()
		return
	}
	if s.submode != SubmodeNone {
		s.commitShadow()
	}
	s.submode = m
}

// ExitSubmode disengages whichever sub-mode is engaged and commits the
// shadow. It is the handler for the Escape, Enter and Space keys; with no
// sub-mode engaged it is a no-op.
func (s *Selector) ExitSubmode() {
	if s.mode != ModeKeyboard || s.submode == SubmodeNone {
		return
	}
	s.submode = SubmodeNone
	s.commitShadow()
}

// StepKey applies one arrow-key step to the engaged sub-mode. With no
// sub-mode engaged arrow keys do nothing.
func (s *Selector) StepKey(d Direction) {
	if s.mode != ModeKeyboard {
		return
	}
	switch s.submode {
	case SubmodeMove:
		s.stepMove(d)
	case SubmodeResize:
		s.stepResize(d)
	}
}

// stepMove translates the whole shadow. Vertical travel is clamped so the
// rectangle never leaves the image: startY stays >= 0 and endY stays <= 1.
// Horizontal travel is unclamped, matching the committed region's tolerance
// for out-of-order corners.
func (s *Selector) stepMove(d Direction) {
	switch d {
	case DirUp:
		dy := Step
		if s.shadow.StartY-dy < 0 {
			dy = s.shadow.StartY
		}
		if dy <= 0 {
			return
		}
		s.shadow.StartY -= dy
		s.shadow.EndY -= dy
	case DirDown:
		dy := Step
		if s.shadow.EndY+dy > 1 {
			dy = 1 - s.shadow.EndY
		}
		if dy <= 0 {
			return
		}
		s.shadow.StartY += dy
		s.shadow.EndY += dy
	case DirLeft:
		s.shadow.StartX -= Step
		s.shadow.EndX -= Step
	case DirRight:
		s.shadow.StartX += Step
		s.shadow.EndX += Step
	}
}

// stepResize adjusts only the end corner. Shrinking stops when the end
// corner would cross the start corner on either axis, so the shadow never
// inverts under keyboard editing.
func (s *Selector) stepResize(d Direction) {
	switch d {
	case DirUp:
		if s.shadow.EndY-Step < s.shadow.StartY {
			s.shadow.EndY = s.shadow.StartY
			return
		}
		s.shadow.EndY -= Step
	case DirDown:
		s.shadow.EndY += Step
	case DirLeft:
		if s.shadow.EndX-Step < s.shadow.StartX {
			s.shadow.EndX = s.shadow.StartX
			return
		}
		s.shadow.EndX -= Step
	case DirRight:
		s.shadow.EndX += Step
	}
}

func (s *Selector) commitShadow() {
	s.region = domain.Region{
		Active: true,
		StartX: s.shadow.StartX,
		StartY: s.shadow.StartY,
		EndX:   s.shadow.EndX,
		EndY:   s.shadow.EndY,
	}
}
