/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package slides maintains the ordered deck of reveal steps and the caption
// form that feeds it.
package slides

import (
	"errors"

	"slowreveal/internal/domain"
)

// ErrIndexOutOfRange is returned by positional operations addressing a slot
// the deck does not have.
var ErrIndexOutOfRange = errors.New("slides: index out of range")

// Collection is the ordered slide deck. Slide identity is a monotonically
// increasing ID assigned at append time and never reused, so reordering and
// removal keep stable handles for the UI layer. Position in the slice is the
// reveal order.
type Collection struct {
	slides []domain.Slide
	nextID int
}

// NewCollection returns an empty deck.
func NewCollection() *Collection {
	return &Collection{nextID: 1}
}

// Restore replaces the deck contents from persisted slides, continuing ID
// assignment above the highest restored ID.
func Restore(slides []domain.Slide) *Collection {
	c := &Collection{slides: append([]domain.Slide(nil), slides...), nextID: 1}
	for _, s := range c.slides {
		if s.ID >= c.nextID {
			c.nextID = s.ID + 1
		}
	}
	return c
}

// Len returns the number of slides.
func (c *Collection) Len() int { return len(c.slides) }

// At returns the slide at position i.
func (c *Collection) At(i int) (domain.Slide, error) {
	if i < 0 || i >= len(c.slides) {
		return domain.Slide{}, ErrIndexOutOfRange
	}
	return c.slides[i], nil
}

// Append adds a slide at the end of the deck and returns its position.
func (c *Collection) Append(sel domain.Region, data domain.SlideData) int {
	c.slides = append(c.slides, domain.Slide{ID: c.nextID, Selection: sel, Data: data})
	c.nextID++
	return len(c.slides) - 1
}

// UpdateAt replaces the selection and data of the slide at position i,
// keeping its ID and position.
func (c *Collection) UpdateAt(i int, sel domain.Region, data domain.SlideData) error {
	if i < 0 || i >= len(c.slides) {
		return ErrIndexOutOfRange
	}
	c.slides[i].Selection = sel
	c.slides[i].Data = data
	return nil
}

// RemoveAt deletes the slide at position i; later slides shift down.
func (c *Collection) RemoveAt(i int) error {
	if i < 0 || i >= len(c.slides) {
		return ErrIndexOutOfRange
	}
	c.slides = append(c.slides[:i], c.slides[i+1:]...)
	return nil
}

// Move relocates the slide at position from to position to, shifting the
// slides in between. A destination outside the deck is clamped into range;
// in particular a drop outside the list lands the slide at the front.
func (c *Collection) Move(from, to int) error {
	if from < 0 || from >= len(c.slides) {
		return ErrIndexOutOfRange
	}
	if to < 0 {
		to = 0
	}
	if to >= len(c.slides) {
		to = len(c.slides) - 1
	}
	if from == to {
		return nil
	}
	s := c.slides[from]
	c.slides = append(c.slides[:from], c.slides[from+1:]...)
	c.slides = append(c.slides[:to], append([]domain.Slide{s}, c.slides[to:]...)...)
	return nil
}

// Clear empties the deck. ID assignment is not reset; handles stay unique
// for the life of the session.
func (c *Collection) Clear() {
	c.slides = nil
}

// Snapshot returns a copy of the deck in order, safe for the caller to hold.
func (c *Collection) Snapshot() []domain.Slide {
	return append([]domain.Slide(nil), c.slides...)
}
