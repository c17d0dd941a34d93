/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package builder is the authoring session: it owns the selector, the slide
// deck and the caption form, and turns their combined state into the
// project's exported artifact. All mutations flow through a Session so the
// derived preview, the persisted draft and the undo history stay coherent.
package builder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"slowreveal/internal/domain"
	"slowreveal/internal/export"
	applog "slowreveal/internal/log"
	"slowreveal/internal/selection"
	"slowreveal/internal/slides"
	"slowreveal/internal/storage"
	"slowreveal/internal/telemetry"
	"slowreveal/internal/undo"
)

// ErrNoActiveSelection gates slide submission: a slide always pairs a
// committed region with its caption.
var ErrNoActiveSelection = errors.New("builder: no active selection")

// ErrInvalidForm is returned by Submit alongside field errors.
var ErrInvalidForm = errors.New("builder: invalid form")

// noEdit marks the absence of an edit session.
const noEdit = -1

// PendingReset is the confirmation gate for destructive session actions.
type PendingReset int

const (
	PendingNone PendingReset = iota
	// PendingRestart clears the deck and selection but keeps the image.
	PendingRestart
	// PendingDelete discards the whole project, back to the upload step.
	PendingDelete
)

// Session is the authoring state for one project. It is not safe for
// concurrent use; the UI drives it from a single event loop.
type Session struct {
	log *slog.Logger

	image       string
	title       string
	aspectRatio float64

	Selector *selection.Selector
	Form     slides.Form
	deck     *slides.Collection

	editIndex int
	pending   PendingReset

	store storage.SessionStore
	hist  *undo.Manager

	previewHTML string
	deleted     bool
}

// NewSession starts an authoring session for a resolved image.
func NewSession(image, title string, aspectRatio float64, store storage.SessionStore) *Session {
	if store == nil {
		store = storage.NewMemoryStore()
	}
	s := &Session{
		log:         applog.WithComponent("builder"),
		image:       image,
		title:       title,
		aspectRatio: domain.NewProject(image, title, aspectRatio).AspectRatio,
		Selector:    selection.New(),
		deck:        slides.NewCollection(),
		editIndex:   noEdit,
		store:       store,
		hist:        undo.NewManager(undo.Config{MaxDepth: 64}),
	}
	s.persist()
	return s
}

// ResumeSession restores a session from the persisted draft in store.
// Returns storage.ErrSessionKeyNotFound when no draft exists.
func ResumeSession(ctx context.Context, store storage.SessionStore) (*Session, error) {
	data, err := store.Get(ctx, storage.SessionKeyProject)
	if err != nil {
		return nil, err
	}
	var p domain.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	s := &Session{
		log:         applog.WithComponent("builder"),
		image:       p.Image,
		title:       p.Title,
		aspectRatio: p.AspectRatio,
		Selector:    selection.New(),
		deck:        slides.Restore(p.Slides),
		editIndex:   noEdit,
		store:       store,
		hist:        undo.NewManager(undo.Config{MaxDepth: 64}),
	}
	s.refreshPreview()
	return s, nil
}

// Project assembles the current aggregate for persistence and export.
func (s *Session) Project() domain.Project {
	return domain.Project{
		Image:       s.image,
		Title:       s.title,
		AspectRatio: s.aspectRatio,
		Slides:      s.deck.Snapshot(),
	}
}

// Slides returns the deck in reveal order.
func (s *Session) Slides() []domain.Slide { return s.deck.Snapshot() }

// SlideCount returns the deck length.
func (s *Session) SlideCount() int { return s.deck.Len() }

// EditIndex returns the slide position under edit, or -1.
func (s *Session) EditIndex() int { return s.editIndex }

// Editing reports whether an edit session is active.
func (s *Session) Editing() bool { return s.editIndex != noEdit }

// Deleted reports whether the project was discarded.
func (s *Session) Deleted() bool { return s.deleted }

// PreviewHTML returns the last rendered artifact. It only changes when the
// deck is non-empty; an emptied deck keeps the previous render on screen.
func (s *Session) PreviewHTML() string { return s.previewHTML }

// Submit turns the committed selection plus the form content into a slide.
// With an edit session active the slide at that position is replaced and
// the session ends; otherwise the slide is appended. On success the
// selector and the form reset for the next slide. Field errors are returned
// without consuming the selection.
func (s *Session) Submit() (int, map[string]string, error) {
	region := s.Selector.Region()
	if !region.Active {
		return noEdit, nil, ErrNoActiveSelection
	}
	if errs := s.Form.Validate(); len(errs) > 0 {
		return noEdit, errs, ErrInvalidForm
	}

	before := s.deckBlob()
	data := s.Form.Values()
	var pos int
	if s.editIndex != noEdit {
		pos = s.editIndex
		if err := s.deck.UpdateAt(pos, region, data); err != nil {
			return noEdit, nil, err
		}
		s.editIndex = noEdit
		telemetry.Deck(telemetry.SlideUpdated, pos, s.deck.Len())
	} else {
		pos = s.deck.Append(region, data)
		telemetry.Deck(telemetry.SlideAdded, pos, s.deck.Len())
	}
	s.pushHistory(before)

	s.Selector.Reset()
	s.Form.Reset()
	s.afterMutation()
	s.log.Info("slide submitted", slog.Int("index", pos), slog.Int("count", s.deck.Len()))
	return pos, nil, nil
}

// ToggleEdit starts an edit session for the slide at position i, seeding the
// selector and the form from the stored slide. Toggling the slide already
// under edit ends the session and resets both. Toggling a different slide
// switches the session over.
func (s *Session) ToggleEdit(i int) error {
	if s.editIndex == i {
		s.editIndex = noEdit
		s.Selector.Reset()
		s.Form.Reset()
		return nil
	}
	slide, err := s.deck.At(i)
	if err != nil {
		return err
	}
	s.editIndex = i
	s.Selector.Reset()
	s.Selector.Seed(slide.Selection)
	s.Form.Seed(slide.Data)
	return nil
}

// RemoveSlide deletes the slide at position i. Removing the slide under edit
// ends the edit session; removing an earlier slide shifts the edit index left
// so the session keeps tracking the same slide.
func (s *Session) RemoveSlide(i int) error {
	before := s.deckBlob()
	if err := s.deck.RemoveAt(i); err != nil {
		return err
	}
	s.pushHistory(before)
	switch {
	case i == s.editIndex:
		s.editIndex = noEdit
		s.Selector.Reset()
		s.Form.Reset()
	case s.editIndex != noEdit && i < s.editIndex:
		s.editIndex--
	}
	s.afterMutation()
	telemetry.Deck(telemetry.SlideRemoved, i, s.deck.Len())
	return nil
}

// ReorderSlides moves the slide at from to position to. An out-of-range
// destination is clamped; a drop with no destination lands at the front.
func (s *Session) ReorderSlides(from, to int) error {
	before := s.deckBlob()
	if err := s.deck.Move(from, to); err != nil {
		return err
	}
	s.pushHistory(before)
	s.afterMutation()
	telemetry.Deck(telemetry.SlidesReordered, to, s.deck.Len())
	return nil
}

// RequestRestart arms the confirmation gate for clearing the deck.
func (s *Session) RequestRestart() { s.pending = PendingRestart }

// RequestDelete arms the confirmation gate for discarding the project.
func (s *Session) RequestDelete() { s.pending = PendingDelete }

// Pending returns the armed destructive action, if any.
func (s *Session) Pending() PendingReset { return s.pending }

// CancelPending disarms the confirmation gate.
func (s *Session) CancelPending() { s.pending = PendingNone }

// ConfirmPending executes the armed action. Without an armed action it is a
// no-op, so a stray confirm can never destroy anything.
func (s *Session) ConfirmPending(ctx context.Context) error {
	switch s.pending {
	case PendingRestart:
		s.pending = PendingNone
		before := s.deckBlob()
		s.deck.Clear()
		s.pushHistory(before)
		s.editIndex = noEdit
		s.Selector.Reset()
		s.Form.Reset()
		s.afterMutation()
		telemetry.Deck(telemetry.ProjectRestarted, -1, 0)
		s.log.Info("project restarted")
		return nil
	case PendingDelete:
		s.pending = PendingNone
		s.image = ""
		s.title = ""
		s.aspectRatio = domain.DefaultAspectRatio
		s.deck.Clear()
		s.editIndex = noEdit
		s.Selector.Reset()
		s.Form.Reset()
		s.hist.Clear()
		s.deleted = true
		s.previewHTML = ""
		err := s.store.Delete(ctx, storage.SessionKeyProject)
		telemetry.Deck(telemetry.ProjectDeleted, -1, 0)
		s.log.Info("project deleted")
		return err
	default:
		return nil
	}
}

// Undo restores the deck to the previous snapshot. The current deck state is
// handed to the manager so Redo can bring it back.
func (s *Session) Undo() bool {
	cur := s.deckBlob()
	if cur == nil {
		return false
	}
	snap, ok := s.hist.Undo(undo.Snapshot{Blob: cur, TS: time.Now()})
	if !ok {
		return false
	}
	s.restore(snap.Blob)
	return true
}

// Redo re-applies the state the last Undo replaced.
func (s *Session) Redo() bool {
	cur := s.deckBlob()
	if cur == nil {
		return false
	}
	snap, ok := s.hist.Redo(undo.Snapshot{Blob: cur, TS: time.Now()})
	if !ok {
		return false
	}
	s.restore(snap.Blob)
	return true
}

func (s *Session) restore(blob []byte) {
	var sl []domain.Slide
	if err := json.Unmarshal(blob, &sl); err != nil {
		s.log.Error("restore snapshot failed", slog.Any("err", err))
		return
	}
	s.deck = slides.Restore(sl)
	s.editIndex = noEdit
	s.afterMutation()
}

// deckBlob serializes the current deck for history snapshots.
func (s *Session) deckBlob() []byte {
	blob, err := json.Marshal(s.deck.Snapshot())
	if err != nil {
		return nil
	}
	return blob
}

// pushHistory records the pre-mutation deck captured via deckBlob. Callers
// invoke it only after the mutation succeeded, so a rejected operation never
// leaves a no-op history entry.
func (s *Session) pushHistory(before []byte) {
	if before == nil {
		return
	}
	s.hist.PushSnapshot(undo.Snapshot{Blob: before, TS: time.Now()})
}

// afterMutation refreshes the derived artifact and persists the draft.
func (s *Session) afterMutation() {
	s.refreshPreview()
	s.persist()
}

// refreshPreview re-renders the artifact when there is content to render.
func (s *Session) refreshPreview() {
	if s.deck.Len() == 0 {
		return
	}
	s.previewHTML = export.HTML(s.Project())
}

func (s *Session) persist() {
	data, err := json.Marshal(s.Project())
	if err != nil {
		s.log.Error("marshal draft failed", slog.Any("err", err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.store.Set(ctx, storage.SessionKeyProject, data); err != nil {
		s.log.Error("persist draft failed", slog.Any("err", err))
	}
}
