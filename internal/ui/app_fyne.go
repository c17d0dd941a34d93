//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"slowreveal/internal/builder"
	"slowreveal/internal/crash"
	"slowreveal/internal/export"
	applog "slowreveal/internal/log"
	"slowreveal/internal/selection"
	"slowreveal/internal/storage"
)

// Run starts the Fyne-based desktop UI for the reveal builder.
func Run(projectDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	fyneApp := app.NewWithID("slowreveal")
	w := fyneApp.NewWindow("Slow Reveal Builder")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1100)
	winH := prefs.IntWithFallback("window.height", 760)
	if winW < 800 {
		winW = 800
	}
	if winH < 560 {
		winH = 560
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	var session *builder.Session
	status := widget.NewLabel("Ready")

	crash.SetSessionInfo(func() (crash.SessionInfo, bool) {
		if session == nil {
			return crash.SessionInfo{}, false
		}
		return crash.SessionInfo{
			Title:   session.Project().Title,
			Slides:  session.SlideCount(),
			Editing: session.Editing(),
		}, true
	})

	// Session store: SQLite when a project dir is given, memory otherwise.
	var store storage.SessionStore
	if projectDir != "" {
		if s, err := storage.OpenSessionStore(projectDir); err == nil {
			store = s
		} else {
			l.Warn("session store unavailable, using memory", slog.Any("err", err))
		}
	}
	if store == nil {
		store = storage.NewMemoryStore()
	}

	// First-run flag lives next to the draft in the session store.
	firstVisit := false
	{
		ctx := context.Background()
		if _, err := store.Get(ctx, storage.SessionKeyFirstVisit); errors.Is(err, storage.ErrSessionKeyNotFound) {
			firstVisit = true
			_ = store.Set(ctx, storage.SessionKeyFirstVisit, []byte("false"))
			_ = store.Set(ctx, storage.SessionKeyLastTourStep, []byte("0"))
		}
	}
	if firstVisit {
		status.SetText("Welcome! Paste an image link and a title to begin.")
	}

	sel := newSelectCanvas()

	// Slide list
	var slideLabels []string
	selectedSlide := -1
	slideList := widget.NewList(
		func() int { return len(slideLabels) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(slideLabels) {
				o.(*widget.Label).SetText(slideLabels[i])
			}
		},
	)
	slideList.OnSelected = func(id widget.ListItemID) { selectedSlide = int(id) }
	slideList.OnUnselected = func(widget.ListItemID) { selectedSlide = -1 }

	featureEntry := widget.NewEntry()
	featureEntry.SetPlaceHolder("Graphical feature")
	descEntry := widget.NewMultiLineEntry()
	descEntry.SetPlaceHolder("Description (optional)")

	refreshSlides := func() {
		slideLabels = slideLabels[:0]
		if session != nil {
			for i, s := range session.Slides() {
				slideLabels = append(slideLabels, fmt.Sprintf("%d. %s", i+1, s.Data.GraphicalFeature))
			}
		}
		slideList.Refresh()
	}

	syncForm := func() {
		if session == nil {
			return
		}
		featureEntry.SetText(session.Form.GraphicalFeature)
		descEntry.SetText(session.Form.Description)
	}

	submitBtn := widget.NewButton("Add slide", func() {
		if session == nil {
			return
		}
		session.Form.GraphicalFeature = featureEntry.Text
		session.Form.Description = descEntry.Text
		if _, fieldErrs, err := session.Submit(); err != nil {
			if msg, ok := fieldErrs["graphicalFeature"]; ok {
				status.SetText(msg)
			} else {
				status.SetText(err.Error())
			}
			return
		}
		syncForm()
		refreshSlides()
		sel.Refresh()
		status.SetText(fmt.Sprintf("%d slides", session.SlideCount()))
	})

	editBtn := widget.NewButton("Edit selected", func() {
		if session == nil {
			return
		}
		i := selectedSlide
		if i < 0 {
			return
		}
		if err := session.ToggleEdit(i); err != nil {
			status.SetText(err.Error())
			return
		}
		syncForm()
		sel.Refresh()
		if session.Editing() {
			status.SetText(fmt.Sprintf("Editing slide %d", i+1))
		} else {
			status.SetText("Edit cancelled")
		}
	})

	removeBtn := widget.NewButton("Remove selected", func() {
		if session == nil {
			return
		}
		i := selectedSlide
		if i < 0 {
			return
		}
		if err := session.RemoveSlide(i); err != nil {
			status.SetText(err.Error())
			return
		}
		syncForm()
		refreshSlides()
		sel.Refresh()
	})

	lockCheck := widget.NewCheck("Lock selection", func(on bool) {
		if session != nil && session.Selector.Locked() != on {
			session.Selector.ToggleLock()
		}
	})
	keyboardCheck := widget.NewCheck("Keyboard mode", func(on bool) {
		if session == nil {
			return
		}
		if on {
			session.Selector.SetMode(selection.ModeKeyboard)
		} else {
			session.Selector.SetMode(selection.ModePointer)
		}
		sel.Refresh()
	})

	restartBtn := widget.NewButton("Restart", func() {
		if session == nil {
			return
		}
		session.RequestRestart()
		dialog.ShowConfirm("Restart project", "Remove all slides and start over?", func(ok bool) {
			if !ok {
				session.CancelPending()
				return
			}
			if err := session.ConfirmPending(context.Background()); err != nil {
				status.SetText(err.Error())
				return
			}
			syncForm()
			refreshSlides()
			sel.Refresh()
			status.SetText("Project restarted")
		}, w)
	})

	deleteBtn := widget.NewButton("Delete project", func() {
		if session == nil {
			return
		}
		session.RequestDelete()
		dialog.ShowConfirm("Delete project", "Discard the project and the saved draft?", func(ok bool) {
			if !ok {
				session.CancelPending()
				return
			}
			if err := session.ConfirmPending(context.Background()); err != nil {
				status.SetText(err.Error())
				return
			}
			session = nil
			sel.session = nil
			slideLabels = slideLabels[:0]
			slideList.Refresh()
			sel.Refresh()
			status.SetText("Project deleted")
		}, w)
	})

	exportBtn := widget.NewButton("Export HTML", func() {
		if session == nil || session.SlideCount() == 0 {
			status.SetText("Nothing to export yet")
			return
		}
		html := export.HTML(session.Project())
		dir := projectDir
		if dir == "" {
			dir = os.TempDir()
		}
		out := filepath.Join(dir, "index.html")
		if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Wrote " + out)
	})

	// Upload step
	linkEntry := widget.NewEntry()
	linkEntry.SetPlaceHolder("https://example.com/image.png")
	titleEntry := widget.NewEntry()
	titleEntry.SetPlaceHolder("Project title")
	startBtn := widget.NewButton("Start building", func() {
		u := &builder.Upload{Method: builder.SourceLink, Link: linkEntry.Text, Title: titleEntry.Text}
		if errs, err := u.Next(); err != nil {
			status.SetText(firstError(errs, err))
			return
		}
		s, errs, err := u.Finish(store)
		if err != nil {
			status.SetText(firstError(errs, err))
			return
		}
		session = s
		sel.session = s
		syncForm()
		refreshSlides()
		sel.Refresh()
		status.SetText("Session started")
	})

	// Keyboard modality bindings
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if session == nil || session.Selector.Mode() != selection.ModeKeyboard {
			return
		}
		switch ev.Name {
		case fyne.KeyM:
			session.Selector.ToggleMove()
		case fyne.KeyR:
			session.Selector.ToggleResize()
		case fyne.KeyUp:
			session.Selector.StepKey(selection.DirUp)
		case fyne.KeyDown:
			session.Selector.StepKey(selection.DirDown)
		case fyne.KeyLeft:
			session.Selector.StepKey(selection.DirLeft)
		case fyne.KeyRight:
			session.Selector.StepKey(selection.DirRight)
		case fyne.KeyEscape, fyne.KeyReturn, fyne.KeySpace:
			session.Selector.ExitSubmode()
		default:
			return
		}
		sel.Refresh()
	})

	left := container.NewBorder(
		container.NewVBox(
			widget.NewLabel("Image source"),
			linkEntry, titleEntry, startBtn,
			widget.NewSeparator(),
		),
		container.NewVBox(lockCheck, keyboardCheck),
		nil, nil,
		sel,
	)
	right := container.NewBorder(
		container.NewVBox(
			widget.NewLabel("Caption"),
			featureEntry, descEntry, submitBtn,
			widget.NewSeparator(),
			widget.NewLabel("Slides"),
		),
		container.NewVBox(editBtn, removeBtn, restartBtn, deleteBtn, exportBtn),
		nil, nil,
		slideList,
	)
	split := container.NewHSplit(left, right)
	split.SetOffset(0.62)
	w.SetContent(container.NewBorder(nil, status, nil, nil, split))

	if s, err := builder.ResumeSession(context.Background(), store); err == nil {
		session = s
		sel.session = s
		syncForm()
		refreshSlides()
		sel.Refresh()
		status.SetText(fmt.Sprintf("Resumed draft with %d slides", s.SlideCount()))
	}

	w.SetOnClosed(func() {
		prefs.SetInt("window.width", int(w.Canvas().Size().Width))
		prefs.SetInt("window.height", int(w.Canvas().Size().Height))
		_ = store.Close()
	})

	w.ShowAndRun()
	return nil
}

func firstError(errs map[string]string, err error) string {
	for _, v := range errs {
		return v
	}
	return err.Error()
}

// selectCanvas is the drag surface over the image. Pixel positions convert
// to viewport fractions against the widget's current size.
type selectCanvas struct {
	widget.BaseWidget
	session *builder.Session

	bg      *canvas.Rectangle
	overlay *canvas.Rectangle
}

func newSelectCanvas() *selectCanvas {
	c := &selectCanvas{
		bg:      canvas.NewRectangle(color.RGBA{R: 40, G: 40, B: 48, A: 255}),
		overlay: canvas.NewRectangle(color.RGBA{R: 255, G: 214, B: 0, A: 90}),
	}
	c.overlay.StrokeColor = color.RGBA{R: 255, G: 214, B: 0, A: 255}
	c.overlay.StrokeWidth = 2
	c.ExtendBaseWidget(c)
	return c
}

func (c *selectCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &selectCanvasRenderer{c: c}
}

func (c *selectCanvas) MouseDown(ev *desktop.MouseEvent) {
	if c.session == nil {
		return
	}
	size := c.Size()
	c.session.Selector.PointerDown(float64(ev.Position.X), float64(ev.Position.Y), float64(size.Width), float64(size.Height))
	c.Refresh()
}

func (c *selectCanvas) MouseUp(_ *desktop.MouseEvent) {
	if c.session == nil {
		return
	}
	c.session.Selector.PointerUp()
	c.Refresh()
}

func (c *selectCanvas) Dragged(ev *fyne.DragEvent) {
	if c.session == nil {
		return
	}
	size := c.Size()
	c.session.Selector.PointerMove(float64(ev.Position.X), float64(ev.Position.Y), float64(size.Width), float64(size.Height))
	c.Refresh()
}

func (c *selectCanvas) DragEnd() {}

type selectCanvasRenderer struct {
	c *selectCanvas
}

func (r *selectCanvasRenderer) Layout(size fyne.Size) {
	r.c.bg.Resize(size)
	r.positionOverlay(size)
}

func (r *selectCanvasRenderer) MinSize() fyne.Size { return fyne.NewSize(480, 320) }

func (r *selectCanvasRenderer) Refresh() {
	r.positionOverlay(r.c.Size())
	canvas.Refresh(r.c)
}

func (r *selectCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.c.bg, r.c.overlay}
}

func (r *selectCanvasRenderer) Destroy() {}

func (r *selectCanvasRenderer) positionOverlay(size fyne.Size) {
	if r.c.session == nil {
		r.c.overlay.Hide()
		return
	}
	sel := r.c.session.Selector
	rect := sel.Region()
	if sel.Mode() == selection.ModeKeyboard {
		rect = sel.Shadow()
		rect.Active = true
	}
	if !rect.Active {
		r.c.overlay.Hide()
		return
	}
	n := rect.Rect()
	r.c.overlay.Show()
	r.c.overlay.Move(fyne.NewPos(float32(n.X)*size.Width, float32(n.Y)*size.Height))
	r.c.overlay.Resize(fyne.NewSize(float32(n.Width)*size.Width, float32(n.Height)*size.Height))
}
