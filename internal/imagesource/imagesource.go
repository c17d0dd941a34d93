/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package imagesource resolves the source image a reveal is built over:
// either a direct link to a hosted image or a local file pulled into the
// session. The exported artifact only ever embeds a URL, so local files are
// session-scoped working copies.
package imagesource

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/disintegration/imaging"

	"slowreveal/internal/domain"
)

// ErrInvalidLink is returned for a link that is not a direct image URL.
var ErrInvalidLink = errors.New("imagesource: not a direct image link")

// linkRE accepts http(s) URLs ending in a known raster/vector extension,
// case-insensitively.
var linkRE = regexp.MustCompile(`(?i)(https?://.*\.(?:png|jpg|jpeg|gif|svg))`)

// ValidateLink checks that link is a direct image URL.
func ValidateLink(link string) error {
	if !linkRE.MatchString(link) {
		return ErrInvalidLink
	}
	return nil
}

// Ref describes a resolved source image. Width and Height are zero when the
// dimensions are unknown (a link that was never fetched); AspectRatio is
// always usable, falling back to the layout default.
type Ref struct {
	URL         string
	Width       int
	Height      int
	AspectRatio float64
}

// FromLink resolves a hosted image by URL without fetching it. The aspect
// ratio stays at the layout default until the image is actually measured.
func FromLink(link string) (Ref, error) {
	if err := ValidateLink(link); err != nil {
		return Ref{}, err
	}
	return Ref{URL: link, AspectRatio: domain.DefaultAspectRatio}, nil
}

// FromFile resolves a local image file, decoding it to measure the natural
// dimensions. The ref's URL is the file path; exporting a session built on a
// local file requires the caller to host the image first.
func FromFile(path string) (Ref, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return Ref{}, fmt.Errorf("imagesource: open %s: %w", filepath.Base(path), err)
	}
	b := img.Bounds()
	r := Ref{URL: path, Width: b.Dx(), Height: b.Dy(), AspectRatio: domain.DefaultAspectRatio}
	if r.Height > 0 {
		r.AspectRatio = float64(r.Width) / float64(r.Height)
	}
	return r, nil
}

// Handle is a session-scoped working copy of an uploaded file. The copy is
// released after its first successful decode, mirroring a one-shot preview
// buffer: measure once, then free the storage.
type Handle struct {
	mu       sync.Mutex
	path     string
	released bool
}

// NewHandle copies src into a temporary working file and returns its handle.
func NewHandle(src string) (*Handle, error) {
	in, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("imagesource: read upload: %w", err)
	}
	f, err := os.CreateTemp("", "slowreveal-upload-*"+filepath.Ext(src))
	if err != nil {
		return nil, fmt.Errorf("imagesource: stage upload: %w", err)
	}
	if _, err := f.Write(in); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("imagesource: stage upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("imagesource: stage upload: %w", err)
	}
	return &Handle{path: f.Name()}, nil
}

// Path returns the working copy's location, or "" after release.
func (h *Handle) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return ""
	}
	return h.path
}

// Decode loads the staged image and releases the working copy on success.
func (h *Handle) Decode() (image.Image, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil, errors.New("imagesource: handle already released")
	}
	img, err := imaging.Open(h.path)
	if err != nil {
		return nil, err
	}
	h.releaseLocked()
	return img, nil
}

// Release deletes the working copy. Safe to call more than once.
func (h *Handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.releaseLocked()
}

func (h *Handle) releaseLocked() {
	if h.released {
		return
	}
	os.Remove(h.path)
	h.released = true
}
