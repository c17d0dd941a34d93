/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package builder

import (
	"errors"
	"strings"

	"slowreveal/internal/imagesource"
	"slowreveal/internal/storage"
)

// SourceMethod selects how the image enters the session.
type SourceMethod int

const (
	SourceLink SourceMethod = iota
	SourceFile
)

// Upload is the two-step intake that precedes authoring: first the image
// source, then the project title. Step validation gates advancing, so a
// session can only be created from a complete, valid upload.
type Upload struct {
	Method   SourceMethod
	Link     string
	FilePath string
	Title    string

	step int
	ref  imagesource.Ref
}

// Step returns the current step, 0 (source) or 1 (title).
func (u *Upload) Step() int { return u.step }

// ValidateSource checks step 0 and returns per-field error messages.
func (u *Upload) ValidateSource() map[string]string {
	errs := make(map[string]string)
	switch u.Method {
	case SourceLink:
		if err := imagesource.ValidateLink(u.Link); err != nil {
			errs["link"] = "Please provide a direct link to an image"
		}
	case SourceFile:
		if strings.TrimSpace(u.FilePath) == "" {
			errs["file"] = "Please choose an image file"
		}
	}
	return errs
}

// ValidateTitle checks step 1.
func (u *Upload) ValidateTitle() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(u.Title) == "" {
		errs["title"] = "Please provide a title"
	}
	return errs
}

// Next resolves the image source and advances to the title step.
func (u *Upload) Next() (map[string]string, error) {
	if u.step != 0 {
		return nil, errors.New("builder: upload already past the source step")
	}
	if errs := u.ValidateSource(); len(errs) > 0 {
		return errs, ErrInvalidForm
	}
	var err error
	switch u.Method {
	case SourceLink:
		u.ref, err = imagesource.FromLink(u.Link)
	case SourceFile:
		u.ref, err = imagesource.FromFile(u.FilePath)
	}
	if err != nil {
		return map[string]string{"link": err.Error()}, err
	}
	u.step = 1
	return nil, nil
}

// Back returns to the source step, discarding the resolved ref.
func (u *Upload) Back() {
	if u.step == 1 {
		u.step = 0
		u.ref = imagesource.Ref{}
	}
}

// Finish validates the title step and creates the authoring session.
func (u *Upload) Finish(store storage.SessionStore) (*Session, map[string]string, error) {
	if u.step != 1 {
		return nil, nil, errors.New("builder: source step not completed")
	}
	if errs := u.ValidateTitle(); len(errs) > 0 {
		return nil, errs, ErrInvalidForm
	}
	return NewSession(u.ref.URL, strings.TrimSpace(u.Title), u.ref.AspectRatio, store), nil, nil
}
