/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package slides

import (
	"strings"

	"slowreveal/internal/domain"
)

// Form holds the caption fields for the slide being authored. The graphical
// feature is the short label a viewer sees first; the long description is
// optional.
type Form struct {
	GraphicalFeature string
	Description      string
}

// Validate checks the form and returns per-field error messages keyed by
// field name. An empty map means the form is valid.
func (f *Form) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(f.GraphicalFeature) == "" {
		errs["graphicalFeature"] = "Please provide a graphical feature"
	}
	return errs
}

// Values returns the form content as slide data.
func (f *Form) Values() domain.SlideData {
	return domain.SlideData{
		GraphicalFeature: f.GraphicalFeature,
		Description:      f.Description,
	}
}

// Seed loads stored slide data into the form for editing.
func (f *Form) Seed(d domain.SlideData) {
	f.GraphicalFeature = d.GraphicalFeature
	f.Description = d.Description
}

// Reset clears both fields.
func (f *Form) Reset() {
	f.GraphicalFeature = ""
	f.Description = ""
}
