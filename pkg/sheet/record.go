// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sheet

import "strings"

// 🏷️ Field names a semantic column of the chart metadata sheet
type Field string

const (
	FieldCategory    Field = "category"
	FieldImage       Field = "image"
	FieldID          Field = "id"
	FieldName        Field = "name"
	FieldNameZh      Field = "nameZh"
	FieldAuthor      Field = "author"
	FieldK1          Field = "k1" // variant
	FieldK2          Field = "k2" // usage scenario
	FieldK3          Field = "k3" // data item range, e.g. "[1,10]"
	FieldK4          Field = "k4" // priority
	FieldK5          Field = "k5" // rendering
	FieldK6          Field = "k6" // suggested count
	FieldK7          Field = "k7" // state
	FieldK8          Field = "k8" // delivery date
	FieldK9          Field = "k9" // reviewer
	FieldDescription Field = "description"
	FieldRemark      Field = "remark"
)

// 📄 Record is one row of the metadata sheet. Empty strings mean the cell was absent.
type Record struct {
	Category    string `json:"category,omitempty"`
	Image       string `json:"image,omitempty"`
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	NameZh      string `json:"nameZh,omitempty"`
	Author      string `json:"author,omitempty"`
	K1          string `json:"k1,omitempty"`
	K2          string `json:"k2,omitempty"`
	K3          string `json:"k3,omitempty"`
	K4          string `json:"k4,omitempty"`
	K5          string `json:"k5,omitempty"`
	K6          string `json:"k6,omitempty"`
	K7          string `json:"k7,omitempty"`
	K8          string `json:"k8,omitempty"`
	K9          string `json:"k9,omitempty"`
	Description string `json:"description,omitempty"`
	Remark      string `json:"remark,omitempty"`
}

// 🔑 ChartID returns the canonical identifier: trimmed and lower-cased
func (r Record) ChartID() string {
	return strings.ToLower(strings.TrimSpace(r.ID))
}

// HasID reports whether the record carries a usable identifier
func (r Record) HasID() bool {
	return strings.TrimSpace(r.ID) != ""
}

func (r *Record) set(f Field, v string) {
	if p := r.slot(f); p != nil {
		*p = v
	}
}

func (r *Record) slot(f Field) *string {
	switch f {
	case FieldCategory:
		return &r.Category
	case FieldImage:
		return &r.Image
	case FieldID:
		return &r.ID
	case FieldName:
		return &r.Name
	case FieldNameZh:
		return &r.NameZh
	case FieldAuthor:
		return &r.Author
	case FieldK1:
		return &r.K1
	case FieldK2:
		return &r.K2
	case FieldK3:
		return &r.K3
	case FieldK4:
		return &r.K4
	case FieldK5:
		return &r.K5
	case FieldK6:
		return &r.K6
	case FieldK7:
		return &r.K7
	case FieldK8:
		return &r.K8
	case FieldK9:
		return &r.K9
	case FieldDescription:
		return &r.Description
	case FieldRemark:
		return &r.Remark
	}
	return nil
}
