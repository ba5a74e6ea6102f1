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

// Package typedef produces the TypeScript option shape published with each chart.
package typedef

// 📐 Sample is the option shape every chart currently advertises.
const Sample = `type StairsGearsOptions = {
  title: string;
  data: {
    value: string;
  }[];
  remark?: string;
};`

// 🔌 Inferrer turns the SVG variants of a chart into a type definition
type Inferrer interface {
	Infer(svgContents []string) string
}

// 🧱 Static ignores its input and always returns Sample.
//
// TODO(walteh): replace with an inferrer that reads the data slots out of the SVG variants.
type Static struct{}

// NewStatic creates a new Static inferrer
func NewStatic() *Static {
	return &Static{}
}

// Infer implements Inferrer.Infer
func (s *Static) Infer(svgContents []string) string {
	return Sample
}

var _ Inferrer = (*Static)(nil)
