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

import (
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// 📏 ColumnRule binds a field to its home column and to the header keywords
// that identify it anywhere else in the sheet.
type ColumnRule struct {
	Field    Field
	Column   string
	Keywords []string
}

// DefaultRules is the column layout of the chart metadata sheet.
// Keyword order matters: "分类中文名" must be tested before "中文名".
var DefaultRules = []ColumnRule{
	{Field: FieldNameZh, Column: "E", Keywords: []string{"分类中文名"}},
	{Field: FieldCategory, Column: "A", Keywords: []string{"中文名"}},
	{Field: FieldImage, Column: "B", Keywords: []string{"示意图"}},
	{Field: FieldID, Column: "C", Keywords: []string{"id"}},
	{Field: FieldName, Column: "D", Keywords: []string{"分类英文名"}},
	{Field: FieldAuthor, Column: "F", Keywords: []string{"设计负责人"}},
	{Field: FieldK1, Column: "G", Keywords: []string{"变种"}},
	{Field: FieldK2, Column: "H", Keywords: []string{"使用场景"}},
	{Field: FieldK3, Column: "I", Keywords: []string{"数据项范围"}},
	{Field: FieldK4, Column: "J", Keywords: []string{"优先级"}},
	{Field: FieldK5, Column: "K", Keywords: []string{"效果图"}},
	{Field: FieldK6, Column: "L", Keywords: []string{"建议数量"}},
	{Field: FieldK7, Column: "M", Keywords: []string{"状态"}},
	{Field: FieldK8, Column: "N", Keywords: []string{"交付日期"}},
	{Field: FieldK9, Column: "O", Keywords: []string{"技术验收人"}},
	{Field: FieldDescription, Column: "P", Keywords: []string{"中文描述"}},
	{Field: FieldRemark, Column: "Q", Keywords: []string{"备注"}},
}

// DefaultHeader stands in for a missing header row
var DefaultHeader = map[string]string{
	"A": "中文名",
	"B": "示意图",
	"C": "id标识",
	"D": "分类英文名",
	"E": "分类中文名",
	"F": "设计负责人",
	"G": "变种",
	"H": "使用场景",
	"I": "数据项范围",
	"J": "优先级",
	"K": "效果图",
	"L": "建议数量",
	"M": "状态",
	"N": "交付日期",
	"O": "技术验收人",
	"P": "中文描述",
	"Q": "备注",
}

// 🔗 Binding maps one sheet column onto a record field
type Binding struct {
	Column string
	Field  Field
}

// Resolve picks the field for a column. An exact column match wins over any
// keyword; keywords are matched against the lower-cased header text.
func Resolve(rules []ColumnRule, column, header string) (Field, bool) {
	for _, r := range rules {
		if r.Column == column {
			return r.Field, true
		}
	}

	text := strings.ToLower(header)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				return r.Field, true
			}
		}
	}

	return "", false
}

// BuildMapping evaluates the rules once against a header row. Bindings come
// back in column order so later columns overwrite earlier ones on conflict.
func BuildMapping(rules []ColumnRule, header map[string]string) []Binding {
	columns := make([]string, 0, len(header))
	for col := range header {
		columns = append(columns, col)
	}
	sort.Slice(columns, func(i, j int) bool {
		return columnIndex(columns[i]) < columnIndex(columns[j])
	})

	bindings := make([]Binding, 0, len(columns))
	for _, col := range columns {
		field, ok := Resolve(rules, col, header[col])
		if !ok {
			continue
		}
		bindings = append(bindings, Binding{Column: col, Field: field})
	}
	return bindings
}

func columnIndex(col string) int {
	n, err := excelize.ColumnNameToNumber(col)
	if err != nil {
		return 0
	}
	return n
}
