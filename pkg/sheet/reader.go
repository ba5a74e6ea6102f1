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
	"context"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultHeaderScanRows is how many leading rows are searched for the header
	DefaultHeaderScanRows = 5
	// DefaultIDColumn holds the literal "id" in the header row
	DefaultIDColumn = "C"
)

// 📊 Reader loads chart metadata records from the first sheet of a workbook
type Reader struct {
	headerScanRows int
	idColumn       string
	rules          []ColumnRule
}

// Option configures a Reader
type Option func(*Reader)

// WithHeaderScanRows changes how many rows are searched for the header
func WithHeaderScanRows(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.headerScanRows = n
		}
	}
}

// WithIDColumn changes which column must read "id" in the header row
func WithIDColumn(col string) Option {
	return func(r *Reader) {
		if col != "" {
			r.idColumn = strings.ToUpper(col)
		}
	}
}

// 🏭 NewReader creates a new sheet reader
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		headerScanRows: DefaultHeaderScanRows,
		idColumn:       DefaultIDColumn,
		rules:          DefaultRules,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// 📖 Read returns one record per data row that has an identifier, in sheet order.
// A missing file yields an error wrapping fs.ErrNotExist.
func (r *Reader) Read(ctx context.Context, path string) ([]Record, error) {
	logger := zerolog.Ctx(ctx)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Errorf("spreadsheet %s: %w", path, fs.ErrNotExist)
		}
		return nil, errors.Errorf("checking spreadsheet %s: %w", path, err)
	}

	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Errorf("opening spreadsheet: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Errorf("spreadsheet %s has no sheets", path)
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Errorf("reading sheet %s: %w", sheets[0], err)
	}

	raw := rowObjects(rows)
	logger.Debug().Str("sheet", sheets[0]).Int("rows", len(raw)).Msg("loaded sheet")

	headerIdx, header := r.findHeader(raw)
	if headerIdx < 0 {
		logger.Debug().Msg("no header row found, using default header")
		header = DefaultHeader
	} else {
		logger.Debug().Int("row", headerIdx+1).Interface("header", header).Msg("found header row")
	}

	bindings := BuildMapping(r.rules, header)
	for _, b := range bindings {
		logger.Trace().Str("column", b.Column).Str("header", header[b.Column]).Str("field", string(b.Field)).Msg("column mapped")
	}

	records := make([]Record, 0, len(raw))
	for _, row := range raw[headerIdx+1:] {
		var rec Record
		for _, b := range bindings {
			if v, ok := row[b.Column]; ok {
				rec.set(b.Field, v)
			}
		}

		if !rec.HasID() {
			logger.Debug().Interface("row", row).Msg("skipping row without id")
			continue
		}
		records = append(records, rec)
	}

	logger.Debug().Int("records", len(records)).Msg("read records")
	return records, nil
}

// findHeader returns the index of the first row, within the scan window, whose
// id column reads "id". It returns -1 when none does.
func (r *Reader) findHeader(raw []map[string]string) (int, map[string]string) {
	limit := min(r.headerScanRows, len(raw))
	for i := 0; i < limit; i++ {
		if strings.EqualFold(strings.TrimSpace(raw[i][r.idColumn]), "id") {
			return i, raw[i]
		}
	}
	return -1, nil
}

// rowObjects keys every non-empty cell by its column letter. Rows without any
// value are dropped.
func rowObjects(rows [][]string) []map[string]string {
	out := make([]map[string]string, 0, len(rows))
	for _, cells := range rows {
		obj := make(map[string]string, len(cells))
		for i, cell := range cells {
			if cell == "" {
				continue
			}
			col, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				continue
			}
			obj[col] = cell
		}
		if len(obj) == 0 {
			continue
		}
		out = append(out, obj)
	}
	return out
}
