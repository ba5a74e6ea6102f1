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

// Package testutils builds chartpack inputs for tests.
package testutils

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Context returns a context carrying a zerolog logger that writes to the test log
func Context(t testing.TB) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

// 📊 WriteWorkbook saves rows into the first sheet of a fresh workbook and
// returns its path
func WriteWorkbook(t testing.TB, rows [][]any) string {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err, "building cell name")
		r := row
		require.NoError(t, wb.SetSheetRow("Sheet1", cell, &r), "writing row %d", i+1)
	}

	path := filepath.Join(t.TempDir(), "charts.xlsx")
	require.NoError(t, wb.SaveAs(path), "saving workbook")
	return path
}

// 📦 WriteZip builds an archive from name -> content and returns its path.
// Names ending in "/" become directory entries.
func WriteZip(t testing.TB, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "svgs.zip")
	f, err := os.Create(path)
	require.NoError(t, err, "creating zip file")
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err, "creating entry %s", name)
		_, err = w.Write([]byte(content))
		require.NoError(t, err, "writing entry %s", name)
	}
	require.NoError(t, zw.Close(), "closing zip writer")
	return path
}
