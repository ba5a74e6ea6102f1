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

package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/chartpack/pkg/sheet"
	"github.com/walteh/chartpack/pkg/status"
	"github.com/walteh/chartpack/pkg/typedef"
)

const descriptionTemplate = `# %s
- 别名：%s，英文名 %s

## 使用场景：
%s

## 信息图属性:
%s

## 备注
%s
`

// RenderDescription returns the Markdown description of rec
func RenderDescription(rec sheet.Record) string {
	id := rec.ChartID()
	return fmt.Sprintf(descriptionTemplate,
		firstNonEmpty(rec.NameZh, rec.Name, id),
		rec.Category,
		firstNonEmpty(rec.Name, id),
		rec.Description,
		typedef.Sample,
		rec.Remark,
	)
}

// 📘 Describe writes <metasDir>/<id>.md and returns its path. A record without
// an identifier is logged and yields an empty path.
func (b *Builder) Describe(ctx context.Context, metasDir string, rec sheet.Record) (string, error) {
	logger := zerolog.Ctx(ctx)

	if !rec.HasID() {
		logger.Warn().Interface("record", rec).Msg("record has no id, not writing description")
		return "", nil
	}

	if err := os.MkdirAll(metasDir, 0755); err != nil {
		return "", errors.Errorf("creating metas directory: %w", err)
	}

	path := filepath.Join(metasDir, rec.ChartID()+".md")
	if err := status.WriteFileAtomic(path, []byte(RenderDescription(rec))); err != nil {
		return "", errors.Errorf("writing description for %s: %w", rec.ChartID(), err)
	}

	logger.Debug().Str("chart", rec.ChartID()).Str("path", path).Msg("wrote description")
	return path, nil
}

// 🧩 Merge collects every *.md directly inside metasDir into a JSON object keyed
// by file stem and writes it to outputPath.
func Merge(ctx context.Context, metasDir, outputPath string) (map[string]string, error) {
	logger := zerolog.Ctx(ctx)

	entries, err := os.ReadDir(metasDir)
	if err != nil {
		return nil, errors.Errorf("listing descriptions: %w", err)
	}

	merged := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(metasDir, entry.Name()))
		if err != nil {
			return nil, errors.Errorf("reading description %s: %w", entry.Name(), err)
		}
		merged[strings.TrimSuffix(entry.Name(), ".md")] = string(data)
	}

	if err := status.WriteJSON(outputPath, merged); err != nil {
		return nil, errors.Errorf("writing merged descriptions: %w", err)
	}

	logger.Debug().Int("descriptions", len(merged)).Str("path", outputPath).Msg("merged descriptions")
	return merged, nil
}
