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

// Package archive unpacks the SVG archive into a working directory.
package archive

import (
	"archive/zip"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultDirName is the extraction directory created under the output directory
const DefaultDirName = "extracted_svgs"

// 📦 Extractor unpacks ZIP archives
type Extractor struct {
	dirName string
}

// 🏭 NewExtractor creates an extractor writing into <output>/<dirName>
func NewExtractor(dirName string) *Extractor {
	if dirName == "" {
		dirName = DefaultDirName
	}
	return &Extractor{dirName: dirName}
}

// 📤 Extract unpacks every entry of the archive into the extraction directory,
// overwriting existing files, and returns that directory. A missing archive
// yields an error wrapping fs.ErrNotExist.
func (e *Extractor) Extract(ctx context.Context, archivePath, outputDir string) (string, error) {
	logger := zerolog.Ctx(ctx)

	if _, err := os.Stat(archivePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", errors.Errorf("archive %s: %w", archivePath, fs.ErrNotExist)
		}
		return "", errors.Errorf("checking archive %s: %w", archivePath, err)
	}

	dest := filepath.Join(outputDir, e.dirName)
	if err := os.MkdirAll(dest, 0755); err != nil {
		return "", errors.Errorf("creating extraction directory: %w", err)
	}

	// insecure names still come back with a usable reader; entryPath rejects them below
	zr, err := zip.OpenReader(archivePath)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return "", errors.Errorf("opening archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		target, err := entryPath(dest, f.Name)
		if err != nil {
			return "", err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return "", errors.Errorf("creating directory %s: %w", f.Name, err)
			}
			continue
		}

		if err := writeEntry(f, target); err != nil {
			return "", errors.Errorf("extracting %s: %w", f.Name, err)
		}
		logger.Trace().Str("entry", f.Name).Msg("extracted entry")
	}

	logger.Debug().Str("archive", archivePath).Str("dest", dest).Int("entries", len(zr.File)).Msg("extracted archive")
	return dest, nil
}

// entryPath resolves an entry name inside dest and rejects names that escape it
func entryPath(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("archive entry %q escapes extraction directory", name)
	}
	return target, nil
}

func writeEntry(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	rc, err := f.Open()
	if err != nil {
		return errors.Errorf("opening entry: %w", err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Errorf("creating file: %w", err)
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return errors.Errorf("writing file: %w", err)
	}

	if err := out.Close(); err != nil {
		return errors.Errorf("closing file: %w", err)
	}
	return nil
}
