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

package status

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// WriteFileAtomic writes content through a temp file and a rename
func WriteFileAtomic(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// 🧾 WriteJSON writes v as two-space indented JSON with a trailing newline.
// HTML characters are left unescaped so markdown survives verbatim.
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return errors.Errorf("encoding json: %w", err)
	}
	return WriteFileAtomic(path, buf.Bytes())
}

// CopyFile copies src to dst, creating parent directories and replacing dst
func CopyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer srcFile.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	dstFile, err := os.Create(dst)
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return errors.Errorf("copying file content: %w", err)
	}

	if err := dstFile.Close(); err != nil {
		return errors.Errorf("closing destination file: %w", err)
	}
	return nil
}

// ResetDir leaves path as an existing, empty directory
func ResetDir(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return errors.Errorf("clearing directory: %w", err)
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	return nil
}
