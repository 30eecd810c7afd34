// Quake2Touch Launcher
// Copyright (c) 2026 The Quake2Touch Launcher Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Quake2Touch Launcher.
//
// Quake2Touch Launcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Quake2Touch Launcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Quake2Touch Launcher.  If not, see <http://www.gnu.org/licenses/>.

package helpers

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// FSHelper provides utilities for filesystem mocking in tests
type FSHelper struct {
	Fs afero.Fs
}

// NewMemoryFS creates a new in-memory filesystem for testing
func NewMemoryFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewMemMapFs(),
	}
}

// NewOSFS creates a filesystem helper using the real filesystem (for integration tests)
func NewOSFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewOsFs(),
	}
}

// CreateGame creates an installed game directory under dataDir holding a
// pak file, the layout the registry expects after an install.
func (h *FSHelper) CreateGame(dataDir, name string) error {
	gameDir := filepath.Join(dataDir, name)
	if err := h.Fs.MkdirAll(gameDir, 0o755); err != nil {
		return fmt.Errorf("failed to create game directory %s: %w", gameDir, err)
	}
	pak := filepath.Join(gameDir, "pak0.pak")
	if err := afero.WriteFile(h.Fs, pak, []byte("PACK"), 0o644); err != nil {
		return fmt.Errorf("failed to create pak file %s: %w", pak, err)
	}
	return nil
}

// CreateExtractedDemo creates the directory tree the demo archive unpacks
// to, rooted at outDir.
func (h *FSHelper) CreateExtractedDemo(outDir string) error {
	baseq2 := filepath.Join(outDir, "Install", "Data", "baseq2")
	if err := h.Fs.MkdirAll(filepath.Join(baseq2, "players"), 0o755); err != nil {
		return fmt.Errorf("failed to create extracted tree: %w", err)
	}
	files := map[string][]byte{
		filepath.Join(baseq2, "pak0.pak"):   []byte("PACK"),
		filepath.Join(baseq2, "config.cfg"): []byte("bind w +forward\n"),
	}
	for path, data := range files {
		if err := afero.WriteFile(h.Fs, path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}
