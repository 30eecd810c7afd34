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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/quake2touch/launcher/pkg/config"
)

// Dirs holds the per-application storage locations. DataDir is the durable
// data root where each installed game is a subdirectory; CacheDir is the
// scratch area for downloads and extraction.
type Dirs struct {
	DataDir   string
	CacheDir  string
	ConfigDir string
	LogDir    string
}

// DefaultDirs resolves the XDG locations for the launcher's app name.
func DefaultDirs() Dirs {
	cache := filepath.Join(xdg.CacheHome, config.AppName)
	return Dirs{
		DataDir:   filepath.Join(xdg.DataHome, config.AppName),
		CacheDir:  cache,
		ConfigDir: filepath.Join(xdg.ConfigHome, config.AppName),
		// logs live in the cache so they never show up as a game
		LogDir: filepath.Join(cache, config.LogsDir),
	}
}

// Validate checks the data root and the scratch area do not overlap.
func (d Dirs) Validate() error {
	if d.DataDir == "" || d.CacheDir == "" {
		return errors.New("data and cache directories must be set")
	}
	if PathsOverlap(d.DataDir, d.CacheDir) {
		return fmt.Errorf("cache dir %s overlaps data dir %s", d.CacheDir, d.DataDir)
	}
	return nil
}

// EnsureDirectories creates every directory in d.
func EnsureDirectories(d Dirs) error {
	for _, dir := range []string{d.DataDir, d.CacheDir, d.ConfigDir, d.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// PathHasPrefix checks if path is within root, respecting separator
// boundaries so "/data/games2" is not inside "/data/games".
func PathHasPrefix(path, root string) bool {
	normPath := filepath.ToSlash(filepath.Clean(path))
	normRoot := filepath.ToSlash(filepath.Clean(root))

	if normPath == normRoot {
		return true
	}
	if root == "" {
		return false
	}
	if !strings.HasSuffix(normRoot, "/") {
		normRoot += "/"
	}
	return strings.HasPrefix(normPath, normRoot)
}

// PathsOverlap reports whether either path contains the other.
func PathsOverlap(a, b string) bool {
	return PathHasPrefix(a, b) || PathHasPrefix(b, a)
}
