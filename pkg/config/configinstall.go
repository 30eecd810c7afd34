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

package config

import "path/filepath"

const (
	clickLibDir = "/opt/click.ubuntu.com/quake2touch.fredldotme/current/lib/aarch64-linux-gnu/bin"

	DefaultDemoURL      = "https://ftp.gwdg.de/pub/misc/ftp.idsoftware.com/idstuff/quake2/q2-314-demo-x86.exe"
	DefaultUnzipPath    = clickLibDir + "/unzip"
	DefaultMovePath     = clickLibDir + "/mv"
	DefaultSourceSubdir = "Install/Data/baseq2"
	DefaultGameName     = "Demo"
)

// Install controls where the demo package comes from and how it is
// unpacked into the data root.
type Install struct {
	DemoURL      string `toml:"demo_url"`
	UnzipPath    string `toml:"unzip_path"`
	MovePath     string `toml:"move_path,omitempty"`
	SourceSubdir string `toml:"source_subdir"`
	GameName     string `toml:"game_name"`
}

func (c *Instance) DemoURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Install.DemoURL
}

func (c *Instance) UnzipPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Install.UnzipPath
}

// MovePath is the external mv binary used when a rename crosses
// filesystems. Empty disables the fallback.
func (c *Instance) MovePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Install.MovePath
}

// SourceSubdir returns the directory inside the extracted archive that
// holds the game data, using the host path separator.
func (c *Instance) SourceSubdir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return filepath.FromSlash(c.vals.Install.SourceSubdir)
}

// DemoGameName is the directory name the demo is installed under.
func (c *Instance) DemoGameName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Install.GameName
}
