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

import (
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultExecutable = "./bin/quake2-gles2"
	DefaultPort       = 27910
	DefaultExecDelay  = 500 * time.Millisecond
	DefaultGameEnv    = "QUAKE2_GAMENAME"
)

type Launch struct {
	DisplayEnv map[string]string `toml:"display_env,omitempty"`
	Executable string            `toml:"executable"`
	AppDir     string            `toml:"app_dir,omitempty"`
	ExecDelay  string            `toml:"exec_delay"`
	GameEnv    string            `toml:"game_env"`
	Port       int               `toml:"port"`
}

func (c *Instance) Executable() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Launch.Executable
}

// AppDir is the directory relative executable paths resolve against. The
// config value wins, then the APP_DIR environment variable, then the
// directory of the running binary.
func (c *Instance) AppDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.vals.Launch.AppDir != "" {
		return c.vals.Launch.AppDir
	}
	if c.appDir != "" {
		return c.appDir
	}

	exe, err := os.Executable()
	if err != nil {
		log.Warn().Err(err).Msg("error resolving executable path")
		return ""
	}
	return filepath.Dir(exe)
}

func (c *Instance) Port() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Launch.Port <= 0 || c.vals.Launch.Port > 65535 {
		return DefaultPort
	}
	return c.vals.Launch.Port
}

// ExecDelay is the pause before the process image is replaced. Invalid
// values fall back to DefaultExecDelay.
func (c *Instance) ExecDelay() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.vals.Launch.ExecDelay == "" {
		return 0
	}
	d, err := time.ParseDuration(c.vals.Launch.ExecDelay)
	if err != nil || d < 0 {
		log.Warn().Msgf("invalid exec delay: %s", c.vals.Launch.ExecDelay)
		return DefaultExecDelay
	}
	return d
}

func (c *Instance) GameEnv() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Launch.GameEnv == "" {
		return DefaultGameEnv
	}
	return c.vals.Launch.GameEnv
}

// DisplayEnv returns a copy of the windowing backend variables passed to
// the game.
func (c *Instance) DisplayEnv() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.vals.Launch.DisplayEnv)
}
