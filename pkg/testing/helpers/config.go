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
	"maps"
	"os"
	"path/filepath"
	"testing"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/quake2touch/launcher/pkg/config"
	"github.com/stretchr/testify/require"
)

// NewTestConfig writes a config file into a temporary directory and loads
// it. The mutate func, if set, adjusts the defaults before they are written.
func NewTestConfig(t *testing.T, mutate func(*config.Values)) *config.Instance {
	t.Helper()

	vals := config.BaseDefaults
	vals.Launch.DisplayEnv = maps.Clone(vals.Launch.DisplayEnv)
	if mutate != nil {
		mutate(&vals)
	}

	configDir := t.TempDir()
	data, err := toml.Marshal(&vals)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(configDir, config.CfgFile), data, 0o600))

	cfg, err := config.NewConfig(configDir, config.BaseDefaults)
	require.NoError(t, err)
	return cfg
}
