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

package launcher

import (
	"sort"
	"strconv"
	"strings"
)

type Mode string

const (
	ModeSingle Mode = "single"
	ModeHost   Mode = "host"
	ModeJoin   Mode = "join"
)

// DesktopHintEnv is set to the value of AppIDEnv so the compositor can
// match the game window to the launcher's desktop entry.
const (
	DesktopHintEnv = "DESKTOP_FILE_HINT"
	AppIDEnv       = "APP_ID"
)

// BuildArgs returns the engine argument vector, exe first.
func BuildArgs(exe string, port int, req Request) []string {
	p := strconv.Itoa(port)
	switch req.Mode {
	case ModeHost:
		return []string{exe, "+set", "port", p, "+listen", req.GameMode, "1"}
	case ModeJoin:
		return []string{
			exe,
			"+set", "port", p,
			"+connect", req.Server,
			"+set", "name", req.Player,
		}
	default:
		return []string{exe}
	}
}

// BuildEnv returns a new environment based on base with the game
// selection, desktop hint and display variables applied. Later entries
// override earlier ones; base is not modified.
func BuildEnv(base []string, gameEnv, game string, display map[string]string) []string {
	set := map[string]string{gameEnv: game}
	if appID, ok := lookupEnv(base, AppIDEnv); ok && appID != "" {
		set[DesktopHintEnv] = appID
	}
	for k, v := range display {
		set[k] = v
	}

	env := make([]string, 0, len(base)+len(set))
	for _, kv := range base {
		if _, override := set[envKey(kv)]; override {
			continue
		}
		env = append(env, kv)
	}

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+set[k])
	}
	return env
}

func envKey(kv string) string {
	k, _, _ := strings.Cut(kv, "=")
	return k
}

func lookupEnv(env []string, key string) (string, bool) {
	// last entry wins, as with getenv
	for i := len(env) - 1; i >= 0; i-- {
		if k, v, _ := strings.Cut(env[i], "="); k == key {
			return v, true
		}
	}
	return "", false
}
