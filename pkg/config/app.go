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

import "time"

var AppVersion = "DEVELOPMENT"

const (
	AppName     = "quake2touch.fredldotme"
	LogFile     = "launcher.log"
	CfgFile     = "config.toml"
	AuthFile    = "auth.toml"
	TUIFile     = "tui.toml"
	LogsDir     = "logs"
	ArchiveFile = "demo.zip"
	UnpackDir   = "unpack"

	HTTPRequestTimeout = 30 * time.Second
)
