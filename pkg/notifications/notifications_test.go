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

package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotification_Lossy(t *testing.T) {
	t.Parallel()

	assert.True(t, Notification{Method: DownloadProgress}.Lossy())

	for _, method := range []string{
		DownloadSucceeded, DownloadFailed, UnpackFailed,
		InstallSucceeded, InstallFailed, GamesChanged,
	} {
		assert.False(t, Notification{Method: method}.Lossy(), method)
	}
}
