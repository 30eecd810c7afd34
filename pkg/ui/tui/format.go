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

package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/quake2touch/launcher/pkg/installer"
	"github.com/quake2touch/launcher/pkg/notifications"
)

const progressBarWidth = 30

// FormatSize renders a byte count in binary units.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FormatProgress renders a progress bar, or just the received size when
// the total is unknown.
func FormatProgress(p notifications.ProgressParams) string {
	if math.IsNaN(p.Ratio) || p.Total <= 0 {
		return "Downloading... " + FormatSize(p.Received)
	}

	ratio := min(max(p.Ratio, 0), 1)
	filled := int(math.Round(ratio * progressBarWidth))
	return fmt.Sprintf("[%s%s] %3d%%  %s / %s",
		strings.Repeat("#", filled),
		strings.Repeat("-", progressBarWidth-filled),
		int(math.Round(ratio*100)),
		FormatSize(p.Received),
		FormatSize(p.Total),
	)
}

// StateText describes a pipeline state for the status line.
func StateText(s installer.State) string {
	switch s {
	case installer.StateDownloading:
		return "Downloading demo"
	case installer.StateUnpacking:
		return "Unpacking"
	case installer.StateRelocating:
		return "Installing"
	case installer.StateDone:
		return "Install complete"
	case installer.StateFailed:
		return "Install failed"
	case installer.StateIdle:
		return "Ready"
	default:
		return s.String()
	}
}
