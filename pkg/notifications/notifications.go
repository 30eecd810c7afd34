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

// Package notifications defines the events the install pipeline and game
// registry raise for the presentation layer.
package notifications

const (
	DownloadProgress  = "download.progress"
	DownloadSucceeded = "download.succeeded"
	DownloadFailed    = "download.failed"
	UnpackFailed      = "unpack.failed"
	InstallSucceeded  = "install.succeeded"
	InstallFailed     = "install.failed"
	GamesChanged      = "games.changed"
)

type Notification struct {
	Params any
	Method string
	// JobID correlates pipeline events; empty for registry events.
	JobID string
}

// Lossy reports whether the notification may be dropped for a slow
// subscriber. Only progress updates qualify: a newer one always follows.
func (n Notification) Lossy() bool {
	return n.Method == DownloadProgress
}

// Sink receives notifications from a producer.
type Sink func(Notification)

// Discard is a Sink that drops everything.
func Discard(Notification) {}

// ProgressParams accompanies DownloadProgress. Total is -1 and Ratio is NaN
// when the server did not declare a length.
type ProgressParams struct {
	Received int64
	Total    int64
	Ratio    float64
}

// FailureParams accompanies the *.failed notifications.
type FailureParams struct {
	Error string
}

// InstallParams accompanies InstallSucceeded.
type InstallParams struct {
	Game string
	Path string
}

// GamesParams accompanies GamesChanged.
type GamesParams struct {
	// Reason is "install", "delete", "refresh" or "watch".
	Reason string
}
