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

package games

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// WatchDebounce coalesces bursts of filesystem events, e.g. an unzip or a
// recursive delete, into one change notification.
const WatchDebounce = 500 * time.Millisecond

// Watch raises a change event when entries are added to or removed from
// the data root by something other than the launcher. It watches the real
// filesystem regardless of the registry's afero backend, and blocks until
// ctx is cancelled.
func (r *Registry) Watch(ctx context.Context, clock clockwork.Clock) error {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing data dir watcher")
		}
	}()

	if err := watcher.Add(r.root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", r.root, err)
	}
	log.Debug().Msgf("watching data dir: %s", r.root)

	var timer clockwork.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Dir(event.Name) != filepath.Clean(r.root) ||
				!event.Has(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = clock.NewTimer(WatchDebounce)
			pending = timer.Chan()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("data dir watcher error")
		case <-pending:
			timer = nil
			pending = nil
			r.Changed("watch")
		}
	}
}
