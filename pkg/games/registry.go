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

// Package games tracks the game data sets installed under the data root.
// Each installed game is one subdirectory; its name is the game name
// passed to the engine.
package games

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quake2touch/launcher/pkg/notifications"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var ErrInvalidGameName = errors.New("invalid game name")

type Registry struct {
	fs     afero.Fs
	notify notifications.Sink
	root   string
}

func NewRegistry(fs afero.Fs, root string, notify notifications.Sink) *Registry {
	if notify == nil {
		notify = notifications.Discard
	}
	return &Registry{
		fs:     fs,
		root:   root,
		notify: notify,
	}
}

func (r *Registry) Root() string {
	return r.root
}

// ValidateName rejects names that are not a single path element.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidGameName, name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidGameName, name)
	}
	return nil
}

// Path returns the directory of the named game.
func (r *Registry) Path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(r.root, name), nil
}

// List returns the installed game names in directory scan order. A missing
// data root lists as empty.
func (r *Registry) List() ([]string, error) {
	entries, err := afero.ReadDir(r.fs, r.root)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error reading data dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (r *Registry) Exists(name string) bool {
	path, err := r.Path(name)
	if err != nil {
		return false
	}
	ok, err := afero.DirExists(r.fs, path)
	return err == nil && ok
}

// Delete removes the game's directory tree and raises a change event.
// Deleting a game that is not installed is not an error.
func (r *Registry) Delete(name string) error {
	path, err := r.Path(name)
	if err != nil {
		return err
	}

	log.Info().Msgf("deleting game: %s", path)
	if err := r.fs.RemoveAll(path); err != nil {
		return fmt.Errorf("error deleting game %s: %w", name, err)
	}

	r.Changed("delete")
	return nil
}

// Refresh raises a change event so listeners re-read the list.
func (r *Registry) Refresh() {
	r.Changed("refresh")
}

func (r *Registry) Changed(reason string) {
	r.notify(notifications.Notification{
		Method: notifications.GamesChanged,
		Params: notifications.GamesParams{Reason: reason},
	})
}
