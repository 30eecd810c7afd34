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

package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/quake2touch/launcher/pkg/helpers/command"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Relocator moves extracted data from the scratch area into the data root.
type Relocator struct {
	fs       afero.Fs
	cmd      command.Executor
	movePath string
}

// NewRelocator creates a Relocator. movePath is the external mv used when
// a rename crosses filesystems; empty disables that fallback.
func NewRelocator(fs afero.Fs, cmd command.Executor, movePath string) *Relocator {
	return &Relocator{fs: fs, cmd: cmd, movePath: movePath}
}

// Relocate moves src to dst. The destination's parent is created if
// needed. An existing empty dst is replaced; an existing non-empty dst
// fails with ErrDestinationExists and is left untouched, so an install
// never merges into or clobbers a previous one.
func (r *Relocator) Relocate(ctx context.Context, src, dst string) error {
	if _, err := r.fs.Stat(src); err != nil {
		return fmt.Errorf("source missing: %w", err)
	}

	if err := r.fs.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("cannot create data dir: %w", err)
	}

	if err := r.clearDestination(dst); err != nil {
		return err
	}

	log.Info().Msgf("moving %s to %s", src, dst)
	err := r.fs.Rename(src, dst)
	if err == nil {
		return nil
	}

	if !errors.Is(err, syscall.EXDEV) || r.movePath == "" {
		return fmt.Errorf("error renaming %s: %w", src, err)
	}

	log.Debug().Msgf("rename crosses filesystems, using %s", r.movePath)
	if err := r.cmd.Run(ctx, r.movePath, src, dst); err != nil {
		// dst did not exist before the move, anything there is ours
		if removeErr := r.fs.RemoveAll(dst); removeErr != nil {
			log.Warn().Err(removeErr).Msgf("error removing partial move: %s", dst)
		}
		return fmt.Errorf("error moving %s: %w", src, err)
	}
	return nil
}

func (r *Relocator) clearDestination(dst string) error {
	info, err := r.fs.Stat(dst)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("error checking destination: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dst)
	}

	empty, err := afero.IsEmpty(r.fs, dst)
	if err != nil {
		return fmt.Errorf("error checking destination: %w", err)
	}
	if !empty {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dst)
	}

	if err := r.fs.Remove(dst); err != nil {
		return fmt.Errorf("error removing empty destination: %w", err)
	}
	return nil
}
