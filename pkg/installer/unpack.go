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
	"fmt"
	"strings"

	"github.com/quake2touch/launcher/pkg/helpers/command"
	"github.com/rs/zerolog/log"
)

// Unpacker extracts archives with an external unzip binary.
type Unpacker struct {
	cmd       command.Executor
	unzipPath string
}

func NewUnpacker(cmd command.Executor, unzipPath string) *Unpacker {
	return &Unpacker{cmd: cmd, unzipPath: unzipPath}
}

// UnzipArgs returns the unzip arguments: overwrite without prompting,
// extract into outDir.
func UnzipArgs(archive, outDir string) []string {
	return []string{"-o", archive, "-d", outDir}
}

// Unpack runs unzip on archive. A spawn error or any non-zero exit is a
// failure; whatever was extracted before the failure is left in place.
func (u *Unpacker) Unpack(ctx context.Context, archive, outDir string) error {
	log.Info().Msgf("unpacking %s into %s", archive, outDir)

	out, err := u.cmd.CombinedOutput(ctx, u.unzipPath, UnzipArgs(archive, outDir)...)
	if err == nil {
		log.Debug().Msg("unzip finished with exit code: 0")
		return nil
	}

	code, ran := command.ExitCode(err)
	if !ran {
		log.Error().Err(err).Msgf("unzip could not be started: %s", u.unzipPath)
		return fmt.Errorf("%w: starting %s: %w", ErrUnpackFailed, u.unzipPath, err)
	}

	log.Error().
		Int("exit_code", code).
		Str("output", strings.TrimSpace(string(out))).
		Msg("unzip process failed")
	return fmt.Errorf("%w: unzip exited with code %d", ErrUnpackFailed, code)
}
