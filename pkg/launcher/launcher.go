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

// Package launcher starts the game engine by replacing the launcher's
// process image.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/quake2touch/launcher/pkg/config"
	"github.com/rs/zerolog/log"
)

var ErrExecFailed = errors.New("exec failed")

// Execer replaces the current process. A successful Exec does not return.
type Execer interface {
	Exec(argv0 string, argv, envv []string) error
}

type Launcher struct {
	cfg       *config.Instance
	execer    Execer
	clock     clockwork.Clock
	validator *Validator
	environ   func() []string
	chdir     func(string) error
}

func NewLauncher(cfg *config.Instance, execer Execer, clock clockwork.Clock) *Launcher {
	if execer == nil {
		execer = SysExecer{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Launcher{
		cfg:       cfg,
		execer:    execer,
		clock:     clock,
		validator: DefaultValidator,
		environ:   os.Environ,
		chdir:     os.Chdir,
	}
}

// ResolveExecutable returns exe as an absolute path, relative paths being
// taken from appDir.
func ResolveExecutable(exe, appDir string) string {
	if filepath.IsAbs(exe) || appDir == "" {
		return exe
	}
	return filepath.Join(appDir, exe)
}

// Command returns the resolved executable path, the argument vector and
// the environment for req without launching anything.
func (l *Launcher) Command(req Request) (path string, argv, env []string, err error) {
	if err := l.validator.Validate(req); err != nil {
		return "", nil, nil, fmt.Errorf("invalid launch request: %w", err)
	}

	exe := l.cfg.Executable()
	path = ResolveExecutable(exe, l.cfg.AppDir())
	argv = BuildArgs(exe, l.cfg.Port(), req)
	env = BuildEnv(l.environ(), l.cfg.GameEnv(), req.Game, l.cfg.DisplayEnv())
	return path, argv, env, nil
}

// Launch waits the configured delay and then execs the engine. It only
// returns on failure; the caller is expected to exit non-zero.
func (l *Launcher) Launch(ctx context.Context, req Request) error {
	path, argv, env, err := l.Command(req)
	if err != nil {
		return err
	}

	log.Info().
		Str("game", req.Game).
		Str("mode", string(req.Mode)).
		Strs("argv", argv).
		Msgf("launching %s", path)

	if delay := l.cfg.ExecDelay(); delay > 0 {
		select {
		case <-l.clock.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("launch cancelled: %w", ctx.Err())
		}
	}

	if err := markCloseOnExec(); err != nil {
		log.Warn().Err(err).Msg("error marking descriptors close-on-exec")
	}

	if dir := l.cfg.AppDir(); dir != "" {
		if err := l.chdir(dir); err != nil {
			log.Warn().Err(err).Msgf("error changing to app dir: %s", dir)
		}
	}

	err = l.execer.Exec(path, argv, env)
	if err == nil {
		err = errors.New("exec returned without error")
	}
	log.Error().Err(err).Msgf("error executing %s", path)
	return fmt.Errorf("%w: %s: %w", ErrExecFailed, path, err)
}
