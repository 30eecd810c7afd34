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

// Package cli holds the flags and setup shared by the launcher commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"path/filepath"

	"github.com/quake2touch/launcher/internal/telemetry"
	"github.com/quake2touch/launcher/pkg/config"
	"github.com/quake2touch/launcher/pkg/helpers"
	"github.com/quake2touch/launcher/pkg/installer"
	"github.com/quake2touch/launcher/pkg/launcher"
	"github.com/quake2touch/launcher/pkg/notifications"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrConflictingFlags = errors.New("only one of -start, -host and -join may be used")

type Flags struct {
	Version   *bool
	List      *bool
	FetchDemo *bool
	Delete    *string
	Unpack    *string
	Start     *string
	Host      *string
	Mode      *string
	Join      *string
	Server    *string
	Name      *string
	Theme     *string
	set       *flag.FlagSet
}

// SetupFlags defines the launcher flags on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		set: fs,
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
		List: fs.Bool(
			"list",
			false,
			"print installed games and exit",
		),
		FetchDemo: fs.Bool(
			"fetch-demo",
			false,
			"download and install the demo, then exit",
		),
		Delete: fs.String(
			"delete",
			"",
			"delete an installed game",
		),
		Unpack: fs.String(
			"unpack",
			"",
			"install game data from a local zip archive",
		),
		Start: fs.String(
			"start",
			"",
			"start a single player game",
		),
		Host: fs.String(
			"host",
			"",
			"host a multiplayer game (with -mode)",
		),
		Mode: fs.String(
			"mode",
			"deathmatch",
			"game mode for -host",
		),
		Join: fs.String(
			"join",
			"",
			"join a multiplayer game (with -server and -name)",
		),
		Server: fs.String(
			"server",
			"",
			"server address for -join",
		),
		Name: fs.String(
			"name",
			"",
			"player name for -join",
		),
		Theme: fs.String(
			"theme",
			"",
			"tui color theme, overrides tui.toml",
		),
	}
}

func (f *Flags) isFlagPassed(name string) bool {
	found := false
	f.set.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

// Headless reports whether an action flag was given, so no UI is needed.
func (f *Flags) Headless() bool {
	for _, name := range []string{"list", "fetch-demo", "delete", "unpack", "start", "host", "join"} {
		if f.isFlagPassed(name) {
			return true
		}
	}
	return false
}

// LaunchRequest builds a launch request from -start, -host or -join. It
// returns nil when none was given.
func (f *Flags) LaunchRequest() (*launcher.Request, error) {
	var reqs []launcher.Request
	if f.isFlagPassed("start") {
		reqs = append(reqs, launcher.Request{Game: *f.Start, Mode: launcher.ModeSingle})
	}
	if f.isFlagPassed("host") {
		reqs = append(reqs, launcher.Request{
			Game:     *f.Host,
			Mode:     launcher.ModeHost,
			GameMode: *f.Mode,
		})
	}
	if f.isFlagPassed("join") {
		reqs = append(reqs, launcher.Request{
			Game:   *f.Join,
			Mode:   launcher.ModeJoin,
			Server: *f.Server,
			Player: *f.Name,
		})
	}

	switch len(reqs) {
	case 0:
		return nil, nil
	case 1:
		if err := launcher.DefaultValidator.Validate(reqs[0]); err != nil {
			return nil, fmt.Errorf("invalid launch flags: %w", err)
		}
		return &reqs[0], nil
	default:
		return nil, ErrConflictingFlags
	}
}

// Service is what the headless actions need from the launcher service.
type Service interface {
	Games() ([]string, error)
	DeleteGame(name string) error
	Install(ctx context.Context, src installer.Source) error
	Launch(ctx context.Context, req launcher.Request) error
	Subscribe(bufferSize int) (<-chan notifications.Notification, int)
	Unsubscribe(id int)
}

// Post performs the action flags. handled is false when none was given
// and the caller should show the UI. A launch only returns on failure.
func (f *Flags) Post(ctx context.Context, svc Service, out io.Writer) (handled bool, err error) {
	switch {
	case *f.List:
		names, err := svc.Games()
		if err != nil {
			return true, fmt.Errorf("error listing games: %w", err)
		}
		for _, name := range names {
			_, _ = fmt.Fprintln(out, name)
		}
		return true, nil
	case f.isFlagPassed("delete"):
		if *f.Delete == "" {
			return true, errors.New("delete flag requires a value")
		}
		if err := svc.DeleteGame(*f.Delete); err != nil {
			return true, fmt.Errorf("error deleting game: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Deleted %s\n", *f.Delete)
		return true, nil
	case *f.FetchDemo:
		return true, install(ctx, svc, out, installer.Source{})
	case f.isFlagPassed("unpack"):
		if *f.Unpack == "" {
			return true, errors.New("unpack flag requires a value")
		}
		archive, err := filepath.Abs(*f.Unpack)
		if err != nil {
			return true, fmt.Errorf("error resolving archive path: %w", err)
		}
		return true, install(ctx, svc, out, installer.Source{Archive: archive})
	}

	req, err := f.LaunchRequest()
	if err != nil {
		return true, err
	}
	if req == nil {
		return false, nil
	}
	telemetry.Flush()
	return true, svc.Launch(ctx, *req) //nolint:wrapcheck // already carries ErrExecFailed
}

func install(ctx context.Context, svc Service, out io.Writer, src installer.Source) error {
	ch, id := svc.Subscribe(16)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		printProgress(ch, out)
	}()

	err := svc.Install(ctx, src)
	svc.Unsubscribe(id)
	<-printed
	if err != nil {
		return fmt.Errorf("install failed: %w", err)
	}
	_, _ = fmt.Fprintln(out, "Install complete")
	return nil
}

func printProgress(ch <-chan notifications.Notification, out io.Writer) {
	last := -10
	for n := range ch {
		p, ok := n.Params.(notifications.ProgressParams)
		if n.Method != notifications.DownloadProgress || !ok {
			continue
		}
		if math.IsNaN(p.Ratio) {
			continue
		}
		pct := int(p.Ratio * 100)
		if pct/10 != last/10 {
			last = pct
			_, _ = fmt.Fprintf(out, "Downloading: %d%%\n", pct)
		}
	}
}

// Setup creates the launcher directories, then initializes logging, the
// user config and error reporting.
//
//nolint:gocritic // config struct copied for immutability
func Setup(dirs helpers.Dirs, defaultConfig config.Values, writers []io.Writer) (*config.Instance, error) {
	if err := helpers.EnsureDirectories(dirs); err != nil {
		return nil, fmt.Errorf("error creating directories: %w", err)
	}

	if err := helpers.InitLogging(dirs.LogDir, writers); err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(dirs.ConfigDir, defaultConfig)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Info().Msgf("config file: %s", cfg.Path())

	if err := telemetry.Init(telemetry.Options{
		Enabled:     cfg.ErrorReporting(),
		DSN:         cfg.ErrorReportingDSN(),
		DeviceID:    cfg.DeviceID(),
		AppVersion:  config.AppVersion,
		Environment: config.AppName,
	}); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	return cfg, nil
}
