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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/quake2touch/launcher/internal/telemetry"
	"github.com/quake2touch/launcher/pkg/cli"
	"github.com/quake2touch/launcher/pkg/config"
	"github.com/quake2touch/launcher/pkg/helpers"
	"github.com/quake2touch/launcher/pkg/service"
	"github.com/quake2touch/launcher/pkg/ui/tui"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags(flag.CommandLine)
	flag.Parse()

	if *flags.Version {
		_, _ = fmt.Printf("%s %s\n", config.AppName, config.AppVersion)
		return nil
	}

	if os.Geteuid() == 0 {
		return errors.New("the launcher cannot be run as root")
	}

	headless := flags.Headless()
	var logWriters []io.Writer
	if headless {
		logWriters = []io.Writer{os.Stderr}
	}

	dirs := helpers.DefaultDirs()
	cfg, err := cli.Setup(dirs, config.BaseDefaults, logWriters)
	if err != nil {
		return err
	}
	defer telemetry.Close()

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := service.New(ctx, service.Options{
		Cfg:   cfg,
		Dirs:  dirs,
		Watch: !headless,
	})
	if err != nil {
		log.Error().Err(err).Msg("error creating service")
		return fmt.Errorf("error creating service: %w", err)
	}
	svc.Start()
	defer svc.Stop()

	handled, err := flags.Post(ctx, svc, os.Stdout)
	if handled {
		if err != nil {
			log.Error().Err(err).Msg("command failed")
		}
		return err
	}

	if err := config.LoadTUIConfig(dirs.ConfigDir); err != nil {
		log.Warn().Err(err).Msg("error loading tui config, using defaults")
	}
	tuiCfg := config.GetTUIConfig()
	theme := tuiCfg.Theme
	if *flags.Theme != "" {
		theme = *flags.Theme
	}
	if !tui.SetCurrentTheme(theme) {
		log.Warn().Str("theme", theme).Msg("unknown theme, using default")
		tui.SetCurrentTheme("default")
	}

	ui := tui.New(svc)
	ui.App().EnableMouse(tuiCfg.Mouse)
	req, err := ui.Run()
	if err != nil {
		log.Error().Err(err).Msg("error running UI")
		return err
	}
	if req == nil {
		return nil
	}

	// The engine replaces this process, so tear down everything that
	// would otherwise run on return.
	svc.Stop()
	telemetry.Flush()
	err = svc.Launch(context.Background(), *req)
	log.Error().Err(err).Msg("launch failed")
	return err
}
