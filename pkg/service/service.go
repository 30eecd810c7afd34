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

// Package service wires the game registry, install pipeline, launcher and
// notification broker into the surface the user interfaces drive.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/quake2touch/launcher/pkg/config"
	"github.com/quake2touch/launcher/pkg/games"
	"github.com/quake2touch/launcher/pkg/helpers"
	"github.com/quake2touch/launcher/pkg/helpers/command"
	"github.com/quake2touch/launcher/pkg/installer"
	"github.com/quake2touch/launcher/pkg/launcher"
	"github.com/quake2touch/launcher/pkg/notifications"
	"github.com/quake2touch/launcher/pkg/service/broker"
	"github.com/quake2touch/launcher/pkg/shared/httpclient"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// SourceBuffer is the capacity of the queue between producers and the
// broker.
const SourceBuffer = 64

type Options struct {
	Cfg    *config.Instance
	Fs     afero.Fs
	Client *httpclient.Client
	Cmd    command.Executor
	Execer launcher.Execer
	Clock  clockwork.Clock
	Dirs   helpers.Dirs
	// Watch enables the fsnotify watcher on the data root.
	Watch bool
}

type Service struct {
	ctx       context.Context
	cfg       *config.Instance
	registry  *games.Registry
	pipeline  *installer.Pipeline
	launcher  *launcher.Launcher
	broker    *broker.Broker
	source    chan notifications.Notification
	cancel    context.CancelFunc
	watchDone chan struct{}
	clock     clockwork.Clock
	dirs      helpers.Dirs
	watch     bool
	stopOnce  sync.Once
}

func New(ctx context.Context, opts Options) (*Service, error) {
	if opts.Cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := opts.Dirs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid directories: %w", err)
	}

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	for _, dir := range []string{opts.Dirs.DataDir, opts.Dirs.CacheDir} {
		if err := fs.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	svcCtx, cancel := context.WithCancel(ctx)
	s := &Service{
		ctx:       svcCtx,
		cancel:    cancel,
		cfg:       opts.Cfg,
		source:    make(chan notifications.Notification, SourceBuffer),
		watchDone: make(chan struct{}),
		clock:     clock,
		dirs:      opts.Dirs,
		watch:     opts.Watch,
	}

	s.registry = games.NewRegistry(fs, opts.Dirs.DataDir, s.publish)

	pipeline, err := installer.NewPipeline(installer.Options{
		Cfg:      opts.Cfg,
		Fs:       fs,
		Client:   opts.Client,
		Cmd:      opts.Cmd,
		Registry: s.registry,
		Notify:   s.publish,
		Clock:    clock,
		Dirs:     opts.Dirs,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create install pipeline: %w", err)
	}
	s.pipeline = pipeline

	s.launcher = launcher.NewLauncher(opts.Cfg, opts.Execer, clock)
	s.broker = broker.NewBroker(svcCtx, s.source)
	return s, nil
}

// Start runs the broker and, if enabled, the data dir watcher.
func (s *Service) Start() {
	log.Info().Msgf("version: %s", config.AppVersion)
	log.Info().Msgf("data dir: %s", s.dirs.DataDir)

	s.broker.Start()

	if !s.watch {
		close(s.watchDone)
		return
	}
	go func() {
		defer close(s.watchDone)
		if err := s.registry.Watch(s.ctx, s.clock); err != nil {
			log.Warn().Err(err).Msg("data dir watcher stopped")
		}
	}()
}

// Stop cancels background work and waits for it to finish. Subscriber
// channels are closed. Calling Stop more than once is safe.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.broker.Done()
		<-s.watchDone
		log.Info().Msg("service stopped")
	})
}

// publish hands a notification to the broker. Progress updates are dropped
// when the queue is full.
func (s *Service) publish(n notifications.Notification) {
	if n.Lossy() {
		select {
		case s.source <- n:
		default:
		}
		return
	}
	select {
	case s.source <- n:
	case <-s.ctx.Done():
	}
}

func (s *Service) Subscribe(bufferSize int) (<-chan notifications.Notification, int) {
	return s.broker.Subscribe(bufferSize)
}

func (s *Service) Unsubscribe(id int) {
	s.broker.Unsubscribe(id)
}

// Games lists the installed games.
func (s *Service) Games() ([]string, error) {
	names, err := s.registry.List()
	if err != nil {
		return nil, fmt.Errorf("error listing games: %w", err)
	}
	return names, nil
}

// Progress is the download ratio of the current job, NaN when unknown.
func (s *Service) Progress() float64 {
	return s.pipeline.Progress()
}

func (s *Service) JobState() installer.State {
	return s.pipeline.State()
}

// FetchDemo starts downloading and installing the demo in the background.
func (s *Service) FetchDemo() (string, error) {
	jobID, err := s.pipeline.FetchDemo(s.ctx)
	if err != nil {
		return "", fmt.Errorf("error starting demo download: %w", err)
	}
	return jobID, nil
}

// UnpackLocal starts installing from an archive on disk.
func (s *Service) UnpackLocal(archive string) (string, error) {
	jobID, err := s.pipeline.UnpackLocal(s.ctx, archive)
	if err != nil {
		return "", fmt.Errorf("error starting unpack: %w", err)
	}
	return jobID, nil
}

// Install runs an install job to completion.
func (s *Service) Install(ctx context.Context, src installer.Source) error {
	if src.URL == "" && src.Archive == "" {
		src.URL = s.cfg.DemoURL()
	}
	return s.pipeline.Run(ctx, src) //nolint:wrapcheck // sentinel errors surface as-is
}

func (s *Service) DeleteGame(name string) error {
	return s.registry.Delete(name) //nolint:wrapcheck // sentinel errors surface as-is
}

func (s *Service) RefreshGames() {
	s.registry.Refresh()
}

// Launch replaces the process with the engine. It only returns on error.
func (s *Service) Launch(ctx context.Context, req launcher.Request) error {
	if !s.registry.Exists(req.Game) {
		log.Warn().Msgf("launching game that is not installed: %s", req.Game)
	}
	return s.launcher.Launch(ctx, req) //nolint:wrapcheck // sentinel errors surface as-is
}

func (s *Service) StartGame(ctx context.Context, game string) error {
	return s.Launch(ctx, launcher.Request{Game: game, Mode: launcher.ModeSingle})
}

func (s *Service) HostGame(ctx context.Context, game, gameMode string) error {
	return s.Launch(ctx, launcher.Request{
		Game:     game,
		Mode:     launcher.ModeHost,
		GameMode: gameMode,
	})
}

func (s *Service) JoinGame(ctx context.Context, game, server, player string) error {
	return s.Launch(ctx, launcher.Request{
		Game:   game,
		Mode:   launcher.ModeJoin,
		Server: server,
		Player: player,
	})
}
