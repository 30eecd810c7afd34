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

// Package installer downloads, unpacks and relocates game data into the
// data root. One job runs at a time.
package installer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/quake2touch/launcher/pkg/config"
	"github.com/quake2touch/launcher/pkg/games"
	"github.com/quake2touch/launcher/pkg/helpers"
	"github.com/quake2touch/launcher/pkg/helpers/command"
	"github.com/quake2touch/launcher/pkg/helpers/syncutil"
	"github.com/quake2touch/launcher/pkg/notifications"
	"github.com/quake2touch/launcher/pkg/shared/httpclient"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ProgressInterval is the minimum time between two progress notifications.
const ProgressInterval = 100 * time.Millisecond

type State int

const (
	StateIdle State = iota
	StateDownloading
	StateUnpacking
	StateRelocating
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDownloading:
		return "downloading"
	case StateUnpacking:
		return "unpacking"
	case StateRelocating:
		return "relocating"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Running reports whether a job is in progress in this state.
func (s State) Running() bool {
	return s == StateDownloading || s == StateUnpacking || s == StateRelocating
}

// Source selects what a job installs. With URL set the archive is
// downloaded first; otherwise Archive names a local file to unpack.
type Source struct {
	URL     string
	Archive string
	// Game overrides the destination game name.
	Game string
}

type Options struct {
	Cfg      *config.Instance
	Fs       afero.Fs
	Client   *httpclient.Client
	Cmd      command.Executor
	Registry *games.Registry
	Notify   notifications.Sink
	Clock    clockwork.Clock
	Dirs     helpers.Dirs
}

type Pipeline struct {
	cfg          *config.Instance
	fs           afero.Fs
	fetcher      *Fetcher
	unpacker     *Unpacker
	relocator    *Relocator
	registry     *games.Registry
	notify       notifications.Sink
	clock        clockwork.Clock
	lastProgress time.Time
	dirs         helpers.Dirs
	jobID        string
	progress     float64
	state        State
	mu           syncutil.Mutex
}

func NewPipeline(opts Options) (*Pipeline, error) {
	if err := opts.Dirs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid install directories: %w", err)
	}
	if opts.Cfg == nil || opts.Registry == nil {
		return nil, errors.New("config and registry are required")
	}
	if !helpers.PathHasPrefix(opts.Registry.Root(), opts.Dirs.DataDir) {
		return nil, fmt.Errorf("registry root %s is outside data dir %s",
			opts.Registry.Root(), opts.Dirs.DataDir)
	}

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	client := opts.Client
	if client == nil {
		client = httpclient.NewClientWithFs(fs)
	}
	cmd := opts.Cmd
	if cmd == nil {
		cmd = &command.RealExecutor{}
	}
	notify := opts.Notify
	if notify == nil {
		notify = notifications.Discard
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Pipeline{
		cfg:       opts.Cfg,
		fs:        fs,
		fetcher:   NewFetcher(client, fs),
		unpacker:  NewUnpacker(cmd, opts.Cfg.UnzipPath()),
		relocator: NewRelocator(fs, cmd, opts.Cfg.MovePath()),
		registry:  opts.Registry,
		notify:    notify,
		clock:     clock,
		dirs:      opts.Dirs,
		progress:  0,
		state:     StateIdle,
	}, nil
}

func (p *Pipeline) ArchivePath() string {
	return filepath.Join(p.dirs.CacheDir, config.ArchiveFile)
}

func (p *Pipeline) UnpackDir() string {
	return filepath.Join(p.dirs.CacheDir, config.UnpackDir)
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Progress returns the last download ratio in [0, 1], or NaN when the
// server did not declare a length.
func (p *Pipeline) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress
}

// JobID returns the id of the current or most recent job.
func (p *Pipeline) JobID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jobID
}

// FetchDemo starts downloading and installing the configured demo.
func (p *Pipeline) FetchDemo(ctx context.Context) (string, error) {
	return p.Start(ctx, Source{URL: p.cfg.DemoURL()})
}

// UnpackLocal starts installing from an archive already on disk.
func (p *Pipeline) UnpackLocal(ctx context.Context, archive string) (string, error) {
	return p.Start(ctx, Source{Archive: archive})
}

// Start begins a job in the background and returns its id.
func (p *Pipeline) Start(ctx context.Context, src Source) (string, error) {
	jobID, err := p.begin(src)
	if err != nil {
		return "", err
	}
	go func() {
		if err := p.run(ctx, jobID, src); err != nil {
			log.Debug().Err(err).Str("job", jobID).Msg("install job ended with error")
		}
	}()
	return jobID, nil
}

// Run performs a job and returns when it has finished.
func (p *Pipeline) Run(ctx context.Context, src Source) error {
	jobID, err := p.begin(src)
	if err != nil {
		return err
	}
	return p.run(ctx, jobID, src)
}

func (p *Pipeline) begin(src Source) (string, error) {
	if src.URL == "" && src.Archive == "" {
		return "", errors.New("install source has neither url nor archive")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Running() {
		return "", ErrJobRunning
	}

	p.jobID = uuid.New().String()
	p.progress = 0
	p.lastProgress = time.Time{}
	if src.URL != "" {
		p.state = StateDownloading
	} else {
		p.state = StateUnpacking
	}
	return p.jobID, nil
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *Pipeline) emit(jobID, method string, params any) {
	p.notify(notifications.Notification{
		Method: method,
		JobID:  jobID,
		Params: params,
	})
}

func (p *Pipeline) fail(jobID, method string, err error) error {
	log.Error().Err(err).Str("job", jobID).Msg("install job failed")
	p.setState(StateFailed)
	p.emit(jobID, method, notifications.FailureParams{Error: err.Error()})
	return err
}

func (p *Pipeline) onProgress(jobID string) httpclient.ProgressFunc {
	return func(received, total int64) {
		ratio := math.NaN()
		if total > 0 {
			ratio = float64(received) / float64(total)
		}

		now := p.clock.Now()
		p.mu.Lock()
		p.progress = ratio
		due := p.lastProgress.IsZero() ||
			now.Sub(p.lastProgress) >= ProgressInterval ||
			received == total
		if due {
			p.lastProgress = now
		}
		p.mu.Unlock()

		if due {
			p.emit(jobID, notifications.DownloadProgress, notifications.ProgressParams{
				Received: received,
				Total:    total,
				Ratio:    ratio,
			})
		}
	}
}

func (p *Pipeline) run(ctx context.Context, jobID string, src Source) error {
	archive := src.Archive
	if src.URL != "" {
		archive = p.ArchivePath()
		err := p.fetcher.Fetch(ctx, src.URL, archive, p.onProgress(jobID))
		if err != nil {
			return p.fail(jobID, notifications.DownloadFailed, err)
		}
		p.emit(jobID, notifications.DownloadSucceeded, nil)
		p.setState(StateUnpacking)
	}

	unpackDir := p.UnpackDir()
	if err := p.fs.RemoveAll(unpackDir); err != nil {
		return p.fail(jobID, notifications.UnpackFailed,
			fmt.Errorf("%w: clearing %s: %w", ErrUnpackFailed, unpackDir, err))
	}
	if err := p.fs.MkdirAll(unpackDir, 0o750); err != nil {
		return p.fail(jobID, notifications.UnpackFailed,
			fmt.Errorf("%w: creating %s: %w", ErrUnpackFailed, unpackDir, err))
	}
	if err := p.unpacker.Unpack(ctx, archive, unpackDir); err != nil {
		return p.fail(jobID, notifications.UnpackFailed, err)
	}

	p.setState(StateRelocating)
	game := src.Game
	if game == "" {
		game = p.cfg.DemoGameName()
	}
	dst, err := p.registry.Path(game)
	if err != nil {
		return p.fail(jobID, notifications.InstallFailed,
			fmt.Errorf("%w: %w", ErrInstallFailed, err))
	}
	srcDir := filepath.Join(unpackDir, p.cfg.SourceSubdir())
	if err := p.relocator.Relocate(ctx, srcDir, dst); err != nil {
		return p.fail(jobID, notifications.InstallFailed,
			fmt.Errorf("%w: %w", ErrInstallFailed, err))
	}

	p.cleanup(unpackDir, src)

	log.Info().Str("job", jobID).Msgf("installed %s to %s", game, dst)
	p.setState(StateDone)
	p.emit(jobID, notifications.InstallSucceeded, notifications.InstallParams{
		Game: game,
		Path: dst,
	})
	p.registry.Changed("install")
	return nil
}

func (p *Pipeline) cleanup(unpackDir string, src Source) {
	if err := p.fs.RemoveAll(unpackDir); err != nil {
		log.Warn().Err(err).Msgf("error removing unpack dir: %s", unpackDir)
	}
	if src.URL == "" {
		return
	}
	err := p.fs.Remove(p.ArchivePath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("error removing downloaded archive")
	}
}
