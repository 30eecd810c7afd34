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
	"fmt"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/quake2touch/launcher/pkg/config"
	"github.com/quake2touch/launcher/pkg/games"
	"github.com/quake2touch/launcher/pkg/helpers"
	"github.com/quake2touch/launcher/pkg/helpers/syncutil"
	"github.com/quake2touch/launcher/pkg/notifications"
	testhelpers "github.com/quake2touch/launcher/pkg/testing/helpers"
	"github.com/quake2touch/launcher/pkg/testing/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testUnzip = "/usr/bin/unzip"
	testMove  = "/bin/mv"
)

var testDirs = helpers.Dirs{
	DataDir:  filepath.FromSlash("/data"),
	CacheDir: filepath.FromSlash("/cache"),
}

type recorder struct {
	done  chan notifications.Notification
	notes []notifications.Notification
	mu    syncutil.Mutex
}

func newRecorder() *recorder {
	return &recorder{done: make(chan notifications.Notification, 8)}
}

func (r *recorder) sink(n notifications.Notification) {
	r.mu.Lock()
	r.notes = append(r.notes, n)
	r.mu.Unlock()
	switch n.Method {
	case notifications.DownloadFailed, notifications.UnpackFailed,
		notifications.InstallFailed, notifications.InstallSucceeded:
		r.done <- n
	}
}

func (r *recorder) count(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, note := range r.notes {
		if note.Method == method {
			n++
		}
	}
	return n
}

type pipelineFixture struct {
	pipeline *Pipeline
	fsh      *testhelpers.FSHelper
	cmd      *mocks.MockCommandExecutor
	registry *games.Registry
	rec      *recorder
	clock    *clockwork.FakeClock
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	cfg := testhelpers.NewTestConfig(t, func(v *config.Values) {
		v.Install.UnzipPath = testUnzip
		v.Install.MovePath = testMove
	})
	fsh := testhelpers.NewMemoryFS()
	cmd := &mocks.MockCommandExecutor{}
	rec := newRecorder()
	registry := games.NewRegistry(fsh.Fs, testDirs.DataDir, rec.sink)
	clock := clockwork.NewFakeClock()

	p, err := NewPipeline(Options{
		Cfg:      cfg,
		Fs:       fsh.Fs,
		Cmd:      cmd,
		Registry: registry,
		Notify:   rec.sink,
		Clock:    clock,
		Dirs:     testDirs,
	})
	require.NoError(t, err)

	return &pipelineFixture{
		pipeline: p,
		fsh:      fsh,
		cmd:      cmd,
		registry: registry,
		rec:      rec,
		clock:    clock,
	}
}

// expectUnzip makes the unzip call succeed and leave the demo tree behind.
func (f *pipelineFixture) expectUnzip(t *testing.T, archive string) {
	t.Helper()
	out := f.pipeline.UnpackDir()
	f.cmd.On("CombinedOutput", mock.Anything, testUnzip, UnzipArgs(archive, out)).
		Run(func(_ mock.Arguments) {
			if err := f.fsh.CreateExtractedDemo(out); err != nil {
				t.Errorf("create extracted demo: %v", err)
			}
		}).
		Return([]byte("inflating: pak0.pak"), nil).
		Once()
}

func exitError(t *testing.T, code int) error {
	t.Helper()
	err := exec.Command("sh", "-c", fmt.Sprintf("exit %d", code)).Run()
	require.Error(t, err)
	return err
}
