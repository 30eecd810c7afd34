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

package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"path/filepath"
	"testing"

	"github.com/quake2touch/launcher/pkg/installer"
	"github.com/quake2touch/launcher/pkg/launcher"
	"github.com/quake2touch/launcher/pkg/notifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	installErr error
	launchErr  error
	ch         chan notifications.Notification
	installed  *installer.Source
	launched   *launcher.Request
	games      []string
	deleted    []string
}

func newFakeService() *fakeService {
	return &fakeService{
		ch:        make(chan notifications.Notification, 16),
		launchErr: launcher.ErrExecFailed,
	}
}

func (f *fakeService) Games() ([]string, error) { return f.games, nil }

func (f *fakeService) DeleteGame(name string) error {
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeService) Install(_ context.Context, src installer.Source) error {
	f.installed = &src
	f.ch <- notifications.Notification{
		Method: notifications.DownloadProgress,
		Params: notifications.ProgressParams{Received: 0, Total: 100, Ratio: 0},
	}
	f.ch <- notifications.Notification{
		Method: notifications.DownloadProgress,
		Params: notifications.ProgressParams{Received: 100, Total: 100, Ratio: 1},
	}
	return f.installErr
}

func (f *fakeService) Launch(_ context.Context, req launcher.Request) error {
	f.launched = &req
	return f.launchErr
}

func (f *fakeService) Subscribe(int) (<-chan notifications.Notification, int) {
	return f.ch, 1
}

func (f *fakeService) Unsubscribe(int) {
	close(f.ch)
}

func parse(t *testing.T, args ...string) *Flags {
	t.Helper()
	fs := flag.NewFlagSet("launcher", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	flags := SetupFlags(fs)
	require.NoError(t, fs.Parse(args))
	return flags
}

func TestPost_NoFlags(t *testing.T) {
	t.Parallel()

	flags := parse(t)
	assert.False(t, flags.Headless())

	handled, err := flags.Post(context.Background(), newFakeService(), io.Discard)
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestPost_List(t *testing.T) {
	t.Parallel()

	svc := newFakeService()
	svc.games = []string{"Demo", "ctf"}
	var out bytes.Buffer

	flags := parse(t, "-list")
	assert.True(t, flags.Headless())
	handled, err := flags.Post(context.Background(), svc, &out)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "Demo\nctf\n", out.String())
}

func TestPost_Delete(t *testing.T) {
	t.Parallel()

	svc := newFakeService()
	handled, err := parse(t, "-delete", "Demo").Post(context.Background(), svc, io.Discard)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, []string{"Demo"}, svc.deleted)

	_, err = parse(t, "-delete", "").Post(context.Background(), svc, io.Discard)
	require.Error(t, err)
}

func TestPost_FetchDemo(t *testing.T) {
	t.Parallel()

	svc := newFakeService()
	var out bytes.Buffer
	handled, err := parse(t, "-fetch-demo").Post(context.Background(), svc, &out)
	require.NoError(t, err)
	assert.True(t, handled)
	require.NotNil(t, svc.installed)
	assert.Equal(t, installer.Source{}, *svc.installed)
	assert.Contains(t, out.String(), "Downloading: 0%")
	assert.Contains(t, out.String(), "Downloading: 100%")
	assert.Contains(t, out.String(), "Install complete")
}

func TestPost_FetchDemoFailure(t *testing.T) {
	t.Parallel()

	svc := newFakeService()
	svc.installErr = installer.ErrDownloadFailed
	_, err := parse(t, "-fetch-demo").Post(context.Background(), svc, io.Discard)
	require.ErrorIs(t, err, installer.ErrDownloadFailed)
}

func TestPost_Unpack(t *testing.T) {
	t.Parallel()

	svc := newFakeService()
	_, err := parse(t, "-unpack", "q2demo.zip").Post(context.Background(), svc, io.Discard)
	require.NoError(t, err)
	require.NotNil(t, svc.installed)
	assert.True(t, filepath.IsAbs(svc.installed.Archive))
	assert.Equal(t, "q2demo.zip", filepath.Base(svc.installed.Archive))
}

func TestPost_Host(t *testing.T) {
	t.Parallel()

	svc := newFakeService()
	handled, err := parse(t, "-host", "Demo", "-mode", "coop").Post(context.Background(), svc, io.Discard)
	assert.True(t, handled)
	require.ErrorIs(t, err, launcher.ErrExecFailed)
	assert.Equal(t, &launcher.Request{Game: "Demo", Mode: launcher.ModeHost, GameMode: "coop"}, svc.launched)
}

func TestPost_Join(t *testing.T) {
	t.Parallel()

	svc := newFakeService()
	_, err := parse(t, "-join", "Demo", "-server", "10.0.0.5", "-name", "Ranger").
		Post(context.Background(), svc, io.Discard)
	require.ErrorIs(t, err, launcher.ErrExecFailed)
	assert.Equal(t, &launcher.Request{
		Game:   "Demo",
		Mode:   launcher.ModeJoin,
		Server: "10.0.0.5",
		Player: "Ranger",
	}, svc.launched)
}

func TestLaunchRequest(t *testing.T) {
	t.Parallel()

	req, err := parse(t, "-start", "Demo").LaunchRequest()
	require.NoError(t, err)
	assert.Equal(t, &launcher.Request{Game: "Demo", Mode: launcher.ModeSingle}, req)

	req, err = parse(t, "-host", "Demo").LaunchRequest()
	require.NoError(t, err)
	assert.Equal(t, "deathmatch", req.GameMode)

	_, err = parse(t, "-start", "Demo", "-host", "Demo").LaunchRequest()
	require.ErrorIs(t, err, ErrConflictingFlags)

	_, err = parse(t, "-join", "Demo").LaunchRequest()
	require.Error(t, err)

	svc := newFakeService()
	_, err = parse(t, "-join", "Demo").Post(context.Background(), svc, io.Discard)
	require.Error(t, err)
	assert.Nil(t, svc.launched)
}

func TestPost_LaunchErrorPassesThrough(t *testing.T) {
	t.Parallel()

	svc := newFakeService()
	svc.launchErr = errors.New("boom")
	_, err := parse(t, "-start", "Demo").Post(context.Background(), svc, io.Discard)
	require.EqualError(t, err, "boom")
}
