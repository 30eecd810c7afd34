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
	"testing"

	"github.com/quake2touch/launcher/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUnzipArgs(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"-o", "/cache/demo.zip", "-d", "/cache/unpack"},
		UnzipArgs("/cache/demo.zip", "/cache/unpack"),
	)
}

func TestUnpack_Success(t *testing.T) {
	t.Parallel()

	cmd := &mocks.MockCommandExecutor{}
	cmd.On("CombinedOutput", mock.Anything, testUnzip, []string{"-o", "a.zip", "-d", "out"}).
		Return([]byte("inflating"), nil).
		Once()

	u := NewUnpacker(cmd, testUnzip)
	require.NoError(t, u.Unpack(context.Background(), "a.zip", "out"))
	cmd.AssertExpectations(t)
}

func TestUnpack_NonZeroExit(t *testing.T) {
	t.Parallel()

	cmd := &mocks.MockCommandExecutor{}
	cmd.On("CombinedOutput", mock.Anything, testUnzip, mock.Anything).
		Return([]byte("cannot find zipfile directory"), exitError(t, 9)).
		Once()

	u := NewUnpacker(cmd, testUnzip)
	err := u.Unpack(context.Background(), "a.zip", "out")
	require.ErrorIs(t, err, ErrUnpackFailed)
	assert.Contains(t, err.Error(), "code 9")
}

func TestUnpack_SpawnError(t *testing.T) {
	t.Parallel()

	cmd := &mocks.MockCommandExecutor{}
	cmd.On("CombinedOutput", mock.Anything, "/missing/unzip", mock.Anything).
		Return(nil, errors.New("fork/exec /missing/unzip: no such file or directory")).
		Once()

	u := NewUnpacker(cmd, "/missing/unzip")
	err := u.Unpack(context.Background(), "a.zip", "out")
	require.ErrorIs(t, err, ErrUnpackFailed)
	assert.Contains(t, err.Error(), "/missing/unzip")
}
