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

	"github.com/quake2touch/launcher/pkg/shared/httpclient"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Fetcher downloads an archive to a fixed local path.
type Fetcher struct {
	client *httpclient.Client
	fs     afero.Fs
}

func NewFetcher(client *httpclient.Client, fs afero.Fs) *Fetcher {
	return &Fetcher{client: client, fs: fs}
}

// Fetch downloads url to dest, replacing any file already there. The body
// is staged at dest+".part" so dest never holds a partial archive.
func (f *Fetcher) Fetch(
	ctx context.Context,
	url string,
	dest string,
	onProgress httpclient.ProgressFunc,
) error {
	if url == "" {
		return fmt.Errorf("%w: download url is empty", ErrDownloadFailed)
	}

	if err := f.fs.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return fmt.Errorf("%w: cannot create cache dir: %w", ErrDownloadFailed, err)
	}

	if err := f.fs.Remove(dest); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: cannot remove previous archive: %w", ErrDownloadFailed, err)
	}

	log.Info().Msgf("downloading archive: %s", url)
	err := f.client.DownloadFile(ctx, httpclient.DownloadFileArgs{
		URL:        url,
		OutputPath: dest,
		TempPath:   dest + ".part",
		OnProgress: onProgress,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	log.Info().Msgf("archive saved: %s", dest)
	return nil
}
