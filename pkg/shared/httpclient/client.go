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

package httpclient

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/quake2touch/launcher/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// AuthTransport adds credentials from auth.toml to matching requests.
type AuthTransport struct {
	Base http.RoundTripper
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	creds := config.LookupAuth(config.GetAuthCfg(), req.URL.String())
	if creds != nil {
		// RoundTrippers must not modify the caller's request
		req = req.Clone(req.Context())
		if creds.Bearer != "" {
			req.Header.Set("Authorization", "Bearer "+creds.Bearer)
		} else if creds.Username != "" {
			auth := base64.StdEncoding.EncodeToString([]byte(creds.Username + ":" + creds.Password))
			req.Header.Set("Authorization", "Basic "+auth)
		}
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform HTTP round trip: %w", err)
	}
	return resp, nil
}

// DefaultTransport bounds connection setup and time to first byte. The body
// itself has no deadline since the demo package is large and links are slow.
var DefaultTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ResponseHeaderTimeout: config.HTTPRequestTimeout,
	TLSHandshakeTimeout:   10 * time.Second,
	MaxIdleConns:          10,
	IdleConnTimeout:       90 * time.Second,
}

type Client struct {
	*http.Client
	fs afero.Fs
}

// NewClient creates a client that writes downloads to the real filesystem.
func NewClient() *Client {
	return NewClientWithFs(afero.NewOsFs())
}

// NewClientWithFs creates a client that writes downloads to fs.
func NewClientWithFs(fs afero.Fs) *Client {
	return &Client{
		Client: &http.Client{
			Transport: &AuthTransport{
				Base: DefaultTransport,
			},
		},
		fs: fs,
	}
}

// ProgressFunc receives the bytes received so far and the declared total,
// which is -1 when the server sent no Content-Length.
type ProgressFunc func(received, total int64)

type DownloadFileArgs struct {
	OnProgress ProgressFunc
	URL        string
	OutputPath string
	TempPath   string
}

type progressReader struct {
	r          io.Reader
	onProgress ProgressFunc
	received   int64
	total      int64
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.received += int64(n)
		p.onProgress(p.received, p.total)
	}
	return n, err //nolint:wrapcheck // io.Reader contract needs bare io.EOF
}

// DownloadFile streams the body of a GET to the output path. With TempPath
// set, the body is written there first and renamed on success, so the
// output path only ever holds a complete file.
func (c *Client) DownloadFile(ctx context.Context, args DownloadFileArgs) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, args.URL, http.NoBody)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("error getting url: %w", err)
	}
	if resp == nil {
		return errors.New("received nil response")
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("error closing response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("invalid status code: %d", resp.StatusCode)
	}

	outputPath := args.OutputPath
	if args.TempPath != "" {
		outputPath = args.TempPath
	}

	file, err := c.fs.OpenFile(outputPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}

	var body io.Reader = resp.Body
	expected := resp.ContentLength
	if args.OnProgress != nil {
		args.OnProgress(0, expected)
		body = &progressReader{r: resp.Body, onProgress: args.OnProgress, total: expected}
	}

	written, err := io.Copy(file, body)
	if err == nil && expected > 0 && written != expected {
		err = fmt.Errorf("download incomplete: expected %d bytes, got %d", expected, written)
	} else if err != nil {
		err = fmt.Errorf("error downloading file: %w", err)
	}
	if err != nil {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msgf("error closing file: %s", outputPath)
		}
		if removeErr := c.fs.Remove(outputPath); removeErr != nil {
			log.Warn().Err(removeErr).Msgf("error removing partial download: %s", outputPath)
		}
		return err
	}

	err = file.Close()
	if err != nil {
		if removeErr := c.fs.Remove(outputPath); removeErr != nil {
			log.Warn().Err(removeErr).Msgf("error removing partial download: %s", outputPath)
		}
		return fmt.Errorf("error closing file: %w", err)
	}

	if args.TempPath != "" && args.TempPath != args.OutputPath {
		if err := c.fs.Rename(args.TempPath, args.OutputPath); err != nil {
			if removeErr := c.fs.Remove(args.TempPath); removeErr != nil {
				log.Warn().Err(removeErr).Msgf("error removing temp file: %s", args.TempPath)
			}
			return fmt.Errorf("error renaming temp file: %w", err)
		}
	}

	return nil
}
