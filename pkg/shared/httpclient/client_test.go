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
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/quake2touch/launcher/pkg/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadFile_Success(t *testing.T) {
	t.Parallel()

	content := []byte("PK fake demo archive content")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(content)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}))
	defer server.Close()

	fs := afero.NewMemMapFs()
	client := NewClientWithFs(fs)

	var mu sync.Mutex
	var progress [][2]int64
	err := client.DownloadFile(context.Background(), DownloadFileArgs{
		URL:        server.URL + "/demo.zip",
		OutputPath: "/cache/demo.zip",
		TempPath:   "/cache/demo.zip.part",
		OnProgress: func(received, total int64) {
			mu.Lock()
			defer mu.Unlock()
			progress = append(progress, [2]int64{received, total})
		},
	})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/cache/demo.zip")
	require.NoError(t, err)
	assert.Equal(t, content, data)

	exists, err := afero.Exists(fs, "/cache/demo.zip.part")
	require.NoError(t, err)
	assert.False(t, exists, "temp file should not exist after successful download")

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, progress)
	assert.Equal(t, [2]int64{0, int64(len(content))}, progress[0])
	assert.Equal(t, [2]int64{int64(len(content)), int64(len(content))}, progress[len(progress)-1])
}

func TestDownloadFile_UnknownLength(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("chunk1"))
		flusher.Flush()
		_, _ = w.Write([]byte("chunk2"))
	}))
	defer server.Close()

	fs := afero.NewMemMapFs()
	client := NewClientWithFs(fs)

	var totals []int64
	err := client.DownloadFile(context.Background(), DownloadFileArgs{
		URL:        server.URL,
		OutputPath: "/demo.zip",
		OnProgress: func(_, total int64) {
			totals = append(totals, total)
		},
	})
	require.NoError(t, err)

	for _, total := range totals {
		assert.Equal(t, int64(-1), total)
	}
	data, err := afero.ReadFile(fs, "/demo.zip")
	require.NoError(t, err)
	assert.Equal(t, "chunk1chunk2", string(data))
}

func TestDownloadFile_HTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
	}{
		{"NotFound", http.StatusNotFound},
		{"InternalServerError", http.StatusInternalServerError},
		{"Forbidden", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			fs := afero.NewMemMapFs()
			err := NewClientWithFs(fs).DownloadFile(context.Background(), DownloadFileArgs{
				URL:        server.URL,
				OutputPath: "/demo.zip",
				TempPath:   "/demo.zip.part",
			})

			require.Error(t, err)
			assert.Contains(t, err.Error(), fmt.Sprintf("invalid status code: %d", tt.statusCode))

			exists, _ := afero.Exists(fs, "/demo.zip")
			assert.False(t, exists)
		})
	}
}

func TestDownloadFile_IncompleteDownload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hj, ok := w.(http.Hijacker)
		require.True(t, ok)
		conn, buf, err := hj.Hijack()
		require.NoError(t, err)
		defer func() { _ = conn.Close() }()
		_, _ = buf.WriteString("HTTP/1.1 200 OK\r\nContent-Length: 1000\r\n\r\nshort")
		_ = buf.Flush()
	}))
	defer server.Close()

	fs := afero.NewMemMapFs()
	err := NewClientWithFs(fs).DownloadFile(context.Background(), DownloadFileArgs{
		URL:        server.URL,
		OutputPath: "/demo.zip",
		TempPath:   "/demo.zip.part",
	})
	require.Error(t, err)

	exists, _ := afero.Exists(fs, "/demo.zip.part")
	assert.False(t, exists, "partial download should be removed")
	exists, _ = afero.Exists(fs, "/demo.zip")
	assert.False(t, exists)
}

func TestDownloadFile_UnwritableDestination(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer server.Close()

	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	err := NewClientWithFs(fs).DownloadFile(context.Background(), DownloadFileArgs{
		URL:        server.URL,
		OutputPath: "/demo.zip",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error creating file")
}

func TestDownloadFile_ContextTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := NewClientWithFs(afero.NewMemMapFs()).DownloadFile(ctx, DownloadFileArgs{
		URL:        server.URL,
		OutputPath: "/demo.zip",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context deadline exceeded")
}

func TestAuthTransport(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	config.SetAuthCfgForTesting(map[string]config.CredentialEntry{
		server.URL: {Bearer: "secret-token"},
	})
	t.Cleanup(config.ClearAuthCfgForTesting)

	err := NewClientWithFs(afero.NewMemMapFs()).DownloadFile(context.Background(), DownloadFileArgs{
		URL:        server.URL + "/demo.zip",
		OutputPath: filepath.Join("/", "demo.zip"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

var errCloseFailed = errors.New("close failed")

// closeFailFs is a MemMapFs whose opened files fail to close, as a full
// disk does when buffered data is flushed.
type closeFailFs struct {
	afero.Fs
}

type closeFailFile struct {
	afero.File
}

func (f closeFailFile) Close() error {
	_ = f.File.Close()
	return errCloseFailed
}

func (c closeFailFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := c.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err //nolint:wrapcheck // passthrough
	}
	return closeFailFile{File: f}, nil
}

func TestDownloadFile_CloseErrorRemovesTemp(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("PK"))
	}))
	defer server.Close()

	fs := closeFailFs{Fs: afero.NewMemMapFs()}
	client := NewClientWithFs(fs)

	err := client.DownloadFile(context.Background(), DownloadFileArgs{
		URL:        server.URL + "/demo.zip",
		OutputPath: "/cache/demo.zip",
		TempPath:   "/cache/demo.zip.part",
	})
	require.ErrorIs(t, err, errCloseFailed)

	for _, path := range []string{"/cache/demo.zip.part", "/cache/demo.zip"} {
		exists, err := afero.Exists(fs, path)
		require.NoError(t, err)
		assert.False(t, exists, "%s should not exist", path)
	}
}
