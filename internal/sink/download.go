// Package sink provides the outward-facing save and clipboard adapters.
package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/4upp/zart/internal/types"
)

// Downloader saves an artifact and returns where it went.
type Downloader interface {
	Download(ctx context.Context, artifact *types.Artifact) (string, error)
}

// DirDownloader writes artifacts into a directory.
type DirDownloader struct {
	Dir string
}

// NewDirDownloader returns a DirDownloader for dir.
func NewDirDownloader(dir string) *DirDownloader {
	return &DirDownloader{Dir: dir}
}

// Download writes the artifact to a temp file in Dir and renames it into
// place, so a partially written file is never visible under its final name.
func (d *DirDownloader) Download(ctx context.Context, artifact *types.Artifact) (string, error) {
	if artifact == nil {
		return "", fmt.Errorf("nothing to download")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	tmp, err := os.CreateTemp(d.Dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(artifact.Data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", artifact.Filename, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", artifact.Filename, err)
	}

	dest := filepath.Join(d.Dir, filepath.Base(artifact.Filename))
	if err := os.Rename(tmpName, dest); err != nil {
		return "", fmt.Errorf("failed to move %s into place: %w", artifact.Filename, err)
	}
	return dest, nil
}

// MemoryDownloader keeps artifacts in memory by file name. The HTTP server
// uses it to serve downloads back to the client.
type MemoryDownloader struct {
	mu        sync.RWMutex
	artifacts map[string]*types.Artifact
}

// NewMemoryDownloader returns an empty MemoryDownloader.
func NewMemoryDownloader() *MemoryDownloader {
	return &MemoryDownloader{artifacts: make(map[string]*types.Artifact)}
}

// Download stores the artifact under its file name.
func (m *MemoryDownloader) Download(ctx context.Context, artifact *types.Artifact) (string, error) {
	if artifact == nil {
		return "", fmt.Errorf("nothing to download")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artifacts[artifact.Filename] = artifact
	return artifact.Filename, nil
}

// Take returns and forgets the artifact stored under name.
func (m *MemoryDownloader) Take(name string) (*types.Artifact, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.artifacts[name]
	delete(m.artifacts, name)
	return a, ok
}

// Names lists stored artifact names in sorted order.
func (m *MemoryDownloader) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.artifacts))
	for name := range m.artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
