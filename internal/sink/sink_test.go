package sink

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/4upp/zart/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirDownloader_WritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	d := NewDirDownloader(dir)

	path, err := d.Download(context.Background(), &types.Artifact{
		Filename:    "export.json",
		ContentType: types.ContentTypeJSON,
		Data:        []byte(`[]`),
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "export.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	leftovers, err := filepath.Glob(filepath.Join(dir, ".download-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp file released")
}

func TestDirDownloader_StripsDirectoryFromName(t *testing.T) {
	dir := t.TempDir()
	path, err := NewDirDownloader(dir).Download(context.Background(), &types.Artifact{Filename: "../../escape.bin"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.bin"), path)
}

func TestDirDownloader_Errors(t *testing.T) {
	d := NewDirDownloader(t.TempDir())

	_, err := d.Download(context.Background(), nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.Download(ctx, &types.Artifact{Filename: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryDownloader(t *testing.T) {
	m := NewMemoryDownloader()
	ctx := context.Background()

	_, err := m.Download(ctx, &types.Artifact{Filename: "b.bin"})
	require.NoError(t, err)
	_, err = m.Download(ctx, &types.Artifact{Filename: "a.json"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.json", "b.bin"}, m.Names())

	a, ok := m.Take("a.json")
	require.True(t, ok)
	assert.Equal(t, "a.json", a.Filename)

	_, ok = m.Take("a.json")
	assert.False(t, ok, "taken artifacts are released")
}

func TestOSC52Clipboard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OSC52Clipboard{Out: &buf}.Write(context.Background(), "6516141723"))

	assert.Contains(t, buf.String(), "\x1b]52;")
	assert.Contains(t, buf.String(), base64.StdEncoding.EncodeToString([]byte("6516141723")))
}

func TestNopClipboard(t *testing.T) {
	assert.NoError(t, NopClipboard{}.Write(context.Background(), "x"))
}
