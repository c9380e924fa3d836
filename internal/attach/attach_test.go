package attach_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmic/internal/attach"
)

func writeFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o600))
	return path
}

func TestLoad_RejectsOversize(t *testing.T) {
	path := writeFile(t, "big.bin", 3<<20)

	_, err := attach.Load(path)
	assert.ErrorIs(t, err, attach.ErrTooLarge)
}

func TestLoad_AtLimit(t *testing.T) {
	path := writeFile(t, "exact.bin", attach.MaxBytes)

	a, err := attach.Load(path)
	require.NoError(t, err)
	assert.Len(t, a.Data, attach.MaxBytes)
	assert.Equal(t, "exact.bin", a.Name)
}

func TestLoad_MediaType(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "pic.png")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n"), 0o600))
	noext := filepath.Join(dir, "notes")
	require.NoError(t, os.WriteFile(noext, []byte("plain words"), 0o600))

	a, err := attach.Load(png)
	require.NoError(t, err)
	assert.Equal(t, "image/png", a.MediaType)
	assert.True(t, strings.HasPrefix(a.DataURI(), "data:image/png;base64,"))

	b, err := attach.Load(noext)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(b.MediaType, "text/plain"), b.MediaType)
}

func TestLoad_Errors(t *testing.T) {
	_, err := attach.Load(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = attach.Load(t.TempDir())
	assert.Error(t, err)
}

func TestCheckSize(t *testing.T) {
	assert.NoError(t, attach.CheckSize(attach.MaxBytes))
	assert.ErrorIs(t, attach.CheckSize(attach.MaxBytes+1), attach.ErrTooLarge)
}
