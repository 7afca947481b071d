package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jurimetric/lexmeta/internal/config"
	"github.com/jurimetric/lexmeta/pkg/errors"
)

func newTestLoader() *Loader {
	return New(config.LoaderConfig{
		FileSuffix:    ".txt",
		MaxFileSize:   1 << 20,
		WatchDebounce: 10 * time.Millisecond,
	}, nil)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile(t *testing.T) {
	l := newTestLoader()
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := writeFile(t, dir, "opinion.txt", "Smith v. Jones")
		doc, err := l.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Smith v. Jones", doc.Text)
		assert.Equal(t, path, doc.Path)
		assert.Equal(t, int64(len("Smith v. Jones")), doc.Size)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := l.ReadFile(filepath.Join(dir, "absent.txt"))
		assert.True(t, errors.IsCode(err, errors.ErrCodeDocumentNotFound))
	})

	t.Run("wrong suffix", func(t *testing.T) {
		path := writeFile(t, dir, "opinion.pdf", "binary")
		_, err := l.ReadFile(path)
		assert.True(t, errors.IsCode(err, errors.ErrCodeDocumentUnsupported))
	})

	t.Run("directory path", func(t *testing.T) {
		_, err := l.ReadFile(dir)
		assert.True(t, errors.IsCode(err, errors.ErrCodeDocumentUnsupported))
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, dir, "blank.txt", "  \n\t ")
		_, err := l.ReadFile(path)
		assert.True(t, errors.IsCode(err, errors.ErrCodeDocumentEmpty))
	})

	t.Run("oversized file", func(t *testing.T) {
		small := New(config.LoaderConfig{FileSuffix: ".txt", MaxFileSize: 4}, nil)
		path := writeFile(t, dir, "large.txt", "well over four bytes")
		_, err := small.ReadFile(path)
		assert.True(t, errors.IsCode(err, errors.ErrCodeDocumentTooLarge))
	})
}

func TestScanDir(t *testing.T) {
	l := newTestLoader()
	dir := t.TempDir()

	writeFile(t, dir, "b.txt", "second")
	writeFile(t, dir, "a.txt", "first")
	writeFile(t, dir, "notes.md", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	paths, err := l.ScanDir(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "a.txt"), paths[0])
	assert.Equal(t, filepath.Join(dir, "b.txt"), paths[1])
}

func TestScanDirMissing(t *testing.T) {
	l := newTestLoader()
	_, err := l.ScanDir(filepath.Join(t.TempDir(), "absent"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeDocumentNotFound))
}

func TestReadDirSkipsBadFiles(t *testing.T) {
	l := newTestLoader()
	dir := t.TempDir()

	writeFile(t, dir, "good.txt", "Roe v. Wade")
	writeFile(t, dir, "empty.txt", "")

	docs, err := l.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Roe v. Wade", docs[0].Text)
}

func TestWatchDeliversNewFiles(t *testing.T) {
	l := newTestLoader()
	dir := t.TempDir()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan *Document, 1)
	done := make(chan error, 1)
	go func() {
		done <- l.Watch(ctx, dir, func(d *Document) {
			select {
			case got <- d:
			default:
			}
		})
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, dir, "new.txt", "Apple v. Samsung")

	select {
	case doc := <-got:
		assert.Equal(t, "Apple v. Samsung", doc.Text)
	case <-ctx.Done():
		t.Fatal("watcher did not deliver the new file")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatchMissingDir(t *testing.T) {
	l := newTestLoader()
	err := l.Watch(context.Background(), filepath.Join(t.TempDir(), "absent"), func(*Document) {})
	assert.True(t, errors.IsCode(err, errors.ErrCodeDocumentNotFound))
}
