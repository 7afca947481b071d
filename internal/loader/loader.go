// Package loader handles opinion-file intake: reading single files,
// scanning directories, and watching a directory for newly arrived
// opinions.  It is the only component that touches the filesystem on the
// ingest path; everything downstream works on in-memory text.
package loader

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jurimetric/lexmeta/internal/config"
	"github.com/jurimetric/lexmeta/internal/infrastructure/monitoring/logging"
	"github.com/jurimetric/lexmeta/pkg/errors"
)

// Document is one opinion read from disk.
type Document struct {
	Path string
	Text string
	Size int64
}

// Loader reads opinion files according to the configured suffix and size
// limits.
type Loader struct {
	cfg    config.LoaderConfig
	logger logging.Logger
}

// New constructs a Loader.
func New(cfg config.LoaderConfig, logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Loader{cfg: cfg, logger: logger.Named("loader")}
}

// ReadFile loads a single opinion file, enforcing the suffix, size, and
// non-emptiness rules.
func (l *Loader) ReadFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeDocumentNotFound, "opinion file not found").WithDetail(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeDocumentUnreadable, "failed to stat opinion file").WithDetail(path)
	}
	if info.IsDir() {
		return nil, errors.New(errors.ErrCodeDocumentUnsupported, "path is a directory, not an opinion file").WithDetail(path)
	}
	if l.cfg.FileSuffix != "" && !strings.HasSuffix(path, l.cfg.FileSuffix) {
		return nil, errors.New(errors.ErrCodeDocumentUnsupported, "unsupported file type").WithDetail(path)
	}
	if l.cfg.MaxFileSize > 0 && info.Size() > l.cfg.MaxFileSize {
		return nil, errors.New(errors.ErrCodeDocumentTooLarge, "opinion file exceeds size limit").WithDetail(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDocumentUnreadable, "failed to read opinion file").WithDetail(path)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return nil, errors.New(errors.ErrCodeDocumentEmpty, "opinion file is empty").WithDetail(path)
	}

	l.logger.Debug("opinion file loaded",
		logging.String("path", path),
		logging.Int64("bytes", info.Size()))

	return &Document{Path: path, Text: text, Size: info.Size()}, nil
}

// ScanDir lists the opinion files directly under dir, sorted by path for
// deterministic batch ordering.  Subdirectories are not descended into.
func (l *Loader) ScanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeDocumentNotFound, "input directory not found").WithDetail(dir)
		}
		return nil, errors.Wrap(err, errors.ErrCodeDocumentUnreadable, "failed to list input directory").WithDetail(dir)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if l.cfg.FileSuffix != "" && !strings.HasSuffix(e.Name(), l.cfg.FileSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadDir loads every matching opinion under dir.  Unreadable files are
// skipped with a warning rather than failing the whole scan; an error is
// returned only when the directory itself cannot be listed.
func (l *Loader) ReadDir(dir string) ([]*Document, error) {
	paths, err := l.ScanDir(dir)
	if err != nil {
		return nil, err
	}

	docs := make([]*Document, 0, len(paths))
	for _, path := range paths {
		doc, err := l.ReadFile(path)
		if err != nil {
			l.logger.Warn("skipping unreadable opinion file",
				logging.String("path", path), logging.Err(err))
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Watch monitors dir and invokes handle for every opinion file created or
// modified there, debounced so editors that write in several syscalls
// deliver one event.  Watch blocks until ctx is cancelled.
func (l *Loader) Watch(ctx context.Context, dir string, handle func(*Document)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to create filesystem watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return errors.Wrap(err, errors.ErrCodeDocumentNotFound, "failed to watch input directory").WithDetail(dir)
	}

	debounce := l.cfg.WatchDebounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	l.logger.Info("watching input directory", logging.String("dir", dir))

	// One timer per path; a rapid series of writes resets the timer and
	// delivers a single load.
	pending := make(map[string]*time.Timer)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	fire := make(chan string)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case path := <-fire:
			delete(pending, path)
			doc, err := l.ReadFile(path)
			if err != nil {
				l.logger.Warn("ignoring unloadable opinion file",
					logging.String("path", path), logging.Err(err))
				continue
			}
			handle(doc)

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if l.cfg.FileSuffix != "" && !strings.HasSuffix(event.Name, l.cfg.FileSuffix) {
				continue
			}
			path := event.Name
			if t, exists := pending[path]; exists {
				t.Reset(debounce)
				continue
			}
			pending[path] = time.AfterFunc(debounce, func() {
				select {
				case fire <- path:
				case <-ctx.Done():
				}
			})

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Error("filesystem watcher error", logging.Err(werr))
		}
	}
}
