// Package staging copies user-selected content into a process-private scratch
// directory so the native core can open it by path. Compressed archives
// (ZIP, 7z, RAR, gzip, tar.gz, zstd, xz) are unpacked on the way and the
// first executable or disc image inside is staged instead.
package staging

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// ErrSourceUnavailable is returned when the locator cannot be opened.
var ErrSourceUnavailable = errors.New("source unavailable")

// ErrCopyFailed is returned when reading the source or writing the staged
// file fails. No partial file is left behind.
var ErrCopyFailed = errors.New("copy failed")

// ErrNoContent is returned when an archive holds no executable or disc image.
var ErrNoContent = errors.New("no loadable content found in archive")

var errClosed = errors.New("stager is closed")

const (
	// bufferSize is the fixed copy buffer used for every staged file.
	bufferSize = 16 * 1024

	dirPrefix = "staging-"
	lockName  = ".lock"

	fallbackName = "content.bin"
)

// Stager owns one scratch directory for the lifetime of the process. The
// directory is held under a file lock so SweepStale in another process
// leaves it alone.
type Stager struct {
	opener Opener
	dir    string
	lock   *flock.Flock

	mu     sync.Mutex
	closed bool
}

// New creates a fresh scratch directory under root and locks it.
func New(root string, opener Opener) (*Stager, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create staging root: %w", err)
	}

	dir, err := os.MkdirTemp(root, dirPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockName))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		os.RemoveAll(dir)
		if err == nil {
			err = errors.New("lock held by another process")
		}
		return nil, fmt.Errorf("failed to lock scratch directory: %w", err)
	}

	log.Debugf("staging into %s", dir)
	return &Stager{opener: opener, dir: dir, lock: lock}, nil
}

// Dir returns the scratch directory.
func (s *Stager) Dir() string {
	return s.dir
}

// Stage copies the content behind locator into the scratch directory and
// returns the path of the staged file. It is safe to call from several
// goroutines at once.
func (s *Stager) Stage(ctx context.Context, locator string) (string, error) {
	if s.isClosed() {
		return "", fmt.Errorf("%w: %w", ErrCopyFailed, errClosed)
	}

	rc, name, err := s.opener.Open(ctx, locator)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer rc.Close()

	br := bufio.NewReaderSize(ctxReader{ctx: ctx, r: rc}, bufferSize)

	// Read header for magic byte detection
	header, err := br.Peek(16)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("%w: failed to read header: %w", ErrCopyFailed, err)
	}

	switch detectFormat(header, name) {
	case formatZIP:
		return s.stageFromZIP(br)
	case format7z:
		return s.stageFrom7z(br)
	case formatRAR:
		return s.stageFromRAR(br)
	case formatGzip:
		return s.stageFromGzip(br, name)
	case formatZstd:
		return s.stageFromZstd(br, name)
	case formatXz:
		return s.stageFromXz(br, name)
	default:
		return s.write(name, br)
	}
}

// Discard deletes one staged file. Paths outside the scratch directory are
// ignored. Errors are logged, not returned.
func (s *Stager) Discard(path string) {
	if path == "" || filepath.Dir(path) != s.dir {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("failed to discard staged file %s: %v", path, err)
	}
}

// Sweep deletes every staged file and the scratch directory itself. Errors
// are ignored. Subsequent Stage calls fail.
func (s *Stager) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	s.lock.Unlock()
	if err := os.RemoveAll(s.dir); err != nil {
		log.Debugf("failed to sweep %s: %v", s.dir, err)
	}
}

func (s *Stager) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// write copies r into a new uniquely named file through the fixed buffer.
// On any failure the partial file is removed.
func (s *Stager) write(name string, r io.Reader) (string, error) {
	path := filepath.Join(s.dir, uuid.NewString()+"-"+sanitizeName(name))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}

	buf := make([]byte, bufferSize)
	_, err = io.CopyBuffer(writerOnly{f}, readerOnly{r}, buf)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}

	return path, nil
}

// spool copies r into a temporary file so formats that need random access
// (ZIP, 7z) can be read. The caller must call the returned cleanup.
func (s *Stager) spool(r io.Reader) (*os.File, int64, func(), error) {
	f, err := os.CreateTemp(s.dir, "spool-*")
	if err != nil {
		return nil, 0, nil, fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}
	cleanup := func() {
		f.Close()
		os.Remove(f.Name())
	}

	buf := make([]byte, bufferSize)
	size, err := io.CopyBuffer(writerOnly{f}, readerOnly{r}, buf)
	if err != nil {
		cleanup()
		return nil, 0, nil, fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}
	return f, size, cleanup, nil
}

// sanitizeName reduces name to a safe single path element, keeping its
// extension so the native core can tell executables from images.
func sanitizeName(name string) string {
	name = filepath.Base(filepath.FromSlash(strings.ReplaceAll(name, "\\", "/")))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return fallbackName
	}
	return out
}

// ctxReader fails reads once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// writerOnly and readerOnly hide ReadFrom/WriteTo so io.CopyBuffer always
// goes through the fixed buffer.
type writerOnly struct{ io.Writer }

type readerOnly struct{ io.Reader }
