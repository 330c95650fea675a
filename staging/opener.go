package staging

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Opener resolves a content locator to a readable stream and the display
// name of the content behind it.
type Opener interface {
	Open(ctx context.Context, locator string) (io.ReadCloser, string, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, locator string) (io.ReadCloser, string, error)

func (f OpenerFunc) Open(ctx context.Context, locator string) (io.ReadCloser, string, error) {
	return f(ctx, locator)
}

// FileOpener opens bare paths and file:// URIs on a filesystem.
type FileOpener struct {
	Fs afero.Fs
}

// NewFileOpener returns an opener over fs, or over the OS filesystem when fs
// is nil.
func NewFileOpener(fs afero.Fs) *FileOpener {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileOpener{Fs: fs}
}

func (o *FileOpener) Open(ctx context.Context, locator string) (io.ReadCloser, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	p, err := localPath(locator)
	if err != nil {
		return nil, "", err
	}

	f, err := o.Fs.Open(p)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", p, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, "", fmt.Errorf("failed to stat %s: %w", p, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, "", fmt.Errorf("%s is a directory", p)
	}

	return f, filepath.Base(p), nil
}

// localPath maps a locator to a filesystem path. Single-letter schemes are
// Windows drive letters, not URIs.
func localPath(locator string) (string, error) {
	if locator == "" {
		return "", fmt.Errorf("empty locator")
	}
	u, err := url.Parse(locator)
	if err != nil || len(u.Scheme) <= 1 {
		return locator, nil
	}
	if !strings.EqualFold(u.Scheme, "file") {
		return "", fmt.Errorf("unsupported locator scheme %q", u.Scheme)
	}
	if u.Path == "" {
		return "", fmt.Errorf("file locator %q has no path", locator)
	}
	return filepath.FromSlash(u.Path), nil
}
