package staging

import (
	"fmt"
	"io"

	"github.com/bodgit/sevenzip"
)

// stageFrom7z stages the first loadable entry of a 7z archive.
func (s *Stager) stageFrom7z(r io.Reader) (string, error) {
	f, size, cleanup, err := s.spool(r)
	if err != nil {
		return "", err
	}
	defer cleanup()

	zr, err := sevenzip.NewReader(f, size)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open 7z: %w", ErrCopyFailed, err)
	}

	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		if !isContent(zf.Name) {
			continue
		}

		rc, err := zf.Open()
		if err != nil {
			return "", fmt.Errorf("%w: failed to open %s in archive: %w", ErrCopyFailed, zf.Name, err)
		}
		defer rc.Close()

		return s.write(entryBase(zf.Name), rc)
	}

	return "", ErrNoContent
}
