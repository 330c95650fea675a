package staging

import (
	"archive/zip"
	"fmt"
	"io"
)

// stageFromZIP stages the first loadable entry of a ZIP archive. The archive
// is spooled to disk first because the central directory sits at the end.
func (s *Stager) stageFromZIP(r io.Reader) (string, error) {
	f, size, cleanup, err := s.spool(r)
	if err != nil {
		return "", err
	}
	defer cleanup()

	zr, err := zip.NewReader(f, size)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open zip: %w", ErrCopyFailed, err)
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
