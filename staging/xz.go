package staging

import (
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
)

// stageFromXz stages the decompressed stream of a .xz file.
func (s *Stager) stageFromXz(r io.Reader, name string) (string, error) {
	xr, err := xz.NewReader(r)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create xz reader: %w", ErrCopyFailed, err)
	}

	return s.stageStream(xr, innerName(name))
}
