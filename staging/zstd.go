package staging

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// stageFromZstd stages the decompressed stream of a .zst file.
func (s *Stager) stageFromZstd(r io.Reader, name string) (string, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create zstd reader: %w", ErrCopyFailed, err)
	}
	defer dec.Close()

	return s.stageStream(dec, innerName(name))
}
