package staging

import (
	"errors"
	"fmt"
	"io"

	"github.com/nwaples/rardecode/v2"
)

// stageFromRAR stages the first loadable entry of a RAR archive. RAR is read
// as a stream, so no spooling is needed.
func (s *Stager) stageFromRAR(r io.Reader) (string, error) {
	rr, err := rardecode.NewReader(r)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open rar: %w", ErrCopyFailed, err)
	}

	for {
		header, err := rr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: failed to read rar entry: %w", ErrCopyFailed, err)
		}

		if header.IsDir {
			continue
		}
		if !isContent(header.Name) {
			continue
		}

		return s.write(entryBase(header.Name), rr)
	}

	return "", ErrNoContent
}
