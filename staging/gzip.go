package staging

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// stageFromGzip stages the decompressed stream of a .gz file, or the first
// loadable entry when the stream is a tar archive.
func (s *Stager) stageFromGzip(r io.Reader, name string) (string, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create gzip reader: %w", ErrCopyFailed, err)
	}
	defer gr.Close()

	inner := innerName(name)
	if gr.Name != "" {
		inner = gr.Name
	}
	return s.stageStream(gr, inner)
}

// stageStream handles the payload of a single-stream compressor.
func (s *Stager) stageStream(r io.Reader, inner string) (string, error) {
	if isTar(inner) {
		return s.stageFromTar(r)
	}
	if !isContent(inner) {
		return "", fmt.Errorf("%w: %s", ErrNoContent, inner)
	}
	return s.write(entryBase(inner), r)
}

// stageFromTar stages the first loadable regular file of a tar stream.
func (s *Stager) stageFromTar(r io.Reader) (string, error) {
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: failed to read tar entry: %w", ErrCopyFailed, err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}
		if !isContent(header.Name) {
			continue
		}

		return s.write(entryBase(header.Name), tr)
	}

	return "", ErrNoContent
}
