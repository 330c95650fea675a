package staging

import (
	"bytes"
	"path"
	"path/filepath"
	"strings"

	emucore "github.com/nikitaolenych123-coder/pxs3c/api"
)

// Magic bytes for format detection
var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
	magicZstd   = []byte{0x28, 0xB5, 0x2F, 0xFD}
	magicXz     = []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}
)

// formatType represents the detected container format
type formatType int

const (
	formatRaw formatType = iota
	formatZIP
	format7z
	formatGzip
	formatRAR
	formatZstd
	formatXz
)

func (f formatType) String() string {
	switch f {
	case formatZIP:
		return "zip"
	case format7z:
		return "7z"
	case formatGzip:
		return "gzip"
	case formatRAR:
		return "rar"
	case formatZstd:
		return "zstd"
	case formatXz:
		return "xz"
	default:
		return "raw"
	}
}

// detectFormat determines the container format from magic bytes, then from
// the name's extension. Anything unrecognised is staged as is.
func detectFormat(header []byte, name string) formatType {
	// Check magic bytes first (more reliable)
	switch {
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEnd):
		return formatZIP
	case bytes.HasPrefix(header, magicRAR):
		return formatRAR
	case bytes.HasPrefix(header, magic7z):
		return format7z
	case bytes.HasPrefix(header, magicXz):
		return formatXz
	case bytes.HasPrefix(header, magicZstd):
		return formatZstd
	case bytes.HasPrefix(header, magicGzip):
		return formatGzip
	}

	// Fall back to extension for archive formats
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zip":
		return formatZIP
	case ".7z":
		return format7z
	case ".gz", ".tgz":
		return formatGzip
	case ".rar":
		return formatRAR
	case ".zst", ".tzst":
		return formatZstd
	case ".xz", ".txz":
		return formatXz
	}

	return formatRaw
}

// isContent reports whether an archive entry is something the core can load.
func isContent(name string) bool {
	return emucore.Classify(entryBase(name)) != emucore.KindUnsupported
}

// entryBase returns the last element of an archive entry name, which may use
// either separator.
func entryBase(name string) string {
	return path.Base(strings.ReplaceAll(name, "\\", "/"))
}

// innerName strips a single-stream compression suffix: "game.iso.xz" becomes
// "game.iso" and "game.tgz" becomes "game.tar".
func innerName(name string) string {
	lower := strings.ToLower(name)
	for _, pair := range [][2]string{{".tgz", ".tar"}, {".tzst", ".tar"}, {".txz", ".tar"}} {
		if strings.HasSuffix(lower, pair[0]) {
			return name[:len(name)-len(pair[0])] + pair[1]
		}
	}
	for _, ext := range []string{".gz", ".zst", ".xz"} {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// isTar reports whether a decompressed stream name denotes a tar archive.
func isTar(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".tar")
}
