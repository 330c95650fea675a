package emucore

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// ContentKind classifies content the native loader accepts.
type ContentKind int

const (
	KindUnsupported ContentKind = iota
	KindExecutable
	KindDiscImage
)

// String returns the display name of the kind.
func (k ContentKind) String() string {
	switch k {
	case KindExecutable:
		return "Executable"
	case KindDiscImage:
		return "Disc Image"
	default:
		return "Unsupported"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ContentKind) MarshalText() ([]byte, error) {
	switch k {
	case KindExecutable:
		return []byte("executable"), nil
	case KindDiscImage:
		return []byte("disc_image"), nil
	default:
		return []byte("unsupported"), nil
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown kinds decode as
// KindUnsupported rather than failing so one bad entry cannot poison a
// whole document.
func (k *ContentKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "executable":
		*k = KindExecutable
	case "disc_image":
		*k = KindDiscImage
	default:
		*k = KindUnsupported
	}
	return nil
}

// executableNames are literal basenames of boot executables.
var executableNames = map[string]bool{
	"eboot.bin": true,
	"boot.bin":  true,
}

// Classify determines the content kind from a filename. Matching is
// case-insensitive.
func Classify(name string) ContentKind {
	base := strings.ToLower(filepath.Base(name))
	if executableNames[base] {
		return KindExecutable
	}
	switch filepath.Ext(base) {
	case ".elf", ".self":
		return KindExecutable
	case ".iso":
		return KindDiscImage
	default:
		return KindUnsupported
	}
}

// UnsupportedReason explains why a filename was classified as unsupported.
func UnsupportedReason(name string) string {
	base := filepath.Base(name)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".pkg":
		return "PKG installers are not supported, install the package contents first"
	case "":
		return "file " + base + " has no recognised extension"
	default:
		return "unsupported file type " + filepath.Ext(base)
	}
}

// LocatorName returns the filename component of a content locator. Locators
// with a URI scheme use the last segment of the URI path, anything else is
// treated as a local path.
func LocatorName(locator string) string {
	if u, err := url.Parse(locator); err == nil && len(u.Scheme) > 1 {
		p := u.Path
		if p == "" {
			p = u.Opaque
		}
		if p == "" {
			return u.Host
		}
		return path.Base(p)
	}
	return filepath.Base(locator)
}
