//go:build !(darwin || linux || freebsd)

package native

import (
	"fmt"
	"runtime"

	emucore "github.com/nikitaolenych123-coder/pxs3c/api"
)

// Library is unavailable on this platform. Open always fails.
type Library struct {
	emucore.NativeCore
}

// Open reports that dynamic core loading is unsupported on this GOOS.
func Open(path string) (*Library, error) {
	return nil, fmt.Errorf("native core %s: dynamic loading is not supported on %s", path, runtime.GOOS)
}

// Path returns an empty string.
func (l *Library) Path() string {
	return ""
}

// Close is a no-op.
func (l *Library) Close() error {
	return nil
}
