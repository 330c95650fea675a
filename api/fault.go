package emucore

import (
	"errors"
	"fmt"
)

// ErrNativeFault is returned when a native entry point signals failure.
var ErrNativeFault = errors.New("native fault")

// Fault returns an ErrNativeFault describing the failed operation.
func Fault(op string) error {
	return fmt.Errorf("%w: %s failed", ErrNativeFault, op)
}

// Guard runs fn and converts a panic raised across the native boundary into
// an ErrNativeFault. Lifecycle callbacks use it so that no fault escapes to
// the platform.
func Guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s panicked: %v", ErrNativeFault, op, r)
		}
	}()
	return fn()
}
