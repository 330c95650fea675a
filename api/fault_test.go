package emucore

import (
	"errors"
	"testing"
)

func TestFaultWrapsSentinel(t *testing.T) {
	err := Fault("attach")
	if !errors.Is(err, ErrNativeFault) {
		t.Fatalf("Fault should wrap ErrNativeFault, got %v", err)
	}
	if err.Error() != "native fault: attach failed" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestGuardRecoversPanic(t *testing.T) {
	err := Guard("shutdown", func() error {
		panic("surface gone")
	})
	if !errors.Is(err, ErrNativeFault) {
		t.Fatalf("expected ErrNativeFault, got %v", err)
	}
}

func TestGuardPassesThrough(t *testing.T) {
	want := errors.New("boom")
	if err := Guard("tick", func() error { return want }); err != want {
		t.Errorf("expected %v, got %v", want, err)
	}
	if err := Guard("tick", func() error { return nil }); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
