//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

const binDir = "bin"

var Default = Build

// Build compiles the pxs3c command into bin/.
func Build() error {
	out := filepath.Join(binDir, "pxs3c")
	if _, err := executeCmd("go", withArgs("build", "-o", out, "./cmd/pxs3c"), withStream()); err != nil {
		return err
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs every package's tests.
func Test() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Vet runs go vet over the module.
func Vet() error {
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}

// Check runs Vet and then Test.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Clean removes build output.
func Clean() error {
	fmt.Println("Removing", binDir)
	return os.RemoveAll(binDir)
}
