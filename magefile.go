//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"codeberg.org/snonux/babel/internal"
	"codeberg.org/snonux/babel/internal/checkpoint"
)

// Default target to run when none is specified
var Default = Build

const binary = "babel"

// Build builds the babel binary
func Build() error {
	fmt.Printf("Building %s %s\n", binary, internal.Version)
	return sh.RunV("go", "build", "-o", binary, "./cmd/babel")
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install installs babel into GOPATH/bin
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/babel")
}

// Clean removes the built binary
func Clean() error {
	return sh.Rm(binary)
}

// Split cuts a checkpoint into fragments of chunkMB megabytes next to it
// under the model directory, ready for distribution.
func Split(src string, chunkMB int) error {
	dir := filepath.Join(filepath.Dir(src), "model")
	fragments, err := checkpoint.Split(src, dir, int64(chunkMB)*1024*1024)
	if err != nil {
		return err
	}
	for _, f := range fragments {
		fmt.Printf("%s (%s)\n", f.Path, internal.FormatBytes(f.Size))
	}
	return nil
}
