//go:build mage

// Package main contains Mage build targets for imgpdf.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "imgpdf"
	cmdPkg  = "./cmd/imgpdf"
)

// Default runs the tests and builds the binary.
var Default = All

// All runs Test then Build.
func All() {
	mg.SerialDeps(Test, Build)
}

// Build compiles the binary into bin/. go-fitz needs cgo.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	env := map[string]string{"CGO_ENABLED": "1"}
	if err := sh.RunWithV(env, "go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Serve builds and starts the service with ./config.yaml.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "serve")
}

// Clean removes build output and stale conversion workspaces in the OS temp dir.
func Clean() error {
	if err := sh.Rm(binDir); err != nil {
		return err
	}
	stale, err := filepath.Glob(filepath.Join(os.TempDir(), "imgpdf-*"))
	if err != nil {
		return err
	}
	for _, dir := range stale {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}
