//go:build mage

// Package main provides build targets for the pkmn project using Mage.
//
// Usage:
//
//	mage build       Compile the pkmn binary to bin/
//	mage test:all    Run every test
//	mage test:unit   Run tests without the race detector or cache bypass
//	mage test:cover  Run tests with a coverage profile in bin/
//	mage lint        Run golangci-lint
//	mage vet         Run go vet
//	mage clean       Remove build artifacts
//	mage install     Install pkmn to GOPATH/bin
//	mage stats       Print Go LOC and Reference Database row counts
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "pkmn"
	binaryDir  = "bin"
	cmdDir     = "./cmd/pkmn"
)

// ldflags stamps the binary with the VERSION environment variable or the
// current git describe output.
func ldflags() string {
	v := os.Getenv("VERSION")
	if v == "" {
		out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
		if err != nil {
			return ""
		}
		v = strings.TrimPrefix(out, "v")
	}
	return "-X main.version=" + v
}

// Build compiles the pkmn binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if f := ldflags(); f != "" {
		args = append(args, "-ldflags", f)
	}
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
