// Command pkmn inspects and edits Pokémon save files and single-Pokémon
// files from generations I through III and the GameCube games.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/mesh-intelligence/pkmn/internal/blob"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "pkmn:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// sysError marks failures of the environment rather than of the input:
// the database could not be attached, a file could not be written.
type sysError struct{ err error }

func (e sysError) Error() string { return e.err.Error() }
func (e sysError) Unwrap() error { return e.err }

func systemErr(err error) error {
	if err == nil {
		return nil
	}
	return sysError{err: err}
}

func exitCode(err error) int {
	var se sysError
	if errors.As(err, &se) && !isUserError(err) {
		return exitSysError
	}
	return exitUserError
}

func isUserError(err error) bool {
	for _, target := range []error{
		types.ErrInvalidValue,
		types.ErrOutOfRange,
		types.ErrUnsupported,
		types.ErrInvalidSave,
		types.ErrInvalidPokemonFile,
		types.ErrAttributeNotFound,
		types.ErrBackendEmpty,
		types.ErrBackendUnknown,
		types.ErrDSNRequired,
		blob.ErrNotFound,
		blob.ErrInvalidKey,
		fs.ErrNotExist,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
