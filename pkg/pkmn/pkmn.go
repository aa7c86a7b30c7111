// Package pkmn is the save-game engine: the Pokémon entity model and its
// conversion between games, item lists and bags, the Party, Box and PC
// containers, the Pokédex and the Game Save aggregate.
//
// Every value is bound to one game and validated against a Reference
// Database handle passed in at construction. Engine objects are not safe
// for concurrent mutation. Failed operations leave the receiver unchanged
// and return an error wrapping one of the sentinels in pkg/types.
package pkmn

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/mesh-intelligence/pkmn/internal/binfmt"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// Version is the engine version reported by the CLI.
const Version = "0.4.0"

// Creature is what containers accept. *Pokemon implements it; other
// implementations are converted through ToGame on assignment.
type Creature interface {
	Species() string
	Form() string
	Game() types.Game
	IsEgg() bool
	ToGame(game types.Game) (*Pokemon, error)
}

var _ Creature = (*Pokemon)(nil)

// invalid maps a Reference Database miss to ErrInvalidValue, keeping
// ErrNotFound in the chain, and passes any other failure through.
func invalid(err error, format string, args ...any) error {
	if errors.Is(err, types.ErrNotFound) {
		args = append([]any{types.ErrInvalidValue}, args...)
		return fmt.Errorf("%w: "+format+": %w", append(args, types.ErrNotFound)...)
	}
	return err
}

func checkRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s %d not in [%d, %d]", types.ErrOutOfRange, name, v, lo, hi)
	}
	return nil
}

// checkText validates a player-entered name for a game: 1 to max
// characters, all encodable by the game's character set.
func checkText(what, s string, max int, game types.Game) error {
	n := utf8.RuneCountInString(s)
	if n == 0 || n > max {
		return fmt.Errorf("%w: %s %q must be 1-%d characters", types.ErrInvalidValue, what, s, max)
	}
	ok := true
	switch game.Platform() {
	case types.PlatformGen1, types.PlatformGen2:
		ok = binfmt.ValidGen12Text(s)
	case types.PlatformGen3:
		ok = binfmt.ValidGen3Text(s)
	}
	if !ok {
		return fmt.Errorf("%w: %s %q has characters %s cannot store", types.ErrInvalidValue, what, s, game)
	}
	return nil
}

// writeFileAtomic writes data using the temp-file, fsync, rename pattern.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pkmn-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// saveTypeOf returns the save format of a handheld or GameCube game.
func saveTypeOf(game types.Game) types.SaveType {
	for _, st := range types.AllSaveTypes() {
		for _, g := range st.Games() {
			if g == game {
				return st
			}
		}
	}
	return types.SaveTypeNone
}
