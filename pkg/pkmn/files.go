package pkmn

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/pkmn/internal/binfmt"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// Single-Pokémon file extensions.
const (
	ExtPK1  = ".pk1"
	ExtPK2  = ".pk2"
	ExtGen3 = ".3gpkm"
)

// FileExt returns the single-Pokémon file extension for game. GameCube
// Pokémon export as gen III handheld files.
func FileExt(game types.Game) (string, error) {
	switch game.Generation() {
	case 1:
		return ExtPK1, nil
	case 2:
		return ExtPK2, nil
	case 3:
		return ExtGen3, nil
	}
	return "", fmt.Errorf("%w: no file format for %s", types.ErrUnsupported, game)
}

// LoadPokemon reads a .pk1, .pk2 or .3gpkm file. Gen I files load as Red
// and gen II files as Crystal; gen III files load as their origin game,
// or Emerald when that is a GameCube game.
func LoadPokemon(db types.Database, path string) (*Pokemon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading Pokémon file: %w", err)
	}
	return DecodePokemonFile(db, filepath.Ext(path), data)
}

// DecodePokemonFile decodes single-Pokémon file contents of the format
// named by ext.
func DecodePokemonFile(db types.Database, ext string, data []byte) (*Pokemon, error) {
	var (
		p   *Pokemon
		err error
	)
	switch strings.ToLower(ext) {
	case ExtPK1:
		r, e, derr := binfmt.DecodePK1File(data)
		if derr != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrInvalidPokemonFile, derr)
		}
		p, err = fromPK1(db, types.GameRed, r, e.OTName, e.Nickname)
	case ExtPK2:
		r, e, derr := binfmt.DecodePK2File(data)
		if derr != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrInvalidPokemonFile, derr)
		}
		p, err = fromPK2(db, types.GameCrystal, r, e.Species == binfmt.Gen2EggSpecies, e.OTName, e.Nickname)
	case ExtGen3:
		r, derr := binfmt.DecodePK3(data)
		if derr != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrInvalidPokemonFile, derr)
		}
		game := types.GameEmerald
		if g, oerr := originGame(r.OriginGame, game); oerr == nil && !g.IsGameCube() {
			game = g
		}
		p, err = fromPK3(db, game, r)
	default:
		return nil, fmt.Errorf("%w: unknown Pokémon file extension %q", types.ErrInvalidValue, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidPokemonFile, err)
	}
	return p, nil
}

// FileBytes encodes p as a single-Pokémon file and returns its extension.
func (p *Pokemon) FileBytes() (string, []byte, error) {
	if p.IsNone() {
		return "", nil, fmt.Errorf("%w: cannot export an empty slot", types.ErrInvalidValue)
	}
	q := p
	if p.game.IsGameCube() {
		var err error
		if q, err = p.ToGame(types.GameEmerald); err != nil {
			return "", nil, err
		}
	}
	ext, err := FileExt(q.game)
	if err != nil {
		return "", nil, err
	}
	var data []byte
	switch ext {
	case ExtPK1:
		r, rerr := q.toPK1()
		if rerr != nil {
			return "", nil, rerr
		}
		data, err = binfmt.EncodePK1File(r, q.otName, q.nickname)
	case ExtPK2:
		r, rerr := q.toPK2()
		if rerr != nil {
			return "", nil, rerr
		}
		data, err = binfmt.EncodePK2File(r, q.egg, q.otName, q.nickname)
	case ExtGen3:
		r, rerr := q.toPK3()
		if rerr != nil {
			return "", nil, rerr
		}
		data, err = r.Party()
	}
	if err != nil {
		return "", nil, fmt.Errorf("encoding %s file: %w", ext, err)
	}
	return ext, data, nil
}

// ExportToFile writes p to path. The extension of path must match the
// file format of p's game.
func (p *Pokemon) ExportToFile(path string) error {
	ext, data, err := p.FileBytes()
	if err != nil {
		return err
	}
	if got := strings.ToLower(filepath.Ext(path)); got != ext {
		return fmt.Errorf("%w: %s Pokémon export to %s files, not %q", types.ErrInvalidValue, p.game, ext, got)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("writing Pokémon file: %w", err)
	}
	return nil
}
