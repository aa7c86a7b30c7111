package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pkmn/pkg/pkmn"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

func (a *app) newExportCmd() *cobra.Command {
	var (
		slot int
		box  int
		out  string
	)
	cmd := &cobra.Command{
		Use:   "export <save>",
		Short: "Write one Pokémon of a save to a .pk1, .pk2 or .3gpkm file",
		Long: "Write the Pokémon in party slot --slot, or in slot --slot of box --box, to a\n" +
			"single-Pokémon file. Without -o the file is named <uuid>.<ext> in the scratch directory.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSave(cmd.Context(), args[0], func(_ types.Database, g *pkmn.GameSave) error {
				p, err := pickPokemon(g, box, slot)
				if err != nil {
					return err
				}
				ext, data, err := p.FileBytes()
				if err != nil {
					return err
				}
				dest, err := a.destination(out, ext)
				if err != nil {
					return err
				}
				if err := a.writeBlob(cmd.Context(), dest, data); err != nil {
					return err
				}
				r := fileReport{Path: dest, Game: p.Game().String(), Species: p.Species(), Format: ext}
				return a.output(r, func(w io.Writer) { fmt.Fprintln(w, r.Path) })
			})
		},
	}
	cmd.Flags().IntVar(&slot, "slot", 1, "slot to export (numbered from 1)")
	cmd.Flags().IntVar(&box, "box", 0, "PC box to export from (numbered from 1; 0 means the party)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path or s3:// URI")
	return cmd
}

// pickPokemon returns the Pokémon in party slot slot, or in slot slot of
// PC box box when box is not zero. Both are numbered from 1.
func pickPokemon(g *pkmn.GameSave, box, slot int) (*pkmn.Pokemon, error) {
	var (
		p   *pkmn.Pokemon
		err error
	)
	if box == 0 {
		p, err = g.Party().Get(slot - 1)
	} else {
		var b *pkmn.Box
		if b, err = g.PC().Box(box - 1); err != nil {
			return nil, err
		}
		p, err = b.Get(slot - 1)
	}
	if err != nil {
		return nil, err
	}
	if p.IsNone() {
		return nil, fmt.Errorf("%w: slot %d is empty", types.ErrInvalidValue, slot)
	}
	return p, nil
}

// destination returns out after checking its extension, or a scratch file
// name when out is empty.
func (a *app) destination(out, ext string) (string, error) {
	if out == "" {
		return a.scratchPath(ext)
	}
	if got := strings.ToLower(filepath.Ext(out)); got != ext {
		return "", fmt.Errorf("%w: output must be a %s file, not %q", types.ErrInvalidValue, ext, got)
	}
	return out, nil
}
