package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pkmn/internal/blob"
	"github.com/mesh-intelligence/pkmn/pkg/pkmn"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

func (a *app) newConvertCmd() *cobra.Command {
	var (
		game string
		out  string
	)
	cmd := &cobra.Command{
		Use:   "convert <pokemon-file>",
		Short: "Convert a single-Pokémon file to another game",
		Long: "Read a .pk1, .pk2 or .3gpkm file, convert the Pokémon to --game and write the\n" +
			"result in that game's file format. GameCube targets are written as .3gpkm files.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := types.ParseGame(game)
			if err != nil {
				return err
			}
			data, err := blob.Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			db, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer db.Detach()

			p, err := pkmn.DecodePokemonFile(db, filepath.Ext(args[0]), data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			q, err := p.ToGame(target)
			if err != nil {
				return err
			}
			ext, encoded, err := q.FileBytes()
			if err != nil {
				return err
			}
			dest, err := a.destination(out, ext)
			if err != nil {
				return err
			}
			if err := a.writeBlob(cmd.Context(), dest, encoded); err != nil {
				return err
			}
			a.logger.Debug("pokemon converted", "species", q.Species(), "from", p.Game().String(), "to", target.String())

			r := fileReport{Path: dest, Game: target.String(), Species: q.Species(), Format: ext}
			return a.output(r, func(w io.Writer) { fmt.Fprintln(w, r.Path) })
		},
	}
	cmd.Flags().StringVar(&game, "game", "", "target game, for example Crystal or Emerald")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path or s3:// URI")
	_ = cmd.MarkFlagRequired("game")
	return cmd
}
