package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pkmn/pkg/pkmn"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

func (a *app) newNewCmd() *cobra.Command {
	var (
		saveType string
		trainer  string
	)
	cmd := &cobra.Command{
		Use:   "new <save>",
		Short: "Create a blank save file",
		Long:  "Create a blank, valid save of --type at the given path or s3:// URI.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := types.ParseSaveType(saveType)
			if err != nil {
				return err
			}

			db, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer db.Detach()

			g, err := pkmn.NewGameSave(db, st)
			if err != nil {
				return err
			}
			if trainer != "" {
				if err := g.SetTrainerName(trainer); err != nil {
					return err
				}
			}
			data, err := g.Bytes()
			if err != nil {
				return err
			}
			if err := a.writeBlob(cmd.Context(), args[0], data); err != nil {
				return err
			}

			r := fileReport{Path: args[0], Game: g.Game().String(), Format: g.SaveType().String()}
			return a.output(r, func(w io.Writer) {
				fmt.Fprintf(w, "%s: new %s save\n", r.Path, r.Format)
			})
		},
	}
	cmd.Flags().StringVar(&saveType, "type", "", "save type or game name, for example Crystal or FireRed/LeafGreen")
	cmd.Flags().StringVar(&trainer, "trainer", "", "trainer name")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
