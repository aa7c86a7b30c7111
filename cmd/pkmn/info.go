package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pkmn/pkg/pkmn"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

func (a *app) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <save>",
		Short: "Summarize a save file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSave(cmd.Context(), args[0], func(_ types.Database, g *pkmn.GameSave) error {
				r := newInfoReport(g)
				return a.output(r, func(w io.Writer) { printInfo(w, r) })
			})
		},
	}
}
