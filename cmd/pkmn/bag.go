package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pkmn/pkg/pkmn"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

func (a *app) newBagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bag <save>",
		Short: "List the bag pockets and the item PC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSave(cmd.Context(), args[0], func(_ types.Database, g *pkmn.GameSave) error {
				r := newBagReport(g)
				return a.output(r, func(w io.Writer) {
					for _, p := range r.Pockets {
						printPocket(w, p)
					}
					fmt.Fprint(w, "PC: ")
					printPocket(w, r.PC)
				})
			})
		},
	}
}
