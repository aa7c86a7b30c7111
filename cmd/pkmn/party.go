package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pkmn/pkg/pkmn"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

func (a *app) newPartyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "party <save>",
		Short: "List the Pokémon in the party",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSave(cmd.Context(), args[0], func(_ types.Database, g *pkmn.GameSave) error {
				r := partyReport{Game: g.Game().String(), Pokemon: pokemonReports(g.Party().Pokemon())}
				return a.output(r, func(w io.Writer) {
					if len(r.Pokemon) == 0 {
						fmt.Fprintln(w, "Party is empty")
						return
					}
					for _, p := range r.Pokemon {
						printPokemon(w, "", p)
					}
				})
			})
		},
	}
}
