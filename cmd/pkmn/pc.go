package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pkmn/pkg/pkmn"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

func (a *app) newPCCmd() *cobra.Command {
	var box int
	cmd := &cobra.Command{
		Use:   "pc <save>",
		Short: "List the Pokémon stored in the PC boxes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSave(cmd.Context(), args[0], func(_ types.Database, g *pkmn.GameSave) error {
				r := pcReport{Game: g.Game().String(), Boxes: []boxReport{}}
				boxes := g.PC().Boxes()
				if box != 0 && (box < 1 || box > len(boxes)) {
					return fmt.Errorf("%w: box %d of %d", types.ErrOutOfRange, box, len(boxes))
				}
				for i, b := range boxes {
					if box != 0 && i+1 != box {
						continue
					}
					r.Boxes = append(r.Boxes, boxReport{
						Box:      i + 1,
						Name:     b.Name(),
						Capacity: b.Len(),
						Pokemon:  pokemonReports(b.Pokemon()),
					})
				}
				return a.output(r, func(w io.Writer) {
					for _, b := range r.Boxes {
						if box == 0 && len(b.Pokemon) == 0 {
							continue
						}
						fmt.Fprintf(w, "Box %d", b.Box)
						if b.Name != "" {
							fmt.Fprintf(w, " %q", b.Name)
						}
						fmt.Fprintf(w, " (%d/%d)\n", len(b.Pokemon), b.Capacity)
						for _, p := range b.Pokemon {
							printPokemon(w, "  ", p)
						}
					}
				})
			})
		},
	}
	cmd.Flags().IntVar(&box, "box", 0, "only list this box (numbered from 1)")
	return cmd
}
