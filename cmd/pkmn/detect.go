package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pkmn/internal/blob"
	"github.com/mesh-intelligence/pkmn/pkg/pkmn"
)

func (a *app) newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <save>",
		Short: "Identify the format of a save file",
		Long:  "Identify the format of a save file. The save may be a path or an s3://bucket/key URI.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := blob.Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			st, err := pkmn.DetectSaveTypeBytes(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			r := detectReport{Source: args[0], SaveType: st.String(), Generation: st.Generation()}
			for _, g := range st.Games() {
				r.Games = append(r.Games, g.String())
			}
			return a.output(r, func(w io.Writer) {
				fmt.Fprintf(w, "%s: %s (%s)\n", r.Source, r.SaveType, strings.Join(r.Games, ", "))
			})
		},
	}
}
