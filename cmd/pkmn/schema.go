package main

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// reportTypes maps each command with JSON output to its report.
var reportTypes = map[string]struct {
	typ         reflect.Type
	description string
}{
	"detect":  {reflect.TypeOf(detectReport{}), "Format of a save file."},
	"info":    {reflect.TypeOf(infoReport{}), "Summary of a save file."},
	"party":   {reflect.TypeOf(partyReport{}), "Pokémon in the party."},
	"pc":      {reflect.TypeOf(pcReport{}), "Pokémon stored in the PC boxes."},
	"bag":     {reflect.TypeOf(bagReport{}), "Bag pockets and the item PC."},
	"export":  {reflect.TypeOf(fileReport{}), "File written by export."},
	"convert": {reflect.TypeOf(fileReport{}), "File written by convert."},
	"new":     {reflect.TypeOf(fileReport{}), "Save created by new."},
}

func reportNames() []string {
	names := make([]string, 0, len(reportTypes))
	for name := range reportTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func buildSchema(name string) (*jsonschema.Schema, error) {
	rt, ok := reportTypes[name]
	if !ok {
		return nil, fmt.Errorf("%w: no JSON report for %q", types.ErrInvalidValue, name)
	}
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.ReflectFromType(rt.typ)
	if schema == nil {
		return nil, fmt.Errorf("reflect %s report", name)
	}
	schema.Version = ""
	schema.Title = "pkmn " + name
	schema.Description = rt.description
	return schema, nil
}

func (a *app) newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [command]",
		Short: "Print the JSON Schema of the --json output",
		Long:  "Print the JSON Schema of one command's --json output, or of every command keyed by name.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc any
			if len(args) == 1 {
				s, err := buildSchema(args[0])
				if err != nil {
					return err
				}
				doc = s
			} else {
				all := map[string]*jsonschema.Schema{}
				for _, name := range reportNames() {
					s, err := buildSchema(name)
					if err != nil {
						return err
					}
					all[name] = s
				}
				doc = all
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return systemErr(fmt.Errorf("marshal schema: %w", err))
			}
			fmt.Fprintln(a.stdout, string(data))
			return nil
		},
	}
}
