package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Sternrassler/pokeapi-client/pkg/client"
	"github.com/Sternrassler/pokeapi-client/pkg/index"
	"github.com/Sternrassler/pokeapi-client/pkg/pokedex"
	"github.com/spf13/cobra"
)

func newShowCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "show <collection> <name>",
		Short:   "Print one record as JSON",
		Example: "  pokedex show pokemon pikachu\n  pokedex show move 1",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection := index.Collection(args[0])

			a, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			details, err := pokedex.Details(a.client, collection)
			if err != nil {
				return err
			}
			rec, err := details(cmd.Context(), index.Entry{Name: args[1]})
			if errors.Is(err, client.ErrNotFound) {
				return fmt.Errorf("%s %q not found", collection, args[1])
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		},
	}
}
