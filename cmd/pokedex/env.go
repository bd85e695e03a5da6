package main

import (
	"fmt"

	"github.com/Sternrassler/pokeapi-client/internal/config"
	"github.com/spf13/cobra"
)

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables pokedex reads",
		Args:  cobra.NoArgs,
		// Skip config loading so a broken environment can still be inspected.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.Usage())
		},
	}
}
