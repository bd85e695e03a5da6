package main

import (
	"fmt"

	"github.com/Sternrassler/pokeapi-client/pkg/pagination"
	"github.com/spf13/cobra"
)

func newPagesCmd() *cobra.Command {
	var current, total int

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Print the pager tokens for a page position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if current < 1 {
				return fmt.Errorf("--current must be >= 1 (got %d)", current)
			}
			current = pagination.Clamp(current, total)
			fmt.Fprintln(cmd.OutOrStdout(), formatTokens(pagination.Range(current, total), current))
			return nil
		},
	}

	cmd.Flags().IntVar(&current, "current", 1, "current page")
	cmd.Flags().IntVar(&total, "total", 1, "total number of pages")
	return cmd
}
