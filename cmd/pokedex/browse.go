package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Sternrassler/pokeapi-client/internal/config"
	"github.com/Sternrassler/pokeapi-client/pkg/hydrate"
	"github.com/Sternrassler/pokeapi-client/pkg/index"
	"github.com/Sternrassler/pokeapi-client/pkg/pagination"
	"github.com/Sternrassler/pokeapi-client/pkg/pokedex"
	"github.com/spf13/cobra"
)

func newBrowseCmd(o *options) *cobra.Command {
	var (
		search   string
		page     int
		pageSize int
		src      pokedex.Source
	)

	cmd := &cobra.Command{
		Use:   "browse <collection>",
		Short: "Print one page of a collection",
		Example: `  pokedex browse pokemon --search saur
  pokedex browse move --type fire --page 2
  pokedex browse item --category healing,standard-balls`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src.Collection = index.Collection(args[0])
			if err := src.Validate(); err != nil {
				return err
			}
			if pageSize == 0 {
				pageSize = o.cfg.PageSize
			}
			if page < 1 {
				return fmt.Errorf("--page must be >= 1 (got %d)", page)
			}
			if pageSize < 1 || pageSize > config.MaxPageSize {
				return fmt.Errorf("--page-size must be between 1 and %d (got %d)", config.MaxPageSize, pageSize)
			}

			ctx := cmd.Context()
			a, err := o.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			details, err := pokedex.Details(a.client, src.Collection)
			if err != nil {
				return err
			}
			entries, err := src.Load(ctx, a.loader)
			if err != nil {
				return err
			}

			b := hydrate.NewBrowser(details, hydrate.Config{PageSize: pageSize, MaxConcurrency: o.cfg.MaxConcurrency})
			b.SetIndex(entries)
			b.SetSearch(search)
			b.SetPage(pagination.Clamp(page, b.State().TotalPages))

			view, err := b.Load(ctx)
			if err != nil {
				return err
			}
			printView(cmd.OutOrStdout(), view)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive name filter")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "entries per page (default from config)")
	cmd.Flags().StringVar(&src.Type, "type", "", "only pokemon or moves of this type")
	cmd.Flags().StringVar(&src.Ability, "ability", "", "only pokemon with this ability")
	cmd.Flags().StringSliceVar(&src.Categories, "category", nil, "only items of these categories")
	return cmd
}

func printView(w io.Writer, v hydrate.View[fmt.Stringer]) {
	if v.Empty() {
		fmt.Fprintln(w, v.EmptyMessage())
		return
	}
	for _, item := range v.Items {
		fmt.Fprintln(w, item)
	}
	fmt.Fprintf(w, "\npage %d of %d (%d matches): %s\n",
		v.Page, v.TotalPages, v.FilteredCount, formatTokens(pagination.Range(v.Page, v.TotalPages), v.Page))
}

// formatTokens joins tokens with spaces and brackets the current page.
func formatTokens(tokens []pagination.Token, current int) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		if !t.Ellipsis && t.Page == current {
			parts[i] = "[" + t.String() + "]"
			continue
		}
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
