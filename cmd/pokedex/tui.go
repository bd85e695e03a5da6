package main

import (
	"context"

	"github.com/Sternrassler/pokeapi-client/internal/tui"
	"github.com/Sternrassler/pokeapi-client/pkg/hydrate"
	"github.com/Sternrassler/pokeapi-client/pkg/index"
	"github.com/Sternrassler/pokeapi-client/pkg/logging"
	"github.com/Sternrassler/pokeapi-client/pkg/pokedex"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTUICmd(o *options) *cobra.Command {
	var src pokedex.Source

	cmd := &cobra.Command{
		Use:   "tui <collection>",
		Short: "Browse a collection interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src.Collection = index.Collection(args[0])
			if err := src.Validate(); err != nil {
				return err
			}

			// The terminal belongs to the UI.
			logging.Setup(logging.Config{Level: logging.LevelOff})

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
			loadIndex := func(ctx context.Context) ([]index.Entry, error) {
				return src.Load(ctx, a.loader)
			}

			model := tui.New(ctx, src.Collection, loadIndex, details, hydrate.Config{
				PageSize:       o.cfg.PageSize,
				MaxConcurrency: o.cfg.MaxConcurrency,
			})
			_, err = tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&src.Type, "type", "", "only pokemon or moves of this type")
	cmd.Flags().StringVar(&src.Ability, "ability", "", "only pokemon with this ability")
	cmd.Flags().StringSliceVar(&src.Categories, "category", nil, "only items of these categories")
	return cmd
}
