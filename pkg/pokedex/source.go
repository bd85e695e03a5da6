package pokedex

import (
	"context"
	"fmt"

	"github.com/Sternrassler/pokeapi-client/pkg/index"
)

// Source selects the index a browser pages over: a whole collection, or a
// subset derived from a type, an ability or item categories.
type Source struct {
	Collection index.Collection
	Type       string
	Ability    string
	Categories []string
}

// Validate rejects filters the collection does not support.
func (s Source) Validate() error {
	switch {
	case len(s.Categories) > 0 && s.Collection != index.Item:
		return fmt.Errorf("categories only apply to %s", index.Item)
	case s.Type != "" && s.Collection != index.Pokemon && s.Collection != index.Move:
		return fmt.Errorf("type filter only applies to %s and %s", index.Pokemon, index.Move)
	case s.Ability != "" && s.Collection != index.Pokemon:
		return fmt.Errorf("ability filter only applies to %s", index.Pokemon)
	case s.Type != "" && s.Ability != "":
		return fmt.Errorf("type and ability filters are exclusive")
	}
	return nil
}

// Load fetches the selected index.
func (s Source) Load(ctx context.Context, l *index.Loader) ([]index.Entry, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch {
	case len(s.Categories) > 0:
		return l.LoadItemCategories(ctx, s.Categories...)
	case s.Type != "" && s.Collection == index.Move:
		return l.LoadTypeMoves(ctx, s.Type)
	case s.Type != "":
		return l.LoadTypePokemon(ctx, s.Type)
	case s.Ability != "":
		return l.LoadAbilityPokemon(ctx, s.Ability)
	default:
		return l.Load(ctx, s.Collection)
	}
}
