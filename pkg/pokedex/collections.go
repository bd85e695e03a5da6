package pokedex

import (
	"context"
	"fmt"

	"github.com/Sternrassler/pokeapi-client/pkg/hydrate"
	"github.com/Sternrassler/pokeapi-client/pkg/index"
)

// Browsable lists the collections that have a detail record.
var Browsable = []index.Collection{index.Pokemon, index.Ability, index.Item, index.Move, index.Type}

// Details returns an untyped detail fetcher for c, for callers that pick the
// collection at run time. Records implement fmt.Stringer.
func Details(f index.Fetcher, c index.Collection) (hydrate.DetailFunc[fmt.Stringer], error) {
	switch c {
	case index.Pokemon:
		return erase(PokemonDetails(f)), nil
	case index.Ability:
		return erase(AbilityDetails(f)), nil
	case index.Item:
		return erase(ItemDetails(f)), nil
	case index.Move:
		return erase(MoveDetails(f)), nil
	case index.Type:
		return erase(TypeDetails(f)), nil
	default:
		return nil, fmt.Errorf("collection %q has no detail record (want one of %v)", c, Browsable)
	}
}

func erase[T fmt.Stringer](fn hydrate.DetailFunc[T]) hydrate.DetailFunc[fmt.Stringer] {
	return func(ctx context.Context, e index.Entry) (fmt.Stringer, error) {
		rec, err := fn(ctx, e)
		if err != nil {
			return nil, err
		}
		return rec, nil
	}
}
