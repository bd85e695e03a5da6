package pokedex

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Sternrassler/pokeapi-client/pkg/hydrate"
	"github.com/Sternrassler/pokeapi-client/pkg/index"
)

// DetailEndpoint returns the detail endpoint of name in c.
func DetailEndpoint(c index.Collection, name string) string {
	return "/" + string(c) + "/" + url.PathEscape(strings.ToLower(strings.TrimSpace(name)))
}

// detailFunc builds a DetailFunc that fetches the entry's detail endpoint and
// projects it with parse.
func detailFunc[T any](f index.Fetcher, c index.Collection, parse func([]byte) (T, error)) hydrate.DetailFunc[T] {
	return func(ctx context.Context, e index.Entry) (T, error) {
		var zero T
		body, err := f.Fetch(ctx, DetailEndpoint(c, e.Name))
		if err != nil {
			return zero, err
		}
		rec, err := parse(body)
		if err != nil {
			return zero, fmt.Errorf("%s %s: %w", c, e.Name, err)
		}
		return rec, nil
	}
}

// PokemonDetails fetches pokemon records.
func PokemonDetails(f index.Fetcher) hydrate.DetailFunc[Pokemon] {
	return detailFunc(f, index.Pokemon, ParsePokemon)
}

// AbilityDetails fetches ability records.
func AbilityDetails(f index.Fetcher) hydrate.DetailFunc[Ability] {
	return detailFunc(f, index.Ability, ParseAbility)
}

// ItemDetails fetches item records.
func ItemDetails(f index.Fetcher) hydrate.DetailFunc[Item] {
	return detailFunc(f, index.Item, ParseItem)
}

// MoveDetails fetches move records.
func MoveDetails(f index.Fetcher) hydrate.DetailFunc[Move] {
	return detailFunc(f, index.Move, ParseMove)
}

// TypeDetails fetches type records.
func TypeDetails(f index.Fetcher) hydrate.DetailFunc[Type] {
	return detailFunc(f, index.Type, ParseType)
}
