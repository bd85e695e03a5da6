// Package hydrate implements a paged collection view with lazy detail
// hydration and client-side search.
//
// A Browser holds an immutable index, a search term and a page number. Load
// filters the index, slices the current page and resolves every entry of the
// slice to its detail record through an injected DetailFunc. Details are
// memoized in a Cache owned by the Browser; concurrent requests for the same
// name share one upstream call.
//
// Every state change advances the Browser's generation. A Load captures the
// generation at issue time and only applies its result if nothing changed in
// the meantime, so a slow batch for an old page or search term never replaces
// the view of a newer one:
//
//	b := hydrate.NewBrowser(pokedex.PokemonDetails(api), hydrate.Config{PageSize: 20})
//	b.SetIndex(entries)
//	b.SetSearch("char") // page resets to 1
//	view, err := b.Load(ctx)
//	if errors.Is(err, hydrate.ErrStale) {
//		// superseded by a newer request; ignore
//	}
//
// Individual detail failures never fail a page: the entry is dropped from
// View.Items and listed in View.Missing.
package hydrate
