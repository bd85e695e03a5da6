// Package index loads the full (name, reference) list of an upstream
// collection in a single request, bypassing upstream pagination.
package index

import "strings"

// Collection identifies an upstream list endpoint (e.g. "pokemon", "ability").
type Collection string

// Known collections.
const (
	Pokemon  Collection = "pokemon"
	Ability  Collection = "ability"
	Item     Collection = "item"
	Move     Collection = "move"
	Type     Collection = "type"
	Species  Collection = "pokemon-species"
	Location Collection = "location"
)

// DefaultLimit is large enough to return any collection in one call.
const DefaultLimit = 100000

// limits overrides DefaultLimit for small collections.
var limits = map[Collection]int{
	Type: 100,
}

// Limit returns the list limit requested for c.
func (c Collection) Limit() int {
	if l, ok := limits[c]; ok {
		return l
	}
	return DefaultLimit
}

// Entry is one (name, reference) pair of a collection. Names are unique within
// a collection, lowercase and hyphen-delimited; Reference is an opaque locator
// (the upstream URL).
type Entry struct {
	Name      string `json:"name"`
	Reference string `json:"url"`
}

// Names returns the entry names in order.
func Names(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Filter returns the entries whose lowercased name contains the lowercased,
// trimmed term, preserving index order. An empty term matches everything.
func Filter(entries []Entry, term string) []Entry {
	needle := NormalizeTerm(term)
	if needle == "" {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			out = append(out, e)
		}
	}
	return out
}

// NormalizeTerm lowercases and trims a search term.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
