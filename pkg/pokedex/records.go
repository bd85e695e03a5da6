// Package pokedex defines the detail records shown for each collection, the
// collaborators that fetch them, and a paged passthrough service used by the
// local HTTP surface.
package pokedex

// MaxMoves bounds the moves kept on a Pokemon record.
const MaxMoves = 20

// Pokemon is the detail record of the pokemon collection.
type Pokemon struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	Height         int              `json:"height"`
	Weight         int              `json:"weight"`
	BaseExperience int              `json:"baseExperience"`
	ImageURL       string           `json:"imageUrl"`
	ShinyImageURL  string           `json:"shinyImageUrl"`
	Types          []string         `json:"types"`
	Abilities      []PokemonAbility `json:"abilities"`
	Stats          []Stat           `json:"stats"`
	Moves          []string         `json:"moves"`
}

// PokemonAbility is an ability slot of a Pokemon.
type PokemonAbility struct {
	Name   string `json:"name"`
	Hidden bool   `json:"hidden"`
}

// Stat is a base stat.
type Stat struct {
	Name     string `json:"name"`
	BaseStat int    `json:"baseStat"`
}

// Summary is the list projection of a Pokemon.
type Summary struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	ImageURL string   `json:"imageUrl"`
	Types    []string `json:"types"`
}

// Summary returns the list projection of p.
func (p Pokemon) Summary() Summary {
	return Summary{ID: p.ID, Name: p.Name, ImageURL: p.ImageURL, Types: p.Types}
}

// Ability is the detail record of the ability collection.
type Ability struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	ShortEffect  string `json:"shortEffect"`
	PokemonCount int    `json:"pokemonCount"`
}

// Item is the detail record of the item collection.
type Item struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	SpriteURL   string `json:"spriteUrl"`
	Category    string `json:"category"`
	Cost        int    `json:"cost"`
	ShortEffect string `json:"shortEffect"`
}

// Move is the detail record of the move collection. Power, Accuracy and PP
// are nil for moves where the upstream reports null (e.g. status moves).
type Move struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Power       *int   `json:"power"`
	Accuracy    *int   `json:"accuracy"`
	PP          *int   `json:"pp"`
	DamageClass string `json:"damageClass"`
	Type        string `json:"type"`
}

// Type is the detail record of the type collection.
type Type struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	PokemonCount int    `json:"pokemonCount"`
	MoveCount    int    `json:"moveCount"`
}
