package pokedex

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrMalformed is returned when a detail document lacks required fields.
var ErrMalformed = errors.New("malformed detail response")

const englishShortEffect = `effect_entries.#(language.name=="en").short_effect`

// document validates body and returns its root with id and name present.
func document(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(body)
	if !root.Get("id").Exists() || root.Get("name").String() == "" {
		return gjson.Result{}, fmt.Errorf("%w: missing id or name", ErrMalformed)
	}
	return root, nil
}

// ParsePokemon projects a pokemon document.
func ParsePokemon(body []byte) (Pokemon, error) {
	root, err := document(body)
	if err != nil {
		return Pokemon{}, err
	}

	p := Pokemon{
		ID:             int(root.Get("id").Int()),
		Name:           root.Get("name").String(),
		Height:         int(root.Get("height").Int()),
		Weight:         int(root.Get("weight").Int()),
		BaseExperience: int(root.Get("base_experience").Int()),
		ImageURL: firstString(root,
			"sprites.other.official-artwork.front_default",
			"sprites.front_default"),
		ShinyImageURL: firstString(root,
			"sprites.other.official-artwork.front_shiny",
			"sprites.front_shiny"),
		Types: stringList(root.Get("types.#.type.name")),
	}

	root.Get("abilities").ForEach(func(_, a gjson.Result) bool {
		p.Abilities = append(p.Abilities, PokemonAbility{
			Name:   a.Get("ability.name").String(),
			Hidden: a.Get("is_hidden").Bool(),
		})
		return true
	})

	root.Get("stats").ForEach(func(_, s gjson.Result) bool {
		p.Stats = append(p.Stats, Stat{
			Name:     s.Get("stat.name").String(),
			BaseStat: int(s.Get("base_stat").Int()),
		})
		return true
	})

	moves := stringList(root.Get("moves.#.move.name"))
	if len(moves) > MaxMoves {
		moves = moves[:MaxMoves]
	}
	p.Moves = moves

	return p, nil
}

// ParseAbility projects an ability document.
func ParseAbility(body []byte) (Ability, error) {
	root, err := document(body)
	if err != nil {
		return Ability{}, err
	}
	return Ability{
		ID:           int(root.Get("id").Int()),
		Name:         root.Get("name").String(),
		ShortEffect:  root.Get(englishShortEffect).String(),
		PokemonCount: int(root.Get("pokemon.#").Int()),
	}, nil
}

// ParseItem projects an item document.
func ParseItem(body []byte) (Item, error) {
	root, err := document(body)
	if err != nil {
		return Item{}, err
	}
	return Item{
		ID:          int(root.Get("id").Int()),
		Name:        root.Get("name").String(),
		SpriteURL:   root.Get("sprites.default").String(),
		Category:    root.Get("category.name").String(),
		Cost:        int(root.Get("cost").Int()),
		ShortEffect: root.Get(englishShortEffect).String(),
	}, nil
}

// ParseMove projects a move document.
func ParseMove(body []byte) (Move, error) {
	root, err := document(body)
	if err != nil {
		return Move{}, err
	}
	return Move{
		ID:          int(root.Get("id").Int()),
		Name:        root.Get("name").String(),
		Power:       nullableInt(root.Get("power")),
		Accuracy:    nullableInt(root.Get("accuracy")),
		PP:          nullableInt(root.Get("pp")),
		DamageClass: root.Get("damage_class.name").String(),
		Type:        root.Get("type.name").String(),
	}, nil
}

// ParseType projects a type document.
func ParseType(body []byte) (Type, error) {
	root, err := document(body)
	if err != nil {
		return Type{}, err
	}
	return Type{
		ID:           int(root.Get("id").Int()),
		Name:         root.Get("name").String(),
		PokemonCount: int(root.Get("pokemon.#").Int()),
		MoveCount:    int(root.Get("moves.#").Int()),
	}, nil
}

// firstString returns the first non-empty string found at paths.
func firstString(root gjson.Result, paths ...string) string {
	for _, p := range paths {
		if s := root.Get(p).String(); s != "" {
			return s
		}
	}
	return ""
}

func stringList(r gjson.Result) []string {
	arr := r.Array()
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		out = append(out, v.String())
	}
	return out
}

func nullableInt(r gjson.Result) *int {
	if r.Type != gjson.Number {
		return nil
	}
	v := int(r.Int())
	return &v
}
