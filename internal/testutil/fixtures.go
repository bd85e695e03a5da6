package testutil

import (
	"fmt"
	"strings"
)

// PokemonJSON returns a minimal but realistic pokemon detail document.
func PokemonJSON(id int, name string, types ...string) string {
	typeSlots := make([]string, len(types))
	for i, t := range types {
		typeSlots[i] = fmt.Sprintf(`{"slot":%d,"type":{"name":%q,"url":"https://pokeapi.co/api/v2/type/%s/"}}`, i+1, t, t)
	}
	return fmt.Sprintf(`{
  "id": %[1]d,
  "name": %[2]q,
  "height": 7,
  "weight": 69,
  "base_experience": 64,
  "sprites": {
    "front_default": "https://img.example/pokemon/%[1]d.png",
    "front_shiny": "https://img.example/pokemon/shiny/%[1]d.png",
    "other": {
      "official-artwork": {
        "front_default": "https://img.example/artwork/%[1]d.png",
        "front_shiny": null
      }
    }
  },
  "types": [%[3]s],
  "abilities": [
    {"ability": {"name": "overgrow", "url": "https://pokeapi.co/api/v2/ability/65/"}, "is_hidden": false, "slot": 1},
    {"ability": {"name": "chlorophyll", "url": "https://pokeapi.co/api/v2/ability/34/"}, "is_hidden": true, "slot": 3}
  ],
  "stats": [
    {"base_stat": 45, "effort": 0, "stat": {"name": "hp"}},
    {"base_stat": 49, "effort": 0, "stat": {"name": "attack"}}
  ],
  "moves": [
    {"move": {"name": "razor-wind"}},
    {"move": {"name": "swords-dance"}}
  ]
}`, id, name, strings.Join(typeSlots, ","))
}

// AbilityJSON returns an ability detail document.
func AbilityJSON(id int, name, shortEffect string, holders ...string) string {
	pokemon := make([]string, len(holders))
	for i, h := range holders {
		pokemon[i] = fmt.Sprintf(`{"is_hidden":false,"slot":1,"pokemon":{"name":%q,"url":"p/%d"}}`, h, i+1)
	}
	return fmt.Sprintf(`{
  "id": %d,
  "name": %q,
  "effect_entries": [
    {"effect": "Langer Effekt.", "short_effect": "Kurz.", "language": {"name": "de"}},
    {"effect": "Long effect.", "short_effect": %q, "language": {"name": "en"}}
  ],
  "pokemon": [%s]
}`, id, name, shortEffect, strings.Join(pokemon, ","))
}

// ItemJSON returns an item detail document.
func ItemJSON(id int, name, category string, cost int) string {
	return fmt.Sprintf(`{
  "id": %d,
  "name": %q,
  "cost": %d,
  "category": {"name": %q, "url": "https://pokeapi.co/api/v2/item-category/27/"},
  "sprites": {"default": "https://img.example/items/%s.png"},
  "effect_entries": [
    {"effect": "Restores 20 HP.", "short_effect": "Restores 20 HP.", "language": {"name": "en"}}
  ]
}`, id, name, cost, category, name)
}

// MoveJSON returns a move detail document. A negative power is encoded as null.
func MoveJSON(id int, name string, power int, damageClass, typeName string) string {
	powerJSON := "null"
	if power >= 0 {
		powerJSON = fmt.Sprint(power)
	}
	return fmt.Sprintf(`{
  "id": %d,
  "name": %q,
  "power": %s,
  "accuracy": 100,
  "pp": 35,
  "damage_class": {"name": %q},
  "type": {"name": %q}
}`, id, name, powerJSON, damageClass, typeName)
}

// TypeJSON returns a type detail document with the given counts.
func TypeJSON(id int, name string, pokemon, moves int) string {
	var ps, ms []string
	for i := 0; i < pokemon; i++ {
		ps = append(ps, fmt.Sprintf(`{"slot":1,"pokemon":{"name":"p%d","url":"p/%d"}}`, i, i))
	}
	for i := 0; i < moves; i++ {
		ms = append(ms, fmt.Sprintf(`{"name":"m%d","url":"m/%d"}`, i, i))
	}
	return fmt.Sprintf(`{"id": %d, "name": %q, "pokemon": [%s], "moves": [%s]}`,
		id, name, strings.Join(ps, ","), strings.Join(ms, ","))
}
