package pokedex

import (
	"fmt"
	"strings"
)

func (p Pokemon) String() string {
	return fmt.Sprintf("#%d %s [%s]", p.ID, p.Name, strings.Join(p.Types, "/"))
}

func (a Ability) String() string {
	return fmt.Sprintf("#%d %s - %s", a.ID, a.Name, a.ShortEffect)
}

func (i Item) String() string {
	return fmt.Sprintf("#%d %s (%s, %d)", i.ID, i.Name, i.Category, i.Cost)
}

func (m Move) String() string {
	return fmt.Sprintf("#%d %s %s/%s power=%s", m.ID, m.Name, m.Type, m.DamageClass, optional(m.Power))
}

func (t Type) String() string {
	return fmt.Sprintf("#%d %s (%d pokemon, %d moves)", t.ID, t.Name, t.PokemonCount, t.MoveCount)
}

func optional(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
