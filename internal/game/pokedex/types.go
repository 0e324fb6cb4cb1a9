// Package pokedex holds the immutable battle data loaded once per battle:
// the move catalogue and the type-effectiveness chart.
package pokedex

import "fmt"

// Type is one of the eighteen elemental types.
type Type int

const (
	Normal Type = iota
	Fighting
	Flying
	Poison
	Ground
	Rock
	Bug
	Ghost
	Steel
	Fire
	Water
	Grass
	Electric
	Psychic
	Ice
	Dragon
	Dark
	Fairy
	// NumTypes is the number of valid Type values; it sizes the chart.
	NumTypes
)

var typeNames = [NumTypes]string{
	"normal", "fighting", "flying", "poison", "ground", "rock", "bug",
	"ghost", "steel", "fire", "water", "grass", "electric", "psychic",
	"ice", "dragon", "dark", "fairy",
}

// String returns the lowercase type name, or "unknown" for invalid values.
func (t Type) String() string {
	if t < 0 || t >= NumTypes {
		return "unknown"
	}
	return typeNames[t]
}

// TypeFromName resolves a lowercase type name to its Type.
//
// Postcondition: returns an error iff name is not one of the eighteen types.
func TypeFromName(name string) (Type, error) {
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("pokedex: unknown type %q", name)
}

// Effectiveness is the single-matchup multiplier category, expressed in
// halves: 0 = immune, 1 = ×0.5, 2 = ×1, 4 = ×2.
type Effectiveness int

const (
	NoEffect         Effectiveness = 0
	NotVeryEffective Effectiveness = 1
	NeutralEffective Effectiveness = 2
	SuperEffective   Effectiveness = 4
)

// Chart is the full attacking-type × defending-type matchup table.
// It is sized at compile time by NumTypes and never mutated after
// construction.
type Chart [NumTypes][NumTypes]Effectiveness

// DefaultChart returns the standard matchup chart.
func DefaultChart() *Chart {
	var c Chart
	for a := Type(0); a < NumTypes; a++ {
		for d := Type(0); d < NumTypes; d++ {
			c[a][d] = NeutralEffective
		}
	}
	set := func(att Type, eff Effectiveness, defs ...Type) {
		for _, d := range defs {
			c[att][d] = eff
		}
	}

	set(Normal, NotVeryEffective, Rock, Steel)
	set(Normal, NoEffect, Ghost)

	set(Fighting, SuperEffective, Normal, Rock, Steel, Ice, Dark)
	set(Fighting, NotVeryEffective, Flying, Poison, Bug, Psychic, Fairy)
	set(Fighting, NoEffect, Ghost)

	set(Flying, SuperEffective, Fighting, Bug, Grass)
	set(Flying, NotVeryEffective, Rock, Steel, Electric)

	set(Poison, SuperEffective, Grass, Fairy)
	set(Poison, NotVeryEffective, Poison, Ground, Rock, Ghost)
	set(Poison, NoEffect, Steel)

	set(Ground, SuperEffective, Poison, Rock, Steel, Fire, Electric)
	set(Ground, NotVeryEffective, Bug, Grass)
	set(Ground, NoEffect, Flying)

	set(Rock, SuperEffective, Flying, Bug, Fire, Ice)
	set(Rock, NotVeryEffective, Fighting, Ground, Steel)

	set(Bug, SuperEffective, Grass, Psychic, Dark)
	set(Bug, NotVeryEffective, Fighting, Flying, Poison, Ghost, Steel, Fire, Fairy)

	set(Ghost, SuperEffective, Ghost, Psychic)
	set(Ghost, NotVeryEffective, Dark)
	set(Ghost, NoEffect, Normal)

	set(Steel, SuperEffective, Rock, Ice, Fairy)
	set(Steel, NotVeryEffective, Steel, Fire, Water, Electric)

	set(Fire, SuperEffective, Bug, Steel, Grass, Ice)
	set(Fire, NotVeryEffective, Rock, Fire, Water, Dragon)

	set(Water, SuperEffective, Ground, Rock, Fire)
	set(Water, NotVeryEffective, Water, Grass, Dragon)

	set(Grass, SuperEffective, Ground, Rock, Water)
	set(Grass, NotVeryEffective, Flying, Poison, Bug, Steel, Fire, Grass, Dragon)

	set(Electric, SuperEffective, Flying, Water)
	set(Electric, NotVeryEffective, Grass, Electric, Dragon)
	set(Electric, NoEffect, Ground)

	set(Psychic, SuperEffective, Fighting, Poison)
	set(Psychic, NotVeryEffective, Steel, Psychic)
	set(Psychic, NoEffect, Dark)

	set(Ice, SuperEffective, Flying, Ground, Grass, Dragon)
	set(Ice, NotVeryEffective, Steel, Fire, Water, Ice)

	set(Dragon, SuperEffective, Dragon)
	set(Dragon, NotVeryEffective, Steel)
	set(Dragon, NoEffect, Fairy)

	set(Dark, SuperEffective, Ghost, Psychic)
	set(Dark, NotVeryEffective, Fighting, Dark, Fairy)

	set(Fairy, SuperEffective, Fighting, Dragon, Dark)
	set(Fairy, NotVeryEffective, Poison, Steel, Fire)

	return &c
}

// Lookup returns the matchup category for one attacking type against one
// defending type, applying the inverse-battle interpretation when inverse
// is set: immunities and resistances become super effective, and super
// effective becomes not very effective.
//
// Precondition: att and def must be valid Type values.
func (c *Chart) Lookup(att, def Type, inverse bool) Effectiveness {
	if att < 0 || att >= NumTypes || def < 0 || def >= NumTypes {
		panic(fmt.Sprintf("pokedex: Lookup with invalid types %d vs %d", att, def))
	}
	eff := c[att][def]
	if !inverse {
		return eff
	}
	switch eff {
	case NoEffect, NotVeryEffective:
		return SuperEffective
	case SuperEffective:
		return NotVeryEffective
	default:
		return eff
	}
}

// Multiplier combines the matchup categories for an attacking type against
// each of the defender's types into a single damage multiplier.
//
// Postcondition: returns one of 0, 0.25, 0.5, 1, 2, 4.
func (c *Chart) Multiplier(att Type, defs []Type, inverse bool) float64 {
	mult := 1.0
	for _, d := range defs {
		mult *= float64(c.Lookup(att, d, inverse)) / 2
	}
	return mult
}
