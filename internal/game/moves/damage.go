package moves

import (
	"github.com/mwald/pokebattle/internal/game/battle"
	"github.com/mwald/pokebattle/internal/game/pokedex"
)

// dealDamage applies the standard damage formula: level scaling, the
// attacking/defending stat pair for the class, same-type attack bonus,
// weather modifiers, type effectiveness, and an 85-100% spread roll. Status
// moves and zero-power moves deal nothing.
func dealDamage(b *battle.Battle, user, target *battle.Pokemon, typ pokedex.Type, class battle.MoveClass, power int) {
	if target == nil {
		return
	}
	if class == battle.ClassStatus || power <= 0 {
		b.Narrate("But nothing happened!")
		return
	}

	mult := b.Chart.Multiplier(typ, target.Types, b.Inverse)
	if mult == 0 {
		b.Narrate("It doesn't affect %s...", target.Name)
		return
	}

	atk := user.Stats.Attack
	def := target.Stats.Defense
	if class == battle.ClassSpecial {
		atk = user.Stats.SpAttack
		def = target.Stats.SpDefense
	}
	// Wonder room swaps the defending side's defensive stats.
	if b.WonderRoom.Active() {
		if class == battle.ClassSpecial {
			def = target.Stats.Defense
		} else {
			def = target.Stats.SpDefense
		}
	}
	if def < 1 {
		def = 1
	}

	dmg := float64((2*user.Level/5+2)*power*atk/def)/50 + 2

	if hasType(user, typ) {
		dmg *= 1.5
	}
	dmg *= weatherModifier(b, typ)
	dmg *= mult
	dmg *= float64(85+b.RNG().Intn(16)) / 100

	final := int(dmg)
	if final < 1 {
		final = 1
	}
	target.ApplyDamage(final)

	switch {
	case mult > 1:
		b.Narrate("It's super effective!")
	case mult < 1:
		b.Narrate("It's not very effective...")
	}
}

func hasType(p *battle.Pokemon, typ pokedex.Type) bool {
	for _, t := range p.Types {
		if t == typ {
			return true
		}
	}
	return false
}

// weatherModifier boosts or dampens fire and water damage under active
// weather.
func weatherModifier(b *battle.Battle, typ pokedex.Type) float64 {
	switch {
	case b.Weather.Is(battle.WeatherRain) && typ == pokedex.Water:
		return 1.5
	case b.Weather.Is(battle.WeatherRain) && typ == pokedex.Fire:
		return 0.5
	case b.Weather.Is(battle.WeatherHarshSunlight) && typ == pokedex.Fire:
		return 1.5
	case b.Weather.Is(battle.WeatherHarshSunlight) && typ == pokedex.Water:
		return 0.5
	default:
		return 1
	}
}
