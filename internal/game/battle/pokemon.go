package battle

import (
	"github.com/google/uuid"

	"github.com/mwald/pokebattle/internal/game/pokedex"
)

// Ability and held-item identifiers the engine itself consults. Move and
// ability effect packages define their own on top of these.
const (
	AbilityQuickDraw     = "quick-draw"
	AbilityStall         = "stall"
	AbilityMyceliumMight = "mycelium-might"
	AbilityDrizzle       = "drizzle"
	AbilityDrought       = "drought"
	AbilitySandStream    = "sand-stream"
	AbilitySnowWarning   = "snow-warning"
	AbilityElectricSurge = "electric-surge"
	AbilityGrassySurge   = "grassy-surge"
	AbilityMistySurge    = "misty-surge"
	AbilityPsychicSurge  = "psychic-surge"

	ItemQuickClaw   = "quick-claw"
	ItemChoiceScarf = "choice-scarf"
	ItemLeftovers   = "leftovers"

	ItemMegaStone  = "mega-stone"
	ItemMegaStoneX = "mega-stone-x"
	ItemMegaStoneY = "mega-stone-y"

	// SpeciesMegaException mega evolves from its signature move alone,
	// without holding a stone.
	SpeciesMegaException = "rayquaza"
)

// Status is a creature's non-volatile status condition.
type Status int

const (
	StatusNone Status = iota
	StatusBurn
	StatusPoison
	StatusParalysis
	StatusSleep
	StatusFreeze
)

// Stats is a creature's computed stat block.
type Stats struct {
	Attack    int
	Defense   int
	SpAttack  int
	SpDefense int
	Speed     int
}

// MegaForm is the ability/type payload applied on mega evolution.
type MegaForm struct {
	Ability string
	Types   []pokedex.Type
}

// Pokemon is one roster member. The engine owns sequencing; the methods here
// implement the creature capabilities it calls (speed queries, send-out and
// removal hooks, the per-turn residual hook).
type Pokemon struct {
	ID      uuid.UUID
	Name    string
	Species string
	Level   int

	MaxHP int
	HP    int
	Stats Stats

	// SpeedStage is the in-battle speed stage, clamped to [-6, 6].
	SpeedStage int
	Status     Status

	Types   []pokedex.Type
	Ability string
	Item    string
	Moves   []Move

	// HasMoved marks that this creature already acted this turn, either by
	// moving or by being sent out mid-turn.
	HasMoved bool

	// MegaEligible is set by team construction when the creature can mega
	// evolve this battle. Setting it without a matching trigger condition
	// (stone or species exception) is a programming error.
	MegaEligible bool
	Mega         *MegaForm
	MegaX        *MegaForm
	MegaY        *MegaForm

	startTypes   []pokedex.Type
	startAbility string
}

// NewPokemon constructs a battle-ready creature at full HP. The given types
// and ability become both the current and the starting values that Remove
// restores on switch-out.
//
// Precondition: level >= 1, maxHP >= 1, at least one type.
func NewPokemon(name, species string, level, maxHP int, stats Stats, types []pokedex.Type, ability, item string, moves []Move) *Pokemon {
	if level < 1 || maxHP < 1 || len(types) == 0 {
		panic("battle: NewPokemon with invalid level, HP, or types")
	}
	return &Pokemon{
		ID:           uuid.New(),
		Name:         name,
		Species:      species,
		Level:        level,
		MaxHP:        maxHP,
		HP:           maxHP,
		Stats:        stats,
		Types:        types,
		Ability:      ability,
		Item:         item,
		Moves:        moves,
		startTypes:   types,
		startAbility: ability,
	}
}

// Fainted reports whether the creature is knocked out.
func (p *Pokemon) Fainted() bool { return p.HP <= 0 }

// RawSpeed returns the unmodified speed stat, used for send-out ordering and
// double-switch ties.
func (p *Pokemon) RawSpeed() int { return p.Stats.Speed }

// EffectiveSpeed returns the in-battle speed after stage multipliers,
// paralysis, and held-item modifiers.
func (p *Pokemon) EffectiveSpeed(b *Battle) int {
	sp := p.Stats.Speed
	if p.SpeedStage >= 0 {
		sp = sp * (2 + p.SpeedStage) / 2
	} else {
		sp = sp * 2 / (2 - p.SpeedStage)
	}
	if p.Status == StatusParalysis {
		sp /= 2
	}
	if p.Item == ItemChoiceScarf {
		sp = sp * 3 / 2
	}
	return sp
}

// ChangeSpeedStage shifts the speed stage by delta, clamped to [-6, 6].
func (p *Pokemon) ChangeSpeedStage(delta int) {
	p.SpeedStage += delta
	if p.SpeedStage > 6 {
		p.SpeedStage = 6
	}
	if p.SpeedStage < -6 {
		p.SpeedStage = -6
	}
}

// ApplyDamage reduces HP by amount, flooring at zero.
//
// Precondition: amount >= 0.
// Postcondition: HP >= 0.
func (p *Pokemon) ApplyDamage(amount int) {
	p.HP -= amount
	if p.HP < 0 {
		p.HP = 0
	}
}

// Heal restores HP by amount, capped at MaxHP.
//
// Precondition: amount >= 0.
func (p *Pokemon) Heal(amount int) {
	p.HP += amount
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
}

// SetAbility overwrites the current and starting abilities. Mega evolution
// sets both because the form is permanent for the rest of the battle and
// switch-out reversion restores the starting value.
func (p *Pokemon) SetAbility(current, starting string) {
	p.Ability = current
	p.startAbility = starting
}

// SetTypes overwrites the current and starting type identifiers.
func (p *Pokemon) SetTypes(current, starting []pokedex.Type) {
	p.Types = current
	p.startTypes = starting
}

// StartingAbility returns the ability restored on switch-out.
func (p *Pokemon) StartingAbility() string { return p.startAbility }

// StartingTypes returns the types restored on switch-out.
func (p *Pokemon) StartingTypes() []pokedex.Type { return p.startTypes }

// SendOut puts the creature on the field against opp (nil when the other
// side has no active creature) and fires entry abilities.
func (p *Pokemon) SendOut(opp *Pokemon, b *Battle) {
	p.HasMoved = false
	b.Narrate("Go! %s!", p.Name)
	p.applyEntryAbility(b)
}

// Remove withdraws the creature: battle-scoped modifications (stat stages,
// ability and type overrides) revert to their starting values.
func (p *Pokemon) Remove(b *Battle) {
	b.Narrate("%s was withdrawn!", p.Name)
	p.SpeedStage = 0
	p.Ability = p.startAbility
	p.Types = p.startTypes
	p.HasMoved = false
}

// EndOfTurn applies residual effects: status damage and held-item healing.
// No-op for a fainted creature.
func (p *Pokemon) EndOfTurn(opp *Pokemon, b *Battle) {
	if p.Fainted() {
		return
	}
	switch p.Status {
	case StatusBurn:
		b.Narrate("%s was hurt by its burn!", p.Name)
		p.ApplyDamage(residual(p.MaxHP, 16))
	case StatusPoison:
		b.Narrate("%s was hurt by poison!", p.Name)
		p.ApplyDamage(residual(p.MaxHP, 8))
	}
	if p.Fainted() {
		return
	}
	if p.Item == ItemLeftovers && p.HP < p.MaxHP {
		b.Narrate("%s restored a little HP using its Leftovers!", p.Name)
		p.Heal(residual(p.MaxHP, 16))
	}
}

// residual returns maxHP/divisor with a minimum of 1.
func residual(maxHP, divisor int) int {
	n := maxHP / divisor
	if n < 1 {
		n = 1
	}
	return n
}

// applyEntryAbility fires weather- and terrain-setting abilities. It runs on
// send-out and again when mega evolution grants a new ability.
func (p *Pokemon) applyEntryAbility(b *Battle) {
	switch p.Ability {
	case AbilityDrizzle:
		if !b.Weather.Is(WeatherRain) {
			b.Weather.Set(WeatherRain, 5)
			b.Narrate("It started to rain!")
		}
	case AbilityDrought:
		if !b.Weather.Is(WeatherHarshSunlight) {
			b.Weather.Set(WeatherHarshSunlight, 5)
			b.Narrate("The sunlight turned harsh!")
		}
	case AbilitySandStream:
		if !b.Weather.Is(WeatherSandstorm) {
			b.Weather.Set(WeatherSandstorm, 5)
			b.Narrate("A sandstorm kicked up!")
		}
	case AbilitySnowWarning:
		if !b.Weather.Is(WeatherHail) {
			b.Weather.Set(WeatherHail, 5)
			b.Narrate("It started to hail!")
		}
	case AbilityElectricSurge:
		if !b.Terrain.Is(TerrainElectric) {
			b.Terrain.Set(TerrainElectric, 5)
			b.Narrate("An electric current ran across the battlefield!")
		}
	case AbilityGrassySurge:
		if !b.Terrain.Is(TerrainGrassy) {
			b.Terrain.Set(TerrainGrassy, 5)
			b.Narrate("Grass grew to cover the battlefield!")
		}
	case AbilityMistySurge:
		if !b.Terrain.Is(TerrainMisty) {
			b.Terrain.Set(TerrainMisty, 5)
			b.Narrate("Mist swirled around the battlefield!")
		}
	case AbilityPsychicSurge:
		if !b.Terrain.Is(TerrainPsychic) {
			b.Terrain.Set(TerrainPsychic, 5)
			b.Narrate("The battlefield got weird!")
		}
	}
}
