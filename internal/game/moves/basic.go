// Package moves provides the stock Move implementations: data-driven basic
// moves, Lua-scripted moves, and the random-effect metronome wrapper.
package moves

import (
	"fmt"

	"github.com/mwald/pokebattle/internal/game/battle"
	"github.com/mwald/pokebattle/internal/game/pokedex"
	"github.com/mwald/pokebattle/internal/game/rng"
)

// Basic is a catalogue-data-driven move with a static priority bracket and
// the standard damage formula.
type Basic struct {
	data  pokedex.MoveData
	typ   pokedex.Type
	class battle.MoveClass
}

// NewBasic builds a Basic move from validated catalogue data.
func NewBasic(data pokedex.MoveData) (*Basic, error) {
	typ, err := pokedex.TypeFromName(data.Type)
	if err != nil {
		return nil, fmt.Errorf("move %q: %w", data.Name, err)
	}
	class, err := classOf(data.Class)
	if err != nil {
		return nil, fmt.Errorf("move %q: %w", data.Name, err)
	}
	return &Basic{data: data, typ: typ, class: class}, nil
}

func classOf(s string) (battle.MoveClass, error) {
	switch s {
	case "physical":
		return battle.ClassPhysical, nil
	case "special":
		return battle.ClassSpecial, nil
	case "status":
		return battle.ClassStatus, nil
	default:
		return 0, fmt.Errorf("unknown damage class %q", s)
	}
}

// Name returns the display name.
func (m *Basic) Name() string { return m.data.Name }

// Class returns the damage class.
func (m *Basic) Class() battle.MoveClass { return m.class }

// Type returns the move's elemental type.
func (m *Basic) Type() pokedex.Type { return m.typ }

// Power returns the static base power.
func (m *Basic) Power() int { return m.data.Power }

// TargetsOpponent reports whether the move needs an opposing creature.
func (m *Basic) TargetsOpponent() bool { return m.data.Targets == "opponent" }

// Priority returns the static priority bracket from the catalogue.
func (m *Basic) Priority(_, _ *battle.Pokemon, _ *battle.Battle) int {
	return m.data.Priority
}

// Setup is a no-op for basic moves.
func (m *Basic) Setup(_, _ *battle.Pokemon, _ *battle.Battle) {}

// Use narrates the attempt, rolls accuracy, and applies damage.
func (m *Basic) Use(user, target *battle.Pokemon, b *battle.Battle) {
	b.Narrate("%s used %s!", user.Name, m.data.Name)
	if missed(m.data.Accuracy, user, b) {
		return
	}
	dealDamage(b, user, target, m.typ, m.class, m.data.Power)
}

// missed rolls the accuracy check. Accuracy 0 never misses.
func missed(accuracy int, user *battle.Pokemon, b *battle.Battle) bool {
	if accuracy <= 0 || rng.Chance(b.RNG(), accuracy) {
		return false
	}
	b.Narrate("%s's attack missed!", user.Name)
	return true
}
