package moves

import (
	"fmt"

	"github.com/mwald/pokebattle/internal/game/battle"
	"github.com/mwald/pokebattle/internal/game/pokedex"
)

// Metronome selects a random move from the battle's metronome-eligible pool
// and executes it in place.
type Metronome struct {
	data pokedex.MoveData
}

// NewMetronome builds the metronome wrapper from its catalogue entry.
func NewMetronome(data pokedex.MoveData) *Metronome {
	return &Metronome{data: data}
}

// Name returns the display name.
func (m *Metronome) Name() string { return m.data.Name }

// Class is status: the wrapper itself deals no damage.
func (m *Metronome) Class() battle.MoveClass { return battle.ClassStatus }

// TargetsOpponent is true: the delegated move resolves against the opponent.
func (m *Metronome) TargetsOpponent() bool { return true }

// Priority returns the wrapper's static bracket; the delegated move's own
// priority does not apply, the selection happens at execution time.
func (m *Metronome) Priority(_, _ *battle.Pokemon, _ *battle.Battle) int {
	return m.data.Priority
}

// Setup is a no-op.
func (m *Metronome) Setup(_, _ *battle.Pokemon, _ *battle.Battle) {}

// Use picks a random eligible move from the battle catalogue and runs it.
func (m *Metronome) Use(user, target *battle.Pokemon, b *battle.Battle) {
	b.Narrate("%s used %s!", user.Name, m.data.Name)

	picked, ok := b.Catalogue.RandomMetronome(b.RNG())
	if !ok {
		b.Narrate("But it failed!")
		return
	}
	inner, err := NewBasic(picked)
	if err != nil {
		// Catalogue data is validated at load; a bad entry here means the
		// catalogue was corrupted after construction.
		panic(fmt.Sprintf("moves: metronome selected unusable move %q: %v", picked.Name, err))
	}
	b.Narrate("Waggling a finger let it use %s!", picked.Name)
	inner.Use(user, target, b)
}
