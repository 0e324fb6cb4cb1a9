// Package agent provides ready-made battle.Agent implementations: a greedy
// scripted agent for simulations and a channel-backed agent that bridges an
// external input source (a CLI reader, a network session) into the engine's
// blocking choice calls.
package agent

import (
	"context"

	"github.com/mwald/pokebattle/internal/game/battle"
	"github.com/mwald/pokebattle/internal/game/pokedex"
)

// powerMove is the optional capability a move exposes so the greedy agent
// can score it without knowing the concrete move type.
type powerMove interface {
	Power() int
}

type typedMove interface {
	Type() pokedex.Type
}

// Greedy picks the usable move with the highest power-times-effectiveness
// score against the opposing creature. It never blocks and never forfeits
// while a move is available.
type Greedy struct{}

// ChooseAction selects the best-scoring damaging move, falling back to the
// first move when nothing scores. With no moves at all it switches to the
// next conscious roster member, and forfeits only when neither exists.
func (Greedy) ChooseAction(_ context.Context, self *battle.Trainer, opp *battle.Pokemon, b *battle.Battle) battle.Action {
	active, ok := self.Active()
	if !ok {
		return nil
	}
	if len(active.Moves) == 0 {
		if idx := nextConscious(self); idx >= 0 {
			return battle.SwitchAction{Index: idx}
		}
		return nil
	}

	best := active.Moves[0]
	bestScore := -1.0
	for _, m := range active.Moves {
		s := score(m, opp, b)
		if s > bestScore {
			best, bestScore = m, s
		}
	}
	return battle.MoveAction{Move: best}
}

// ChooseSwitch selects the first conscious roster member that is not already
// on the field.
func (Greedy) ChooseSwitch(_ context.Context, self *battle.Trainer, _ *battle.Battle) int {
	return nextConscious(self)
}

// score rates a move against opp. Status moves and unknown-power moves rate
// a small positive constant so they still beat an immune attack.
func score(m battle.Move, opp *battle.Pokemon, b *battle.Battle) float64 {
	pm, hasPower := m.(powerMove)
	tm, hasType := m.(typedMove)
	if !hasPower || !hasType || !m.Class().Damaging() {
		return 1
	}
	mult := 1.0
	if opp != nil {
		mult = b.Chart.Multiplier(tm.Type(), opp.Types, b.Inverse)
	}
	return float64(pm.Power()) * mult
}

func nextConscious(t *battle.Trainer) int {
	active, _ := t.Active()
	for i, p := range t.Team() {
		if !p.Fainted() && p != active {
			return i
		}
	}
	return -1
}

// Channel adapts an external choice source to the Agent interface. The
// owning layer sends one value per engine request; the engine's context
// bounds every receive, so an unresponsive source forfeits rather than
// wedging the battle.
type Channel struct {
	Actions  <-chan battle.Action
	Switches <-chan int
}

// ChooseAction receives the next submitted action, or forfeits when ctx
// expires first.
func (c Channel) ChooseAction(ctx context.Context, _ *battle.Trainer, _ *battle.Pokemon, _ *battle.Battle) battle.Action {
	select {
	case a := <-c.Actions:
		return a
	case <-ctx.Done():
		return nil
	}
}

// ChooseSwitch receives the next submitted roster index, or reports no
// selection when ctx expires first.
func (c Channel) ChooseSwitch(ctx context.Context, _ *battle.Trainer, _ *battle.Battle) int {
	select {
	case idx := <-c.Switches:
		return idx
	case <-ctx.Done():
		return -1
	}
}
