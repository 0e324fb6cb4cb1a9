package battle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mwald/pokebattle/internal/game/pokedex"
)

// seqSource replays a fixed slice of draws, then zeroes.
type seqSource struct {
	vals []int
	i    int
}

func (s *seqSource) Intn(n int) int {
	if s.i >= len(s.vals) {
		return 0
	}
	v := s.vals[s.i] % n
	s.i++
	return v
}

// stubMove is a configurable Move for engine tests.
type stubMove struct {
	name     string
	class    MoveClass
	priority int
	targets  bool
	onUse    func(user, target *Pokemon, b *Battle)
	onSetup  func(user, target *Pokemon, b *Battle)
}

func (m *stubMove) Name() string                          { return m.name }
func (m *stubMove) Class() MoveClass                      { return m.class }
func (m *stubMove) TargetsOpponent() bool                 { return m.targets }
func (m *stubMove) Priority(_, _ *Pokemon, _ *Battle) int { return m.priority }
func (m *stubMove) Setup(user, target *Pokemon, b *Battle) {
	if m.onSetup != nil {
		m.onSetup(user, target, b)
	}
}
func (m *stubMove) Use(user, target *Pokemon, b *Battle) {
	if m.onUse != nil {
		m.onUse(user, target, b)
	}
}

// hitFor returns a damaging stub move applying flat damage.
func hitFor(name string, damage int) *stubMove {
	return &stubMove{
		name:    name,
		class:   ClassPhysical,
		targets: true,
		onUse: func(_, target *Pokemon, b *Battle) {
			target.ApplyDamage(damage)
		},
	}
}

// queueAgent replays scripted choices: actions for ChooseAction, switches for
// ChooseSwitch. An exhausted queue forfeits, matching the nil/negative
// conventions of the Agent contract.
type queueAgent struct {
	actions  []Action
	switches []int
}

func (a *queueAgent) ChooseAction(_ context.Context, _ *Trainer, _ *Pokemon, _ *Battle) Action {
	if len(a.actions) == 0 {
		return nil
	}
	next := a.actions[0]
	a.actions = a.actions[1:]
	return next
}

func (a *queueAgent) ChooseSwitch(_ context.Context, _ *Trainer, _ *Battle) int {
	if len(a.switches) == 0 {
		return -1
	}
	next := a.switches[0]
	a.switches = a.switches[1:]
	return next
}

// repeat returns n copies of action a.
func repeat(a Action, n int) []Action {
	out := make([]Action, n)
	for i := range out {
		out[i] = a
	}
	return out
}

func testPokemon(t *testing.T, name string, speed int) *Pokemon {
	t.Helper()
	stats := Stats{Attack: 100, Defense: 100, SpAttack: 100, SpDefense: 100, Speed: speed}
	return NewPokemon(name, name, 50, 100, stats, []pokedex.Type{pokedex.Normal}, "", "", nil)
}

// testBattle builds a ready battle: one creature per side, both already on
// the field, with a replayable random source.
func testBattle(t *testing.T, p1, p2 *Pokemon, src *seqSource, a1, a2 Agent) *Battle {
	t.Helper()
	if a1 == nil {
		a1 = &queueAgent{}
	}
	if a2 == nil {
		a2 = &queueAgent{}
	}
	t1, err := NewTrainer("Red", a1, []*Pokemon{p1})
	require.NoError(t, err)
	t2, err := NewTrainer("Blue", a2, []*Pokemon{p2})
	require.NoError(t, err)
	b, err := New(t1, t2, Options{Source: src})
	require.NoError(t, err)
	require.NoError(t, t1.SwitchTo(0, false))
	require.NoError(t, t2.SwitchTo(0, false))
	return b
}
