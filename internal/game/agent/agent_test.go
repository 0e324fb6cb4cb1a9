package agent_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mwald/pokebattle/internal/game/agent"
	"github.com/mwald/pokebattle/internal/game/battle"
	"github.com/mwald/pokebattle/internal/game/moves"
	"github.com/mwald/pokebattle/internal/game/pokedex"
)

func mustMove(t *testing.T, name, typ string, power int) battle.Move {
	t.Helper()
	m, err := moves.NewBasic(pokedex.MoveData{
		Name:     name,
		Type:     typ,
		Class:    "physical",
		Power:    power,
		Accuracy: 100,
		Targets:  "opponent",
	})
	require.NoError(t, err)
	return m
}

func newPokemon(t *testing.T, name string, mv []battle.Move, types ...pokedex.Type) *battle.Pokemon {
	t.Helper()
	stats := battle.Stats{Attack: 100, Defense: 100, SpAttack: 100, SpDefense: 100, Speed: 100}
	return battle.NewPokemon(name, name, 50, 100, stats, types, "", "", mv)
}

func newBattle(t *testing.T, a1, a2 battle.Agent, team1, team2 []*battle.Pokemon) *battle.Battle {
	t.Helper()
	t1, err := battle.NewTrainer("Red", a1, team1)
	require.NoError(t, err)
	t2, err := battle.NewTrainer("Blue", a2, team2)
	require.NoError(t, err)
	b, err := battle.New(t1, t2, battle.Options{})
	require.NoError(t, err)
	return b
}

func TestGreedy_PrefersEffectiveMove(t *testing.T) {
	tackle := mustMove(t, "tackle", "normal", 40)
	thunderbolt := mustMove(t, "thunderbolt", "electric", 90)

	self := newPokemon(t, "Pika", []battle.Move{tackle, thunderbolt}, pokedex.Electric)
	opp := newPokemon(t, "Gyara", nil, pokedex.Water, pokedex.Flying)

	g := agent.Greedy{}
	b := newBattle(t, g, g, []*battle.Pokemon{self}, []*battle.Pokemon{opp})
	tr := b.Trainer1()
	require.NoError(t, tr.SwitchTo(0, false))

	act := g.ChooseAction(context.Background(), tr, opp, b)
	ma, ok := act.(battle.MoveAction)
	require.True(t, ok)
	require.Equal(t, "thunderbolt", ma.Move.Name())
}

func TestGreedy_AvoidsImmuneMove(t *testing.T) {
	tackle := mustMove(t, "tackle", "normal", 40)
	shadowBall := mustMove(t, "shadow-ball", "ghost", 80)

	self := newPokemon(t, "Gengar", []battle.Move{tackle, shadowBall}, pokedex.Ghost)
	opp := newPokemon(t, "Dusknoir", nil, pokedex.Ghost)

	g := agent.Greedy{}
	b := newBattle(t, g, g, []*battle.Pokemon{self}, []*battle.Pokemon{opp})
	tr := b.Trainer1()
	require.NoError(t, tr.SwitchTo(0, false))

	// tackle is immune against ghost; shadow-ball is super effective.
	act := g.ChooseAction(context.Background(), tr, opp, b)
	ma, ok := act.(battle.MoveAction)
	require.True(t, ok)
	require.Equal(t, "shadow-ball", ma.Move.Name())
}

func TestGreedy_ChooseSwitchSkipsFaintedAndActive(t *testing.T) {
	tackle := mustMove(t, "tackle", "normal", 40)
	lead := newPokemon(t, "Lead", []battle.Move{tackle}, pokedex.Normal)
	down := newPokemon(t, "Down", []battle.Move{tackle}, pokedex.Normal)
	down.ApplyDamage(down.MaxHP)
	backup := newPokemon(t, "Backup", []battle.Move{tackle}, pokedex.Normal)

	g := agent.Greedy{}
	b := newBattle(t, g, g,
		[]*battle.Pokemon{lead, down, backup},
		[]*battle.Pokemon{newPokemon(t, "Foe", []battle.Move{tackle}, pokedex.Normal)})
	tr := b.Trainer1()
	require.NoError(t, tr.SwitchTo(0, false))

	require.Equal(t, 2, g.ChooseSwitch(context.Background(), tr, b))
}

func TestGreedy_NoSwitchAvailable(t *testing.T) {
	tackle := mustMove(t, "tackle", "normal", 40)
	lead := newPokemon(t, "Lead", []battle.Move{tackle}, pokedex.Normal)

	g := agent.Greedy{}
	b := newBattle(t, g, g,
		[]*battle.Pokemon{lead},
		[]*battle.Pokemon{newPokemon(t, "Foe", []battle.Move{tackle}, pokedex.Normal)})
	tr := b.Trainer1()
	require.NoError(t, tr.SwitchTo(0, false))

	require.Equal(t, -1, g.ChooseSwitch(context.Background(), tr, b))
}

func TestChannel_DeliversChoices(t *testing.T) {
	actions := make(chan battle.Action, 1)
	switches := make(chan int, 1)
	c := agent.Channel{Actions: actions, Switches: switches}

	actions <- battle.SwitchAction{Index: 1}
	act := c.ChooseAction(context.Background(), nil, nil, nil)
	require.Equal(t, battle.SwitchAction{Index: 1}, act)

	switches <- 2
	require.Equal(t, 2, c.ChooseSwitch(context.Background(), nil, nil))
}

func TestChannel_ContextExpiryForfeits(t *testing.T) {
	c := agent.Channel{Actions: make(chan battle.Action), Switches: make(chan int)}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	require.Nil(t, c.ChooseAction(ctx, nil, nil, nil))
	require.Equal(t, -1, c.ChooseSwitch(ctx, nil, nil))
}
