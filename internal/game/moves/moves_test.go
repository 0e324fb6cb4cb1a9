package moves_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mwald/pokebattle/internal/game/battle"
	"github.com/mwald/pokebattle/internal/game/moves"
	"github.com/mwald/pokebattle/internal/game/pokedex"
	"github.com/mwald/pokebattle/internal/game/script"
)

// fixedSource returns val (mod n) for every Intn call.
type fixedSource struct{ val int }

func (f fixedSource) Intn(n int) int { return f.val % n }

// nullAgent never chooses anything; move tests drive moves directly.
type nullAgent struct{}

func (nullAgent) ChooseAction(context.Context, *battle.Trainer, *battle.Pokemon, *battle.Battle) battle.Action {
	return nil
}
func (nullAgent) ChooseSwitch(context.Context, *battle.Trainer, *battle.Battle) int { return -1 }

func newPokemon(t *testing.T, name string, types ...pokedex.Type) *battle.Pokemon {
	t.Helper()
	stats := battle.Stats{Attack: 100, Defense: 100, SpAttack: 100, SpDefense: 100, Speed: 100}
	return battle.NewPokemon(name, name, 50, 200, stats, types, "", "", nil)
}

func newBattle(t *testing.T, src interface{ Intn(int) int }, cat *pokedex.Catalogue) (*battle.Battle, *battle.Pokemon, *battle.Pokemon) {
	t.Helper()
	user := newPokemon(t, "User", pokedex.Normal)
	target := newPokemon(t, "Target", pokedex.Ghost, pokedex.Dark)

	t1, err := battle.NewTrainer("Red", nullAgent{}, []*battle.Pokemon{user})
	require.NoError(t, err)
	t2, err := battle.NewTrainer("Blue", nullAgent{}, []*battle.Pokemon{target})
	require.NoError(t, err)

	b, err := battle.New(t1, t2, battle.Options{Source: src, Catalogue: cat})
	require.NoError(t, err)
	return b, user, target
}

func moveData(name string, power int) pokedex.MoveData {
	return pokedex.MoveData{
		Name:     name,
		Type:     "normal",
		Class:    "physical",
		Power:    power,
		Accuracy: 100,
		Targets:  "opponent",
	}
}

func TestBasic_UseAppliesDamage(t *testing.T) {
	b, user, _ := newBattle(t, fixedSource{val: 0}, nil)

	m, err := moves.NewBasic(moveData("tackle", 40))
	require.NoError(t, err)

	target := newPokemon(t, "Dummy", pokedex.Water)
	m.Use(user, target, b)

	require.Less(t, target.HP, target.MaxHP)
	require.Contains(t, b.Narration().Pending(), "User used tackle!")
}

func TestBasic_TypeImmunity(t *testing.T) {
	b, user, target := newBattle(t, fixedSource{val: 0}, nil)

	m, err := moves.NewBasic(moveData("tackle", 40))
	require.NoError(t, err)
	m.Use(user, target, b) // normal vs ghost

	require.Equal(t, target.MaxHP, target.HP)
	require.Contains(t, b.Narration().Pending(), "It doesn't affect Target...")
}

func TestBasic_SuperEffectiveNarration(t *testing.T) {
	b, user, _ := newBattle(t, fixedSource{val: 0}, nil)
	target := newPokemon(t, "Rocky", pokedex.Rock)

	data := moveData("water-gun", 40)
	data.Type = "water"
	data.Class = "special"
	m, err := moves.NewBasic(data)
	require.NoError(t, err)
	m.Use(user, target, b)

	require.Contains(t, b.Narration().Pending(), "It's super effective!")
}

func TestBasic_Miss(t *testing.T) {
	// Accuracy 50 with a fixed draw of 75 misses.
	b, user, _ := newBattle(t, fixedSource{val: 75}, nil)
	target := newPokemon(t, "Dummy", pokedex.Water)

	data := moveData("mud-bomb", 65)
	data.Accuracy = 50
	m, err := moves.NewBasic(data)
	require.NoError(t, err)
	m.Use(user, target, b)

	require.Equal(t, target.MaxHP, target.HP)
	require.Contains(t, b.Narration().Pending(), "User's attack missed!")
}

func TestBasic_StatusMoveDealsNothing(t *testing.T) {
	b, user, _ := newBattle(t, fixedSource{val: 0}, nil)
	target := newPokemon(t, "Dummy", pokedex.Water)

	data := moveData("growl", 0)
	data.Class = "status"
	m, err := moves.NewBasic(data)
	require.NoError(t, err)
	m.Use(user, target, b)

	require.Equal(t, target.MaxHP, target.HP)
}

func TestScripted_PriorityHook(t *testing.T) {
	r := script.NewRunner(zap.NewNop())
	defer r.Close()
	require.NoError(t, r.LoadSource("vital-throw", `function priority() return -1 end`, 0))

	b, user, target := newBattle(t, fixedSource{val: 0}, nil)

	data := moveData("vital-throw", 70)
	data.Priority = 0
	data.Script = "vital-throw"
	m, err := moves.NewScripted(data, r)
	require.NoError(t, err)

	require.Equal(t, -1, m.Priority(user, target, b))
}

func TestScripted_PowerHookScalesWithSpeed(t *testing.T) {
	r := script.NewRunner(zap.NewNop())
	defer r.Close()
	src := `
function power(user_speed, target_speed)
  if user_speed < target_speed then
    return 150
  end
  return 0
end
`
	require.NoError(t, r.LoadSource("gyro-ball", src, 0))

	b, user, _ := newBattle(t, fixedSource{val: 0}, nil)
	target := newPokemon(t, "Dummy", pokedex.Water)
	target.Stats.Speed = 300 // user is slower: hook returns 150

	data := moveData("gyro-ball", 0)
	data.Script = "gyro-ball"
	m, err := moves.NewScripted(data, r)
	require.NoError(t, err)
	m.Use(user, target, b)
	require.Less(t, target.HP, target.MaxHP)

	// Faster user: hook returns 0 and nothing happens.
	user.Stats.Speed = 1000
	fresh := newPokemon(t, "Fresh", pokedex.Water)
	m.Use(user, fresh, b)
	require.Equal(t, fresh.MaxHP, fresh.HP)
}

func TestScripted_SetupNarration(t *testing.T) {
	r := script.NewRunner(zap.NewNop())
	defer r.Close()
	require.NoError(t, r.LoadSource("focus-punch", `function on_setup() return "User is tightening its focus!" end`, 0))

	b, user, target := newBattle(t, fixedSource{val: 0}, nil)

	data := moveData("focus-punch", 150)
	data.Script = "focus-punch"
	m, err := moves.NewScripted(data, r)
	require.NoError(t, err)

	m.Setup(user, target, b)
	require.Contains(t, b.Narration().Pending(), "User is tightening its focus!")
}

func TestScripted_FocusHitLostWhenDamagedAfterSetup(t *testing.T) {
	r := script.NewRunner(zap.NewNop())
	defer r.Close()
	require.NoError(t, r.Load("focus-punch",
		filepath.Join("..", "..", "..", "content", "scripts", "moves", "focus-punch.lua"), 0))

	b, user, _ := newBattle(t, fixedSource{val: 0}, nil)

	data := moveData("focus-punch", 150)
	data.Script = "focus-punch"
	m, err := moves.NewScripted(data, r)
	require.NoError(t, err)

	// Undisturbed between the telegraph and resolution: the hit lands.
	target := newPokemon(t, "Dummy", pokedex.Water)
	m.Setup(user, target, b)
	m.Use(user, target, b)
	require.Less(t, target.HP, target.MaxHP)

	// Damaged after the telegraph: the hit is lost.
	fresh := newPokemon(t, "Fresh", pokedex.Water)
	m.Setup(user, fresh, b)
	user.ApplyDamage(10)
	m.Use(user, fresh, b)
	require.Equal(t, fresh.MaxHP, fresh.HP)
	require.Contains(t, b.Narration().Pending(), "But nothing happened!")
}

func TestMetronome_DelegatesToRandomMove(t *testing.T) {
	pool := moveData("pound", 40)
	pool.Metronome = true
	cat, err := pokedex.NewCatalogue([]pokedex.MoveData{pool})
	require.NoError(t, err)

	b, user, _ := newBattle(t, fixedSource{val: 0}, cat)
	target := newPokemon(t, "Dummy", pokedex.Water)

	m := moves.NewMetronome(pokedex.MoveData{Name: "metronome", Type: "normal", Class: "status", Targets: "opponent"})
	m.Use(user, target, b)

	require.Less(t, target.HP, target.MaxHP)
	require.Contains(t, b.Narration().Pending(), "Waggling a finger let it use pound!")
}

func TestMetronome_FailsOnEmptyPool(t *testing.T) {
	b, user, _ := newBattle(t, fixedSource{val: 0}, nil)
	target := newPokemon(t, "Dummy", pokedex.Water)

	m := moves.NewMetronome(pokedex.MoveData{Name: "metronome", Type: "normal", Class: "status", Targets: "opponent"})
	m.Use(user, target, b)

	require.Equal(t, target.MaxHP, target.HP)
	require.Contains(t, b.Narration().Pending(), "But it failed!")
}
