package moves

import (
	"fmt"

	"github.com/mwald/pokebattle/internal/game/battle"
	"github.com/mwald/pokebattle/internal/game/pokedex"
	"github.com/mwald/pokebattle/internal/game/script"
)

// New builds the Move implementation for a catalogue entry: the metronome
// wrapper for the metronome move, a script-backed move when the entry names
// a Lua script, a plain data-driven move otherwise.
func New(data pokedex.MoveData, runner *script.Runner) (battle.Move, error) {
	switch {
	case data.Name == "metronome":
		return NewMetronome(data), nil
	case data.Script != "":
		if runner == nil {
			return nil, fmt.Errorf("move %q: script %q requires a script runner", data.Name, data.Script)
		}
		return NewScripted(data, runner)
	default:
		return NewBasic(data)
	}
}
