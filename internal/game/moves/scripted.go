package moves

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/mwald/pokebattle/internal/game/battle"
	"github.com/mwald/pokebattle/internal/game/pokedex"
	"github.com/mwald/pokebattle/internal/game/script"
)

// Scripted is a move whose priority, power, and effect text come from a
// sandboxed Lua script. Hooks are optional; anything the script does not
// define falls back to the catalogue data.
//
// Script contract (all globals, all optional):
//
//	priority(user_speed, target_speed) -> number
//	power(user_speed, target_speed, user_hp, target_hp) -> number
//	on_setup(user_hp, user_max_hp) -> string
//	on_use(target_hp, target_max_hp) -> string
type Scripted struct {
	Basic
	runner *script.Runner
	key    string
}

// NewScripted builds a Scripted move. The script key is the catalogue's
// script field, defaulting to the move name.
//
// Precondition: runner must be non-nil and must already have the script
// loaded under the key.
func NewScripted(data pokedex.MoveData, runner *script.Runner) (*Scripted, error) {
	base, err := NewBasic(data)
	if err != nil {
		return nil, err
	}
	if runner == nil {
		return nil, fmt.Errorf("move %q: script runner must not be nil", data.Name)
	}
	key := data.Script
	if key == "" {
		key = data.Name
	}
	return &Scripted{Basic: *base, runner: runner, key: key}, nil
}

// Priority consults the script's priority hook, falling back to the static
// bracket when the hook is absent or fails.
func (m *Scripted) Priority(user, target *battle.Pokemon, b *battle.Battle) int {
	v, err := m.runner.CallHook(m.key, "priority",
		lua.LNumber(user.EffectiveSpeed(b)),
		lua.LNumber(target.EffectiveSpeed(b)),
	)
	if err == nil {
		if n, ok := v.(lua.LNumber); ok {
			return int(n)
		}
	}
	return m.Basic.Priority(user, target, b)
}

// Setup narrates whatever the script's on_setup hook returns.
func (m *Scripted) Setup(user, _ *battle.Pokemon, b *battle.Battle) {
	v, err := m.runner.CallHook(m.key, "on_setup",
		lua.LNumber(user.HP),
		lua.LNumber(user.MaxHP),
	)
	if err != nil {
		return
	}
	if s, ok := v.(lua.LString); ok && s != "" {
		b.Narrate("%s", string(s))
	}
}

// Use resolves power through the script's power hook, then runs the shared
// damage path and narrates the on_use message.
func (m *Scripted) Use(user, target *battle.Pokemon, b *battle.Battle) {
	b.Narrate("%s used %s!", user.Name, m.Name())
	if missed(m.data.Accuracy, user, b) {
		return
	}

	power := m.data.Power
	if target != nil {
		v, err := m.runner.CallHook(m.key, "power",
			lua.LNumber(user.EffectiveSpeed(b)),
			lua.LNumber(target.EffectiveSpeed(b)),
			lua.LNumber(user.HP),
			lua.LNumber(target.HP),
		)
		if err == nil {
			if n, ok := v.(lua.LNumber); ok {
				power = int(n)
			}
		}
	}
	dealDamage(b, user, target, m.typ, m.class, power)

	if target != nil {
		v, err := m.runner.CallHook(m.key, "on_use",
			lua.LNumber(target.HP),
			lua.LNumber(target.MaxHP),
		)
		if err == nil {
			if s, ok := v.(lua.LString); ok && s != "" {
				b.Narrate("%s", string(s))
			}
		}
	}
}
