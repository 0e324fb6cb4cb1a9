package battle

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Agent is the decision capability of one party. Scripted agents resolve
// synchronously and never block; interactive agents block until the external
// layer delivers a choice or ctx is cancelled.
type Agent interface {
	// ChooseAction selects this turn's action. opp is the opposing active
	// creature (nil while the opponent awaits a replacement). Returning nil
	// forfeits the battle.
	ChooseAction(ctx context.Context, self *Trainer, opp *Pokemon, b *Battle) Action
	// ChooseSwitch selects a replacement roster index. Returning a negative
	// index means no usable selection, which forfeits per the swap protocol.
	ChooseSwitch(ctx context.Context, self *Trainer, b *Battle) int
}

// slotState distinguishes "a creature is on the field" from "awaiting a
// replacement", instead of overloading a nil pointer for both knockout and
// mid-swap.
type slotState int

const (
	slotAwaiting slotState = iota
	slotActive
)

// activeSlot is a Trainer's field position.
type activeSlot struct {
	state   slotState
	pokemon *Pokemon
}

// Trainer is one side of the battle: a roster, the active slot, the per-turn
// selected action, and the one-time mega evolution flag.
type Trainer struct {
	ID    uuid.UUID
	Name  string
	Agent Agent

	// MegaEvolved is set once a roster member mega evolves; at most one
	// mega evolution per trainer per battle.
	MegaEvolved bool

	// LightScreen and Reflect are trainer-scoped timed screens, aged by
	// NextTurn in the engine-decided end-of-turn order.
	LightScreen ExpiringEffect
	Reflect     ExpiringEffect

	team []*Pokemon
	slot activeSlot

	// selection is this turn's submitted action; nil signals forfeit.
	selection Action

	// midTurnRemoved is set when the active creature was forcibly withdrawn
	// after already acting, which makes the engine run the swap protocol
	// immediately rather than at the next turn boundary.
	midTurnRemoved bool
}

// NewTrainer creates a trainer with the given roster. The active slot starts
// empty; the engine's replacement loop fills it before the first turn.
//
// Precondition: agent must be non-nil; team must have 1-6 members.
func NewTrainer(name string, agent Agent, team []*Pokemon) (*Trainer, error) {
	if agent == nil {
		return nil, fmt.Errorf("trainer %q: agent must not be nil", name)
	}
	if len(team) == 0 || len(team) > 6 {
		return nil, fmt.Errorf("trainer %q: team must have 1-6 members, got %d", name, len(team))
	}
	roster := make([]*Pokemon, len(team))
	copy(roster, team)
	return &Trainer{
		ID:    uuid.New(),
		Name:  name,
		Agent: agent,
		team:  roster,
	}, nil
}

// Team returns a snapshot of the roster. The slice is a copy; the pointed-to
// creatures are shared.
func (t *Trainer) Team() []*Pokemon {
	cp := make([]*Pokemon, len(t.team))
	copy(cp, t.team)
	return cp
}

// Active returns the creature on the field, or (nil, false) while awaiting
// a replacement.
func (t *Trainer) Active() (*Pokemon, bool) {
	if t.slot.state != slotActive {
		return nil, false
	}
	return t.slot.pokemon, true
}

// AwaitingReplacement reports whether the active slot is empty.
func (t *Trainer) AwaitingReplacement() bool { return t.slot.state == slotAwaiting }

// HasAlivePokemon reports whether any roster member is still conscious.
func (t *Trainer) HasAlivePokemon() bool {
	for _, p := range t.team {
		if !p.Fainted() {
			return true
		}
	}
	return false
}

// SwitchTo fills the active slot with the roster member at index. The
// midTurn flag clears the mid-turn-removed marker; send-out and has-moved
// bookkeeping stay with the caller, which knows whether the creature enters
// the field immediately.
//
// Postcondition: on success Active() returns the chosen creature.
func (t *Trainer) SwitchTo(index int, midTurn bool) error {
	next, err := t.switchTarget(index)
	if err != nil {
		return err
	}
	t.slot = activeSlot{state: slotActive, pokemon: next}
	if midTurn {
		t.midTurnRemoved = false
	}
	return nil
}

// switchTarget validates index against the roster and the occupied slot
// without mutating anything, so callers can reject the selection before
// withdrawing the current creature.
func (t *Trainer) switchTarget(index int) (*Pokemon, error) {
	if index < 0 || index >= len(t.team) {
		return nil, fmt.Errorf("trainer %q: switch index %d out of range", t.Name, index)
	}
	next := t.team[index]
	if next.Fainted() {
		return nil, fmt.Errorf("trainer %q: %s has fainted and cannot battle", t.Name, next.Name)
	}
	if cur, ok := t.Active(); ok && cur == next {
		return nil, fmt.Errorf("trainer %q: %s is already in battle", t.Name, next.Name)
	}
	return next, nil
}

// clearActive empties the slot after a knockout. The mid-turn-removed marker
// stays false: faints resolve at the next turn boundary.
func (t *Trainer) clearActive() {
	t.slot = activeSlot{}
}

// ForceWithdraw is the hook for move effects that drag the active creature
// off the field (whirlwind-style forced switches). The replacement resolves
// immediately via the swap protocol so end-of-turn effects hit the right
// creature.
func (t *Trainer) ForceWithdraw(b *Battle) {
	p, ok := t.Active()
	if !ok {
		return
	}
	p.Remove(b)
	t.slot = activeSlot{}
	t.midTurnRemoved = true
}

// NextTurn is the trainer-side end-of-turn hook. Today it only ages
// trainer-scoped timed effects; it exists so party effects tick in the
// engine-decided order alongside creature residuals.
func (t *Trainer) NextTurn(b *Battle) {
	if t.LightScreen.Tick() {
		b.Narrate("%s's Light Screen wore off!", t.Name)
	}
	if t.Reflect.Tick() {
		b.Narrate("%s's Reflect wore off!", t.Name)
	}
}
