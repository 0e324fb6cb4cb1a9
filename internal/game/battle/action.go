package battle

// MoveClass is the damage class of a move.
type MoveClass int

const (
	ClassPhysical MoveClass = iota
	ClassSpecial
	ClassStatus
)

// String returns the human-readable class name.
func (c MoveClass) String() string {
	switch c {
	case ClassPhysical:
		return "physical"
	case ClassSpecial:
		return "special"
	case ClassStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Damaging reports whether the class deals direct damage.
func (c MoveClass) Damaging() bool { return c != ClassStatus }

// Move is the capability the engine requires of every move implementation.
// Effect internals are up to the implementation; the engine only sequences
// the Setup and Use phases and consults Priority for ordering.
type Move interface {
	// Name is the display name used in narration.
	Name() string
	// Class is the damage class, consulted by speed-order ability checks.
	Class() MoveClass
	// TargetsOpponent reports whether Use requires an opposing active
	// creature on the field.
	TargetsOpponent() bool
	// Priority computes the move's priority bracket for this turn.
	Priority(user, target *Pokemon, b *Battle) int
	// Setup runs the pre-execution phase (charging, recoil from botched
	// setup, confusion self-hits). It may damage either side.
	Setup(user, target *Pokemon, b *Battle)
	// Use executes the move.
	Use(user, target *Pokemon, b *Battle)
}

// Action is a party's per-turn choice. It is a sealed sum type: the two
// variants are MoveAction and SwitchAction, and every consumption site type-
// switches over them. A nil Action means forfeit.
type Action interface {
	isAction()
}

// MoveAction selects a move to use against the opposing active creature.
type MoveAction struct {
	Move Move
}

func (MoveAction) isAction() {}

// SwitchAction withdraws the active creature and sends out the roster member
// at Index.
type SwitchAction struct {
	Index int
}

func (SwitchAction) isAction() {}
