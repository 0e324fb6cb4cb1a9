// Package battle implements the two-party turn-resolution engine: the main
// control loop, action ordering, the mid-turn swap/forfeit protocol, timed
// field effects, and mega evolution gating. Move effects, stat formulas, and
// participant decision-making plug in through the Move, Pokemon, and Agent
// capabilities.
package battle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mwald/pokebattle/internal/game/pokedex"
	"github.com/mwald/pokebattle/internal/game/rng"
)

// DefaultSwapTimeout is the deadline for a replacement selection; exceeding
// it forfeits the battle to the opponent.
const DefaultSwapTimeout = 60 * time.Second

// Options configures a Battle. Zero values select sensible defaults.
type Options struct {
	// Source is the random source for turn-order coin flips and ability
	// checks. Defaults to a crypto-backed source.
	Source rng.Source
	// Logger receives engine lifecycle logs. Defaults to a no-op logger.
	Logger *zap.Logger
	// Catalogue is the immutable move set for random-effect selection.
	// Defaults to an empty catalogue.
	Catalogue *pokedex.Catalogue
	// Chart is the type-effectiveness table. Defaults to the standard chart.
	Chart *pokedex.Chart
	// Inverse flips effectiveness interpretation for the battle's lifetime.
	Inverse bool
	// SwapTimeout overrides the replacement-selection deadline.
	SwapTimeout time.Duration
	// TurnLimit ends the battle with no winner after this many completed
	// turns. 0 means unlimited.
	TurnLimit int
	// Narrate receives flushed narration lines. nil discards them.
	Narrate func(lines []string)
}

// Battle is the aggregate root for one encounter. Only the engine's own
// control flow mutates it; no external concurrent mutation is permitted
// while Run is in progress.
type Battle struct {
	ID uuid.UUID

	// Turn counts completed turns, starting at 0.
	Turn int

	Weather FieldCondition[Weather]
	Terrain FieldCondition[Terrain]

	TrickRoom  ExpiringEffect
	Gravity    ExpiringEffect
	MagicRoom  ExpiringEffect
	WonderRoom ExpiringEffect

	// PlasmaFists marks the one-turn normal-to-electric conversion effect;
	// it resets at every turn boundary.
	PlasmaFists bool

	// LastMoveEffect is the marker moves leave for same-turn interactions;
	// cleared every turn.
	LastMoveEffect string

	Catalogue *pokedex.Catalogue
	Chart     *pokedex.Chart
	Inverse   bool

	t1, t2 *Trainer

	rng         rng.Source
	log         *zap.Logger
	narr        *Narrator
	swapTimeout time.Duration
	turnLimit   int

	// megaRan guards the once-per-turn mega evolution gate.
	megaRan bool
}

// New creates a Battle between t1 and t2.
//
// Precondition: both trainers must be non-nil with non-nil agents.
func New(t1, t2 *Trainer, opts Options) (*Battle, error) {
	if t1 == nil || t2 == nil {
		return nil, fmt.Errorf("battle: both trainers are required")
	}
	if opts.Source == nil {
		opts.Source = rng.NewCryptoSource()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Chart == nil {
		opts.Chart = pokedex.DefaultChart()
	}
	if opts.Catalogue == nil {
		empty, err := pokedex.NewCatalogue(nil)
		if err != nil {
			return nil, err
		}
		opts.Catalogue = empty
	}
	if opts.SwapTimeout <= 0 {
		opts.SwapTimeout = DefaultSwapTimeout
	}
	id := uuid.New()
	return &Battle{
		ID:          id,
		Catalogue:   opts.Catalogue,
		Chart:       opts.Chart,
		Inverse:     opts.Inverse,
		t1:          t1,
		t2:          t2,
		rng:         opts.Source,
		log:         opts.Logger.With(zap.String("battle_id", id.String())),
		narr:        NewNarrator(opts.Narrate),
		swapTimeout: opts.SwapTimeout,
		turnLimit:   opts.TurnLimit,
	}, nil
}

// Trainer1 returns the nominal first party.
func (b *Battle) Trainer1() *Trainer { return b.t1 }

// Trainer2 returns the nominal second party.
func (b *Battle) Trainer2() *Trainer { return b.t2 }

// RNG returns the battle's random source, shared with move implementations
// so a seeded battle is fully deterministic.
func (b *Battle) RNG() rng.Source { return b.rng }

// Narrate appends one formatted line to the narration buffer.
func (b *Battle) Narrate(format string, args ...any) {
	b.narr.Addf(format, args...)
}

// Narration exposes the buffer for flush-contract checkpoints and tests.
func (b *Battle) Narration() *Narrator { return b.narr }

// opponentOf returns the other trainer.
//
// Precondition: t is one of the battle's two trainers.
func (b *Battle) opponentOf(t *Trainer) *Trainer {
	switch t {
	case b.t1:
		return b.t2
	case b.t2:
		return b.t1
	default:
		panic("battle: opponentOf called with a foreign trainer")
	}
}

// checkFaints narrates knockouts and empties the fainted side's active slot.
// It runs after every sub-step that can deal damage.
func (b *Battle) checkFaints() {
	for _, t := range []*Trainer{b.t1, b.t2} {
		if p, ok := t.Active(); ok && p.Fainted() {
			b.Narrate("%s fainted!", p.Name)
			t.clearActive()
		}
	}
}

// winnerByRoster reports whether the battle is over on conscious-roster
// grounds. A simultaneous wipe-out yields (nil, true): no winner.
func (b *Battle) winnerByRoster() (*Trainer, bool) {
	a1 := b.t1.HasAlivePokemon()
	a2 := b.t2.HasAlivePokemon()
	switch {
	case a1 && a2:
		return nil, false
	case a1:
		return b.t1, true
	case a2:
		return b.t2, true
	default:
		return nil, true
	}
}
