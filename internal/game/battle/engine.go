package battle

import (
	"context"

	"go.uber.org/zap"
)

// Run drives the battle to completion and returns the winner. A nil winner
// with a nil error is a drawn battle: both parties forfeited simultaneously,
// both rosters were wiped out in the same exchange, or the turn limit ran
// out. An error is returned only for context cancellation.
//
// Run is the single writer of all battle state; the two parties' action
// submissions are the only operations that execute concurrently with each
// other, and both resolve before any state mutation.
func (b *Battle) Run(ctx context.Context) (*Trainer, error) {
	defer b.narr.Flush()

	b.log.Info("battle started",
		zap.String("trainer1", b.t1.Name),
		zap.String("trainer2", b.t2.Name),
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		winner, over, err := b.playTurn(ctx)
		if err != nil {
			return nil, err
		}
		if over {
			b.announce(winner)
			return winner, nil
		}
		if b.turnLimit > 0 && b.Turn >= b.turnLimit {
			b.Narrate("The battle ended with no result after %d turns.", b.Turn)
			b.log.Info("turn limit reached", zap.Int("turns", b.Turn))
			return nil, nil
		}
	}
}

// announce narrates the ending. Forfeit- and knockout-driven endings share
// this one code path; only a drawn battle differs.
func (b *Battle) announce(winner *Trainer) {
	if winner != nil {
		b.Narrate("%s won the battle!", winner.Name)
	} else {
		b.Narrate("The battle ended with no winner!")
	}
	b.log.Info("battle over", zap.Int("turns", b.Turn))
}

// playTurn resolves one full turn. The returned flag reports that the battle
// is over; the winner may be nil for a draw.
func (b *Battle) playTurn(ctx context.Context) (*Trainer, bool, error) {
	// Step 1: fill empty active slots before anything else. After this
	// neither party awaits a replacement.
	if winner, over, err := b.resolveReplacements(ctx); over || err != nil {
		return winner, over, err
	}

	// Per-turn flag reset.
	b.megaRan = false
	b.t1.midTurnRemoved = false
	b.t2.midTurnRemoved = false
	for _, t := range []*Trainer{b.t1, b.t2} {
		if p, ok := t.Active(); ok {
			p.HasMoved = false
		}
	}

	// Step 2: collect both actions concurrently.
	if err := b.collectActions(ctx); err != nil {
		return nil, false, err
	}
	if winner, over := b.resolveForfeits(); over {
		return winner, true, nil
	}

	// Step 3: order by action, priority, procs, and speed.
	first, second := b.TurnOrder(true)
	b.log.Debug("turn order resolved",
		zap.Int("turn", b.Turn),
		zap.String("first", first.Name),
	)

	// Step 4: setup phase, alive checks interleaved after each call. Setup
	// can hurt either side (recoil, confusion) before the move itself runs.
	for _, t := range []*Trainer{first, second} {
		ma, ok := t.selection.(MoveAction)
		if !ok {
			continue
		}
		user, uok := t.Active()
		tgt, tok := b.opponentOf(t).Active()
		if uok && tok {
			ma.Move.Setup(user, tgt, b)
		}
		b.checkFaints()
		if winner, over := b.winnerByRoster(); over {
			return winner, true, nil
		}
	}

	// Step 5: mega evolution gate, skipped here when the first action is a
	// switch; megaEvolve itself guarantees at most one firing per turn.
	if _, isSwitch := first.selection.(SwitchAction); !isSwitch {
		b.megaEvolve(first, second)
	}

	// Step 6: first party's action.
	if winner, over, err := b.executeAction(ctx, first, second); over || err != nil {
		return winner, over, err
	}

	// Edge case: the first party lost its active creature, but the second
	// party's pending action proceeds without an on-field target (a switch
	// or a non-targeting move). Fill the first party's slot now.
	if first.AwaitingReplacement() && first.HasAlivePokemon() && proceedsWithoutTarget(second.selection) {
		winner, err := b.requestSwap(ctx, first, second, true)
		if err != nil {
			return nil, false, err
		}
		if winner != nil {
			return winner, true, nil
		}
	}

	// Step 7: second party's action, gate first if it has not fired yet.
	b.megaEvolve(first, second)
	if winner, over, err := b.executeAction(ctx, second, first); over || err != nil {
		return winner, over, err
	}

	// Step 8: end-of-turn ticking.
	if winner, over := b.endOfTurn(); over {
		return winner, true, nil
	}
	return nil, false, nil
}

// resolveReplacements loops until both active slots are filled. When both
// are empty in the same pass, the higher raw-speed replacement enters first.
// A knockout from an entry effect re-enters the loop; an emptied roster ends
// the battle.
func (b *Battle) resolveReplacements(ctx context.Context) (*Trainer, bool, error) {
	for b.t1.AwaitingReplacement() || b.t2.AwaitingReplacement() {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		if b.t1.AwaitingReplacement() && b.t2.AwaitingReplacement() {
			winner, err := b.requestSwap(ctx, b.t1, b.t2, false)
			if err != nil {
				return nil, false, err
			}
			if winner != nil {
				return winner, true, nil
			}
			winner, err = b.requestSwap(ctx, b.t2, b.t1, false)
			if err != nil {
				return nil, false, err
			}
			if winner != nil {
				return winner, true, nil
			}
			p1, _ := b.t1.Active()
			p2, _ := b.t2.Active()
			order := []*Trainer{b.t1, b.t2}
			if p2.RawSpeed() > p1.RawSpeed() {
				order = []*Trainer{b.t2, b.t1}
			}
			for _, t := range order {
				if winner, over := b.sendOutActive(t); over {
					return winner, true, nil
				}
			}
			continue
		}

		swapper := b.t1
		if b.t2.AwaitingReplacement() {
			swapper = b.t2
		}
		winner, err := b.requestSwap(ctx, swapper, b.opponentOf(swapper), false)
		if err != nil {
			return nil, false, err
		}
		if winner != nil {
			return winner, true, nil
		}
		if winner, over := b.sendOutActive(swapper); over {
			return winner, true, nil
		}
	}
	return nil, false, nil
}

// sendOutActive fires the send-out hook for t's active creature and runs the
// post-entry victory check.
func (b *Battle) sendOutActive(t *Trainer) (*Trainer, bool) {
	p, ok := t.Active()
	if !ok {
		return nil, false
	}
	var opp *Pokemon
	if o, ok := b.opponentOf(t).Active(); ok {
		opp = o
	}
	p.SendOut(opp, b)
	b.checkFaints()
	return b.winnerByRoster()
}

// collectActions signals both parties concurrently and blocks until both
// submitted or ctx is cancelled. Narration flushes before the suspension.
func (b *Battle) collectActions(ctx context.Context) error {
	b.narr.Flush()

	type submission struct {
		trainer *Trainer
		action  Action
	}
	submitted := make(chan submission, 2)
	for _, t := range []*Trainer{b.t1, b.t2} {
		t.selection = nil
		go func(t *Trainer) {
			var opp *Pokemon
			if o, ok := b.opponentOf(t).Active(); ok {
				opp = o
			}
			submitted <- submission{t, t.Agent.ChooseAction(ctx, t, opp, b)}
		}(t)
	}
	for i := 0; i < 2; i++ {
		select {
		case s := <-submitted:
			s.trainer.selection = s.action
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// resolveForfeits turns nil selections into battle outcomes: both nil is a
// draw, one nil forfeits to the other side. No move executes either way.
func (b *Battle) resolveForfeits() (*Trainer, bool) {
	n1 := b.t1.selection == nil
	n2 := b.t2.selection == nil
	switch {
	case n1 && n2:
		b.Narrate("Both trainers forfeited!")
		return nil, true
	case n1:
		b.Narrate("%s forfeited the battle!", b.t1.Name)
		return b.t2, true
	case n2:
		b.Narrate("%s forfeited the battle!", b.t2.Name)
		return b.t1, true
	default:
		return nil, false
	}
}

// proceedsWithoutTarget reports whether a pending action can run with no
// opposing active creature on the field.
func proceedsWithoutTarget(a Action) bool {
	switch v := a.(type) {
	case SwitchAction:
		return true
	case MoveAction:
		return !v.Move.TargetsOpponent()
	default:
		return false
	}
}

// executeAction runs one party's move or switch, followed by the interleaved
// knockout checks and, when the actor's creature was forcibly withdrawn
// mid-execution, the immediate swap protocol.
func (b *Battle) executeAction(ctx context.Context, actor, other *Trainer) (*Trainer, bool, error) {
	switch a := actor.selection.(type) {
	case SwitchAction:
		// Validate before withdrawing: an unusable index (out of range,
		// fainted, or the creature already on the field) must not strip
		// the current creature's battle-scoped state. The swap protocol
		// treats such a selection as a forfeit and so does this path.
		if _, err := actor.switchTarget(a.Index); err != nil {
			b.log.Warn("unusable switch selection",
				zap.String("trainer", actor.Name),
				zap.Int("index", a.Index),
				zap.Error(err),
			)
			return other, true, nil
		}
		if cur, ok := actor.Active(); ok {
			cur.Remove(b)
			actor.clearActive()
		}
		// Validated above; with the slot empty this cannot fail.
		_ = actor.SwitchTo(a.Index, true)
		next, _ := actor.Active()
		var opp *Pokemon
		if o, ok := other.Active(); ok {
			opp = o
		}
		next.SendOut(opp, b)
		// A mid-turn entrant cannot act again if turn order flips later.
		next.HasMoved = true

	case MoveAction:
		user, ok := actor.Active()
		if !ok || user.HasMoved {
			break
		}
		var tgt *Pokemon
		if o, ok := other.Active(); ok {
			tgt = o
		}
		if a.Move.TargetsOpponent() && tgt == nil {
			b.Narrate("But there was no target...")
			user.HasMoved = true
			break
		}
		a.Move.Use(user, tgt, b)
		user.HasMoved = true
	}

	b.checkFaints()
	if winner, over := b.winnerByRoster(); over {
		return winner, true, nil
	}

	// Forced removal by the move itself (not a faint): resolve the
	// replacement now so end-of-turn effects apply to the right creature.
	if actor.midTurnRemoved && actor.AwaitingReplacement() && actor.HasAlivePokemon() {
		winner, err := b.requestSwap(ctx, actor, other, true)
		if err != nil {
			return nil, false, err
		}
		if winner != nil {
			return winner, true, nil
		}
	}
	return nil, false, nil
}

// endOfTurn advances the turn counter and ticks every timed effect, with a
// knockout check after each of the four end-of-turn hooks so damage from an
// earlier hook ends the battle before a later one runs.
func (b *Battle) endOfTurn() (*Trainer, bool) {
	b.Turn++
	b.PlasmaFists = false

	if expired, ok := b.Weather.Tick(); ok {
		b.narrateWeatherExpiry(expired)
	}
	if expired, ok := b.Terrain.Tick(); ok {
		b.Narrate("The %s disappeared from the battlefield!", expired)
	}
	b.LastMoveEffect = ""

	// Passive effect order ignores the (already consumed) actions.
	first, second := b.TurnOrder(false)
	for _, t := range []*Trainer{first, second} {
		t.NextTurn(b)
		b.checkFaints()
		if winner, over := b.winnerByRoster(); over {
			return winner, true
		}
		if p, ok := t.Active(); ok {
			var opp *Pokemon
			if o, ok := b.opponentOf(t).Active(); ok {
				opp = o
			}
			p.EndOfTurn(opp, b)
		}
		b.checkFaints()
		if winner, over := b.winnerByRoster(); over {
			return winner, true
		}
	}

	if b.TrickRoom.Tick() {
		b.Narrate("The twisted dimensions returned to normal!")
	}
	if b.Gravity.Tick() {
		b.Narrate("Gravity returned to normal!")
	}
	if b.MagicRoom.Tick() {
		b.Narrate("The area returned to normal!")
	}
	if b.WonderRoom.Tick() {
		b.Narrate("Wonder Room wore off, and Defense and Sp. Def stats returned to normal!")
	}

	b.log.Debug("turn complete", zap.Int("turn", b.Turn))
	return nil, false
}

func (b *Battle) narrateWeatherExpiry(w Weather) {
	switch w {
	case WeatherRain:
		b.Narrate("The rain stopped.")
	case WeatherHarshSunlight:
		b.Narrate("The harsh sunlight faded.")
	case WeatherSandstorm:
		b.Narrate("The sandstorm subsided.")
	case WeatherHail:
		b.Narrate("The hail stopped.")
	}
}
