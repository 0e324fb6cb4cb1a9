package battle

import (
	"context"

	"go.uber.org/zap"
)

// requestSwap runs the replacement sub-protocol for swapper: flush pending
// narration, ask the agent for a roster index, and wait up to the swap
// deadline. Used at battle start, after knockouts, and on mid-turn forced
// removal.
//
// Returns the opponent as winner on timeout or when the selection produced
// nothing usable; returns (nil, nil) when the swap succeeded. No swapper
// state is mutated before the wait resolves, so a timeout needs no rollback.
// Cancellation of the parent context is an external abort, not a forfeit:
// it comes back as an error and never names a winner.
//
// With midTurn set, the replacement is sent out immediately and marked as
// having acted, preventing a double action in the same turn.
func (b *Battle) requestSwap(ctx context.Context, swapper, opponent *Trainer, midTurn bool) (*Trainer, error) {
	b.narr.Flush()

	swapCtx, cancel := context.WithTimeout(ctx, b.swapTimeout)
	defer cancel()

	choice := make(chan int, 1)
	go func() {
		choice <- swapper.Agent.ChooseSwitch(swapCtx, swapper, b)
	}()

	var index int
	select {
	case index = <-choice:
	case <-swapCtx.Done():
		// swapCtx fires for both the swap deadline and parent
		// cancellation; only the former is a forfeit.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.log.Info("swap deadline exceeded",
			zap.String("trainer", swapper.Name),
			zap.Duration("deadline", b.swapTimeout),
		)
		b.Narrate("%s took too long to choose a replacement!", swapper.Name)
		return opponent, nil
	}

	if index < 0 {
		return opponent, nil
	}
	if err := swapper.SwitchTo(index, midTurn); err != nil {
		b.log.Warn("unusable swap selection",
			zap.String("trainer", swapper.Name),
			zap.Int("index", index),
			zap.Error(err),
		)
		return opponent, nil
	}
	next, ok := swapper.Active()
	if !ok {
		return opponent, nil
	}

	if midTurn {
		var opp *Pokemon
		if o, ok := opponent.Active(); ok {
			opp = o
		}
		next.SendOut(opp, b)
		next.HasMoved = true
	}
	return nil, nil
}
