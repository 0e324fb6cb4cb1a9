package battle

import "github.com/mwald/pokebattle/internal/game/rng"

// TurnOrder decides which party resolves first this turn. With checkMove set
// it consults the submitted actions; without it only speed matters, which is
// how end-of-turn effect order is decided.
//
// Precedence, evaluated in order:
//  1. Either active slot empty: the nominal first party goes first (the
//     ordering is moot, no move executes).
//  2. With checkMove: a switch outranks a move; a double switch orders by
//     raw speed with first-party tie precedence; otherwise higher move
//     priority wins; on a priority tie, speed-up ability/item procs decide
//     when exactly one side triggers; then speed-slowing abilities decide,
//     with a both-slowed comparison running reversed.
//  3. Equal effective speed: unweighted coin flip.
//  4. Trick room inverts the final speed comparison.
func (b *Battle) TurnOrder(checkMove bool) (first, second *Trainer) {
	p1, ok1 := b.t1.Active()
	p2, ok2 := b.t2.Active()
	if !ok1 || !ok2 {
		return b.t1, b.t2
	}

	if checkMove {
		m1, switch1 := splitAction(b.t1.selection)
		m2, switch2 := splitAction(b.t2.selection)

		switch {
		case switch1 && switch2:
			// No randomness on double-switch ties: first party precedence.
			if p2.RawSpeed() > p1.RawSpeed() {
				return b.t2, b.t1
			}
			return b.t1, b.t2
		case switch1:
			return b.t1, b.t2
		case switch2:
			return b.t2, b.t1
		}

		if m1 != nil && m2 != nil {
			pr1 := m1.Priority(p1, p2, b)
			pr2 := m2.Priority(p2, p1, b)
			if pr1 > pr2 {
				return b.t1, b.t2
			}
			if pr2 > pr1 {
				return b.t2, b.t1
			}

			// Speed-up procs bypass the raw comparison only when exactly
			// one side triggers; both-true falls through like neither.
			q1 := b.speedUpProc(p1, m1)
			q2 := b.speedUpProc(p2, m2)
			if q1 != q2 {
				if q1 {
					return b.t1, b.t2
				}
				return b.t2, b.t1
			}

			s1 := slowedBy(p1, m1)
			s2 := slowedBy(p2, m2)
			switch {
			case s1 && !s2:
				return b.t2, b.t1
			case s2 && !s1:
				return b.t1, b.t2
			case s1 && s2:
				f, s := b.compareSpeed(p1, p2)
				return s, f
			}
		}
	}

	return b.compareSpeed(p1, p2)
}

// splitAction returns the move of a move-action, or reports a switch.
func splitAction(a Action) (Move, bool) {
	switch v := a.(type) {
	case MoveAction:
		return v.Move, false
	case SwitchAction:
		return nil, true
	default:
		return nil, false
	}
}

// speedUpProc draws the quick-draw ability check (30%, damaging moves only)
// and the quick-claw item check (20%). Each eligible check is drawn exactly
// once per decision, independently.
func (b *Battle) speedUpProc(p *Pokemon, m Move) bool {
	triggered := false
	if p.Ability == AbilityQuickDraw && m.Class().Damaging() {
		if rng.Chance(b.rng, 30) {
			triggered = true
		}
	}
	if p.Item == ItemQuickClaw {
		if rng.Chance(b.rng, 20) {
			triggered = true
		}
	}
	return triggered
}

// slowedBy reports whether a speed-order-reversing ability applies: stall
// unconditionally, mycelium might only for non-damaging moves.
func slowedBy(p *Pokemon, m Move) bool {
	if p.Ability == AbilityStall {
		return true
	}
	return p.Ability == AbilityMyceliumMight && m.Class() == ClassStatus
}

// compareSpeed orders the two parties by effective speed. Exact ties are a
// coin flip; trick room sends the slower side first.
func (b *Battle) compareSpeed(p1, p2 *Pokemon) (first, second *Trainer) {
	s1 := p1.EffectiveSpeed(b)
	s2 := p2.EffectiveSpeed(b)
	if s1 == s2 {
		if rng.Flip(b.rng) {
			return b.t1, b.t2
		}
		return b.t2, b.t1
	}
	firstIsT1 := s1 > s2
	if b.TrickRoom.Active() {
		firstIsT1 = !firstIsT1
	}
	if firstIsT1 {
		return b.t1, b.t2
	}
	return b.t2, b.t1
}
