package battle

import (
	"fmt"

	"go.uber.org/zap"
)

// megaEvolve runs the once-per-turn mega evolution gate for both parties in
// resolution order. A no-op on repeat calls within the same turn.
//
// For each eligible active creature the first matching trigger condition
// applies: its species stone or the named species exception selects the
// primary mega form, the X stone the X form, the Y stone the Y form. An
// eligibility flag with no matching condition is an invariant violation and
// panics: it means upstream team construction corrupted the flag.
func (b *Battle) megaEvolve(first, second *Trainer) {
	if b.megaRan {
		return
	}
	b.megaRan = true

	for _, t := range []*Trainer{first, second} {
		p, ok := t.Active()
		if !ok || t.MegaEvolved || !p.MegaEligible {
			continue
		}

		var form *MegaForm
		var variant string
		switch {
		case p.Item == ItemMegaStone || p.Species == SpeciesMegaException:
			form = p.Mega
		case p.Item == ItemMegaStoneX:
			form = p.MegaX
			variant = " X"
		case p.Item == ItemMegaStoneY:
			form = p.MegaY
			variant = " Y"
		default:
			panic(fmt.Sprintf("battle: %s is mega-eligible with no trigger condition (item %q)", p.Name, p.Item))
		}
		if form == nil {
			panic(fmt.Sprintf("battle: %s is mega-eligible but has no%s mega form data", p.Name, variant))
		}

		// The form is permanent for the rest of the battle: both current
		// and starting values change so switch-out reversion keeps it.
		p.SetAbility(form.Ability, form.Ability)
		p.SetTypes(form.Types, form.Types)
		b.Narrate("%s has mega evolved into Mega %s%s!", p.Name, p.Species, variant)
		p.applyEntryAbility(b)
		t.MegaEvolved = true

		b.log.Debug("mega evolution applied",
			zap.String("trainer", t.Name),
			zap.String("pokemon", p.Name),
			zap.String("ability", p.Ability),
		)
	}
}
