package battle

// ExpiringEffect is the turn-countdown primitive behind every timed field
// condition. The zero value is inactive.
//
// Invariant: turns >= 0 at all times.
type ExpiringEffect struct {
	turns int
}

// Active reports whether the effect has turns remaining.
func (e *ExpiringEffect) Active() bool { return e.turns > 0 }

// Turns returns the remaining duration.
func (e *ExpiringEffect) Turns() int { return e.turns }

// Set overwrites the remaining duration. It never accumulates; effects that
// stack turns must call Extend explicitly.
//
// Precondition: turns >= 0.
func (e *ExpiringEffect) Set(turns int) {
	if turns < 0 {
		panic("battle: ExpiringEffect.Set with negative turns")
	}
	e.turns = turns
}

// Extend adds turns to the remaining duration.
//
// Precondition: turns >= 0.
func (e *ExpiringEffect) Extend(turns int) {
	if turns < 0 {
		panic("battle: ExpiringEffect.Extend with negative turns")
	}
	e.turns += turns
}

// Tick decrements the duration by one if the effect is active.
//
// Postcondition: returns true iff the effect just transitioned from active
// to inactive on this call, so expiry messages print exactly once. Ticking
// an inactive effect is a no-op returning false.
func (e *ExpiringEffect) Tick() bool {
	if e.turns == 0 {
		return false
	}
	e.turns--
	return e.turns == 0
}

// Weather is the battle-wide weather condition.
type Weather int

const (
	WeatherNone Weather = iota
	WeatherRain
	WeatherHarshSunlight
	WeatherSandstorm
	WeatherHail
)

// String returns the human-readable weather name.
func (w Weather) String() string {
	switch w {
	case WeatherRain:
		return "rain"
	case WeatherHarshSunlight:
		return "harsh sunlight"
	case WeatherSandstorm:
		return "sandstorm"
	case WeatherHail:
		return "hail"
	default:
		return "clear skies"
	}
}

// Terrain is the battle-wide terrain condition.
type Terrain int

const (
	TerrainNone Terrain = iota
	TerrainElectric
	TerrainGrassy
	TerrainMisty
	TerrainPsychic
)

// String returns the human-readable terrain name.
func (t Terrain) String() string {
	switch t {
	case TerrainElectric:
		return "electric terrain"
	case TerrainGrassy:
		return "grassy terrain"
	case TerrainMisty:
		return "misty terrain"
	case TerrainPsychic:
		return "psychic terrain"
	default:
		return "no terrain"
	}
}

// FieldCondition wraps one active enumerated condition plus its remaining
// duration. C's zero value is the "none" sentinel.
type FieldCondition[C comparable] struct {
	current C
	effect  ExpiringEffect
}

// Set activates condition c for the given number of turns, replacing any
// current condition.
func (f *FieldCondition[C]) Set(c C, turns int) {
	f.current = c
	f.effect.Set(turns)
}

// Current returns the active condition, or (zero, false) when none is active.
func (f *FieldCondition[C]) Current() (C, bool) {
	var zero C
	if f.current == zero {
		return zero, false
	}
	return f.current, true
}

// Is reports whether c is the currently active condition.
func (f *FieldCondition[C]) Is(c C) bool {
	var zero C
	return f.current != zero && f.current == c
}

// None reports whether no condition is active.
func (f *FieldCondition[C]) None() bool {
	var zero C
	return f.current == zero
}

// Turns returns the remaining duration of the active condition.
func (f *FieldCondition[C]) Turns() int { return f.effect.Turns() }

// Tick advances the countdown by one turn. When the condition expires on
// this call, the expired condition is returned with true and the field
// resets to none.
func (f *FieldCondition[C]) Tick() (C, bool) {
	var zero C
	if !f.effect.Tick() {
		return zero, false
	}
	expired := f.current
	f.current = zero
	return expired, true
}
