package pokedex

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// MoveData is the static definition of one move, loaded from YAML.
type MoveData struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Class     string `yaml:"class"` // "physical" | "special" | "status"
	Power     int    `yaml:"power"`
	Accuracy  int    `yaml:"accuracy"` // 0 = never misses
	Priority  int    `yaml:"priority"`
	Targets   string `yaml:"targets"` // "opponent" | "self" | "field"
	Metronome bool   `yaml:"metronome"`
	Script    string `yaml:"script"` // optional Lua script name
}

// Validate checks the structural invariants of a loaded move definition.
func (m MoveData) Validate() error {
	var errs []string
	if m.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if _, err := TypeFromName(m.Type); err != nil {
		errs = append(errs, err.Error())
	}
	switch m.Class {
	case "physical", "special", "status":
	default:
		errs = append(errs, fmt.Sprintf("class must be one of [physical, special, status], got %q", m.Class))
	}
	switch m.Targets {
	case "opponent", "self", "field":
	default:
		errs = append(errs, fmt.Sprintf("targets must be one of [opponent, self, field], got %q", m.Targets))
	}
	if m.Power < 0 {
		errs = append(errs, fmt.Sprintf("power must be >= 0, got %d", m.Power))
	}
	if m.Accuracy < 0 || m.Accuracy > 100 {
		errs = append(errs, fmt.Sprintf("accuracy must be 0-100, got %d", m.Accuracy))
	}
	if len(errs) > 0 {
		return fmt.Errorf("move %q: %s", m.Name, strings.Join(errs, "; "))
	}
	return nil
}

// Catalogue is the immutable set of usable moves for a battle, bulk-loaded
// before the turn loop starts. It also tracks the subset eligible for
// random-effect selection (metronome).
type Catalogue struct {
	moves     map[string]MoveData
	metronome []string
}

// NewCatalogue builds a Catalogue from already-validated move definitions.
//
// Postcondition: the metronome pool is sorted by name so random selection
// with a seeded source is reproducible regardless of load order.
func NewCatalogue(moves []MoveData) (*Catalogue, error) {
	c := &Catalogue{moves: make(map[string]MoveData, len(moves))}
	for _, m := range moves {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.moves[m.Name]; dup {
			return nil, fmt.Errorf("duplicate move %q", m.Name)
		}
		c.moves[m.Name] = m
		if m.Metronome {
			c.metronome = append(c.metronome, m.Name)
		}
	}
	sort.Strings(c.metronome)
	return c, nil
}

// Get returns the move definition for name.
func (c *Catalogue) Get(name string) (MoveData, bool) {
	m, ok := c.moves[name]
	return m, ok
}

// Len returns the number of moves in the catalogue.
func (c *Catalogue) Len() int { return len(c.moves) }

// RandomMetronome picks a uniformly random metronome-eligible move using src.
//
// Postcondition: returns (zero, false) iff the pool is empty.
func (c *Catalogue) RandomMetronome(src interface{ Intn(n int) int }) (MoveData, bool) {
	if len(c.metronome) == 0 {
		return MoveData{}, false
	}
	name := c.metronome[src.Intn(len(c.metronome))]
	return c.moves[name], true
}

// moveFile is the on-disk shape of one catalogue YAML file.
type moveFile struct {
	Moves []MoveData `yaml:"moves"`
}

// LoadDirectory reads every *.yaml file in dir and returns the combined
// Catalogue. Unknown fields are rejected so data typos fail loudly.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Catalogue, or an error if any file fails
// to parse or validate.
func LoadDirectory(dir string) (*Catalogue, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading move dir %q: %w", dir, err)
	}
	var all []MoveData
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var f moveFile
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		all = append(all, f.Moves...)
	}
	return NewCatalogue(all)
}
