package wizard

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/trip-wizard/internal/domain"
)

// DefaultProfile is the profile used when none is requested.
const DefaultProfile = "standard"

//go:embed profiles.yaml
var defaultProfiles []byte

// Options are the catalogs offered by the preference step. An empty catalog
// accepts any value.
type Options struct {
	Interests     []string `yaml:"interests" json:"interests"`
	Fitness       []string `yaml:"fitness" json:"fitness"`
	Food          []string `yaml:"food" json:"food"`
	Accommodation []string `yaml:"accommodation" json:"accommodation"`
	CabinClasses  []string `yaml:"cabin_classes" json:"cabin_classes"`
}

// Profile arranges gates into a flow. Step N (1-based) uses Steps[N-1].
type Profile struct {
	Name  string `yaml:"-" json:"name"`
	Steps []Gate `yaml:"steps" json:"steps"`

	// InterestLimit caps the number of selected interests; 0 means uncapped.
	InterestLimit int `yaml:"interest_limit" json:"interest_limit"`

	// DestinationLimit caps the destination list; 0 means domain.MaxDestinations.
	DestinationLimit int `yaml:"destination_limit" json:"destination_limit"`

	Options Options `yaml:"options" json:"options"`
}

// StepCount returns the number of steps of the flow.
func (p Profile) StepCount() int {
	return len(p.Steps)
}

// GateFor returns the gate of step, or "" when step is out of range.
func (p Profile) GateFor(step int) Gate {
	if step < 1 || step > len(p.Steps) {
		return ""
	}
	return p.Steps[step-1]
}

// CanProceed reports whether step is passable for d.
func (p Profile) CanProceed(step int, d *domain.TripDraft) bool {
	return p.GateFor(step).Passes(d)
}

// FirstBlocked returns the first step whose gate fails, or 0 when every step passes.
func (p Profile) FirstBlocked(d *domain.TripDraft) int {
	for i, g := range p.Steps {
		if !g.Passes(d) {
			return i + 1
		}
	}
	return 0
}

// Allows reports whether v is offered by catalog. Empty catalogs allow anything.
func Allows(catalog []string, v string) bool {
	if len(catalog) == 0 {
		return true
	}
	for _, c := range catalog {
		if c == v {
			return true
		}
	}
	return false
}

func (p Profile) validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("profile %q: no steps", p.Name)
	}
	seen := make(map[Gate]bool, len(p.Steps))
	for _, g := range p.Steps {
		if !g.Valid() {
			return fmt.Errorf("profile %q: unknown gate %q", p.Name, g)
		}
		if seen[g] {
			return fmt.Errorf("profile %q: gate %q listed twice", p.Name, g)
		}
		seen[g] = true
	}
	if p.InterestLimit < 0 {
		return fmt.Errorf("profile %q: interest_limit must not be negative", p.Name)
	}
	if p.DestinationLimit < 0 || p.DestinationLimit > domain.MaxDestinations {
		return fmt.Errorf("profile %q: destination_limit must be within [0, %d]", p.Name, domain.MaxDestinations)
	}
	return nil
}

// Profiles is a set of named profiles.
type Profiles map[string]Profile

// Get returns the named profile; an empty name selects DefaultProfile.
func (ps Profiles) Get(name string) (Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	p, ok := ps[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: unknown wizard profile %q", domain.ErrValidation, name)
	}
	return p, nil
}

// Names returns the profile names in sorted order.
func (ps Profiles) Names() []string {
	names := make([]string, 0, len(ps))
	for n := range ps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type profileFile struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// ParseProfiles decodes a YAML profile document and validates every profile.
func ParseProfiles(data []byte) (Profiles, error) {
	var f profileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("wizard.ParseProfiles: %w", err)
	}
	if len(f.Profiles) == 0 {
		return nil, fmt.Errorf("wizard.ParseProfiles: no profiles defined")
	}
	out := make(Profiles, len(f.Profiles))
	for name, p := range f.Profiles {
		p.Name = name
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("wizard.ParseProfiles: %w", err)
		}
		out[name] = p
	}
	return out, nil
}

// LoadProfiles reads profiles from path, or the built-in set when path is empty.
func LoadProfiles(path string) (Profiles, error) {
	if path == "" {
		return ParseProfiles(defaultProfiles)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wizard.LoadProfiles: %w", err)
	}
	return ParseProfiles(data)
}
