package domain

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Place is a city input of the wizard: the departure or one destination.
//
// The selected airports always belong to the last accepted suggestion. Typing
// over an accepted label forgets the suggestion and its airports, so the
// displayed text and the airport selection can never disagree.
type Place struct {
	label    string
	accepted *CitySuggestion
	airports []string
}

// Label returns the text currently shown in the input.
func (p Place) Label() string {
	return p.label
}

// HasCity reports whether the input holds any non-blank text.
func (p Place) HasCity() bool {
	return strings.TrimSpace(p.label) != ""
}

// Accepted returns the suggestion the label was taken from, if any.
func (p Place) Accepted() (CitySuggestion, bool) {
	if p.accepted == nil {
		return CitySuggestion{}, false
	}
	return p.accepted.clone(), true
}

// SelectedAirports returns the selected airport codes in suggestion order.
func (p Place) SelectedAirports() []string {
	return append([]string{}, p.airports...)
}

// SetText records free-text input. If the text no longer matches the accepted
// suggestion's label, the suggestion and its airports are dropped.
func (p *Place) SetText(text string) {
	p.label = text
	if p.accepted != nil && p.accepted.Label() != text {
		p.accepted = nil
		p.airports = nil
	}
}

// Accept replaces the label with the suggestion's canonical label and selects
// all of its airports.
func (p *Place) Accept(s CitySuggestion) {
	c := s.clone()
	p.label = c.Label()
	p.accepted = &c
	p.airports = c.AirportCodes()
}

// ToggleAirport adds or removes code from the selection. Only airports of the
// accepted suggestion can be selected.
func (p *Place) ToggleAirport(code string) error {
	if p.accepted == nil {
		return fmt.Errorf("%w: no city selected", ErrValidation)
	}
	known := false
	for _, a := range p.accepted.Airports {
		if a.Code == code {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: airport %q does not belong to %s", ErrValidation, code, p.accepted.Label())
	}

	selected := make(map[string]bool, len(p.airports))
	for _, c := range p.airports {
		selected[c] = true
	}
	selected[code] = !selected[code]

	// Rebuild in suggestion order so the selection is stable across toggles.
	out := make([]string, 0, len(p.accepted.Airports))
	for _, a := range p.accepted.Airports {
		if selected[a.Code] {
			out = append(out, a.Code)
		}
	}
	p.airports = out
	return nil
}

func (p Place) clone() Place {
	out := Place{label: p.label, airports: append([]string(nil), p.airports...)}
	if p.accepted != nil {
		c := p.accepted.clone()
		out.accepted = &c
	}
	return out
}

type placeJSON struct {
	Label    string          `json:"label"`
	Accepted *CitySuggestion `json:"accepted,omitempty"`
	Airports []string        `json:"selected_airports,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (p Place) MarshalJSON() ([]byte, error) {
	return json.Marshal(placeJSON{Label: p.label, Accepted: p.accepted, Airports: p.airports})
}

// UnmarshalJSON implements json.Unmarshaler. Airports that do not belong to
// the accepted suggestion are ignored.
func (p *Place) UnmarshalJSON(data []byte) error {
	var in placeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*p = Place{label: in.Label}
	if in.Accepted == nil || in.Accepted.Label() != in.Label {
		return nil
	}
	accepted := in.Accepted.clone()
	p.accepted = &accepted
	for _, code := range in.Airports {
		for _, a := range accepted.Airports {
			if a.Code == code {
				p.airports = append(p.airports, code)
				break
			}
		}
	}
	return nil
}
