package domain

// Country is an entry of the passport and residence selectors.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// Currency is a display currency. Rate is relative to a fixed base currency
// shared by every entry returned by the same upstream call.
type Currency struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Symbol string  `json:"symbol"`
	Rate   float64 `json:"rate"`
}

// Airport is a single airport attached to a city suggestion.
type Airport struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CitySuggestion is one autocomplete result. Suggestions are ephemeral: they
// are produced per query and replaced by the next one.
type CitySuggestion struct {
	City     string    `json:"city"`
	Country  string    `json:"country"`
	Airports []Airport `json:"airports,omitempty"`
}

// Label returns the canonical "City, Country" text written into the input
// when the suggestion is selected.
func (s CitySuggestion) Label() string {
	if s.Country == "" {
		return s.City
	}
	return s.City + ", " + s.Country
}

// AirportCodes returns the codes of all airports of the suggestion, in order.
func (s CitySuggestion) AirportCodes() []string {
	codes := make([]string, 0, len(s.Airports))
	for _, a := range s.Airports {
		codes = append(codes, a.Code)
	}
	return codes
}

func (s CitySuggestion) clone() CitySuggestion {
	out := s
	if s.Airports != nil {
		out.Airports = append([]Airport(nil), s.Airports...)
	}
	return out
}

// GeneratedTrip is the raw JSON document returned by the trip generation
// service. Its structure is owned by that service and is not interpreted here.
type GeneratedTrip []byte

// MarshalJSON embeds the document as-is instead of base64-encoding the bytes.
func (t GeneratedTrip) MarshalJSON() ([]byte, error) {
	if len(t) == 0 {
		return []byte("null"), nil
	}
	return t, nil
}
