package domain

import (
	"fmt"

	"github.com/goccy/go-json"
)

// CustomerType distinguishes fully fresh planning from flows where the
// traveler already holds some reservations.
type CustomerType string

const (
	// CustomerFresh needs flights, hotels and a full itinerary.
	CustomerFresh CustomerType = "fresh"
	// CustomerPartial holds some bookings (flight or hotel) and needs the rest.
	CustomerPartial CustomerType = "partial"
	// CustomerItineraryOnly holds flights and hotels and only needs day plans.
	CustomerItineraryOnly CustomerType = "plan_only"
)

// Valid reports whether t is one of the known customer types.
func (t CustomerType) Valid() bool {
	switch t {
	case CustomerFresh, CustomerPartial, CustomerItineraryOnly:
		return true
	}
	return false
}

// FlightBooking describes a flight the traveler already booked.
// Times are kept as entered; they are forwarded to the generator verbatim.
type FlightBooking struct {
	DepartureTime       string `json:"departure_time"`
	ArrivalTime         string `json:"arrival_time"`
	ReturnDepartureTime string `json:"return_departure_time"`
	ReturnArrivalTime   string `json:"return_arrival_time"`
	Airline             string `json:"airline"`
}

// HotelBooking describes a hotel the traveler already booked.
type HotelBooking struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

// ExistingBookings is the step-one sub-form shown to partial and
// itinerary-only customers. A nil Flight or Hotel means "not booked".
type ExistingBookings struct {
	Flight       *FlightBooking `json:"flight,omitempty"`
	Hotel        *HotelBooking  `json:"hotel,omitempty"`
	HasInsurance bool           `json:"has_insurance"`
}

func (b ExistingBookings) clone() ExistingBookings {
	out := ExistingBookings{HasInsurance: b.HasInsurance}
	if b.Flight != nil {
		f := *b.Flight
		out.Flight = &f
	}
	if b.Hotel != nil {
		h := *b.Hotel
		out.Hotel = &h
	}
	return out
}

// Customer is the answer to step one. Existing bookings can only be attached
// to partial and itinerary-only customers; a fresh customer never carries them.
// The zero value is an unset customer.
type Customer struct {
	kind     CustomerType
	bookings ExistingBookings
}

// NewCustomer builds a Customer of the given type. Bookings passed for a fresh
// customer are discarded.
func NewCustomer(kind CustomerType, bookings ExistingBookings) (Customer, error) {
	if !kind.Valid() {
		return Customer{}, fmt.Errorf("%w: unknown customer type %q", ErrValidation, kind)
	}
	if kind == CustomerFresh {
		return Customer{kind: kind}, nil
	}
	return Customer{kind: kind, bookings: bookings.clone()}, nil
}

// FreshCustomer returns the default step-one answer.
func FreshCustomer() Customer {
	return Customer{kind: CustomerFresh}
}

// Type returns the customer type, or "" when unset.
func (c Customer) Type() CustomerType {
	return c.kind
}

// IsSet reports whether a customer type was chosen.
func (c Customer) IsSet() bool {
	return c.kind.Valid()
}

// Bookings returns the existing bookings. ok is false for fresh and unset
// customers.
func (c Customer) Bookings() (ExistingBookings, bool) {
	if c.kind != CustomerPartial && c.kind != CustomerItineraryOnly {
		return ExistingBookings{}, false
	}
	return c.bookings.clone(), true
}

type customerJSON struct {
	Type     CustomerType      `json:"type"`
	Bookings *ExistingBookings `json:"existing_bookings,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (c Customer) MarshalJSON() ([]byte, error) {
	out := customerJSON{Type: c.kind}
	if b, ok := c.Bookings(); ok {
		out.Bookings = &b
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. An empty type decodes to the
// unset customer.
func (c *Customer) UnmarshalJSON(data []byte) error {
	var in customerJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Type == "" {
		*c = Customer{}
		return nil
	}
	var b ExistingBookings
	if in.Bookings != nil {
		b = *in.Bookings
	}
	out, err := NewCustomer(in.Type, b)
	if err != nil {
		return err
	}
	*c = out
	return nil
}
