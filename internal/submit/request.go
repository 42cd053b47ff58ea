package submit

import (
	"github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-wizard/internal/domain"
)

// TripRequest is the body of POST /trips/generate.
type TripRequest struct {
	CustomerType      string            `json:"customer_type" validate:"required,oneof=fresh partial plan_only"`
	ExistingBookings  *ExistingBookings `json:"existing_bookings"`
	PassportCountries []string          `json:"passport_countries" validate:"dive,required"`
	ResidenceCountry  string            `json:"residence_country,omitempty"`
	DepartureLocation string            `json:"departure_location" validate:"required"`
	DepartureAirports []string          `json:"departure_airports" validate:"dive,required"`
	Destinations      []string          `json:"destinations" validate:"min=1,max=5,dive,required"`
	StartDate         types.Date        `json:"start_date"`
	EndDate           types.Date        `json:"end_date"`
	Budget            float64           `json:"budget" validate:"gt=0"`
	Currency          string            `json:"currency" validate:"required,iso4217"`
	Travelers         domain.Travelers  `json:"travelers"`
	FoodPreferences   string            `json:"food_preferences" validate:"required"`
	AccommodationType string            `json:"accommodation_type" validate:"required"`
	Interests         []string          `json:"interests"`
	FitnessInterests  []string          `json:"fitness_interests"`
	NeedInsurance     bool              `json:"need_insurance"`
	CabinClass        string            `json:"cabin_class" validate:"required"`
}

// ExistingBookings is sent for every customer type except fresh.
type ExistingBookings struct {
	HasFlight     bool          `json:"has_flight"`
	FlightDetails FlightDetails `json:"flight_details"`
	HasHotel      bool          `json:"has_hotel"`
	HotelDetails  HotelDetails  `json:"hotel_details"`
	HasInsurance  bool          `json:"has_insurance"`
}

// FlightDetails uses the generator's camelCase field names.
type FlightDetails struct {
	DepartureTime       string `json:"departureTime"`
	ArrivalTime         string `json:"arrivalTime"`
	ReturnDepartureTime string `json:"returnDepartureTime"`
	ReturnArrivalTime   string `json:"returnArrivalTime"`
	Airline             string `json:"airline"`
}

// HotelDetails uses the generator's camelCase field names.
type HotelDetails struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

func existingBookings(b domain.ExistingBookings) *ExistingBookings {
	out := &ExistingBookings{HasInsurance: b.HasInsurance}
	if b.Flight != nil {
		out.HasFlight = true
		out.FlightDetails = FlightDetails{
			DepartureTime:       b.Flight.DepartureTime,
			ArrivalTime:         b.Flight.ArrivalTime,
			ReturnDepartureTime: b.Flight.ReturnDepartureTime,
			ReturnArrivalTime:   b.Flight.ReturnArrivalTime,
			Airline:             b.Flight.Airline,
		}
	}
	if b.Hotel != nil {
		out.HasHotel = true
		out.HotelDetails = HotelDetails{
			Name:     b.Hotel.Name,
			Address:  b.Hotel.Address,
			CheckIn:  b.Hotel.CheckIn,
			CheckOut: b.Hotel.CheckOut,
		}
	}
	return out
}
