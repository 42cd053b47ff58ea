package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"
)

// ConversionResponse is the body of GET /reference/convert.
type ConversionResponse struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Converted float64 `json:"converted"`
}

// ListCountries handles GET /reference/countries.
// An unavailable catalog yields an empty list, never an error.
func (s *Server) ListCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reference.Countries(r.Context()))
}

// ListCurrencies handles GET /reference/currencies.
func (s *Server) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reference.Currencies(r.Context()))
}

// ConvertAmount handles GET /reference/convert?amount=&from=&to=.
// Unknown currencies leave the amount unchanged.
func (s *Server) ConvertAmount(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount, err := strconv.ParseFloat(q.Get("amount"), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		writeRequestError(w, "amount must be a number")
		return
	}
	from := strings.ToUpper(strings.TrimSpace(q.Get("from")))
	to := strings.ToUpper(strings.TrimSpace(q.Get("to")))
	if from == "" || to == "" {
		writeRequestError(w, "from and to are required")
		return
	}
	writeJSON(w, http.StatusOK, ConversionResponse{
		Amount:    amount,
		From:      from,
		To:        to,
		Converted: s.reference.Convert(r.Context(), amount, from, to),
	})
}
