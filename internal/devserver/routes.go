// ABOUTME: Declarative route table for the dev server
// ABOUTME: Every endpoint the hostdesk client calls, with its HTTP method

package devserver

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Route defines an endpoint with its HTTP method and handler.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Routes returns all routes for registration.
func (s *Server) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/health", Handler: s.Health},

		// Auth
		{Method: http.MethodPost, Path: "/auth/login", Handler: s.Login},
		{Method: http.MethodPost, Path: "/auth/otp/request", Handler: s.RequestOTP},
		{Method: http.MethodPost, Path: "/auth/otp/verify", Handler: s.VerifyOTP},

		// Properties
		{Method: http.MethodPost, Path: "/host/properties", Handler: s.withHost(s.ListProperties)},
		{Method: http.MethodPost, Path: "/host/property", Handler: s.withHost(s.GetProperty)},
		{Method: http.MethodPost, Path: "/host/earnings", Handler: s.withHost(s.Earnings)},
		{Method: http.MethodPost, Path: "/host/calendar", Handler: s.withHost(s.Calendar)},
		{Method: http.MethodPost, Path: "/host/ratings", Handler: s.withHost(s.Ratings)},

		// Bookings
		{Method: http.MethodPost, Path: "/host/block", Handler: s.withHost(s.Block)},
		{Method: http.MethodDelete, Path: "/host/block", Handler: s.withHost(s.Unblock)},
		{Method: http.MethodPost, Path: "/host/booking", Handler: s.withHost(s.BookingDetails)},

		// Statements & referrals
		{Method: http.MethodPost, Path: "/host/statements", Handler: s.withHost(s.Statements)},
		{Method: http.MethodPost, Path: "/host/statements/download", Handler: s.withHost(s.DownloadStatement)},
		{Method: http.MethodGet, Path: "/files/statements/{propertyId}/{filename}", Handler: s.StatementFile},
		{Method: http.MethodPut, Path: "/host/referrals", Handler: s.withHost(s.Refer)},
	}
}

// Handler builds the router with logging on every route
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	for _, route := range s.Routes() {
		r.HandleFunc(route.Path, Chain(route.Handler, LogRequest)).Methods(route.Method)
	}
	r.NotFoundHandler = Chain(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, "not found", http.StatusNotFound)
	}, LogRequest)
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
	})
	return r
}
