// ABOUTME: Wire types for the host backend API
// ABOUTME: Properties, earnings, bookings, ratings, statements, and auth payloads

package hostapi

import "github.com/markalston/hostdesk/internal/session"

// Property is a listing owned by the host
type Property struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	ZipCode      string  `json:"zipCode"`
	Country      string  `json:"country"`
	Guests       int     `json:"guests"`
	Bedrooms     int     `json:"bedrooms"`
	Beds         int     `json:"beds"`
	Bathrooms    float64 `json:"bathrooms"`
	ImageURL     string  `json:"imageUrl"`
	NBV          float64 `json:"nbv"`
	NightsBooked int     `json:"nightsBooked"`
}

// PropertyList is the dashboard summary of all the host's properties
type PropertyList struct {
	TotalNBV    float64    `json:"totalNBV"`
	TotalNights int        `json:"totalNights"`
	Properties  []Property `json:"properties"`
}

// MonthlyAmount is earnings for one month
type MonthlyAmount struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// MonthlyNights is nights booked in one month
type MonthlyNights struct {
	Month  string `json:"month"`
	Nights int    `json:"nights"`
}

// Earnings holds month-indexed earnings and nights series
type Earnings struct {
	Earnings []MonthlyAmount `json:"earnings"`
	Nights   []MonthlyNights `json:"nights"`
}

// Booking types
const (
	BookingTypeGuest       = "guest"
	BookingTypeOwner       = "owner"
	BookingTypeMaintenance = "maintenance"
)

// Booking is a guest reservation or an owner/maintenance block
type Booking struct {
	ID         string `json:"id"`
	PropertyID string `json:"propertyId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	GuestName  string `json:"guestName,omitempty"`
}

// Calendar lists bookings and blocks for a property
type Calendar struct {
	PropertyID string    `json:"propertyId"`
	Bookings   []Booking `json:"bookings"`
}

// BlockRequest marks a date range unavailable
type BlockRequest struct {
	PropertyID string
	Type       string
	StartDate  string
	EndDate    string
}

// BlockResult is the backend's answer to a block request
type BlockResult struct {
	Success bool      `json:"success"`
	Status  int       `json:"status"`
	Blocks  []Booking `json:"blocks"`
}

// UnblockResult is the backend's answer to an unblock request
type UnblockResult struct {
	Success bool `json:"success"`
}

// Guest is the guest attached to a reservation
type Guest struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Adults int    `json:"adults"`
	Kids   int    `json:"kids"`
}

// BookingDetails is the nested booking/property/guest object
type BookingDetails struct {
	Booking  *Booking  `json:"booking,omitempty"`
	Property *Property `json:"property,omitempty"`
	Guest    *Guest    `json:"guest,omitempty"`
	Amount   float64   `json:"amount,omitempty"`
}

// Rating is the aggregate score on one platform
type Rating struct {
	Rating  float64 `json:"rating"`
	Reviews int     `json:"reviews"`
}

// Ratings maps platform name to rating
type Ratings map[string]Rating

// Statement is one monthly statement file
type Statement struct {
	Filename string `json:"filename"`
	Month    string `json:"month"`
	Year     int    `json:"year"`
}

type statementsResponse struct {
	Statements []Statement `json:"statements"`
}

type downloadResponse struct {
	URL string `json:"url"`
}

// Referral introduces a new property owner
type Referral struct {
	OwnerName    string
	OwnerEmail   string
	OwnerPhone   string
	PropertyCity string
	Address      string
	Notes        string
}

// LoginResponse is returned by password login and OTP verification
type LoginResponse struct {
	Token string          `json:"token"`
	User  session.Profile `json:"user"`
}

// OTPResponse is returned when an OTP is requested
type OTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
