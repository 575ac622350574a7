// ABOUTME: In-memory seed data for the dev server
// ABOUTME: One host with two properties, bookings, earnings, ratings, and statements

package devserver

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/markalston/hostdesk/internal/hostapi"
	"github.com/markalston/hostdesk/internal/session"
)

// Seeded host credentials
const (
	SeedEmail    = "asha@example.com"
	SeedPhone    = "+15550100"
	SeedPassword = "password"
)

type host struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash []byte
}

func (h host) profile() session.Profile {
	return session.Profile{
		"id":        h.ID,
		"firstname": h.FirstName,
		"lastname":  h.LastName,
		"email":     h.Email,
		"phone":     h.Phone,
	}
}

type propertyRecord struct {
	hostID     string
	property   hostapi.Property
	bookings   []hostapi.Booking
	guests     map[string]hostapi.Guest
	amounts    map[string]float64
	earnings   hostapi.Earnings
	ratings    hostapi.Ratings
	statements []hostapi.Statement
}

type referral struct {
	ID     string
	HostID string
	hostapi.Referral
}

type store struct {
	mu         sync.RWMutex
	hosts      []host
	properties map[string]*propertyRecord
	order      []string
	referrals  []referral
}

func (s *store) hostByLogin(identifier string) (host, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.hosts {
		if h.Email == identifier || h.Phone == identifier {
			return h, true
		}
	}
	return host{}, false
}

func (s *store) hostByID(id string) (host, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.hosts {
		if h.ID == id {
			return h, true
		}
	}
	return host{}, false
}

// seedStore builds the dev data set. Dates are relative to now so the calendar stays current.
func seedStore(now time.Time) (*store, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	s := &store{
		hosts: []host{{
			ID:           "host-1",
			FirstName:    "Asha",
			LastName:     "Rao",
			Email:        SeedEmail,
			Phone:        SeedPhone,
			PasswordHash: hash,
		}},
		properties: make(map[string]*propertyRecord),
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := func(offset int) string {
		return today.AddDate(0, 0, offset).Format("2006-01-02")
	}

	s.add(&propertyRecord{
		hostID: "host-1",
		property: hostapi.Property{
			ID: "prop-lake", Name: "Lake House", Address: "12 Shore Road", City: "Nainital",
			State: "Uttarakhand", ZipCode: "263001", Country: "IN",
			Guests: 6, Bedrooms: 3, Beds: 4, Bathrooms: 2,
			ImageURL: "https://images.example.com/lake-house.jpg",
		},
		bookings: []hostapi.Booking{
			{ID: "bk-101", PropertyID: "prop-lake", StartDate: day(-10), EndDate: day(-7), Type: hostapi.BookingTypeGuest, Status: "confirmed", GuestName: "Meera Iyer"},
			{ID: "bk-102", PropertyID: "prop-lake", StartDate: day(3), EndDate: day(6), Type: hostapi.BookingTypeGuest, Status: "confirmed", GuestName: "Kabir Shah"},
			{ID: "blk-103", PropertyID: "prop-lake", StartDate: day(20), EndDate: day(22), Type: hostapi.BookingTypeMaintenance, Status: "confirmed"},
		},
		guests: map[string]hostapi.Guest{
			"bk-101": {Name: "Meera Iyer", Email: "meera@example.com", Adults: 2, Kids: 1},
			"bk-102": {Name: "Kabir Shah", Email: "kabir@example.com", Adults: 4},
		},
		amounts: map[string]float64{"bk-101": 540, "bk-102": 810},
		earnings: monthlySeries(today, []float64{1200, 1450, 980, 1720, 2100, 1350}, []int{9, 11, 7, 14, 17, 10}),
		ratings: hostapi.Ratings{
			"airbnb":  {Rating: 4.8, Reviews: 126},
			"booking": {Rating: 9.1, Reviews: 54},
		},
		statements: statementSeries(today, 3),
	})

	s.add(&propertyRecord{
		hostID: "host-1",
		property: hostapi.Property{
			ID: "prop-city", Name: "City Loft", Address: "4 Residency Road", City: "Bengaluru",
			State: "Karnataka", ZipCode: "560025", Country: "IN",
			Guests: 2, Bedrooms: 1, Beds: 1, Bathrooms: 1,
			ImageURL: "https://images.example.com/city-loft.jpg",
		},
		bookings: []hostapi.Booking{
			{ID: "bk-201", PropertyID: "prop-city", StartDate: day(-2), EndDate: day(1), Type: hostapi.BookingTypeGuest, Status: "confirmed", GuestName: "Daniel Brooks"},
			{ID: "blk-202", PropertyID: "prop-city", StartDate: day(10), EndDate: day(12), Type: hostapi.BookingTypeOwner, Status: "confirmed"},
		},
		guests: map[string]hostapi.Guest{
			"bk-201": {Name: "Daniel Brooks", Email: "daniel@example.com", Adults: 1},
		},
		amounts:  map[string]float64{"bk-201": 270},
		earnings: monthlySeries(today, []float64{640, 710, 820, 590, 900, 760}, []int{8, 9, 11, 7, 12, 10}),
		ratings: hostapi.Ratings{
			"airbnb": {Rating: 4.6, Reviews: 61},
		},
		statements: statementSeries(today, 2),
	})

	for _, rec := range s.properties {
		rec.recompute()
	}
	return s, nil
}

func (s *store) add(rec *propertyRecord) {
	s.properties[rec.property.ID] = rec
	s.order = append(s.order, rec.property.ID)
}

// recompute derives the property's NBV and nights booked from its earnings
func (r *propertyRecord) recompute() {
	r.property.NBV = 0
	r.property.NightsBooked = 0
	for _, e := range r.earnings.Earnings {
		r.property.NBV += e.Amount
	}
	for _, n := range r.earnings.Nights {
		r.property.NightsBooked += n.Nights
	}
}

// monthlySeries labels amounts and nights with the months leading up to today, oldest first
func monthlySeries(today time.Time, amounts []float64, nights []int) hostapi.Earnings {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	e := hostapi.Earnings{}
	for i := range amounts {
		month := first.AddDate(0, i-len(amounts)+1, 0).Format("2006-01")
		e.Earnings = append(e.Earnings, hostapi.MonthlyAmount{Month: month, Amount: amounts[i]})
		e.Nights = append(e.Nights, hostapi.MonthlyNights{Month: month, Nights: nights[i]})
	}
	return e
}

// statementSeries lists statements for the n months before today, newest first
func statementSeries(today time.Time, n int) []hostapi.Statement {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	statements := make([]hostapi.Statement, 0, n)
	for i := 1; i <= n; i++ {
		m := first.AddDate(0, -i, 0)
		statements = append(statements, hostapi.Statement{
			Filename: fmt.Sprintf("statement-%s.pdf", m.Format("2006-01")),
			Month:    m.Format("January"),
			Year:     m.Year(),
		})
	}
	return statements
}

// propertiesFor returns the host's property records in seed order
func (s *store) propertiesFor(hostID string) []*propertyRecord {
	var out []*propertyRecord
	for _, id := range s.order {
		if rec := s.properties[id]; rec.hostID == hostID {
			out = append(out, rec)
		}
	}
	return out
}

// property returns a record only if it belongs to the host
func (s *store) property(hostID, propertyID string) (*propertyRecord, bool) {
	rec, ok := s.properties[propertyID]
	if !ok || rec.hostID != hostID {
		return nil, false
	}
	return rec, true
}

func sortBookings(bookings []hostapi.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].StartDate < bookings[j].StartDate
	})
}
