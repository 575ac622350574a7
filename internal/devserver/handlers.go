// ABOUTME: HTTP handlers for the dev server
// ABOUTME: Auth, properties, calendar blocks, bookings, statements, and referrals

package devserver

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/markalston/hostdesk/internal/hostapi"
	"github.com/markalston/hostdesk/internal/schedule"
)

const maxBodyBytes = 1 << 20

// hostHandler serves a request already authenticated by its body token
type hostHandler func(w http.ResponseWriter, r *http.Request, h host, body []byte)

// withHost reads the token from the JSON body and resolves the host
func (s *Server) withHost(next hostHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			writeJSONError(w, "failed to read body", http.StatusBadRequest)
			return
		}

		var auth struct {
			Token string `json:"token"`
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &auth); err != nil {
				writeJSONError(w, "invalid JSON body", http.StatusBadRequest)
				return
			}
		}

		hostID, err := s.tokens.validate(auth.Token)
		if err != nil {
			slog.Debug("Rejected token", "path", r.URL.Path, "reason", err)
			writeJSONError(w, err.Error(), http.StatusUnauthorized)
			return
		}
		h, ok := s.data.hostByID(hostID)
		if !ok {
			writeJSONError(w, "unknown host", http.StatusUnauthorized)
			return
		}
		next(w, r, h, body)
	}
}

func decodeParams(w http.ResponseWriter, body []byte, v interface{}) bool {
	if err := json.Unmarshal(body, v); err != nil {
		writeJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSONError(w, "failed to read body", http.StatusBadRequest)
		return false
	}
	return decodeParams(w, body, v)
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if !decodeRequest(w, r, &req) {
		return
	}

	h, ok := s.data.hostByLogin(strings.TrimSpace(req.Identifier))
	if !ok || bcrypt.CompareHashAndPassword(h.PasswordHash, []byte(req.Password)) != nil {
		writeJSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	s.writeSession(w, h)
}

func (s *Server) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if !decodeRequest(w, r, &req) {
		return
	}

	if _, ok := s.data.hostByLogin(strings.TrimSpace(req.Phone)); !ok {
		writeJSONError(w, "no host registered with that phone", http.StatusNotFound)
		return
	}
	slog.Info("Dev OTP issued", "phone", req.Phone, "code", s.otp)
	writeJSON(w, http.StatusOK, hostapi.OTPResponse{
		Success: true,
		Message: fmt.Sprintf("Your hostdesk code is %s", s.otp),
	})
}

func (s *Server) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if !decodeRequest(w, r, &req) {
		return
	}

	h, ok := s.data.hostByLogin(strings.TrimSpace(req.Phone))
	if !ok {
		writeJSONError(w, "no host registered with that phone", http.StatusNotFound)
		return
	}
	if req.Code != s.otp {
		writeJSONError(w, "invalid code", http.StatusUnauthorized)
		return
	}
	s.writeSession(w, h)
}

func (s *Server) writeSession(w http.ResponseWriter, h host) {
	token, err := s.tokens.issue(h.ID)
	if err != nil {
		slog.Error("Failed to sign token", "error", err)
		writeJSONError(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, hostapi.LoginResponse{Token: token, User: h.profile()})
}

func (s *Server) ListProperties(w http.ResponseWriter, r *http.Request, h host, body []byte) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()

	list := hostapi.PropertyList{Properties: []hostapi.Property{}}
	for _, rec := range s.data.propertiesFor(h.ID) {
		list.Properties = append(list.Properties, rec.property)
		list.TotalNBV += rec.property.NBV
		list.TotalNights += rec.property.NightsBooked
	}
	writeJSON(w, http.StatusOK, list)
}

type propertyParams struct {
	PropertyID string `json:"propertyId"`
}

// lookup resolves the property named in the body, writing 400/404 on failure.
// Callers must hold s.data.mu.
func (s *Server) lookup(w http.ResponseWriter, h host, id string) (*propertyRecord, bool) {
	if id == "" {
		writeJSONError(w, "propertyId is required", http.StatusBadRequest)
		return nil, false
	}
	rec, ok := s.data.property(h.ID, id)
	if !ok {
		writeJSONError(w, "property not found", http.StatusNotFound)
		return nil, false
	}
	return rec, true
}

func (s *Server) GetProperty(w http.ResponseWriter, r *http.Request, h host, body []byte) {
	var req struct {
		ID string `json:"id"`
	}
	if !decodeParams(w, body, &req) {
		return
	}

	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	rec, ok := s.lookup(w, h, req.ID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec.property)
}

func (s *Server) Earnings(w http.ResponseWriter, r *http.Request, h host, body []byte) {
	var req propertyParams
	if !decodeParams(w, body, &req) {
		return
	}

	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	rec, ok := s.lookup(w, h, req.PropertyID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec.earnings)
}

func (s *Server) Calendar(w http.ResponseWriter, r *http.Request, h host, body []byte) {
	var req propertyParams
	if !decodeParams(w, body, &req) {
		return
	}

	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	rec, ok := s.lookup(w, h, req.PropertyID)
	if !ok {
		return
	}
	bookings := append([]hostapi.Booking{}, rec.bookings...)
	writeJSON(w, http.StatusOK, hostapi.Calendar{PropertyID: rec.property.ID, Bookings: bookings})
}

func (s *Server) Ratings(w http.ResponseWriter, r *http.Request, h host, body []byte) {
	var req propertyParams
	if !decodeParams(w, body, &req) {
		return
	}

	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	rec, ok := s.lookup(w, h, req.PropertyID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec.ratings)
}

func (s *Server) Block(w http.ResponseWriter, r *http.Request, h host, body []byte) {
	var req struct {
		PropertyID string `json:"propertyId"`
		Type       string `json:"type"`
		StartDate  string `json:"startDate"`
		EndDate    string `json:"endDate"`
	}
	if !decodeParams(w, body, &req) {
		return
	}

	block, err := schedule.ValidateBlock(req.StartDate, req.EndDate, req.Type)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	rec, ok := s.lookup(w, h, req.PropertyID)
	if !ok {
		return
	}

	start := block.Start.Format(schedule.DateLayout)
	end := block.End.Format(schedule.DateLayout)
	for _, b := range rec.bookings {
		if start <= b.EndDate && b.StartDate <= end {
			writeJSONError(w, fmt.Sprintf("dates overlap %s %s", b.Type, b.ID), http.StatusConflict)
			return
		}
	}

	rec.bookings = append(rec.bookings, hostapi.Booking{
		ID:         "blk-" + uuid.NewString()[:8],
		PropertyID: rec.property.ID,
		StartDate:  start,
		EndDate:    end,
		Type:       block.Type,
		Status:     "confirmed",
	})
	sortBookings(rec.bookings)

	blocks := []hostapi.Booking{}
	for _, b := range rec.bookings {
		if b.Type != hostapi.BookingTypeGuest {
			blocks = append(blocks, b)
		}
	}
	writeJSON(w, http.StatusOK, hostapi.BlockResult{Success: true, Status: http.StatusOK, Blocks: blocks})
}

func (s *Server) Unblock(w http.ResponseWriter, r *http.Request, h host, body []byte) {
	var req struct {
		BlockID string `json:"blockId"`
	}
	if !decodeParams(w, body, &req) {
		return
	}
	if req.BlockID == "" {
		writeJSONError(w, "blockId is required", http.StatusBadRequest)
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for _, rec := range s.data.propertiesFor(h.ID) {
		for i, b := range rec.bookings {
			if b.ID != req.BlockID {
				continue
			}
			if b.Type == hostapi.BookingTypeGuest {
				writeJSONError(w, "guest bookings cannot be unblocked", http.StatusBadRequest)
				return
			}
			rec.bookings = append(rec.bookings[:i], rec.bookings[i+1:]...)
			writeJSON(w, http.StatusOK, hostapi.UnblockResult{Success: true})
			return
		}
	}
	writeJSONError(w, "block not found", http.StatusNotFound)
}

func (s *Server) BookingDetails(w http.ResponseWriter, r *http.Request, h host, body []byte) {
	var req struct {
		BookingID string `json:"bookingId"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if !decodeParams(w, body, &req) {
		return
	}
	if req.BookingID == "" {
		writeJSONError(w, "bookingId is required", http.StatusBadRequest)
		return
	}

	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	for _, rec := range s.data.propertiesFor(h.ID) {
		for _, b := range rec.bookings {
			if b.ID != req.BookingID {
				continue
			}
			if (req.StartDate != "" && req.StartDate != b.StartDate) || (req.EndDate != "" && req.EndDate != b.EndDate) {
				writeJSONError(w, "booking not found for those dates", http.StatusNotFound)
				return
			}
			booking := b
			property := rec.property
			details := hostapi.BookingDetails{Booking: &booking, Property: &property, Amount: rec.amounts[b.ID]}
			if g, ok := rec.guests[b.ID]; ok {
				details.Guest = &g
			}
			writeJSON(w, http.StatusOK, details)
			return
		}
	}
	writeJSONError(w, "booking not found", http.StatusNotFound)
}

func (s *Server) Statements(w http.ResponseWriter, r *http.Request, h host, body []byte) {
	var req propertyParams
	if !decodeParams(w, body, &req) {
		return
	}

	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	rec, ok := s.lookup(w, h, req.PropertyID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"statements": rec.statements})
}

func (s *Server) DownloadStatement(w http.ResponseWriter, r *http.Request, h host, body []byte) {
	var req struct {
		PropertyID string `json:"propertyId"`
		Filename   string `json:"filename"`
	}
	if !decodeParams(w, body, &req) {
		return
	}

	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	rec, ok := s.lookup(w, h, req.PropertyID)
	if !ok {
		return
	}
	if !hasStatement(rec, req.Filename) {
		writeJSONError(w, "statement not found", http.StatusNotFound)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/files/statements/%s/%s", scheme, r.Host, rec.property.ID, req.Filename)
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// StatementFile serves the document behind a download URL
func (s *Server) StatementFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	rec, ok := s.data.properties[vars["propertyId"]]
	if !ok || !hasStatement(rec, vars["filename"]) {
		writeJSONError(w, "statement not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Statement %s for %s\nNet booking value: %.2f\nNights booked: %d\n",
		vars["filename"], rec.property.Name, rec.property.NBV, rec.property.NightsBooked)
}

func hasStatement(rec *propertyRecord, filename string) bool {
	for _, st := range rec.statements {
		if st.Filename == filename {
			return true
		}
	}
	return false
}

func (s *Server) Refer(w http.ResponseWriter, r *http.Request, h host, body []byte) {
	var req struct {
		OwnerName    string `json:"ownerName"`
		OwnerEmail   string `json:"ownerEmail"`
		OwnerPhone   string `json:"ownerPhone"`
		PropertyCity string `json:"propertyCity"`
		Address      string `json:"address"`
		Notes        string `json:"notes"`
	}
	if !decodeParams(w, body, &req) {
		return
	}
	if strings.TrimSpace(req.OwnerName) == "" {
		writeJSONError(w, "ownerName is required", http.StatusBadRequest)
		return
	}
	if req.OwnerEmail == "" && req.OwnerPhone == "" {
		writeJSONError(w, "ownerEmail or ownerPhone is required", http.StatusBadRequest)
		return
	}

	ref := referral{
		ID:     uuid.NewString(),
		HostID: h.ID,
		Referral: hostapi.Referral{
			OwnerName:    req.OwnerName,
			OwnerEmail:   req.OwnerEmail,
			OwnerPhone:   req.OwnerPhone,
			PropertyCity: req.PropertyCity,
			Address:      req.Address,
			Notes:        req.Notes,
		},
	}

	s.data.mu.Lock()
	s.data.referrals = append(s.data.referrals, ref)
	s.data.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "id": ref.ID})
}
