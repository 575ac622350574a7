package hostapi

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ListProperties fetches the dashboard summary of all properties
func (s *Service) ListProperties(ctx context.Context) (Result[PropertyList], error) {
	// the session may have been cleared by another process since the slot was filled
	if _, err := s.token(ctx); err != nil {
		if errors.Is(err, ErrNoSession) {
			s.cache.clear()
		}
		return Result[PropertyList]{}, err
	}
	if cached, ok := s.cache.fresh(); ok {
		s.logger.Debug("Serving properties from cache")
		return Result[PropertyList]{Value: cached}, nil
	}

	res, err := sentinelCall(ctx, s, http.MethodPost, "/host/properties", nil, emptyPropertyList)
	if err != nil || res.AuthError {
		return res, err
	}
	if res.Value.Properties == nil {
		res.Value.Properties = []Property{}
	}
	s.cache.store(res.Value)
	return res, nil
}

// ClearCache resets the properties slot
func (s *Service) ClearCache() {
	s.cache.clear()
}

// CachedProperties returns the last successful ListProperties payload and when it was fetched
func (s *Service) CachedProperties() (PropertyList, time.Time, bool) {
	e, ok := s.cache.entry()
	if !ok {
		return PropertyList{}, time.Time{}, false
	}
	return e.payload, e.fetchedAt, true
}

// GetProperty fetches one property by id
func (s *Service) GetProperty(ctx context.Context, id string) (Result[Property], error) {
	return sentinelCall(ctx, s, http.MethodPost, "/host/property", map[string]interface{}{"id": id}, emptyProperty)
}

// EarningsByMonth fetches monthly earnings and nights for a property
func (s *Service) EarningsByMonth(ctx context.Context, propertyID string) (Result[Earnings], error) {
	return sentinelCall(ctx, s, http.MethodPost, "/host/earnings", map[string]interface{}{"propertyId": propertyID}, emptyEarnings)
}

// PropertyCalendar fetches bookings and blocks for a property.
// A 401 is returned as *client.ServerError.
func (s *Service) PropertyCalendar(ctx context.Context, propertyID string) (Calendar, error) {
	var cal Calendar
	err := s.post(ctx, "/host/calendar", map[string]interface{}{"propertyId": propertyID}, &cal)
	return cal, err
}

// RatingDetails fetches per-platform ratings for a property
func (s *Service) RatingDetails(ctx context.Context, propertyID string) (Ratings, error) {
	var ratings Ratings
	err := s.post(ctx, "/host/ratings", map[string]interface{}{"propertyId": propertyID}, &ratings)
	return ratings, err
}
