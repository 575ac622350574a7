package hostapi

import (
	"context"
	"net/http"
)

// BlockBooking marks a date range unavailable. Callers validate the range first.
func (s *Service) BlockBooking(ctx context.Context, req BlockRequest) (Result[BlockResult], error) {
	params := map[string]interface{}{
		"propertyId": req.PropertyID,
		"type":       req.Type,
		"startDate":  req.StartDate,
		"endDate":    req.EndDate,
	}
	return sentinelCall(ctx, s, http.MethodPost, "/host/block", params, emptyBlockResult)
}

// UnblockBooking removes a previously created block
func (s *Service) UnblockBooking(ctx context.Context, blockID string) (Result[UnblockResult], error) {
	return sentinelCall(ctx, s, http.MethodDelete, "/host/block", map[string]interface{}{"blockId": blockID}, emptyUnblockResult)
}

// BookingDetails fetches a reservation with its property and guest
func (s *Service) BookingDetails(ctx context.Context, bookingID, startDate, endDate string) (Result[BookingDetails], error) {
	params := map[string]interface{}{
		"bookingId": bookingID,
		"startDate": startDate,
		"endDate":   endDate,
	}
	return sentinelCall(ctx, s, http.MethodPost, "/host/booking", params, emptyBookingDetails)
}
