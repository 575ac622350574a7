package hostapi

import "encoding/json"

// Result carries the payload of an operation that normalizes 401 into AuthError.
// When AuthError is true, Value holds the operation's empty defaults and the
// local session has already been cleared.
type Result[T any] struct {
	Value     T
	AuthError bool
}

// MarshalJSON flattens Value and adds "authError": true for sentinels
func (r Result[T]) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(r.Value)
	if err != nil || !r.AuthError {
		return data, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return json.Marshal(struct {
			Value     T    `json:"value"`
			AuthError bool `json:"authError"`
		}{r.Value, true})
	}
	fields["authError"] = json.RawMessage("true")
	return json.Marshal(fields)
}

func emptyPropertyList() PropertyList {
	return PropertyList{Properties: []Property{}}
}

func emptyProperty() Property {
	return Property{}
}

func emptyEarnings() Earnings {
	return Earnings{Earnings: []MonthlyAmount{}, Nights: []MonthlyNights{}}
}

func emptyBlockResult() BlockResult {
	return BlockResult{Success: false, Status: 401, Blocks: []Booking{}}
}

func emptyUnblockResult() UnblockResult {
	return UnblockResult{Success: false}
}

func emptyBookingDetails() BookingDetails {
	return BookingDetails{}
}
