package hostapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markalston/hostdesk/internal/client"
	"github.com/markalston/hostdesk/internal/session"
)

type testEnv struct {
	svc      *Service
	store    *session.Store
	requests *atomic.Int32
	notified *atomic.Int32
}

func newTestEnv(t *testing.T, handler http.HandlerFunc, opts ...Option) *testEnv {
	t.Helper()
	requests := &atomic.Int32{}
	notified := &atomic.Int32{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	store := session.NewStore(session.NewMemoryKV())
	opts = append([]Option{WithNotifier(NotifierFunc(func(context.Context) {
		notified.Add(1)
	}))}, opts...)
	svc := New(client.New(server.URL), store, opts...)
	t.Cleanup(svc.Close)

	return &testEnv{svc: svc, store: store, requests: requests, notified: notified}
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.store.SetToken(ctx, "abc123"))
	require.NoError(t, e.store.SetUserProfile(ctx, session.Profile{"firstname": "Asha"}))
}

func decodeBody(t *testing.T, r *http.Request) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func unauthorized(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
}

func TestListProperties_SendsTokenInBody(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/host/properties", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		body := decodeBody(t, r)
		assert.Equal(t, "abc123", body["token"])

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"totalNBV":    1250.5,
			"totalNights": 12,
			"properties": []map[string]interface{}{
				{"id": "p1", "name": "Lake House", "nbv": 1250.5, "nightsBooked": 12},
			},
		})
	})
	env.login(t)

	res, err := env.svc.ListProperties(context.Background())
	require.NoError(t, err)
	assert.False(t, res.AuthError)
	assert.Equal(t, 1250.5, res.Value.TotalNBV)
	assert.Equal(t, 12, res.Value.TotalNights)
	require.Len(t, res.Value.Properties, 1)
	assert.Equal(t, "Lake House", res.Value.Properties[0].Name)
}

func TestOperations_NoSessionSendsNothing(t *testing.T) {
	ops := map[string]func(ctx context.Context, s *Service) error{
		"ListProperties": func(ctx context.Context, s *Service) error {
			_, err := s.ListProperties(ctx)
			return err
		},
		"GetProperty": func(ctx context.Context, s *Service) error {
			_, err := s.GetProperty(ctx, "p1")
			return err
		},
		"EarningsByMonth": func(ctx context.Context, s *Service) error {
			_, err := s.EarningsByMonth(ctx, "p1")
			return err
		},
		"PropertyCalendar": func(ctx context.Context, s *Service) error {
			_, err := s.PropertyCalendar(ctx, "p1")
			return err
		},
		"BlockBooking": func(ctx context.Context, s *Service) error {
			_, err := s.BlockBooking(ctx, BlockRequest{PropertyID: "p1", Type: BookingTypeOwner, StartDate: "2026-01-01", EndDate: "2026-01-05"})
			return err
		},
		"UnblockBooking": func(ctx context.Context, s *Service) error {
			_, err := s.UnblockBooking(ctx, "b1")
			return err
		},
		"BookingDetails": func(ctx context.Context, s *Service) error {
			_, err := s.BookingDetails(ctx, "b1", "2026-01-01", "2026-01-05")
			return err
		},
		"RatingDetails": func(ctx context.Context, s *Service) error {
			_, err := s.RatingDetails(ctx, "p1")
			return err
		},
		"MonthlyStatements": func(ctx context.Context, s *Service) error {
			_, err := s.MonthlyStatements(ctx, "p1")
			return err
		},
		"DownloadStatement": func(ctx context.Context, s *Service) error {
			_, err := s.DownloadStatement(ctx, "p1", "2026-01.pdf")
			return err
		},
		"ReferProperty": func(ctx context.Context, s *Service) error {
			_, err := s.ReferProperty(ctx, Referral{OwnerName: "Ravi"})
			return err
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
				t.Errorf("unexpected request to %s", r.URL.Path)
			})

			err := op(context.Background(), env.svc)
			assert.ErrorIs(t, err, ErrNoSession)
			assert.Equal(t, "guest token not found", err.Error())
			assert.Equal(t, int32(0), env.requests.Load())
			assert.Equal(t, int32(0), env.notified.Load())
		})
	}
}

func TestSentinelOperations_401ClearsSessionAndReturnsDefaults(t *testing.T) {
	t.Run("ListProperties", func(t *testing.T) {
		env := newTestEnv(t, unauthorized)
		env.login(t)

		res, err := env.svc.ListProperties(context.Background())
		require.NoError(t, err)
		assert.True(t, res.AuthError)
		assert.Equal(t, 0.0, res.Value.TotalNBV)
		assert.Equal(t, 0, res.Value.TotalNights)
		assert.NotNil(t, res.Value.Properties)
		assert.Empty(t, res.Value.Properties)
		assertSessionExpired(t, env)
	})

	t.Run("GetProperty", func(t *testing.T) {
		env := newTestEnv(t, unauthorized)
		env.login(t)

		res, err := env.svc.GetProperty(context.Background(), "p1")
		require.NoError(t, err)
		assert.True(t, res.AuthError)
		assert.Equal(t, Property{}, res.Value)
		assertSessionExpired(t, env)
	})

	t.Run("EarningsByMonth", func(t *testing.T) {
		env := newTestEnv(t, unauthorized)
		env.login(t)

		res, err := env.svc.EarningsByMonth(context.Background(), "p1")
		require.NoError(t, err)
		assert.True(t, res.AuthError)
		assert.NotNil(t, res.Value.Earnings)
		assert.Empty(t, res.Value.Earnings)
		assert.NotNil(t, res.Value.Nights)
		assert.Empty(t, res.Value.Nights)
		assertSessionExpired(t, env)
	})

	t.Run("BlockBooking", func(t *testing.T) {
		env := newTestEnv(t, unauthorized)
		env.login(t)

		res, err := env.svc.BlockBooking(context.Background(), BlockRequest{PropertyID: "p1", Type: BookingTypeOwner, StartDate: "2026-01-01", EndDate: "2026-01-03"})
		require.NoError(t, err)
		assert.True(t, res.AuthError)
		assert.False(t, res.Value.Success)
		assert.Equal(t, 401, res.Value.Status)
		assert.NotNil(t, res.Value.Blocks)
		assert.Empty(t, res.Value.Blocks)
		assertSessionExpired(t, env)
	})

	t.Run("UnblockBooking", func(t *testing.T) {
		env := newTestEnv(t, unauthorized)
		env.login(t)

		res, err := env.svc.UnblockBooking(context.Background(), "b1")
		require.NoError(t, err)
		assert.True(t, res.AuthError)
		assert.False(t, res.Value.Success)
		assertSessionExpired(t, env)
	})

	t.Run("BookingDetails", func(t *testing.T) {
		env := newTestEnv(t, unauthorized)
		env.login(t)

		res, err := env.svc.BookingDetails(context.Background(), "b1", "2026-01-01", "2026-01-03")
		require.NoError(t, err)
		assert.True(t, res.AuthError)
		assert.Equal(t, BookingDetails{}, res.Value)
		assertSessionExpired(t, env)
	})
}

func assertSessionExpired(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	_, err := env.store.Token(ctx)
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = env.store.UserProfile(ctx)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, int32(1), env.notified.Load())
	assert.Equal(t, int32(1), env.requests.Load())
}

func TestPropagatingOperations_401IsReturned(t *testing.T) {
	ops := map[string]func(ctx context.Context, s *Service) error{
		"PropertyCalendar": func(ctx context.Context, s *Service) error {
			_, err := s.PropertyCalendar(ctx, "p1")
			return err
		},
		"RatingDetails": func(ctx context.Context, s *Service) error {
			_, err := s.RatingDetails(ctx, "p1")
			return err
		},
		"MonthlyStatements": func(ctx context.Context, s *Service) error {
			_, err := s.MonthlyStatements(ctx, "p1")
			return err
		},
		"DownloadStatement": func(ctx context.Context, s *Service) error {
			_, err := s.DownloadStatement(ctx, "p1", "2026-01.pdf")
			return err
		},
		"ReferProperty": func(ctx context.Context, s *Service) error {
			_, err := s.ReferProperty(ctx, Referral{OwnerName: "Ravi"})
			return err
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, unauthorized)
			env.login(t)

			err := op(context.Background(), env.svc)
			require.Error(t, err)
			assert.True(t, client.IsUnauthorized(err))

			var serverErr *client.ServerError
			require.True(t, errors.As(err, &serverErr))
			assert.Equal(t, http.StatusUnauthorized, serverErr.Status)

			// session untouched, nobody notified
			token, err := env.store.Token(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "abc123", token)
			assert.Equal(t, int32(0), env.notified.Load())
		})
	}
}

func TestSentinelOperations_OtherErrorsPropagate(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "database unavailable"})
	})
	env.login(t)

	_, err := env.svc.ListProperties(context.Background())
	var serverErr *client.ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusInternalServerError, serverErr.Status)
	assert.Contains(t, err.Error(), "database unavailable")

	// a single attempt, session kept
	assert.Equal(t, int32(1), env.requests.Load())
	assert.Equal(t, int32(0), env.notified.Load())
	_, err = env.store.Token(context.Background())
	assert.NoError(t, err)
}

func TestSentinelOperations_TransportErrorPropagates(t *testing.T) {
	store := session.NewStore(session.NewMemoryKV())
	require.NoError(t, store.SetToken(context.Background(), "abc123"))
	svc := New(client.New("http://127.0.0.1:1"), store)
	defer svc.Close()

	_, err := svc.GetProperty(context.Background(), "p1")
	var transportErr *client.TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestBlockBooking_SendsParams(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/host/block", r.URL.Path)
		body := decodeBody(t, r)
		assert.Equal(t, "abc123", body["token"])
		assert.Equal(t, "p1", body["propertyId"])
		assert.Equal(t, "owner", body["type"])
		assert.Equal(t, "2026-03-01", body["startDate"])
		assert.Equal(t, "2026-03-04", body["endDate"])

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"status":  200,
			"blocks":  []map[string]string{{"id": "blk-1", "propertyId": "p1", "type": "owner"}},
		})
	})
	env.login(t)

	res, err := env.svc.BlockBooking(context.Background(), BlockRequest{
		PropertyID: "p1", Type: BookingTypeOwner, StartDate: "2026-03-01", EndDate: "2026-03-04",
	})
	require.NoError(t, err)
	assert.False(t, res.AuthError)
	assert.True(t, res.Value.Success)
	require.Len(t, res.Value.Blocks, 1)
	assert.Equal(t, "blk-1", res.Value.Blocks[0].ID)
}

func TestUnblockBooking_UsesDelete(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		body := decodeBody(t, r)
		assert.Equal(t, "blk-1", body["blockId"])
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})
	env.login(t)

	res, err := env.svc.UnblockBooking(context.Background(), "blk-1")
	require.NoError(t, err)
	assert.True(t, res.Value.Success)
}

func TestReferProperty_ReturnsStatus(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		body := decodeBody(t, r)
		assert.Equal(t, "Ravi", body["ownerName"])
		assert.Equal(t, "Goa", body["propertyCity"])
		w.WriteHeader(http.StatusCreated)
	})
	env.login(t)

	status, err := env.svc.ReferProperty(context.Background(), Referral{OwnerName: "Ravi", PropertyCity: "Goa"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
}

func TestMonthlyStatements_EmptyList(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{})
	})
	env.login(t)

	statements, err := env.svc.MonthlyStatements(context.Background(), "p1")
	require.NoError(t, err)
	assert.NotNil(t, statements)
	assert.Empty(t, statements)
}

func TestResult_MarshalJSON(t *testing.T) {
	sentinel := Result[PropertyList]{Value: emptyPropertyList(), AuthError: true}
	data, err := json.Marshal(sentinel)
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalNBV":0,"totalNights":0,"properties":[],"authError":true}`, string(data))

	ok := Result[UnblockResult]{Value: UnblockResult{Success: true}}
	data, err = json.Marshal(ok)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(data))

	details := Result[BookingDetails]{Value: emptyBookingDetails(), AuthError: true}
	data, err = json.Marshal(details)
	require.NoError(t, err)
	assert.JSONEq(t, `{"authError":true}`, string(data))
}
