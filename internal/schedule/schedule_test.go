package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markalston/hostdesk/internal/hostapi"
)

func TestValidateBlock(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		blockType string
		wantErr   error
		wantDays  int
	}{
		{"single day", "2026-03-01", "2026-03-01", "owner", nil, 0},
		{"fifteen days allowed", "2026-03-01", "2026-03-16", "owner", nil, 15},
		{"sixteen days rejected", "2026-03-01", "2026-03-17", "owner", ErrBlockTooLong, 0},
		{"across month end", "2026-01-25", "2026-02-08", "maintenance", nil, 14},
		{"end before start", "2026-03-10", "2026-03-09", "owner", ErrEndBeforeStart, 0},
		{"guest type not allowed", "2026-03-01", "2026-03-02", "guest", ErrInvalidBlockType, 0},
		{"type is case insensitive", "2026-03-01", "2026-03-02", "Maintenance", nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ValidateBlock(tt.start, tt.end, tt.blockType)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDays, b.Days())
			assert.Equal(t, strings.ToLower(tt.blockType), b.Type)
		})
	}
}

func TestValidateBlock_BadDate(t *testing.T) {
	_, err := ValidateBlock("03/01/2026", "2026-03-02", "owner")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2026-12-31 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("2026-02-30")
	assert.Error(t, err)
}

func TestBuildCalendarICS(t *testing.T) {
	now := time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)
	property := hostapi.Property{ID: "p1", Name: "Lake House, North", Address: "1 Shore Rd"}
	bookings := []hostapi.Booking{
		{ID: "bk-1", StartDate: "2026-04-10", EndDate: "2026-04-13", Type: "guest", Status: "confirmed", GuestName: "Meera"},
		{ID: "blk-2", StartDate: "2026-04-20", EndDate: "2026-04-20", Type: "owner"},
	}

	ics, err := BuildCalendarICS(property, bookings, now)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR\r\n"))
	assert.Contains(t, ics, "X-WR-CALNAME:Lake House\\, North")
	assert.Contains(t, ics, "UID:bk-1@hostdesk")
	assert.Contains(t, ics, "DTSTAMP:20260402T103000Z")
	assert.Contains(t, ics, "SUMMARY:Guest: Meera")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20260410")
	assert.Contains(t, ics, "DTEND;VALUE=DATE:20260413")
	assert.Contains(t, ics, "STATUS:CONFIRMED")
	assert.Contains(t, ics, "SUMMARY:Owner block")
	// same-day block spans one day
	assert.Contains(t, ics, "DTEND;VALUE=DATE:20260421")
	assert.Equal(t, 2, strings.Count(ics, "BEGIN:VEVENT"))
}

func TestBuildCalendarICS_InvalidDate(t *testing.T) {
	_, err := BuildCalendarICS(hostapi.Property{}, []hostapi.Booking{{ID: "x", StartDate: "soon", EndDate: "2026-01-01"}}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "booking x")
}

func TestBuildCalendarICS_Empty(t *testing.T) {
	ics, err := BuildCalendarICS(hostapi.Property{}, nil, time.Now())
	require.NoError(t, err)
	assert.NotContains(t, ics, "BEGIN:VEVENT")
}
