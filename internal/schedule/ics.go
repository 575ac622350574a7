package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/markalston/hostdesk/internal/hostapi"
)

const icsDateLayout = "20060102"

// BuildCalendarICS exports a property's bookings and blocks as an iCalendar document.
// Booking end dates are checkout days and become the exclusive DTEND.
func BuildCalendarICS(property hostapi.Property, bookings []hostapi.Booking, now time.Time) (string, error) {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//hostdesk//Property Calendar//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	if name := strings.TrimSpace(property.Name); name != "" {
		lines = append(lines, "X-WR-CALNAME:"+escapeICSText(name))
	}

	stamp := now.UTC().Format("20060102T150405Z")
	for i, b := range bookings {
		start, err := ParseDate(b.StartDate)
		if err != nil {
			return "", fmt.Errorf("booking %s: %w", b.ID, err)
		}
		end, err := ParseDate(b.EndDate)
		if err != nil {
			return "", fmt.Errorf("booking %s: %w", b.ID, err)
		}
		if !end.After(start) {
			end = start.AddDate(0, 0, 1)
		}

		uid := fmt.Sprintf("%s@hostdesk", strings.TrimSpace(b.ID))
		if strings.TrimSpace(b.ID) == "" {
			uid = fmt.Sprintf("booking-%d-%d@hostdesk", now.UnixNano(), i)
		}

		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+escapeICSText(uid),
			"DTSTAMP:"+stamp,
			"SUMMARY:"+escapeICSText(eventSummary(b)),
			"DTSTART;VALUE=DATE:"+start.Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+end.Format(icsDateLayout),
		)
		if property.Address != "" {
			lines = append(lines, "LOCATION:"+escapeICSText(property.Address))
		}
		if b.Status != "" {
			lines = append(lines, "STATUS:"+icsStatus(b.Status))
		}
		lines = append(lines, "END:VEVENT")
	}
	lines = append(lines, "END:VCALENDAR", "")

	return strings.Join(lines, "\r\n"), nil
}

func eventSummary(b hostapi.Booking) string {
	switch b.Type {
	case hostapi.BookingTypeOwner:
		return "Owner block"
	case hostapi.BookingTypeMaintenance:
		return "Maintenance block"
	}
	if b.GuestName != "" {
		return "Guest: " + b.GuestName
	}
	return "Guest booking"
}

func icsStatus(status string) string {
	switch strings.ToLower(status) {
	case "cancelled", "canceled":
		return "CANCELLED"
	case "pending", "tentative":
		return "TENTATIVE"
	default:
		return "CONFIRMED"
	}
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
