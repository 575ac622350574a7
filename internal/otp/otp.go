// ABOUTME: Pulls a one-time passcode out of a pasted SMS
// ABOUTME: Patterns are tried in priority order and the first match wins

package otp

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoCode is returned when no pattern matches
var ErrNoCode = errors.New("no OTP code found in message")

var patterns = []*regexp.Regexp{
	// "OTP is 123456", "your code: 123456", "code for hostdesk is 123456"
	regexp.MustCompile(`(?i)\b(?:otp|code|passcode|pin)\b[^0-9]{0,20}?(?:\bis\b|:)\s*(\d{6})\b`),
	// "123456 is your verification code"
	regexp.MustCompile(`(?i)\b(\d{6})\b\s+is\s+your\b`),
	// any standalone 6-digit group
	regexp.MustCompile(`(?:^|[^0-9])(\d{6})(?:[^0-9]|$)`),
}

// ExtractCode returns the first code found in message
func ExtractCode(message string) (string, error) {
	message = strings.TrimSpace(message)
	for _, re := range patterns {
		if m := re.FindStringSubmatch(message); m != nil {
			return m[1], nil
		}
	}
	return "", ErrNoCode
}
