// ABOUTME: Date handling for owner and maintenance blocks
// ABOUTME: Validates block ranges before they reach the backend

package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the backend's date format
const DateLayout = "2006-01-02"

// MaxBlockDays is the longest block a host may create from the calling screen
const MaxBlockDays = 15

var (
	ErrEndBeforeStart   = errors.New("end date is before start date")
	ErrBlockTooLong     = fmt.Errorf("block cannot be longer than %d days", MaxBlockDays)
	ErrInvalidBlockType = errors.New("block type must be owner or maintenance")
)

// BlockTypes lists the types a host may create
var BlockTypes = []string{"owner", "maintenance"}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD", s)
	}
	return t, nil
}

// Block is a validated date range
type Block struct {
	Type  string
	Start time.Time
	End   time.Time
}

// Days is the number of days between start and end
func (b Block) Days() int {
	return int(b.End.Sub(b.Start).Hours() / 24)
}

// ValidateBlock checks a requested block. A range of exactly MaxBlockDays is allowed.
func ValidateBlock(start, end, blockType string) (Block, error) {
	blockType = strings.ToLower(strings.TrimSpace(blockType))
	valid := false
	for _, t := range BlockTypes {
		if blockType == t {
			valid = true
			break
		}
	}
	if !valid {
		return Block{}, ErrInvalidBlockType
	}

	startDate, err := ParseDate(start)
	if err != nil {
		return Block{}, err
	}
	endDate, err := ParseDate(end)
	if err != nil {
		return Block{}, err
	}

	b := Block{Type: blockType, Start: startDate, End: endDate}
	if b.End.Before(b.Start) {
		return Block{}, ErrEndBeforeStart
	}
	if b.Days() > MaxBlockDays {
		return Block{}, ErrBlockTooLong
	}
	return b, nil
}
