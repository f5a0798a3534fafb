package booking

import (
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

// SearchMode is a named filter over a user's bookings.
// The zero value is not a valid mode; values come from ParseSearchMode or the constants.
type SearchMode int

const (
	SearchAll SearchMode = iota + 1
	SearchCurrent
	SearchPast
	SearchFuture
	SearchWaiting
	SearchRejected
)

var searchModeNames = map[SearchMode]string{
	SearchAll:      "ALL",
	SearchCurrent:  "CURRENT",
	SearchPast:     "PAST",
	SearchFuture:   "FUTURE",
	SearchWaiting:  "WAITING",
	SearchRejected: "REJECTED",
}

// ParseSearchMode parses a search mode token case-insensitively.
func ParseSearchMode(s string) (SearchMode, error) {
	token := strings.ToUpper(strings.TrimSpace(s))
	for mode, name := range searchModeNames {
		if name == token {
			return mode, nil
		}
	}
	return 0, apperror.Wrap(ErrIllegalSearchMode, ErrIllegalSearchMode.Code, "Unknown state: "+s)
}

func (m SearchMode) String() string {
	if name, ok := searchModeNames[m]; ok {
		return name
	}
	return "UNKNOWN"
}

// apply narrows f to the bookings the mode selects at instant now.
// CURRENT, PAST and FUTURE partition bookings by time regardless of status.
func (m SearchMode) apply(f Filter, now time.Time) (Filter, error) {
	switch m {
	case SearchAll:
	case SearchCurrent:
		f.StartAtOrBefore = &now
		f.EndAfter = &now
	case SearchPast:
		f.EndBefore = &now
	case SearchFuture:
		f.StartAfter = &now
	case SearchWaiting:
		f.Status = StatusWaiting
	case SearchRejected:
		f.Status = StatusRejected
	default:
		return f, apperror.Wrap(ErrIllegalSearchMode, ErrIllegalSearchMode.Code, "Unknown state: "+m.String())
	}
	return f, nil
}
