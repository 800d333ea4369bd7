package cli

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
)

// ParseDay reads a --date flag value. Empty means today in local time.
func ParseDay(value string) (sharedDomain.Date, error) {
	if value == "" || value == "today" {
		return sharedDomain.Today(time.Local), nil
	}
	if value == "yesterday" {
		return sharedDomain.Today(time.Local).AddDays(-1), nil
	}
	return sharedDomain.ParseDate(value)
}
