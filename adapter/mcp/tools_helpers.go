package mcp

import (
	"fmt"
	"time"

	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
)

type dateInput struct {
	Date string `json:"date,omitempty"`
}

func parseDate(value string) (sharedDomain.Date, error) {
	if value == "" {
		return sharedDomain.Today(time.Local), nil
	}
	d, err := sharedDomain.ParseDate(value)
	if err != nil {
		return sharedDomain.Date{}, fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
	}
	return d, nil
}

func requireHandler(ok bool, what string) error {
	if !ok {
		return fmt.Errorf("%s requires database connection", what)
	}
	return nil
}
