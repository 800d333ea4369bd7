// Package ports declares the calendar export collaborators.
package ports

import (
	"context"

	"github.com/felixgeelhaar/strand/internal/calendar/domain"
)

// ExportResult counts the outcome of one export run.
type ExportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// Exporter pushes occurrences to an external calendar. Individual event
// failures are counted, not returned.
type Exporter interface {
	Export(ctx context.Context, occurrences []domain.Occurrence) (*ExportResult, error)
}
