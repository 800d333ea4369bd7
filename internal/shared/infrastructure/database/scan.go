package database

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/felixgeelhaar/strand/internal/shared/domain"
)

// timestampLayouts are the text forms SQLite hands back for stored times.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Timestamp scans a time column from either driver. pgx yields time.Time
// while SQLite may yield text depending on the column declaration.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Timestamp{}
		return nil
	case time.Time:
		*t = Timestamp{Time: v.UTC(), Valid: true}
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
}

func (t *Timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = Timestamp{Time: parsed.UTC(), Valid: true}
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}

// Value implements driver.Valuer.
func (t Timestamp) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return t.Time.UTC(), nil
}

// NullTime returns a Timestamp for an optional time.
func NullTime(t *time.Time) Timestamp {
	if t == nil {
		return Timestamp{}
	}
	return Timestamp{Time: t.UTC(), Valid: true}
}

// Ptr returns the time or nil when the column was NULL.
func (t Timestamp) Ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// NullDate scans an optional YYYY-MM-DD text column.
type NullDate struct {
	Date  domain.Date
	Valid bool
}

// Scan implements sql.Scanner.
func (d *NullDate) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*d = NullDate{}
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into NullDate", src)
	}
	if s == "" {
		*d = NullDate{}
		return nil
	}
	parsed, err := domain.ParseDate(s)
	if err != nil {
		return err
	}
	*d = NullDate{Date: parsed, Valid: true}
	return nil
}

// Ptr returns the date or nil when the column was NULL.
func (d NullDate) Ptr() *domain.Date {
	if !d.Valid {
		return nil
	}
	v := d.Date
	return &v
}

// DateParam renders an optional date as a query parameter.
func DateParam(d *domain.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.String()
}
