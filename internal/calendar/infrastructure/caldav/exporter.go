// Package caldav exports routine occurrences to a CalDAV calendar (Apple
// Calendar, Fastmail, Nextcloud and similar servers).
package caldav

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"golang.org/x/oauth2"

	"github.com/felixgeelhaar/strand/internal/calendar/application/ports"
	"github.com/felixgeelhaar/strand/internal/calendar/domain"
)

// Common CalDAV server URLs
const (
	AppleCalDAVURL    = "https://caldav.icloud.com"
	FastmailCalDAVURL = "https://caldav.fastmail.com"
)

// PropXStrand marks events created by strand.
const PropXStrand = "X-STRAND"

const productID = "-//strand//Routine Export//EN"

// ErrNoCalendars is returned when the account has no calendar to write to.
var ErrNoCalendars = errors.New("no calendars found")

// Credentials authenticate against the CalDAV server. Token takes
// precedence over Username and Password.
type Credentials struct {
	Username string
	Password string // app-specific password for Apple
	Token    string
}

// Exporter writes occurrences to a CalDAV calendar.
type Exporter struct {
	baseURL      string
	creds        Credentials
	calendarPath string // specific calendar path, or empty for the first calendar
	prune        bool
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewExporter creates a CalDAV exporter.
func NewExporter(baseURL string, creds Credentials, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		baseURL:    baseURL,
		creds:      creds,
		httpClient: newHTTPClient(creds, 30*time.Second),
		logger:     logger,
	}
}

// WithCalendarPath sets the specific calendar path to use.
func (e *Exporter) WithCalendarPath(path string) *Exporter {
	e.calendarPath = path
	return e
}

// WithPrune removes strand events that are not part of the current export.
func (e *Exporter) WithPrune(enabled bool) *Exporter {
	e.prune = enabled
	return e
}

// Export implements ports.Exporter.
func (e *Exporter) Export(ctx context.Context, occurrences []domain.Occurrence) (*ports.ExportResult, error) {
	client, err := caldav.NewClient(e.httpClient, e.baseURL)
	if err != nil {
		return nil, fmt.Errorf("create caldav client: %w", err)
	}

	calPath, err := e.findCalendarPath(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("find calendar: %w", err)
	}

	result := &ports.ExportResult{}
	keep := make(map[string]struct{}, len(occurrences))
	now := time.Now().UTC()

	for _, occ := range occurrences {
		path := eventPath(calPath, occ.UID)
		keep[path] = struct{}{}

		updated, err := upsertEvent(ctx, client, path, toICalendar(occ, now))
		if err != nil {
			e.logger.Warn("caldav export failed", "event_path", path, "error", err)
			result.Failed++
			continue
		}
		if updated {
			result.Updated++
		} else {
			result.Created++
		}
	}

	if e.prune {
		removed, err := e.pruneEvents(ctx, client, calPath, keep)
		if err != nil {
			e.logger.Warn("caldav prune failed", "error", err)
		} else if removed > 0 {
			e.logger.Info("caldav events pruned", "count", removed)
		}
	}
	return result, nil
}

func (e *Exporter) findCalendarPath(ctx context.Context, client *caldav.Client) (string, error) {
	if e.calendarPath != "" {
		return e.calendarPath, nil
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("find principal: %w", err)
	}
	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("find calendar home set: %w", err)
	}
	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("find calendars: %w", err)
	}
	if len(cals) == 0 {
		return "", ErrNoCalendars
	}
	return cals[0].Path, nil
}

func (e *Exporter) pruneEvents(ctx context.Context, client *caldav.Client, calPath string, keep map[string]struct{}) (int, error) {
	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name: "VCALENDAR",
			Comps: []caldav.CalendarCompRequest{
				{Name: "VEVENT", Props: []string{ical.PropUID, PropXStrand}},
			},
		},
		CompFilter: caldav.CompFilter{
			Name:  "VCALENDAR",
			Comps: []caldav.CompFilter{{Name: "VEVENT"}},
		},
	}

	objects, err := client.QueryCalendar(ctx, calPath, query)
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := range objects {
		obj := &objects[i]
		if !isStrandEvent(obj.Data) {
			continue
		}
		if _, ok := keep[obj.Path]; ok {
			continue
		}
		if err := client.RemoveAll(ctx, obj.Path); err != nil {
			e.logger.Warn("failed to delete caldav event", "path", obj.Path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// upsertEvent reports whether the event already existed.
func upsertEvent(ctx context.Context, client *caldav.Client, path string, cal *ical.Calendar) (bool, error) {
	_, err := client.GetCalendarObject(ctx, path)
	exists := err == nil

	if _, err := client.PutCalendarObject(ctx, path, cal); err != nil {
		return false, err
	}
	return exists, nil
}

func eventPath(calPath, uid string) string {
	if !strings.HasSuffix(calPath, "/") {
		calPath += "/"
	}
	return calPath + strings.TrimSuffix(uid, "@strand") + ".ics"
}

func isStrandEvent(cal *ical.Calendar) bool {
	if cal == nil {
		return false
	}
	for _, child := range cal.Children {
		if child.Name != ical.CompEvent {
			continue
		}
		if props := child.Props[PropXStrand]; len(props) > 0 && props[0].Value == "1" {
			return true
		}
	}
	return false
}

func toICalendar(occ domain.Occurrence, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, occ.UID)
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	if occ.AllDay() {
		day := occ.Date.Time()
		event.Props.SetDate(ical.PropDateTimeStart, day)
		event.Props.SetDate(ical.PropDateTimeEnd, day.AddDate(0, 0, 1))
	} else {
		event.Props.SetDateTime(ical.PropDateTimeStart, occ.Start.UTC())
		event.Props.SetDateTime(ical.PropDateTimeEnd, occ.End.UTC())
	}
	event.Props.SetText(ical.PropSummary, occ.Action)
	if occ.Details != "" {
		event.Props.SetText(ical.PropDescription, occ.Details)
	}

	marker := ical.NewProp(PropXStrand)
	marker.Value = "1"
	event.Props[PropXStrand] = []ical.Prop{*marker}

	cal.Children = append(cal.Children, event.Component)
	return cal
}

// newHTTPClient returns a client authenticating with a bearer token when
// one is set and with basic auth otherwise.
func newHTTPClient(creds Credentials, timeout time.Duration) *http.Client {
	if creds.Token != "" {
		return &http.Client{
			Timeout: timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token, TokenType: "Bearer"}),
				Base:   http.DefaultTransport,
			},
		}
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &basicAuthTransport{
			username: creds.Username,
			password: creds.Password,
			base:     http.DefaultTransport,
		},
	}
}

var _ webdav.HTTPClient = (*http.Client)(nil)

type basicAuthTransport struct {
	username string
	password string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.SetBasicAuth(t.username, t.password)
	return t.base.RoundTrip(req)
}
