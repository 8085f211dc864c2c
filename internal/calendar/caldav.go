package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	ics "github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
)

// CalDAVSource fetches calendar objects from a CalDAV server.
type CalDAVSource struct {
	name      string
	url       string
	username  string
	password  string
	calendars []string // Optional: specific calendars to convert
	transport http.RoundTripper
}

// NewCalDAVSource creates a new CalDAV calendar source.
func NewCalDAVSource(name, url, username, password string, calendars []string) *CalDAVSource {
	return &CalDAVSource{
		name:      name,
		url:       url,
		username:  username,
		password:  password,
		calendars: calendars,
		transport: http.DefaultTransport,
	}
}

// iCloudCalDAVURL is the base URL for iCloud CalDAV.
const iCloudCalDAVURL = "https://caldav.icloud.com"

// NewICloudSource creates a new iCloud calendar source.
// iCloud uses CalDAV with a specific server URL.
func NewICloudSource(name, username, password string, calendars []string) *CalDAVSource {
	return NewCalDAVSource(name, iCloudCalDAVURL, username, password, calendars)
}

// Name returns the display name of this calendar source.
func (s *CalDAVSource) Name() string {
	return s.name
}

// Fetch retrieves every object of the selected calendars. Each CalDAV object
// is its own VCALENDAR.
func (s *CalDAVSource) Fetch(ctx context.Context) ([]*ics.Calendar, error) {
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &basicAuthTransport{
			username: s.username,
			password: s.password,
			base:     s.transport,
		},
	}

	client, err := caldav.NewClient(httpClient, s.url)
	if err != nil {
		return nil, fmt.Errorf("create caldav client: %w", err)
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return nil, fmt.Errorf("find principal: %w", err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("find calendar home: %w", err)
	}

	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return nil, fmt.Errorf("find calendars: %w", err)
	}

	var docs []*ics.Calendar
	for _, cal := range cals {
		if !s.shouldConvert(cal.Name) {
			continue
		}

		objects, err := s.fetchObjects(ctx, client, cal)
		if err != nil {
			slog.Warn("failed to query calendar", "source", s.name, "calendar", cal.Name, "error", err)
			continue
		}
		docs = append(docs, objects...)
	}

	return docs, nil
}

// shouldConvert checks the calendar against the configured allow list.
func (s *CalDAVSource) shouldConvert(name string) bool {
	if len(s.calendars) == 0 {
		return true
	}
	for _, c := range s.calendars {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// fetchObjects queries the VEVENT and VTODO objects of a single calendar.
func (s *CalDAVSource) fetchObjects(ctx context.Context, client *caldav.Client, cal caldav.Calendar) ([]*ics.Calendar, error) {
	var docs []*ics.Calendar

	for _, comp := range []string{ics.CompEvent, ics.CompToDo} {
		query := &caldav.CalendarQuery{
			CompRequest: caldav.CalendarCompRequest{
				Name:     ics.CompCalendar,
				AllProps: true,
				AllComps: true,
			},
			CompFilter: caldav.CompFilter{
				Name:  ics.CompCalendar,
				Comps: []caldav.CompFilter{{Name: comp}},
			},
		}

		objects, err := client.QueryCalendar(ctx, cal.Path, query)
		if err != nil {
			return nil, fmt.Errorf("query calendar %s: %w", cal.Name, err)
		}

		for _, obj := range objects {
			if obj.Data != nil {
				docs = append(docs, obj.Data)
			}
		}
	}

	return docs, nil
}

// basicAuthTransport adds basic auth to HTTP requests.
type basicAuthTransport struct {
	username string
	password string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.username != "" {
		req = req.Clone(req.Context())
		req.SetBasicAuth(t.username, t.password)
	}
	return t.base.RoundTrip(req)
}

// Ensure CalDAVSource implements Source interface.
var _ Source = (*CalDAVSource)(nil)
