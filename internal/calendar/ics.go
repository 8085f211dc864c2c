package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	ics "github.com/emersion/go-ical"
)

// ICSSource fetches calendar documents from an ICS/iCal URL.
type ICSSource struct {
	name     string
	url      string
	username string
	password string
	client   *http.Client
}

// NewICSSource creates a new ICS calendar source.
func NewICSSource(name, url, username, password string) *ICSSource {
	return &ICSSource{
		name:     name,
		url:      url,
		username: username,
		password: password,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name returns the display name of this calendar source.
func (s *ICSSource) Name() string {
	return s.name
}

// Fetch downloads and decodes the feed.
func (s *ICSSource) Fetch(ctx context.Context) ([]*ics.Calendar, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/calendar, text/x-vcalendar")

	// Add basic auth if credentials provided
	if s.username != "" && s.password != "" {
		req.SetBasicAuth(s.username, s.password)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ICS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch ICS: status %d", resp.StatusCode)
	}

	return Decode(resp.Body)
}

var _ Source = (*ICSSource)(nil)
