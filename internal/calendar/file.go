package calendar

import (
	"context"

	ics "github.com/emersion/go-ical"
)

// FileSource reads calendar documents from a local file.
type FileSource struct {
	name string
	path string
}

// NewFileSource creates a new file calendar source.
func NewFileSource(name, path string) *FileSource {
	return &FileSource{name: name, path: path}
}

// Name returns the display name of this calendar source.
func (s *FileSource) Name() string {
	return s.name
}

// Fetch decodes the file.
func (s *FileSource) Fetch(ctx context.Context) ([]*ics.Calendar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Read(s.path)
}

var _ Source = (*FileSource)(nil)
