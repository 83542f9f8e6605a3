// Package export generates downloadable exports of a space's ideas.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"sprout/api/internal/store"
)

// DataStore defines the interface for data access
type DataStore interface {
	ListIdeasBySpace(ctx context.Context, slug string) ([]store.Idea, error)
}

// Result holds a generated export
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

// Service provides space export functionality
type Service struct {
	store DataStore
}

// NewService creates a new export service
func NewService(store DataStore) *Service {
	return &Service{store: store}
}

var csvHeader = []string{"ID", "Title", "Description", "Status", "Votes", "Created At"}

// ExportCSV renders every idea in a space as a CSV document, newest first.
// encoding/csv handles quoting, so titles with commas, quotes, and newlines
// survive a spreadsheet round trip.
func (s *Service) ExportCSV(ctx context.Context, slug string) (*Result, error) {
	ideas, err := s.store.ListIdeasBySpace(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, idea := range ideas {
		record := []string{
			idea.PublicID,
			idea.Title,
			idea.Description,
			idea.Status,
			strconv.Itoa(idea.VoteCount),
			idea.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return &Result{
		Data:     buf.Bytes(),
		Filename: fmt.Sprintf("%s-ideas.csv", slug),
		MimeType: "text/csv",
	}, nil
}
