package events

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports a lookup or delete against an id with no row.
var ErrNotFound = errors.New("event not found")

// Event is one persisted calendar entry. Start and end are independently
// valid times of day; no ordering between them is enforced, so an overnight
// event with end before start is stored as-is.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEvent carries the caller-supplied fields of an event to be created.
type NewEvent struct {
	Title       string
	Description string
	Date        time.Time
	StartTime   string
	EndTime     string
}

// Filter selects events by inclusive date range and/or keyword. All fields
// are optional and combine with AND; the keyword matches as a substring of
// either title or description.
type Filter struct {
	Start   *time.Time
	End     *time.Time
	Keyword string
}

// Store persists calendar events. Query results are ordered by date then
// start time ascending.
type Store interface {
	Create(ctx context.Context, e NewEvent) (Event, error)
	GetByID(ctx context.Context, id int64) (Event, error)
	OnDate(ctx context.Context, date time.Time) ([]Event, error)
	Query(ctx context.Context, f Filter) ([]Event, error)
	Delete(ctx context.Context, id int64) (Event, error)
	Close() error
}

// DateOnly truncates t to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
