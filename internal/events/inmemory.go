package events

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// InMemoryStore keeps events in-process for keyless dev runs and tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, rows: make(map[int64]Event)}
}

func (s *InMemoryStore) Create(_ context.Context, e NewEvent) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	ev := Event{
		ID:          s.nextID,
		Title:       e.Title,
		Description: e.Description,
		Date:        DateOnly(e.Date),
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextID++
	s.rows[ev.ID] = ev
	return ev, nil
}

func (s *InMemoryStore) GetByID(_ context.Context, id int64) (Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.rows[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	return ev, nil
}

func (s *InMemoryStore) OnDate(ctx context.Context, date time.Time) ([]Event, error) {
	d := DateOnly(date)
	return s.Query(ctx, Filter{Start: &d, End: &d})
}

func (s *InMemoryStore) Query(_ context.Context, f Filter) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, 0, len(s.rows))
	for _, ev := range s.rows {
		if f.Start != nil && ev.Date.Before(DateOnly(*f.Start)) {
			continue
		}
		if f.End != nil && ev.Date.After(DateOnly(*f.End)) {
			continue
		}
		if f.Keyword != "" &&
			!strings.Contains(ev.Title, f.Keyword) &&
			!strings.Contains(ev.Description, f.Keyword) {
			continue
		}
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id int64) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.rows[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	delete(s.rows, id)
	return ev, nil
}

func (s *InMemoryStore) Close() error { return nil }

// Len reports the number of stored events.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}
