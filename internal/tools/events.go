package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sharunashwanth/mittai-agent/internal/events"
)

const (
	dateLayout    = "2006-01-02"
	timeLayout    = "15:04"
	titleMaxChars = 255
)

// EventTools returns the five calendar capabilities bound to a store.
func EventTools(store events.Store) []Tool {
	return []Tool{
		createEventTool(store),
		checkEventExistsTool(store),
		getEventByIDTool(store),
		queryEventsTool(store),
		deleteEventTool(store),
	}
}

func createEventTool(store events.Store) Tool {
	return Tool{
		Name:        "create_event",
		Description: "Create a new calendar event. Dates are YYYY-MM-DD, times are 24-hour HH:MM.",
		Parameters: objectSchema(map[string]any{
			"title":       map[string]any{"type": "string", "description": "Event title"},
			"event_date":  map[string]any{"type": "string", "description": "Date in YYYY-MM-DD format"},
			"start_time":  map[string]any{"type": "string", "description": "Start time in HH:MM 24-hour format"},
			"end_time":    map[string]any{"type": "string", "description": "End time in HH:MM 24-hour format"},
			"description": map[string]any{"type": "string", "description": "Optional event description"},
		}, "title", "event_date", "start_time", "end_time"),
		Write: true,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			title := stringArg(args, "title")
			if title == "" {
				return errorPayload("title is required"), nil
			}
			if len(title) > titleMaxChars {
				return errorPayload(fmt.Sprintf("title exceeds %d characters", titleMaxChars)), nil
			}

			date, err := time.Parse(dateLayout, stringArg(args, "event_date"))
			if err != nil {
				return errorPayload(fmt.Sprintf("Invalid date/time format: %v", err)), nil
			}
			start, err := parseClock(stringArg(args, "start_time"))
			if err != nil {
				return errorPayload(fmt.Sprintf("Invalid date/time format: %v", err)), nil
			}
			end, err := parseClock(stringArg(args, "end_time"))
			if err != nil {
				return errorPayload(fmt.Sprintf("Invalid date/time format: %v", err)), nil
			}

			ev, err := store.Create(ctx, events.NewEvent{
				Title:       title,
				Description: stringArg(args, "description"),
				Date:        date,
				StartTime:   start,
				EndTime:     end,
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"status":      "success",
				"event_id":    ev.ID,
				"title":       ev.Title,
				"description": ev.Description,
				"date":        ev.Date.Format(dateLayout),
				"start_time":  ev.StartTime,
				"end_time":    ev.EndTime,
			}, nil
		},
	}
}

func checkEventExistsTool(store events.Store) Tool {
	return Tool{
		Name:        "check_event_exists",
		Description: "Check if any events exist on a given date.",
		Parameters: objectSchema(map[string]any{
			"event_date": map[string]any{"type": "string", "description": "Date in YYYY-MM-DD format"},
		}, "event_date"),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			date, err := time.Parse(dateLayout, stringArg(args, "event_date"))
			if err != nil {
				return errorPayload(fmt.Sprintf("Invalid date format: %v", err)), nil
			}
			found, err := store.OnDate(ctx, date)
			if err != nil {
				return nil, err
			}
			if len(found) == 0 {
				return map[string]any{"exists": false, "count": 0}, nil
			}
			items := make([]map[string]any, len(found))
			for i, ev := range found {
				items[i] = map[string]any{
					"id":          ev.ID,
					"title":       ev.Title,
					"start_time":  ev.StartTime,
					"end_time":    ev.EndTime,
					"description": ev.Description,
				}
			}
			return map[string]any{
				"exists": true,
				"count":  len(found),
				"events": items,
			}, nil
		},
	}
}

func getEventByIDTool(store events.Store) Tool {
	return Tool{
		Name:        "get_event_by_id",
		Description: "Get a specific calendar event by its ID.",
		Parameters: objectSchema(map[string]any{
			"event_id": map[string]any{"type": "integer", "description": "The ID of the event"},
		}, "event_id"),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			id, ok := intArg(args, "event_id")
			if !ok {
				return errorPayload("event_id must be an integer"), nil
			}
			ev, err := store.GetByID(ctx, id)
			if errors.Is(err, events.ErrNotFound) {
				return errorPayload(fmt.Sprintf("Event with ID %d not found", id)), nil
			}
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"status": "success",
				"event": map[string]any{
					"id":          ev.ID,
					"title":       ev.Title,
					"description": ev.Description,
					"date":        ev.Date.Format(dateLayout),
					"start_time":  ev.StartTime,
					"end_time":    ev.EndTime,
					"created_at":  ev.CreatedAt.Format(time.RFC3339),
				},
			}, nil
		},
	}
}

func queryEventsTool(store events.Store) Tool {
	return Tool{
		Name:        "query_events",
		Description: "Query calendar events by inclusive date range and/or keyword. All filters are optional and combine with AND.",
		Parameters: objectSchema(map[string]any{
			"start_date": map[string]any{"type": "string", "description": "Optional start date in YYYY-MM-DD format"},
			"end_date":   map[string]any{"type": "string", "description": "Optional end date in YYYY-MM-DD format"},
			"keyword":    map[string]any{"type": "string", "description": "Optional keyword matched against title and description"},
		}),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			var filter events.Filter
			if s := stringArg(args, "start_date"); s != "" {
				d, err := time.Parse(dateLayout, s)
				if err != nil {
					return errorPayload(fmt.Sprintf("Invalid date format: %v", err)), nil
				}
				filter.Start = &d
			}
			if s := stringArg(args, "end_date"); s != "" {
				d, err := time.Parse(dateLayout, s)
				if err != nil {
					return errorPayload(fmt.Sprintf("Invalid date format: %v", err)), nil
				}
				filter.End = &d
			}
			filter.Keyword = stringArg(args, "keyword")

			found, err := store.Query(ctx, filter)
			if err != nil {
				return nil, err
			}
			items := make([]map[string]any, len(found))
			for i, ev := range found {
				items[i] = map[string]any{
					"id":          ev.ID,
					"title":       ev.Title,
					"description": ev.Description,
					"date":        ev.Date.Format(dateLayout),
					"start_time":  ev.StartTime,
					"end_time":    ev.EndTime,
				}
			}
			return map[string]any{
				"status": "success",
				"count":  len(found),
				"events": items,
			}, nil
		},
	}
}

func deleteEventTool(store events.Store) Tool {
	return Tool{
		Name:        "delete_event",
		Description: "Delete a calendar event by its ID.",
		Parameters: objectSchema(map[string]any{
			"event_id": map[string]any{"type": "integer", "description": "The ID of the event to delete"},
		}, "event_id"),
		Write: true,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			id, ok := intArg(args, "event_id")
			if !ok {
				return errorPayload("event_id must be an integer"), nil
			}
			ev, err := store.Delete(ctx, id)
			if errors.Is(err, events.ErrNotFound) {
				return errorPayload(fmt.Sprintf("Event with ID %d not found", id)), nil
			}
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"status":  "success",
				"message": fmt.Sprintf("Event '%s' (ID: %d) deleted successfully", ev.Title, id),
			}, nil
		},
	}
}

// parseClock validates an HH:MM time-of-day and normalizes it to zero-padded
// form so lexical ordering matches chronological ordering.
func parseClock(s string) (string, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", err
	}
	return t.Format(timeLayout), nil
}
