package tools

import (
	"context"
	"time"
)

// DatetimeTool reports the current UTC date and time in both ISO and
// human-readable forms. Pure: no arguments, always succeeds.
func DatetimeTool(now func() time.Time) Tool {
	if now == nil {
		now = time.Now
	}
	return Tool{
		Name:        "current_datetime",
		Description: "Get the current date and time in UTC timezone.",
		Parameters:  objectSchema(map[string]any{}),
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			t := now().UTC()
			return map[string]any{
				"current_date":       t.Format("2006-01-02"),
				"current_time":       t.Format("15:04:05"),
				"current_datetime":   t.Format(time.RFC3339),
				"date_formatted":     t.Format("2006-01-02"),
				"time_formatted":     t.Format("15:04:05"),
				"datetime_formatted": t.Format("2006-01-02 15:04:05"),
			}, nil
		},
	}
}
