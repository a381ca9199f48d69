package post

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted for publish_date: full timestamps, the datetime-local form value and plain dates.
var publishLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02"}

// ParsePublishDate reads a publish date. Values without an offset are taken in loc.
func ParsePublishDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: publish_date is required", ErrValidation)
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range publishLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad publish_date %q", ErrValidation, raw)
}
