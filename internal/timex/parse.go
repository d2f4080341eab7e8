package timex

import "time"

// looseLayouts are the timestamp shapes written by older versions of the
// application, most of them without a zone.
var looseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseLoose parses s using the first matching layout. Zone-less values are
// read as local time. The result is in UTC; fallback is returned when nothing
// matches.
func ParseLoose(s string, fallback time.Time) time.Time {
	for _, layout := range looseLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.UTC()
		}
	}
	return fallback
}
