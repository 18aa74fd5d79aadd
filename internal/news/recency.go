package news

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// RecencyFilter admits articles published within a trailing window of calendar days
type RecencyFilter struct {
	loc  *time.Location
	days int
}

// NewRecencyFilter creates a filter over the last `days` days before the run date in loc
func NewRecencyFilter(loc *time.Location, days int) *RecencyFilter {
	if loc == nil {
		loc = time.Local
	}
	if days < 1 {
		days = 1
	}
	return &RecencyFilter{loc: loc, days: days}
}

// ReferenceDay is the last admitted day: midnight of the day before now in the filter's zone
func (f *RecencyFilter) ReferenceDay(now time.Time) time.Time {
	y, m, d := now.In(f.loc).Date()
	return time.Date(y, m, d-1, 0, 0, 0, 0, f.loc)
}

// WindowStart is the first admitted day for the given reference day
func (f *RecencyFilter) WindowStart(referenceDay time.Time) time.Time {
	y, m, d := referenceDay.In(f.loc).Date()
	return time.Date(y, m, d-(f.days-1), 0, 0, 0, 0, f.loc)
}

// IsRecent reports whether rec was published inside the window ending at referenceDay.
// Records with a missing or unparseable date are never recent.
func (f *RecencyFilter) IsRecent(rec ArticleRecord, referenceDay time.Time) bool {
	raw := strings.TrimSpace(rec.PubDate)
	if raw == "" {
		return false
	}
	published, err := dateparse.ParseIn(raw, f.loc)
	if err != nil {
		return false
	}

	y, m, d := published.In(f.loc).Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, f.loc)

	ry, rm, rd := referenceDay.In(f.loc).Date()
	last := time.Date(ry, rm, rd, 0, 0, 0, 0, f.loc)

	return !day.Before(f.WindowStart(last)) && !day.After(last)
}
