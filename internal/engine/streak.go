package engine

import (
	"context"
	"time"
)

// DayLayout formats calendar days in the local time zone.
const DayLayout = "2006-01-02"

// legacyDayLayout is the Date.toDateString() format the browser app wrote.
const legacyDayLayout = "Mon Jan 02 2006"

type Streak struct {
	CurrentStreak int      `json:"currentStreak"`
	LastVisit     string   `json:"lastVisit"`
	AllVisits     []string `json:"allVisits"`
}

// AdvanceStreak applies one app load on the local calendar day of now.
// A visit on the day after LastVisit extends the streak; any other gap, or
// no prior visit, restarts it at 1. A second load on the same day is a no-op.
func AdvanceStreak(rec Streak, now time.Time) (Streak, bool) {
	today := now.Format(DayLayout)
	last := normalizeDay(rec.LastVisit, now.Location())
	if last == today {
		return rec, false
	}

	yesterday := now.AddDate(0, 0, -1).Format(DayLayout)
	next := Streak{CurrentStreak: 1, LastVisit: today}
	if last != "" && last == yesterday {
		next.CurrentStreak = rec.CurrentStreak + 1
	}

	seen := make(map[string]bool, len(rec.AllVisits)+1)
	for _, d := range rec.AllVisits {
		d = normalizeDay(d, now.Location())
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		next.AllVisits = append(next.AllVisits, d)
	}
	if !seen[today] {
		next.AllVisits = append(next.AllVisits, today)
	}
	return next, true
}

func normalizeDay(s string, loc *time.Location) string {
	if s == "" {
		return ""
	}
	if _, err := time.ParseInLocation(DayLayout, s, loc); err == nil {
		return s
	}
	if t, err := time.ParseInLocation(legacyDayLayout, s, loc); err == nil {
		return t.Format(DayLayout)
	}
	return ""
}

// TouchStreak records today's visit. Call it once per app load.
func (s *Service) TouchStreak(ctx context.Context) (Streak, error) {
	next, changed := AdvanceStreak(s.streak, s.now())
	if !changed {
		return s.streak, nil
	}
	s.streak = next
	s.log.DebugContext(ctx, "streak updated", "current", next.CurrentStreak, "day", next.LastVisit)
	return next, s.persist(ctx, KeyStreak, next)
}

func (s *Service) Streak() Streak { return s.streak }
