package aggregate

import (
	"sort"
	"time"
)

// Window bounds day bucketing. A zero From or To leaves that side open.
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) clip(start, end time.Time) (time.Time, time.Time, bool) {
	if !w.From.IsZero() && start.Before(w.From) {
		start = w.From
	}
	if !w.To.IsZero() && end.After(w.To) {
		end = w.To
	}
	return start, end, end.After(start)
}

// DayTotal is the time recorded on one calendar day.
type DayTotal struct {
	Day     time.Time // local midnight
	Total   time.Duration
	ByTimer map[string]time.Duration
}

// ByDay splits every session at local midnights in loc and sums the pieces
// per day and per timer. Running sessions end at now. Pieces outside w are
// dropped. Days are returned in ascending order; days without time are
// omitted.
func ByDay(g *Grouping, now time.Time, loc *time.Location, w Window) []DayTotal {
	if loc == nil {
		loc = time.Local
	}

	days := make(map[int64]*DayTotal)
	for timerID, sessions := range g.Sessions {
		for _, s := range sessions {
			end := now
			if s.End != nil {
				end = *s.End
			}
			start, end, ok := w.clip(s.Start, end)
			if !ok {
				continue
			}
			for _, p := range splitAtMidnight(start, end, loc) {
				dt, found := days[p.day.Unix()]
				if !found {
					dt = &DayTotal{Day: p.day, ByTimer: make(map[string]time.Duration)}
					days[p.day.Unix()] = dt
				}
				dt.Total += p.length
				dt.ByTimer[timerID] += p.length
			}
		}
	}

	out := make([]DayTotal, 0, len(days))
	for _, dt := range days {
		out = append(out, *dt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

type piece struct {
	day    time.Time
	length time.Duration
}

// splitAtMidnight cuts [start, end) into per-day pieces. AddDate keeps the
// boundaries on wall-clock midnight across DST changes.
func splitAtMidnight(start, end time.Time, loc *time.Location) []piece {
	var pieces []piece
	cursor := start.In(loc)
	for cursor.Before(end) {
		day := StartOfDay(cursor, loc)
		next := day.AddDate(0, 0, 1)
		stop := end
		if next.Before(stop) {
			stop = next
		}
		pieces = append(pieces, piece{day: day, length: stop.Sub(cursor)})
		cursor = next
	}
	return pieces
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	y, m, d := lt.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
