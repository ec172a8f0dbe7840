package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/tock/internal/aggregate"
	"github.com/alexanderramin/tock/internal/domain"
)

// ActiveEntry is one running timer shown by RenderStatus.
type ActiveEntry struct {
	Timer   *domain.Timer
	Session *domain.Session
}

// RenderStatus lists running timers with their elapsed time.
func RenderStatus(active []ActiveEntry, now time.Time, loc *time.Location) string {
	if len(active) == 0 {
		return Dim("No timers running.") + "\n"
	}
	var b strings.Builder
	b.WriteString(Header("Running") + "\n")
	for _, a := range active {
		fmt.Fprintf(&b, "%s  %s  %s\n",
			TimerLabel(a.Timer),
			Bold(FormatDuration(a.Session.Duration(now))),
			Dim(fmt.Sprintf("since %s (%s)", Clock(a.Session.Start, loc), Since(a.Session.Start, now))),
		)
	}
	return b.String()
}

// RenderTimers lists timers with their color and creation day.
func RenderTimers(timers []*domain.Timer, loc *time.Location) string {
	if len(timers) == 0 {
		return Dim("No timers yet.") + "\n"
	}
	rows := make([][]string, 0, len(timers))
	for _, t := range timers {
		rows = append(rows, []string{TimerLabel(t), Dim(t.Color), t.CreatedAt.In(loc).Format("2006-01-02")})
	}
	return RenderTable([]string{"TIMER", "COLOR", "CREATED"}, rows)
}

// RenderSessions lists sessions ordered as given. timers resolves ids to
// names; running sessions are measured up to now.
func RenderSessions(sessions []*domain.Session, timers map[string]*domain.Timer, now time.Time, loc *time.Location) string {
	if len(sessions) == 0 {
		return Dim("No sessions found.") + "\n"
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		end := RunningBadge()
		if s.End != nil {
			end = Stamp(*s.End, loc)
		}
		rows = append(rows, []string{
			ShortID(s.ID),
			TimerLabel(timers[s.TimerID]),
			Stamp(s.Start, loc),
			end,
			FormatDuration(s.Duration(now)),
		})
	}
	return Table{
		Headers: []string{"ID", "TIMER", "START", "END", "DURATION"},
		Rows:    rows,
		Right:   map[int]bool{4: true},
	}.String()
}

// RenderTimerTotals renders per-timer totals plus a grand total line.
func RenderTimerTotals(totals []aggregate.TimerTotal, total time.Duration) string {
	if len(totals) == 0 {
		return Dim("Nothing recorded in this range.") + "\n"
	}
	rows := make([][]string, 0, len(totals)+1)
	for _, tt := range totals {
		label := TimerLabel(tt.Timer)
		if tt.Running {
			label += " " + RunningBadge()
		}
		rows = append(rows, []string{label, strconv.Itoa(tt.Sessions), FormatDuration(tt.Total)})
	}
	rows = append(rows, []string{Bold("total"), "", Bold(FormatDuration(total))})
	return Table{
		Headers: []string{"TIMER", "SESSIONS", "TOTAL"},
		Rows:    rows,
		Right:   map[int]bool{1: true, 2: true},
	}.String()
}

// RenderDayTotals renders one row per calendar day, with the per-timer
// split in timer-name order.
func RenderDayTotals(days []aggregate.DayTotal, timers map[string]*domain.Timer, loc *time.Location) string {
	if len(days) == 0 {
		return Dim("Nothing recorded in this range.") + "\n"
	}
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		parts := make([]string, 0, len(d.ByTimer))
		for _, id := range idsByName(d.ByTimer, timers) {
			parts = append(parts, fmt.Sprintf("%s %s", timerName(timers[id]), FormatDuration(d.ByTimer[id])))
		}
		rows = append(rows, []string{Day(d.Day, loc), FormatDuration(d.Total), Dim(strings.Join(parts, ", "))})
	}
	return Table{
		Headers: []string{"DAY", "TOTAL", "BREAKDOWN"},
		Rows:    rows,
		Right:   map[int]bool{1: true},
	}.String()
}

// RenderRangeHeader describes the reported window.
func RenderRangeHeader(from, to time.Time, loc *time.Location) string {
	return Header("Report") + "\n" + Dim(fmt.Sprintf("%s → %s", Stamp(from, loc), Stamp(to, loc))) + "\n"
}

func timerName(t *domain.Timer) string {
	if t == nil {
		return "(deleted)"
	}
	return t.Name
}

func idsByName(byTimer map[string]time.Duration, timers map[string]*domain.Timer) []string {
	ids := make([]string, 0, len(byTimer))
	for id := range byTimer {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ni, nj := timerName(timers[ids[i]]), timerName(timers[ids[j]])
		if ni != nj {
			return ni < nj
		}
		return ids[i] < ids[j]
	})
	return ids
}
