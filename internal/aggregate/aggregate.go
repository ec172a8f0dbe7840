// Package aggregate folds sessions into per-timer and per-day totals.
//
// Everything here is pure: callers pass "now" explicitly, and running
// sessions are measured up to it through domain.Session.Duration, the only
// duration rule used anywhere in the ledger.
package aggregate

import (
	"sort"
	"time"

	"github.com/alexanderramin/tock/internal/domain"
)

// Grouping partitions sessions by owning timer. It is keyed by timer id;
// Timers resolves an id to its timer.
type Grouping struct {
	Timers   map[string]*domain.Timer
	Sessions map[string][]*domain.Session
}

// NewGrouping groups sessions by TimerID. Timers without sessions are left
// out. A session whose timer is missing from timers is still grouped; its
// id simply has no entry in Timers.
func NewGrouping(timers []*domain.Timer, sessions []*domain.Session) *Grouping {
	byID := make(map[string]*domain.Timer, len(timers))
	for _, t := range timers {
		byID[t.ID] = t
	}

	g := &Grouping{
		Timers:   make(map[string]*domain.Timer),
		Sessions: make(map[string][]*domain.Session),
	}
	for _, s := range sessions {
		g.Sessions[s.TimerID] = append(g.Sessions[s.TimerID], s)
		if t, ok := byID[s.TimerID]; ok {
			g.Timers[s.TimerID] = t
		}
	}
	return g
}

// TimerIDs returns the grouped timer ids ordered by timer name, then id.
func (g *Grouping) TimerIDs() []string {
	ids := make([]string, 0, len(g.Sessions))
	for id := range g.Sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ni, nj := g.name(ids[i]), g.name(ids[j])
		if ni != nj {
			return ni < nj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Len is the number of grouped sessions.
func (g *Grouping) Len() int {
	n := 0
	for _, ss := range g.Sessions {
		n += len(ss)
	}
	return n
}

// All returns every grouped session ordered by start.
func (g *Grouping) All() []*domain.Session {
	all := make([]*domain.Session, 0, g.Len())
	for _, ss := range g.Sessions {
		all = append(all, ss...)
	}
	SortByStart(all)
	return all
}

func (g *Grouping) name(id string) string {
	if t, ok := g.Timers[id]; ok {
		return t.Name
	}
	return ""
}

// SortByStart orders sessions by start, breaking ties by id.
func SortByStart(sessions []*domain.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].Start.Equal(sessions[j].Start) {
			return sessions[i].Start.Before(sessions[j].Start)
		}
		return sessions[i].ID < sessions[j].ID
	})
}

// TimerTotal is the accumulated time of one timer.
type TimerTotal struct {
	Timer    *domain.Timer
	TimerID  string
	Sessions int
	Total    time.Duration
	Running  bool
}

// TotalsByTimer sums full session durations per timer, ordered by total
// descending and then by name.
func TotalsByTimer(g *Grouping, now time.Time) []TimerTotal {
	totals := make([]TimerTotal, 0, len(g.Sessions))
	for _, id := range g.TimerIDs() {
		tt := TimerTotal{Timer: g.Timers[id], TimerID: id}
		for _, s := range g.Sessions[id] {
			tt.Sessions++
			tt.Total += s.Duration(now)
			if s.Running() {
				tt.Running = true
			}
		}
		totals = append(totals, tt)
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})
	return totals
}

// Total sums every grouped session.
func Total(g *Grouping, now time.Time) time.Duration {
	var total time.Duration
	for _, ss := range g.Sessions {
		for _, s := range ss {
			total += s.Duration(now)
		}
	}
	return total
}
