package gamification

import (
	"fmt"
	"strings"
	"time"
)

// WeekPolicy decides when the weekly counters start over.
type WeekPolicy string

const (
	// WeekPolicyWeekday resets when today's weekday number (Sunday=0) is
	// lower than the weekday of the last active day. It misses gaps that
	// land on the same or a later weekday, e.g. Monday to the next Tuesday.
	WeekPolicyWeekday WeekPolicy = "weekday"
	// WeekPolicyISOWeek resets whenever the ISO year/week differs.
	WeekPolicyISOWeek WeekPolicy = "isoweek"
)

func ParseWeekPolicy(raw string) (WeekPolicy, error) {
	switch WeekPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", WeekPolicyWeekday:
		return WeekPolicyWeekday, nil
	case WeekPolicyISOWeek:
		return WeekPolicyISOWeek, nil
	default:
		return "", fmt.Errorf("gamification: unknown week policy %q", raw)
	}
}

// reconcile clears the daily and weekly counters that belong to a day
// other than now. LastActiveDate is left alone; only streak updates move it.
// Reports whether anything changed.
func reconcile(p *Progress, now time.Time, policy WeekPolicy) bool {
	today := dayKey(now)
	if p.LastActiveDate == today {
		return false
	}

	changed := p.DailyTasksCompleted != 0 || p.DailyPomodoroSessions != 0
	p.DailyTasksCompleted = 0
	p.DailyPomodoroSessions = 0

	if newWeek(p.LastActiveDate, now, policy) {
		changed = changed || p.WeeklyTasksCompleted != 0 || p.WeeklyPomodoroSessions != 0
		p.WeeklyTasksCompleted = 0
		p.WeeklyPomodoroSessions = 0
	}
	return changed
}

func newWeek(lastActive string, now time.Time, policy WeekPolicy) bool {
	last, ok := parseDay(lastActive, now.Location())
	switch policy {
	case WeekPolicyISOWeek:
		if !ok {
			return true
		}
		ly, lw := last.ISOWeek()
		ny, nw := now.ISOWeek()
		return ly != ny || lw != nw
	default:
		if !ok {
			return false
		}
		return int(now.Weekday()) < int(last.Weekday())
	}
}

// updateStreak credits at most one streak day per calendar day.
func updateStreak(p *Progress, now time.Time) {
	today := dayKey(now)
	if p.LastActiveDate == today {
		return
	}
	yesterday := dayKey(now.AddDate(0, 0, -1))
	if p.LastActiveDate == yesterday {
		p.StreakDays++
	} else {
		p.StreakDays = 1
	}
	if p.StreakDays > p.LongestStreak {
		p.LongestStreak = p.StreakDays
	}
	p.LastActiveDate = today
}
