package gamification

import (
	"encoding/json"
	"time"
)

// DayLayout is the calendar-day format stored in LastActiveDate.
const DayLayout = "2006-01-02"

// UnlockedAchievement is a catalog entry stamped at the moment it unlocked.
type UnlockedAchievement struct {
	Achievement
	Progress   int       `json:"progress"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// Progress is the persisted gamification record. Level and
// ExperienceToNextLevel are caches of Experience and are recomputed on
// every load and mutation.
type Progress struct {
	Experience            int `json:"experience"`
	Level                 int `json:"level"`
	ExperienceToNextLevel int `json:"experience_to_next_level"`

	TasksCompleted   int `json:"tasks_completed"`
	TasksCreated     int `json:"tasks_created"`
	PomodoroSessions int `json:"pomodoro_sessions"`
	FocusMinutes     int `json:"focus_minutes"`
	BreakMinutes     int `json:"break_minutes"`

	DailyTasksCompleted    int `json:"daily_tasks_completed"`
	DailyPomodoroSessions  int `json:"daily_pomodoro_sessions"`
	WeeklyTasksCompleted   int `json:"weekly_tasks_completed"`
	WeeklyPomodoroSessions int `json:"weekly_pomodoro_sessions"`

	StreakDays     int    `json:"streak_days"`
	LongestStreak  int    `json:"longest_streak"`
	LastActiveDate string `json:"last_active_date"`

	UnlockedAchievements []string              `json:"unlocked_achievements"`
	NewAchievements      []UnlockedAchievement `json:"new_achievements"`
}

// DefaultProgress is the record of a user with no history.
func DefaultProgress() Progress {
	p := Progress{
		UnlockedAchievements: []string{},
		NewAchievements:      []UnlockedAchievement{},
	}
	p.refreshLevel()
	return p
}

func (p *Progress) refreshLevel() {
	p.Level = LevelFor(p.Experience).Level
	p.ExperienceToNextLevel = ExperienceToNextLevel(p.Experience)
}

// normalize repairs a decoded record: negative counters are clamped,
// duplicate unlock ids dropped, nil slices replaced and caches recomputed.
func (p *Progress) normalize() {
	for _, v := range []*int{
		&p.Experience, &p.TasksCompleted, &p.TasksCreated, &p.PomodoroSessions,
		&p.FocusMinutes, &p.BreakMinutes, &p.DailyTasksCompleted, &p.DailyPomodoroSessions,
		&p.WeeklyTasksCompleted, &p.WeeklyPomodoroSessions, &p.StreakDays, &p.LongestStreak,
	} {
		if *v < 0 {
			*v = 0
		}
	}
	if p.LongestStreak < p.StreakDays {
		p.LongestStreak = p.StreakDays
	}

	seen := make(map[string]bool, len(p.UnlockedAchievements))
	ids := make([]string, 0, len(p.UnlockedAchievements))
	for _, id := range p.UnlockedAchievements {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	p.UnlockedAchievements = ids
	if p.NewAchievements == nil {
		p.NewAchievements = []UnlockedAchievement{}
	}
	p.refreshLevel()
}

func (p Progress) isUnlocked(id string) bool {
	for _, got := range p.UnlockedAchievements {
		if got == id {
			return true
		}
	}
	return false
}

func (p Progress) clone() Progress {
	out := p
	out.UnlockedAchievements = append([]string{}, p.UnlockedAchievements...)
	out.NewAchievements = append([]UnlockedAchievement{}, p.NewAchievements...)
	return out
}

func encodeProgress(p Progress) ([]byte, error) {
	return json.Marshal(p)
}

func decodeProgress(raw []byte) (Progress, error) {
	p := DefaultProgress()
	if err := json.Unmarshal(raw, &p); err != nil {
		return Progress{}, err
	}
	p.normalize()
	return p, nil
}

func dayKey(t time.Time) string {
	return t.Format(DayLayout)
}

func parseDay(day string, loc *time.Location) (time.Time, bool) {
	if day == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DayLayout, day, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
