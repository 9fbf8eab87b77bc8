package gamification

// Category groups achievements by the counter they measure.
type Category string

const (
	CategoryTasks     Category = "tasks"
	CategoryPomodoro  Category = "pomodoro"
	CategoryStreak    Category = "streak"
	CategoryMilestone Category = "milestone"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryTasks, CategoryPomodoro, CategoryStreak, CategoryMilestone:
		return true
	default:
		return false
	}
}

const (
	TaskCompletedXP   = 10
	PomodoroSessionXP = 25

	DefaultFocusMinutes = 25
)

// Milestone achievement ids with a dedicated daily counter.
const (
	AchievementProductiveDay = "productive_day"
	AchievementFocusMarathon = "focus_marathon"
)

type Achievement struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Icon             string   `json:"icon"`
	Category         Category `json:"category"`
	Requirement      int      `json:"requirement"`
	ExperienceReward int      `json:"experience_reward"`
}

var catalog = []Achievement{
	{ID: "first_task", Title: "Getting Started", Description: "Complete your first task", Icon: "✅", Category: CategoryTasks, Requirement: 1, ExperienceReward: 50},
	{ID: "task_warrior_10", Title: "Task Warrior", Description: "Complete 10 tasks", Icon: "⚔️", Category: CategoryTasks, Requirement: 10, ExperienceReward: 100},
	{ID: "task_master_50", Title: "Task Master", Description: "Complete 50 tasks", Icon: "🎯", Category: CategoryTasks, Requirement: 50, ExperienceReward: 250},
	{ID: "century_club", Title: "Century Club", Description: "Complete 100 tasks", Icon: "💯", Category: CategoryTasks, Requirement: 100, ExperienceReward: 500},

	{ID: "first_pomodoro", Title: "Focus Beginner", Description: "Complete your first Pomodoro session", Icon: "🍅", Category: CategoryPomodoro, Requirement: 1, ExperienceReward: 75},
	{ID: "pomodoro_dedication", Title: "Focused Mind", Description: "Complete 10 Pomodoro sessions", Icon: "🧠", Category: CategoryPomodoro, Requirement: 10, ExperienceReward: 150},
	{ID: "pomodoro_master", Title: "Pomodoro Master", Description: "Complete 50 Pomodoro sessions", Icon: "🥇", Category: CategoryPomodoro, Requirement: 50, ExperienceReward: 300},
	{ID: "deep_focus", Title: "Deep Focus", Description: "Complete 100 Pomodoro sessions", Icon: "🔥", Category: CategoryPomodoro, Requirement: 100, ExperienceReward: 750},

	{ID: "streak_3", Title: "Consistent", Description: "Maintain a 3-day streak", Icon: "📅", Category: CategoryStreak, Requirement: 3, ExperienceReward: 100},
	{ID: "streak_7", Title: "Weekly Warrior", Description: "Maintain a 7-day streak", Icon: "🗓️", Category: CategoryStreak, Requirement: 7, ExperienceReward: 200},
	{ID: "streak_30", Title: "Monthly Master", Description: "Maintain a 30-day streak", Icon: "📊", Category: CategoryStreak, Requirement: 30, ExperienceReward: 500},

	{ID: AchievementProductiveDay, Title: "Productive Day", Description: "Complete 5 tasks in one day", Icon: "☀️", Category: CategoryMilestone, Requirement: 5, ExperienceReward: 100},
	{ID: AchievementFocusMarathon, Title: "Focus Marathon", Description: "Complete 5 Pomodoro sessions in one day", Icon: "🏃", Category: CategoryMilestone, Requirement: 5, ExperienceReward: 150},
}

// Catalog returns a copy of the achievement catalog in evaluation order.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}

// FindAchievement looks up a catalog entry by id.
func FindAchievement(id string) (Achievement, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Measure returns the raw counter an achievement is judged against.
// Milestones without a dedicated counter measure 0 and never unlock.
func Measure(a Achievement, p Progress) int {
	switch a.Category {
	case CategoryTasks:
		return p.TasksCompleted
	case CategoryPomodoro:
		return p.PomodoroSessions
	case CategoryStreak:
		return p.StreakDays
	case CategoryMilestone:
		switch a.ID {
		case AchievementProductiveDay:
			return p.DailyTasksCompleted
		case AchievementFocusMarathon:
			return p.DailyPomodoroSessions
		}
		return 0
	default:
		return 0
	}
}

// UnboundedExperience marks the open upper end of the top level.
const UnboundedExperience = -1

type LevelInfo struct {
	Level         int
	Title         string
	MinExperience int
	MaxExperience int
	Icon          string
	Color         string
}

func (l LevelInfo) IsTop() bool {
	return l.MaxExperience == UnboundedExperience
}

var levelTable = []LevelInfo{
	{Level: 1, Title: "Novice", MinExperience: 0, MaxExperience: 99, Icon: "🌱", Color: "#10b981"},
	{Level: 2, Title: "Beginner", MinExperience: 100, MaxExperience: 249, Icon: "📝", Color: "#3b82f6"},
	{Level: 3, Title: "Focused", MinExperience: 250, MaxExperience: 499, Icon: "🎯", Color: "#6366f1"},
	{Level: 4, Title: "Dedicated", MinExperience: 500, MaxExperience: 999, Icon: "⚡", Color: "#8b5cf6"},
	{Level: 5, Title: "Productive", MinExperience: 1000, MaxExperience: 1999, Icon: "🚀", Color: "#ec4899"},
	{Level: 6, Title: "Master", MinExperience: 2000, MaxExperience: 3999, Icon: "🏆", Color: "#f59e0b"},
	{Level: 7, Title: "Expert", MinExperience: 4000, MaxExperience: 7999, Icon: "💎", Color: "#ef4444"},
	{Level: 8, Title: "Legend", MinExperience: 8000, MaxExperience: 15999, Icon: "👑", Color: "#f97316"},
	{Level: 9, Title: "Grandmaster", MinExperience: 16000, MaxExperience: 31999, Icon: "✨", Color: "#84cc16"},
	{Level: 10, Title: "Zen Master", MinExperience: 32000, MaxExperience: UnboundedExperience, Icon: "🧘", Color: "#06b6d4"},
}

// Levels returns a copy of the level table, lowest level first.
func Levels() []LevelInfo {
	out := make([]LevelInfo, len(levelTable))
	copy(out, levelTable)
	return out
}

// LevelFor returns the highest level whose threshold experience has reached.
func LevelFor(experience int) LevelInfo {
	for i := len(levelTable) - 1; i >= 0; i-- {
		if experience >= levelTable[i].MinExperience {
			return levelTable[i]
		}
	}
	return levelTable[0]
}

// ExperienceToNextLevel is the experience still missing for the next level, 0 at the top.
func ExperienceToNextLevel(experience int) int {
	current := LevelFor(experience)
	if current.Level >= len(levelTable) {
		return 0
	}
	return levelTable[current.Level].MinExperience - experience
}

// PercentToNextLevel reports progress through the current level band.
func PercentToNextLevel(experience int) float64 {
	info := LevelFor(experience)
	span := info.MaxExperience - info.MinExperience
	if info.IsTop() || span <= 0 {
		return 100
	}
	return float64(experience-info.MinExperience) / float64(span) * 100
}
