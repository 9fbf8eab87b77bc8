package config

import "github.com/sandeepkv93/taskquest/internal/pomodoro"

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config is the on-disk taskquest configuration.
type Config struct {
	DataDir       string              `yaml:"data_dir" mapstructure:"data_dir"`
	Storage       StorageConfig       `yaml:"storage" mapstructure:"storage"`
	Pomodoro      pomodoro.Settings   `yaml:"pomodoro" mapstructure:"pomodoro"`
	Notifications NotificationsConfig `yaml:"notifications" mapstructure:"notifications"`
	Gamification  GamificationConfig  `yaml:"gamification" mapstructure:"gamification"`
	Scheduler     SchedulerConfig     `yaml:"scheduler" mapstructure:"scheduler"`
}

// StorageConfig selects where tasks and progress live. Tasks are always
// kept in SQLite; Backend decides whether the progress record shares the
// database or sits in its own JSON file.
type StorageConfig struct {
	Backend      string `yaml:"backend" mapstructure:"backend"`
	Path         string `yaml:"path" mapstructure:"path"`
	ProgressFile string `yaml:"progress_file" mapstructure:"progress_file"`
}

// NotificationsConfig picks the transition signals. Beep sounds the system
// speaker and takes precedence over the terminal Bell.
type NotificationsConfig struct {
	Desktop bool `yaml:"desktop" mapstructure:"desktop"`
	Bell    bool `yaml:"bell" mapstructure:"bell"`
	Beep    bool `yaml:"beep" mapstructure:"beep"`
}

type GamificationConfig struct {
	// WeekPolicy is "weekday" or "isoweek".
	WeekPolicy string `yaml:"week_policy" mapstructure:"week_policy"`
}

type SchedulerConfig struct {
	Buffer int `yaml:"buffer" mapstructure:"buffer"`
}
