package config

import (
	"os"
	"path/filepath"

	"github.com/sandeepkv93/taskquest/internal/gamification"
	"github.com/sandeepkv93/taskquest/internal/pomodoro"
)

const (
	dirName        = ".taskquest"
	configFileName = "config.yaml"
)

func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Storage: StorageConfig{
			Backend: BackendSQLite,
		},
		Pomodoro: pomodoro.DefaultSettings(),
		Notifications: NotificationsConfig{
			Desktop: false,
			Bell:    true,
		},
		Gamification: GamificationConfig{
			WeekPolicy: string(gamification.WeekPolicyWeekday),
		},
		Scheduler: SchedulerConfig{
			Buffer: 16,
		},
	}
}

// DefaultDataDir is ~/.taskquest, or .taskquest in the working directory
// when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return dirName
	}
	return filepath.Join(home, dirName)
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	if dir := os.Getenv("TASKQUEST_DATA_DIR"); dir != "" {
		return filepath.Join(dir, configFileName)
	}
	return filepath.Join(DefaultDataDir(), configFileName)
}
