package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/taskquest/internal/gamification"
)

var ErrInvalid = errors.New("config: invalid")

// Load reads path (DefaultPath when empty) over the defaults, applies
// TASKQUEST_* environment overrides and validates the result. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultPath()
	}
	if err := loadFile(path, cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

// ApplyEnv overrides cfg from TASKQUEST_* variables. Unparseable or
// non-positive numbers are ignored.
func ApplyEnv(cfg *Config) {
	if v, ok := getEnvString("TASKQUEST_DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := getEnvString("TASKQUEST_STORAGE_BACKEND"); ok {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKQUEST_DB_PATH"); ok {
		cfg.Storage.Path = v
	}
	if v, ok := getEnvString("TASKQUEST_PROGRESS_FILE"); ok {
		cfg.Storage.ProgressFile = v
	}
	if v, ok := getEnvInt("TASKQUEST_WORK_MINUTES"); ok && v > 0 {
		cfg.Pomodoro.WorkMinutes = v
	}
	if v, ok := getEnvInt("TASKQUEST_SHORT_BREAK_MINUTES"); ok && v > 0 {
		cfg.Pomodoro.ShortBreakMinutes = v
	}
	if v, ok := getEnvInt("TASKQUEST_LONG_BREAK_MINUTES"); ok && v > 0 {
		cfg.Pomodoro.LongBreakMinutes = v
	}
	if v, ok := getEnvInt("TASKQUEST_LONG_BREAK_INTERVAL"); ok && v > 0 {
		cfg.Pomodoro.LongBreakInterval = v
	}
	if v, ok := getEnvBool("TASKQUEST_DESKTOP_NOTIFICATIONS"); ok {
		cfg.Notifications.Desktop = v
	}
	if v, ok := getEnvBool("TASKQUEST_BELL"); ok {
		cfg.Notifications.Bell = v
	}
	if v, ok := getEnvBool("TASKQUEST_BEEP"); ok {
		cfg.Notifications.Beep = v
	}
	if v, ok := getEnvString("TASKQUEST_WEEK_POLICY"); ok {
		cfg.Gamification.WeekPolicy = v
	}
	if v, ok := getEnvInt("TASKQUEST_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.Scheduler.Buffer = v
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("%w: data_dir is required", ErrInvalid)
	}
	switch c.Storage.Backend {
	case "":
		c.Storage.Backend = BackendSQLite
	case BackendSQLite, BackendFile:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalid, c.Storage.Backend)
	}
	policy, err := gamification.ParseWeekPolicy(c.Gamification.WeekPolicy)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	c.Gamification.WeekPolicy = string(policy)
	c.Pomodoro = c.Pomodoro.Normalized()
	if c.Scheduler.Buffer <= 0 {
		c.Scheduler.Buffer = DefaultConfig().Scheduler.Buffer
	}
	return nil
}

func (c *Config) DatabasePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return filepath.Join(c.DataDir, "taskquest.db")
}

func (c *Config) ProgressPath() string {
	if c.Storage.ProgressFile != "" {
		return c.Storage.ProgressFile
	}
	return filepath.Join(c.DataDir, "progress.json")
}

func (c *Config) WeekPolicy() gamification.WeekPolicy {
	policy, err := gamification.ParseWeekPolicy(c.Gamification.WeekPolicy)
	if err != nil {
		return gamification.WeekPolicyWeekday
	}
	return policy
}

// Write saves cfg as YAML at path, creating parent directories.
func Write(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
