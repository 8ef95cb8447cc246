package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Sync
		Remote
		Tasks
		Session
		Audit
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Sync struct {
		Enabled    bool
		Schedule   string        // Cron format or descriptor: "@every 30s"
		Category   string        // Category assigned to quotes pulled from the remote source
		FetchLimit int           // Max remote records considered per reconcile
		Timeout    time.Duration // Per-reconcile fetch timeout
	}
	Remote struct {
		URL     string
		Timeout time.Duration
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Session struct {
		Lifetime      time.Duration
		SecureCookies bool // Set to false for local dev without HTTPS
	}
	Audit struct {
		Dir           string // Raw import payloads are archived here
		RetentionDays int    // Days to keep audit events (default: 30)
	}
	Log struct {
		Level      string // debug, info, warn, error
		Format     string // console or json
		File       string // Optional rotating log file
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Sync defaults
	v.SetDefault("sync_enabled", true)
	v.SetDefault("sync_schedule", DefaultSyncSchedule)
	v.SetDefault("sync_category", DefaultSyncCategory)
	v.SetDefault("sync_fetch_limit", DefaultSyncFetchLimit)
	v.SetDefault("sync_timeout", "10s")

	// Remote source defaults
	v.SetDefault("remote_url", DefaultRemoteURL)
	v.SetDefault("remote_timeout", "30s")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Session defaults
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("session_secure_cookies", false)

	v.SetDefault("audit_dir", "./audit")
	v.SetDefault("audit_retention_days", 30)

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size_mb", 10)
	v.SetDefault("log_max_backups", 3)
	v.SetDefault("log_max_age_days", 28)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Sync: Sync{
			Enabled:    v.GetBool("SYNC_ENABLED"),
			Schedule:   v.GetString("SYNC_SCHEDULE"),
			Category:   v.GetString("SYNC_CATEGORY"),
			FetchLimit: v.GetInt("SYNC_FETCH_LIMIT"),
			Timeout:    v.GetDuration("SYNC_TIMEOUT"),
		},
		Remote: Remote{
			URL:     v.GetString("REMOTE_URL"),
			Timeout: v.GetDuration("REMOTE_TIMEOUT"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Session: Session{
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SESSION_SECURE_COOKIES"),
		},
		Audit: Audit{
			Dir:           v.GetString("AUDIT_DIR"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Log: Log{
			Level:      v.GetString("LOG_LEVEL"),
			Format:     v.GetString("LOG_FORMAT"),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
	}
}
