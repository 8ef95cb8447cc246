package settingsstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/quotes/internal/config"
	"github.com/mrlokans/quotes/internal/entities"
)

// CronParser accepts five-field expressions and descriptors such as "@every 30s".
var CronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// SyncConfig represents the effective configuration for quote sync
type SyncConfig struct {
	Enabled  bool   `json:"enabled"`
	Schedule string `json:"schedule"`
}

// SyncConfigInfo includes source information for each field
type SyncConfigInfo struct {
	Enabled       bool   `json:"enabled"`
	EnabledSource string `json:"enabled_source"` // "database", "config"

	Schedule       string `json:"schedule"`
	ScheduleSource string `json:"schedule_source"`
	Description    string `json:"description"`
}

// SyncStatus represents the last sync outcome
type SyncStatus struct {
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
	Status     string     `json:"status,omitempty"`  // "success", "failed", ""
	Message    string     `json:"message,omitempty"` // Error message or stats summary
	Merged     int        `json:"merged"`
}

// GetSyncEnabled returns whether sync is enabled (database > config)
func (s *SettingsStore) GetSyncEnabled(ctx context.Context) bool {
	if value, ok := s.lookup(ctx, entities.SettingKeySyncEnabled); ok {
		return value == "true" || value == "1"
	}
	return s.sync.Enabled
}

func (s *SettingsStore) GetSyncEnabledSource(ctx context.Context) string {
	if _, ok := s.lookup(ctx, entities.SettingKeySyncEnabled); ok {
		return SourceDatabase
	}
	return SourceConfig
}

func (s *SettingsStore) SetSyncEnabled(ctx context.Context, enabled bool) error {
	return s.kv.Set(ctx, entities.SettingKeySyncEnabled, strconv.FormatBool(enabled))
}

// GetSyncSchedule returns the cron schedule (database > config > "@every 30s")
func (s *SettingsStore) GetSyncSchedule(ctx context.Context) string {
	if value, ok := s.lookup(ctx, entities.SettingKeySyncSchedule); ok {
		return value
	}
	if s.sync.Schedule != "" {
		return s.sync.Schedule
	}
	return config.DefaultSyncSchedule
}

func (s *SettingsStore) GetSyncScheduleSource(ctx context.Context) string {
	if _, ok := s.lookup(ctx, entities.SettingKeySyncSchedule); ok {
		return SourceDatabase
	}
	if s.sync.Schedule != "" {
		return SourceConfig
	}
	return SourceDefault
}

// SetSyncSchedule validates and saves the schedule to database
func (s *SettingsStore) SetSyncSchedule(ctx context.Context, schedule string) error {
	if err := ValidateCronSchedule(schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	return s.kv.Set(ctx, entities.SettingKeySyncSchedule, schedule)
}

func (s *SettingsStore) GetSyncConfig(ctx context.Context) SyncConfig {
	return SyncConfig{
		Enabled:  s.GetSyncEnabled(ctx),
		Schedule: s.GetSyncSchedule(ctx),
	}
}

func (s *SettingsStore) GetSyncConfigInfo(ctx context.Context) SyncConfigInfo {
	schedule := s.GetSyncSchedule(ctx)
	return SyncConfigInfo{
		Enabled:        s.GetSyncEnabled(ctx),
		EnabledSource:  s.GetSyncEnabledSource(ctx),
		Schedule:       schedule,
		ScheduleSource: s.GetSyncScheduleSource(ctx),
		Description:    GetCronDescription(schedule),
	}
}

// GetSyncStatus returns the last sync status
func (s *SettingsStore) GetSyncStatus(ctx context.Context) SyncStatus {
	status := SyncStatus{}

	if value, ok := s.lookup(ctx, entities.SettingKeySyncLastAt); ok {
		if ts, err := time.Parse(time.RFC3339, value); err == nil {
			status.LastSyncAt = &ts
		}
	}
	if value, ok := s.lookup(ctx, entities.SettingKeySyncLastStatus); ok {
		status.Status = value
	}
	if value, ok := s.lookup(ctx, entities.SettingKeySyncLastMessage); ok {
		status.Message = value
	}
	if value, ok := s.lookup(ctx, entities.SettingKeySyncLastMerged); ok {
		status.Merged, _ = strconv.Atoi(value)
	}

	return status
}

// SetSyncStatus records the outcome of a sync run
func (s *SettingsStore) SetSyncStatus(ctx context.Context, status, message string, merged int) error {
	now := time.Now().UTC().Format(time.RFC3339)

	values := []struct{ key, value string }{
		{entities.SettingKeySyncLastAt, now},
		{entities.SettingKeySyncLastStatus, status},
		{entities.SettingKeySyncLastMessage, message},
		{entities.SettingKeySyncLastMerged, strconv.Itoa(merged)},
	}
	for _, v := range values {
		if err := s.kv.Set(ctx, v.key, v.value); err != nil {
			return err
		}
	}
	return nil
}

// ClearSyncSettings clears all database overrides, reverting to config
func (s *SettingsStore) ClearSyncSettings(ctx context.Context) error {
	for _, key := range []string{entities.SettingKeySyncEnabled, entities.SettingKeySyncSchedule} {
		if err := s.clear(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCronSchedule validates a cron schedule string
func ValidateCronSchedule(schedule string) error {
	_, err := CronParser.Parse(schedule)
	return err
}

// GetCronDescription returns a human-readable description of a cron schedule
func GetCronDescription(schedule string) string {
	if every, ok := strings.CutPrefix(schedule, "@every "); ok {
		if d, err := time.ParseDuration(every); err == nil {
			return "Every " + d.String()
		}
	}

	switch schedule {
	case "* * * * *":
		return "Every minute"
	case "*/5 * * * *":
		return "Every 5 minutes"
	case "*/15 * * * *":
		return "Every 15 minutes"
	case "0 * * * *", "@hourly":
		return "Every hour at :00"
	case "0 0 * * *", "@daily", "@midnight":
		return "Daily at midnight"
	default:
		return "Custom schedule: " + schedule
	}
}

// GetNextRunTime calculates when the next sync will run based on the schedule
func GetNextRunTime(schedule string) (*time.Time, error) {
	sched, err := CronParser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(time.Now())
	return &next, nil
}
