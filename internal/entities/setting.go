package entities

import (
	"time"
)

// Setting is one row of the durable key/value table.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// Serialized quote collection (JSON array of {text, category})
	SettingKeyQuotes = "quotes"
	// Last category filter chosen by the user
	SettingKeyLastFilter = "lastFilter"

	// Sync settings
	SettingKeySyncEnabled     = "sync_enabled"
	SettingKeySyncSchedule    = "sync_schedule"
	SettingKeySyncLastAt      = "sync_last_at"
	SettingKeySyncLastStatus  = "sync_last_status"
	SettingKeySyncLastMessage = "sync_last_message"
	SettingKeySyncLastMerged  = "sync_last_merged"
)
