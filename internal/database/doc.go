// Package database provides the data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── settings/        # Durable key/value rows (implements kv.Store)
//	└── audit/           # Audit event log
//
// # Usage
//
//	db, err := database.NewDatabase("./quotes.db")
//
//	settingsRepo := settings.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
//
// The quote collection itself is not a table: it is serialized under the
// "quotes" key of the settings table, so every write replaces the whole
// collection in one statement.
package database
