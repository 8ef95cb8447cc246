package config

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./quotes.db"

	// DefaultRemoteURL is the mock REST collection used for sync
	DefaultRemoteURL = "https://jsonplaceholder.typicode.com/posts"

	DefaultSyncSchedule   = "@every 30s"
	DefaultSyncCategory   = "ServerSync"
	DefaultSyncFetchLimit = 5
)
