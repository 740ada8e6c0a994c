package cmd

import (
	"fmt"
	"time"
)

// Config carries the runtime configuration of the service, loaded from the
// environment by the entry point.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// StorageRoot is the directory the extraction backend drops result
	// files into. Download requests are resolved against it.
	StorageRoot string

	// AdminEmail receives the quote requests for items without an
	// automatic price.
	AdminEmail string

	// ArchivalSchedule is the cron schedule of the order archival sweep.
	ArchivalSchedule string

	// ArchivalRetention is how long processed orders stay before the
	// sweep archives them.
	ArchivalRetention time.Duration
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
