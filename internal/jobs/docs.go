// Package jobs provides scheduled background tasks for the geodata ordering
// platform.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the ordering service.
//
// # Available Jobs
//
// 1. OrderArchivalJob - Archives processed orders whose order date is older
// than the configured retention window. Runs on a configurable cron schedule,
// daily by default.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(archiveOrdersHandler, "0 3 * * *", retention, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The archival sweep is resumable: an order that fails to archive is logged
// and skipped, the rest of the batch proceeds, and the next run picks the
// failed order up again.
package jobs
