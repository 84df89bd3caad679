package jobs

import (
	"contact_flow_app_go/services"
	"log"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CleanupSpec runs the session sweep at the top of every hour
const CleanupSpec = "@hourly"

// StartScheduler registers the background jobs and starts the cron runner.
// The caller stops it on shutdown.
func StartScheduler(database *gorm.DB) (*cron.Cron, error) {
	c := cron.New()

	if _, err := c.AddFunc(CleanupSpec, func() { CleanupSessions(database) }); err != nil {
		return nil, err
	}

	c.Start()
	log.Println("[CRON] Scheduler started")
	return c, nil
}

// CleanupSessions removes expired admin sessions
func CleanupSessions(database *gorm.DB) {
	removed, err := services.CleanupExpiredSessions(database)
	if err != nil {
		log.Printf("[JOB] Session cleanup failed: %v", err)
		return
	}
	log.Printf("[JOB] Session cleanup removed %d sessions", removed)
}
