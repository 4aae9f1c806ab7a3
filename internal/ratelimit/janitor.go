package ratelimit

import (
	"log"

	"github.com/robfig/cron/v3"
)

// StartJanitor schedules a periodic sweep of expired in-memory windows.
// The returned cron can be stopped on shutdown.
func StartJanitor(m *Memory) *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("@every 1m", m.Sweep); err != nil {
		log.Printf("Failed to create janitor job: %v", err)
		return c
	}

	c.Start()
	return c
}
