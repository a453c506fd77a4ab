package bot

import (
	"fmt"
	"log"
	"sync"
	"time"

	"groovebot/perf"
	"groovebot/utils"
)

// Scheduler runs the periodic housekeeping: cooldown and rate-limit
// sweeps, cache cleanup and a health check.
type Scheduler struct {
	bot  *Bot
	done chan struct{}
	wg   sync.WaitGroup

	sweepTicker  *time.Ticker
	healthTicker *time.Ticker
}

func NewScheduler(b *Bot) *Scheduler {
	return &Scheduler{
		bot:  b,
		done: make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
}

func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	close(s.done)
	s.wg.Wait()
	log.Println("Scheduler stopped.")
}

func (s *Scheduler) run() {
	defer s.wg.Done()
	s.sweepTicker = time.NewTicker(1 * time.Minute)
	s.healthTicker = time.NewTicker(5 * time.Minute)
	defer s.sweepTicker.Stop()
	defer s.healthTicker.Stop()

	for {
		select {
		case <-s.sweepTicker.C:
			s.sweep()
		case <-s.healthTicker.C:
			s.checkHealth()
		case <-s.done:
			return
		}
	}
}

func (s *Scheduler) sweep() {
	cooldowns := s.bot.Cooldowns.Sweep()
	limits := s.bot.Limiter.Sweep()
	cached := s.bot.Cache.Cleanup()
	if cooldowns+limits+cached > 0 {
		log.Printf("Sweep removed %d cooldowns, %d rate windows, %d cache entries.", cooldowns, limits, cached)
	}
}

func (s *Scheduler) checkHealth() {
	health := s.bot.Monitor.Health()
	if health.Status == perf.HealthHealthy {
		return
	}

	log.Printf("Health degraded: %s (memory %.1f%%, %d errors)",
		health.Status, health.MemoryUsedPercent, health.ErrorCount)
	utils.LogWarn(s.bot.Session, s.bot.Cfg.LogChannelID, "Monitor", "Health",
		fmt.Sprintf("status %s, memory %.1f%%, %d recent errors, uptime %s",
			health.Status, health.MemoryUsedPercent, health.ErrorCount,
			utils.FormatDuration(health.Uptime)))
}
