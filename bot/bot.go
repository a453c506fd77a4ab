// Package bot assembles the session, the admission components and the
// housekeeping scheduler into one runnable unit.
package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"groovebot/commands"
	"groovebot/dispatch"
	"groovebot/model"
	"groovebot/perf"
	"groovebot/pipeline"
	"groovebot/player"
	"groovebot/ratelimit"
	"groovebot/store"

	"github.com/bwmarrin/discordgo"
)

type Bot struct {
	Session  *discordgo.Session
	Cfg      *model.Config
	Store    *store.Store
	Players  *player.Manager
	Registry *commands.Registry

	// Pipe is built by handlers.Register once the platform adapter exists.
	Pipe *pipeline.Pipeline

	Cooldowns  *ratelimit.CooldownTracker
	Limiter    *ratelimit.TieredLimiter
	Monitor    *perf.Monitor
	Cache      *perf.Cache
	Queue      *perf.RequestQueue
	Breakers   *perf.BreakerRegistry
	Retry      *perf.RetryHandler
	Dispatcher *dispatch.Dispatcher

	scheduler *Scheduler
}

func New(cfg *model.Config, st *store.Store) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentMessageContent

	settings := cfg.Settings
	monitor := perf.NewMonitor(settings.Monitor)
	queue := perf.NewRequestQueue(settings.Queue.Concurrency, settings.Queue.Timeout)
	retry := perf.NewRetryHandler(settings.Retry)

	b := &Bot{
		Session:    dg,
		Cfg:        cfg,
		Store:      st,
		Players:    player.NewManager(),
		Registry:   commands.NewRegistry(),
		Cooldowns:  ratelimit.NewCooldownTracker(settings.CooldownNoticeWindow),
		Monitor:    monitor,
		Cache:      perf.NewCache(settings.Cache.MaxSize, settings.Cache.DefaultTTL),
		Queue:      queue,
		Breakers:   perf.NewBreakerRegistry(settings.Breaker.FailureThreshold, settings.Breaker.SuccessThreshold, settings.Breaker.Timeout),
		Retry:      retry,
		Dispatcher: dispatch.New(queue, retry, monitor),
	}
	b.Limiter = ratelimit.NewTieredLimiter(settings.RateLimits, b.resolveTier)
	b.scheduler = NewScheduler(b)
	return b, nil
}

// resolveTier classifies a subject for rate limiting: owners and admins
// get the owner allowance, premium users the premium one.
func (b *Bot) resolveTier(subjectID string) model.Tier {
	if b.Cfg.IsAdmin(subjectID) {
		return model.TierOwner
	}
	premium, err := b.Store.IsPremium(subjectID)
	if err != nil {
		log.Printf("Premium lookup failed for %s: %v", subjectID, err)
		return model.TierDefault
	}
	if premium {
		return model.TierPremium
	}
	return model.TierDefault
}

// Run opens the gateway connection and blocks until SIGINT or SIGTERM.
func (b *Bot) Run() error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("open connection: %w", err)
	}

	if b.Pipe != nil && b.Pipe.InMaintenance() {
		log.Println("Starting in maintenance mode.")
	}

	b.scheduler.Start()

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	return nil
}

func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	b.scheduler.Stop()

	if cleared := b.Queue.Clear(); cleared > 0 {
		log.Printf("Rejected %d queued requests during shutdown.", cleared)
	}
	if err := b.Session.Close(); err != nil {
		log.Printf("Error closing session: %v", err)
	}
	if err := b.Store.Close(); err != nil {
		log.Printf("Error closing store: %v", err)
	}
}
