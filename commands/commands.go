package commands

import (
	"strings"

	"groovebot/model"
	"groovebot/perf"
	"groovebot/pipeline"
	"groovebot/player"
	"groovebot/store"

	"github.com/bwmarrin/discordgo"
)

// Deps bundles everything the builtin commands reach for. One instance is
// built during startup and shared by every command closure.
type Deps struct {
	Cfg      *model.Config
	Store    *store.Store
	Players  *player.Manager
	Pipe     *pipeline.Pipeline
	Platform pipeline.Platform
	Monitor  *perf.Monitor
	Cache    *perf.Cache
	Queue    *perf.RequestQueue
	Breakers *perf.BreakerRegistry
	Session  *discordgo.Session
	Registry *Registry

	// Resolve turns a free-form query into a track. The default resolver
	// is installed during bot wiring; tests substitute their own.
	Resolve func(query string) (player.Track, error)
}

// RegisterAll installs the builtin command set into the registry.
func RegisterAll(r *Registry, d *Deps) {
	r.Register(pingCommand(d))
	r.Register(helpCommand(d))

	r.Register(playCommand(d))
	r.Register(skipCommand(d))
	r.Register(stopCommand(d))
	r.Register(pauseCommand(d))
	r.Register(resumeCommand(d))
	r.Register(nowPlayingCommand(d))
	r.Register(queueCommand(d))

	r.Register(prefixCommand(d))
	r.Register(staffRolesCommand(d))
	r.Register(blacklistCommand(d))
	r.Register(ignoreChannelCommand(d))
	r.Register(premiumCommand(d))
	r.Register(maintenanceCommand(d))

	r.Register(statsCommand(d))
	r.Register(sysInfoCommand(d))
}

// resolveTrack serves the track for a query, caching resolved results and
// routing the resolver call through its circuit breaker.
func (d *Deps) resolveTrack(query string) (player.Track, error) {
	key := "track:" + strings.ToLower(query)
	if cached, ok := d.Cache.Get(key); ok {
		return cached.(player.Track), nil
	}

	var track player.Track
	err := d.Breakers.Get("resolver").Execute(func() error {
		var err error
		track, err = d.Resolve(query)
		return err
	})
	if err != nil {
		return player.Track{}, err
	}
	d.Cache.Set(key, track, 0)
	return track, nil
}
