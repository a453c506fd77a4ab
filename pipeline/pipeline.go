// Package pipeline implements command admission: the ordered,
// short-circuiting chain of checks between an inbound message and command
// execution. Every stage either lets the flow continue or terminates it,
// owning its own user-facing message (or silence). Stage order is load
// bearing; later stages assume the invariants earlier ones established.
package pipeline

import (
	"sync/atomic"

	"groovebot/model"
	"groovebot/ratelimit"
)

// Stage identifies where in the chain an invocation ended.
type Stage int

const (
	StageBlacklist Stage = iota
	StageBotAccess
	StageMention
	StageResolve
	StageRateLimit
	StageCooldown
	StageChannelPerms
	StageUserPerms
	StageIgnored
	StageTier
	StageMaintenance
	StageHelp
	StageVoice
	StageSession
	StageNSFW
	StageExecute
)

func (s Stage) String() string {
	switch s {
	case StageBlacklist:
		return "blacklist"
	case StageBotAccess:
		return "bot-access"
	case StageMention:
		return "mention"
	case StageResolve:
		return "resolve"
	case StageRateLimit:
		return "rate-limit"
	case StageCooldown:
		return "cooldown"
	case StageChannelPerms:
		return "channel-perms"
	case StageUserPerms:
		return "user-perms"
	case StageIgnored:
		return "ignored-channel"
	case StageTier:
		return "role-tier"
	case StageMaintenance:
		return "maintenance"
	case StageHelp:
		return "help-flag"
	case StageVoice:
		return "voice-state"
	case StageSession:
		return "active-session"
	case StageNSFW:
		return "nsfw"
	case StageExecute:
		return "execute"
	default:
		return "unknown"
	}
}

// Outcome reports how an invocation left the chain. Allowed is true only
// when every stage passed and the command was handed to the dispatcher.
type Outcome struct {
	Stage   Stage
	Allowed bool
	Command *model.Command
}

// Registry resolves a command name or alias to its descriptor.
type Registry interface {
	Resolve(name string) (*model.Command, bool)
}

// DataStore is the slice of the key-value store admission reads.
type DataStore interface {
	IsBlacklisted(userID string) (bool, error)
	IsIgnoredChannel(channelID string) (bool, error)
	IsPremium(userID string) (bool, error)
	IsModerator(userID string) (bool, error)
	IsStaff(userID string) (bool, error)
	ServerStaffRoles(guildID string) ([]string, error)
	GuildPrefix(guildID string) (string, bool, error)
	HasNoPrefix(userID string) (bool, error)
}

// ChannelInfo carries the origin-channel attributes admission checks need.
type ChannelInfo struct {
	NSFW     bool
	IsThread bool
}

// Platform answers channel-permission and voice-state questions against
// the chat platform.
type Platform interface {
	BotUserID() string
	BotPermissions(channelID string) (int64, error)
	UserPermissions(userID, channelID string) (int64, error)
	// UserVoiceChannel returns the voice channel the user is connected to
	// in the guild, ok=false when not connected.
	UserVoiceChannel(guildID, userID string) (string, bool, error)
	ChannelInfo(channelID string) (ChannelInfo, error)
}

// Session is the view of an active streaming session admission needs.
type Session interface {
	IsPlaying() bool
	ChannelID() string
}

// SessionProvider looks up the active session for an origin guild.
type SessionProvider interface {
	GetActiveSession(guildID string) (Session, bool)
}

// Dispatcher receives the invocation once admission succeeds.
type Dispatcher interface {
	Dispatch(ctx *model.Context, cmd *model.Command, args []string)
}

// Pipeline owns all admission state: the cooldown tracker, the tiered
// limiter, and the maintenance flag. One instance per bot process; tests
// build fresh ones.
type Pipeline struct {
	cfg       *model.Config
	registry  Registry
	store     DataStore
	platform  Platform
	sessions  SessionProvider
	cooldowns *ratelimit.CooldownTracker
	limiter   *ratelimit.TieredLimiter
	dispatch  Dispatcher

	maintenance atomic.Bool

	// Branch targets owned by the command layer. Left nil, the branch
	// aborts silently.
	OnMention     func(ctx *model.Context, prefix string)
	OnHelp        func(ctx *model.Context, cmd *model.Command)
	OnMaintenance func(ctx *model.Context)
}

// New wires a pipeline. All collaborators are required except dispatch,
// which tests may leave nil to observe the Outcome alone.
func New(
	cfg *model.Config,
	registry Registry,
	store DataStore,
	platform Platform,
	sessions SessionProvider,
	cooldowns *ratelimit.CooldownTracker,
	limiter *ratelimit.TieredLimiter,
	dispatch Dispatcher,
) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		registry:  registry,
		store:     store,
		platform:  platform,
		sessions:  sessions,
		cooldowns: cooldowns,
		limiter:   limiter,
		dispatch:  dispatch,
	}
	p.maintenance.Store(cfg.Settings.Maintenance)
	return p
}

// SetMaintenance flips the maintenance-mode gate.
func (p *Pipeline) SetMaintenance(on bool) {
	p.maintenance.Store(on)
}

// InMaintenance reports the maintenance-mode gate.
func (p *Pipeline) InMaintenance() bool {
	return p.maintenance.Load()
}

// Cooldowns exposes the tracker for the scheduler's sweep.
func (p *Pipeline) Cooldowns() *ratelimit.CooldownTracker {
	return p.cooldowns
}

// Limiter exposes the tiered limiter for the scheduler's sweep.
func (p *Pipeline) Limiter() *ratelimit.TieredLimiter {
	return p.limiter
}
