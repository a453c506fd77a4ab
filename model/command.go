package model

import "time"

// Tier is a subject's authorization class for rate-limit decisions.
type Tier int

const (
	TierDefault Tier = iota
	TierPremium
	TierOwner
)

func (t Tier) String() string {
	switch t {
	case TierPremium:
		return "premium"
	case TierOwner:
		return "owner"
	default:
		return "default"
	}
}

// Level is the role tier a command demands from the subject.
// Resolution order during admission: owner > admin > moderator > staff >
// server admin > server staff > everyone.
type Level int

const (
	LevelEveryone Level = iota
	LevelServerStaff
	LevelServerAdmin
	LevelStaff
	LevelModerator
	LevelAdmin
	LevelOwner
)

func (l Level) String() string {
	switch l {
	case LevelServerStaff:
		return "server staff"
	case LevelServerAdmin:
		return "server admin"
	case LevelStaff:
		return "staff"
	case LevelModerator:
		return "moderator"
	case LevelAdmin:
		return "admin"
	case LevelOwner:
		return "owner"
	default:
		return "everyone"
	}
}

// Requirement is one voice/player precondition a command can declare.
type Requirement int

const (
	// RequiresVoice: subject must be connected to a voice channel.
	RequiresVoice Requirement = iota
	// RequiresSameVoice: subject must share the bot's active voice channel.
	RequiresSameVoice
	// RequiresSession: the origin guild must have an active session.
	RequiresSession
	// RequiresPlaying: the active session must currently be playing.
	RequiresPlaying
)

// Command 定义了一个命令的静态元数据
// Descriptors are immutable after registration and owned by the registry.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Usage       string

	Level        Level
	BotPerms     int64 // channel permissions the bot needs to run this
	UserPerms    int64 // channel permissions the subject must hold
	Requirements []Requirement
	Cooldown     time.Duration
	NSFW         bool

	Run func(ctx *Context, args []string) error
}

// Requires reports whether the descriptor declares the given requirement.
func (c *Command) Requires(r Requirement) bool {
	for _, have := range c.Requirements {
		if have == r {
			return true
		}
	}
	return false
}
