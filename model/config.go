package model

import "time"

// TierLimit is one tier's fixed-window rate allowance.
type TierLimit struct {
	Requests int
	Window   time.Duration
}

// QueueSettings controls the dispatch request queue.
type QueueSettings struct {
	Concurrency int
	Timeout     time.Duration
}

// CacheSettings controls the lookup cache.
type CacheSettings struct {
	MaxSize    int
	DefaultTTL time.Duration
}

// BreakerSettings controls circuit breakers created for external dependencies.
type BreakerSettings struct {
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
}

// RetrySettings controls the dispatch retry policy.
type RetrySettings struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// MonitorSettings controls the performance monitor.
type MonitorSettings struct {
	SampleWindow   int
	MemoryWarn     float64
	MemoryCritical float64
	ErrorWarn      int
	ErrorCritical  int
}

// Settings 保存 data/settings.yaml 的可调参数
type Settings struct {
	Prefix               string
	CooldownNoticeWindow time.Duration
	RateLimits           map[Tier]TierLimit
	Queue                QueueSettings
	Cache                CacheSettings
	Breaker              BreakerSettings
	Retry                RetrySettings
	Monitor              MonitorSettings
	Maintenance          bool
}

// Config 存储应用程序的配置
type Config struct {
	BotToken     string
	AppID        string
	LogChannelID string
	OwnerUserIDs []string
	AdminUserIDs []string
	DBPath       string
	Settings     Settings
}

// IsOwner reports whether the given user id is a configured owner.
func (c *Config) IsOwner(userID string) bool {
	for _, id := range c.OwnerUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the given user id is a configured admin (owners included).
func (c *Config) IsAdmin(userID string) bool {
	if c.IsOwner(userID) {
		return true
	}
	for _, id := range c.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
