package config

import (
	"log"
	"os"
	"strings"

	"groovebot/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load loads the configuration from environment variables and data/settings.yaml.
func Load() (*model.Config, error) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		log.Fatal("Error: BOT_TOKEN environment variable not set")
	}

	appID := os.Getenv("APP_ID")

	logChannelID := os.Getenv("LOG_CHANNEL_ID")
	if logChannelID == "" {
		log.Println("Warning: LOG_CHANNEL_ID not set, audit logging will be disabled")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/groovebot.db"
	}

	cfg := &model.Config{
		BotToken:     token,
		AppID:        appID,
		LogChannelID: logChannelID,
		OwnerUserIDs: splitIDs(os.Getenv("OWNER_USER_IDS")),
		AdminUserIDs: splitIDs(os.Getenv("ADMIN_USER_IDS")),
		DBPath:       dbPath,
	}

	settings, err := loadSettings("data/settings.yaml")
	if err != nil {
		return nil, err
	}
	cfg.Settings = settings

	return cfg, nil
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// loadSettings reads the tunables file through viper, falling back to
// defaults when the file is absent.
func loadSettings(path string) (model.Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("prefix", "!")
	v.SetDefault("maintenance", false)
	v.SetDefault("cooldown.notice_window", "5s")

	v.SetDefault("ratelimit.default.requests", 20)
	v.SetDefault("ratelimit.default.window", "1m")
	v.SetDefault("ratelimit.premium.requests", 60)
	v.SetDefault("ratelimit.premium.window", "1m")
	v.SetDefault("ratelimit.owner.requests", 1000)
	v.SetDefault("ratelimit.owner.window", "1m")

	v.SetDefault("queue.concurrency", 5)
	v.SetDefault("queue.timeout", "30s")

	v.SetDefault("cache.max_size", 500)
	v.SetDefault("cache.ttl", "5m")

	v.SetDefault("breaker.failure_threshold", 5)
	v.SetDefault("breaker.success_threshold", 2)
	v.SetDefault("breaker.timeout", "30s")

	v.SetDefault("retry.max_retries", 2)
	v.SetDefault("retry.initial_interval", "500ms")
	v.SetDefault("retry.max_interval", "5s")
	v.SetDefault("retry.multiplier", 2.0)

	v.SetDefault("monitor.sample_window", 1000)
	v.SetDefault("monitor.memory_warn", 80.0)
	v.SetDefault("monitor.memory_critical", 92.0)
	v.SetDefault("monitor.error_warn", 50)
	v.SetDefault("monitor.error_critical", 200)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") {
			log.Printf("Warning: settings file not found at %s, using defaults.", path)
		} else {
			return model.Settings{}, err
		}
	}

	return model.Settings{
		Prefix:               v.GetString("prefix"),
		Maintenance:          v.GetBool("maintenance"),
		CooldownNoticeWindow: v.GetDuration("cooldown.notice_window"),
		RateLimits: map[model.Tier]model.TierLimit{
			model.TierDefault: {
				Requests: v.GetInt("ratelimit.default.requests"),
				Window:   v.GetDuration("ratelimit.default.window"),
			},
			model.TierPremium: {
				Requests: v.GetInt("ratelimit.premium.requests"),
				Window:   v.GetDuration("ratelimit.premium.window"),
			},
			model.TierOwner: {
				Requests: v.GetInt("ratelimit.owner.requests"),
				Window:   v.GetDuration("ratelimit.owner.window"),
			},
		},
		Queue: model.QueueSettings{
			Concurrency: v.GetInt("queue.concurrency"),
			Timeout:     v.GetDuration("queue.timeout"),
		},
		Cache: model.CacheSettings{
			MaxSize:    v.GetInt("cache.max_size"),
			DefaultTTL: v.GetDuration("cache.ttl"),
		},
		Breaker: model.BreakerSettings{
			FailureThreshold: v.GetInt("breaker.failure_threshold"),
			SuccessThreshold: v.GetInt("breaker.success_threshold"),
			Timeout:          v.GetDuration("breaker.timeout"),
		},
		Retry: model.RetrySettings{
			MaxRetries:      uint64(v.GetInt("retry.max_retries")),
			InitialInterval: v.GetDuration("retry.initial_interval"),
			MaxInterval:     v.GetDuration("retry.max_interval"),
			Multiplier:      v.GetFloat64("retry.multiplier"),
		},
		Monitor: model.MonitorSettings{
			SampleWindow:   v.GetInt("monitor.sample_window"),
			MemoryWarn:     v.GetFloat64("monitor.memory_warn"),
			MemoryCritical: v.GetFloat64("monitor.memory_critical"),
			ErrorWarn:      v.GetInt("monitor.error_warn"),
			ErrorCritical:  v.GetInt("monitor.error_critical"),
		},
	}, nil
}
