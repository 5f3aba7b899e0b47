package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const PublicKeyEnv = "DISCORD_INTERACTION_PUBLIC_KEY"

type Configs struct {
	Env string `toml:"env"`

	ApiServer ServerConfigs  `toml:"api_server"`
	Discord   DiscordConfigs `toml:"discord"`
	Redis     RedisConfigs   `toml:"redis"`
	Log       LogConfigs     `toml:"log"`
	Metrics   MetricsConfigs `toml:"metrics"`
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
	Cert string `toml:"cert"`
	Key  string `toml:"key"`

	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`

	// MaxBodySize bounds the raw request body read before verification.
	MaxBodySize  int64    `toml:"max_body_size"`
	AllowOrigins []string `toml:"allow_origins"`
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type DiscordConfigs struct {
	// InteractionPublicKey is the hex encoded Ed25519 key of the Discord
	// application.
	InteractionPublicKey string `toml:"interaction_public_key"`
	InteractionPath      string `toml:"interaction_path"`
	CommandReply         string `toml:"command_reply"`

	// TimestampTolerance enables the freshness check when positive. Requests
	// whose timestamp is further than this from now are rejected.
	TimestampTolerance Duration `toml:"timestamp_tolerance"`

	// ReplayStore selects where seen signatures are remembered while they
	// are fresh: "" (disabled), "memory" or "redis".
	ReplayStore string `toml:"replay_store"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type LogConfigs struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

type MetricsConfigs struct {
	Enable bool   `toml:"enable"`
	Path   string `toml:"path"`
}

// Duration reads "5s"-style strings from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func Default() Configs {
	return Configs{
		Env: "local",
		ApiServer: ServerConfigs{
			Port:            "8080",
			ReadTimeout:     Duration{10 * time.Second},
			WriteTimeout:    Duration{10 * time.Second},
			ShutdownTimeout: Duration{5 * time.Second},
			MaxBodySize:     1 << 20,
		},
		Discord: DiscordConfigs{
			InteractionPath: "/api/interaction",
			CommandReply:    "Pong",
		},
		Redis: RedisConfigs{
			Addr: "localhost:6379",
		},
		Log: LogConfigs{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Metrics: MetricsConfigs{
			Enable: true,
			Path:   "/metrics",
		},
	}
}

// Load builds the configuration from the defaults, the TOML file at path (if
// any), the .env file at envFile (if it exists) and finally the process
// environment.
func Load(path, envFile string) (Configs, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Configs{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Configs{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}

func (c *Configs) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ENV":                  &c.Env,
		PublicKeyEnv:           &c.Discord.InteractionPublicKey,
		"DISCORD_REPLAY_STORE": &c.Discord.ReplayStore,
		"API_HOST":             &c.ApiServer.Host,
		"API_PORT":             &c.ApiServer.Port,
		"REDIS_ADDR":           &c.Redis.Addr,
		"LOG_LEVEL":            &c.Log.Level,
		"LOG_FORMAT":           &c.Log.Format,
		"LOG_FILE":             &c.Log.File,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	if v, ok := lookup("DISCORD_TIMESTAMP_TOLERANCE"); ok {
		if err := c.Discord.TimestampTolerance.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("DISCORD_TIMESTAMP_TOLERANCE: %w", err)
		}
	}

	if v, ok := lookup("METRICS_ENABLE"); ok {
		enable, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("METRICS_ENABLE: %w", err)
		}
		c.Metrics.Enable = enable
	}

	if v, ok := lookup("API_ALLOW_ORIGINS"); ok {
		c.ApiServer.AllowOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.ApiServer.AllowOrigins = append(c.ApiServer.AllowOrigins, origin)
			}
		}
	}

	return nil
}

func (c Configs) Validate() error {
	key := c.Discord.InteractionPublicKey
	if key == "" {
		return fmt.Errorf("%s is required", PublicKeyEnv)
	}

	b, err := hex.DecodeString(key)
	if err != nil {
		return fmt.Errorf("%s must be valid hex: %w", PublicKeyEnv, err)
	}
	if len(b) != 32 {
		return fmt.Errorf("%s must be exactly 64 hex characters (32 bytes), got %d bytes", PublicKeyEnv, len(b))
	}

	if c.ApiServer.MaxBodySize <= 0 {
		return errors.New("api_server.max_body_size must be positive")
	}

	if !strings.HasPrefix(c.Discord.InteractionPath, "/") {
		return errors.New("discord.interaction_path must start with /")
	}

	switch c.Discord.ReplayStore {
	case "", "memory", "redis":
	default:
		return fmt.Errorf("unknown discord.replay_store %q", c.Discord.ReplayStore)
	}

	if c.Discord.ReplayStore != "" && c.Discord.TimestampTolerance.Duration <= 0 {
		return errors.New("discord.replay_store requires a positive discord.timestamp_tolerance")
	}

	return nil
}
