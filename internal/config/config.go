package config

import "time"

const (
	// EnvDevelopment proxies page assets to the frontend dev server.
	EnvDevelopment = "development"
	// EnvProduction serves the prebuilt bundle from StaticDir.
	EnvProduction = "production"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	Env               string        `mapstructure:"env" yaml:"env"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	StaticDir         string        `mapstructure:"static_dir" yaml:"static_dir"`
	DevServerURL      string        `mapstructure:"dev_server_url" yaml:"dev_server_url"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`

	Chat    ChatConfig    `mapstructure:"chat" yaml:"chat"`
	Profile ProfileConfig `mapstructure:"profile" yaml:"profile"`
	Redis   RedisConfig   `mapstructure:"redis" yaml:"redis"`
	Social  SocialConfig  `mapstructure:"social" yaml:"social"`
}

// ChatConfig tunes the real-time chat channel.
type ChatConfig struct {
	HistoryLimit      int    `mapstructure:"history_limit" yaml:"history_limit"`
	DefaultUser       string `mapstructure:"default_user" yaml:"default_user"`
	ClientBuffer      int    `mapstructure:"client_buffer" yaml:"client_buffer"`
	MaxMessageBytes   int64  `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	MessagesPerMinute int    `mapstructure:"messages_per_minute" yaml:"messages_per_minute"`
	TimeZone          string `mapstructure:"time_zone" yaml:"time_zone"`
	AllowEmptyText    bool   `mapstructure:"allow_empty_text" yaml:"allow_empty_text"`
}

// ProfileConfig points the profile proxy at the upstream user APIs.
type ProfileConfig struct {
	UsersURL      string        `mapstructure:"users_url" yaml:"users_url"`
	ThumbnailsURL string        `mapstructure:"thumbnails_url" yaml:"thumbnails_url"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// RedisConfig configures the optional profile cache. Empty Addr disables it.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
}

// SocialConfig tunes likes and comments.
type SocialConfig struct {
	DefaultUser      string `mapstructure:"default_user" yaml:"default_user"`
	MaxCommentLength int    `mapstructure:"max_comment_length" yaml:"max_comment_length"`
	CommentPageSize  int    `mapstructure:"comment_page_size" yaml:"comment_page_size"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":3000",
		Env:               EnvDevelopment,
		LogLevel:          "info",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		StaticDir:         "dist",
		DevServerURL:      "http://localhost:5173",
		AllowedOrigins:    []string{"*"},
		DatabasePath:      "giveaway.db",
		Chat: ChatConfig{
			HistoryLimit:    100,
			DefaultUser:     "Anonymous",
			ClientBuffer:    64,
			MaxMessageBytes: 64 << 10,
			TimeZone:        "Local",
		},
		Profile: ProfileConfig{
			UsersURL:      "https://users.roblox.com",
			ThumbnailsURL: "https://thumbnails.roblox.com",
			Timeout:       10 * time.Second,
			CacheTTL:      5 * time.Minute,
		},
		Social: SocialConfig{
			DefaultUser:      "Visitante",
			MaxCommentLength: 500,
			CommentPageSize:  50,
		},
	}
}

// IsProduction reports whether the static bundle should be served.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// UpdateFrom overwrites non-zero top-level values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.Env != "" {
		c.Env = other.Env
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.StaticDir != "" {
		c.StaticDir = other.StaticDir
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
}
