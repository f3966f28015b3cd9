package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	RoomRateLimit     int           `mapstructure:"room_rate_limit" yaml:"room_rate_limit"`

	JWTSecret   string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string `mapstructure:"jwt_audience" yaml:"jwt_audience"`

	Provider  ProviderConfig  `mapstructure:"provider" yaml:"provider"`
	Email     EmailConfig     `mapstructure:"email" yaml:"email"`
	Reminders RemindersConfig `mapstructure:"reminders" yaml:"reminders"`
}

// ProviderConfig selects and configures the video-meeting backend.
// An empty credential for the selected backend is a valid state: the
// server runs in permanent fallback mode and never calls upstream.
type ProviderConfig struct {
	// Kind is "daily" (hosted HTTP API) or "livekit" (self-hosted, local token minting).
	Kind           string        `mapstructure:"kind" yaml:"kind"`
	APIKey         string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL        string        `mapstructure:"base_url" yaml:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	RoomValidity   time.Duration `mapstructure:"room_validity" yaml:"room_validity"`

	LiveKitAPIKey    string `mapstructure:"livekit_api_key" yaml:"livekit_api_key"`
	LiveKitAPISecret string `mapstructure:"livekit_api_secret" yaml:"livekit_api_secret"`
	LiveKitWSURL     string `mapstructure:"livekit_ws_url" yaml:"livekit_ws_url"`
}

// EmailConfig configures the SendGrid sender for reminder emails.
type EmailConfig struct {
	SendGridAPIKey string `mapstructure:"sendgrid_api_key" yaml:"sendgrid_api_key"`
	FromEmail      string `mapstructure:"from_email" yaml:"from_email"`
	FromName       string `mapstructure:"from_name" yaml:"from_name"`
}

// RemindersConfig controls the periodic consultation reminder worker.
type RemindersConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
	Lead     time.Duration `mapstructure:"lead" yaml:"lead"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		DatabasePath:      "videochat.db",
		RoomRateLimit:     120,
		JWTIssuer:         "video-chat",
		JWTAudience:       "video-chat",
		Provider: ProviderConfig{
			Kind:           "daily",
			BaseURL:        "https://api.daily.co/v1",
			RequestTimeout: 10 * time.Second,
			RoomValidity:   24 * time.Hour,
		},
		Email: EmailConfig{
			FromName: "Video Consultations",
		},
		Reminders: RemindersConfig{
			Enabled:  false,
			Interval: 5 * time.Minute,
			Lead:     time.Hour,
		},
	}
}
