package config

import "strings"

const (
	// DefaultRateLimit is the default number of Slack API calls per second.
	DefaultRateLimit = 1.0

	// DefaultBurst is the default Slack API burst size.
	DefaultBurst = 3

	// BotTokenPrefix is the prefix of Slack bot tokens.
	BotTokenPrefix = "xoxb-"

	maskedTokenMinLength = 12
	maskedTokenHead      = 8
	maskedTokenTail      = 4
)

// SlackConfig contains Slack credentials and delivery settings.
type SlackConfig struct {
	// BotToken is the bot OAuth token (xoxb-...).
	// Overridden by SLACK_CODE_BOT_TOKEN.
	BotToken string `json:"bot_token,omitempty" koanf:"bot_token" toml:"bot_token,omitempty"`

	// AppToken is the app-level token (xapp-...).
	// Overridden by SLACK_CODE_APP_TOKEN.
	AppToken string `json:"app_token,omitempty" koanf:"app_token" toml:"app_token,omitempty"`

	// UserID is the member ID that receives DMs and mentions.
	UserID string `json:"user_id,omitempty" koanf:"user_id" toml:"user_id,omitempty"`

	// RateLimit is the number of API calls per second.
	// Default: 1
	RateLimit *float64 `json:"rate_limit,omitempty" koanf:"rate_limit" toml:"rate_limit,omitempty"`

	// Burst is the number of API calls allowed at once.
	// Default: 3
	Burst *int `json:"burst,omitempty" koanf:"burst" toml:"burst,omitempty"`
}

// IsConfigured returns true when a bot token is present.
func (s *SlackConfig) IsConfigured() bool {
	return s != nil && s.BotToken != ""
}

// GetRateLimit returns the configured rate limit or DefaultRateLimit.
func (s *SlackConfig) GetRateLimit() float64 {
	if s == nil || s.RateLimit == nil {
		return DefaultRateLimit
	}

	return *s.RateLimit
}

// GetBurst returns the configured burst or DefaultBurst.
func (s *SlackConfig) GetBurst() int {
	if s == nil || s.Burst == nil {
		return DefaultBurst
	}

	return *s.Burst
}

// MaskToken hides the middle of a token, keeping its first 8 and last 4
// characters. Tokens of 12 characters or fewer are fully masked.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}

	if len(token) <= maskedTokenMinLength {
		return "****"
	}

	var b strings.Builder

	b.WriteString(token[:maskedTokenHead])
	b.WriteString("****...")
	b.WriteString(token[len(token)-maskedTokenTail:])

	return b.String()
}
