package tui

import (
	"strings"

	"github.com/cockroachdb/errors"

	internalconfig "github.com/smykla-skalski/slack-code/internal/config"
	"github.com/smykla-skalski/slack-code/pkg/config"
)

// ErrEmptyToken is returned when no bot token was entered.
var ErrEmptyToken = errors.New("bot token is required")

// SetupFormOptions seeds the setup questions.
type SetupFormOptions struct {
	// BotToken and UserID are the current values, offered as defaults.
	BotToken string
	UserID   string

	// OfferHooks adds the hook installation question.
	OfferHooks bool
}

// SetupResult holds the answers of the setup form.
type SetupResult struct {
	BotToken     string
	UserID       string
	InstallHooks bool
}

// Warnings lists non-fatal problems with the answers.
func (r *SetupResult) Warnings() []string {
	var warnings []string

	if r.BotToken != "" && !strings.HasPrefix(r.BotToken, config.BotTokenPrefix) {
		warnings = append(warnings, "bot token does not start with "+config.BotTokenPrefix)
	}

	return warnings
}

// Apply writes the answers into cfg.
func (r *SetupResult) Apply(cfg *config.Config) {
	slack := cfg.GetSlack()
	slack.BotToken = r.BotToken
	slack.UserID = r.UserID
}

func validateToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}

	return nil
}

func validateUserID(id string) error {
	return internalconfig.ValidateUserID(strings.TrimSpace(id))
}
