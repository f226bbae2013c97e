package tui

import (
	"strings"

	"github.com/charmbracelet/huh"
)

// HuhUI implements UI using charmbracelet/huh.
type HuhUI struct{}

// NewHuhUI creates a new HuhUI instance.
func NewHuhUI() *HuhUI {
	return &HuhUI{}
}

// IsInteractive returns true as HuhUI is for interactive terminals.
func (*HuhUI) IsInteractive() bool {
	return true
}

// RunSetupForm implements UI.
func (*HuhUI) RunSetupForm(opts SetupFormOptions) (*SetupResult, error) {
	result := &SetupResult{
		BotToken:     opts.BotToken,
		UserID:       opts.UserID,
		InstallHooks: opts.OfferHooks,
	}

	if err := buildSetupForm(opts, result).Run(); err != nil {
		return nil, err
	}

	result.BotToken = strings.TrimSpace(result.BotToken)
	result.UserID = strings.TrimSpace(result.UserID)

	return result, nil
}

func buildSetupForm(opts SetupFormOptions, result *SetupResult) *huh.Form {
	token := huh.NewInput().
		Title("Slack Bot Token").
		Description("OAuth token of your Slack app (OAuth & Permissions page).\nNeeds the chat:write and im:write scopes.").
		Placeholder("xoxb-...").
		EchoMode(huh.EchoModePassword).
		Validate(validateToken).
		Value(&result.BotToken)

	userID := huh.NewInput().
		Title("Slack Member ID").
		Description("Your member ID (profile > ... > Copy member ID).\nSession threads are sent to you as DMs.").
		Placeholder("U01234567").
		Validate(validateUserID).
		Value(&result.UserID)

	groups := []*huh.Group{
		huh.NewGroup(token, userID),
	}

	if opts.OfferHooks {
		groups = append(groups, huh.NewGroup(
			huh.NewConfirm().
				Title("Install Claude Code hooks").
				Description("Registers slack-code-hook in ~/.claude/settings.json.").
				Affirmative("Yes").
				Negative("No").
				Value(&result.InstallHooks),
		))
	}

	return huh.NewForm(groups...).
		WithTheme(huh.ThemeCharm()).
		WithShowHelp(true).
		WithKeyMap(huh.NewDefaultKeyMap())
}
