// Package main provides slack-code-hook, the hook command Claude Code runs on
// session events. It forwards the event to the daemon and never blocks the
// session: an unreachable daemon is reported on stderr with exit code 0.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"

	internalconfig "github.com/smykla-skalski/slack-code/internal/config"
	"github.com/smykla-skalski/slack-code/internal/hookclient"
	"github.com/smykla-skalski/slack-code/internal/parser"
	"github.com/smykla-skalski/slack-code/internal/transport"
	"github.com/smykla-skalski/slack-code/internal/xdg"
	"github.com/smykla-skalski/slack-code/pkg/config"
)

const (
	// ExitCodeOK is returned for delivered, ignored and undelivered events.
	ExitCodeOK = 0

	// ExitCodeInvalidInput is returned when stdin is not a hook payload.
	ExitCodeInvalidInput = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := loadConfig()
	timeout := cfg.GetDefaults().GetHookTimeoutDuration()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client := transport.NewClient(cfg.GetDaemon().SocketPath, transport.WithTimeout(timeout))
	runner := hookclient.New(client, hookclient.WithStderr(os.Stderr))

	if _, err := runner.Run(ctx, os.Stdin); err != nil {
		if errors.Is(err, parser.ErrEmptyInput) {
			return ExitCodeOK
		}

		fmt.Fprintf(os.Stderr, "slack-code-hook: %v\n", err)

		return ExitCodeInvalidInput
	}

	return ExitCodeOK
}

// loadConfig never fails: a broken config file must not break the session,
// so defaults are used instead.
func loadConfig() *config.Config {
	cfg, err := internalconfig.NewKoanfLoader().Load(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "slack-code-hook: using defaults: %v\n", err)

		return internalconfig.DefaultConfig(xdg.DefaultResolver())
	}

	return cfg
}
