package main

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/slack-code/internal/color"
	"github.com/smykla-skalski/slack-code/internal/tui"
	"github.com/smykla-skalski/slack-code/pkg/ipc"
	"github.com/smykla-skalski/slack-code/pkg/session"
)

const promptColumnWidth = 40

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List sessions tracked by the daemon",
	Args:  cobra.NoArgs,
	RunE:  runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	client, stream, err := subscribe(ctx, cfg)
	if err != nil {
		return err
	}

	defer func() { _ = stream.Close() }()

	ev, err := await(ctx, client, stream, ipc.GetSessions, ipc.EventKindSessionList)
	if err != nil {
		return err
	}

	renderSessions(cmd.OutOrStdout(), ev.Sessions, time.Now(), theme())

	return nil
}

func renderSessions(out io.Writer, sessions []session.Session, now time.Time, theme color.Theme) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions.")

		return
	}

	sorted := slices.Clone(sessions)
	slices.SortStableFunc(sorted, func(a, b session.Session) int {
		if a.IsActive() != b.IsActive() {
			if a.IsActive() {
				return -1
			}

			return 1
		}

		return b.StartedAt.Compare(a.StartedAt)
	})

	t := tablewriter.NewTable(out,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
	)

	t.Header([]string{"Session", "Status", "Prompt", "Started", "Duration", "Slack"})

	for _, s := range sorted {
		thread := "-"
		if s.HasThread() {
			thread = s.SlackThread.ParentTS
		}

		_ = t.Append([]string{
			s.DisplayName(),
			theme.Status(s.Status).Render(s.Status.Icon() + " " + s.Status.Short()),
			runewidth.Truncate(s.Prompt, promptColumnWidth, "..."),
			humanize.RelTime(s.StartedAt, now, "ago", "from now"),
			tui.FormatDuration(s.Duration(now)),
			thread,
		})
	}

	_ = t.Render()
}
