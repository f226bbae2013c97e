package tui_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/slack-code/internal/prompt"
	"github.com/smykla-skalski/slack-code/internal/tui"
	"github.com/smykla-skalski/slack-code/pkg/config"
)

var _ = Describe("Setup", func() {
	Describe("New", func() {
		It("uses line prompts when asked to", func() {
			Expect(tui.NewWithFallback(true).IsInteractive()).To(BeFalse())
			Expect(tui.New().IsInteractive()).To(Equal(tui.IsTerminal()))
		})
	})

	Describe("FallbackUI", func() {
		var out *bytes.Buffer

		run := func(input string, opts tui.SetupFormOptions) (*tui.SetupResult, error) {
			ui := tui.NewFallbackUIWithPrompter(prompt.NewPrompter(strings.NewReader(input), out), out)

			return ui.RunSetupForm(opts)
		}

		BeforeEach(func() {
			out = &bytes.Buffer{}
		})

		It("collects credentials and the hook answer", func() {
			result, err := run("xoxb-123\nU12345678\ny\n", tui.SetupFormOptions{OfferHooks: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.BotToken).To(Equal("xoxb-123"))
			Expect(result.UserID).To(Equal("U12345678"))
			Expect(result.InstallHooks).To(BeTrue())
		})

		It("re-asks for an invalid member ID", func() {
			result, err := run("xoxb-123\nbob\nU12345678\n", tui.SetupFormOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.UserID).To(Equal("U12345678"))
			Expect(result.InstallHooks).To(BeFalse())
			Expect(out.String()).To(ContainSubstring("must start with U"))
		})

		It("keeps existing values as defaults", func() {
			result, err := run("\n\n", tui.SetupFormOptions{BotToken: "xoxb-old", UserID: "U87654321"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.BotToken).To(Equal("xoxb-old"))
			Expect(result.UserID).To(Equal("U87654321"))
		})

		It("gives up after repeated invalid answers", func() {
			_, err := run("xoxb-1\nx\ny\nz\n", tui.SetupFormOptions{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SetupResult", func() {
		It("warns about tokens that are not bot tokens", func() {
			Expect((&tui.SetupResult{BotToken: "xoxp-user"}).Warnings()).To(HaveLen(1))
			Expect((&tui.SetupResult{BotToken: "xoxb-bot"}).Warnings()).To(BeEmpty())
		})

		It("applies the answers to a config", func() {
			cfg := &config.Config{}

			(&tui.SetupResult{BotToken: "xoxb-bot", UserID: "U12345678"}).Apply(cfg)

			Expect(cfg.Slack.BotToken).To(Equal("xoxb-bot"))
			Expect(cfg.Slack.UserID).To(Equal("U12345678"))
		})
	})
})
