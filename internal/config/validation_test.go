package config_test

import (
	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internalconfig "github.com/smykla-skalski/slack-code/internal/config"
	"github.com/smykla-skalski/slack-code/internal/xdg"
	"github.com/smykla-skalski/slack-code/pkg/config"
)

var _ = Describe("Validator", func() {
	var (
		validator *internalconfig.Validator
		cfg       *config.Config
	)

	BeforeEach(func() {
		validator = internalconfig.NewValidator()
		cfg = internalconfig.DefaultConfig(xdg.ResolverFor(GinkgoT().TempDir()))
	})

	It("accepts the defaults", func() {
		Expect(validator.Validate(cfg)).To(Succeed())
	})

	It("rejects nil", func() {
		Expect(errors.Is(validator.Validate(nil), internalconfig.ErrInvalidConfig)).To(BeTrue())
	})

	It("rejects an unknown log level", func() {
		cfg.Daemon.LogLevel = "loud"

		err := validator.Validate(cfg)
		Expect(errors.Is(err, internalconfig.ErrInvalidConfig)).To(BeTrue())
	})

	It("rejects a bad sweep schedule", func() {
		bad := "every now and then"
		cfg.Retention.SweepSchedule = &bad

		err := validator.Validate(cfg)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("1 error(s)"))
	})

	It("accepts a disabled sweep schedule", func() {
		empty := ""
		cfg.Retention.SweepSchedule = &empty

		Expect(validator.Validate(cfg)).To(Succeed())
	})

	It("counts every failure", func() {
		cfg.Daemon.LogLevel = "loud"
		cfg.Daemon.HookQueueSize = -1
		cfg.Slack.UserID = "bob"
		cfg.Metrics.ListenAddr = "no-port"

		err := validator.Validate(cfg)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("4 error(s)"))
	})

	It("rejects relative socket paths", func() {
		cfg.Daemon.SocketPath = "relative.sock"

		Expect(validator.Validate(cfg)).NotTo(Succeed())
	})

	It("rejects non-positive rate limits", func() {
		zero := 0.0
		cfg.Slack.RateLimit = &zero

		Expect(validator.Validate(cfg)).NotTo(Succeed())
	})

	DescribeTable("ValidateUserID",
		func(id string, valid bool) {
			err := internalconfig.ValidateUserID(id)
			if valid {
				Expect(err).NotTo(HaveOccurred())
			} else {
				Expect(errors.Is(err, internalconfig.ErrInvalidUserID)).To(BeTrue())
			}
		},
		Entry("member id", "U01ABCDEF23", true),
		Entry("minimum length", "U12345678", true),
		Entry("too short", "U1234567", false),
		Entry("wrong prefix", "W01ABCDEF23", false),
		Entry("punctuation", "U01ABC-EF23", false),
		Entry("empty", "", false),
	)

	DescribeTable("ParseSchedule",
		func(spec string, valid bool) {
			_, err := internalconfig.ParseSchedule(spec)
			if valid {
				Expect(err).NotTo(HaveOccurred())
			} else {
				Expect(errors.Is(err, internalconfig.ErrInvalidSchedule)).To(BeTrue())
			}
		},
		Entry("descriptor", "@every 10m", true),
		Entry("hourly", "@hourly", true),
		Entry("five fields", "*/5 * * * *", true),
		Entry("garbage", "sometimes", false),
	)
})
