package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/smykla-skalski/slack-code/internal/metrics"
)

var _ = Describe("Metrics", func() {
	It("is a no-op when nil", func() {
		var m *metrics.Metrics

		Expect(func() {
			m.HookReceived("Stop")
			m.CommandReceived("Ping")
			m.ConnectionError()
			m.SetSessions(3)
			m.SetSubscribers(1)
			m.EventPublished()
			m.EventDropped()
			m.NotifierCall("post_update", nil, time.Second)
			m.SessionsSwept(2)
		}).NotTo(Panic())

		Expect(m.Registry()).To(BeNil())
	})

	It("records counters and gauges", func() {
		m := metrics.New()

		m.HookReceived("Stop")
		m.HookReceived("Stop")
		m.CommandReceived("Ping")
		m.SetSessions(4)
		m.EventDropped()
		m.NotifierCall("create_thread", errors.New("boom"), 10*time.Millisecond)
		m.SessionsSwept(2)
		m.SessionsSwept(0)

		expected := `
# HELP slack_code_hook_events_total Hook events received, by kind
# TYPE slack_code_hook_events_total counter
slack_code_hook_events_total{kind="Stop"} 2
# HELP slack_code_sessions Sessions currently tracked
# TYPE slack_code_sessions gauge
slack_code_sessions 4
# HELP slack_code_events_dropped_total Events skipped by lagging subscribers
# TYPE slack_code_events_dropped_total counter
slack_code_events_dropped_total 1
# HELP slack_code_notifier_calls_total Slack calls, by operation and result
# TYPE slack_code_notifier_calls_total counter
slack_code_notifier_calls_total{op="create_thread",result="error"} 1
# HELP slack_code_sessions_swept_total Finished sessions removed by retention sweeps
# TYPE slack_code_sessions_swept_total counter
slack_code_sessions_swept_total 2
`

		Expect(testutil.GatherAndCompare(
			m.Registry(),
			strings.NewReader(expected),
			"slack_code_hook_events_total",
			"slack_code_sessions",
			"slack_code_events_dropped_total",
			"slack_code_notifier_calls_total",
			"slack_code_sessions_swept_total",
		)).To(Succeed())
	})

	It("serves the exposition format", func() {
		m := metrics.New()
		m.CommandReceived("GetSessions")

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", metrics.Path, nil))

		body, err := io.ReadAll(rec.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring(`slack_code_commands_total{command="GetSessions"} 1`))
	})
})
