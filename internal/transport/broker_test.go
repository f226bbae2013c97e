package transport_test

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/slack-code/internal/metrics"
	"github.com/smykla-skalski/slack-code/internal/transport"
	"github.com/smykla-skalski/slack-code/pkg/ipc"
)

func errorEvent(msg string) ipc.DaemonEvent {
	return ipc.ErrorEvent(msg)
}

var _ = Describe("Broker", func() {
	var broker *transport.Broker

	BeforeEach(func() {
		broker = transport.NewBroker(2, transport.WithBrokerMetrics(metrics.New()))
	})

	It("reports zero receivers without subscribers", func() {
		Expect(broker.Publish(errorEvent("nobody"))).To(BeZero())
	})

	It("delivers to every subscriber in order", func() {
		a, err := broker.Subscribe()
		Expect(err).NotTo(HaveOccurred())
		b, err := broker.Subscribe()
		Expect(err).NotTo(HaveOccurred())

		Expect(broker.Publish(errorEvent("one"))).To(Equal(2))
		Expect(broker.Publish(errorEvent("two"))).To(Equal(2))

		for _, sub := range []*transport.Subscription{a, b} {
			Expect((<-sub.Events()).Error).To(Equal("one"))
			Expect((<-sub.Events()).Error).To(Equal("two"))
		}
	})

	It("drops the oldest events for a lagging subscriber", func() {
		sub, err := broker.Subscribe()
		Expect(err).NotTo(HaveOccurred())

		for _, msg := range []string{"1", "2", "3", "4", "5"} {
			broker.Publish(errorEvent(msg))
		}

		Expect((<-sub.Events()).Error).To(Equal("4"))
		Expect((<-sub.Events()).Error).To(Equal("5"))
		Expect(sub.TakeLagged()).To(Equal(uint64(3)))
		Expect(sub.TakeLagged()).To(BeZero())

		broker.Publish(errorEvent("6"))
		Expect((<-sub.Events()).Error).To(Equal("6"))
	})

	It("does not let a lagging subscriber hold back others", func() {
		slow, _ := broker.Subscribe()
		fast, _ := broker.Subscribe()

		for i := range 10 {
			broker.Publish(ipc.SessionRemovedEvent(uuid.New()))

			ev := <-fast.Events()
			Expect(ev.Kind).To(Equal(ipc.EventKindSessionRemoved), "event %d", i)
		}

		Expect(slow.Events()).To(HaveLen(2))
		Expect(slow.TakeLagged()).To(Equal(uint64(8)))
	})

	It("closes a subscription once", func() {
		sub, _ := broker.Subscribe()
		Expect(broker.Len()).To(Equal(1))

		sub.Close()
		sub.Close()

		Expect(broker.Len()).To(BeZero())
		Eventually(sub.Events()).Should(BeClosed())
		Expect(broker.Publish(errorEvent("after"))).To(BeZero())
	})

	It("closes all subscriptions on Close", func() {
		sub, _ := broker.Subscribe()

		broker.Close()
		broker.Close()
		sub.Close()

		Eventually(sub.Events()).Should(BeClosed())
		Expect(broker.Publish(errorEvent("late"))).To(BeZero())

		_, err := broker.Subscribe()
		Expect(errors.Is(err, transport.ErrBrokerClosed)).To(BeTrue())
	})

	It("uses the default buffer for non-positive sizes", func() {
		b := transport.NewBroker(0)
		sub, _ := b.Subscribe()

		for range transport.DefaultBuffer {
			b.Publish(errorEvent("x"))
		}

		Expect(sub.Events()).To(HaveLen(transport.DefaultBuffer))
		Expect(sub.TakeLagged()).To(BeZero())
	})
})
