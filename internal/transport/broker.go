// Package transport carries daemon messages over a Unix domain socket: the
// listener that routes inbound connections, the broadcast broker feeding
// subscribers, and the client used by hooks and observers.
package transport

import (
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/slack-code/internal/metrics"
	"github.com/smykla-skalski/slack-code/pkg/ipc"
)

// ErrBrokerClosed is returned when subscribing to a closed broker.
var ErrBrokerClosed = errors.New("broker closed")

// DefaultBuffer is the per-subscriber buffer used when none is given.
const DefaultBuffer = 100

// Broker fans daemon events out to subscribers. Each subscriber has its own
// bounded buffer; when it is full the oldest event is discarded so a slow
// subscriber loses events but is never disconnected or allowed to block
// publishers.
type Broker struct {
	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	buffer  int
	closed  bool
	metrics *metrics.Metrics
}

// BrokerOption configures the Broker.
type BrokerOption func(*Broker)

// WithBrokerMetrics records publish and drop counts.
func WithBrokerMetrics(m *metrics.Metrics) BrokerOption {
	return func(b *Broker) {
		b.metrics = m
	}
}

// NewBroker creates a broker with the given per-subscriber buffer.
func NewBroker(buffer int, opts ...BrokerOption) *Broker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	b := &Broker{
		subs:   make(map[*Subscription]struct{}),
		buffer: buffer,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Subscription is one subscriber's view of the broadcast.
type Subscription struct {
	broker *Broker
	ch     chan ipc.DaemonEvent
	lagged atomic.Uint64
	once   sync.Once
}

// Events returns the channel of events. It is closed when the subscription
// or the broker is closed.
func (s *Subscription) Events() <-chan ipc.DaemonEvent {
	return s.ch
}

// TakeLagged returns the number of events skipped since the last call.
func (s *Subscription) TakeLagged() uint64 {
	return s.lagged.Swap(0)
}

// Close detaches the subscription from the broker. Safe to call twice.
func (s *Subscription) Close() {
	s.broker.remove(s)
}

// Subscribe registers a new subscriber. Events published before the call
// are not delivered.
func (b *Broker) Subscribe() (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBrokerClosed
	}

	sub := &Subscription{
		broker: b,
		ch:     make(chan ipc.DaemonEvent, b.buffer),
	}

	b.subs[sub] = struct{}{}
	b.metrics.SetSubscribers(len(b.subs))

	return sub, nil
}

// Publish delivers ev to every subscriber and returns how many there were.
// It never blocks on a slow subscriber.
func (b *Broker) Publish(ev ipc.DaemonEvent) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0
	}

	b.metrics.EventPublished()

	for sub := range b.subs {
		b.deliverLocked(sub, ev)
	}

	return len(b.subs)
}

func (b *Broker) deliverLocked(sub *Subscription, ev ipc.DaemonEvent) {
	for {
		select {
		case sub.ch <- ev:
			return
		default:
		}

		// Full: discard the oldest queued event and retry.
		select {
		case <-sub.ch:
			sub.lagged.Add(1)
			b.metrics.EventDropped()
		default:
		}
	}
}

// Len returns the number of subscribers.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subs)
}

// Close closes every subscription. Later publishes are dropped and later
// subscribes fail.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true

	for sub := range b.subs {
		sub.once.Do(func() { close(sub.ch) })
		delete(b.subs, sub)
	}

	b.metrics.SetSubscribers(0)
}

func (b *Broker) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; !ok {
		return
	}

	delete(b.subs, sub)
	sub.once.Do(func() { close(sub.ch) })
	b.metrics.SetSubscribers(len(b.subs))
}
