package pubsub

import "sync"

// Bus fans events out to topic subscribers. Long-running operations publish
// progress on it (sweep tasks, crawl batches) and interactive frontends
// subscribe without the two sides knowing each other.
//
// Publishing never blocks: a subscriber that stops draining its channel
// loses events rather than stalling the producer.
type Bus struct {
	subscribers map[string]map[*Subscription]struct{}
	mu          sync.RWMutex
	closed      bool
}

// Subscription is one listener on one topic.
type Subscription struct {
	topic string
	ch    chan any
	bus   *Bus
	once  sync.Once
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe registers a listener on a topic with the given channel buffer.
// Subscribing to a closed bus yields a subscription whose channel is already
// closed, so consumer loops terminate immediately.
func (b *Bus) Subscribe(topic string, buffer int) *Subscription {
	if buffer <= 0 {
		buffer = 1
	}
	sub := &Subscription{
		topic: topic,
		ch:    make(chan any, buffer),
		bus:   b,
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		sub.shut()
		return sub
	}
	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[*Subscription]struct{})
	}
	b.subscribers[topic][sub] = struct{}{}
	return sub
}

// Publish delivers an event to every current subscriber of the topic.
// Subscribers with full buffers are skipped. Returns the number of
// subscribers that received the event.
func (b *Bus) Publish(topic string, event any) int {
	// Sends stay under the read lock: the default case keeps them from
	// blocking, and Close cannot shut a channel while the lock is held.
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return 0
	}

	delivered := 0
	for sub := range b.subscribers[topic] {
		select {
		case sub.ch <- event:
			delivered++
		default:
		}
	}
	return delivered
}

// SubscriberCount returns the number of listeners on a topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[topic])
}

// Close shuts the bus and every subscription channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for topic, subs := range b.subscribers {
		for sub := range subs {
			sub.shut()
		}
		delete(b.subscribers, topic)
	}
}

// Events returns the subscription's receive channel. It is closed when the
// subscription or the bus closes.
func (s *Subscription) Events() <-chan any {
	return s.ch
}

// Close removes the subscription from the bus and closes its channel.
func (s *Subscription) Close() {
	s.bus.mu.Lock()
	if subs := s.bus.subscribers[s.topic]; subs != nil {
		delete(subs, s)
		if len(subs) == 0 {
			delete(s.bus.subscribers, s.topic)
		}
	}
	s.bus.mu.Unlock()

	s.shut()
}

func (s *Subscription) shut() {
	s.once.Do(func() {
		close(s.ch)
	})
}
