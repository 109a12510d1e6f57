package events

import "sync"

// Topic names an in-process notification.
type Topic string

// TopicAuthChange fires whenever the local sign-in state is written or cleared.
const TopicAuthChange Topic = "auth-change"

// Bus fans notifications out to subscribers within one process.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Topic]map[int]chan struct{}
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic]map[int]chan struct{})}
}

// Subscribe registers interest in topic. The returned channel has room for
// one pending notification; notifications published while one is already
// pending are coalesced. Call the returned func to unsubscribe.
func (b *Bus) Subscribe(topic Topic) (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan struct{}, 1)
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan struct{})
	}
	b.subs[topic][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[topic], id)
			close(ch)
		})
	}
}

// Publish notifies every subscriber of topic without blocking.
func (b *Bus) Publish(topic Topic) {
	if b == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
