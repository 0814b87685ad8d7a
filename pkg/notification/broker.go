package notification

import (
	"sync"

	"golang.org/x/exp/slices"
)

// subscriberBuffer is the number of messages buffered per subscriber. Messages sent to a
// subscriber with a full buffer are dropped.
const subscriberBuffer = 8

func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[uint]map[uint64]chan Message),
	}
}

// Broker fans out messages to users subscribed via server sent events. A user can be subscribed
// multiple times, for example from several browser tabs.
type Broker struct {
	lock        sync.Mutex
	next        uint64
	closed      bool
	subscribers map[uint]map[uint64]chan Message
}

// Subscribe registers a new subscription for the user. The returned id is needed to unsubscribe.
// Once the broker is closed the returned channel is closed as well.
func (b *Broker) Subscribe(userId uint) (uint64, <-chan Message) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.next++
	channel := make(chan Message, subscriberBuffer)
	if b.closed {
		close(channel)
		return b.next, channel
	}
	if b.subscribers[userId] == nil {
		b.subscribers[userId] = make(map[uint64]chan Message)
	}
	b.subscribers[userId][b.next] = channel

	return b.next, channel
}

// Unsubscribe removes the subscription and closes its channel. Unsubscribing more than once is a
// no-op.
func (b *Broker) Unsubscribe(userId uint, id uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	channel, ok := b.subscribers[userId][id]
	if !ok {
		return
	}
	close(channel)
	delete(b.subscribers[userId], id)
	if len(b.subscribers[userId]) == 0 {
		delete(b.subscribers, userId)
	}
}

// Subscribers returns the ids of all users with at least one subscription.
func (b *Broker) Subscribers() []uint {
	b.lock.Lock()
	defer b.lock.Unlock()

	ids := make([]uint, 0, len(b.subscribers))
	for id := range b.subscribers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Send delivers the message to every subscription of the user. It returns the number of
// subscriptions the message was delivered to.
func (b *Broker) Send(userId uint, message Message) int {
	b.lock.Lock()
	defer b.lock.Unlock()

	delivered := 0
	for _, channel := range b.subscribers[userId] {
		select {
		case channel <- message:
			delivered++
		default:
		}
	}
	return delivered
}

// Close closes the channel of every subscription, ending their streams. Subscriptions made after
// Close get an already closed channel.
func (b *Broker) Close() {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.closed = true
	for userId, channels := range b.subscribers {
		for _, channel := range channels {
			close(channel)
		}
		delete(b.subscribers, userId)
	}
}
