package eventbus

import (
	evbus "github.com/asaskevich/EventBus"
)

// Topics published on the bus. Change notifications carry no payload; a
// subscriber is expected to re-fetch whatever it renders.
const (
	TopicDataChanged = "wearlog:changed"
)

// Bus is a process-local publish/subscribe signal. It is an explicit value
// rather than a package singleton so each component receives the bus it
// should talk to. Delivery is synchronous: Publish returns after every
// subscriber registered at emission time has run; subscribers registered
// afterwards do not see the event.
type Bus struct {
	bus evbus.Bus
}

func New() *Bus {
	return &Bus{bus: evbus.New()}
}

// Subscribe registers fn for a topic. fn must be a function whose signature
// matches the publish arguments.
func (b *Bus) Subscribe(topic string, fn interface{}) error {
	return b.bus.Subscribe(topic, fn)
}

// Unsubscribe removes a previously registered handler.
func (b *Bus) Unsubscribe(topic string, fn interface{}) error {
	return b.bus.Unsubscribe(topic, fn)
}

// Publish delivers the event to all current subscribers once, synchronously.
func (b *Bus) Publish(topic string, args ...interface{}) {
	b.bus.Publish(topic, args...)
}

// HasCallback reports whether any subscriber is registered for the topic.
func (b *Bus) HasCallback(topic string) bool {
	return b.bus.HasCallback(topic)
}
