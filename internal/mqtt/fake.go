package mqtt

import (
	"github.com/sweeney/timesince/internal/display"
)

// FakePublisher records everything published, in publish order, so tests
// can assert on the event stream the daemon would have sent to the broker.
// Events and Payloads stay index-aligned (one formatted payload per recorded
// event), as do SystemEvents and SystemPayloads.
type FakePublisher struct {
	// Events holds the timer events accepted by Publish.
	Events []display.Event

	// Payloads holds the formatted JSON for each entry in Events.
	Payloads [][]byte

	// SystemEvents holds the lifecycle events accepted by PublishSystem.
	SystemEvents []SystemEvent

	// SystemPayloads holds the formatted JSON for each entry in SystemEvents.
	SystemPayloads [][]byte

	// PublishError, if set, makes Publish fail without recording.
	PublishError error

	// PublishSystemError, if set, makes PublishSystem fail without recording.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// Publish records the timer event and its formatted payload.
func (f *FakePublisher) Publish(event display.Event) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}
	f.Events = append(f.Events, event)
	f.Payloads = append(f.Payloads, payload)

	return nil
}

// PublishSystem records the lifecycle event and its formatted payload.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.Events = nil
	f.Payloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
