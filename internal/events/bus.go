// Package events provides the synchronous publish/subscribe bus used to
// announce score, streak and reward changes to the rest of the game.
//
// Payloads are concrete types declared by the producing package; each
// implements Event and reports a fixed Name, so the payload shape is
// statically known per event name.
package events

// Name identifies a notification kind.
type Name string

// Notification names emitted by the score calculator and reward engine.
const (
	GameStarted    Name = "score:gameStarted"
	ScoreUpdated   Name = "score:updated"
	StreakUpdated  Name = "score:streakUpdated"
	StreakBroken   Name = "score:streakBroken"
	SpecialBonus   Name = "score:specialBonus"
	NewHighScore   Name = "score:newHighScore"
	RewardUnlocked Name = "rewardUnlocked"
)

// Event is implemented by every payload type published on the bus.
type Event interface {
	EventName() Name
}

// Handler receives published events.
// Called synchronously from Publish, on the publisher's goroutine.
type Handler func(Event)

// Bus dispatches events to subscribers.
//
// Architecture:
//   - Single-threaded dispatch, no queueing
//   - Handlers for a name run in registration order, then catch-all handlers
//   - Not safe for concurrent use; one bus per game session
type Bus struct {
	handlers map[Name][]Handler
	all      []Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Name][]Handler)}
}

// Subscribe registers h for events with the given name.
func (b *Bus) Subscribe(name Name, h Handler) {
	b.handlers[name] = append(b.handlers[name], h)
}

// SubscribeAll registers h for every event.
func (b *Bus) SubscribeAll(h Handler) {
	b.all = append(b.all, h)
}

// Publish delivers ev to all matching handlers before returning.
// Publishing on a nil bus is a no-op.
func (b *Bus) Publish(ev Event) {
	if b == nil || ev == nil {
		return
	}
	for _, h := range b.handlers[ev.EventName()] {
		h(ev)
	}
	for _, h := range b.all {
		h(ev)
	}
}

// HandlerCount returns the number of handlers registered for the given name.
func (b *Bus) HandlerCount(name Name) int {
	return len(b.handlers[name])
}

// Recorder collects every event it is subscribed to, in order.
type Recorder struct {
	Events []Event
}

// Attach subscribes the recorder to all events on b.
func (r *Recorder) Attach(b *Bus) {
	b.SubscribeAll(func(ev Event) {
		r.Events = append(r.Events, ev)
	})
}

// Named returns recorded events with the given name.
func (r *Recorder) Named(name Name) []Event {
	var out []Event
	for _, ev := range r.Events {
		if ev.EventName() == name {
			out = append(out, ev)
		}
	}
	return out
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.Events = nil
}
