// Package events is a small synchronous event bus. Payload types live with
// the packages that publish them.
package events

// Event is a marker interface for all event types.
type Event interface{}

// Listener defines an interface for any component that wants to react to events.
type Listener interface {
	HandleEvent(e Event)
}

// ListenerFunc adapts a plain function to the Listener interface.
type ListenerFunc func(e Event)

func (f ListenerFunc) HandleEvent(e Event) { f(e) }

// Manager (or Event Bus) manages listeners and dispatches events in
// subscription order. Publish runs every handler before returning.
type Manager struct {
	listeners []Listener
}

func NewManager() *Manager {
	return &Manager{}
}

func (em *Manager) Subscribe(l Listener) {
	em.listeners = append(em.listeners, l)
}

// Unsubscribe removes l. Listeners must be comparable (pointers, not ListenerFunc).
func (em *Manager) Unsubscribe(l Listener) {
	for i, existing := range em.listeners {
		if existing == l {
			em.listeners = append(em.listeners[:i:i], em.listeners[i+1:]...)
			return
		}
	}
}

func (em *Manager) Publish(e Event) {
	// Copy so handlers may (un)subscribe while we iterate.
	listeners := append([]Listener(nil), em.listeners...)
	for _, l := range listeners {
		l.HandleEvent(e)
	}
}
