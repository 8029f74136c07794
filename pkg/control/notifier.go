package control

import "sync"

// notifier is a minimal change stream: listeners are invoked synchronously
// on notify, in unspecified order. Adding a listener returns an
// unsubscribe function.
type notifier struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func()
}

func newNotifier() *notifier {
	return &notifier{listeners: make(map[int]func())}
}

func (n *notifier) addListener(fn func()) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.listeners, id)
		n.mu.Unlock()
	}
}

func (n *notifier) notify() {
	n.mu.Lock()
	listeners := make([]func(), 0, len(n.listeners))
	for _, fn := range n.listeners {
		listeners = append(listeners, fn)
	}
	n.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func (n *notifier) listenerCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}
