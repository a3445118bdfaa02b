package storage

import "sync"

// ObserverFunc receives the name of the resource that changed.
type ObserverFunc func(resource string)

// Notifier delivers per-resource change notifications. The store fires a
// notification after every successful insert, update or delete so that
// observers can react to new rows without polling.
//
// Delivery is synchronous and in-process; observers that need to block
// should hand off to their own goroutine.
type Notifier struct {
	mu     sync.RWMutex
	nextID int64
	subs   map[string]map[int64]ObserverFunc
}

// NewNotifier creates an empty notification hub.
func NewNotifier() *Notifier {
	return &Notifier{
		subs: make(map[string]map[int64]ObserverFunc),
	}
}

// Subscribe registers fn for changes to the given resource and returns a
// function that removes the subscription.
func (n *Notifier) Subscribe(resource string, fn ObserverFunc) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	if n.subs[resource] == nil {
		n.subs[resource] = make(map[int64]ObserverFunc)
	}
	n.subs[resource][id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs[resource], id)
	}
}

// Notify fires every observer registered for the resource.
func (n *Notifier) Notify(resource string) {
	n.mu.RLock()
	fns := make([]ObserverFunc, 0, len(n.subs[resource]))
	for _, fn := range n.subs[resource] {
		fns = append(fns, fn)
	}
	n.mu.RUnlock()

	for _, fn := range fns {
		fn(resource)
	}
}
