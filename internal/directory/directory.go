// Package directory tracks which live connection, if any, currently belongs
// to each participant. Bindings are last-write-wins: a participant who
// connects twice is reachable only through the most recent connection.
package directory

import "sync"

// Handle is an opaque reference to one participant's live bidirectional
// channel. Implementations must be comparable (pointers are), since
// Unregister matches entries by handle identity.
type Handle interface {
	Push(event string, payload any) error
}

type Directory struct {
	mu       sync.RWMutex
	bindings map[string]Handle
}

func New() *Directory {
	return &Directory{
		bindings: make(map[string]Handle),
	}
}

// Register binds participantID to h, unconditionally overwriting any
// existing binding. A prior binding for a different id pointing at the same
// handle is left alone; it is cleaned up on that handle's own Unregister.
func (d *Directory) Register(participantID string, h Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.bindings[participantID] = h
}

func (d *Directory) Lookup(participantID string) (Handle, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	h, ok := d.bindings[participantID]
	return h, ok
}

// Unregister removes every binding whose handle equals h. Scanning by handle
// keeps a disconnect from a stale connection from evicting a participant who
// has since re-registered on a newer one.
func (d *Directory) Unregister(h Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id, bound := range d.bindings {
		if bound == h {
			delete(d.bindings, id)
		}
	}
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.bindings)
}
