package gateway

import (
	"sync"
	"sync/atomic"

	"github.com/twinbridge/twinbridge/twin"
)

// stateTriple is one consistent combination of current snapshot, previous
// snapshot and the change set that produced the current one. The triple is
// replaced as a whole, never mutated.
type stateTriple struct {
	current  *twin.Snapshot
	previous *twin.Snapshot
	changes  []twin.Change
}

// snapshotStore holds the atomically swapped state triple. publish is
// serialized; reads are lock-free and always observe a consistent triple,
// never a torn combination of snapshot and change set.
type snapshotStore struct {
	mu   sync.Mutex // serializes writers
	cell atomic.Pointer[stateTriple]
}

func newSnapshotStore() *snapshotStore {
	s := &snapshotStore{}
	s.cell.Store(&stateTriple{})
	return s
}

// publish moves current to previous and installs next as the new current
// snapshot together with its change set.
func (s *snapshotStore) publish(next *twin.Snapshot, changes []twin.Change) {
	if changes == nil {
		changes = []twin.Change{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.cell.Load()
	s.cell.Store(&stateTriple{current: next, previous: old.current, changes: changes})
}

// sync installs a first snapshot without touching previous or the change
// set. The engine sends it when the twin binds to an already computed state.
func (s *snapshotStore) sync(current *twin.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.cell.Load()
	s.cell.Store(&stateTriple{current: current, previous: old.previous, changes: old.changes})
}

// read returns the current snapshot, or nil before the first publish.
func (s *snapshotStore) read() *twin.Snapshot {
	return s.cell.Load().current
}

// readPrevious returns the previous snapshot, or nil before the second
// publish.
func (s *snapshotStore) readPrevious() *twin.Snapshot {
	return s.cell.Load().previous
}

// readChanges returns the latest change set, or nil before the first
// publish.
func (s *snapshotStore) readChanges() []twin.Change {
	return s.cell.Load().changes
}

// notificationLog is the append-only log of event notifications. It grows
// unbounded for the lifetime of the gateway; nothing is ever evicted. That
// is a documented limitation, not an oversight: capping would change the
// observable behavior of the notifications endpoint.
type notificationLog struct {
	mu      sync.RWMutex
	entries []twin.EventNotification
}

func (l *notificationLog) append(notification twin.EventNotification) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, notification)
}

// list returns a copy of all notifications, oldest first.
func (l *notificationLog) list() []twin.EventNotification {
	l.mu.RLock()
	defer l.mu.RUnlock()
	list := make([]twin.EventNotification, len(l.entries))
	copy(list, l.entries)
	return list
}
