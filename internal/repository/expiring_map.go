package repository

import (
	"payment-notify-relay/internal/model"
	"sync"
	"time"
)

type expiringEntry struct {
	submission *model.Submission
	timer      *time.Timer
}

// expiringMap deletes a key ttl after every write to it. Expiry is a
// scheduled deletion; reads never look at timestamps. An overwrite does not
// cancel the earlier write's deletion, so the first timer to fire removes
// whatever is stored under the key at that moment.
type expiringMap struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*expiringEntry
	pending map[*expiringEntry]struct{}
	closed  bool
	onEvict func(key string)
}

func newExpiringMap(ttl time.Duration, onEvict func(key string)) *expiringMap {
	return &expiringMap{
		ttl:     ttl,
		entries: make(map[string]*expiringEntry),
		pending: make(map[*expiringEntry]struct{}),
		onEvict: onEvict,
	}
}

func (m *expiringMap) put(key string, submission *model.Submission) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := &expiringEntry{submission: submission}
	entry.timer = time.AfterFunc(m.ttl, func() {
		m.expire(key, entry)
	})
	m.entries[key] = entry
	m.pending[entry] = struct{}{}
}

func (m *expiringMap) get(key string) (*model.Submission, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	copied := *entry.submission
	return &copied, true
}

// expire runs when entry's timer fires and removes whatever is currently
// stored under key, which may be a later write than entry.
func (m *expiringMap) expire(key string, entry *expiringEntry) {
	m.mu.Lock()
	delete(m.pending, entry)
	_, ok := m.entries[key]
	if !ok || m.closed {
		m.mu.Unlock()
		return
	}
	delete(m.entries, key)
	m.mu.Unlock()

	if m.onEvict != nil {
		m.onEvict(key)
	}
}

func (m *expiringMap) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	for entry := range m.pending {
		entry.timer.Stop()
		delete(m.pending, entry)
	}
	for key := range m.entries {
		delete(m.entries, key)
	}
}
