package worker

import (
	"sync"
	"time"
)

const defaultSlotIdle = 5 * time.Minute

// sessionSlot serializes work for one session. inUse counts callers holding
// or waiting on the slot so the reaper never drops a contended entry.
type sessionSlot struct {
	mu       sync.Mutex
	inUse    int
	lastUsed time.Time
}

// Manager runs at most one query per session at a time while independent
// sessions proceed concurrently. Slots for idle sessions are reaped so the
// map does not grow with every session ever seen.
type Manager struct {
	mu     sync.Mutex
	slots  map[string]*sessionSlot
	idle   time.Duration
	stopCh chan struct{}
	once   sync.Once
}

// NewManager builds a manager; idle controls how long an unused session slot
// is retained.
func NewManager(idle time.Duration) *Manager {
	if idle <= 0 {
		idle = defaultSlotIdle
	}
	m := &Manager{
		slots:  make(map[string]*sessionSlot),
		idle:   idle,
		stopCh: make(chan struct{}),
	}
	go m.purgeIdleSlots()
	return m
}

// Do runs fn under the session's slot. Calls for the same session execute
// one after another in arrival order at the mutex; calls for different
// sessions never block each other.
func (m *Manager) Do(sessionID string, fn func() string) string {
	slot := m.acquire(sessionID)
	slot.mu.Lock()
	defer func() {
		slot.mu.Unlock()
		m.release(slot)
	}()
	return fn()
}

// Close stops the reaper goroutine.
func (m *Manager) Close() {
	m.once.Do(func() { close(m.stopCh) })
}

func (m *Manager) acquire(sessionID string) *sessionSlot {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot, ok := m.slots[sessionID]
	if !ok {
		slot = &sessionSlot{}
		m.slots[sessionID] = slot
	}
	slot.inUse++
	return slot
}

func (m *Manager) release(slot *sessionSlot) {
	m.mu.Lock()
	slot.inUse--
	slot.lastUsed = time.Now()
	m.mu.Unlock()
}

func (m *Manager) purgeIdleSlots() {
	interval := m.idle / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-m.idle)
			m.mu.Lock()
			for id, slot := range m.slots {
				if slot.inUse == 0 && slot.lastUsed.Before(cutoff) {
					delete(m.slots, id)
				}
			}
			m.mu.Unlock()
		}
	}
}
