package state

import (
	"sync"
	"time"

	"github.com/cwveysey/coding-agent-notifications/internal/config"
	"github.com/cwveysey/coding-agent-notifications/internal/fileutil"
)

// Snapshot is the toggle state visible to the front-end
type Snapshot struct {
	SoundsEnabled bool      `json:"sounds_enabled"`
	Uninstalled   bool      `json:"uninstalled"`
	Installed     bool      `json:"installed"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s Snapshot) sameAs(o Snapshot) bool {
	return s.SoundsEnabled == o.SoundsEnabled &&
		s.Uninstalled == o.Uninstalled &&
		s.Installed == o.Installed
}

// Event is a state change delivered to subscribers
type Event struct {
	Snapshot Snapshot `json:"snapshot"`
	// Path is the file whose change triggered the refresh, if any
	Path string `json:"path,omitempty"`
	Type string `json:"type"` // "update" or "config"
}

// Manager tracks the toggle state derived from the sentinel files and
// fans changes out to subscribers
type Manager struct {
	soundsEnabled Flag
	uninstalled   Flag
	manifestPath  string

	current Snapshot
	mu      sync.RWMutex

	listeners []chan Event
	listMu    sync.RWMutex
}

// NewManager creates a manager and reads the initial state
func NewManager(paths *config.Paths) *Manager {
	m := &Manager{
		soundsEnabled: NewFlag(paths.SoundsEnabledFile()),
		uninstalled:   NewFlag(paths.UninstalledFile()),
		manifestPath:  paths.ManifestFile(),
		listeners:     make([]chan Event, 0),
	}
	m.current = m.read()
	return m
}

// SoundsEnabled returns the flag that turns sounds on
func (m *Manager) SoundsEnabled() Flag {
	return m.soundsEnabled
}

// Uninstalled returns the flag written by uninstall
func (m *Manager) Uninstalled() Flag {
	return m.uninstalled
}

// Get returns the last known snapshot
func (m *Manager) Get() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Refresh re-reads the sentinel files. Subscribers hear about it only when
// something changed.
func (m *Manager) Refresh(path string) (Snapshot, bool) {
	next := m.read()

	m.mu.Lock()
	changed := !next.sameAs(m.current)
	if changed {
		m.current = next
	} else {
		next = m.current
	}
	m.mu.Unlock()

	if changed {
		m.notify(Event{Snapshot: next, Path: path, Type: "update"})
	}
	return next, changed
}

// ConfigChanged tells subscribers the configuration file was rewritten
func (m *Manager) ConfigChanged(path string) {
	m.notify(Event{Snapshot: m.Get(), Path: path, Type: "config"})
}

func (m *Manager) read() Snapshot {
	return Snapshot{
		SoundsEnabled: m.soundsEnabled.Enabled(),
		Uninstalled:   m.uninstalled.Enabled(),
		Installed:     fileutil.Exists(m.manifestPath),
		UpdatedAt:     time.Now(),
	}
}

// Subscribe creates a new subscription channel for state events
func (m *Manager) Subscribe() chan Event {
	ch := make(chan Event, 100)
	m.listMu.Lock()
	m.listeners = append(m.listeners, ch)
	m.listMu.Unlock()
	return ch
}

// Unsubscribe removes a subscription channel
func (m *Manager) Unsubscribe(ch chan Event) {
	m.listMu.Lock()
	defer m.listMu.Unlock()

	for i, listener := range m.listeners {
		if listener == ch {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

func (m *Manager) notify(event Event) {
	m.listMu.RLock()
	defer m.listMu.RUnlock()

	for _, ch := range m.listeners {
		select {
		case ch <- event:
		default:
			// Channel full, skip
		}
	}
}
