package chimelib

import (
	"encoding/gob"
	"os"
	"sync"
	"time"
)

// Manager is the persistent alarm store. Every mutation is flushed to disk
// immediately, so a daemon restart sees exactly the alarms that were live.
type Manager struct {
	alarms AlarmsMap
	f      *os.File
	mu     *sync.RWMutex
}

// InitManager opens (or creates) the alarm store in the configuration
// directory and loads any persisted alarms.
func InitManager() (m *Manager, err error) {
	m = &Manager{
		mu: &sync.RWMutex{},
	}
	m.f, err = os.OpenFile(userdataFile, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return nil, err
	}
	err = gob.NewDecoder(m.f).Decode(&m.alarms)
	if err != nil {
		// fresh or unreadable store, start empty
		m.alarms = make(AlarmsMap)
		err = nil
	}
	return m, nil
}

// Put stores the alarm and flushes the store.
func (m *Manager) Put(s *AlarmSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alarms[s.Id] = s
	return m.flush()
}

// Get returns the alarm with the given id, or nil.
func (m *Manager) Get(id int) *AlarmSettings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.alarms[id]
}

// Delete removes the alarm with the given id and reports whether it existed.
func (m *Manager) Delete(id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.alarms[id]
	if !ok {
		return false, nil
	}
	delete(m.alarms, id)
	return true, m.flush()
}

// GetAll returns all persisted alarms ordered by target time.
func (m *Manager) GetAll() []*AlarmSettings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.alarms.sorted()
}

// Len returns the number of persisted alarms.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.alarms)
}

// First returns the alarm with the earliest target time after now, or nil
// when none is pending.
func (m *Manager) First(now time.Time) *AlarmSettings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var first *AlarmSettings
	for _, s := range m.alarms {
		if s.TargetTime.Before(now) {
			continue
		}
		if first == nil || s.TargetTime.Before(first.TargetTime) {
			first = s
		}
	}
	return first
}

// Last returns the alarm with the latest target time, or nil when the store
// is empty.
func (m *Manager) Last() *AlarmSettings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var last *AlarmSettings
	for _, s := range m.alarms {
		if last == nil || s.TargetTime.After(last.TargetTime) {
			last = s
		}
	}
	return last
}

// flush rewrites the whole store. Callers hold the write lock.
func (m *Manager) flush() error {
	if err := m.f.Truncate(0); err != nil {
		return err
	}
	if _, err := m.f.Seek(0, 0); err != nil {
		return err
	}
	return gob.NewEncoder(m.f).Encode(m.alarms)
}

// Close flushes and closes the store file.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.flush(); err != nil {
		_ = m.f.Close()
		return err
	}
	return m.f.Close()
}
