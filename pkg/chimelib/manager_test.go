package chimelib

import (
	"testing"
	"time"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	if err := SetConfigDir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	m, err := InitManager()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestManagerPutGetDelete(t *testing.T) {
	m := newTestManager(t)

	s, _ := NewAlarmSettings(7, monday, "tone.wav", nil)
	if err := m.Put(s); err != nil {
		t.Fatal(err)
	}
	got := m.Get(7)
	if got == nil || got.AudioAssetRef != "tone.wav" {
		t.Fatalf("got %+v", got)
	}
	if m.Get(8) != nil {
		t.Fatal("unknown id must return nil")
	}

	ok, err := m.Delete(7)
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	ok, err = m.Delete(7)
	if err != nil || ok {
		t.Fatalf("double delete: ok=%v err=%v", ok, err)
	}
}

func TestManagerGetAllSorted(t *testing.T) {
	m := newTestManager(t)

	late, _ := NewAlarmSettings(1, monday.Add(2*time.Hour), "tone.wav", nil)
	early, _ := NewAlarmSettings(2, monday, "tone.wav", nil)
	mid, _ := NewAlarmSettings(3, monday.Add(time.Hour), "tone.wav", nil)
	for _, s := range []*AlarmSettings{late, early, mid} {
		if err := m.Put(s); err != nil {
			t.Fatal(err)
		}
	}
	all := m.GetAll()
	if len(all) != 3 {
		t.Fatalf("got %d alarms", len(all))
	}
	if all[0].Id != 2 || all[1].Id != 3 || all[2].Id != 1 {
		t.Fatalf("wrong order: %d %d %d", all[0].Id, all[1].Id, all[2].Id)
	}
}

func TestManagerSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	if err := SetConfigDir(dir); err != nil {
		t.Fatal(err)
	}
	m, err := InitManager()
	if err != nil {
		t.Fatal(err)
	}
	s, _ := NewAlarmSettings(5, monday, "tone.wav", &AlarmOpts{Vibrate: true, RepeatDaily: true})
	if err := m.Put(s); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	re, err := InitManager()
	if err != nil {
		t.Fatal(err)
	}
	defer re.Close()
	got := re.Get(5)
	if got == nil {
		t.Fatal("alarm lost across reopen")
	}
	if !got.Vibrate || !got.RepeatDaily || !got.TargetTime.Equal(s.TargetTime) {
		t.Fatalf("alarm corrupted across reopen: %+v", got)
	}
}

func TestManagerFirstAndLast(t *testing.T) {
	m := newTestManager(t)
	if m.First(monday) != nil || m.Last() != nil {
		t.Fatal("empty store must report nil")
	}
	a, _ := NewAlarmSettings(1, monday.Add(time.Hour), "tone.wav", nil)
	b, _ := NewAlarmSettings(2, monday.Add(3*time.Hour), "tone.wav", nil)
	past, _ := NewAlarmSettings(3, monday.Add(-time.Hour), "tone.wav", nil)
	for _, s := range []*AlarmSettings{a, b, past} {
		_ = m.Put(s)
	}
	if first := m.First(monday); first == nil || first.Id != 1 {
		t.Fatalf("First: %+v", first)
	}
	if last := m.Last(); last == nil || last.Id != 2 {
		t.Fatalf("Last: %+v", last)
	}
}
