package chimelib

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// Well-known keys of the daemon key/value store.
const (
	KeyNotifyOnKillTitle = "notify_on_kill_title"
	KeyNotifyOnKillBody  = "notify_on_kill_body"
	KeySavedVolume       = "saved_system_volume"
)

// KV is a small sqlite-backed key/value store for daemon state that is not
// part of the alarm settings themselves, such as the saved system volume and
// the notify-on-kill warning strings.
type KV struct {
	db *sql.DB
}

// OpenKV opens the key/value store at the default location inside the
// configuration directory.
func OpenKV() (*KV, error) {
	return OpenKVAt(kvFile)
}

// OpenKVAt opens (or creates) a key/value store at path.
func OpenKVAt(path string) (*KV, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &KV{db: db}, nil
}

// Get returns the value for key and whether it was present.
func (k *KV) Get(key string) (string, bool, error) {
	var val string
	err := k.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&val)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Put stores value under key, replacing any previous value.
func (k *KV) Put(key, value string) error {
	_, err := k.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// Delete removes key. A missing key is a no-op.
func (k *KV) Delete(key string) error {
	_, err := k.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// Close closes the underlying database.
func (k *KV) Close() error {
	return k.db.Close()
}
