package chimelib

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ConfigDirEnv is the environment variable name used to override the default
// configuration directory.
const ConfigDirEnv = "CHIMED_CONFIG_DIR"

var (
	// ConfigDir is the absolute path to the chime configuration directory.
	ConfigDir string

	// userdataFile is the persisted alarm store inside ConfigDir.
	userdataFile string

	// kvFile is the sqlite key/value store inside ConfigDir.
	kvFile string
)

func init() {
	dir := os.Getenv(ConfigDirEnv)
	if dir == "" {
		dir = defaultConfigDir()
	}
	if err := setConfigDir(dir); err != nil {
		panic(err)
	}
}

func defaultConfigDir() string {
	cdr, err := os.UserConfigDir()
	if err != nil {
		// No HOME; a sandboxed run. Temp is better than dying.
		cdr = os.TempDir()
	}
	return filepath.Join(cdr, "chimed")
}

func setConfigDir(dir string) error {
	if dir == "" {
		return errors.New("config dir is empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return err
	}
	ConfigDir = abs
	userdataFile = filepath.Join(abs, "alarms.chime")
	kvFile = filepath.Join(abs, "kv.db")
	return nil
}

// SetConfigDir sets the configuration directory to the specified path,
// creating it if it does not exist.
func SetConfigDir(dir string) error {
	return setConfigDir(dir)
}

// TruncateToMinute zeroes the seconds and sub-second components of t.
func TruncateToMinute(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}

// isoWeekday maps time.Weekday onto ISO numbering, 1=Monday .. 7=Sunday.
func isoWeekday(t time.Time) int {
	w := int(t.Weekday())
	if w == 0 {
		return 7
	}
	return w
}
