// Package checklist records the checked state of the sidebar's checklist.
//
// Each save appends one timestamped entry to a per-day YAML file in the save
// directory, so a day's runs can be reviewed together.
package checklist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxFileBytes bounds both the save file that is read back and the document
// that is written.
const MaxFileBytes = 5 * 1024 * 1024

// ErrTooLarge is returned when a save file exceeds MaxFileBytes.
var ErrTooLarge = errors.New("checklist save file too large")

// ErrEmpty is returned when there is nothing to save.
var ErrEmpty = errors.New("checklist has no items")

// Item is one checklist line and whether it was ticked.
type Item struct {
	Text    string `yaml:"text"`
	Checked bool   `yaml:"is_checked"`
}

// Entry is one saved snapshot of the checklist.
type Entry struct {
	Title     string `yaml:"title"`
	Timestamp string `yaml:"timestamp"`
	Items     []Item `yaml:"items"`
}

// Checked counts the ticked items.
func (e Entry) Checked() int {
	n := 0
	for _, it := range e.Items {
		if it.Checked {
			n++
		}
	}
	return n
}

// Store appends entries to dated files in a directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the save directory.
func (s *Store) Dir() string {
	return s.dir
}

// DefaultDir returns $XDG_DATA_HOME/checkbar/saves, falling back to
// ~/.local/share/checkbar/saves.
func DefaultDir() (string, error) {
	if data := os.Getenv("XDG_DATA_HOME"); data != "" {
		return filepath.Join(data, "checkbar", "saves"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "checkbar", "saves"), nil
}

// ResolveDir maps a configured save_dir to a directory. Empty means
// DefaultDir. A leading ~ expands to the home directory, and a path naming a
// .yaml file saves next to it.
func ResolveDir(configured string) (string, error) {
	configured = strings.TrimSpace(configured)
	if configured == "" {
		return DefaultDir()
	}
	if configured == "~" || strings.HasPrefix(configured, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		configured = filepath.Join(home, strings.TrimPrefix(configured, "~"))
	}
	switch strings.ToLower(filepath.Ext(configured)) {
	case ".yaml", ".yml":
		return filepath.Dir(configured), nil
	}
	return configured, nil
}

// Save stamps entry with the current time, appends it to today's file and
// returns the file path.
func (s *Store) Save(entry Entry) (string, error) {
	if len(entry.Items) == 0 {
		return "", ErrEmpty
	}
	now := s.now()
	entry.Timestamp = now.Format(time.RFC3339)

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create save directory: %w", err)
	}
	path := filepath.Join(s.dir, now.Format("2006-01-02")+".yaml")

	entries, err := readEntries(path)
	if err != nil {
		return "", err
	}
	entries = append(entries, entry)

	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to marshal checklist entries: %w", err)
	}
	if len(data) > MaxFileBytes {
		return "", fmt.Errorf("%w: %s would grow to %d bytes", ErrTooLarge, path, len(data))
	}
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// Entries returns the entries saved in the file for day.
func (s *Store) Entries(day time.Time) ([]Entry, error) {
	return readEntries(filepath.Join(s.dir, day.Format("2006-01-02")+".yaml"))
}

func readEntries(path string) ([]Entry, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() > MaxFileBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return entries, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".save-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp save file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close save file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace save file: %w", err)
	}
	return nil
}
