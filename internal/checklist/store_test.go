package checklist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedStore(dir string, at time.Time) *Store {
	s := NewStore(dir)
	s.now = func() time.Time { return at }
	return s
}

func TestSave_AppendsToDailyFile(t *testing.T) {
	dir := t.TempDir()
	morning := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	s := fixedStore(dir, morning)

	first := Entry{Title: "Deploy", Items: []Item{{Text: "backup", Checked: true}, {Text: "migrate"}}}
	path, err := s.Save(first)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if want := filepath.Join(dir, "2026-03-14.yaml"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}

	s.now = func() time.Time { return morning.Add(2 * time.Hour) }
	if _, err := s.Save(Entry{Title: "Deploy", Items: []Item{{Text: "backup", Checked: true}, {Text: "migrate", Checked: true}}}); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	entries, err := s.Entries(morning)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Timestamp != "2026-03-14T09:30:00Z" || entries[1].Timestamp != "2026-03-14T11:30:00Z" {
		t.Fatalf("timestamps = %q, %q", entries[0].Timestamp, entries[1].Timestamp)
	}
	if entries[0].Checked() != 1 || entries[1].Checked() != 2 {
		t.Fatalf("checked = %d, %d", entries[0].Checked(), entries[1].Checked())
	}

	files, _ := os.ReadDir(dir)
	if len(files) != 1 {
		t.Fatalf("dir has %d files, want only the daily file", len(files))
	}
}

func TestSave_NewDayNewFile(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	s := fixedStore(dir, day)
	entry := Entry{Title: "Close", Items: []Item{{Text: "lock door"}}}

	if _, err := s.Save(entry); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.now = func() time.Time { return day.Add(time.Minute) }
	path, err := s.Save(entry)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(path) != "2026-03-15.yaml" {
		t.Fatalf("path = %q", path)
	}
}

func TestSave_Rejects(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	s := fixedStore(dir, at)

	if _, err := s.Save(Entry{Title: "empty"}); !errors.Is(err, ErrEmpty) {
		t.Fatalf("empty entry err = %v, want ErrEmpty", err)
	}

	path := filepath.Join(dir, "2026-01-02.yaml")
	if err := os.WriteFile(path, []byte("- title: [unclosed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(Entry{Items: []Item{{Text: "a"}}}); err == nil {
		t.Fatal("corrupt save file was overwritten")
	}

	big := strings.Repeat("#", MaxFileBytes+1)
	if err := os.WriteFile(path, []byte(big), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(Entry{Items: []Item{{Text: "a"}}}); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("oversized file err = %v, want ErrTooLarge", err)
	}
}

func TestResolveDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("HOME", "/home/ops")

	tests := []struct {
		in   string
		want string
	}{
		{"", "/data/checkbar/saves"},
		{"  ", "/data/checkbar/saves"},
		{"/var/lib/checkbar", "/var/lib/checkbar"},
		{"~/runs", "/home/ops/runs"},
		{"/srv/results/log.yaml", "/srv/results"},
	}
	for _, tt := range tests {
		got, err := ResolveDir(tt.in)
		if err != nil {
			t.Fatalf("ResolveDir(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ResolveDir(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
