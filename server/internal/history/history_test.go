package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	evbus "github.com/asaskevich/EventBus"
	bolt "go.etcd.io/bbolt"
)

func openArchive(t *testing.T) *Archive {
	t.Helper()

	db, err := bolt.Open(filepath.Join(t.TempDir(), "bolt.db"), 0600, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	a, err := NewArchive(db)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func sample(id string) Record {
	return Record{
		SessionID:   id,
		Time:        time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		Links:       []string{"https://youtu.be/a", "https://youtu.be/b"},
		Options:     "1080p:mp4",
		Destination: "/videos",
		Outcome:     OutcomeFinished,
		Message:     "Finished!",
	}
}

func TestRecordLine(t *testing.T) {
	want := "2024-05-01T10:30:00Z::https://youtu.be/a https://youtu.be/b::1080p:mp4::/videos"
	if got := sample("x").Line(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFileLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "downloads.log")
	l := NewFileLog(path)

	for _, id := range []string{"a", "b"} {
		if err := l.Append(sample(id)); err != nil {
			t.Fatal(err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", lines)
	}
}

func TestArchiveNewestFirst(t *testing.T) {
	a := openArchive(t)

	for _, id := range []string{"first", "second", "third"} {
		if err := a.Put(sample(id)); err != nil {
			t.Fatal(err)
		}
	}

	all, err := a.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].SessionID != "third" || all[2].SessionID != "first" {
		t.Fatalf("unexpected order: %+v", all)
	}

	limited, err := a.List(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 || limited[1].SessionID != "second" {
		t.Fatalf("unexpected page: %+v", limited)
	}
}

func TestRecorderThroughBus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "downloads.log")
	archive := openArchive(t)

	bus := evbus.New()
	if err := NewRecorder(NewFileLog(path), archive).Subscribe(bus, "record"); err != nil {
		t.Fatal(err)
	}

	bus.Publish("record", sample("bus"))
	bus.WaitAsync()

	records, err := archive.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].SessionID != "bus" {
		t.Fatalf("unexpected archive content: %+v", records)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("log file not written: %v", err)
	}
}

func TestRecorderSurvivesBrokenLog(t *testing.T) {
	archive := openArchive(t)

	// a directory cannot be opened for appending
	r := NewRecorder(NewFileLog(t.TempDir()), archive)
	r.Handle(sample("still-archived"))

	records, err := archive.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("archive must be written even when the log fails: %+v", records)
	}
}
