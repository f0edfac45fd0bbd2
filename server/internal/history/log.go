package history

import (
	"os"
	"path/filepath"
	"sync"
)

// FileLog is the append only download log.
type FileLog struct {
	path string
	mu   sync.Mutex
}

func NewFileLog(path string) *FileLog {
	return &FileLog{path: path}
}

func (l *FileLog) Path() string { return l.path }

// Append opens the file for every record so an external rotation or
// deletion never breaks the log.
func (l *FileLog) Append(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}

	fd, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	_, err = fd.WriteString(r.Line() + "\n")
	if cerr := fd.Close(); err == nil {
		err = cerr
	}

	return err
}
