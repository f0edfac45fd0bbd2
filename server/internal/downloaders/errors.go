package downloaders

import (
	"errors"
	"fmt"
)

var ErrBinaryNotFound = errors.New("yt-dlp binary is missing")

// SpawnError is returned when the binary exists but could not be started.
type SpawnError struct {
	Binary string
	Err    error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Binary, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// KillError is only ever logged.
type KillError struct {
	Pid int
	Err error
}

func (e *KillError) Error() string {
	return fmt.Sprintf("failed to kill process %d: %v", e.Pid, e.Err)
}

func (e *KillError) Unwrap() error { return e.Err }
