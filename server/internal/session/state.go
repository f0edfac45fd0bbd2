package session

import (
	"fmt"
	"time"

	"github.com/ytdlp-gui/ytdlp-gui/server/internal/options"
)

type State int

const (
	Idle State = iota
	AwaitingSpawn
	Downloading
	Finished
	Failed
)

var stateNames = map[State]string{
	Idle:          "idle",
	AwaitingSpawn: "awaiting_spawn",
	Downloading:   "downloading",
	Finished:      "finished",
	Failed:        "failed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(text []byte) error {
	for k, v := range stateNames {
		if v == string(text) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// Session is one user initiated download and the subprocess bound to it.
type Session struct {
	ID          string
	Links       []string
	Media       options.Media
	Playlist    bool
	Options     options.Options
	Destination string
	StartedAt   time.Time

	// single links still expected to finish in a multi link batch
	Remaining int

	Message          string
	Percentage       *float64
	PlaylistPosition string
}

// Snapshot is the immutable view of the machine handed to the UI.
type Snapshot struct {
	State            State         `json:"state"`
	SessionID        string        `json:"session_id,omitempty"`
	Links            []string      `json:"links,omitempty"`
	Media            options.Media `json:"media,omitempty"`
	Playlist         bool          `json:"playlist"`
	Message          string        `json:"message"`
	Percentage       *float64      `json:"percentage"`
	PlaylistPosition string        `json:"playlist_position,omitempty"`
	StartedAt        *time.Time    `json:"started_at,omitempty"`
}

// Active reports whether a subprocess is expected to be alive.
func (s State) Active() bool {
	return s == AwaitingSpawn || s == Downloading
}
