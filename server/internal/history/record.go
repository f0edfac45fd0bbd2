package history

import (
	"fmt"
	"strings"
	"time"
)

type Outcome string

const (
	OutcomeFinished Outcome = "finished"
	OutcomeFailed   Outcome = "failed"
)

// Record describes a session that reached a terminal state.
type Record struct {
	SessionID   string    `json:"session_id"`
	Time        time.Time `json:"time"`
	Links       []string  `json:"links"`
	Options     string    `json:"options"`
	Destination string    `json:"destination"`
	Outcome     Outcome   `json:"outcome"`
	Message     string    `json:"message"`
}

// Line formats r as <time>::<links>::<options>::<destination>.
func (r Record) Line() string {
	return fmt.Sprintf("%s::%s::%s::%s",
		r.Time.Format(time.RFC3339),
		strings.Join(r.Links, " "),
		r.Options,
		r.Destination,
	)
}
