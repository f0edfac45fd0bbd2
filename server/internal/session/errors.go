package session

import (
	"errors"
	"fmt"

	"github.com/ytdlp-gui/ytdlp-gui/server/internal/downloaders"
	"github.com/ytdlp-gui/ytdlp-gui/server/internal/progress"
)

var (
	ErrNoDownloadURL  = errors.New("no download URL was provided")
	ErrSessionRunning = errors.New("a download is already running")
)

// InvalidURLError points at the first link that failed validation.
// Position is 1-based.
type InvalidURLError struct {
	Position int
	Link     string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL on position: %d", e.Position)
}

// UserMessage maps an error to the text shown in the session status.
func UserMessage(err error) string {
	var (
		other   *progress.OtherError
		invalid *InvalidURLError
		spawn   *downloaders.SpawnError
	)

	switch {
	case errors.Is(err, progress.ErrAlreadyExists):
		return "File already exists"
	case errors.Is(err, progress.ErrPlaylistNotChecked):
		return "Playlist checkbox not checked"
	case errors.Is(err, progress.ErrPrivateVideo):
		return "Private video, skipping..."
	case errors.Is(err, progress.ErrVideoUnavailable):
		return "Video unavailable, skipping..."
	case errors.Is(err, progress.ErrNoPlaylist):
		return "Playlist does not exist"
	case errors.As(err, &other):
		return other.Message
	case errors.Is(err, downloaders.ErrBinaryNotFound):
		return "yt-dlp binary is missing"
	case errors.As(err, &spawn):
		return "Could not start yt-dlp"
	case errors.Is(err, ErrNoDownloadURL):
		return "No Download URL was provided!"
	case errors.As(err, &invalid):
		return invalid.Error()
	case errors.Is(err, ErrSessionRunning):
		return "A download is already running"
	}
	return "Something went wrong, check the logs"
}
