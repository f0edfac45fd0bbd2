package progress

import "errors"

// Out-of-band conditions recognized in yt-dlp output. Each one ends the
// current session.
var (
	ErrAlreadyExists      = errors.New("file has already been downloaded")
	ErrPlaylistNotChecked = errors.New("entry does not pass the !playlist filter")
	ErrPrivateVideo       = errors.New("private video")
	ErrVideoUnavailable   = errors.New("video unavailable")
	ErrNoPlaylist         = errors.New("playlist does not exist")
)

// OtherError carries an ERROR line reported by yt-dlp on stderr.
type OtherError struct {
	Message string
}

func (e *OtherError) Error() string { return e.Message }
