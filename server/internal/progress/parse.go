package progress

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// StderrTag prefixes every chunk read from the stderr stream.
	StderrTag = "stderr:"

	sentinel    = "__"
	placeholder = "NA"
)

var signals = []struct {
	needle string
	err    error
}{
	{"has already been downloaded", ErrAlreadyExists},
	{"entry does not pass filter (!playlist)", ErrPlaylistNotChecked},
	{"Private video. Sign in if you've been granted access to this video", ErrPrivateVideo},
	{"Video unavailable. This video contains content", ErrVideoUnavailable},
	{"Video unavailable. This video is no longer available because the YouTube account associated with this video has been terminated.", ErrVideoUnavailable},
	{"YouTube said: The playlist does not exist.", ErrNoPlaylist},
}

// Parse turns a chunk of yt-dlp output into the events it carries.
//
// Known failure messages win over any structured payload in the same chunk
// and are returned without events. Lines that do not start with the
// sentinel are ignored, as are objects that fail to decode.
func Parse(fragment string) ([]Event, error) {
	for _, s := range signals {
		if strings.Contains(fragment, s.needle) {
			return nil, s.err
		}
	}

	lines := strings.FieldsFunc(fragment, func(r rune) bool {
		return r == '\n' || r == '\r'
	})

	for _, line := range lines {
		if msg, ok := strings.CutPrefix(line, StderrTag+"ERROR: "); ok {
			return nil, &OtherError{Message: msg}
		}
	}

	events := make([]Event, 0, 1)

	for _, line := range lines {
		if !strings.HasPrefix(line, sentinel) {
			continue
		}
		for _, obj := range splitObjects(line) {
			ev, err := decode(normalizePlaceholders(obj))
			if err != nil {
				continue
			}
			events = append(events, ev)
		}
	}

	return events, nil
}

// yt-dlp may emit several payloads in a single write, so a line is cut at
// every sentinel that opens an object.
func splitObjects(line string) []string {
	parts := strings.Split(line, sentinel+"{")
	objects := make([]string, 0, len(parts)-1)

	for _, p := range parts[1:] {
		objects = append(objects, "{"+strings.TrimSpace(p))
	}

	return objects
}

// normalizePlaceholders rewrites bare NA tokens to null. Text inside JSON
// strings is left untouched.
func normalizePlaceholders(obj string) string {
	if !strings.Contains(obj, placeholder) {
		return obj
	}

	var (
		b        strings.Builder
		inString bool
		escaped  bool
	)
	b.Grow(len(obj) + 8)

	for i := 0; i < len(obj); i++ {
		c := obj[i]

		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}

		if strings.HasPrefix(obj[i:], placeholder) && tokenEnds(obj, i+len(placeholder)) {
			b.WriteString("null")
			i += len(placeholder) - 1
			continue
		}

		b.WriteByte(c)
	}

	return b.String()
}

func tokenEnds(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	switch s[i] {
	case ',', '}', ']', ' ', '\t':
		return true
	}
	return false
}

func decode(obj string) (Event, error) {
	data := []byte(obj)

	var envelope struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}

	switch envelope.Type {
	case KindPreProcessing:
		return decodeAs[PreProcessing](data)
	case KindPreDownload:
		return decodeAs[PreDownload](data)
	case KindDownloading:
		return decodeAs[Downloading](data)
	case KindEndOfVideo:
		return decodeAs[EndOfVideo](data)
	case KindEndOfPlaylist:
		return decodeAs[EndOfPlaylist](data)
	case KindPostProcessing:
		return decodeAs[PostProcessing](data)
	case KindError:
		return decodeAs[Error](data)
	default:
		return nil, fmt.Errorf("unknown event type %q", envelope.Type)
	}
}

func decodeAs[T Event](data []byte) (Event, error) {
	var ev T
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return ev, nil
}
