package options

import (
	"errors"
	"fmt"
)

const (
	playlistOutput = "%(playlist)s/%(title)s.%(ext)s"
	singleOutput   = "%(title)s.%(ext)s"
)

// Request is everything needed to describe one yt-dlp invocation, minus the
// machine-output flags owned by the process supervisor.
type Request struct {
	Links       []string
	Media       Media
	Options     Options
	Playlist    bool
	Destination string
}

// BuildArgs translates a request into the yt-dlp argument vector:
// links, media flags, playlist block, SponsorBlock, cookies.
func BuildArgs(req Request) ([]string, error) {
	if len(req.Links) == 0 {
		return nil, errors.New("no links to download")
	}
	if req.Destination == "" {
		return nil, errors.New("empty destination directory")
	}
	if err := req.Options.Validate(); err != nil {
		return nil, err
	}

	args := make([]string, 0, len(req.Links)+16)
	args = append(args, req.Links...)

	switch req.Media {
	case MediaVideo:
		// yt-dlp may fetch audio and video separately and merge them into
		// another container, --remux-video enforces the chosen one
		args = append(args,
			"-S", resolutionSort[req.Options.VideoResolution],
			"--remux-video", string(req.Options.VideoFormat),
		)
	case MediaAudio:
		args = append(args,
			"-x",
			"--audio-format", string(req.Options.AudioFormat),
			"--audio-quality", qualityLevel[req.Options.AudioQuality],
		)
	default:
		return nil, fmt.Errorf("unknown media type %q", req.Media)
	}

	args = append(args, playlistArgs(req.Playlist, req.Destination)...)

	if flag, ok := sponsorBlockFlag[req.Options.SponsorBlock]; ok {
		args = append(args, flag)
	}

	if req.Options.CookiesFile != "" {
		args = append(args, "--cookies", req.Options.CookiesFile)
	}

	return args, nil
}

func playlistArgs(playlist bool, dir string) []string {
	if playlist {
		return []string{
			"--yes-playlist",
			"-P", dir,
			"-o", playlistOutput,
		}
	}

	return []string{
		"--break-on-reject",
		"--match-filter", "!playlist",
		"--no-playlist",
		"-P", dir,
		"-o", singleOutput,
	}
}
