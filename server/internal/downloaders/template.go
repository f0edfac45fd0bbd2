package downloaders

import "strings"

// reference: https://github.com/yt-dlp/yt-dlp/blob/master/yt_dlp/YoutubeDL.py
// total_bytes, total_bytes_estimate, eta and speed may all be missing,
// yt-dlp prints NA in that case.
const downloadTemplate = `download:__{
	"type": "downloading",
	"eta": %(progress.eta)s,
	"downloaded_bytes": %(progress.downloaded_bytes)s,
	"total_bytes": %(progress.total_bytes)s,
	"total_bytes_estimate": %(progress.total_bytes_estimate)s,
	"elapsed": %(progress.elapsed)s,
	"speed": %(progress.speed)s,
	"playlist_count": %(info.playlist_count)s,
	"playlist_index": %(info.playlist_index)s
}`

const postprocessTemplate = `postprocess:__{
	"type": "post_processing",
	"status": "%(progress.status)s"
}`

var hooks = []string{
	`pre_process:__{"type": "pre_processing"}`,
	`before_dl:__{"type": "pre_download", "video_id": "%(id)s"}`,
	`playlist:__{"type": "end_of_playlist"}`,
	`after_video:__{"type": "end_of_video"}`,
}

var templateReplacer = strings.NewReplacer("\n", "", "\t", "")

// machineOutputFlags is appended after every caller supplied argument.
// --print implies --quiet and --simulate, both are turned back off.
func machineOutputFlags() []string {
	flags := make([]string, 0, len(hooks)*2+8)

	for _, h := range hooks {
		flags = append(flags, "--print", h)
	}

	return append(flags,
		"--progress-template", templateReplacer.Replace(downloadTemplate),
		"--progress-template", templateReplacer.Replace(postprocessTemplate),
		"--newline",
		"--no-colors",
		"--no-quiet",
		"--no-simulate",
	)
}
