package progress

// Kind is the discriminator carried by every structured payload
// under the "type" key.
type Kind string

const (
	KindPreProcessing  Kind = "pre_processing"
	KindPreDownload    Kind = "pre_download"
	KindDownloading    Kind = "downloading"
	KindEndOfVideo     Kind = "end_of_video"
	KindEndOfPlaylist  Kind = "end_of_playlist"
	KindPostProcessing Kind = "post_processing"
	KindError          Kind = "error"
)

// Event is one decoded progress notification emitted by yt-dlp.
// The set of implementations is closed.
type Event interface {
	Kind() Kind
	isEvent()
}

type PreProcessing struct{}

type PreDownload struct {
	VideoID string `json:"video_id"`
}

// Downloading is an absolute snapshot of an in-flight download.
// yt-dlp reports byte counters as floats and leaves unknown values as NA,
// hence the pointers.
type Downloading struct {
	ETA                *float64 `json:"eta"`
	DownloadedBytes    float64  `json:"downloaded_bytes"`
	TotalBytes         *float64 `json:"total_bytes"`
	TotalBytesEstimate *float64 `json:"total_bytes_estimate"`
	Elapsed            float64  `json:"elapsed"`
	Speed              *float64 `json:"speed"`
	PlaylistCount      *int     `json:"playlist_count"`
	PlaylistIndex      *int     `json:"playlist_index"`
}

type EndOfVideo struct{}

type EndOfPlaylist struct{}

type PostProcessing struct {
	Status string `json:"status"`
}

type Error struct {
	Message string `json:"message"`
}

func (PreProcessing) Kind() Kind  { return KindPreProcessing }
func (PreDownload) Kind() Kind    { return KindPreDownload }
func (Downloading) Kind() Kind    { return KindDownloading }
func (EndOfVideo) Kind() Kind     { return KindEndOfVideo }
func (EndOfPlaylist) Kind() Kind  { return KindEndOfPlaylist }
func (PostProcessing) Kind() Kind { return KindPostProcessing }
func (Error) Kind() Kind          { return KindError }

func (PreProcessing) isEvent()  {}
func (PreDownload) isEvent()    {}
func (Downloading) isEvent()    {}
func (EndOfVideo) isEvent()     {}
func (EndOfPlaylist) isEvent()  {}
func (PostProcessing) isEvent() {}
func (Error) isEvent()          {}
