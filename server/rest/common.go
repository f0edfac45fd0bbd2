package rest

import (
	"github.com/ytdlp-gui/ytdlp-gui/server/config"
	"github.com/ytdlp-gui/ytdlp-gui/server/internal/history"
	"github.com/ytdlp-gui/ytdlp-gui/server/internal/options"
	"github.com/ytdlp-gui/ytdlp-gui/server/internal/session"
)

type ContainerArgs struct {
	Machine *session.Machine
	Archive *history.Archive
	Config  *config.Config
}

type OptionsPayload struct {
	Options      options.Options `json:"options"`
	DownloadPath string          `json:"download_path"`
}

type VersionResponse struct {
	App   string `json:"app"`
	YtDlp string `json:"yt_dlp"`
}
