package rest

import (
	"context"
	"errors"

	"github.com/ytdlp-gui/ytdlp-gui/server/config"
	"github.com/ytdlp-gui/ytdlp-gui/server/internal/history"
	"github.com/ytdlp-gui/ytdlp-gui/server/internal/session"
	"github.com/ytdlp-gui/ytdlp-gui/server/updater"
)

// overridden with -ldflags at release time
var AppVersion = "dev"

type Service struct {
	machine *session.Machine
	archive *history.Archive
	cfg     *config.Config
}

func NewService(m *session.Machine, a *history.Archive, c *config.Config) *Service {
	return &Service{
		machine: m,
		archive: a,
		cfg:     c,
	}
}

func (s *Service) Exec(ctx context.Context, req session.StartRequest) (string, error) {
	return s.machine.Start(ctx, req)
}

func (s *Service) Stop(ctx context.Context) error {
	return s.machine.Stop(ctx)
}

func (s *Service) Status() session.Snapshot {
	return s.machine.Snapshot()
}

func (s *Service) GetOptions() OptionsPayload {
	opts, dir := s.cfg.Preferences()
	return OptionsPayload{Options: opts, DownloadPath: dir}
}

// SetOptions applies and persists the new options. An empty download path
// keeps the current one.
func (s *Service) SetOptions(p OptionsPayload) error {
	if err := s.cfg.SetOptions(p.Options); err != nil {
		return errors.Join(errInvalidOptions, err)
	}
	if p.DownloadPath != "" {
		s.cfg.SetDownloadPath(p.DownloadPath)
	}
	return s.cfg.Save()
}

func (s *Service) GetWindow() config.WindowConfig {
	return s.cfg.GetWindow()
}

func (s *Service) SetWindow(w config.WindowConfig) error {
	s.cfg.SetWindow(w)
	return s.cfg.Save()
}

func (s *Service) History(ctx context.Context, limit int) ([]history.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		return s.archive.List(limit)
	}
}

func (s *Service) GetVersion(ctx context.Context) (VersionResponse, error) {
	v, err := updater.Version(ctx, s.cfg.Paths.DownloaderPath)
	return VersionResponse{App: AppVersion, YtDlp: v}, err
}

func (s *Service) Update(ctx context.Context) (string, error) {
	if s.machine.Snapshot().State.Active() {
		return "", session.ErrSessionRunning
	}
	return updater.UpdateExecutable(ctx, s.cfg.Paths.DownloaderPath)
}

var errInvalidOptions = errors.New("invalid options")
