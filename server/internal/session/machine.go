package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/ytdlp-gui/ytdlp-gui/server/internal/downloaders"
	"github.com/ytdlp-gui/ytdlp-gui/server/internal/history"
	"github.com/ytdlp-gui/ytdlp-gui/server/internal/options"
	"github.com/ytdlp-gui/ytdlp-gui/server/internal/progress"
)

const (
	// TopicUpdate carries a Snapshot after every handled message.
	TopicUpdate = "session:update"
	// TopicRecord carries a history.Record for every terminal session.
	TopicRecord = "session:record"
)

// Process is the subprocess owner driven by the machine.
type Process interface {
	Start(tag string, args []string) error
	Kill() error
	IsRunning() bool
}

type Publisher interface {
	Publish(topic string, args ...interface{})
}

// Preferences are read when a session starts.
type Preferences struct {
	Options     options.Options
	Destination string
}

// StartRequest is the user intent to begin a download. Links holds one or
// more whitespace separated URLs.
type StartRequest struct {
	Links        string                `json:"links"`
	Media        options.Media         `json:"media"`
	Playlist     bool                  `json:"playlist"`
	SponsorBlock *options.SponsorBlock `json:"sponsorblock,omitempty"`
}

type startIntent struct {
	req   StartRequest
	reply chan startResult
}

type startResult struct {
	id  string
	err error
}

type stopIntent struct {
	reply chan struct{}
}

// Machine is the application state machine. Run is the only goroutine
// allowed to touch state and session, everything else talks to it through
// channels or reads the published snapshot.
type Machine struct {
	proc    Process
	output  <-chan downloaders.Output
	bus     Publisher
	prefs   func() Preferences
	intents chan any
	now     func() time.Time

	state   State
	session *Session

	current atomic.Pointer[Snapshot]
}

func New(proc Process, output <-chan downloaders.Output, bus Publisher, prefs func() Preferences) *Machine {
	m := &Machine{
		proc:    proc,
		output:  output,
		bus:     bus,
		prefs:   prefs,
		intents: make(chan any),
		now:     time.Now,
	}
	m.current.Store(&Snapshot{State: Idle})
	return m
}

// Run drains intents and subprocess output until ctx is done, then kills
// whatever is still running.
func (m *Machine) Run(ctx context.Context) error {
	m.publish()

	for {
		select {
		case <-ctx.Done():
			if m.state.Active() {
				m.kill()
			}
			return nil
		case in := <-m.intents:
			m.dispatch(in)
		case out := <-m.output:
			m.receive(out)
		}
	}
}

// Start submits a start intent and returns the new session id.
func (m *Machine) Start(ctx context.Context, req StartRequest) (string, error) {
	reply := make(chan startResult, 1)

	select {
	case m.intents <- startIntent{req: req, reply: reply}:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case res := <-reply:
		return res.id, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Stop cancels the current session, if any, and returns to Idle.
func (m *Machine) Stop(ctx context.Context) error {
	reply := make(chan struct{}, 1)

	select {
	case m.intents <- stopIntent{reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot is safe to call from any goroutine.
func (m *Machine) Snapshot() Snapshot {
	return *m.current.Load()
}

func (m *Machine) dispatch(in any) {
	switch in := in.(type) {
	case startIntent:
		id, err := m.start(in.req)
		in.reply <- startResult{id: id, err: err}
	case stopIntent:
		m.stop()
		in.reply <- struct{}{}
	}
}

func (m *Machine) start(req StartRequest) (string, error) {
	if m.state.Active() || m.proc.IsRunning() {
		return "", ErrSessionRunning
	}

	links := strings.Fields(req.Links)
	if len(links) == 0 {
		return "", ErrNoDownloadURL
	}

	for i, link := range links {
		if !validLink(link) {
			return "", &InvalidURLError{Position: i + 1, Link: link}
		}
	}

	prefs := m.prefs()
	opts := prefs.Options
	if req.SponsorBlock != nil {
		opts.SponsorBlock = *req.SponsorBlock
	}

	args, err := options.BuildArgs(options.Request{
		Links:       links,
		Media:       req.Media,
		Options:     opts,
		Playlist:    req.Playlist,
		Destination: prefs.Destination,
	})
	if err != nil {
		return "", err
	}

	m.session = &Session{
		ID:          uuid.NewString(),
		Links:       links,
		Media:       req.Media,
		Playlist:    req.Playlist,
		Options:     opts,
		Destination: prefs.Destination,
		StartedAt:   m.now(),
		Remaining:   len(links),
		Message:     "Initializing...",
	}
	m.state = AwaitingSpawn

	if err := m.proc.Start(m.session.ID, args); err != nil {
		slog.Error("failed to spawn yt-dlp", slog.String("id", m.session.ID), slog.Any("err", err))
		m.terminate(Failed, UserMessage(err))
		m.publish()
		return "", err
	}

	slog.Info("download started",
		slog.String("id", m.session.ID),
		slog.Any("links", links),
		slog.Bool("playlist", req.Playlist),
	)

	m.publish()
	return m.session.ID, nil
}

func (m *Machine) stop() {
	if m.state.Active() {
		m.kill()
	}

	if m.session != nil {
		slog.Info("download stopped", slog.String("id", m.session.ID))
	}

	m.state = Idle
	m.session = nil
	m.publish()
}

func (m *Machine) receive(out downloaders.Output) {
	if m.session == nil || out.Tag != m.session.ID || !m.state.Active() {
		return
	}

	if out.Stream == downloaders.Exit {
		m.exited(out.Err)
		m.publish()
		return
	}

	slog.Debug("yt-dlp output",
		slog.String("id", out.Tag),
		slog.String("stream", out.Stream.String()),
		slog.String("text", out.Text),
	)

	events, err := progress.Parse(out.Text)
	if err != nil {
		slog.Warn("download failed", slog.String("id", m.session.ID), slog.Any("err", err))
		m.terminate(Failed, UserMessage(err))
		m.publish()
		return
	}

	for _, ev := range events {
		m.apply(ev)
		if !m.state.Active() {
			break
		}
	}

	m.publish()
}

func (m *Machine) apply(ev progress.Event) {
	s := m.session

	switch e := ev.(type) {
	case progress.PreProcessing:
		m.state = Downloading
		s.Message = "Preparing..."
	case progress.PreDownload:
		m.state = Downloading
		s.Message = fmt.Sprintf("Starting %s...", e.VideoID)
	case progress.Downloading:
		m.state = Downloading
		if pct, ok := progress.Percentage(e); ok {
			s.Percentage = &pct
		}
		s.Message = progress.Describe(e)
		if pos := progress.PlaylistPosition(e); pos != "" {
			s.PlaylistPosition = pos
		}
	case progress.PostProcessing:
		m.state = Downloading
		s.Message = "Processing..."
	case progress.EndOfVideo:
		if s.Playlist {
			return
		}
		if s.Remaining > 1 {
			s.Remaining--
			return
		}
		m.terminate(Finished, "Finished!")
	case progress.EndOfPlaylist:
		slog.Info("end of playlist", slog.String("id", s.ID))
		m.terminate(Finished, "Finished playlist!")
	case progress.Error:
		m.terminate(Failed, e.Message)
	}
}

func (m *Machine) exited(err error) {
	if err != nil {
		slog.Warn("yt-dlp exited", slog.String("id", m.session.ID), slog.Any("err", err))
		m.terminate(Failed, fmt.Sprintf("yt-dlp exited: %v", err))
		return
	}
	m.terminate(Finished, "Finished!")
}

// terminate moves the session to a terminal state, releases the process
// and hands a record to the history subscribers.
func (m *Machine) terminate(state State, message string) {
	s := m.session

	m.state = state
	s.Message = message
	s.Percentage = nil
	s.PlaylistPosition = ""

	m.kill()

	outcome := history.OutcomeFinished
	if state == Failed {
		outcome = history.OutcomeFailed
	}

	m.bus.Publish(TopicRecord, history.Record{
		SessionID:   s.ID,
		Time:        m.now(),
		Links:       s.Links,
		Options:     s.Options.Summary(s.Media),
		Destination: s.Destination,
		Outcome:     outcome,
		Message:     message,
	})
}

func (m *Machine) kill() {
	if err := m.proc.Kill(); err != nil {
		slog.Warn("failed to kill yt-dlp", slog.Any("err", err))
	}
}

func (m *Machine) publish() {
	snap := Snapshot{State: m.state}

	if s := m.session; s != nil {
		started := s.StartedAt
		snap.SessionID = s.ID
		snap.Links = s.Links
		snap.Media = s.Media
		snap.Playlist = s.Playlist
		snap.Message = s.Message
		snap.PlaylistPosition = s.PlaylistPosition
		snap.StartedAt = &started
		if s.Percentage != nil {
			pct := *s.Percentage
			snap.Percentage = &pct
		}
	}

	m.current.Store(&snap)
	m.bus.Publish(TopicUpdate, snap)
}

// validLink accepts absolute URLs, hostful or opaque.
func validLink(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return u.Scheme != "" && (u.Host != "" || u.Opaque != "")
}
