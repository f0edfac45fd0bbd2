// a stupid package name...
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/ytdlp-gui/ytdlp-gui/server/config"
	"github.com/ytdlp-gui/ytdlp-gui/server/internal/downloaders"
	"github.com/ytdlp-gui/ytdlp-gui/server/internal/history"
	"github.com/ytdlp-gui/ytdlp-gui/server/internal/session"
	"github.com/ytdlp-gui/ytdlp-gui/server/rest"
	ytdlpRPC "github.com/ytdlp-gui/ytdlp-gui/server/rpc"
	"github.com/ytdlp-gui/ytdlp-gui/server/user"
	"golang.org/x/sync/errgroup"

	bolt "go.etcd.io/bbolt"
)

const (
	outputBuffer    = 64
	shutdownTimeout = 5 * time.Second
)

type serverConfig struct {
	frontend fs.FS
	machine  *session.Machine
	archive  *history.Archive
	hub      *ytdlpRPC.Hub
}

// Run wires the supervisor, the state machine and the web surface, then
// serves until ctx is done. The configuration is written back on the way out.
func Run(ctx context.Context) error {
	conf := config.Instance()

	logs, err := setupLogging(conf.Logging)
	if err != nil {
		return err
	}
	defer logs.Close()

	if conf.Authentication.RequireAuth && conf.Authentication.Secret == "" {
		slog.Warn("no jwt secret configured, sessions will not survive a restart")
		conf.Authentication.Secret = uuid.NewString()
	}

	if err := os.MkdirAll(conf.Paths.LocalDatabasePath, 0o755); err != nil {
		return err
	}

	dbPath := filepath.Join(conf.Paths.LocalDatabasePath, "bolt.db")

	boltdb, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	defer boltdb.Close()

	archive, err := history.NewArchive(boltdb)
	if err != nil {
		return err
	}

	bus := evbus.New()

	recorder := history.NewRecorder(history.NewFileLog(conf.Paths.HistoryLog), archive)
	if err := recorder.Subscribe(bus, session.TopicRecord); err != nil {
		return err
	}

	hub := ytdlpRPC.NewHub()
	if err := bus.Subscribe(session.TopicUpdate, hub.Broadcast); err != nil {
		return err
	}

	supervisor := downloaders.NewSupervisor(conf.Paths.DownloaderPath, outputBuffer)

	machine := session.New(supervisor, supervisor.Output(), bus, func() session.Preferences {
		opts, dest := conf.Preferences()
		return session.Preferences{Options: opts, Destination: dest}
	})

	var frontend fs.FS
	if fp := conf.Frontend.FrontendPath; fp != "" {
		frontend = os.DirFS(fp)
	}

	srv := newServer(serverConfig{
		frontend: frontend,
		machine:  machine,
		archive:  archive,
		hub:      hub,
	})

	var (
		network = "tcp"
		address = fmt.Sprintf("%s:%d", conf.Server.Host, conf.Server.Port)
	)

	// support unix sockets
	if strings.HasPrefix(conf.Server.Host, "/") {
		network = "unix"
		address = conf.Server.Host
	}

	listener, err := net.Listen(network, address)
	if err != nil {
		slog.Error("failed to listen", slog.String("err", err.Error()))
		return err
	}

	slog.Info("ytdlp-gui started",
		slog.String("address", address),
		slog.String("downloader", conf.Paths.DownloaderPath),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return machine.Run(gctx)
	})

	g.Go(func() error {
		if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(sctx)
	})

	err = g.Wait()

	// pending history records
	bus.WaitAsync()

	if conf.Path() != "" {
		if serr := conf.Save(); serr != nil {
			slog.Warn("failed to save config", slog.String("path", conf.Path()), slog.Any("err", serr))
		}
	}

	return err
}

func newServer(c serverConfig) *http.Server {
	r := chi.NewRouter()

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	r.Use(corsMiddleware.Handler)

	// Authentication routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", user.Login)
		r.Get("/logout", user.Logout)
	})

	// RPC handlers
	r.Route("/rpc", ytdlpRPC.ApplyRouter(ytdlpRPC.Container(c.machine), c.hub))

	// REST API handlers
	r.Route("/api/v1", rest.ApplyRouter(&rest.ContainerArgs{
		Machine: c.machine,
		Archive: c.archive,
		Config:  config.Instance(),
	}))

	if c.frontend != nil {
		baseUrl := config.Instance().Server.BaseURL
		r.Mount(baseUrl+"/", http.StripPrefix(baseUrl, http.FileServer(http.FS(c.frontend))))
	}

	return &http.Server{Handler: r}
}
