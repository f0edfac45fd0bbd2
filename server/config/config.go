package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ytdlp-gui/ytdlp-gui/server/internal/options"
)

const appName = "ytdlp-gui"

type Config struct {
	Server         ServerConfig    `yaml:"server" mapstructure:"server"`
	Logging        LoggingConfig   `yaml:"logging" mapstructure:"logging"`
	Paths          PathsConfig     `yaml:"paths" mapstructure:"paths"`
	Authentication AuthConfig      `yaml:"authentication" mapstructure:"authentication"`
	Options        options.Options `yaml:"options" mapstructure:"options"`
	Window         WindowConfig    `yaml:"window" mapstructure:"window"`
	Frontend       FrontendConfig  `yaml:"frontend" mapstructure:"frontend"`

	path string
	mu   sync.RWMutex
}

type ServerConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Host    string `yaml:"host" mapstructure:"host"`
	Port    int    `yaml:"port" mapstructure:"port"`
}

type LoggingConfig struct {
	LogPath           string `yaml:"log_path" mapstructure:"log_path"`
	EnableFileLogging bool   `yaml:"enable_file_logging" mapstructure:"enable_file_logging"`
	Level             string `yaml:"level" mapstructure:"level"`
}

type PathsConfig struct {
	DownloadPath      string `yaml:"download_path" mapstructure:"download_path"`
	DownloaderPath    string `yaml:"downloader_path" mapstructure:"downloader_path"`
	LocalDatabasePath string `yaml:"local_database_path" mapstructure:"local_database_path"`
	HistoryLog        string `yaml:"history_log" mapstructure:"history_log"`
}

type AuthConfig struct {
	RequireAuth  bool   `yaml:"require_auth" mapstructure:"require_auth"`
	Username     string `yaml:"username" mapstructure:"username"`
	// bcrypt hash of the login password
	PasswordHash string `yaml:"password_hash" mapstructure:"password_hash"`
	Secret       string `yaml:"secret" mapstructure:"secret"`
}

type WindowConfig struct {
	X      int `yaml:"x" mapstructure:"x" json:"x"`
	Y      int `yaml:"y" mapstructure:"y" json:"y"`
	Width  int `yaml:"width" mapstructure:"width" json:"width"`
	Height int `yaml:"height" mapstructure:"height" json:"height"`
}

type FrontendConfig struct {
	FrontendPath string `yaml:"frontend_path" mapstructure:"frontend_path"`
}

var (
	instance     *Config
	instanceOnce sync.Once
)

func Instance() *Config {
	if instance == nil {
		instanceOnce.Do(func() {
			instance = &Config{}
		})
	}
	return instance
}

// DefaultDir is the per-user directory holding the config file, the bolt
// database and the download log.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, appName)
}

// Path of the directory containing the config file
func (c *Config) Dir() string { return filepath.Dir(c.path) }

// Absolute path of the config file
func (c *Config) Path() string { return c.path }

// Preferences returns the media options and the download directory used
// for the next session.
func (c *Config) Preferences() (options.Options, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Options, c.Paths.DownloadPath
}

func (c *Config) SetOptions(o options.Options) error {
	if err := o.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	c.Options = o
	c.mu.Unlock()

	return nil
}

func (c *Config) SetDownloadPath(p string) {
	c.mu.Lock()
	c.Paths.DownloadPath = p
	c.mu.Unlock()
}

func (c *Config) GetWindow() WindowConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Window
}

func (c *Config) SetWindow(w WindowConfig) {
	c.mu.Lock()
	c.Window = w
	c.mu.Unlock()
}
