package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/ytdlp-gui/ytdlp-gui/server/internal/options"
	"gopkg.in/yaml.v3"
)

func setDefaults(v *viper.Viper) {
	dir := DefaultDir()
	opts := options.Default()

	downloads := "."
	if home, err := os.UserHomeDir(); err == nil {
		downloads = filepath.Join(home, "Downloads")
	}

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 3033)
	v.SetDefault("server.base_url", "")
	v.SetDefault("logging.log_path", filepath.Join(dir, appName+".log"))
	v.SetDefault("logging.enable_file_logging", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("paths.download_path", downloads)
	v.SetDefault("paths.downloader_path", "yt-dlp")
	v.SetDefault("paths.local_database_path", dir)
	v.SetDefault("paths.history_log", filepath.Join(dir, "downloads.log"))
	v.SetDefault("authentication.require_auth", false)
	v.SetDefault("options.video_resolution", string(opts.VideoResolution))
	v.SetDefault("options.video_format", string(opts.VideoFormat))
	v.SetDefault("options.audio_quality", string(opts.AudioQuality))
	v.SetDefault("options.audio_format", string(opts.AudioFormat))
	v.SetDefault("options.sponsorblock", "")
	v.SetDefault("options.cookies_file", "")
	v.SetDefault("window.width", 800)
	v.SetDefault("window.height", 600)
}

// Load fills c from defaults, the YAML file at path and APP_ prefixed
// environment variables. On any error c still holds a usable configuration
// and the error is only meant to be logged.
func Load(path string, c *Config) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	c.path = path

	readErr := v.ReadInConfig()
	if readErr != nil {
		readErr = fmt.Errorf("reading %s: %w", path, readErr)
	}

	if err := v.Unmarshal(c); err != nil {
		c.reset()
		return errors.Join(readErr, fmt.Errorf("decoding %s: %w", path, err), loadDefaults(c))
	}

	if err := c.Options.Validate(); err != nil {
		c.Options = options.Default()
		return errors.Join(readErr, err)
	}

	return readErr
}

func (c *Config) reset() {
	c.Server = ServerConfig{}
	c.Logging = LoggingConfig{}
	c.Paths = PathsConfig{}
	c.Authentication = AuthConfig{}
	c.Options = options.Options{}
	c.Window = WindowConfig{}
	c.Frontend = FrontendConfig{}
}

func loadDefaults(c *Config) error {
	v := viper.New()
	setDefaults(v)
	return v.Unmarshal(c)
}

// Save writes the configuration back to its file atomically.
func (c *Config) Save() error {
	c.mu.RLock()
	data, err := yaml.Marshal(c)
	c.mu.RUnlock()

	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.Dir(), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.Dir(), ".config-*.yml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), c.path)
}
