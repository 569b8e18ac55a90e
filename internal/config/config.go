package config

import (
	"errors"
	"fmt"
	"github.com/BurntSushi/toml"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	DefaultBaseURL = "http://10.11.99.1"
	appConfDir     = ".rmshelf"
	appConfFile    = "config.toml"
)

var (
	ErrNoConfig = errors.New("config must be loaded")
)

// Duration is a time.Duration that reads and writes as "100ms", "2s", etc. in TOML.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}

type APIConfig struct {
	BaseURL string `toml:"base_url"`
	// zero means no timeout, requests may block until the device answers
	RequestTimeout Duration `toml:"request_timeout"`
}

type UIConfig struct {
	TickInterval    Duration `toml:"tick_interval"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	ChannelCapacity int      `toml:"channel_capacity"`
}

type UploadConfig struct {
	// list the current folder before uploading, the device stores uploads
	// in the folder it listed last
	Preflight bool `toml:"preflight"`
}

type LogConfig struct {
	File  string `toml:"file"`
	Debug bool   `toml:"debug"`
}

type Config struct {
	API    APIConfig    `toml:"api"`
	UI     UIConfig     `toml:"ui"`
	Upload UploadConfig `toml:"upload"`
	Log    LogConfig    `toml:"log"`
}

var (
	mu     sync.Mutex
	config *Config
)

// Get returns the lastest loaded/saved user's config,
// if it returns ErrNoConfig, Load OR Save must be called.
func Get() (Config, error) {
	mu.Lock()
	defer mu.Unlock()
	if config != nil {
		return *config, nil
	}
	return Config{}, ErrNoConfig
}

// Load loads the configuration from the user's config file.
// if not exists, it creates a new config file with default values.
// Missing or zero fields in an existing file fall back to their defaults.
func Load() (Config, error) {
	f, err := getUserConfigFile()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f, err = createConfigFile()
			if err != nil {
				return Config{}, fmt.Errorf("config file not exists, creating config file: %w", err)
			}
			defer f.Close()

			cfg := Default()
			if err = writeConfig(f, cfg); err != nil {
				return Config{}, fmt.Errorf("writing default config to app config file: %w", err)
			}
			set(cfg)
			return cfg, nil
		} else {
			return Config{}, fmt.Errorf("opening config file: %w", err)
		}
	}
	defer f.Close()

	cfg, err := readConfig(f)
	if err != nil {
		return Config{}, err
	}
	cfg = cfg.withDefaults()
	set(cfg)
	return cfg, nil
}

// Save saves the configuration to the user's config file.
func Save(c Config) error {
	f, err := createConfigFile()
	if err != nil {
		return fmt.Errorf("creating/truncating config file: %w", err)
	}
	defer f.Close()
	if err = writeConfig(f, c); err != nil {
		return fmt.Errorf("writing new config to file: %w", err)
	}
	set(c)
	return nil
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
		},
		UI: UIConfig{
			TickInterval:    Duration(100 * time.Millisecond),
			ShutdownTimeout: Duration(2 * time.Second),
			ChannelCapacity: 10,
		},
		Upload: UploadConfig{
			Preflight: true,
		},
		Log: LogConfig{
			File: "rmshelf.log",
		},
	}
}

func (c Config) withDefaults() Config {
	d := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.UI.TickInterval <= 0 {
		c.UI.TickInterval = d.UI.TickInterval
	}
	if c.UI.ShutdownTimeout <= 0 {
		c.UI.ShutdownTimeout = d.UI.ShutdownTimeout
	}
	if c.UI.ChannelCapacity <= 0 {
		c.UI.ChannelCapacity = d.UI.ChannelCapacity
	}
	if c.Log.File == "" {
		c.Log.File = d.Log.File
	}
	return c
}

func set(c Config) {
	mu.Lock()
	defer mu.Unlock()
	config = &c
}

// userDir resolves name under os.UserConfigDir and makes sure it exists.
func userDir(name string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("looking up user config directory: %w", err)
	}
	d := filepath.Join(base, name)
	if err = os.MkdirAll(d, 0o750); err != nil {
		return "", fmt.Errorf("creating config directory %q: %w", d, err)
	}
	return d, nil
}

func getUserConfigFile() (*os.File, error) {
	cfgPath, err := GetDir()
	if err != nil {
		return nil, err
	}
	cfgPath = filepath.Join(cfgPath, appConfFile)
	var f *os.File
	if f, err = os.Open(cfgPath); err != nil {
		return nil, fmt.Errorf("opening app config file: %w", err)
	}
	return f, nil
}

func createConfigFile() (*os.File, error) {
	cfgPath, err := GetDir()
	if err != nil {
		return nil, err
	}
	cfgPath = filepath.Join(cfgPath, appConfFile)
	f, err := os.Create(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("creating app config file: %w", err)
	}
	return f, nil
}

// readConfig decodes on top of the defaults, keys absent from the file keep their default value
func readConfig(r io.Reader) (Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config file: %w", err)
	}
	return cfg, nil
}

func writeConfig(w io.Writer, c Config) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encoding config file: %w", err)
	}
	return nil
}
