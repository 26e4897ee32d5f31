package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ConfigPathEnv overrides the directory searched for .notebox.yaml.
const ConfigPathEnv = "NOTEBOX_CONFIG_PATH"

// Config locates the notebox data on disk.
type Config interface {
	BasePath() string
	DatabasePath() string
}

// Settings is the full notebox configuration.
type Settings struct {
	Path     string         `yaml:"path" mapstructure:"path"`
	Database string         `yaml:"database" mapstructure:"database"`
	Log      LogSettings    `yaml:"log" mapstructure:"log"`
	Search   SearchSettings `yaml:"search" mapstructure:"search"`
	Export   ExportSettings `yaml:"export" mapstructure:"export"`
	Code     CodeSettings   `yaml:"code" mapstructure:"code"`
}

type LogSettings struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file" mapstructure:"file"`
}

// SearchSettings configures the remote search providers.
type SearchSettings struct {
	Queue     int           `yaml:"queue" mapstructure:"queue"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent string        `yaml:"user_agent" mapstructure:"user_agent"`
	CratesURL string        `yaml:"crates_url" mapstructure:"crates_url"`
	CheatURL  string        `yaml:"cheat_url" mapstructure:"cheat_url"`
}

type ExportSettings struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// CodeSettings configures the snippet store. An empty Formatter disables
// formatting of Rust snippets.
type CodeSettings struct {
	Formatter string `yaml:"formatter" mapstructure:"formatter"`
}

var _ Config = (*Settings)(nil)

// DefaultSettings returns the built-in configuration.
func DefaultSettings() *Settings {
	return &Settings{
		Path: "~/.config/notebox",
		Log: LogSettings{
			Level: "info",
		},
		Search: SearchSettings{
			Queue:     8,
			Timeout:   15 * time.Second,
			UserAgent: "notebox",
			CratesURL: "https://crates.io",
			CheatURL:  "https://cheat.sh",
		},
		Export: ExportSettings{
			Dir: "~",
		},
		Code: CodeSettings{
			Formatter: "rustfmt",
		},
	}
}

// BasePath is the directory holding the database, code and log files.
func (s *Settings) BasePath() string {
	return s.Path
}

// DatabasePath defaults to notebox.db inside BasePath.
func (s *Settings) DatabasePath() string {
	if s.Database != "" {
		return s.Database
	}
	return filepath.Join(s.Path, "notebox.db")
}

// LogPath defaults to notebox.log inside BasePath.
func (s *Settings) LogPath() string {
	if s.Log.File != "" {
		return s.Log.File
	}
	return filepath.Join(s.Path, "notebox.log")
}

// Validate checks the settings.
func (s *Settings) Validate() error {
	if err := validation.ValidateStruct(s,
		validation.Field(&s.Path, validation.Required),
	); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&s.Log,
		validation.Field(&s.Log.Level, validation.In("debug", "info", "warn", "error", "disabled")),
	); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := validation.ValidateStruct(&s.Search,
		validation.Field(&s.Search.Queue, validation.Required, validation.Min(1), validation.Max(1024)),
		validation.Field(&s.Search.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&s.Search.CratesURL, validation.Required),
		validation.Field(&s.Search.CheatURL, validation.Required),
	); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return nil
}

func (s *Settings) expand() error {
	for _, p := range []*string{&s.Path, &s.Database, &s.Log.File, &s.Export.Dir} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// WriteYAML writes the settings as a .notebox.yaml document.
func (s *Settings) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("store: encode config: %w", err)
	}
	return enc.Close()
}

// LoadConfig reads .notebox.yaml from $NOTEBOX_CONFIG_PATH, the working
// directory or $HOME, applies NOTEBOX_* environment overrides and validates
// the result.
func LoadConfig() (*Settings, error) {
	return loadConfig(viper.New())
}

func loadConfig(v *viper.Viper) (*Settings, error) {
	defaults := DefaultSettings()
	v.SetDefault("path", defaults.Path)
	v.SetDefault("database", defaults.Database)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("search.queue", defaults.Search.Queue)
	v.SetDefault("search.timeout", defaults.Search.Timeout)
	v.SetDefault("search.user_agent", defaults.Search.UserAgent)
	v.SetDefault("search.crates_url", defaults.Search.CratesURL)
	v.SetDefault("search.cheat_url", defaults.Search.CheatURL)
	v.SetDefault("export.dir", defaults.Export.Dir)
	v.SetDefault("code.formatter", defaults.Code.Formatter)

	v.SetConfigName(".notebox") // .yaml is implicit
	v.SetEnvPrefix("NOTEBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv(ConfigPathEnv); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("store: decode config: %w", err)
	}
	if err := s.expand(); err != nil {
		return nil, fmt.Errorf("store: expand paths: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("store: invalid config: %w", err)
	}
	return s, nil
}

// ConfigFileUsed reports which config file LoadConfig would read, or "".
func ConfigFileUsed() string {
	v := viper.New()
	v.SetConfigName(".notebox")
	if override := os.Getenv(ConfigPathEnv); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME")
	if err := v.ReadInConfig(); err != nil {
		return ""
	}
	return v.ConfigFileUsed()
}
