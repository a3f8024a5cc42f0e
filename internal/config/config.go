package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brogergvhs/nelodl/internal/document"
	"github.com/brogergvhs/nelodl/internal/downloader"
	"github.com/brogergvhs/nelodl/internal/fetch"
)

type Config struct {
	Output        string        `yaml:"output"`
	Format        string        `yaml:"format"`
	ImageWorkers  int           `yaml:"image_workers"`
	JPEGQuality   int           `yaml:"jpeg_quality"`
	Timeout       time.Duration `yaml:"timeout"`
	KeepWorkspace bool          `yaml:"keep_workspace"`
	Debug         bool          `yaml:"debug"`

	DefaultURL   string `yaml:"default_url"`
	DefaultRange string `yaml:"default_range"`
	DefaultList  string `yaml:"default_list"`

	UserAgent        string `yaml:"user_agent"`
	Referer          string `yaml:"referer"`
	AcceptLanguage   string `yaml:"accept_language"`
	CloudflareBypass bool   `yaml:"cloudflare_bypass"`
}

// Options carries CLI flag values; zero values leave the profile untouched.
type Options struct {
	IgnoreConfig  bool
	Debug         bool
	Output        string
	Format        string
	ImageWorkers  int
	JPEGQuality   int
	Timeout       time.Duration
	KeepWorkspace bool
	DefaultURL    string
	DefaultRange  string
	DefaultList   string
	UserAgent     string
	Referer       string
}

func DefaultConfig() *Config {
	return &Config{
		Output:         ".",
		Format:         document.FormatPDF,
		ImageWorkers:   0,
		JPEGQuality:    downloader.DefaultJPEGQuality,
		UserAgent:      fetch.DefaultUserAgent,
		Referer:        fetch.DefaultReferer,
		AcceptLanguage: fetch.DefaultAcceptLanguage,
	}
}

func (c *Config) Profile() fetch.Profile {
	return fetch.Profile{
		UserAgent:      c.UserAgent,
		Referer:        c.Referer,
		AcceptLanguage: c.AcceptLanguage,
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func LoadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return c, nil
}

// LoadMerged resolves the effective config: defaults, then the active profile
// of s (unless ignored), then CLI options. The returned string describes
// where the profile came from.
func (s *Store) LoadMerged(opts Options) (*Config, string, error) {
	var (
		cfg  *Config
		used string
	)

	switch path, err := s.ActivePath(); {
	case opts.IgnoreConfig:
		cfg, used = DefaultConfig(), "(ignored config)"
	case errors.Is(err, ErrNoConfig):
		cfg, used = DefaultConfig(), "(default config in memory, run `nelodl config init` to create one)"
	case err != nil:
		return nil, "", err
	default:
		cfg, err = LoadYAML(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config %s: %w", path, err)
		}
		used = path
	}

	mergeOptions(cfg, opts)
	if err := normalize(cfg); err != nil {
		return nil, "", err
	}

	return cfg, used, nil
}

func mergeOptions(c *Config, o Options) {
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.Format != "" {
		c.Format = o.Format
	}
	if o.ImageWorkers != 0 {
		c.ImageWorkers = o.ImageWorkers
	}
	if o.JPEGQuality != 0 {
		c.JPEGQuality = o.JPEGQuality
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout
	}
	if o.KeepWorkspace {
		c.KeepWorkspace = true
	}
	if o.Debug {
		c.Debug = true
	}
	if o.DefaultURL != "" {
		c.DefaultURL = o.DefaultURL
	}
	if o.DefaultRange != "" {
		c.DefaultRange = o.DefaultRange
	}
	if o.DefaultList != "" {
		c.DefaultList = o.DefaultList
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.Referer != "" {
		c.Referer = o.Referer
	}
}

func normalize(c *Config) error {
	if c.Output == "" {
		c.Output = "."
	}

	format, err := document.NormalizeFormat(c.Format)
	if err != nil {
		return err
	}
	c.Format = format

	if c.ImageWorkers < 0 {
		return fmt.Errorf("image_workers must be >= 0, got %d", c.ImageWorkers)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		c.JPEGQuality = downloader.DefaultJPEGQuality
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %s", c.Timeout)
	}

	return nil
}

func (c *Config) Print(w io.Writer) {
	_, _ = fmt.Fprintf(w, " -output: %s\n", c.Output)
	_, _ = fmt.Fprintf(w, " -format: %s\n", c.Format)
	if c.ImageWorkers > 0 {
		_, _ = fmt.Fprintf(w, " -image_workers: %d\n", c.ImageWorkers)
	} else {
		_, _ = fmt.Fprintln(w, " -image_workers: one per page")
	}
	_, _ = fmt.Fprintf(w, " -jpeg_quality: %d\n", c.JPEGQuality)
	if c.Timeout > 0 {
		_, _ = fmt.Fprintf(w, " -timeout: %s\n", c.Timeout)
	}
	if c.KeepWorkspace {
		_, _ = fmt.Fprintf(w, " -keep_workspace: %t\n", c.KeepWorkspace)
	}
	if c.Debug {
		_, _ = fmt.Fprintf(w, " -debug: %t\n", c.Debug)
	}
	if c.DefaultURL != "" {
		_, _ = fmt.Fprintf(w, " -url: %s\n", c.DefaultURL)
	}
	if c.DefaultRange != "" {
		_, _ = fmt.Fprintf(w, " -range: %s\n", c.DefaultRange)
	}
	if c.DefaultList != "" {
		_, _ = fmt.Fprintf(w, " -list: %s\n", c.DefaultList)
	}
	if c.Referer != "" {
		_, _ = fmt.Fprintf(w, " -referer: %s\n", c.Referer)
	}
	if c.CloudflareBypass {
		_, _ = fmt.Fprintf(w, " -cloudflare_bypass: %t\n", c.CloudflareBypass)
	}
}
