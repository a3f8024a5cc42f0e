package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/brogergvhs/nelodl/internal/config"
	"github.com/brogergvhs/nelodl/internal/fetch"
	"github.com/brogergvhs/nelodl/internal/providers/nelo"
	"github.com/brogergvhs/nelodl/internal/ui"
)

// Flags shared by the commands that talk to a site.
var (
	flagURL              string
	flagRange            string
	flagList             string
	flagUserAgent        string
	flagReferer          string
	flagTimeout          time.Duration
	flagCloudflareBypass bool
)

type session struct {
	cfg     *config.Config
	used    string
	log     *ui.Logger
	fetcher *fetch.Fetcher
	scraper *nelo.Scraper
	url     string
}

func newSession(opts config.Options) (*session, error) {
	opts.IgnoreConfig = flagIgnoreConfig
	opts.Debug = flagDebug
	opts.DefaultURL = flagURL
	opts.DefaultRange = flagRange
	opts.DefaultList = flagList
	opts.UserAgent = flagUserAgent
	opts.Referer = flagReferer
	opts.Timeout = flagTimeout

	cfg, used, err := store().LoadMerged(opts)
	if err != nil {
		return nil, err
	}
	if flagCloudflareBypass {
		cfg.CloudflareBypass = true
	}

	log := ui.NewLogger(cfg.Debug)
	log.Debugf("Config: %s", used)

	target := cfg.DefaultURL
	if target == "" {
		target, err = promptURL()
		if err != nil {
			return nil, err
		}
	}
	if _, err := fetch.HostOf(target); err != nil {
		return nil, err
	}

	f := fetch.New(fetch.Options{
		Timeout:          cfg.Timeout,
		Profile:          cfg.Profile(),
		CloudflareBypass: cfg.CloudflareBypass,
		DebugLogger:      log,
	})

	return &session{
		cfg:     cfg,
		used:    used,
		log:     log,
		fetcher: f,
		scraper: nelo.NewScraper(f, log),
		url:     target,
	}, nil
}

func promptURL() (string, error) {
	prompt := promptui.Prompt{
		Label:    "Manga URL",
		Validate: validateURL,
	}

	v, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return "", errors.New("missing --url and no default_url in config")
		}
		return "", err
	}

	return strings.TrimSpace(v), nil
}

func validateURL(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("url cannot be empty")
	}
	if _, err := fetch.HostOf(v); err != nil {
		return fmt.Errorf("not an absolute url: %s", v)
	}

	return nil
}

func addSiteFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&flagURL, "url", "", "manga index page URL")
	fs.StringVar(&flagRange, "range", "", "select chapters by sorted position (e.g. 5-12)")
	fs.StringVar(&flagList, "list", "", "select chapters by sorted position (e.g. 1,3,5)")
	fs.StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
	fs.StringVar(&flagReferer, "referer", "", "override Referer")
	fs.DurationVar(&flagTimeout, "timeout", 0, "per-request timeout (0 = none)")
	fs.BoolVar(&flagCloudflareBypass, "cloudflare-bypass", false, "mimic a browser TLS handshake")
}
