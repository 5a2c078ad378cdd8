package root

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/drewfead/ts-archive/internal"
	"github.com/drewfead/ts-archive/internal/document"
	"github.com/drewfead/ts-archive/internal/extract"
	"github.com/drewfead/ts-archive/internal/httputil"
	"github.com/drewfead/ts-archive/internal/scraper"
	"github.com/urfave/cli/v3"
)

const envPrefix = "TS_ARCHIVE_"

// RootOption configures the root command (e.g. for tests).
type RootOption func(*rootConfig)

type rootConfig struct {
	httpClient *http.Client
	registry   scraper.Registry
	stdout     io.Writer
	stderr     io.Writer
	now        func() time.Time
}

// WithHTTPClient sets the client whose transport carries all requests. Use in tests to point
// the command at a golden HTTP server.
func WithHTTPClient(client *http.Client) RootOption {
	return func(c *rootConfig) {
		c.httpClient = client
	}
}

// WithRegistry sets the field registry the --field flag selects from.
func WithRegistry(registry scraper.Registry) RootOption {
	return func(c *rootConfig) {
		c.registry = registry
	}
}

// WithOutput redirects results (stdout) and logs (stderr).
func WithOutput(stdout, stderr io.Writer) RootOption {
	return func(c *rootConfig) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// WithClock replaces time.Now for the default --date.
func WithClock(now func() time.Time) RootOption {
	return func(c *rootConfig) {
		c.now = now
	}
}

func envVars(name string) cli.ValueSourceChain {
	return cli.EnvVars(envPrefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_")))
}

func Root(_ context.Context, opts ...RootOption) (*cli.Command, error) {
	cfg := &rootConfig{
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.registry == nil {
		cfg.registry = scraper.DefaultRegistry()
	}

	rootCmd := &cli.Command{
		Name:      "ts-archive",
		Usage:     "list the shows of the tagesschau.de video archive for one day",
		Writer:    cfg.stdout,
		ErrWriter: cfg.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "date",
				Usage:   "archive day as YYYY-MM-DD (default: today in Europe/Berlin)",
				Sources: envVars("date"),
			},
			&cli.StringSliceFlag{
				Name:    "field",
				Aliases: []string{"f"},
				Usage:   fmt.Sprintf("field to extract, repeatable (available: %s); %s is always extracted", strings.Join(cfg.registry.Names(), ", "), scraper.FieldAirDate),
				Value:   []string{scraper.FieldVideoURL, scraper.FieldSubtitleURL, scraper.FieldTopics},
				Sources: envVars("field"),
			},
			&cli.StringFlag{
				Name:    "show",
				Usage:   "display name of the show in the archive listing",
				Value:   scraper.DefaultShowName,
				Sources: envVars("show"),
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "site to read the archive from",
				Value:   document.DefaultBaseURL,
				Sources: envVars("base-url"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output format: text, json or yaml",
				Value:   string(formatText),
				Sources: envVars("output"),
			},
			&cli.StringFlag{
				Name:    "user-agent",
				Usage:   "User-Agent header sent with every request",
				Value:   httputil.DefaultUserAgent,
				Sources: envVars("user-agent"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				Value:   "info",
				Sources: envVars("log-level"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd, cfg)
		},
	}
	return rootCmd, nil
}

func run(ctx context.Context, cmd *cli.Command, cfg *rootConfig) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cfg.stderr, &slog.HandlerOptions{Level: level})))

	format, err := parseFormat(cmd.String("output"))
	if err != nil {
		return err
	}
	airDate, err := parseAirDate(cmd.String("date"), cfg.now)
	if err != nil {
		return err
	}

	var base http.RoundTripper
	if cfg.httpClient != nil {
		base = cfg.httpClient.Transport
	}
	var audit requestAudit
	client := httputil.NewClient(base, cmd.String("user-agent"), audit.record)
	defer audit.log()

	s := scraper.Tagesschau(
		scraper.WithBaseURL(cmd.String("base-url")),
		scraper.WithClient(client),
		scraper.WithShowName(cmd.String("show")),
		scraper.WithRegistry(cfg.registry),
	)
	slog.Debug("scrape-shows", "descriptor", s.Descriptor(), "air_date", airDate.Format(time.DateOnly))
	results, err := s.ScrapeShows(ctx, internal.ScrapeShowsRequest{
		AirDate: airDate,
		Fields:  cmd.StringSlice("field"),
	})
	if err != nil {
		return fmt.Errorf("failed to scrape shows: %w", err)
	}
	return format.write(cfg.stdout, results)
}

// requestAudit counts the requests of one run.
type requestAudit struct {
	requests int
	failed   int
}

func (a *requestAudit) record(url string, status int) {
	a.requests++
	if status < 200 || status >= 300 {
		a.failed++
		slog.Warn("unexpected http status", "url", url, "status", status)
	}
}

func (a *requestAudit) log() {
	slog.Info("http requests", "total", a.requests, "failed", a.failed)
}

func parseAirDate(value string, now func() time.Time) (time.Time, error) {
	if value == "" {
		return now().In(extract.Berlin()), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, value, extract.Berlin())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date (expected YYYY-MM-DD): %w", err)
	}
	return t, nil
}
