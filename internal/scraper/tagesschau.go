package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/drewfead/ts-archive/internal"
	"github.com/drewfead/ts-archive/internal/document"
	"github.com/drewfead/ts-archive/internal/extract"
	"github.com/google/uuid"
)

const DefaultShowName = "tagesschau"

// defaultFields is what a request naming no fields gets, besides the mandatory air date.
var defaultFields = []string{FieldSubtitleURL}

type tagesschauScraper struct {
	baseURL       string
	showName      string
	uuidNamespace uuid.UUID
	httpClient    *http.Client
	registry      Registry
}

// Option applies configuration to a tagesschau archive scraper.
type Option func(*tagesschauScraper)

// WithBaseURL sets the base URL for the scraper (e.g. httptest.Server.URL in tests).
func WithBaseURL(baseURL string) Option {
	return func(s *tagesschauScraper) {
		if baseURL != "" {
			s.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithClient sets the HTTP client for the scraper (e.g. httptest.Server.Client() in tests).
func WithClient(client *http.Client) Option {
	return func(s *tagesschauScraper) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithShowName selects the show by its display name in the archive listing (e.g. "tagesthemen").
func WithShowName(name string) Option {
	return func(s *tagesschauScraper) {
		if name != "" {
			s.showName = name
		}
	}
}

// WithRegistry replaces the built-in field registry.
func WithRegistry(registry Registry) Option {
	return func(s *tagesschauScraper) {
		if registry != nil {
			s.registry = registry
		}
	}
}

func Tagesschau(opts ...Option) internal.Scraper {
	s := &tagesschauScraper{
		baseURL:    document.DefaultBaseURL,
		showName:   DefaultShowName,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = DefaultRegistry()
	}
	s.uuidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(s.baseURL))
	return s
}

func (s *tagesschauScraper) Descriptor() string {
	return s.showName
}

func (s *tagesschauScraper) documentOptions() []document.Option {
	return []document.Option{
		document.WithBaseURL(s.baseURL),
		document.WithClient(s.httpClient),
	}
}

// ScrapeShows lists the shows archived for req.AirDate and runs the requested extractors on each.
// The air date extractor always runs because archive entries are sometimes filed under the
// wrong day.
func (s *tagesschauScraper) ScrapeShows(
	ctx context.Context,
	req internal.ScrapeShowsRequest,
) ([]internal.ShowResult, error) {
	extractors, err := s.extractorsFor(req.Fields)
	if err != nil {
		return nil, err
	}

	archive := NewArchive(s.baseURL, req.AirDate, s.documentOptions()...)
	if err := archive.Verify(ctx); err != nil {
		return nil, err
	}
	shows, err := archive.Shows(ctx, s.showName)
	if err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}
	slog.Debug("tagesschau: archive listing", "url", archive.URL(), "show", s.showName, "shows", len(shows))

	results := make([]internal.ShowResult, 0, len(shows))
	var absent int
	for _, show := range shows {
		result, err := s.scrapeShow(ctx, show, extractors)
		if err != nil {
			return nil, err
		}
		for _, v := range result.Fields {
			if v.Absent {
				absent++
			}
		}
		results = append(results, result)
	}
	slog.Info("tagesschau: scraped archive",
		"air_date", req.AirDate.Format(time.DateOnly),
		"show", s.showName,
		"shows", len(results),
		"absent_fields", absent,
	)
	return results, nil
}

// extractorsFor builds a fresh extractor set for one call.
func (s *tagesschauScraper) extractorsFor(fields []string) (map[string]FieldExtractor, error) {
	if len(fields) == 0 {
		fields = defaultFields
	}
	names := append(slices.Clone(fields), FieldAirDate)
	extractors := make(map[string]FieldExtractor, len(names))
	for _, name := range names {
		extractor, err := s.registry.GetExtractor(name)
		if err != nil {
			return nil, err
		}
		extractors[name] = extractor
	}
	return extractors, nil
}

func (s *tagesschauScraper) scrapeShow(
	ctx context.Context,
	show *Show,
	extractors map[string]FieldExtractor,
) (internal.ShowResult, error) {
	fields := make(map[string]internal.FieldValue, len(extractors))
	for _, name := range slices.Sorted(maps.Keys(extractors)) {
		v, err := extractors[name](ctx, show)
		switch {
		case err == nil:
			fields[name] = internal.Present(v)
		case errors.Is(err, extract.ErrAbsent):
			slog.Debug("tagesschau: field absent", "show", show.URL(), "field", name, "reason", err)
			fields[name] = internal.Absent()
		default:
			return internal.ShowResult{}, fmt.Errorf("%s: %s: %w", show.URL(), name, err)
		}
	}
	return internal.ShowResult{
		ID:     uuid.NewSHA1(s.uuidNamespace, []byte(show.URL())).String(),
		URL:    show.URL(),
		Fields: fields,
	}, nil
}

// PullGolden saves the archive page for airDate, every listed show page and every media
// metadata document under goldenDir, laid out by URL path.
func (s *tagesschauScraper) PullGolden(ctx context.Context, goldenDir string, airDate time.Time) error {
	files := make(map[string][]byte)
	keep := func(d *document.Document) error {
		body, err := d.Raw(ctx)
		if err != nil {
			return err
		}
		u, err := url.Parse(d.URL())
		if err != nil {
			return fmt.Errorf("parse %s: %w", d.URL(), err)
		}
		files[u.Path] = body
		return nil
	}

	archive := NewArchive(s.baseURL, airDate, s.documentOptions()...)
	if err := keep(archive.page); err != nil {
		return fmt.Errorf("failed to fetch golden archive: %w", err)
	}
	shows, err := archive.Shows(ctx, s.showName)
	if err != nil {
		return fmt.Errorf("failed to list golden shows: %w", err)
	}
	for _, show := range shows {
		if err := keep(show.page); err != nil {
			return fmt.Errorf("failed to fetch golden show: %w", err)
		}
		video, err := show.VideoURL(ctx)
		if errors.Is(err, extract.ErrAbsent) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to locate golden video: %w", err)
		}
		metadata := document.New(extract.MediaMetadataURL(video.URL()), s.documentOptions()...)
		if err := keep(metadata); err != nil {
			return fmt.Errorf("failed to fetch golden media metadata: %w", err)
		}
	}
	return writeGoldenFiles(goldenDir, files)
}

// MountGolden serves goldenDir by URL path. Archive requests for dates without a golden file
// are answered with the oldest golden archive, the way the live site forwards dates it no
// longer keeps.
func (s *tagesschauScraper) MountGolden(_ context.Context, goldenDir string) (http.Handler, error) {
	archives, err := filepath.Glob(filepath.Join(goldenDir, filepath.FromSlash(path.Dir(archivePathFormat)), "videoarchiv2~_date-*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to list golden archives: %w", err)
	}
	if len(archives) == 0 {
		return nil, fmt.Errorf("no golden archives in %s", goldenDir)
	}
	slices.Sort(archives)
	oldestArchive := archives[0]

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		file := filepath.Join(goldenDir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		body, err := os.ReadFile(file)
		if errors.Is(err, os.ErrNotExist) && isArchivePath(r.URL.Path) {
			file = oldestArchive
			body, err = os.ReadFile(file)
		}
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("not found"))
			return
		}
		w.Header().Set("Content-Type", goldenContentType(file))
		_, _ = w.Write(body)
	}), nil
}

func isArchivePath(p string) bool {
	prefix, suffix, _ := strings.Cut(archivePathFormat, "%s")
	return strings.HasPrefix(p, prefix) && strings.HasSuffix(p, suffix)
}

func goldenContentType(file string) string {
	if strings.HasSuffix(file, ".json") {
		return "application/json"
	}
	return "text/html; charset=utf-8"
}
