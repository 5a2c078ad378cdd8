package internal

import (
	"context"
	"net/http"
	"time"
)

type Scraper interface {
	// Descriptor returns the display name of the show being scraped (e.g. "tagesschau").
	Descriptor() string
	ScrapeShows(ctx context.Context, req ScrapeShowsRequest) ([]ShowResult, error)
}

// GoldenScraper extends Scraper with the ability to pull and write golden test data.
type GoldenScraper interface {
	Scraper
	PullGolden(ctx context.Context, goldenDir string, airDate time.Time) error
	MountGolden(ctx context.Context, goldenDir string) (http.Handler, error)
}
