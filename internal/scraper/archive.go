package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drewfead/ts-archive/internal/document"
	"github.com/drewfead/ts-archive/internal/extract"
)

const archivePathFormat = "/multimedia/video/videoarchiv2~_date-%s.html"

// ErrNoArchive is returned when the archive page served for a date belongs to another date.
// The server forwards dates older than its retention window to its oldest archive.
var ErrNoArchive = errors.New("no archive for air date, maybe too old?")

func archivePath(d time.Time) string {
	return fmt.Sprintf(archivePathFormat, d.Format("20060102"))
}

// ArchiveURL returns the video archive listing URL for the calendar date of d.
func ArchiveURL(baseURL string, d time.Time) string {
	return document.Resolve(baseURL, archivePath(d))
}

// Archive is the video archive listing of one calendar date.
type Archive struct {
	airDate time.Time
	page    *document.Document
	opts    []document.Option
}

// NewArchive returns the archive under baseURL for the calendar date of airDate. The options are
// passed on to every document the archive creates, including its shows.
func NewArchive(baseURL string, airDate time.Time, opts ...document.Option) *Archive {
	return &Archive{
		airDate: airDate,
		page:    document.New(ArchiveURL(baseURL, airDate), opts...),
		opts:    opts,
	}
}

func (a *Archive) URL() string {
	return a.page.URL()
}

// Date returns the date the served archive page says it is for.
func (a *Archive) Date(ctx context.Context) (time.Time, error) {
	doc, err := a.page.HTML(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return extract.ArchiveDate(doc)
}

// Verify fails with ErrNoArchive unless the served page is the archive of the requested date.
func (a *Archive) Verify(ctx context.Context) error {
	got, err := a.Date(ctx)
	if errors.Is(err, extract.ErrAbsent) {
		return fmt.Errorf("%w: requested %s: %w", ErrNoArchive, a.airDate.Format(time.DateOnly), err)
	}
	if err != nil {
		return err
	}
	if !sameDay(got, a.airDate) {
		return fmt.Errorf("%w: requested %s, served %s",
			ErrNoArchive, a.airDate.Format(time.DateOnly), got.Format(time.DateOnly))
	}
	return nil
}

// Shows returns the shows listed under the display name showName, in listing order.
func (a *Archive) Shows(ctx context.Context, showName string) ([]*Show, error) {
	doc, err := a.page.HTML(ctx)
	if err != nil {
		return nil, err
	}
	hrefs := extract.ShowLinks(doc, showName)
	shows := make([]*Show, 0, len(hrefs))
	for _, href := range hrefs {
		shows = append(shows, NewShow(href, a.opts...))
	}
	return shows, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
