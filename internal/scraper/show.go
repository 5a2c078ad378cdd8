package scraper

import (
	"context"
	"time"

	"github.com/drewfead/ts-archive/internal/document"
	"github.com/drewfead/ts-archive/internal/extract"
	"github.com/drewfead/ts-archive/internal/lazy"
)

// Show is one broadcast page. Each attribute is resolved on first use and then fixed for the
// lifetime of the Show, absence and errors included.
type Show struct {
	page *document.Document
	opts []document.Option

	videoURL    lazy.Value[*document.Document]
	airDate     lazy.Value[time.Time]
	subtitleURL lazy.Value[string]
	topics      lazy.Value[string]
}

func NewShow(ref string, opts ...document.Option) *Show {
	return &Show{
		page: document.New(ref, opts...),
		opts: opts,
	}
}

func (s *Show) URL() string {
	return s.page.URL()
}

// Page returns the show page itself, for extractors beyond the built-in attributes.
func (s *Show) Page() *document.Document {
	return s.page
}

func (s *Show) String() string {
	return s.page.URL()
}

// VideoURL returns the canonical video base as a document reference.
func (s *Show) VideoURL(ctx context.Context) (*document.Document, error) {
	return s.videoURL.Get(func() (*document.Document, error) {
		doc, err := s.page.HTML(ctx)
		if err != nil {
			return nil, err
		}
		ref, err := extract.VideoURL(doc)
		if err != nil {
			return nil, err
		}
		return document.New(ref, s.opts...), nil
	})
}

// AirDate returns the broadcast time published in the page metadata.
func (s *Show) AirDate(ctx context.Context) (time.Time, error) {
	return s.airDate.Get(func() (time.Time, error) {
		doc, err := s.page.HTML(ctx)
		if err != nil {
			return time.Time{}, err
		}
		return extract.AirDate(doc)
	})
}

// SubtitleURL fetches the media metadata next to the video and returns the absolute subtitle
// location. A show without video has no subtitles either. An empty subtitle entry is returned
// as "", not as absence.
func (s *Show) SubtitleURL(ctx context.Context) (string, error) {
	return s.subtitleURL.Get(func() (string, error) {
		video, err := s.VideoURL(ctx)
		if err != nil {
			return "", err
		}
		metadata, err := document.New(extract.MediaMetadataURL(video.URL()), s.opts...).JSON(ctx)
		if err != nil {
			return "", err
		}
		ref, err := extract.SubtitleURL(metadata)
		if err != nil || ref == "" {
			return "", err
		}
		return document.New(ref, s.opts...).URL(), nil
	})
}

// Topics returns the teaser text listing the topics of the broadcast.
func (s *Show) Topics(ctx context.Context) (string, error) {
	return s.topics.Get(func() (string, error) {
		doc, err := s.page.HTML(ctx)
		if err != nil {
			return "", err
		}
		return extract.Topics(doc)
	})
}
