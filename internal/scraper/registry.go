package scraper

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Field names of the built-in extractors.
const (
	FieldVideoURL    = "video_url"
	FieldAirDate     = "air_date"
	FieldSubtitleURL = "subtitle_url"
	FieldTopics      = "topics"
)

// FieldExtractor resolves one named field of a show. Errors wrapping extract.ErrAbsent are
// recorded as absent values; any other error aborts the scrape.
type FieldExtractor func(ctx context.Context, show *Show) (any, error)

type Registry interface {
	GetExtractor(name string) (FieldExtractor, error)
	// Names returns the registered field names, sorted.
	Names() []string
}

type RegistryOption func(r *registry)

func NewRegistry(opts ...RegistryOption) Registry {
	r := &registry{
		extractors: make(map[string]FieldExtractor),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultRegistry returns a registry with the built-in fields, followed by opts.
func DefaultRegistry(opts ...RegistryOption) Registry {
	builtins := []RegistryOption{
		WithExtractor(FieldVideoURL, videoURLField),
		WithExtractor(FieldAirDate, airDateField),
		WithExtractor(FieldSubtitleURL, subtitleURLField),
		WithExtractor(FieldTopics, topicsField),
	}
	return NewRegistry(append(builtins, opts...)...)
}

func WithExtractor(name string, extractor FieldExtractor) RegistryOption {
	return func(r *registry) {
		r.extractors[name] = extractor
	}
}

type registry struct {
	extractors map[string]FieldExtractor
}

var ErrExtractorNotFound = errors.New("extractor not found")

func (r *registry) GetExtractor(name string) (FieldExtractor, error) {
	extractor, ok := r.extractors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrExtractorNotFound, name)
	}
	return extractor, nil
}

func (r *registry) Names() []string {
	return slices.Sorted(maps.Keys(r.extractors))
}

func videoURLField(ctx context.Context, show *Show) (any, error) {
	video, err := show.VideoURL(ctx)
	if err != nil {
		return nil, err
	}
	return video.URL(), nil
}

func airDateField(ctx context.Context, show *Show) (any, error) {
	return show.AirDate(ctx)
}

func subtitleURLField(ctx context.Context, show *Show) (any, error) {
	return show.SubtitleURL(ctx)
}

func topicsField(ctx context.Context, show *Show) (any, error) {
	return show.Topics(ctx)
}
