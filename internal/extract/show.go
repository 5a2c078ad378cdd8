package extract

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// TopicsPhrase identifies the teaser paragraph that lists the topics of the broadcast.
	TopicsPhrase = "Themen der Sendung"

	// UploadDateLayout matches e.g. "Sun Jan 01 20:00:00 CET 2023".
	UploadDateLayout = time.UnixDate

	mediaMetadataSuffix = "~mediajson_broadcastType-TS.json"
	subtitleURLKey      = "_subtitleUrl"
	variantDelimiter    = "~"
)

// uploadDateZones are the zone abbreviations the site publishes. time.Parse gives any other
// abbreviation a zero offset instead of failing, so everything else is rejected.
var uploadDateZones = map[string]bool{"CET": true, "CEST": true, "UTC": true, "GMT": true}

// playerConfig is the part of the data-ctrl-iframe payload we read.
type playerConfig struct {
	Action struct {
		Default struct {
			Src string `json:"src"`
		} `json:"default"`
	} `json:"action"`
}

// VideoURL reads the embedded player configuration (a single-quoted JSON object in the
// data-ctrl-iframe attribute) and returns its default source, cut before the first "~" so that
// only the canonical video base remains.
func VideoURL(doc *goquery.Document) (string, error) {
	iframe := doc.Find("iframe[data-ctrl-iframe]").First()
	raw, exists := iframe.Attr("data-ctrl-iframe")
	if !exists {
		return "", fmt.Errorf("%w: player configuration", ErrAbsent)
	}
	var cfg playerConfig
	if err := json.Unmarshal([]byte(strings.ReplaceAll(raw, "'", `"`)), &cfg); err != nil {
		return "", fmt.Errorf("%w: player configuration: %w", ErrDecode, err)
	}
	src := cfg.Action.Default.Src
	if src == "" {
		return "", fmt.Errorf("%w: player default source", ErrAbsent)
	}
	base, _, _ := strings.Cut(src, variantDelimiter)
	return base, nil
}

// AirDate parses the uploadDate meta tag. Despite its name the site fills it with the
// broadcast time, which is what we want.
func AirDate(doc *goquery.Document) (time.Time, error) {
	content, exists := doc.Find(`meta[itemprop="uploadDate"]`).First().Attr("content")
	if !exists {
		return time.Time{}, fmt.Errorf("%w: upload date", ErrAbsent)
	}
	t, err := time.ParseInLocation(UploadDateLayout, strings.TrimSpace(content), berlinTZ)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse upload date %q: %w", content, err)
	}
	if zone, _ := t.Zone(); !uploadDateZones[zone] {
		return time.Time{}, fmt.Errorf("parse upload date %q: unknown time zone %q", content, zone)
	}
	return t, nil
}

// MediaMetadataURL derives the media metadata JSON location from a video base URL.
func MediaMetadataURL(videoURL string) string {
	return videoURL + mediaMetadataSuffix
}

// SubtitleURL reads the subtitle location from decoded media metadata.
func SubtitleURL(metadata any) (string, error) {
	obj, ok := metadata.(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: media metadata is not an object", ErrAbsent)
	}
	v, ok := obj[subtitleURLKey].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrAbsent, subtitleURLKey)
	}
	return v, nil
}

// Topics returns the text of the first teaser paragraph mentioning TopicsPhrase.
func Topics(doc *goquery.Document) (string, error) {
	var (
		topics string
		found  bool
	)
	doc.Find("p.teasertext").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if strings.Contains(text, TopicsPhrase) {
			topics, found = text, true
			return false
		}
		return true
	})
	if !found {
		return "", fmt.Errorf("%w: topics teaser", ErrAbsent)
	}
	return topics, nil
}
