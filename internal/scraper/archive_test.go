package scraper

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/drewfead/ts-archive/internal/document"
	"github.com/drewfead/ts-archive/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnit_ArchiveURL(t *testing.T) {
	d := time.Date(2023, 1, 1, 23, 30, 0, 0, time.UTC)
	assert.Equal(t,
		"https://www.tagesschau.de/multimedia/video/videoarchiv2~_date-20230101.html",
		ArchiveURL(document.DefaultBaseURL, d))
	assert.Equal(t, ArchiveURL(document.DefaultBaseURL, d), NewArchive(document.DefaultBaseURL, d).URL())
}

func TestUnit_Archive_Verify(t *testing.T) {
	server := MountGoldenTestServer(t, "tagesschau")
	opts := []document.Option{document.WithBaseURL(server.URL), document.WithClient(server.Client())}

	require.NoError(t, NewArchive(server.URL, goldenAirDate, opts...).Verify(t.Context()))

	err := NewArchive(server.URL, time.Date(2006, 12, 24, 0, 0, 0, 0, time.UTC), opts...).Verify(t.Context())
	require.ErrorIs(t, err, ErrNoArchive)
}

func TestUnit_Archive_Shows(t *testing.T) {
	server := MountGoldenTestServer(t, "tagesschau")
	archive := NewArchive(server.URL, goldenAirDate, document.WithBaseURL(server.URL), document.WithClient(server.Client()))

	shows, err := archive.Shows(t.Context(), DefaultShowName)
	require.NoError(t, err)
	require.Len(t, shows, 2)
	assert.Equal(t, server.URL+"/multimedia/sendung/ts-55602.html", shows[0].URL())
	assert.Equal(t, server.URL+"/multimedia/sendung/sendung-ts-55590.html", shows[1].URL())

	date, err := archive.Date(t.Context())
	require.NoError(t, err)
	assert.True(t, sameDay(date, goldenAirDate))
}

func TestUnit_Show_AttributesResolveOnce(t *testing.T) {
	server, hits := countingGoldenServer(t)
	show := NewShow("/multimedia/sendung/ts-55602.html",
		document.WithBaseURL(server.URL), document.WithClient(server.Client()))

	first, err := show.SubtitleURL(t.Context())
	require.NoError(t, err)
	second, err := show.SubtitleURL(t.Context())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, server.URL+"/multimedia/video/untertitel-53520.xml", first)

	video, err := show.VideoURL(t.Context())
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/multimedia/video/video-1143853", video.URL())

	topics, err := show.Topics(t.Context())
	require.NoError(t, err)
	assert.Contains(t, topics, extract.TopicsPhrase)

	_, err = show.AirDate(t.Context())
	require.NoError(t, err)

	for path, n := range hits() {
		assert.Equal(t, 1, n, path)
	}
	assert.Len(t, hits(), 2, "show page and media metadata")
}

func TestUnit_Show_AbsenceIsSticky(t *testing.T) {
	server := MountGoldenTestServer(t, "tagesschau")
	show := NewShow("/multimedia/sendung/sendung-ts-55590.html",
		document.WithBaseURL(server.URL), document.WithClient(server.Client()))

	_, err := show.SubtitleURL(t.Context())
	require.ErrorIs(t, err, extract.ErrAbsent)
	_, err = show.Topics(t.Context())
	require.ErrorIs(t, err, extract.ErrAbsent)
	_, err = show.SubtitleURL(t.Context())
	require.ErrorIs(t, err, extract.ErrAbsent)
}

func TestUnit_Show_EmptySubtitleEntry(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/multimedia/sendung/ts-1.html", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<iframe data-ctrl-iframe="{'action':{'default':{'src':'/multimedia/video/video-1~player.html'}}}"></iframe>`))
	})
	mux.HandleFunc("/multimedia/video/video-1~mediajson_broadcastType-TS.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"_subtitleUrl": ""}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	show := NewShow("/multimedia/sendung/ts-1.html",
		document.WithBaseURL(server.URL), document.WithClient(server.Client()))

	subtitle, err := show.SubtitleURL(t.Context())
	require.NoError(t, err)
	assert.Empty(t, subtitle)

	v, err := subtitleURLField(t.Context(), show)
	require.NoError(t, err)
	assert.Equal(t, "", v)
}
