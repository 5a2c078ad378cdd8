package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// archiveDateSelector lists where the archive page states its date, most specific first.
const archiveDateSelector = "h1, h2, h3"

var germanDateRE = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4})\b`)

// ArchiveDate returns the calendar date (midnight, Europe/Berlin) an archive page is for. It is
// the first dd.mm.yyyy date found in a heading. The server answers requests for dates before
// its retention window with the oldest archive it has, so callers compare this against the
// date they asked for.
func ArchiveDate(doc *goquery.Document) (time.Time, error) {
	var (
		found time.Time
		ok    bool
	)
	doc.Find(archiveDateSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found, ok = parseGermanDate(s.Text())
		return !ok
	})
	if !ok {
		return time.Time{}, fmt.Errorf("%w: archive date marker", ErrAbsent)
	}
	return found, nil
}

func parseGermanDate(text string) (time.Time, bool) {
	m := germanDateRE.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, berlinTZ)
	// time.Date normalizes 31.02. into March; reject instead.
	if d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// ShowLinks returns the href of every link whose visible text is exactly name, in document
// order. Show URLs have been numbered differently over the years, so the display text is the
// only stable identifier. Matching links without an href are skipped.
func ShowLinks(doc *goquery.Document, name string) []string {
	var hrefs []string
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		if s.Text() != name {
			return
		}
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}
		hrefs = append(hrefs, href)
	})
	return hrefs
}
