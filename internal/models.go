package internal

import (
	"encoding/json"
	"fmt"
	"time"
)

// FieldValue is the outcome of one extractor for one show. Absent is distinct from a
// present-but-empty value.
type FieldValue struct {
	Value  any
	Absent bool
}

func Present(v any) FieldValue {
	return FieldValue{Value: v}
}

func Absent() FieldValue {
	return FieldValue{Absent: true}
}

func (v FieldValue) String() string {
	if v.Absent {
		return "<absent>"
	}
	if t, ok := v.Value.(time.Time); ok {
		return t.Format(time.RFC3339)
	}
	return fmt.Sprint(v.Value)
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	if v.Absent {
		return []byte("null"), nil
	}
	return json.Marshal(v.Value)
}

// MarshalYAML renders absence as null.
func (v FieldValue) MarshalYAML() (any, error) {
	if v.Absent {
		return nil, nil
	}
	return v.Value, nil
}

type ShowResult struct {
	ID     string                `json:"id" yaml:"id"`
	URL    string                `json:"url" yaml:"url"`
	Fields map[string]FieldValue `json:"fields" yaml:"fields"`
}

type ScrapeShowsRequest struct {
	AirDate time.Time `json:"air_date"`
	// Fields names the registered extractors to run. Empty means the scraper's default set.
	Fields []string `json:"fields"`
}
