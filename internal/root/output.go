package root

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/drewfead/ts-archive/internal"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

var ErrUnknownOutputFormat = errors.New("unknown output format")

func parseFormat(value string) (outputFormat, error) {
	switch f := outputFormat(value); f {
	case formatText, formatJSON, formatYAML:
		return f, nil
	}
	return "", fmt.Errorf("%w %q (valid: text, json, yaml)", ErrUnknownOutputFormat, value)
}

func (f outputFormat) write(w io.Writer, results []internal.ShowResult) error {
	switch f {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeText(w, results)
	}
}

// writeText prints each show URL followed by its fields, one per line.
func writeText(w io.Writer, results []internal.ShowResult) error {
	for _, result := range results {
		if _, err := fmt.Fprintln(w, result.URL); err != nil {
			return err
		}
		for _, name := range slices.Sorted(maps.Keys(result.Fields)) {
			if _, err := fmt.Fprintf(w, "  %s: %s\n", name, result.Fields[name]); err != nil {
				return err
			}
		}
	}
	return nil
}
