package scraper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

func indentJSON(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// writeGoldenFiles writes each entry under goldenDir at its URL path. JSON bodies are pretty-printed.
func writeGoldenFiles(goldenDir string, files map[string][]byte) error {
	for urlPath, body := range files {
		file := filepath.Join(goldenDir, filepath.FromSlash(path.Clean("/"+urlPath)))
		if err := os.MkdirAll(filepath.Dir(file), 0o750); err != nil {
			return fmt.Errorf("failed to create golden dir: %w", err)
		}
		if strings.HasSuffix(file, ".json") {
			pretty, err := indentJSON(body)
			if err != nil {
				return fmt.Errorf("failed to format %s golden file: %w", urlPath, err)
			}
			body = pretty
		}
		if err := os.WriteFile(file, body, 0o600); err != nil {
			return fmt.Errorf("failed to write %s golden file: %w", urlPath, err)
		}
	}
	return nil
}
