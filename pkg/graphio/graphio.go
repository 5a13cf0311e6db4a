// Package graphio reads and writes the on-disk artifacts of the pipeline:
// crawled adjacency listings, vertex name tables and detection reports.
// Any path ending in ".sz" is transparently snappy-compressed.
package graphio

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
)

// CompressedExt marks files stored with snappy block compression.
const CompressedExt = ".sz"

func compressed(path string) bool {
	return strings.HasSuffix(path, CompressedExt)
}

// ReadFile reads a file, decompressing it when the name carries the
// compressed extension.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !compressed(path) {
		return data, nil
	}

	decoded, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, &FormatError{Path: path, Cause: err}
	}
	return decoded, nil
}

// WriteFile writes a file, creating parent directories and compressing when
// the name carries the compressed extension.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if compressed(path) {
		data = snappy.Encode(nil, data)
	}
	return os.WriteFile(path, data, 0644)
}
