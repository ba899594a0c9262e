// SPDX-License-Identifier: MIT

package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/katalvlaran/connectome/errkind"
)

// Subject names one subject's inputs.
type Subject struct {
	ID     string
	Fibers string
	ROI    string
}

// ParseManifest reads "subject fibers roi" lines. Blank lines and lines
// starting with '#' are ignored; relative paths are resolved against base.
// Errors: errkind.ErrMalformedInput for short lines or duplicate subjects.
func ParseManifest(r io.Reader, base string) ([]Subject, error) {
	var out []Subject
	seen := make(map[string]int)
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		f := strings.Fields(text)
		if len(f) != 3 {
			return nil, fmt.Errorf("manifest line %d: want 3 fields, got %d: %w", line, len(f), errkind.ErrMalformedInput)
		}
		if prev, ok := seen[f[0]]; ok {
			return nil, fmt.Errorf("manifest line %d: subject %s repeats line %d: %w", line, f[0], prev, errkind.ErrMalformedInput)
		}
		seen[f[0]] = line
		out = append(out, Subject{ID: f[0], Fibers: resolve(base, f[1]), ROI: resolve(base, f[2])})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	return out, nil
}

// LoadManifest parses the manifest at path; relative inputs are resolved
// against its directory.
func LoadManifest(path string) ([]Subject, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errkind.Wrap(errkind.ErrInputNotFound, "manifest", "", path)
		}
		return nil, errkind.Wrap(err, "manifest", "", path)
	}
	defer f.Close()
	subjects, err := ParseManifest(f, filepath.Dir(path))
	if err != nil {
		return nil, errkind.Wrap(err, "manifest", "", path)
	}

	return subjects, nil
}

func resolve(base, p string) string {
	if base == "" || filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(base, p)
}
