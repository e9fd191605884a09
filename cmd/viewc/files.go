package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// errNoTemplates is returned when the given paths hold no templates.
var errNoTemplates = errors.New("no templates found")

// collectTemplates finds all templates with extension ext from the given
// paths. Supports:
//   - Direct file paths: "app.rs.mkp"
//   - Directory paths: "./ui"
//   - Recursive pattern: "./..."
func collectTemplates(paths []string, ext string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var files []string
	for _, path := range paths {
		if root, ok := strings.CutSuffix(path, "/..."); ok {
			if root == "" {
				root = "."
			}

			err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && strings.HasSuffix(p, ext) {
					files = append(files, p)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("walking %s: %w", root, err)
			}
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if info.IsDir() {
			// Non-recursive.
			entries, err := os.ReadDir(path)
			if err != nil {
				return nil, fmt.Errorf("reading directory %s: %w", path, err)
			}
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), ext) {
					files = append(files, filepath.Join(path, entry.Name()))
				}
			}
		} else if strings.HasSuffix(path, ext) {
			files = append(files, path)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w (extension %s)", errNoTemplates, ext)
	}
	return uniquePaths(files), nil
}

// uniquePaths drops repeated files, as produced by overlapping arguments
// like "ui ui/app.rs.mkp". The first occurrence keeps its place.
func uniquePaths(files []string) []string {
	seen := make(map[string]bool, len(files))
	out := files[:0]
	for _, f := range files {
		key := filepath.Clean(f)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}

// outputFileName strips the template extension.
// Examples:
//
//	app.rs.mkp  -> app.rs
//	view.go.mkp -> view.go
func outputFileName(inputPath, ext string) string {
	return strings.TrimSuffix(inputPath, ext)
}

// readFile reads a file, or stdin for "-".
func (a *app) readFile(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
