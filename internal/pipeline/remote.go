package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/my2ndangelic/mapletrack/internal/remote"
	"github.com/my2ndangelic/mapletrack/internal/source"
)

// Fetcher downloads a data file by name.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	URL(name string) string
}

// LoadRemote fetches every known data file from f. FormatAuto picks YAML
// when database.yaml is available and CSV otherwise. Missing files are
// skipped; any other fetch failure is recorded as a file error.
func LoadRemote(ctx context.Context, f Fetcher, format source.Format, progressFn ProgressFunc) (*LoadResult, error) {
	prefetched := map[string][]byte{}
	if format == source.FormatAuto || format == "" {
		body, err := f.Fetch(ctx, "database.yaml")
		switch {
		case err == nil:
			format = source.FormatYAML
			prefetched["database.yaml"] = body
		case errors.Is(err, remote.ErrNotFound):
			format = source.FormatCSV
		default:
			return nil, fmt.Errorf("probing remote data: %w", err)
		}
	}

	known := source.FilesFor(format)
	files := make([]source.DiscoveredFile, len(known))
	for i, kf := range known {
		files[i] = source.DiscoveredFile{Path: f.URL(kf.Name), Name: kf.Name, Kind: kf.Kind, Format: format}
	}

	var (
		mu      sync.Mutex
		missing = map[string]bool{}
	)
	fetchAndParse := func(df source.DiscoveredFile) source.ParseResult {
		body, ok := prefetched[df.Name]
		if !ok {
			var err error
			body, err = f.Fetch(ctx, df.Name)
			if errors.Is(err, remote.ErrNotFound) {
				mu.Lock()
				missing[df.Name] = true
				mu.Unlock()
				return source.ParseResult{File: df}
			}
			if err != nil {
				return source.ParseResult{File: df, Err: err}
			}
		}
		return source.ParseBytes(df, body)
	}

	results := parseAll(files, fetchAndParse, func(n int) {
		if progressFn != nil {
			progressFn(n, len(files))
		}
	})

	result := &LoadResult{Format: format}
	for _, pr := range results {
		if missing[pr.File.Name] {
			continue
		}
		result.TotalFiles++
		result.collect(pr)
	}
	return result, nil
}
