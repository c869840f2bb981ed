// Package pipeline orchestrates data loading, caching, joining and table building.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/my2ndangelic/mapletrack/internal/model"
	"github.com/my2ndangelic/mapletrack/internal/source"
)

// LoadResult holds the output of the full data loading pipeline.
type LoadResult struct {
	Dataset     model.Dataset
	Format      source.Format
	Warnings    []string
	Errors      []error
	TotalFiles  int
	ParsedFiles int
	FileErrors  int
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses every known data file in dataDir.
// It uses a bounded worker pool for parallel parsing.
func Load(dataDir string, format source.Format, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(dataDir, format)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dataDir, err)
	}

	result := &LoadResult{
		TotalFiles: len(files),
		Format:     source.ResolveFormat(dataDir, format),
	}
	if len(files) == 0 {
		return result, nil
	}

	results := parseAll(files, source.ParseFile, func(n int) {
		if progressFn != nil {
			progressFn(n, len(files))
		}
	})
	for _, pr := range results {
		result.collect(pr)
	}
	return result, nil
}

// collect folds one parse result into the load result.
func (r *LoadResult) collect(pr source.ParseResult) {
	if pr.Err != nil {
		r.FileErrors++
		r.Errors = append(r.Errors, pr.Err)
		return
	}
	r.ParsedFiles++
	r.Warnings = append(r.Warnings, pr.Warnings...)
	r.Dataset.Merge(pr.Data)
}

// parseAll runs parse over files with a bounded worker pool. Results keep
// the order of files so merged datasets are deterministic.
func parseAll(files []source.DiscoveredFile, parse func(source.DiscoveredFile) source.ParseResult, done func(n int)) []source.ParseResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = parse(files[idx])
				n := processed.Add(1)
				if done != nil {
					done(int(n))
				}
			}
		}()
	}

	wg.Wait()
	return results
}
