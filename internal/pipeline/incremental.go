package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/my2ndangelic/mapletrack/internal/source"
	"github.com/my2ndangelic/mapletrack/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
}

// LoadWithCache discovers, diffs against cache, parses only changed files,
// and returns the combined result in file order.
func LoadWithCache(dataDir string, format source.Format, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := source.ScanDir(dataDir, format)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dataDir, err)
	}

	result := &CachedLoadResult{
		LoadResult: LoadResult{
			TotalFiles: len(files),
			Format:     source.ResolveFormat(dataDir, format),
		},
	}
	if len(files) == 0 {
		return result, nil
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	// Files deleted from dataDir since the last run are dropped from the cache.
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f.Path] = true
	}
	for path := range tracked {
		if filepath.Dir(path) == filepath.Clean(dataDir) && !present[path] {
			_ = cache.DeleteFile(path)
		}
	}

	type stamp struct{ mtime, size int64 }
	stamps := make(map[string]stamp, len(files))

	var toReparse []source.DiscoveredFile
	var unchanged []string
	for _, f := range files {
		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}
		stamps[f.Path] = stamp{info.ModTime().UnixNano(), info.Size()}

		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() {
			unchanged = append(unchanged, f.Path)
		} else {
			toReparse = append(toReparse, f)
		}
	}

	entries := map[string]store.Entry{}
	if len(unchanged) > 0 {
		entries, err = cache.LoadEntries(unchanged)
		if err != nil {
			return nil, fmt.Errorf("loading cached files: %w", err)
		}
	}

	// A tracked file whose payload went missing is parsed again.
	for _, f := range files {
		if _, ok := entries[f.Path]; !ok && containsPath(unchanged, f.Path) {
			toReparse = append(toReparse, f)
		}
	}

	result.CacheHits = len(entries)
	result.Reparsed = len(toReparse)

	parsed := make(map[string]source.ParseResult, len(toReparse))
	if len(toReparse) > 0 {
		results := parseAll(toReparse, source.ParseFile, func(n int) {
			if progressFn != nil {
				progressFn(n+result.CacheHits, result.TotalFiles)
			}
		})
		for i, pr := range results {
			f := toReparse[i]
			parsed[f.Path] = pr
			if pr.Err != nil {
				continue
			}
			if st, ok := stamps[f.Path]; ok {
				_ = cache.SaveEntry(store.Entry{
					Path:     f.Path,
					Name:     f.Name,
					Kind:     string(f.Kind),
					Format:   string(f.Format),
					Data:     pr.Data,
					Warnings: pr.Warnings,
				}, st.mtime, st.size)
			}
		}
	}

	// Merge in discovery order so accounts and jobs come first.
	for _, f := range files {
		if pr, ok := parsed[f.Path]; ok {
			result.collect(pr)
			continue
		}
		if e, ok := entries[f.Path]; ok {
			result.collect(source.ParseResult{File: f, Data: e.Data, Warnings: e.Warnings})
		}
	}

	return result, nil
}

func containsPath(paths []string, p string) bool {
	for _, q := range paths {
		if q == p {
			return true
		}
	}
	return false
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "mapletrack")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "mapletrack")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "parsed.db")
}
