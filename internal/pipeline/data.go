package pipeline

import (
	"context"
	"fmt"

	"github.com/my2ndangelic/mapletrack/internal/remote"
	"github.com/my2ndangelic/mapletrack/internal/source"
	"github.com/my2ndangelic/mapletrack/internal/store"
)

// LoadOptions selects where data comes from. DataURL wins over DataDir.
type LoadOptions struct {
	DataDir   string
	DataURL   string
	Format    source.Format
	UseCache  bool
	CachePath string // defaults to CachePath()
	Progress  ProgressFunc
}

// Origin returns the URL or directory the options read from.
func (o LoadOptions) Origin() string {
	if o.DataURL != "" {
		return o.DataURL
	}
	return o.DataDir
}

// LoadReport is a LoadResult plus how it was obtained.
type LoadReport struct {
	*LoadResult
	Origin    string
	Remote    bool
	Cached    bool
	CacheHits int
	Reparsed  int
	CacheErr  error // set when the cache was unusable and a full parse ran instead
}

// LoadData loads a dataset from a remote URL, the parse cache or a plain
// directory scan. A broken cache falls back to a full parse.
func LoadData(ctx context.Context, opts LoadOptions) (*LoadReport, error) {
	report := &LoadReport{Origin: opts.Origin()}

	if opts.DataURL != "" {
		client, err := remote.NewClient(opts.DataURL)
		if err != nil {
			return nil, err
		}
		res, err := LoadRemote(ctx, client, opts.Format, opts.Progress)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", opts.DataURL, err)
		}
		report.LoadResult = res
		report.Remote = true
		return report, nil
	}

	if opts.UseCache {
		path := opts.CachePath
		if path == "" {
			path = CachePath()
		}
		cache, err := store.Open(path)
		if err == nil {
			defer func() { _ = cache.Close() }()
			cr, loadErr := LoadWithCache(opts.DataDir, opts.Format, cache, opts.Progress)
			if loadErr == nil {
				report.LoadResult = &cr.LoadResult
				report.Cached = true
				report.CacheHits = cr.CacheHits
				report.Reparsed = cr.Reparsed
				return report, nil
			}
			err = loadErr
		}
		report.CacheErr = err
	}

	res, err := Load(opts.DataDir, opts.Format, opts.Progress)
	if err != nil {
		return nil, err
	}
	report.LoadResult = res
	return report, nil
}
