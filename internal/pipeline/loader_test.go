package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/my2ndangelic/mapletrack/internal/remote"
	"github.com/my2ndangelic/mapletrack/internal/source"
	"github.com/my2ndangelic/mapletrack/internal/store"
)

const (
	accountCSV = "IGN,level,jobName\nAlpha,260,hero\nBeta,275,xenon\n"
	jobCSV     = "jobName,faction,archetype,fullName,mainstat,linkSkillMaxLevel\n" +
		"hero,Explorer,Warrior,Hero,STR,0\nxenon,Resistance,Thief Pirate,Xenon,STR DEX LUK,2\n"
	arcaneCSV = "IGN,Vanishing Journey,Chu Chu Island\nBeta,20,3\n"
)

func writeDataDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoad_CSV(t *testing.T) {
	dir := writeDataDir(t, map[string]string{
		"account.csv": accountCSV,
		"joblist.csv": jobCSV,
		"arcane.csv":  arcaneCSV,
	})

	var calls atomic.Int32
	res, err := Load(dir, source.FormatAuto, func(cur, total int) { calls.Add(1) })
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Format != source.FormatCSV {
		t.Errorf("Format = %s, want csv", res.Format)
	}
	if res.TotalFiles != 3 || res.ParsedFiles != 3 || res.FileErrors != 0 {
		t.Errorf("files total=%d parsed=%d errors=%d", res.TotalFiles, res.ParsedFiles, res.FileErrors)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("progress calls = %d, want 3", n)
	}
	if len(res.Dataset.Accounts) != 2 || res.Dataset.Accounts[0].IGN != "Alpha" {
		t.Errorf("accounts = %+v", res.Dataset.Accounts)
	}

	r := Build(&res.Dataset, Options{Sort: SortByLevel})
	if got := igns(r.Characters); got != "Beta,Alpha" {
		t.Errorf("roster = %s, want Beta,Alpha", got)
	}
}

func TestLoad_EmptyDir(t *testing.T) {
	res, err := Load(filepath.Join(t.TempDir(), "none"), source.FormatAuto, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.TotalFiles != 0 || len(res.Dataset.Accounts) != 0 {
		t.Errorf("result = %+v, want empty", res)
	}
}

func TestLoad_BadFileIsCounted(t *testing.T) {
	dir := writeDataDir(t, map[string]string{
		"account.csv": accountCSV,
		"cash.csv":    "// nothing here\n",
	})
	res, err := Load(dir, source.FormatCSV, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.FileErrors != 1 || res.ParsedFiles != 1 {
		t.Errorf("parsed=%d errors=%d, want 1/1", res.ParsedFiles, res.FileErrors)
	}
}

func TestLoadWithCache(t *testing.T) {
	dir := writeDataDir(t, map[string]string{
		"account.csv": accountCSV,
		"joblist.csv": jobCSV,
	})
	cache, err := store.Open(filepath.Join(t.TempDir(), "parsed.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer func() { _ = cache.Close() }()

	first, err := LoadWithCache(dir, source.FormatAuto, cache, nil)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first.CacheHits != 0 || first.Reparsed != 2 {
		t.Errorf("first: hits=%d reparsed=%d, want 0/2", first.CacheHits, first.Reparsed)
	}

	second, err := LoadWithCache(dir, source.FormatAuto, cache, nil)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if second.CacheHits != 2 || second.Reparsed != 0 {
		t.Errorf("second: hits=%d reparsed=%d, want 2/0", second.CacheHits, second.Reparsed)
	}
	if len(second.Dataset.Accounts) != 2 || len(second.Dataset.Jobs) != 2 {
		t.Errorf("cached dataset = %+v", second.Dataset)
	}

	// Touch account.csv with new content and a later mtime.
	path := filepath.Join(dir, "account.csv")
	if err := os.WriteFile(path, []byte(accountCSV+"Gamma,200,hero\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	third, err := LoadWithCache(dir, source.FormatAuto, cache, nil)
	if err != nil {
		t.Fatalf("third load: %v", err)
	}
	if third.CacheHits != 1 || third.Reparsed != 1 {
		t.Errorf("third: hits=%d reparsed=%d, want 1/1", third.CacheHits, third.Reparsed)
	}
	if len(third.Dataset.Accounts) != 3 {
		t.Errorf("accounts = %d, want 3", len(third.Dataset.Accounts))
	}
	if third.Dataset.Accounts[0].IGN != "Alpha" {
		t.Errorf("first account = %s, want Alpha (discovery order)", third.Dataset.Accounts[0].IGN)
	}
}

func serveFiles(t *testing.T, files map[string]string) *remote.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[strings.TrimPrefix(r.URL.Path, "/data/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c, err := remote.NewClient(srv.URL + "/data")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestLoadRemote_CSV(t *testing.T) {
	c := serveFiles(t, map[string]string{
		"account.csv": accountCSV,
		"joblist.csv": jobCSV,
		"arcane.csv":  arcaneCSV,
	})

	res, err := LoadRemote(context.Background(), c, source.FormatAuto, nil)
	if err != nil {
		t.Fatalf("LoadRemote: %v", err)
	}
	if res.Format != source.FormatCSV {
		t.Errorf("Format = %s, want csv", res.Format)
	}
	if res.TotalFiles != 3 || res.FileErrors != 0 {
		t.Errorf("total=%d errors=%d, want 3/0", res.TotalFiles, res.FileErrors)
	}
	if len(res.Dataset.Symbols) != 1 {
		t.Errorf("symbols = %d, want 1", len(res.Dataset.Symbols))
	}
}

func TestLoadRemote_YAML(t *testing.T) {
	c := serveFiles(t, map[string]string{
		"database.yaml": "characters:\n  Alpha:\n    basic:\n      level: 250\n      jobName: hero\n",
		"joblist.yaml":  "jobs:\n  - jobName: hero\n    faction: Explorer\n    archetype: Warrior\n",
	})

	res, err := LoadRemote(context.Background(), c, source.FormatAuto, nil)
	if err != nil {
		t.Fatalf("LoadRemote: %v", err)
	}
	if res.Format != source.FormatYAML {
		t.Errorf("Format = %s, want yaml", res.Format)
	}
	r := Build(&res.Dataset, Options{})
	if len(r.Characters) != 1 || r.Characters[0].Job.Faction != "Explorer" {
		t.Errorf("roster = %+v", r.Characters)
	}
}

func TestLoadData_CacheFallback(t *testing.T) {
	dir := writeDataDir(t, map[string]string{"account.csv": accountCSV})
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	// A cache path below a regular file cannot be created.
	rep, err := LoadData(context.Background(), LoadOptions{
		DataDir:   dir,
		UseCache:  true,
		CachePath: filepath.Join(blocker, "sub", "parsed.db"),
	})
	if err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	if rep.CacheErr == nil || rep.Cached {
		t.Errorf("CacheErr=%v Cached=%v, want fallback", rep.CacheErr, rep.Cached)
	}
	if len(rep.Dataset.Accounts) != 2 {
		t.Errorf("accounts = %d, want 2", len(rep.Dataset.Accounts))
	}
}

func TestLoadData_Remote(t *testing.T) {
	c := serveFiles(t, map[string]string{"account.csv": accountCSV})
	rep, err := LoadData(context.Background(), LoadOptions{DataDir: "ignored", DataURL: c.URL("")})
	if err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	if !rep.Remote || len(rep.Dataset.Accounts) != 2 {
		t.Errorf("Remote=%v accounts=%d", rep.Remote, len(rep.Dataset.Accounts))
	}
}

func TestLoadWithCache_PrunesDeletedFiles(t *testing.T) {
	dir := writeDataDir(t, map[string]string{
		"account.csv": accountCSV,
		"joblist.csv": jobCSV,
	})
	cache, err := store.Open(filepath.Join(t.TempDir(), "parsed.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer func() { _ = cache.Close() }()

	if _, err := LoadWithCache(dir, source.FormatCSV, cache, nil); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, "joblist.csv")); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadWithCache(dir, source.FormatCSV, cache, nil); err != nil {
		t.Fatalf("second load: %v", err)
	}

	n, err := cache.EntryCount()
	if err != nil {
		t.Fatalf("EntryCount: %v", err)
	}
	if n != 1 {
		t.Errorf("EntryCount = %d, want 1 after deleting joblist.csv", n)
	}
}
