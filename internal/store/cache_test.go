package store

import (
	"path/filepath"
	"testing"

	"github.com/my2ndangelic/mapletrack/internal/config"
	"github.com/my2ndangelic/mapletrack/internal/model"
)

func openTemp(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache", "parsed.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSaveAndLoadEntries(t *testing.T) {
	c := openTemp(t)

	entry := Entry{
		Path:   "/data/account.csv",
		Name:   "account.csv",
		Kind:   "accounts",
		Format: "csv",
		Data: &model.Dataset{
			Accounts: []model.Account{{IGN: "Alpha", Level: 280, JobName: "hero"}},
			Regions:  map[config.SymbolKind][]string{config.Arcane: {"Arcana"}},
		},
		Warnings: []string{"row 3: bad level"},
	}
	if err := c.SaveEntry(entry, 100, 42); err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}

	tracked, err := c.GetTrackedFiles()
	if err != nil {
		t.Fatalf("GetTrackedFiles: %v", err)
	}
	if fi := tracked["/data/account.csv"]; fi.MtimeNs != 100 || fi.SizeBytes != 42 {
		t.Fatalf("tracked = %+v, want mtime 100 size 42", fi)
	}

	got, err := c.LoadEntries([]string{"/data/account.csv", "/data/missing.csv"})
	if err != nil {
		t.Fatalf("LoadEntries: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(got))
	}
	e := got["/data/account.csv"]
	if len(e.Data.Accounts) != 1 || e.Data.Accounts[0].Level != 280 {
		t.Errorf("Accounts = %+v", e.Data.Accounts)
	}
	if len(e.Data.Regions[config.Arcane]) != 1 {
		t.Errorf("Regions = %+v", e.Data.Regions)
	}
	if len(e.Warnings) != 1 {
		t.Errorf("Warnings = %v, want 1", e.Warnings)
	}

	accounts, err := c.CachedAccounts()
	if err != nil {
		t.Fatalf("CachedAccounts: %v", err)
	}
	if accounts["Alpha"].JobName != "hero" {
		t.Errorf("CachedAccounts = %+v", accounts)
	}
}

func TestSaveEntryReplacesAccounts(t *testing.T) {
	c := openTemp(t)

	first := Entry{Path: "/d/a.csv", Name: "a.csv", Kind: "accounts", Format: "csv",
		Data: &model.Dataset{Accounts: []model.Account{{IGN: "Old", Level: 1}}}}
	second := Entry{Path: "/d/a.csv", Name: "a.csv", Kind: "accounts", Format: "csv",
		Data: &model.Dataset{Accounts: []model.Account{{IGN: "New", Level: 2}}}}

	if err := c.SaveEntry(first, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveEntry(second, 2, 2); err != nil {
		t.Fatal(err)
	}

	accounts, err := c.CachedAccounts()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := accounts["Old"]; ok {
		t.Error("stale account Old still cached")
	}
	if accounts["New"].Level != 2 {
		t.Errorf("New level = %d, want 2", accounts["New"].Level)
	}

	n, err := c.EntryCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("EntryCount = %d, want 1", n)
	}
}

func TestDeleteFile(t *testing.T) {
	c := openTemp(t)
	e := Entry{Path: "/d/cash.csv", Name: "cash.csv", Kind: "cash", Format: "csv", Data: &model.Dataset{}}
	if err := c.SaveEntry(e, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteFile("/d/cash.csv"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	tracked, err := c.GetTrackedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(tracked) != 0 {
		t.Errorf("tracked = %v, want empty", tracked)
	}
}
