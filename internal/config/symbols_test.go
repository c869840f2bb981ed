package config

import (
	"os"
	"path/filepath"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestStatScaleApply(t *testing.T) {
	tests := []struct {
		name  string
		scale StatScale
		raw   int
		want  int
	}{
		{"unscaled", Unscaled, 1300, 1300},
		{"zero value acts as identity", StatScale{}, 700, 700},
		{"hybrid divides", StatScale{Multiplier: 1, Divisor: 3}, 300, 100},
		{"hybrid floors", StatScale{Multiplier: 1, Divisor: 3}, 400, 133},
		{"hp multiplies", StatScale{Multiplier: 21, Divisor: 1}, 300, 6300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scale.Apply(tt.raw); got != tt.want {
				t.Fatalf("Apply(%d) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestLookupStatScale(t *testing.T) {
	if got := LookupStatScale("Xenon"); got.Divisor != 3 {
		t.Fatalf("Xenon divisor = %d, want 3", got.Divisor)
	}
	if got := LookupStatScale("", "Demon Avenger"); got.Multiplier != 21 {
		t.Fatalf("Demon Avenger multiplier = %d, want 21", got.Multiplier)
	}
	if got := LookupStatScale("hero"); got != Unscaled {
		t.Fatalf("hero scale = %+v, want %+v", got, Unscaled)
	}
}

func TestApplyOverrides(t *testing.T) {
	defer ResetOverrides()

	cfg := DefaultConfig()
	cfg.Symbols = map[string]SymbolOverride{
		"arcane": {MaxLevel: intPtr(30), BaseStat: intPtr(350)},
	}
	cfg.StatScale = map[string]StatScaleConfig{
		"DA": {Multiplier: 15, Divisor: 1},
	}
	if err := ApplyOverrides(cfg); err != nil {
		t.Fatalf("ApplyOverrides: %v", err)
	}

	spec, ok := LookupSymbol(Arcane)
	if !ok {
		t.Fatal("LookupSymbol(Arcane) returned !ok")
	}
	if spec.MaxLevel != 30 || spec.BaseStat != 350 {
		t.Fatalf("arcane spec = %+v, want MaxLevel 30 and BaseStat 350", spec)
	}
	if spec.BaseForce != 30 {
		t.Fatalf("BaseForce = %d, want untouched 30", spec.BaseForce)
	}
	if got := LookupStatScale("da"); got.Multiplier != 15 {
		t.Fatalf("da multiplier = %d, want 15", got.Multiplier)
	}

	ResetOverrides()
	spec, _ = LookupSymbol(Arcane)
	if spec.MaxLevel != 20 {
		t.Fatalf("MaxLevel after reset = %d, want 20", spec.MaxLevel)
	}
}

func TestApplyOverrides_UnknownKind(t *testing.T) {
	defer ResetOverrides()

	cfg := DefaultConfig()
	cfg.Symbols = map[string]SymbolOverride{"cosmic": {MaxLevel: intPtr(5)}}
	if err := ApplyOverrides(cfg); err == nil {
		t.Fatal("expected error for unknown symbol kind")
	}
}

func TestParseSymbolKind(t *testing.T) {
	for in, want := range map[string]SymbolKind{
		"Arcane":       Arcane,
		"sacred":       Sacred,
		"Grand Sacred": GrandSacred,
		"grand_sacred": GrandSacred,
	} {
		got, err := ParseSymbolKind(in)
		if err != nil {
			t.Fatalf("ParseSymbolKind(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseSymbolKind(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	defer ResetOverrides()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load without file: %v", err)
	}
	if cfg.General.Sort != "class" {
		t.Fatalf("default sort = %q, want class", cfg.General.Sort)
	}

	cfg.General.DataDir = "/srv/maple"
	cfg.Appearance.DarkMode = true
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ConfigDir(), "config.toml")); err != nil {
		t.Fatalf("config file missing: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.General.DataDir != "/srv/maple" || !loaded.Appearance.DarkMode {
		t.Fatalf("loaded = %+v, want saved values", loaded)
	}
}

func TestLoad_DropsRemovedOverrides(t *testing.T) {
	defer ResetOverrides()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Symbols = map[string]SymbolOverride{"sacred": {MaxLevel: intPtr(15)}}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if spec, _ := LookupSymbol(Sacred); spec.MaxLevel != 15 {
		t.Fatalf("MaxLevel = %d, want 15", spec.MaxLevel)
	}

	cfg.Symbols = nil
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if spec, _ := LookupSymbol(Sacred); spec.MaxLevel != 11 {
		t.Fatalf("MaxLevel after override removed = %d, want 11", spec.MaxLevel)
	}
}

func TestResolveDataDir_EnvWins(t *testing.T) {
	t.Setenv("MAPLETRACK_DATA_DIR", "/from/env")
	cfg := DefaultConfig()
	if got := ResolveDataDir(cfg); got != "/from/env" {
		t.Fatalf("ResolveDataDir = %q, want /from/env", got)
	}
}
