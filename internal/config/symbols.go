package config

import (
	"fmt"
	"strings"
	"sync"
)

// SymbolKind names a symbol upgrade track.
type SymbolKind string

const (
	Arcane      SymbolKind = "arcane"
	Sacred      SymbolKind = "sacred"
	GrandSacred SymbolKind = "grandsacred"
)

// SymbolKinds lists every kind in display order.
var SymbolKinds = []SymbolKind{Arcane, Sacred, GrandSacred}

// Title returns the human-readable name of the kind.
func (k SymbolKind) Title() string {
	switch k {
	case Arcane:
		return "Arcane"
	case Sacred:
		return "Sacred"
	case GrandSacred:
		return "Grand Sacred"
	}
	return string(k)
}

// ParseSymbolKind accepts "arcane", "sacred", "grandsacred" and a few spellings of the latter.
func ParseSymbolKind(s string) (SymbolKind, error) {
	switch strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)) {
	case "arcane", "arc":
		return Arcane, nil
	case "sacred", "sac":
		return Sacred, nil
	case "grandsacred", "grand", "gsac":
		return GrandSacred, nil
	}
	return "", fmt.Errorf("unknown symbol kind %q", s)
}

// SymbolSpec holds the per-level constants of one symbol kind.
type SymbolSpec struct {
	BaseForce     int
	ForcePerLevel int
	BaseStat      int
	StatPerLevel  int
	MaxLevel      int
	Regions       []string
}

// BonusSpec holds the percentage bonuses granted by Grand Sacred symbols.
type BonusSpec struct {
	BaseExp     float64
	ExpPerLevel float64
	BaseMeso    float64
	MesoPerLvl  float64
	BaseDrop    float64
	DropPerLvl  float64
}

// DefaultSymbols maps each kind to its constants.
var DefaultSymbols = map[SymbolKind]SymbolSpec{
	Arcane: {
		BaseForce: 30, ForcePerLevel: 10,
		BaseStat: 300, StatPerLevel: 100,
		MaxLevel: 20,
		Regions:  []string{"Vanishing Journey", "Chu Chu Island", "Lachelein", "Arcana", "Morass", "Esfera"},
	},
	Sacred: {
		BaseForce: 10, ForcePerLevel: 10,
		BaseStat: 500, StatPerLevel: 200,
		MaxLevel: 11,
		Regions:  []string{"Cernium", "Hotel Arcus", "Odium", "Shangri-La", "Arteria", "Carcion"},
	},
	GrandSacred: {
		BaseForce: 10, ForcePerLevel: 10,
		BaseStat: 500, StatPerLevel: 200,
		MaxLevel: 11,
		Regions:  []string{"Tallahart", "Geardrak"},
	},
}

// DefaultGrandSacredBonus holds the EXP/meso/drop percentages per symbol level.
var DefaultGrandSacredBonus = BonusSpec{
	BaseExp: 10, ExpPerLevel: 1,
	BaseMeso: 5, MesoPerLvl: 1,
	BaseDrop: 5, DropPerLvl: 1,
}

// StatScale converts a raw symbol stat sum into the value shown for a job.
// Divisor 0 is treated as 1.
type StatScale struct {
	Multiplier int
	Divisor    int
}

// Apply scales a raw stat. Integer division floors the result.
func (s StatScale) Apply(raw int) int {
	m, d := s.Multiplier, s.Divisor
	if m == 0 {
		m = 1
	}
	if d == 0 {
		d = 1
	}
	return raw * m / d
}

// Unscaled is the stat scale of every job without a special entry.
var Unscaled = StatScale{Multiplier: 1, Divisor: 1}

// DefaultStatScales maps lowercased job names (short and full) to their scaling.
// Xenon splits symbol stat across three stats. Demon Avenger converts it to HP.
var DefaultStatScales = map[string]StatScale{
	"xenon":         {Multiplier: 1, Divisor: 3},
	"da":            {Multiplier: 21, Divisor: 1},
	"demon avenger": {Multiplier: 21, Divisor: 1},
	"demonavenger":  {Multiplier: 21, Divisor: 1},
}

var (
	mu           sync.RWMutex
	activeSymbol = copySymbols(DefaultSymbols)
	activeScales = copyScales(DefaultStatScales)
	activeBonus  = DefaultGrandSacredBonus
)

func copySymbols(src map[SymbolKind]SymbolSpec) map[SymbolKind]SymbolSpec {
	out := make(map[SymbolKind]SymbolSpec, len(src))
	for k, v := range src {
		v.Regions = append([]string(nil), v.Regions...)
		out[k] = v
	}
	return out
}

func copyScales(src map[string]StatScale) map[string]StatScale {
	out := make(map[string]StatScale, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// LookupSymbol returns the active constants for a kind.
func LookupSymbol(kind SymbolKind) (SymbolSpec, bool) {
	mu.RLock()
	defer mu.RUnlock()
	spec, ok := activeSymbol[kind]
	return spec, ok
}

// GrandSacredBonus returns the active Grand Sacred bonus table.
func GrandSacredBonus() BonusSpec {
	mu.RLock()
	defer mu.RUnlock()
	return activeBonus
}

// LookupStatScale returns the scale for a job, trying each name in order.
// Unknown jobs are unscaled.
func LookupStatScale(names ...string) StatScale {
	mu.RLock()
	defer mu.RUnlock()
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		if key == "" {
			continue
		}
		if s, ok := activeScales[key]; ok {
			return s
		}
	}
	return Unscaled
}

// ApplyOverrides merges user overrides into the active tables.
func ApplyOverrides(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	for name, o := range cfg.Symbols {
		kind, err := ParseSymbolKind(name)
		if err != nil {
			return fmt.Errorf("symbols override: %w", err)
		}
		spec := activeSymbol[kind]
		if o.BaseForce != nil {
			spec.BaseForce = *o.BaseForce
		}
		if o.ForcePerLevel != nil {
			spec.ForcePerLevel = *o.ForcePerLevel
		}
		if o.BaseStat != nil {
			spec.BaseStat = *o.BaseStat
		}
		if o.StatPerLevel != nil {
			spec.StatPerLevel = *o.StatPerLevel
		}
		if o.MaxLevel != nil {
			spec.MaxLevel = *o.MaxLevel
		}
		activeSymbol[kind] = spec
	}

	for job, s := range cfg.StatScale {
		if s.Divisor < 0 || s.Multiplier < 0 {
			return fmt.Errorf("stat_scale %q: negative values are not allowed", job)
		}
		activeScales[strings.ToLower(job)] = StatScale(s)
	}
	return nil
}

// ResetOverrides restores the built-in tables.
func ResetOverrides() {
	mu.Lock()
	defer mu.Unlock()
	activeSymbol = copySymbols(DefaultSymbols)
	activeScales = copyScales(DefaultStatScales)
	activeBonus = DefaultGrandSacredBonus
}
