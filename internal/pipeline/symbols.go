package pipeline

import (
	"github.com/my2ndangelic/mapletrack/internal/config"
	"github.com/my2ndangelic/mapletrack/internal/model"
)

// Force sums base + perLevel*(level-1) over every owned region.
// ok is false when levels is nil or no region is above level 0.
func Force(levels []int, base, perLevel int) (total int, ok bool) {
	for _, lvl := range levels {
		if lvl <= 0 {
			continue
		}
		total += base + perLevel*(lvl-1)
		ok = true
	}
	return total, ok
}

// Stat sums the per-region stat like Force and applies the job scale.
func Stat(levels []int, base, perLevel int, scale config.StatScale) (int, bool) {
	raw, ok := Force(levels, base, perLevel)
	if !ok {
		return 0, false
	}
	return scale.Apply(raw), true
}

// bonus sums a fractional per-level bonus the same way as Force.
func bonus(levels []int, base, perLevel float64) (float64, bool) {
	var total float64
	var ok bool
	for _, lvl := range levels {
		if lvl <= 0 {
			continue
		}
		total += base + perLevel*float64(lvl-1)
		ok = true
	}
	return total, ok
}

// SymbolTotals holds the derived values of one character.
type SymbolTotals struct {
	ArcaneForce    int
	HasArcaneForce bool
	ArcaneStat     int
	SacredForce    int
	HasSacredForce bool
	SacredStat     int
	HasSacredStat  bool
	ExpBonus       float64
	MesoBonus      float64
	DropBonus      float64
}

// CharacterForce returns the force of one kind for a character.
func CharacterForce(c model.Character, kind config.SymbolKind) (int, bool) {
	spec, ok := config.LookupSymbol(kind)
	if !ok {
		return 0, false
	}
	return Force(c.SymbolValues(kind), spec.BaseForce, spec.ForcePerLevel)
}

// CharacterStat returns the job-scaled stat of one kind for a character.
func CharacterStat(c model.Character, kind config.SymbolKind) (int, bool) {
	spec, ok := config.LookupSymbol(kind)
	if !ok {
		return 0, false
	}
	scale := config.LookupStatScale(c.JobName, c.Job.JobName, c.Job.FullName)
	return Stat(c.SymbolValues(kind), spec.BaseStat, spec.StatPerLevel, scale)
}

// Totals computes every derived symbol value shown on the overview.
// Sacred force combines Sacred and Grand Sacred symbols; sacred stat does not.
func Totals(c model.Character) SymbolTotals {
	var t SymbolTotals

	t.ArcaneForce, t.HasArcaneForce = CharacterForce(c, config.Arcane)
	t.ArcaneStat, _ = CharacterStat(c, config.Arcane)

	sacred, hasSacred := CharacterForce(c, config.Sacred)
	grand, hasGrand := CharacterForce(c, config.GrandSacred)
	t.SacredForce = sacred + grand
	t.HasSacredForce = hasSacred || hasGrand

	t.SacredStat, t.HasSacredStat = CharacterStat(c, config.Sacred)

	b := config.GrandSacredBonus()
	levels := c.SymbolValues(config.GrandSacred)
	t.ExpBonus, _ = bonus(levels, b.BaseExp, b.ExpPerLevel)
	t.MesoBonus, _ = bonus(levels, b.BaseMeso, b.MesoPerLvl)
	t.DropBonus, _ = bonus(levels, b.BaseDrop, b.DropPerLvl)
	return t
}

// MaxedSymbols counts regions at their kind's max level.
func MaxedSymbols(c model.Character) int {
	n := 0
	for kind, levels := range c.Symbols {
		spec, ok := config.LookupSymbol(kind)
		if !ok || spec.MaxLevel <= 0 {
			continue
		}
		for _, l := range levels {
			if l.Level >= spec.MaxLevel {
				n++
			}
		}
	}
	return n
}
