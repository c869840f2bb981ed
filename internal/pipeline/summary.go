package pipeline

import (
	"github.com/my2ndangelic/mapletrack/internal/config"
	"github.com/my2ndangelic/mapletrack/internal/model"
)

// Summarize computes roster-wide totals.
func Summarize(r *model.Roster) model.RosterSummary {
	s := model.RosterSummary{
		Factions: make(map[string]int),
		Warnings: len(r.Warnings),
	}

	for _, c := range r.Characters {
		s.Characters++
		s.TotalLevel += c.Level
		if c.Level > s.HighestLevel {
			s.HighestLevel = c.Level
			s.HighestIGN = c.IGN
		}
		if c.Job.Faction != "" {
			s.Factions[c.Job.Faction]++
		}

		if f, ok := CharacterForce(c, config.Arcane); ok {
			s.ArcaneForce += f
		}
		for _, k := range []config.SymbolKind{config.Sacred, config.GrandSacred} {
			if f, ok := CharacterForce(c, k); ok {
				s.SacredForce += f
			}
		}
		s.MaxedSymbols += MaxedSymbols(c)
	}

	if s.Characters > 0 {
		s.AverageLevel = float64(s.TotalLevel) / float64(s.Characters)
	}
	return s
}
