package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/my2ndangelic/mapletrack/internal/model"
)

// SortMode selects the character ordering.
type SortMode string

const (
	// SortByLevel orders by descending level only.
	SortByLevel SortMode = "level"
	// SortByClass orders by descending level, then faction, then archetype.
	SortByClass SortMode = "class"
)

// ParseSortMode validates a sort mode name. Empty means SortByClass.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByClass:
		return SortByClass, nil
	case SortByLevel:
		return SortByLevel, nil
	}
	return "", fmt.Errorf("unknown sort mode %q (want class or level)", s)
}

// rankIndex assigns each value its first-appearance position.
func rankIndex(values []string) map[string]int {
	out := make(map[string]int, len(values))
	for _, v := range values {
		k := strings.ToLower(v)
		if _, ok := out[k]; !ok {
			out[k] = len(out)
		}
	}
	return out
}

// SortCharacters sorts in place. The sort is stable, so ties keep account order.
// Faction and archetype ranks follow their first appearance in jobs; values
// absent from jobs sort after known ones.
func SortCharacters(chars []model.Character, jobs []model.Job, mode SortMode) {
	if mode == SortByLevel {
		sort.SliceStable(chars, func(i, j int) bool {
			return chars[i].Level > chars[j].Level
		})
		return
	}

	factions := make([]string, 0, len(jobs))
	archetypes := make([]string, 0, len(jobs))
	for _, j := range jobs {
		factions = append(factions, j.Faction)
		archetypes = append(archetypes, j.Archetype)
	}
	factionRank := rankIndex(factions)
	archRank := rankIndex(archetypes)
	rank := func(idx map[string]int, v string) int {
		if r, ok := idx[strings.ToLower(v)]; ok {
			return r
		}
		return len(idx)
	}

	sort.SliceStable(chars, func(i, j int) bool {
		a, b := chars[i], chars[j]
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		if fa, fb := rank(factionRank, a.Job.Faction), rank(factionRank, b.Job.Faction); fa != fb {
			return fa < fb
		}
		return rank(archRank, a.Job.Archetype) < rank(archRank, b.Job.Archetype)
	})
}

// Filter narrows a character list. Job matches a substring of the short or
// full job name; Faction matches exactly. Both ignore case and empty
// values match everything.
type Filter struct {
	Job     string
	Faction string
}

// Apply returns the characters that match f.
func (f Filter) Apply(chars []model.Character) []model.Character {
	if f.Job == "" && f.Faction == "" {
		return chars
	}
	job := strings.ToLower(f.Job)
	faction := strings.ToLower(f.Faction)

	var out []model.Character
	for _, c := range chars {
		if job != "" &&
			!strings.Contains(strings.ToLower(c.Job.JobName), job) &&
			!strings.Contains(strings.ToLower(c.Job.FullName), job) {
			continue
		}
		if faction != "" && !strings.EqualFold(c.Job.Faction, f.Faction) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Options controls how a dataset becomes a roster.
type Options struct {
	Sort   SortMode
	Filter Filter
}

// Build joins, filters and sorts a dataset.
func Build(ds *model.Dataset, opts Options) *model.Roster {
	roster := BuildRoster(ds)
	roster.Characters = opts.Filter.Apply(roster.Characters)
	SortCharacters(roster.Characters, roster.Jobs, opts.Sort)
	return roster
}
