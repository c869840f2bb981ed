package pipeline

import (
	"fmt"
	"strings"

	"github.com/my2ndangelic/mapletrack/internal/config"
	"github.com/my2ndangelic/mapletrack/internal/model"
)

// JobIndex resolves job names case-insensitively, by short or full name.
type JobIndex struct {
	jobs   []model.Job
	byName map[string]int
}

// NewJobIndex indexes jobs. When two jobs share a name the first one wins.
func NewJobIndex(jobs []model.Job) *JobIndex {
	idx := &JobIndex{jobs: jobs, byName: make(map[string]int, len(jobs)*2)}
	for i, j := range jobs {
		for _, key := range []string{j.JobName, j.FullName} {
			k := strings.ToLower(strings.TrimSpace(key))
			if k == "" {
				continue
			}
			if _, dup := idx.byName[k]; !dup {
				idx.byName[k] = i
			}
		}
	}
	return idx
}

// Lookup returns the job for a name.
func (x *JobIndex) Lookup(name string) (model.Job, bool) {
	i, ok := x.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return model.Job{}, false
	}
	return x.jobs[i], true
}

// BuildRoster joins accounts with jobs and every optional record by IGN.
// Accounts with an unknown job and records without an account are skipped
// with a warning. The result keeps account order; see SortCharacters.
func BuildRoster(ds *model.Dataset) *model.Roster {
	roster := &model.Roster{
		Jobs:    ds.Jobs,
		Regions: resolveRegions(ds.Regions),
	}
	jobs := NewJobIndex(ds.Jobs)

	byIGN := make(map[string]int, len(ds.Accounts))
	for _, a := range ds.Accounts {
		if _, dup := byIGN[a.IGN]; dup {
			roster.Warnings = append(roster.Warnings, fmt.Sprintf("duplicate account %q ignored", a.IGN))
			continue
		}
		job, ok := jobs.Lookup(a.JobName)
		if !ok {
			roster.Warnings = append(roster.Warnings, fmt.Sprintf("job not found for jobName %q (%s)", a.JobName, a.IGN))
			continue
		}
		byIGN[a.IGN] = len(roster.Characters)
		roster.Characters = append(roster.Characters, model.Character{Account: a, Job: job})
	}

	find := func(what, ign string) *model.Character {
		i, ok := byIGN[ign]
		if !ok {
			roster.Warnings = append(roster.Warnings, fmt.Sprintf("%s: no character for IGN %q", what, ign))
			return nil
		}
		return &roster.Characters[i]
	}

	for _, s := range ds.Symbols {
		c := find(string(s.Kind), s.IGN)
		if c == nil {
			continue
		}
		if c.Symbols == nil {
			c.Symbols = make(map[config.SymbolKind][]model.SymbolLevel)
		}
		c.Symbols[s.Kind] = alignLevels(s.Levels, roster.Regions[s.Kind])
	}

	for _, e := range ds.Equipment {
		c := find(e.Group, e.IGN)
		if c == nil {
			continue
		}
		target := &c.Armor
		if e.Group == model.GroupAccessory {
			target = &c.Accessory
		}
		if *target == nil {
			*target = make(map[string]string, len(e.Slots))
		}
		for k, v := range e.Slots {
			(*target)[k] = v
		}
	}

	for i := range ds.Cash {
		if c := find("cash", ds.Cash[i].IGN); c != nil {
			rec := ds.Cash[i]
			c.Cash = &rec
		}
	}

	for i := range ds.InnerAbility {
		if c := find("inner ability", ds.InnerAbility[i].IGN); c != nil {
			rec := ds.InnerAbility[i]
			c.InnerAbility = &rec
		}
	}

	return roster
}

// resolveRegions starts from the configured regions and lets data files override them.
func resolveRegions(fromData map[config.SymbolKind][]string) map[config.SymbolKind][]string {
	out := make(map[config.SymbolKind][]string, len(config.SymbolKinds))
	for _, k := range config.SymbolKinds {
		if spec, ok := config.LookupSymbol(k); ok {
			out[k] = spec.Regions
		}
	}
	for k, v := range fromData {
		if len(v) > 0 {
			out[k] = v
		}
	}
	return out
}

// alignLevels lays levels out in region order. Regions missing from the
// record are level 0; regions not in the order are appended.
func alignLevels(levels []model.SymbolLevel, order []string) []model.SymbolLevel {
	if len(order) == 0 {
		return levels
	}
	byRegion := make(map[string]int, len(levels))
	for _, l := range levels {
		byRegion[l.Region] = l.Level
	}
	out := make([]model.SymbolLevel, 0, len(order))
	placed := make(map[string]bool, len(order))
	for _, r := range order {
		out = append(out, model.SymbolLevel{Region: r, Level: byRegion[r]})
		placed[r] = true
	}
	for _, l := range levels {
		if !placed[l.Region] {
			out = append(out, l)
		}
	}
	return out
}
