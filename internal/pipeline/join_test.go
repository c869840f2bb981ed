package pipeline

import (
	"strings"
	"testing"

	"github.com/my2ndangelic/mapletrack/internal/config"
	"github.com/my2ndangelic/mapletrack/internal/model"
)

var testJobs = []model.Job{
	{JobName: "hero", Faction: "Explorer", Archetype: "Warrior", FullName: "Hero", MainStat: "STR"},
	{JobName: "bishop", Faction: "Explorer", Archetype: "Magician", FullName: "Bishop", MainStat: "INT"},
	{JobName: "xenon", Faction: "Resistance", Archetype: "Thief Pirate", FullName: "Xenon", MainStat: "STR DEX LUK"},
	{JobName: "da", Faction: "Resistance", Archetype: "Warrior", FullName: "Demon Avenger", MainStat: "HP"},
	{JobName: "dw", Faction: "Cygnus Knights", Archetype: "Warrior", FullName: "Dawn Warrior", MainStat: "STR"},
}

func testDataset() *model.Dataset {
	return &model.Dataset{
		Accounts: []model.Account{
			{IGN: "Alpha", Level: 260, JobName: "Bishop"},
			{IGN: "Beta", Level: 275, JobName: "hero"},
			{IGN: "Gamma", Level: 260, JobName: "dw"},
			{IGN: "Delta", Level: 260, JobName: "hero"},
			{IGN: "Ghost", Level: 250, JobName: "nope"},
		},
		Jobs: testJobs,
		Symbols: []model.SymbolRecord{
			{IGN: "Beta", Kind: config.Arcane, Levels: []model.SymbolLevel{
				{Region: "Esfera", Level: 5}, {Region: "Vanishing Journey", Level: 20},
			}},
			{IGN: "Nobody", Kind: config.Sacred, Levels: []model.SymbolLevel{{Region: "Cernium", Level: 1}}},
		},
		Equipment: []model.EquipmentRecord{
			{IGN: "Beta", Group: model.GroupArmor, Slots: map[string]string{"Hat": "Absolab Hat"}},
			{IGN: "Beta", Group: model.GroupAccessory, Slots: map[string]string{"Face": "Dawn Face"}},
		},
		Cash:         []model.CashRecord{{IGN: "Alpha", PetSnack: "Yes"}},
		InnerAbility: []model.InnerAbilityRecord{{IGN: "Delta", Presets: [3][3]string{{"Boss+20%"}}}},
	}
}

func igns(chars []model.Character) string {
	names := make([]string, len(chars))
	for i, c := range chars {
		names[i] = c.IGN
	}
	return strings.Join(names, ",")
}

func TestJobIndex_Lookup(t *testing.T) {
	idx := NewJobIndex(testJobs)
	for _, name := range []string{"hero", "HERO", " Hero ", "Demon Avenger", "da"} {
		if _, ok := idx.Lookup(name); !ok {
			t.Errorf("Lookup(%q) not found", name)
		}
	}
	if _, ok := idx.Lookup("kanna"); ok {
		t.Error("Lookup(kanna) found, want missing")
	}
}

func TestBuildRoster_SkipsMissingJob(t *testing.T) {
	r := BuildRoster(testDataset())

	if got := igns(r.Characters); got != "Alpha,Beta,Gamma,Delta" {
		t.Errorf("characters = %s, want account order without Ghost", got)
	}

	var jobWarn, orphanWarn bool
	for _, w := range r.Warnings {
		if strings.Contains(w, `job not found for jobName "nope"`) {
			jobWarn = true
		}
		if strings.Contains(w, `no character for IGN "Nobody"`) {
			orphanWarn = true
		}
	}
	if !jobWarn || !orphanWarn {
		t.Errorf("warnings = %v, want missing job and orphan record", r.Warnings)
	}
}

func TestBuildRoster_JoinsRecords(t *testing.T) {
	r := BuildRoster(testDataset())
	byIGN := map[string]model.Character{}
	for _, c := range r.Characters {
		byIGN[c.IGN] = c
	}

	beta := byIGN["Beta"]
	if beta.Job.FullName != "Hero" {
		t.Errorf("Beta job = %+v", beta.Job)
	}
	if beta.Armor["Hat"] != "Absolab Hat" || beta.Accessory["Face"] != "Dawn Face" {
		t.Errorf("Beta equipment = %v / %v", beta.Armor, beta.Accessory)
	}
	levels := beta.SymbolValues(config.Arcane)
	want := []int{20, 0, 0, 0, 0, 5}
	if len(levels) != len(want) {
		t.Fatalf("arcane levels = %v, want %v", levels, want)
	}
	for i := range want {
		if levels[i] != want[i] {
			t.Fatalf("arcane levels = %v, want %v", levels, want)
		}
	}

	if byIGN["Alpha"].Cash == nil || byIGN["Alpha"].Cash.PetSnack != "Yes" {
		t.Errorf("Alpha cash = %+v", byIGN["Alpha"].Cash)
	}
	if byIGN["Delta"].InnerAbility == nil {
		t.Error("Delta inner ability missing")
	}
	if byIGN["Gamma"].Symbols != nil {
		t.Errorf("Gamma symbols = %v, want none", byIGN["Gamma"].Symbols)
	}
}

func TestBuildRoster_DuplicateAccount(t *testing.T) {
	ds := &model.Dataset{
		Accounts: []model.Account{{IGN: "A", Level: 200, JobName: "hero"}, {IGN: "A", Level: 210, JobName: "hero"}},
		Jobs:     testJobs,
	}
	r := BuildRoster(ds)
	if len(r.Characters) != 1 || r.Characters[0].Level != 200 {
		t.Errorf("characters = %+v, want first A only", r.Characters)
	}
	if len(r.Warnings) != 1 {
		t.Errorf("warnings = %v, want 1", r.Warnings)
	}
}

func TestBuildRoster_DataRegionsOverrideConfig(t *testing.T) {
	ds := &model.Dataset{
		Regions: map[config.SymbolKind][]string{config.Arcane: {"Esfera", "Arcana"}},
	}
	r := BuildRoster(ds)
	if got := strings.Join(r.Regions[config.Arcane], ","); got != "Esfera,Arcana" {
		t.Errorf("arcane regions = %s", got)
	}
	if len(r.Regions[config.Sacred]) != 6 {
		t.Errorf("sacred regions = %v, want configured defaults", r.Regions[config.Sacred])
	}
}

func TestSortCharacters_Class(t *testing.T) {
	r := BuildRoster(testDataset())
	SortCharacters(r.Characters, r.Jobs, SortByClass)
	// 275 first; at 260 Explorer comes before Cygnus, and Warrior before Magician.
	if got := igns(r.Characters); got != "Beta,Delta,Alpha,Gamma" {
		t.Errorf("class sort = %s, want Beta,Delta,Alpha,Gamma", got)
	}
}

func TestSortCharacters_LevelIsStable(t *testing.T) {
	r := BuildRoster(testDataset())
	SortCharacters(r.Characters, r.Jobs, SortByLevel)
	if got := igns(r.Characters); got != "Beta,Alpha,Gamma,Delta" {
		t.Errorf("level sort = %s, want ties in account order", got)
	}
}

func TestSortCharacters_UnknownFactionLast(t *testing.T) {
	chars := []model.Character{
		{Account: model.Account{IGN: "X", Level: 200}, Job: model.Job{Faction: "Other"}},
		{Account: model.Account{IGN: "Y", Level: 200}, Job: model.Job{Faction: "Resistance"}},
	}
	SortCharacters(chars, testJobs, SortByClass)
	if got := igns(chars); got != "Y,X" {
		t.Errorf("sort = %s, want Y,X", got)
	}
}

func TestParseSortMode(t *testing.T) {
	if m, err := ParseSortMode(""); err != nil || m != SortByClass {
		t.Errorf(`ParseSortMode("") = %v, %v`, m, err)
	}
	if m, err := ParseSortMode("Level"); err != nil || m != SortByLevel {
		t.Errorf(`ParseSortMode("Level") = %v, %v`, m, err)
	}
	if _, err := ParseSortMode("name"); err == nil {
		t.Error(`ParseSortMode("name") succeeded, want error`)
	}
}

func TestBuild_Filter(t *testing.T) {
	r := Build(testDataset(), Options{Sort: SortByClass, Filter: Filter{Faction: "explorer"}})
	if got := igns(r.Characters); got != "Beta,Delta,Alpha" {
		t.Errorf("explorer filter = %s", got)
	}
	r = Build(testDataset(), Options{Filter: Filter{Job: "dawn"}})
	if got := igns(r.Characters); got != "Gamma" {
		t.Errorf("job filter = %s, want Gamma", got)
	}
}

func TestSummarize(t *testing.T) {
	r := BuildRoster(testDataset())
	s := Summarize(r)
	if s.Characters != 4 || s.TotalLevel != 1055 {
		t.Errorf("Characters/TotalLevel = %d/%d, want 4/1055", s.Characters, s.TotalLevel)
	}
	if s.HighestIGN != "Beta" || s.HighestLevel != 275 {
		t.Errorf("highest = %s %d", s.HighestIGN, s.HighestLevel)
	}
	if s.ArcaneForce != 220+70 {
		t.Errorf("ArcaneForce = %d, want 290", s.ArcaneForce)
	}
	if s.MaxedSymbols != 1 {
		t.Errorf("MaxedSymbols = %d, want 1", s.MaxedSymbols)
	}
	if s.Factions["Explorer"] != 3 {
		t.Errorf("Factions = %v", s.Factions)
	}
	if s.Warnings != 2 {
		t.Errorf("Warnings = %d, want 2", s.Warnings)
	}
}
