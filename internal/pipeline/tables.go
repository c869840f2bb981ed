package pipeline

import (
	"strconv"
	"strings"

	"github.com/my2ndangelic/mapletrack/internal/config"
	"github.com/my2ndangelic/mapletrack/internal/model"
)

// tierRule maps name keywords to a CSS class.
type tierRule struct {
	class    string
	keywords []string
	columns  []string // empty means any column
}

var armorTiers = []tierRule{
	{class: "equipment-princess-no", keywords: []string{"princess no"}, columns: []string{"Secondary"}},
	{class: "equipment-deimos", keywords: []string{"deimos"}},
	{class: "equipment-evolving", keywords: []string{"evolving"}},
	{class: "equipment-absolab", keywords: []string{"absolab", "abso lab"}},
	{class: "equipment-root-abyss", keywords: []string{"root abyss", "cra"}},
	{class: "equipment-arcane", keywords: []string{"arcane", "umbra"}},
}

var accessoryTiers = []tierRule{
	{class: "equipment-pitched", keywords: []string{"pitched"}},
	{class: "equipment-dawn", keywords: []string{"dawn"}},
	{class: "equipment-gollux", keywords: []string{"superior gollux", "reinforced gollux"}},
	{class: "equipment-boss", keywords: []string{"boss"}},
}

// tierClass returns the class of the first rule whose keyword appears in name.
func tierClass(rules []tierRule, column, name string) string {
	lower := strings.ToLower(name)
	if lower == "" {
		return ""
	}
	for _, r := range rules {
		if len(r.columns) > 0 && !containsString(r.columns, column) {
			continue
		}
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.class
			}
		}
	}
	return ""
}

// innerAbilityClasses is checked in order; the first keyword found wins.
var innerAbilityClasses = []struct {
	keyword string
	class   string
}{
	{"AS+", "attack-speed"},
	{"Boss+", "boss-damage"},
	{"Buff+", "buff-duration"},
	{"CDSkip+", "cooldown-skip"},
	{"Meso+", "meso-obtain"},
	{"Item+", "item-drop"},
	{"BD+", "boss-damage"},
	{"Passive+", "passive-skill"},
	{"Abnormal+", "abnormal-status"},
}

// InnerAbilityClass returns the highlight class for an inner ability line
// containing one of the known keywords.
func InnerAbilityClass(line string) string {
	for _, c := range innerAbilityClasses {
		if strings.Contains(line, c.keyword) {
			return c.class
		}
	}
	return ""
}

// ArchetypeClass lowercases an archetype and joins hybrid words with "-".
func ArchetypeClass(archetype string) string {
	return strings.Join(strings.Fields(strings.ToLower(archetype)), "-")
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// numberCell renders a positive integer; zero or absent values are blank.
func numberCell(v int, ok bool) model.Cell {
	if !ok || v == 0 {
		return model.Cell{}
	}
	return model.Cell{Text: strconv.Itoa(v)}
}

// percentCell renders a bonus percentage without trailing zeros.
func percentCell(v float64) model.Cell {
	if v == 0 {
		return model.Cell{}
	}
	return model.Cell{Text: strconv.FormatFloat(v, 'f', -1, 64)}
}

func levelCell(level int) model.Cell {
	if level <= 0 {
		return model.Cell{}
	}
	return model.Cell{Text: strconv.Itoa(level)}
}

// OverviewTable lists derived symbol totals for every character.
func OverviewTable(r *model.Roster) model.Table {
	t := model.Table{
		ID:    "charTable",
		Title: "Overview",
		Headers: []string{
			"Character", "Level", "Arcane Force", "Arcane Stats", "Sacred Force",
			"Sacred Stats", "EXP Bonus (%)", "Meso Bonus (%)", "Drop Bonus (%)",
		},
	}
	for _, c := range r.Characters {
		tot := Totals(c)
		t.Rows = append(t.Rows, model.Row{IGN: c.IGN, Cells: []model.Cell{
			{Text: c.IGN},
			levelCell(c.Level),
			numberCell(tot.ArcaneForce, tot.HasArcaneForce),
			numberCell(tot.ArcaneStat, tot.HasArcaneForce),
			numberCell(tot.SacredForce, tot.HasSacredForce),
			numberCell(tot.SacredStat, tot.HasSacredStat),
			percentCell(tot.ExpBonus),
			percentCell(tot.MesoBonus),
			percentCell(tot.DropBonus),
		}})
	}
	return t
}

// ProgressionTable lists each character's job details.
func ProgressionTable(r *model.Roster) model.Table {
	t := model.Table{
		ID:      "progressionTable",
		Title:   "Progression",
		Headers: []string{"Character", "Level", "Faction", "Archetype", "Class", "Main Stat"},
	}
	for _, c := range r.Characters {
		t.Rows = append(t.Rows, model.Row{IGN: c.IGN, Cells: []model.Cell{
			{Text: c.IGN},
			levelCell(c.Level),
			{Text: c.Job.Faction},
			{Text: c.Job.Archetype, Class: ArchetypeClass(c.Job.Archetype)},
			{Text: c.Job.DisplayName()},
			{Text: c.Job.MainStat},
		}})
	}
	return t
}

func equipmentTable(r *model.Roster, id, title string, slots []string, rules []tierRule, pick func(model.Character) map[string]string) model.Table {
	t := model.Table{
		ID:      id,
		Title:   title,
		Headers: append([]string{"Character", "Level"}, slots...),
	}
	for _, c := range r.Characters {
		items := pick(c)
		if items == nil {
			continue
		}
		cells := []model.Cell{{Text: c.IGN}, levelCell(c.Level)}
		for _, slot := range slots {
			name := items[slot]
			cells = append(cells, model.Cell{Text: name, Class: tierClass(rules, slot, name)})
		}
		t.Rows = append(t.Rows, model.Row{IGN: c.IGN, Cells: cells})
	}
	return t
}

// EquipmentTable lists armor with tier highlighting.
func EquipmentTable(r *model.Roster) model.Table {
	return equipmentTable(r, "equipmentTable", "Equipment", model.ArmorSlots, armorTiers,
		func(c model.Character) map[string]string { return c.Armor })
}

// AccessoryTable lists accessories with tier highlighting.
func AccessoryTable(r *model.Roster) model.Table {
	return equipmentTable(r, "accessoryTable", "Accessories", model.AccessorySlots, accessoryTiers,
		func(c model.Character) map[string]string { return c.Accessory })
}

// CashTable lists cash shop flags.
func CashTable(r *model.Roster) model.Table {
	t := model.Table{
		ID:      "cashTable",
		Title:   "Cash",
		Headers: []string{"Character", "Level", "Pet Snack"},
	}
	for _, c := range r.Characters {
		if c.Cash == nil {
			continue
		}
		cell := model.Cell{Text: c.Cash.PetSnack}
		if c.Cash.PetSnack == "Yes" {
			cell.Class = "pet-snack-yes"
		}
		t.Rows = append(t.Rows, model.Row{IGN: c.IGN, Cells: []model.Cell{
			{Text: c.IGN}, levelCell(c.Level), cell,
		}})
	}
	return t
}

// SymbolTable lists per-region levels of one symbol kind. Maxed regions
// get the symbol-max class.
func SymbolTable(r *model.Roster, kind config.SymbolKind) model.Table {
	regions := r.Regions[kind]
	spec, _ := config.LookupSymbol(kind)

	ids := map[config.SymbolKind]string{
		config.Arcane:      "arcaneTable",
		config.Sacred:      "sacredTable",
		config.GrandSacred: "grandSacredTable",
	}
	t := model.Table{
		ID:      ids[kind],
		Title:   kind.Title() + " Symbols",
		Headers: append([]string{"Character", "Level"}, regions...),
	}

	for _, c := range r.Characters {
		levels, ok := c.Symbols[kind]
		if !ok {
			continue
		}
		byRegion := make(map[string]int, len(levels))
		for _, l := range levels {
			byRegion[l.Region] = l.Level
		}
		cells := []model.Cell{{Text: c.IGN}, levelCell(c.Level)}
		for _, region := range regions {
			lvl := byRegion[region]
			if lvl <= 0 {
				cells = append(cells, model.Cell{})
				continue
			}
			cell := model.Cell{Text: strconv.Itoa(lvl)}
			if spec.MaxLevel > 0 && lvl == spec.MaxLevel {
				cell.Class = "symbol-max"
			}
			cells = append(cells, cell)
		}
		t.Rows = append(t.Rows, model.Row{IGN: c.IGN, Cells: cells})
	}
	return t
}

// InnerAbilityTable lists the three presets. The first line of each preset
// is highlighted by stat type.
func InnerAbilityTable(r *model.Roster) model.Table {
	headers := []string{"Character", "Level"}
	for p := 1; p <= 3; p++ {
		for l := 1; l <= 3; l++ {
			headers = append(headers, "P"+strconv.Itoa(p)+" L"+strconv.Itoa(l))
		}
	}
	t := model.Table{ID: "innerAbilityTable", Title: "Inner Ability", Headers: headers}

	for _, c := range r.Characters {
		if c.InnerAbility == nil {
			continue
		}
		cells := []model.Cell{{Text: c.IGN}, levelCell(c.Level)}
		for _, preset := range c.InnerAbility.Presets {
			for l, line := range preset {
				cell := model.Cell{Text: line}
				if l == 0 {
					cell.Class = InnerAbilityClass(line)
				}
				cells = append(cells, cell)
			}
		}
		t.Rows = append(t.Rows, model.Row{IGN: c.IGN, Cells: cells})
	}
	return t
}
