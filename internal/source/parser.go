// Package source discovers and parses mapletrack data files (CSV and YAML).
package source

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/my2ndangelic/mapletrack/internal/config"
	"github.com/my2ndangelic/mapletrack/internal/model"
)

// ParseResult holds the output of parsing a single data file.
type ParseResult struct {
	File     DiscoveredFile
	Data     *model.Dataset
	Warnings []string
	Err      error
}

// ParseFile reads a data file from disk and decodes it by kind.
func ParseFile(df DiscoveredFile) ParseResult {
	data, err := os.ReadFile(df.Path)
	if err != nil {
		return ParseResult{File: df, Err: err}
	}
	return ParseBytes(df, data)
}

// ParseBytes decodes already-fetched file content.
func ParseBytes(df DiscoveredFile, data []byte) ParseResult {
	res := ParseResult{File: df, Data: &model.Dataset{}}

	if df.Format == FormatYAML {
		var err error
		switch df.Kind {
		case KindDatabase:
			res.Warnings, err = decodeDatabase(data, res.Data)
		case KindJobs:
			err = decodeJobList(data, res.Data)
		case KindRegions:
			err = decodeRegions(data, res.Data)
		default:
			err = fmt.Errorf("no yaml decoder for %s", df.Kind)
		}
		if err != nil {
			res.Err = fmt.Errorf("%s: %w", df.Name, err)
		}
		return res
	}

	sheet, err := ReadSheet(bytes.NewReader(data))
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", df.Name, err)
		return res
	}
	if _, ok := sheet.Column("IGN", "jobName"); !ok {
		res.Err = fmt.Errorf("%s: %w", df.Name, ErrNoHeader)
		return res
	}

	switch df.Kind {
	case KindAccounts:
		res.Warnings = parseAccounts(sheet, res.Data)
	case KindJobs:
		parseJobs(sheet, res.Data)
	case KindArcane:
		parseSymbols(sheet, config.Arcane, res.Data)
	case KindSacred:
		parseSymbols(sheet, config.Sacred, res.Data)
	case KindGrandSacred:
		parseSymbols(sheet, config.GrandSacred, res.Data)
	case KindArmor:
		parseEquipment(sheet, res.Data)
	case KindAccessory:
		parseEquipment(sheet, res.Data)
	case KindCash:
		parseCash(sheet, res.Data)
	case KindInnerAbility:
		parseInnerAbility(sheet, res.Data)
	default:
		res.Err = fmt.Errorf("%s: no csv decoder for %s", df.Name, df.Kind)
	}
	return res
}

func parseAccounts(sheet Sheet, ds *model.Dataset) []string {
	ignCol, _ := sheet.Column("IGN")
	levelCol, _ := sheet.Column("level")
	jobCol, _ := sheet.Column("jobName", "job_name", "job")

	var warnings []string
	for i, row := range sheet.Rows {
		ign := row[ignCol]
		if ign == "" {
			continue
		}
		level, err := atoiBlank(row[levelCol])
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("account.csv row %d: level %q for %s is not a number", i+2, row[levelCol], ign))
		}
		ds.Accounts = append(ds.Accounts, model.Account{
			IGN:     ign,
			Level:   level,
			JobName: row[jobCol],
		})
	}
	return warnings
}

func parseJobs(sheet Sheet, ds *model.Dataset) {
	col := func(names ...string) string {
		h, _ := sheet.Column(names...)
		return h
	}
	jobCol := col("jobName")
	factionCol := col("faction")
	archCol := col("archetype")
	fullCol := col("fullName")
	statCol := col("mainstat", "mainStat")
	linkCol := col("linkSkillMaxLevel")

	for _, row := range sheet.Rows {
		name := row[jobCol]
		if name == "" {
			continue
		}
		link, _ := atoiBlank(row[linkCol])
		ds.Jobs = append(ds.Jobs, model.Job{
			JobName:           name,
			Faction:           row[factionCol],
			Archetype:         row[archCol],
			FullName:          row[fullCol],
			MainStat:          row[statCol],
			LinkSkillMaxLevel: link,
		})
	}
}

// parseSymbols treats every column except IGN as a region, in header order.
func parseSymbols(sheet Sheet, kind config.SymbolKind, ds *model.Dataset) {
	ignCol, _ := sheet.Column("IGN")
	var regions []string
	for _, h := range sheet.Headers {
		if h != ignCol && h != "" {
			regions = append(regions, h)
		}
	}

	for _, row := range sheet.Rows {
		ign := row[ignCol]
		if ign == "" {
			continue
		}
		rec := model.SymbolRecord{IGN: ign, Kind: kind}
		for _, r := range regions {
			lvl, _ := atoiBlank(row[r])
			if lvl < 0 {
				lvl = 0
			}
			rec.Levels = append(rec.Levels, model.SymbolLevel{Region: r, Level: lvl})
		}
		ds.Symbols = append(ds.Symbols, rec)
	}

	if ds.Regions == nil {
		ds.Regions = make(map[config.SymbolKind][]string)
	}
	ds.Regions[kind] = regions
}

// parseEquipment splits each row into armor and accessory records by slot name.
func parseEquipment(sheet Sheet, ds *model.Dataset) {
	ignCol, _ := sheet.Column("IGN")
	for _, row := range sheet.Rows {
		ign := row[ignCol]
		if ign == "" {
			continue
		}
		raw := make(map[string]string, len(row))
		for h, v := range row {
			if h != ignCol {
				raw[h] = v
			}
		}
		ds.Equipment = append(ds.Equipment, splitSlots(ign, raw)...)
	}
}

func splitSlots(ign string, raw map[string]string) []model.EquipmentRecord {
	armor := model.EquipmentRecord{IGN: ign, Group: model.GroupArmor, Slots: map[string]string{}}
	acc := model.EquipmentRecord{IGN: ign, Group: model.GroupAccessory, Slots: map[string]string{}}
	for key, v := range raw {
		name, group, _ := model.CanonicalSlot(key)
		if group == model.GroupAccessory {
			acc.Slots[name] = v
		} else {
			armor.Slots[name] = v
		}
	}

	var out []model.EquipmentRecord
	if len(armor.Slots) > 0 {
		out = append(out, armor)
	}
	if len(acc.Slots) > 0 {
		out = append(out, acc)
	}
	return out
}

func parseCash(sheet Sheet, ds *model.Dataset) {
	ignCol, _ := sheet.Column("IGN")
	snackCol, _ := sheet.Column("Petsnack", "Pet Snack")
	for _, row := range sheet.Rows {
		ign := row[ignCol]
		if ign == "" {
			continue
		}
		ds.Cash = append(ds.Cash, model.CashRecord{IGN: ign, PetSnack: normalizeYesNo(row[snackCol])})
	}
}

func parseInnerAbility(sheet Sheet, ds *model.Dataset) {
	ignCol, _ := sheet.Column("IGN")
	for _, row := range sheet.Rows {
		ign := row[ignCol]
		if ign == "" {
			continue
		}
		rec := model.InnerAbilityRecord{IGN: ign}
		for p := 0; p < 3; p++ {
			for l := 0; l < 3; l++ {
				if h, ok := sheet.Column(fmt.Sprintf("P%d IA%d", p+1, l+1)); ok {
					rec.Presets[p][l] = row[h]
				}
			}
		}
		ds.InnerAbility = append(ds.InnerAbility, rec)
	}
}

// atoiBlank parses an integer, treating blank as zero.
func atoiBlank(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// normalizeYesNo maps truthy spellings to "Yes" and falsy ones to "No".
// Anything else is kept as written.
func normalizeYesNo(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1":
		return "Yes"
	case "no", "n", "false", "0":
		return "No"
	}
	return strings.TrimSpace(s)
}
