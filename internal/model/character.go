// Package model defines domain types for mapletrack characters and tables.
package model

import "github.com/my2ndangelic/mapletrack/internal/config"

// Account is one row of the account list.
type Account struct {
	IGN     string `json:"ign" yaml:"ign"`
	Level   int    `json:"level" yaml:"level"`
	JobName string `json:"jobName" yaml:"jobName"`
}

// Job describes a job class.
type Job struct {
	JobName           string `json:"jobName" yaml:"jobName"`
	Faction           string `json:"faction" yaml:"faction"`
	Archetype         string `json:"archetype" yaml:"archetype"`
	FullName          string `json:"fullName" yaml:"fullName"`
	MainStat          string `json:"mainstat" yaml:"mainstat"`
	LinkSkillMaxLevel int    `json:"linkSkillMaxLevel" yaml:"linkSkillMaxLevel"`
}

// DisplayName returns the full job name, or the short name when none is set.
func (j Job) DisplayName() string {
	if j.FullName != "" {
		return j.FullName
	}
	return j.JobName
}

// SymbolLevel is the level of a single region. Zero means unowned.
type SymbolLevel struct {
	Region string `json:"region"`
	Level  int    `json:"level"`
}

// SymbolRecord holds one character's levels for one symbol kind.
type SymbolRecord struct {
	IGN    string            `json:"ign"`
	Kind   config.SymbolKind `json:"kind"`
	Levels []SymbolLevel     `json:"levels"`
}

// Values returns the levels in region order.
func (r SymbolRecord) Values() []int {
	out := make([]int, len(r.Levels))
	for i, l := range r.Levels {
		out[i] = l.Level
	}
	return out
}

// Equipment groups.
const (
	GroupArmor     = "armor"
	GroupAccessory = "accessory"
)

// EquipmentRecord holds the item names a character has equipped in one group.
type EquipmentRecord struct {
	IGN   string            `json:"ign"`
	Group string            `json:"group"`
	Slots map[string]string `json:"slots"`
}

// CashRecord holds cash shop flags.
type CashRecord struct {
	IGN      string `json:"ign"`
	PetSnack string `json:"petSnack"`
}

// InnerAbilityRecord holds three presets of three lines each.
type InnerAbilityRecord struct {
	IGN     string       `json:"ign"`
	Presets [3][3]string `json:"presets"`
}

// Dataset is the raw, unjoined content of one or more data files.
type Dataset struct {
	Accounts     []Account                      `json:"accounts,omitempty"`
	Jobs         []Job                          `json:"jobs,omitempty"`
	Symbols      []SymbolRecord                 `json:"symbols,omitempty"`
	Equipment    []EquipmentRecord              `json:"equipment,omitempty"`
	Cash         []CashRecord                   `json:"cash,omitempty"`
	InnerAbility []InnerAbilityRecord           `json:"innerAbility,omitempty"`
	Regions      map[config.SymbolKind][]string `json:"regions,omitempty"`
}

// Merge appends other into d. Region lists from other replace existing ones.
func (d *Dataset) Merge(other *Dataset) {
	if other == nil {
		return
	}
	d.Accounts = append(d.Accounts, other.Accounts...)
	d.Jobs = append(d.Jobs, other.Jobs...)
	d.Symbols = append(d.Symbols, other.Symbols...)
	d.Equipment = append(d.Equipment, other.Equipment...)
	d.Cash = append(d.Cash, other.Cash...)
	d.InnerAbility = append(d.InnerAbility, other.InnerAbility...)
	for k, v := range other.Regions {
		if d.Regions == nil {
			d.Regions = make(map[config.SymbolKind][]string)
		}
		d.Regions[k] = v
	}
}

// Character is an account joined with its job and optional records.
type Character struct {
	Account
	Job          Job                                 `json:"job"`
	Symbols      map[config.SymbolKind][]SymbolLevel `json:"symbols,omitempty"`
	Armor        map[string]string                   `json:"armor,omitempty"`
	Accessory    map[string]string                   `json:"accessory,omitempty"`
	Cash         *CashRecord                         `json:"cash,omitempty"`
	InnerAbility *InnerAbilityRecord                 `json:"innerAbility,omitempty"`
}

// SymbolValues returns the levels for a kind in region order, or nil when absent.
func (c Character) SymbolValues(kind config.SymbolKind) []int {
	levels, ok := c.Symbols[kind]
	if !ok {
		return nil
	}
	out := make([]int, len(levels))
	for i, l := range levels {
		out[i] = l.Level
	}
	return out
}

// Roster is the joined, sorted character list plus the lookups used to build it.
type Roster struct {
	Characters []Character                    `json:"characters"`
	Jobs       []Job                          `json:"jobs"`
	Regions    map[config.SymbolKind][]string `json:"regions"`
	Warnings   []string                       `json:"warnings,omitempty"`
}
