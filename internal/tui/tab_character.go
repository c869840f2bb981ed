package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/my2ndangelic/mapletrack/internal/config"
	"github.com/my2ndangelic/mapletrack/internal/model"
	"github.com/my2ndangelic/mapletrack/internal/pipeline"
	"github.com/my2ndangelic/mapletrack/internal/tui/components"
	"github.com/my2ndangelic/mapletrack/internal/tui/theme"
)

// renderCharacterDetail lists every record joined to c.
func renderCharacterDetail(c model.Character, roster *model.Roster, outerW int) string {
	t := theme.Active
	inner := components.CardInnerWidth(outerW)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	kv := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", label)))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	section := func(title string) {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render(title))
		b.WriteString("\n")
	}

	kv("Level", fmt.Sprint(c.Level))
	kv("Class", c.Job.DisplayName())
	kv("Faction", c.Job.Faction)
	kv("Archetype", c.Job.Archetype)
	kv("Main Stat", c.Job.MainStat)

	tot := pipeline.Totals(c)
	if tot.HasArcaneForce || tot.HasSacredForce {
		section("Symbols")
		if tot.HasArcaneForce {
			kv("Arcane", fmt.Sprintf("%d force · %d %s", tot.ArcaneForce, tot.ArcaneStat, c.Job.MainStat))
		}
		if tot.HasSacredForce {
			v := fmt.Sprintf("%d force", tot.SacredForce)
			if tot.HasSacredStat {
				v += fmt.Sprintf(" · %d %s", tot.SacredStat, c.Job.MainStat)
			}
			kv("Sacred", v)
		}
		if tot.ExpBonus > 0 {
			kv("Bonus", fmt.Sprintf("EXP %g%% · meso %g%% · drop %g%%", tot.ExpBonus, tot.MesoBonus, tot.DropBonus))
		}
	}

	for _, kind := range config.SymbolKinds {
		levels, ok := c.Symbols[kind]
		if !ok {
			continue
		}
		spec, _ := config.LookupSymbol(kind)
		section(kind.Title())
		labelW := 0
		for _, l := range levels {
			labelW = max(labelW, lipgloss.Width(l.Region))
		}
		barW := max(inner-labelW-8, 6)
		for _, l := range levels {
			b.WriteString(components.LevelBar(l.Region, l.Level, spec.MaxLevel, labelW, barW))
			b.WriteString("\n")
		}
	}

	writeSlots := func(title string, items map[string]string, order []string) {
		if len(items) == 0 {
			return
		}
		section(title)
		for _, slot := range order {
			if name := items[slot]; name != "" {
				kv(slot, name)
			}
		}
	}
	writeSlots("Equipment", c.Armor, model.ArmorSlots)
	writeSlots("Accessories", c.Accessory, model.AccessorySlots)

	if c.Cash != nil && c.Cash.PetSnack != "" {
		section("Cash")
		kv("Pet Snack", c.Cash.PetSnack)
	}

	if c.InnerAbility != nil {
		section("Inner Ability")
		for p, preset := range c.InnerAbility.Presets {
			lines := make([]string, 0, len(preset))
			for i, line := range preset {
				if line == "" {
					continue
				}
				style := valueStyle
				if i == 0 {
					if col, ok := t.ClassColor(pipeline.InnerAbilityClass(line)); ok {
						style = style.Foreground(col)
					}
				}
				lines = append(lines, style.Render(line))
			}
			if len(lines) > 0 {
				b.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", fmt.Sprintf("Preset %d", p+1))))
				b.WriteString(strings.Join(lines, labelStyle.Render(" · ")))
				b.WriteString("\n")
			}
		}
	}

	if roster != nil {
		if w := warningsFor(c.IGN, roster.Warnings); len(w) > 0 {
			section("Warnings")
			for _, msg := range w {
				b.WriteString(lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Render(msg))
				b.WriteString("\n")
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// warningsFor returns the roster warnings that mention ign, sorted.
func warningsFor(ign string, warnings []string) []string {
	var out []string
	quoted := fmt.Sprintf("%q", ign)
	for _, w := range warnings {
		if strings.Contains(w, quoted) {
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}
