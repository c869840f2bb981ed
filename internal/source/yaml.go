package source

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/my2ndangelic/mapletrack/internal/config"
	"github.com/my2ndangelic/mapletrack/internal/model"
)

type yamlBasic struct {
	JobName      string `yaml:"jobName"`
	JobNameSnake string `yaml:"job_name"`
	Level        int    `yaml:"level"`
}

// yamlCash keeps petSnack as a node so both booleans and "Yes"/"No"
// strings decode.
type yamlCash struct {
	PetSnack *yaml.Node `yaml:"petSnack"`
}

type yamlCharacter struct {
	Basic        yamlBasic                     `yaml:"basic"`
	Equipment    map[string]any                `yaml:"equipment"`
	Symbols      map[string]map[string]*int    `yaml:"symbols"`
	Symbol       map[string]map[string]*int    `yaml:"symbol"`
	InnerAbility map[string]map[string]*string `yaml:"innerAbility"`
	Cash         *yamlCash                     `yaml:"cash"`
}

var digitsRe = regexp.MustCompile(`\d+`)

// decodeDatabase reads database.yaml. Characters keep their document order.
func decodeDatabase(data []byte, ds *model.Dataset) ([]string, error) {
	var doc struct {
		Characters yaml.Node `yaml:"characters"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing database: %w", err)
	}
	if doc.Characters.Kind == 0 {
		return nil, nil
	}
	if doc.Characters.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing database: characters must be a mapping")
	}

	var warnings []string
	nodes := doc.Characters.Content
	for i := 0; i+1 < len(nodes); i += 2 {
		ign := strings.TrimSpace(nodes[i].Value)
		var ch yamlCharacter
		if err := nodes[i+1].Decode(&ch); err != nil {
			warnings = append(warnings, fmt.Sprintf("database.yaml: skipping %s: %v", ign, err))
			continue
		}
		addYAMLCharacter(ds, ign, ch)
	}
	return warnings, nil
}

func addYAMLCharacter(ds *model.Dataset, ign string, ch yamlCharacter) {
	job := ch.Basic.JobName
	if job == "" {
		job = ch.Basic.JobNameSnake
	}
	ds.Accounts = append(ds.Accounts, model.Account{IGN: ign, Level: ch.Basic.Level, JobName: job})

	symbols := ch.Symbols
	if symbols == nil {
		symbols = ch.Symbol
	}
	for kindName, levels := range symbols {
		kind, err := config.ParseSymbolKind(kindName)
		if err != nil {
			continue
		}
		ds.Symbols = append(ds.Symbols, model.SymbolRecord{
			IGN:    ign,
			Kind:   kind,
			Levels: orderedLevels(kind, levels),
		})
	}

	if len(ch.Equipment) > 0 {
		raw := make(map[string]string)
		flattenSlots(ch.Equipment, raw)
		ds.Equipment = append(ds.Equipment, splitSlots(ign, raw)...)
	}

	if ch.Cash != nil && ch.Cash.PetSnack != nil && ch.Cash.PetSnack.Kind == yaml.ScalarNode {
		if snack := normalizeYesNo(ch.Cash.PetSnack.Value); snack != "" {
			ds.Cash = append(ds.Cash, model.CashRecord{IGN: ign, PetSnack: snack})
		}
	}

	if len(ch.InnerAbility) > 0 {
		rec := model.InnerAbilityRecord{IGN: ign}
		for presetKey, lines := range ch.InnerAbility {
			p := keyIndex(presetKey)
			if p < 0 {
				continue
			}
			for lineKey, v := range lines {
				l := keyIndex(lineKey)
				if l < 0 || v == nil {
					continue
				}
				rec.Presets[p][l] = strings.TrimSpace(*v)
			}
		}
		ds.InnerAbility = append(ds.InnerAbility, rec)
	}
}

// keyIndex maps "preset_2" or "line3" to a zero-based index in [0,3).
func keyIndex(key string) int {
	m := digitsRe.FindString(key)
	if m == "" {
		return -1
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 1 || n > 3 {
		return -1
	}
	return n - 1
}

// orderedLevels lays levels out in the kind's configured region order,
// followed by any unknown regions sorted by name.
func orderedLevels(kind config.SymbolKind, levels map[string]*int) []model.SymbolLevel {
	var order []string
	if spec, ok := config.LookupSymbol(kind); ok {
		order = spec.Regions
	}

	seen := make(map[string]bool, len(levels))
	out := make([]model.SymbolLevel, 0, len(levels))
	for _, r := range order {
		out = append(out, model.SymbolLevel{Region: r, Level: derefLevel(levels[r])})
		seen[r] = true
	}

	var extra []string
	for r := range levels {
		if !seen[r] {
			extra = append(extra, r)
		}
	}
	sort.Strings(extra)
	for _, r := range extra {
		out = append(out, model.SymbolLevel{Region: r, Level: derefLevel(levels[r])})
	}
	return out
}

func derefLevel(p *int) int {
	if p == nil || *p < 0 {
		return 0
	}
	return *p
}

// flattenSlots collapses grouped equipment (armor/accessory/etc) into one map.
func flattenSlots(in map[string]any, out map[string]string) {
	for k, v := range in {
		switch t := v.(type) {
		case map[string]any:
			flattenSlots(t, out)
		case nil:
			out[k] = ""
		case string:
			out[k] = strings.TrimSpace(t)
		default:
			out[k] = fmt.Sprint(t)
		}
	}
}

func decodeJobList(data []byte, ds *model.Dataset) error {
	var doc struct {
		Jobs []model.Job `yaml:"jobs"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing job list: %w", err)
	}
	for _, j := range doc.Jobs {
		if j.JobName != "" {
			ds.Jobs = append(ds.Jobs, j)
		}
	}
	return nil
}

func decodeRegions(data []byte, ds *model.Dataset) error {
	var doc struct {
		Regions map[string]struct {
			Areas []string `yaml:"areas"`
		} `yaml:"regions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing symbol regions: %w", err)
	}
	for name, r := range doc.Regions {
		kind, err := config.ParseSymbolKind(name)
		if err != nil || len(r.Areas) == 0 {
			continue
		}
		if ds.Regions == nil {
			ds.Regions = make(map[config.SymbolKind][]string)
		}
		ds.Regions[kind] = r.Areas
	}
	return nil
}

type dbBasic struct {
	JobName string `yaml:"jobName"`
	Level   int    `yaml:"level"`
}

type dbCash struct {
	PetSnack bool `yaml:"petSnack"`
}

type dbCharacter struct {
	Basic        dbBasic                      `yaml:"basic"`
	Equipment    map[string]map[string]string `yaml:"equipment,omitempty"`
	Symbols      map[string]map[string]int    `yaml:"symbols,omitempty"`
	InnerAbility map[string]map[string]string `yaml:"innerAbility,omitempty"`
	Cash         *dbCash                      `yaml:"cash,omitempty"`
}

// EncodeDatabase writes a database.yaml for ds, characters in account order.
// Records for IGNs without an account are left out.
func EncodeDatabase(w io.Writer, ds *model.Dataset) error {
	chars := make(map[string]*dbCharacter, len(ds.Accounts))
	for _, a := range ds.Accounts {
		chars[a.IGN] = &dbCharacter{Basic: dbBasic{JobName: a.JobName, Level: a.Level}}
	}

	for _, s := range ds.Symbols {
		c, ok := chars[s.IGN]
		if !ok {
			continue
		}
		if c.Symbols == nil {
			c.Symbols = make(map[string]map[string]int)
		}
		levels := make(map[string]int, len(s.Levels))
		for _, l := range s.Levels {
			levels[l.Region] = l.Level
		}
		c.Symbols[string(s.Kind)] = levels
	}
	for _, e := range ds.Equipment {
		c, ok := chars[e.IGN]
		if !ok {
			continue
		}
		if c.Equipment == nil {
			c.Equipment = make(map[string]map[string]string)
		}
		group := c.Equipment[e.Group]
		if group == nil {
			group = make(map[string]string)
			c.Equipment[e.Group] = group
		}
		for k, v := range e.Slots {
			group[strings.ToLower(strings.ReplaceAll(k, " ", "_"))] = v
		}
	}
	for _, cr := range ds.Cash {
		if c, ok := chars[cr.IGN]; ok {
			c.Cash = &dbCash{PetSnack: cr.PetSnack == "Yes"}
		}
	}
	for _, ia := range ds.InnerAbility {
		c, ok := chars[ia.IGN]
		if !ok {
			continue
		}
		c.InnerAbility = make(map[string]map[string]string, 3)
		for p, lines := range ia.Presets {
			preset := make(map[string]string, 3)
			for l, v := range lines {
				if v != "" {
					preset[fmt.Sprintf("line_%d", l+1)] = v
				}
			}
			c.InnerAbility[fmt.Sprintf("preset_%d", p+1)] = preset
		}
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, a := range ds.Accounts {
		c, ok := chars[a.IGN]
		if !ok {
			continue
		}
		delete(chars, a.IGN)
		var val yaml.Node
		if err := val.Encode(c); err != nil {
			return fmt.Errorf("encoding %s: %w", a.IGN, err)
		}
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: a.IGN}, &val)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "characters"}, root,
	}}
	if _, err := io.WriteString(w, "# MapleStory Character Data\n\n"); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding database: %w", err)
	}
	return enc.Close()
}

// EncodeJobList writes a joblist.yaml.
func EncodeJobList(w io.Writer, jobs []model.Job) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(struct {
		Jobs []model.Job `yaml:"jobs"`
	}{jobs}); err != nil {
		return fmt.Errorf("encoding job list: %w", err)
	}
	return enc.Close()
}

// EncodeRegions writes a symbol.yaml listing the regions of each kind.
func EncodeRegions(w io.Writer, regions map[config.SymbolKind][]string) error {
	type areas struct {
		Areas []string `yaml:"areas"`
	}
	out := make(map[string]areas, len(regions))
	for k, v := range regions {
		out[string(k)] = areas{Areas: v}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(struct {
		Regions map[string]areas `yaml:"regions"`
	}{out}); err != nil {
		return fmt.Errorf("encoding regions: %w", err)
	}
	return enc.Close()
}
