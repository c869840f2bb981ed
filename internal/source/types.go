package source

import (
	"fmt"
	"strings"
)

// Format selects which family of data files to read.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown data format %q (want auto, csv or yaml)", s)
}

// FileKind identifies what a data file contains.
type FileKind string

const (
	KindAccounts     FileKind = "accounts"
	KindJobs         FileKind = "jobs"
	KindArcane       FileKind = "arcane"
	KindSacred       FileKind = "sacred"
	KindGrandSacred  FileKind = "grandsacred"
	KindArmor        FileKind = "equipment"
	KindAccessory    FileKind = "accessory"
	KindCash         FileKind = "cash"
	KindInnerAbility FileKind = "innerability"
	KindDatabase     FileKind = "database"
	KindRegions      FileKind = "regions"
)

// KnownFile pairs a data file name with its contents.
type KnownFile struct {
	Name string
	Kind FileKind
}

// CSVFiles lists the files of the CSV layout, account list first.
var CSVFiles = []KnownFile{
	{"account.csv", KindAccounts},
	{"joblist.csv", KindJobs},
	{"arcane.csv", KindArcane},
	{"sacred.csv", KindSacred},
	{"grandsacred.csv", KindGrandSacred},
	{"equipment.csv", KindArmor},
	{"accessory.csv", KindAccessory},
	{"cash.csv", KindCash},
	{"innerability.csv", KindInnerAbility},
}

// YAMLFiles lists the files of the YAML layout.
var YAMLFiles = []KnownFile{
	{"database.yaml", KindDatabase},
	{"joblist.yaml", KindJobs},
	{"symbol.yaml", KindRegions},
}

// FilesFor returns the known files of a concrete format.
func FilesFor(f Format) []KnownFile {
	if f == FormatYAML {
		return YAMLFiles
	}
	return CSVFiles
}

// DiscoveredFile represents a data file found during directory scanning
// or fetched from a remote data URL.
type DiscoveredFile struct {
	Path   string // local path or remote URL
	Name   string // base name, e.g. "arcane.csv"
	Kind   FileKind
	Format Format
}
