package source

import (
	"os"
	"path/filepath"
)

// ResolveFormat turns FormatAuto into a concrete format: YAML when the
// directory holds a database.yaml, CSV otherwise.
func ResolveFormat(dataDir string, f Format) Format {
	if f != FormatAuto && f != "" {
		return f
	}
	if _, err := os.Stat(filepath.Join(dataDir, "database.yaml")); err == nil {
		return FormatYAML
	}
	return FormatCSV
}

// ScanDir discovers the known data files present in dataDir.
// A missing directory yields no files and no error.
func ScanDir(dataDir string, f Format) ([]DiscoveredFile, error) {
	info, err := os.Stat(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	format := ResolveFormat(dataDir, f)

	var files []DiscoveredFile
	for _, kf := range FilesFor(format) {
		path := filepath.Join(dataDir, kf.Name)
		st, err := os.Stat(path)
		if err != nil || st.IsDir() {
			continue
		}
		files = append(files, DiscoveredFile{
			Path:   path,
			Name:   kf.Name,
			Kind:   kf.Kind,
			Format: format,
		})
	}
	return files, nil
}

// CountKinds returns how many distinct file kinds were discovered.
func CountKinds(files []DiscoveredFile) int {
	seen := make(map[FileKind]struct{})
	for _, f := range files {
		seen[f.Kind] = struct{}{}
	}
	return len(seen)
}
