package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/my2ndangelic/mapletrack/internal/pipeline"
	"github.com/my2ndangelic/mapletrack/internal/source"
)

var flagConvertOut string

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert CSV data files to database.yaml, joblist.yaml and symbol.yaml",
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&flagConvertOut, "out", "o", "", "Output directory (default: the data directory)")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(_ *cobra.Command, _ []string) error {
	out := flagConvertOut
	if out == "" {
		out = flagDataDir
	}

	res, err := pipeline.Load(flagDataDir, source.FormatCSV, nil)
	if err != nil {
		return err
	}
	if res.TotalFiles == 0 {
		return fmt.Errorf("no CSV files found in %s", flagDataDir)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "  error: %v\n", e)
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	ds := &res.Dataset
	files := []struct {
		name   string
		encode func(*bytes.Buffer) error
	}{
		{"database.yaml", func(b *bytes.Buffer) error { return source.EncodeDatabase(b, ds) }},
		{"joblist.yaml", func(b *bytes.Buffer) error { return source.EncodeJobList(b, ds.Jobs) }},
		{"symbol.yaml", func(b *bytes.Buffer) error { return source.EncodeRegions(b, ds.Regions) }},
	}
	for _, f := range files {
		var buf bytes.Buffer
		if err := f.encode(&buf); err != nil {
			return fmt.Errorf("encoding %s: %w", f.name, err)
		}
		if err := os.WriteFile(filepath.Join(out, f.name), buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
		fmt.Printf("  Wrote %s\n", filepath.Join(out, f.name))
	}
	return nil
}
