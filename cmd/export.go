package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/my2ndangelic/mapletrack/internal/pipeline"
	"github.com/my2ndangelic/mapletrack/internal/web"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every page as a static HTML site",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "site", "Output directory")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	roster, _, err := loadRoster(cmd.Context())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(flagExportOut, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	dark := appConfig.Appearance.DarkMode
	written := 0
	for _, page := range pipeline.Pages {
		names := []string{page.Name + ".html"}
		if page.Name == "overview" {
			names = append(names, "index.html")
		}
		data := web.NewPageData(page, roster, dark, true)
		for _, name := range names {
			if err := writePage(filepath.Join(flagExportOut, name), data); err != nil {
				return err
			}
			written++
		}
	}

	for _, name := range []string{web.LightStylesheet, web.DarkStylesheet} {
		css, err := web.Stylesheet(name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(flagExportOut, name), css, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %d pages to %s\n", written, flagExportOut)
	}
	return nil
}

func writePage(path string, data web.PageData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := web.RenderPage(f, data); err != nil {
		_ = f.Close()
		return fmt.Errorf("rendering %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
