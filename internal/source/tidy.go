package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// TidyReport lists what TidyDir rewrote.
type TidyReport struct {
	Sorted  []string
	Missing []string
}

// SortAccountsByLevel orders the account sheet by level, descending unless
// ascending is set. Rows with a blank or invalid level count as 0.
func SortAccountsByLevel(sheet *Sheet, ascending bool) {
	levelCol, _ := sheet.Column("level")
	level := func(i int) int {
		n, err := strconv.Atoi(strings.TrimSpace(sheet.Rows[i][levelCol]))
		if err != nil {
			return 0
		}
		return n
	}
	sort.SliceStable(sheet.Rows, func(i, j int) bool {
		if ascending {
			return level(i) < level(j)
		}
		return level(i) > level(j)
	})
}

// ReorderByIGN orders rows to follow order. Rows whose IGN is not in order
// keep their relative position after all known rows.
func ReorderByIGN(sheet *Sheet, order []string) {
	ignCol, ok := sheet.Column("IGN")
	if !ok {
		return
	}
	rank := make(map[string]int, len(order))
	for i, ign := range order {
		if _, dup := rank[ign]; !dup {
			rank[ign] = i
		}
	}
	pos := func(i int) int {
		if r, ok := rank[sheet.Rows[i][ignCol]]; ok {
			return r
		}
		return len(order)
	}
	sort.SliceStable(sheet.Rows, func(i, j int) bool {
		return pos(i) < pos(j)
	})
}

// TidyDir sorts account.csv by level, then reorders every other CSV file in
// dataDir to match the account order. Comment lines are preserved.
func TidyDir(dataDir string, ascending bool) (TidyReport, error) {
	var report TidyReport

	accountPath := filepath.Join(dataDir, "account.csv")
	accounts, err := readSheetFile(accountPath)
	if err != nil {
		return report, err
	}
	SortAccountsByLevel(&accounts, ascending)
	if err := writeSheetFile(accountPath, accounts); err != nil {
		return report, err
	}
	report.Sorted = append(report.Sorted, "account.csv")

	ignCol, _ := accounts.Column("IGN")
	order := make([]string, 0, len(accounts.Rows))
	for _, row := range accounts.Rows {
		order = append(order, row[ignCol])
	}

	for _, kf := range CSVFiles {
		if kf.Kind == KindAccounts || kf.Kind == KindJobs {
			continue
		}
		path := filepath.Join(dataDir, kf.Name)
		if _, err := os.Stat(path); err != nil {
			report.Missing = append(report.Missing, kf.Name)
			continue
		}
		sheet, err := readSheetFile(path)
		if err != nil {
			return report, err
		}
		if len(sheet.Rows) == 0 {
			continue
		}
		ReorderByIGN(&sheet, order)
		if err := writeSheetFile(path, sheet); err != nil {
			return report, err
		}
		report.Sorted = append(report.Sorted, kf.Name)
	}
	return report, nil
}

func readSheetFile(path string) (Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sheet{}, err
	}
	defer func() { _ = f.Close() }()

	sheet, err := ReadSheet(f)
	if err != nil {
		return sheet, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return sheet, nil
}

// writeSheetFile replaces path atomically via a temp file in the same directory.
func writeSheetFile(path string, sheet Sheet) error {
	var buf bytes.Buffer
	if err := WriteSheet(&buf, sheet); err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
