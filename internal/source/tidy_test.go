package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func readLines(t *testing.T, dir, name string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestTidyDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "account.csv", "// keep me\nIGN,level,jobName\nLow,200,hero\nHigh,280,xenon\nMid,250,da\n")
	writeFile(t, dir, "arcane.csv", "IGN,Arcana\nStray,1\nMid,5\nLow,3\nHigh,20\n")

	report, err := TidyDir(dir, false)
	if err != nil {
		t.Fatalf("TidyDir: %v", err)
	}
	if len(report.Sorted) != 2 {
		t.Errorf("Sorted = %v, want account.csv and arcane.csv", report.Sorted)
	}

	accounts := readLines(t, dir, "account.csv")
	want := []string{"// keep me", "IGN,level,jobName", "High,280,xenon", "Mid,250,da", "Low,200,hero"}
	if strings.Join(accounts, "|") != strings.Join(want, "|") {
		t.Errorf("account.csv =\n%v\nwant\n%v", accounts, want)
	}

	arcane := readLines(t, dir, "arcane.csv")
	want = []string{"IGN,Arcana", "High,20", "Mid,5", "Low,3", "Stray,1"}
	if strings.Join(arcane, "|") != strings.Join(want, "|") {
		t.Errorf("arcane.csv =\n%v\nwant\n%v", arcane, want)
	}
}

func TestSortAccountsByLevel_Ascending(t *testing.T) {
	sheet, err := ReadSheet(strings.NewReader("IGN,level\nB,250\nA,200\nC,\nD,250\n"))
	if err != nil {
		t.Fatal(err)
	}
	SortAccountsByLevel(&sheet, true)

	var got []string
	for _, r := range sheet.Rows {
		got = append(got, r["IGN"])
	}
	if strings.Join(got, "") != "CABD" {
		t.Errorf("order = %v, want C A B D (stable)", got)
	}
}
