package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dimchansky/utfbom"
)

// ErrNoHeader is returned when a CSV file has no header row.
var ErrNoHeader = errors.New("csv: missing header row")

// Sheet is a parsed CSV file: its comment lines, header row and data rows.
type Sheet struct {
	Comments []string
	Headers  []string
	Rows     []map[string]string
}

// ReadSheet parses a CSV stream. Blank lines and lines starting with "//"
// are skipped (comments are kept so they can be written back). Values are
// trimmed and short rows are padded with empty strings.
func ReadSheet(r io.Reader) (Sheet, error) {
	sr, _ := utfbom.Skip(r)

	var (
		sheet Sheet
		body  bytes.Buffer
	)
	sc := bufio.NewScanner(sr)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "//"):
			sheet.Comments = append(sheet.Comments, trimmed)
			continue
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return sheet, fmt.Errorf("reading csv: %w", err)
	}

	cr := csv.NewReader(&body)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return sheet, ErrNoHeader
	}
	if err != nil {
		return sheet, fmt.Errorf("reading csv header: %w", err)
	}
	for _, h := range header {
		sheet.Headers = append(sheet.Headers, strings.TrimSpace(h))
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sheet, fmt.Errorf("reading csv row: %w", err)
		}
		row := make(map[string]string, len(sheet.Headers))
		for i, h := range sheet.Headers {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

// WriteSheet writes comments, header and rows back out in CSV form.
func WriteSheet(w io.Writer, sheet Sheet) error {
	for _, c := range sheet.Comments {
		if _, err := fmt.Fprintln(w, c); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(sheet.Headers); err != nil {
		return err
	}
	rec := make([]string, len(sheet.Headers))
	for _, row := range sheet.Rows {
		for i, h := range sheet.Headers {
			rec[i] = row[h]
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Column returns the header matching any of names, compared case-insensitively
// with spaces and underscores ignored.
func (s Sheet) Column(names ...string) (string, bool) {
	for _, n := range names {
		want := foldHeader(n)
		for _, h := range s.Headers {
			if foldHeader(h) == want {
				return h, true
			}
		}
	}
	return "", false
}

func foldHeader(s string) string {
	return strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s))
}
