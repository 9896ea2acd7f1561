// Package ingest implements the source-file ingestion pipeline: CSV row
// parsing, shape normalization, identity/slug assignment, enrichment merge and
// snapshot handling.
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
)

// Row is one parsed CSV data row keyed by header name. Values are trimmed of
// surrounding whitespace; absent trailing columns are present as "".
type Row map[string]string

// ParseRows reads header-keyed rows from r. Quoted fields may contain the
// delimiter, and a doubled quote inside a quoted field encodes a literal quote
// (standard CSV escaping). Malformed rows are skipped rather than failing the
// whole file. Input with no data rows yields an empty result.
func ParseRows(r io.Reader) []Row {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row: drop it, keep parsing.
			continue
		}
		if blankRecord(record) {
			continue
		}

		row := make(Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows
}

// ReadFile parses a CSV file into header-keyed rows. A missing file is not an
// error: optional sources simply contribute zero rows.
func ReadFile(path string) []Row {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	return ParseRows(f)
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
