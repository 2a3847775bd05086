package csvutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Row is a parsed CSV data row keyed by lower-cased header name
type Row map[string]string

// Read parses CSV content and validates that all required columns are present.
// Header matching is case-insensitive and whitespace-tolerant. Rows whose
// required cells are all empty are skipped.
func Read(r io.Reader, requiredColumns []string) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var missing []string
	for _, required := range requiredColumns {
		found := false
		for _, col := range columns {
			if col == strings.ToLower(required) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var rows []Row
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}

		row := make(Row, len(columns))
		empty := true
		for i, col := range columns {
			if i >= len(fields) {
				break
			}
			value := strings.TrimSpace(fields[i])
			row[col] = value
			if value != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Write renders a header and data rows as CSV
func Write(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
