// ABOUTME: Tolerant CSV parsing for lead imports
// ABOUTME: Handles quoted fields, comma or semicolon delimiters, short rows
package importer

import (
	"strings"
)

// ParseCSV turns raw delimited text into row maps keyed by the first
// non-empty line's headers. All values stay strings; coercion belongs
// to the mapper.
//
// A double quote toggles quoted mode; inside quotes, `,` and `;` are
// literal text. Escaped embedded quotes ("") are not supported: a lone
// quote always toggles, so such fields will not round-trip. Exported
// files from the tools we ingest never use them.
func ParseCSV(text string) []map[string]string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	// A header alone is nothing to import, not an error.
	if len(lines) < 2 {
		return nil
	}

	headers := splitLine(lines[0])

	rows := make([]map[string]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := splitLine(line)

		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(fields) {
				row[h] = fields[i]
			} else {
				// Short rows keep every header key, as empty string.
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows
}

func splitLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case (r == ',' || r == ';') && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}
