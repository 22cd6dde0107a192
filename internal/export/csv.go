// Package export serializes filtered record collections to CSV for the
// dashboard's download action. The dashboard's spreadsheet import expects
// every field quoted, so the writer quotes unconditionally rather than
// going through encoding/csv, which quotes only when required.
package export

import "strings"

// Column maps a record to one CSV column
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// CSV renders a header row followed by one row per record. Every field
// is wrapped in double quotes with embedded quotes doubled; missing
// values render as empty strings. The whole blob is built in memory,
// which is fine for the dashboard's record counts.
func CSV[T any](records []T, columns []Column[T]) string {
	var b strings.Builder

	for i, col := range columns {
		if i > 0 {
			b.WriteByte(',')
		}
		writeField(&b, col.Header)
	}
	b.WriteByte('\n')

	for _, rec := range records {
		for i, col := range columns {
			if i > 0 {
				b.WriteByte(',')
			}
			writeField(&b, col.Value(rec))
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func writeField(b *strings.Builder, value string) {
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(value, `"`, `""`))
	b.WriteByte('"')
}
