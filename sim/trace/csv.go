package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes records as CSV with a header row. Fixed columns
// come first, then the sorted union of extra-field names; records
// missing an extra field get an empty cell.
func WriteCSV(w io.Writer, records []Record) error {
	keys := extraKeys(records)

	cw := csv.NewWriter(w)
	header := append([]string{"patient", "label", "entry", "timestamp"}, keys...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.Patient),
			rec.Label,
			rec.Entry,
			strconv.FormatFloat(rec.Timestamp, 'g', -1, 64),
		}
		for _, k := range keys {
			row = append(row, rec.Extra[k])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
