package report

import (
	"encoding/csv"
	"io"
	"time"
)

func writeCSV(out io.Writer, table *Table, loc *time.Location) error {
	w := csv.NewWriter(out)

	if err := w.Write(table.Columns); err != nil {
		return err
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, c := range table.Columns {
			record[i] = FormatValue(row[c], loc)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
