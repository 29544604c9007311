package report

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/SEEK-Jobs/orgstats/pkg/orgstats"
)

const (
	dataSheet    = "Repository_Data"
	summarySheet = "Summary"
	errorsSheet  = "Errors"

	// maxSheetRows is the number of rows a sheet holds, including the header
	maxSheetRows = 1048576
	// maxSheetColumns is the number of columns a sheet holds
	maxSheetColumns = 16384

	dataColumnWidth = 20
)

// workbook is the content of a spreadsheet report.
type workbook struct {
	table    *Table
	summary  orgstats.Summary
	errors   []*orgstats.ErrorRecord
	location *time.Location
	batch    int // Rows sanitized and streamed at a time
	maxRows  int // Defaults to maxSheetRows
}

// rowLimit returns the number of rows a sheet may hold, including the header.
func (wb *workbook) rowLimit() int {
	if wb.maxRows > 0 {
		return wb.maxRows
	}
	return maxSheetRows
}

// write writes the workbook in XLSX format.
func (wb *workbook) write(ctx context.Context, out io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := wb.writeData(ctx, f, header); err != nil {
		return errors.Wrapf(err, "could not write %s sheet", dataSheet)
	}

	if err := wb.writeSummary(f, header); err != nil {
		return errors.Wrapf(err, "could not write %s sheet", summarySheet)
	}

	if len(wb.errors) > 0 {
		if err := wb.writeErrors(ctx, f, header); err != nil {
			return errors.Wrapf(err, "could not write %s sheet", errorsSheet)
		}
	}

	f.SetActiveSheet(0)
	return f.Write(out)
}

// writeData streams the flattened repository rows in batches.
func (wb *workbook) writeData(ctx context.Context, f *excelize.File, headerStyle int) error {
	log := zerolog.Ctx(ctx)

	columns := wb.table.Columns
	if len(columns) > maxSheetColumns {
		log.Warn().Msgf("Dropping %d columns beyond the sheet limit of %d", len(columns)-maxSheetColumns, maxSheetColumns)
		columns = columns[:maxSheetColumns]
	}

	rows := wb.table.Rows
	if limit := wb.rowLimit(); len(rows) > limit-1 {
		log.Warn().Msgf("Dropping %d rows beyond the sheet limit of %d", len(rows)-(limit-1), limit)
		rows = rows[:limit-1]
	}

	sw, err := f.NewStreamWriter(dataSheet)
	if err != nil {
		return err
	}

	if len(columns) > 0 {
		if err := sw.SetColWidth(1, len(columns), dataColumnWidth); err != nil {
			return err
		}

		names := NewColumnNames()
		headerRow := make([]interface{}, len(columns))
		for i, c := range columns {
			headerRow[i] = excelize.Cell{StyleID: headerStyle, Value: names.Sanitize(c)}
		}
		if err := sw.SetRow("A1", headerRow); err != nil {
			return err
		}
	}

	batch := wb.batch
	if batch < 1 {
		batch = 1
	}

	for start := 0; start < len(rows); start += batch {
		end := min(start+batch, len(rows))
		log.Debug().Msgf("Writing rows %d-%d of %d", start+1, end, len(rows))

		values := make([][]interface{}, 0, end-start)
		for _, row := range rows[start:end] {
			v := make([]interface{}, len(columns))
			for i, c := range columns {
				v[i] = SanitizeValue(row[c], wb.location)
			}
			values = append(values, v)
		}

		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(1, start+i+2)
			if err != nil {
				return err
			}
			if err := sw.SetRow(cell, v); err != nil {
				return err
			}
		}
	}

	return sw.Flush()
}

// writeSummary writes the org level totals.
func (wb *workbook) writeSummary(f *excelize.File, headerStyle int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	if err := f.SetSheetRow(summarySheet, "A1", &[]interface{}{"Metric", "Value"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return err
	}

	for i, m := range wb.summary.Metrics() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &[]interface{}{m.Name, m.Value}); err != nil {
			return err
		}
	}

	return f.SetColWidth(summarySheet, "A", "A", 30)
}

// writeErrors writes the errors recorded while collecting.
func (wb *workbook) writeErrors(ctx context.Context, f *excelize.File, headerStyle int) error {
	if _, err := f.NewSheet(errorsSheet); err != nil {
		return err
	}

	if err := f.SetSheetRow(errorsSheet, "A1", &[]interface{}{"Timestamp", "Repository", "Type", "Message", "Context"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(errorsSheet, "A1", "E1", headerStyle); err != nil {
		return err
	}

	records := wb.errors
	if limit := wb.rowLimit(); len(records) > limit-1 {
		zerolog.Ctx(ctx).Warn().Msgf("Dropping %d errors beyond the sheet limit of %d", len(records)-(limit-1), limit)
		records = records[:limit-1]
	}

	for i, e := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			SanitizeValue(e.Timestamp, wb.location),
			SanitizeValue(e.Repo, wb.location),
			string(e.Type),
			SanitizeValue(e.Message, wb.location),
			SanitizeValue(e.Context, wb.location),
		}
		if err := f.SetSheetRow(errorsSheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}
