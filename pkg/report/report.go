package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/SEEK-Jobs/orgstats/pkg/orgstats"
)

// Format selects the report files to write.
type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
	FormatAll   Format = "all"

	// DefaultOutputDir is the directory reports are written to by default
	DefaultOutputDir = "output"

	// timestampLayout is the layout of the timestamp in report file names
	timestampLayout = "20060102_150405"
)

// ParseFormat returns the Format named by s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatCSV, FormatExcel, FormatAll:
		return f, nil
	}
	return "", errors.Errorf("unknown format '%s', expected json, csv, excel or all", s)
}

// includes returns whether reports of format f are written when g is requested.
func (f Format) includes(g Format) bool {
	return f == FormatAll || f == g
}

// Options configures a Writer.
type Options struct {
	OutputDir string
	Format    Format
	Location  *time.Location // Location spreadsheet times are rendered in
	MemoryGB  float64        // Memory available for sizing spreadsheet row batches
}

// Writer writes the reports of a collection run.
type Writer struct {
	opts Options
	now  func() time.Time
}

// NewWriter returns a Writer for the specified options.
func NewWriter(opts Options) *Writer {
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOutputDir
	}
	if opts.Format == "" {
		opts.Format = FormatExcel
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.MemoryGB <= 0 {
		opts.MemoryGB = DefaultMemoryGB
	}
	return &Writer{opts: opts, now: time.Now}
}

// FileName returns the name of the report file for the specified org, time and extension.
func FileName(orgName string, t time.Time, ext string) string {
	return fmt.Sprintf("github_org_stats_%s_%s.%s", orgName, t.Format(timestampLayout), ext)
}

// Write writes the requested reports for the specified result and returns their paths.
func (w *Writer) Write(ctx context.Context, res *orgstats.OrgResult) ([]string, error) {
	log := zerolog.Ctx(ctx)

	if err := os.MkdirAll(w.opts.OutputDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "could not create output directory '%s'", w.opts.OutputDir)
	}

	now := w.now()
	path := func(ext string) string {
		return filepath.Join(w.opts.OutputDir, FileName(res.Organization, now, ext))
	}

	var paths []string

	if w.opts.Format.includes(FormatJSON) {
		p := path("json")
		if err := writeFile(p, func(out io.Writer) error { return writeJSON(out, res) }); err != nil {
			return paths, errors.Wrap(err, "could not write JSON report")
		}
		log.Info().Msgf("JSON report saved to: %s", p)
		paths = append(paths, p)
	}

	if !w.opts.Format.includes(FormatCSV) && !w.opts.Format.includes(FormatExcel) {
		return paths, nil
	}

	repos := SanitizeLanguages(ctx, res.Repositories)
	records := make([]interface{}, len(repos))
	for i, r := range repos {
		records[i] = r
	}
	table, err := Flatten(records...)
	if err != nil {
		return paths, err
	}

	if w.opts.Format.includes(FormatCSV) {
		p := path("csv")
		if err := writeFile(p, func(out io.Writer) error { return writeCSV(out, table, w.opts.Location) }); err != nil {
			return paths, errors.Wrap(err, "could not write CSV report")
		}
		log.Info().Msgf("CSV report saved to: %s", p)
		paths = append(paths, p)
	}

	if w.opts.Format.includes(FormatExcel) {
		p := path("xlsx")
		var errs []*orgstats.ErrorRecord
		if res.Errors != nil {
			errs = res.Errors.Errors()
		}

		sheets := workbook{
			table:    table,
			summary:  orgstats.Summarize(repos),
			errors:   errs,
			location: w.opts.Location,
			batch:    AdaptiveBatchSize(len(table.Rows), w.opts.MemoryGB),
		}
		if err := writeFile(p, func(out io.Writer) error { return sheets.write(ctx, out) }); err != nil {
			return paths, errors.Wrap(err, "could not write Excel report")
		}
		log.Info().Msgf("Excel report saved to: %s", p)
		paths = append(paths, p)
	}

	return paths, nil
}

// writeFile writes the file at path through a temporary file in the same directory so the
// file only appears once it is complete.
func writeFile(path string, write func(out io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}

	if err := os.Rename(f.Name(), path); err != nil {
		os.Remove(f.Name())
		return err
	}
	return nil
}
