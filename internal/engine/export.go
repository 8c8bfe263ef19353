package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fedadmin/internal/errs"
)

// Format is an export output format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatExcel, FormatPDF}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "excel", "xlsx":
		return FormatExcel, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", errs.New(errs.CodeActionInvalid, fmt.Sprintf("unsupported export format %q (csv, excel, pdf)", s))
	}
}

// Extension is the file extension used for saved exports.
func (f Format) Extension() string {
	if f == FormatExcel {
		return "xlsx"
	}
	return string(f)
}

// ContentType is the media type the backend answers with.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// ExportFilename is "<domain>-export-<YYYY-MM-DD>.<ext>".
func ExportFilename(domain string, format Format, at time.Time) string {
	return fmt.Sprintf("%s-export-%s.%s", domain, at.Format("2006-01-02"), format.Extension())
}

// ExportRequestor renders the filtered collection through the backend and
// hands the bytes to a Saver. Its only state is a loading flag and the
// last failure per format, and where the last export was saved.
type ExportRequestor struct {
	domain    string
	clock     Clock
	loading   map[Format]bool
	failures  map[Format]error
	lastSaved string
}

func NewExportRequestor(domain string, clock Clock) *ExportRequestor {
	if clock == nil {
		clock = time.Now
	}
	return &ExportRequestor{
		domain:   domain,
		clock:    clock,
		loading:  make(map[Format]bool),
		failures: make(map[Format]error),
	}
}

// ExportRequest is an export ready to be rendered and saved.
type ExportRequest struct {
	Format   Format
	Filter   Filter
	Filename string
}

// ExportResult is the outcome of an ExportRequest.
type ExportResult struct {
	Format   Format
	Filename string
	Location string
	Size     int
	Err      error
}

// Begin marks format as loading. A format already loading is refused.
func (e *ExportRequestor) Begin(filter Filter, format Format) (ExportRequest, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return ExportRequest{}, err
	}
	if e.loading[format] {
		return ExportRequest{}, errs.New(errs.CodeActionBusy, fmt.Sprintf("%s export already running", format))
	}
	e.loading[format] = true
	delete(e.failures, format)
	return ExportRequest{
		Format:   format,
		Filter:   filter,
		Filename: ExportFilename(e.domain, format, e.clock()),
	}, nil
}

// Run renders and saves the export. It touches no requestor state and
// never panics.
func (r ExportRequest) Run(ctx context.Context, backend ExportBackend, saver Saver) (res ExportResult) {
	res = ExportResult{Format: r.Format, Filename: r.Filename}
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("export panicked: %v", p)
		}
	}()

	file, err := backend.Export(ctx, ExportQuery{Filter: r.Filter, Format: r.Format})
	if err != nil {
		res.Err = err
		return res
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = r.Format.ContentType()
	}
	res.Location, res.Err = saver.Save(ctx, r.Filename, contentType, file.Data)
	res.Size = len(file.Data)
	return res
}

// Complete clears the loading flag of res.Format, whatever the outcome,
// and records the result. Other formats are left alone.
func (e *ExportRequestor) Complete(res ExportResult) {
	e.loading[res.Format] = false
	if res.Err != nil {
		e.failures[res.Format] = errs.Wrap(res.Err, errs.CodeExportFailure,
			fmt.Sprintf("exporting %s", res.Format), errs.Field("format", string(res.Format)))
		return
	}
	delete(e.failures, res.Format)
	e.lastSaved = res.Location
}

func (e *ExportRequestor) Loading(format Format) bool { return e.loading[format] }

func (e *ExportRequestor) AnyLoading() bool {
	for _, l := range e.loading {
		if l {
			return true
		}
	}
	return false
}

// Err is the ExportError of the last export in format.
func (e *ExportRequestor) Err(format Format) error { return e.failures[format] }

// LastSaved is where the last successful export was stored.
func (e *ExportRequestor) LastSaved() string { return e.lastSaved }
