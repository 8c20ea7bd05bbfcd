// Package report renders the end-of-run HTML summary and delivers it.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"evtsweep/internal/types"
)

//go:embed templates/*.html
var templates embed.FS

// Cell fill colors, kept as attributes rather than CSS classes so the table
// renders in mail clients that strip style sheets.
const (
	colorFail = "#E74C3C"
	colorWarn = "#F5B041"
)

// Run is everything the reporter needs to render one sweep.
type Run struct {
	ID       string
	Log      types.LogCategory
	Started  time.Time
	Finished time.Time
	Outcomes []types.HostOutcome
}

// Failures counts hosts with any recorded problem.
func (r Run) Failures() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Failed() {
			n++
		}
	}
	return n
}

// Row is one rendered table line. Color fields are empty for clean cells.
type Row struct {
	ComputerName  string
	Log           string
	EventLogPath  string
	Result        string
	ResultColor   string
	RegistryReset string
	RegistryColor string
	Rebooted      string
	RebootColor   string
}

// view is the template's root context.
type view struct {
	Run  Run
	Rows []Row
}

var tmpl = template.Must(template.New("").Funcs(template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "N/A"
		}
		return t.Format("2006-01-02 15:04:05")
	},
}).ParseFS(templates, "templates/*.html"))

// RenderHTML produces the summary document: a header line plus one table row
// per host, in input order, failure cells color-coded.
func RenderHTML(run Run) (string, error) {
	v := view{Run: run, Rows: buildRows(run.Outcomes)}
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, "report.html", v); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return b.String(), nil
}

// WriteFile saves the rendered report so every run leaves a local artifact
// even when email delivery is suppressed or fails.
func WriteFile(path, html string) error {
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

func buildRows(outcomes []types.HostOutcome) []Row {
	rows := make([]Row, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, buildRow(o))
	}
	return rows
}

func buildRow(o types.HostOutcome) Row {
	row := Row{
		ComputerName: o.Host,
		Log:          string(o.Log),
		EventLogPath: o.Backup.Full(),
	}
	if o.Backup.Dir == "" {
		row.EventLogPath = "n/a"
	}

	switch {
	case o.Failure != "":
		row.Result = "Not attempted: " + o.Failure
		row.ResultColor = colorFail
	case o.Clear.OK():
		row.Result = "Success"
	case o.Clear.Status == types.ClearPermissionDenied:
		row.Result = "Failed: permission denied"
		row.ResultColor = colorFail
	case o.Clear.Status == types.ClearInvalidParameter:
		row.Result = fmt.Sprintf("Failed: invalid parameter (code %d)", o.Clear.Code)
		row.ResultColor = colorFail
	default:
		row.Result = "Failed: " + o.Clear.Detail
		row.ResultColor = colorFail
	}

	switch {
	case o.RegistryApplied:
		row.RegistryReset = "Yes"
	case o.RegistryError != "":
		row.RegistryReset = "Error: " + o.RegistryError
		row.RegistryColor = colorWarn
	default:
		row.RegistryReset = "No"
	}

	switch {
	case o.RebootIssued:
		row.Rebooted = "Yes"
	case o.RebootError != "":
		row.Rebooted = "Error: " + o.RebootError
		row.RebootColor = colorWarn
	default:
		row.Rebooted = "No"
	}

	return row
}
