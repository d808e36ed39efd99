package matcher

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/k0kubun/pp/v3"
	"github.com/olekukonko/tablewriter"

	"go.datamatch.io/engine/pkg/models"
)

// ResultPrinter renders one comparison result for the terminal: a colored
// pass/fail banner followed by a table of the failed checks.
type ResultPrinter struct {
	name string
	out  io.Writer
}

// NewResultPrinter returns a printer writing to stdout. The name labels the
// rendered tables, typically the compared file pair.
func NewResultPrinter(name string) *ResultPrinter {
	return &ResultPrinter{name: name, out: os.Stdout}
}

// SetOutput redirects rendering, mainly for tests.
func (p *ResultPrinter) SetOutput(w io.Writer) { p.out = w }

// Render prints the banner, the error table for failed comparisons and a
// stats summary line.
func (p *ResultPrinter) Render(result models.CompareResult) error {
	printer := pp.New()
	printer.SetOutput(p.out)
	printer.WithLineInfo = false

	if result.Success {
		printer.SetColorScheme(models.GetPassingColorScheme())
		if _, err := printer.Printf("Comparison passed for %s\n", p.name); err != nil {
			return err
		}
	} else {
		printer.SetColorScheme(models.GetFailingColorScheme())
		if _, err := printer.Printf("Comparison failed for %s\n", p.name); err != nil {
			return err
		}
		p.renderErrors(result.Errors)
	}

	fmt.Fprintf(p.out, "checks: %d total, %d passed, %d failed, depth %d, took %s\n",
		result.Stats.TotalChecks, result.Stats.PassedChecks, result.Stats.FailedChecks,
		result.Stats.MaxDepthReached, result.Stats.Duration)
	return nil
}

func (p *ResultPrinter) renderErrors(errs []models.CompareError) {
	table := tablewriter.NewWriter(p.out)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Path", "Type", "Expected", "Actual", "Message"})
	table.SetHeaderColor(
		tablewriter.Colors{tablewriter.FgHiRedColor},
		tablewriter.Colors{tablewriter.FgHiRedColor},
		tablewriter.Colors{tablewriter.FgHiRedColor},
		tablewriter.Colors{tablewriter.FgHiRedColor},
		tablewriter.Colors{tablewriter.FgHiRedColor},
	)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	redPaint := color.New(color.FgRed).SprintFunc()
	for _, e := range errs {
		table.Append([]string{
			e.Path,
			redPaint(e.Type),
			truncate(fmt.Sprint(e.Expected)),
			truncate(fmt.Sprint(e.Actual)),
			e.Message,
		})
	}
	table.Render()
}

// maxCellLength is chars per expected/actual cell. Can be changed no problem.
const maxCellLength = 60

func truncate(s string) string {
	if len(s) <= maxCellLength {
		return s
	}
	return s[:maxCellLength-3] + "..."
}
