package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/nflstats/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing, e.g. as a CI job
// summary after a scheduled scrape.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteRuns outputs the run summary in Markdown format.
func (w *MarkdownWriter) WriteRuns(runs []RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("NFL Stats Scrape Summary")
	md.PlainText("")

	w.writeOverview(md, runs)
	for _, run := range runs {
		w.writeRun(md, run)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeOverview writes one table row per run and an alert for failures.
func (w *MarkdownWriter) writeOverview(md *markdown.Markdown, runs []RunSummary) {
	if len(runs) == 0 {
		md.Note("Nothing was scraped.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(runs))
	failures := 0
	for _, run := range runs {
		failures += len(run.Failures)
		rows = append(rows, []string{
			strconv.Itoa(run.Season),
			title(run.Level.String()),
			weekText(run.Week),
			run.Status(),
			strconv.Itoa(run.Categories),
			strconv.Itoa(run.Pages),
			strconv.Itoa(len(run.Exports)),
			strconv.Itoa(run.Rows),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Season", "Level", "Week", "Status", "Categories", "Pages", "Files", "Rows"},
		Rows:   rows,
	})
	md.PlainText("")

	if failures > 0 {
		md.Warningf("%d slice(s) of work were skipped. See the failure tables below.", failures)
	} else {
		md.Tip("Every discovered category was exported.")
	}
	md.PlainText("")
}

// writeRun writes the exports and failures of one run.
func (w *MarkdownWriter) writeRun(md *markdown.Markdown, run RunSummary) {
	md.H2(strconv.Itoa(run.Season) + " " + title(run.Level.String()))
	md.PlainText("")

	if len(run.Exports) > 0 {
		w.writeUnitChart(md, run.Exports)

		rows := make([][]string, 0, len(run.Exports))
		for _, e := range run.Exports {
			rows = append(rows, []string{
				title(e.Unit),
				e.Category,
				strconv.Itoa(e.Pages),
				strconv.Itoa(e.Rows),
				"`" + e.Path + "`",
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Unit", "Category", "Pages", "Rows", "File"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(run.Failures) > 0 {
		md.H3("Failures")
		md.PlainText("")
		rows := make([][]string, 0, len(run.Failures))
		for _, f := range run.Failures {
			rows = append(rows, []string{
				f.Stage,
				failureTarget(f),
				truncateString(f.Message, 80),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Stage", "Where", "Error"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeUnitChart writes a mermaid pie chart of rows per unit when a run
// spans more than one unit.
func (w *MarkdownWriter) writeUnitChart(md *markdown.Markdown, exports []model.Export) {
	order := make([]string, 0)
	rows := make(map[string]int)
	for _, e := range exports {
		if _, ok := rows[e.Unit]; !ok {
			order = append(order, e.Unit)
		}
		rows[e.Unit] += e.Rows
	}
	if len(order) < 2 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Rows per unit"),
		piechart.WithShowData(true),
	)
	for _, unit := range order {
		chart.LabelAndIntValue(title(unit), uint64(rows[unit]))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// WriteHistory outputs recorded exports as a Markdown table.
func (w *MarkdownWriter) WriteHistory(exports []model.Export) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Export History")
	md.PlainText("")

	if len(exports) == 0 {
		md.PlainText("No exports recorded.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, 0, len(exports))
	for _, e := range exports {
		rows = append(rows, []string{
			e.WrittenAt.Format("2006-01-02 15:04:05"),
			strconv.Itoa(e.Season),
			title(e.Level.String()),
			weekText(e.Week),
			title(e.Unit),
			e.Category,
			strconv.Itoa(e.Rows),
			"`" + shortHash(e.Hash) + "`",
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Written", "Season", "Level", "Week", "Unit", "Category", "Rows", "Hash"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [nflstats](https://github.com/nao1215/nflstats)*")
}
