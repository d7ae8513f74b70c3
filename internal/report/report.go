// Package report renders an evaluation result for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/valpere/pereval/internal"
	"github.com/valpere/pereval/internal/markdown"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

var Formats = []Format{FormatTable, FormatJSON, FormatYAML}

func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
}

// Options tune table output. Lang is a BCP 47 tag used for number
// formatting; SnippetWidth caps each answer column.
type Options struct {
	Lang         string
	SnippetWidth int
}

const defaultSnippetWidth = 60

// Write renders result to w in the given format.
func Write(w io.Writer, result *internal.EvaluationResult, format Format, opts Options) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatYAML:
		return writeYAML(w, result)
	case FormatTable, "":
		return writeTable(w, result, opts)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeJSON(w io.Writer, result *internal.EvaluationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, result *internal.EvaluationResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

func newPrinter(lang string) (*message.Printer, error) {
	if lang == "" {
		return message.NewPrinter(language.English), nil
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("invalid language %q: %w", lang, err)
	}
	return message.NewPrinter(tag), nil
}

// createStandardTable creates a table writer with markdown-style borders.
func createStandardTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

func writeTable(w io.Writer, result *internal.EvaluationResult, opts Options) error {
	p, err := newPrinter(opts.Lang)
	if err != nil {
		return err
	}
	width := opts.SnippetWidth
	if width <= 0 {
		width = defaultSnippetWidth
	}

	if result.RequestID != "" {
		fmt.Fprintf(w, "Request %s\n\n", result.RequestID)
	}

	answers := createStandardTable([]string{"Model", "Response"}, w)
	if result.Responses != nil {
		for _, name := range result.Responses.Names() {
			text, _ := result.Responses.Get(name)
			if err := answers.Append([]string{name, markdown.Snippet(text, width)}); err != nil {
				return fmt.Errorf("building response table: %w", err)
			}
		}
	}
	if err := answers.Render(); err != nil {
		return fmt.Errorf("rendering response table: %w", err)
	}
	fmt.Fprintln(w)

	byModel := make(map[string]internal.ModelEvaluation, len(result.Evaluations))
	for _, e := range result.Evaluations {
		byModel[e.ModelName] = e
	}

	headers := []string{"Rank", "Model"}
	for _, c := range internal.Criteria {
		headers = append(headers, strings.ToUpper(c.String()[:1])+c.String()[1:])
	}
	headers = append(headers, "Final")

	scores := createStandardTable(headers, w)
	for i, entry := range result.Ranking {
		e := byModel[entry.ModelName]
		row := []string{strconv.Itoa(i + 1), entry.ModelName}
		for _, c := range internal.Criteria {
			row = append(row, p.Sprintf("%d", e.Scores.Get(c)))
		}
		row = append(row, p.Sprintf("%.2f", entry.FinalScore))
		if err := scores.Append(row); err != nil {
			return fmt.Errorf("building score table: %w", err)
		}
	}
	if err := scores.Render(); err != nil {
		return fmt.Errorf("rendering score table: %w", err)
	}

	if result.BestResponse.ModelName != "" {
		fmt.Fprintln(w, p.Sprintf("\nBest response: %s (%.2f)", result.BestResponse.ModelName, result.BestResponse.FinalScore))
	}
	return nil
}
