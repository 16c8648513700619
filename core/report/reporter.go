package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/siherrmann/chunkcompare/core/retrieval"
	"github.com/siherrmann/chunkcompare/helper"
	"github.com/siherrmann/chunkcompare/model"
)

const (
	ruleWidth          = 80
	fragmentColumn     = 4
	fragmentColumnMax  = 120
	fragmentSeparator  = "\n---\n"
	noHighlightsMarker = "No highlights"
)

// Reporter runs the same query against several strategies and renders the results side by side
type Reporter struct {
	strategies []retrieval.Strategy
	config     model.QueryConfig
	log        *slog.Logger
}

// NewReporter creates a reporter. Strategies are queried in the given order.
func NewReporter(strategies []retrieval.Strategy, config *model.QueryConfig, logger *slog.Logger) (*Reporter, error) {
	if len(strategies) == 0 {
		return nil, helper.NewError("reporter validation", fmt.Errorf("at least one strategy is required"))
	}
	for _, strategy := range strategies {
		if strategy == nil {
			return nil, helper.NewError("reporter validation", fmt.Errorf("strategy is nil"))
		}
		if err := strategy.Definition().Validate(); err != nil {
			return nil, helper.NewError("reporter validation", err)
		}
	}
	if config == nil {
		defaults := model.DefaultQueryConfig()
		config = &defaults
	}
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("reporter validation", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Reporter{
		strategies: strategies,
		config:     *config,
		log:        logger,
	}, nil
}

// Compare runs the query once per strategy with identical settings.
// The first failing strategy aborts the comparison.
func (r *Reporter) Compare(ctx context.Context, query string) (*model.ComparisonReport, error) {
	comparison := &model.ComparisonReport{
		Query:   query,
		Config:  r.config,
		Reports: make([]model.StrategyReport, 0, len(r.strategies)),
	}

	for _, strategy := range r.strategies {
		definition := strategy.Definition()

		config := r.config
		results, err := strategy.Retrieve(ctx, query, &config)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("compare %s", definition.Name), err)
		}

		r.log.Debug("Retrieved results", slog.String("strategy", definition.ID), slog.String("query", query), slog.Int("count", len(results)))
		comparison.Reports = append(comparison.Reports, model.NewStrategyReport(definition, results))
	}

	return comparison, nil
}

// Render writes the comparison banner, one result table per strategy and the summary table
func (r *Reporter) Render(w io.Writer, comparison *model.ComparisonReport) error {
	if comparison == nil {
		return helper.NewError("render comparison", fmt.Errorf("comparison is nil"))
	}

	color.New(color.FgGreen, color.BgBlack).Fprintln(w, " 🚀 CHUNKING STRATEGY COMPARISON ")
	color.New(color.FgGreen).Fprintf(w, "Query: '%s'\n\n", comparison.Query)

	for _, report := range comparison.Reports {
		renderStrategy(w, comparison.Query, report)
	}

	renderSummary(w, comparison.Reports)

	return nil
}

// RunDemo compares and renders every query in turn
func (r *Reporter) RunDemo(ctx context.Context, w io.Writer, queries []string) error {
	color.New(color.FgGreen, color.BgBlack).Fprintln(w, "🌟 ELASTICSEARCH CHUNKING STRATEGY DEMO 🌟")
	color.New(color.FgGreen).Fprintf(w, "%s\n\n", strings.Repeat("=", 50))

	for _, query := range queries {
		comparison, err := r.Compare(ctx, query)
		if err != nil {
			return err
		}
		if err := r.Render(w, comparison); err != nil {
			return err
		}
	}

	color.New(color.FgGreen).Fprintln(w, "\n✨ Demo completed!")

	return nil
}

// Heading returns the section title of a strategy
func Heading(strategy model.RetrievalStrategy) string {
	heading := strings.ToUpper(strategy.Name)
	if strategy.Chunking.Strategy != model.ChunkingNone && strategy.Chunking.Strategy != "" {
		policy := string(strategy.Chunking.Strategy)
		heading += fmt.Sprintf(" (%s%s Strategy)", strings.ToUpper(policy[:1]), policy[1:])
	}
	return heading
}

// FormatTopScore formats a top score, printing 0 for empty result sets
func FormatTopScore(score float64) string {
	if score == 0 {
		return "0"
	}
	return fmt.Sprintf("%.3f", score)
}

func renderStrategy(w io.Writer, query string, report model.StrategyReport) {
	rule := color.New(color.FgHiBlue)
	rule.Fprintf(w, "\n%s\n", strings.Repeat("=", ruleWidth))
	color.New(color.FgHiYellow, color.BgBlack).Fprintf(w, " 🔍 %s SEARCH RESULTS \n", Heading(report.Strategy))
	color.New(color.FgBlue).Fprintf(w, "Query: '%s'\n", query)
	rule.Fprintf(w, "%s\n", strings.Repeat("=", ruleWidth))

	if len(report.Results) == 0 {
		color.New(color.FgRed).Fprintln(w, "❌ No results found")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Options.SeparateRows = true
	t.AppendHeader(table.Row{"Rank", "Country", "Score", "Relevant Chunks"})
	for _, result := range report.Results {
		t.AppendRow(table.Row{result.Rank, result.EntityKey, fmt.Sprintf("%.3f", result.Score), fragmentCell(result.Fragments)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: fragmentColumn, WidthMax: fragmentColumnMax},
	})
	t.Render()
}

func renderSummary(w io.Writer, reports []model.StrategyReport) {
	rule := color.New(color.FgMagenta)
	rule.Fprintf(w, "\n%s\n", strings.Repeat("=", ruleWidth))
	color.New(color.FgBlue, color.BgBlack).Fprintln(w, " 📊 COMPARISON SUMMARY ")
	rule.Fprintf(w, "%s\n", strings.Repeat("=", ruleWidth))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleDouble)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Options.SeparateRows = true
	t.AppendHeader(table.Row{"Strategy", "Results Found", "Top Score"})
	for _, report := range reports {
		t.AppendRow(table.Row{report.Strategy.Name, report.ResultCount, FormatTopScore(report.MaxScore)})
	}
	t.Render()
}

func fragmentCell(fragments []string) string {
	if len(fragments) == 0 {
		return noHighlightsMarker
	}
	return strings.Join(fragments, fragmentSeparator)
}
