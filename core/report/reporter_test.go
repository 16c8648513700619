package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/siherrmann/chunkcompare/core/retrieval"
	"github.com/siherrmann/chunkcompare/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticStrategy answers every query with fixed results
type staticStrategy struct {
	definition model.RetrievalStrategy
	results    []model.QueryResult
	err        error
	queries    []string
	configs    []model.QueryConfig
}

func (s *staticStrategy) Definition() model.RetrievalStrategy {
	return s.definition
}

func (s *staticStrategy) Retrieve(ctx context.Context, query string, config *model.QueryConfig) ([]model.QueryResult, error) {
	s.queries = append(s.queries, query)
	s.configs = append(s.configs, *config)
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func initStrategies() (*staticStrategy, *staticStrategy) {
	sentence := &staticStrategy{
		definition: model.SentenceChunkingStrategy(),
		results: []model.QueryResult{
			{Rank: 1, EntityKey: "Panama", Score: 18.4567, Fragments: []string{"The Panama Canal connects the oceans."}},
			{Rank: 2, EntityKey: "Nicaragua", Score: 7.1, Fragments: []string{}},
		},
	}
	none := &staticStrategy{definition: model.NoChunkingStrategy()}
	return sentence, none
}

func TestNewReporter(t *testing.T) {
	t.Run("Valid call NewReporter", func(t *testing.T) {
		sentence, none := initStrategies()
		reporter, err := NewReporter([]retrieval.Strategy{sentence, none}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, model.DefaultQueryConfig(), reporter.config)
	})

	t.Run("No strategies", func(t *testing.T) {
		reporter, err := NewReporter(nil, nil, nil)
		assert.Error(t, err)
		assert.Nil(t, reporter)
	})

	t.Run("Strategy without chunking policy", func(t *testing.T) {
		invalid := &staticStrategy{definition: model.RetrievalStrategy{ID: "broken", Name: "Broken", SubField: "broken"}}
		reporter, err := NewReporter([]retrieval.Strategy{invalid}, nil, nil)
		assert.Error(t, err)
		assert.Nil(t, reporter)
	})

	t.Run("Invalid config", func(t *testing.T) {
		sentence, _ := initStrategies()
		config := model.DefaultQueryConfig()
		config.ResultLimit = -1
		reporter, err := NewReporter([]retrieval.Strategy{sentence}, &config, nil)
		assert.Error(t, err)
		assert.Nil(t, reporter)
	})
}

func TestCompare(t *testing.T) {
	ctx := context.Background()

	t.Run("One report per strategy in dispatch order", func(t *testing.T) {
		sentence, none := initStrategies()
		reporter, err := NewReporter([]retrieval.Strategy{sentence, none}, nil, nil)
		require.NoError(t, err)

		comparison, err := reporter.Compare(ctx, "canal")
		require.NoError(t, err)
		assert.Equal(t, "canal", comparison.Query)
		require.Len(t, comparison.Reports, 2)

		assert.Equal(t, "sentence-chunking-demo", comparison.Reports[0].Strategy.ID)
		assert.Equal(t, 2, comparison.Reports[0].ResultCount)
		assert.Equal(t, 18.4567, comparison.Reports[0].MaxScore)

		assert.Equal(t, "none-chunking-demo", comparison.Reports[1].Strategy.ID)
		assert.Equal(t, 0, comparison.Reports[1].ResultCount)
		assert.Equal(t, 0.0, comparison.Reports[1].MaxScore)
		assert.NotNil(t, comparison.Reports[1].Results)
	})

	t.Run("Strategies receive identical query and config", func(t *testing.T) {
		sentence, none := initStrategies()
		reporter, err := NewReporter([]retrieval.Strategy{sentence, none}, nil, nil)
		require.NoError(t, err)

		_, err = reporter.Compare(ctx, "coffee production")
		require.NoError(t, err)
		assert.Equal(t, sentence.queries, none.queries)
		assert.Equal(t, sentence.configs, none.configs)
	})

	t.Run("Query failure is propagated", func(t *testing.T) {
		sentence, none := initStrategies()
		sentence.err = fmt.Errorf("search unavailable")
		reporter, err := NewReporter([]retrieval.Strategy{sentence, none}, nil, nil)
		require.NoError(t, err)

		comparison, err := reporter.Compare(ctx, "hockey")
		require.Error(t, err)
		assert.Nil(t, comparison)
		assert.Contains(t, err.Error(), "search unavailable")
		assert.Empty(t, none.queries, "expected comparison to stop at the first failure")
	})
}

func TestRender(t *testing.T) {
	ctx := context.Background()

	t.Run("Renders tables and summary", func(t *testing.T) {
		sentence, none := initStrategies()
		reporter, err := NewReporter([]retrieval.Strategy{sentence, none}, nil, nil)
		require.NoError(t, err)

		comparison, err := reporter.Compare(ctx, "canal")
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, reporter.Render(&out, comparison))
		output := out.String()

		assert.Contains(t, output, "CHUNKING STRATEGY COMPARISON")
		assert.Contains(t, output, "WITH CHUNKING (Sentence Strategy) SEARCH RESULTS")
		assert.Contains(t, output, "WITHOUT CHUNKING SEARCH RESULTS")
		assert.Contains(t, output, "Relevant Chunks")
		assert.Contains(t, output, "Panama")
		assert.Contains(t, output, "18.457")
		assert.Contains(t, output, "No highlights")
		assert.Contains(t, output, "❌ No results found")
		assert.Contains(t, output, "COMPARISON SUMMARY")
		assert.Contains(t, output, "Results Found")

		sentenceSection := strings.Index(output, "WITH CHUNKING (Sentence Strategy)")
		noneSection := strings.Index(output, "WITHOUT CHUNKING SEARCH RESULTS")
		summary := strings.Index(output, "COMPARISON SUMMARY")
		assert.Less(t, sentenceSection, noneSection)
		assert.Less(t, noneSection, summary)
	})

	t.Run("Nil comparison", func(t *testing.T) {
		sentence, _ := initStrategies()
		reporter, err := NewReporter([]retrieval.Strategy{sentence}, nil, nil)
		require.NoError(t, err)

		assert.Error(t, reporter.Render(&bytes.Buffer{}, nil))
	})
}

func TestRunDemo(t *testing.T) {
	ctx := context.Background()

	t.Run("Runs every query", func(t *testing.T) {
		sentence, none := initStrategies()
		reporter, err := NewReporter([]retrieval.Strategy{sentence, none}, nil, nil)
		require.NoError(t, err)

		var out bytes.Buffer
		err = reporter.RunDemo(ctx, &out, []string{"hockey", "coffee production"})
		require.NoError(t, err)

		assert.Equal(t, []string{"hockey", "coffee production"}, sentence.queries)
		assert.Equal(t, 2, strings.Count(out.String(), "COMPARISON SUMMARY"))
		assert.Contains(t, out.String(), "Demo completed!")
	})

	t.Run("Stops at the first failing query", func(t *testing.T) {
		sentence, none := initStrategies()
		none.err = fmt.Errorf("timeout")
		reporter, err := NewReporter([]retrieval.Strategy{sentence, none}, nil, nil)
		require.NoError(t, err)

		var out bytes.Buffer
		err = reporter.RunDemo(ctx, &out, []string{"hockey", "coffee production"})
		require.Error(t, err)
		assert.Equal(t, []string{"hockey"}, sentence.queries)
		assert.NotContains(t, out.String(), "Demo completed!")
	})
}

func TestHeadingAndTopScore(t *testing.T) {
	t.Run("Heading", func(t *testing.T) {
		assert.Equal(t, "WITH CHUNKING (Sentence Strategy)", Heading(model.SentenceChunkingStrategy()))
		assert.Equal(t, "WITHOUT CHUNKING", Heading(model.NoChunkingStrategy()))
		assert.Equal(t, "UNCONFIGURED", Heading(model.RetrievalStrategy{Name: "Unconfigured"}))
	})

	t.Run("Top score", func(t *testing.T) {
		assert.Equal(t, "0", FormatTopScore(0))
		assert.Equal(t, "12.346", FormatTopScore(12.3456))
	})
}
