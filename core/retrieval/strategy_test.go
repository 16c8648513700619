package retrieval

import (
	"context"
	"testing"

	"github.com/siherrmann/chunkcompare/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStrategies(t *testing.T) {
	engine := NewEngine(&recordingSearch{})

	t.Run("Create no chunking strategy", func(t *testing.T) {
		strategy := NewNoChunkingStrategy(engine)
		require.NotNil(t, strategy)
		assert.NotNil(t, strategy.engine)
		assert.Equal(t, model.NoChunkingStrategy(), strategy.Definition())
	})

	t.Run("Create sentence chunking strategy", func(t *testing.T) {
		strategy := NewSentenceChunkingStrategy(engine)
		require.NotNil(t, strategy)
		assert.Equal(t, model.SentenceChunkingStrategy(), strategy.Definition())
	})
}

func TestFieldStrategyRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("Retrieve targets the strategy field and normalizes", func(t *testing.T) {
		search := &recordingSearch{
			response: &model.SearchResponse{
				Hits: model.SearchHits{
					MaxScore: float(12.5),
					Hits: []model.SearchHit{
						{
							ID:        "1",
							Score:     float(12.5),
							Source:    model.DocumentSource{EntityKey: "Brazil"},
							Highlight: map[string][]string{"wiki_article.sentence": {"Brazil is the largest <em>coffee</em> producer."}},
						},
						{
							ID:     "2",
							Score:  float(3.25),
							Source: model.DocumentSource{EntityKey: "Colombia"},
						},
					},
				},
			},
		}
		strategy := NewSentenceChunkingStrategy(NewEngine(search))

		results, err := strategy.Retrieve(ctx, "coffee production", nil)
		require.NoError(t, err)
		require.Len(t, search.requests, 1)
		assert.Equal(t, "wiki_article.sentence", search.requests[0].Query.Semantic.Field)

		require.Len(t, results, 2)
		assert.Equal(t, model.QueryResult{Rank: 1, EntityKey: "Brazil", Score: 12.5, Fragments: []string{"Brazil is the largest coffee producer."}}, results[0])
		assert.Equal(t, 2, results[1].Rank)
		assert.Empty(t, results[1].Fragments)
	})

	t.Run("Retrieve against the fake service", func(t *testing.T) {
		engine, _ := initEngine(t, map[string]string{
			"Canada": "Canada is a country in North America. Ice hockey is the national winter sport.",
		})

		for _, strategy := range []Strategy{NewSentenceChunkingStrategy(engine), NewNoChunkingStrategy(engine)} {
			results, err := strategy.Retrieve(ctx, "hockey", nil)
			require.NoError(t, err, strategy.Definition().Name)
			require.Len(t, results, 1, strategy.Definition().Name)
			assert.Equal(t, "Canada", results[0].EntityKey)
			require.Len(t, results[0].Fragments, 1)
			assert.NotContains(t, results[0].Fragments[0], "<em>")
			assert.Contains(t, results[0].Fragments[0], "hockey")
		}
	})
}
