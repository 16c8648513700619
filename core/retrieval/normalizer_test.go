package retrieval

import (
	"strings"
	"testing"

	"github.com/siherrmann/chunkcompare/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	config := model.DefaultQueryConfig()

	t.Run("Nil response", func(t *testing.T) {
		results := Normalize(nil, &config)
		require.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("Zero hits", func(t *testing.T) {
		results := Normalize(&model.SearchResponse{}, &config)
		require.NotNil(t, results)
		assert.Empty(t, results)
		assert.Equal(t, 0.0, model.MaxScore(results))
	})

	t.Run("Service order is kept", func(t *testing.T) {
		res := &model.SearchResponse{
			Hits: model.SearchHits{
				Hits: []model.SearchHit{
					{Score: float(1.0), Source: model.DocumentSource{EntityKey: "Peru"}},
					{Score: float(4.0), Source: model.DocumentSource{EntityKey: "Bolivia"}},
					{Score: nil, Source: model.DocumentSource{EntityKey: "Ecuador"}},
				},
			},
		}

		results := Normalize(res, &config)
		require.Len(t, results, 3)
		assert.Equal(t, "Peru", results[0].EntityKey)
		assert.Equal(t, 1, results[0].Rank)
		assert.Equal(t, "Bolivia", results[1].EntityKey)
		assert.Equal(t, 2, results[1].Rank)
		assert.Equal(t, "Ecuador", results[2].EntityKey)
		assert.Equal(t, 0.0, results[2].Score)
		assert.Equal(t, 4.0, model.MaxScore(results))
	})

	t.Run("Fragments of several fields are ordered by field name", func(t *testing.T) {
		res := &model.SearchResponse{
			Hits: model.SearchHits{
				Hits: []model.SearchHit{{
					Score:  float(2.0),
					Source: model.DocumentSource{EntityKey: "Cuba"},
					Highlight: map[string][]string{
						"wiki_article.sentence": {"second"},
						"wiki_article.none":     {"<em>first</em>"},
					},
				}},
			},
		}

		results := Normalize(res, &config)
		require.Len(t, results, 1)
		assert.Equal(t, []string{"first", "second"}, results[0].Fragments)
	})

	t.Run("Nil config falls back to the default fragment length", func(t *testing.T) {
		res := &model.SearchResponse{
			Hits: model.SearchHits{
				Hits: []model.SearchHit{{
					Highlight: map[string][]string{"wiki_article.none": {strings.Repeat("a", 600)}},
				}},
			},
		}

		results := Normalize(res, nil)
		require.Len(t, results, 1)
		assert.Equal(t, strings.Repeat("a", 500)+"...", results[0].Fragments[0])
	})
}

func TestCleanFragment(t *testing.T) {
	t.Run("Emphasis markup is removed", func(t *testing.T) {
		assert.Equal(t, "the Panama Canal", CleanFragment("the <em>Panama</em> <em>Canal</em>", 500))
	})

	t.Run("Fragment of exactly the limit is untouched", func(t *testing.T) {
		fragment := strings.Repeat("x", 500)
		assert.Equal(t, fragment, CleanFragment(fragment, 500))
	})

	t.Run("Longer fragment is cut to the limit plus ellipsis", func(t *testing.T) {
		cleaned := CleanFragment(strings.Repeat("y", 501), 500)
		assert.Equal(t, strings.Repeat("y", 500)+"...", cleaned)
	})

	t.Run("Markup does not count towards the limit", func(t *testing.T) {
		fragment := "<em>" + strings.Repeat("z", 500) + "</em>"
		assert.Equal(t, strings.Repeat("z", 500), CleanFragment(fragment, 500))
	})

	t.Run("Limit counts grapheme clusters", func(t *testing.T) {
		fragment := strings.Repeat("é", 3) + strings.Repeat("🇧🇷", 3)
		assert.Equal(t, "ééé🇧🇷...", CleanFragment(fragment, 4))
		assert.Equal(t, fragment, CleanFragment(fragment, 6))
	})
}
