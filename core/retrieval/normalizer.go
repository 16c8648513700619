package retrieval

import (
	"sort"
	"strings"

	"github.com/rivo/uniseg"
	"github.com/siherrmann/chunkcompare/model"
)

const (
	emphasisOpen  = "<em>"
	emphasisClose = "</em>"
	ellipsis      = "..."
)

// Normalize converts a search response into display results. The service
// order is kept and ranks start at 1. A nil response yields no results.
func Normalize(res *model.SearchResponse, config *model.QueryConfig) []model.QueryResult {
	if res == nil {
		return []model.QueryResult{}
	}

	maxLength := model.DefaultQueryConfig().MaxFragmentLength
	if config != nil && config.MaxFragmentLength > 0 {
		maxLength = config.MaxFragmentLength
	}

	results := make([]model.QueryResult, 0, len(res.Hits.Hits))
	for i, hit := range res.Hits.Hits {
		score := 0.0
		if hit.Score != nil {
			score = *hit.Score
		}

		results = append(results, model.QueryResult{
			Rank:      i + 1,
			EntityKey: hit.Source.EntityKey,
			Score:     score,
			Fragments: hitFragments(hit, maxLength),
		})
	}

	return results
}

// hitFragments collects the highlight fragments of all fields, in field name order
func hitFragments(hit model.SearchHit, maxLength int) []string {
	fields := make([]string, 0, len(hit.Highlight))
	for field := range hit.Highlight {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	fragments := []string{}
	for _, field := range fields {
		for _, fragment := range hit.Highlight[field] {
			fragments = append(fragments, CleanFragment(fragment, maxLength))
		}
	}

	return fragments
}

// CleanFragment removes emphasis markup and shortens the fragment to maxLength
// grapheme clusters followed by "..." when it is longer than that.
func CleanFragment(fragment string, maxLength int) string {
	cleaned := strings.ReplaceAll(fragment, emphasisOpen, "")
	cleaned = strings.ReplaceAll(cleaned, emphasisClose, "")

	if maxLength <= 0 || uniseg.GraphemeClusterCount(cleaned) <= maxLength {
		return cleaned
	}

	var b strings.Builder
	graphemes := uniseg.NewGraphemes(cleaned)
	for count := 0; count < maxLength && graphemes.Next(); count++ {
		b.WriteString(graphemes.Str())
	}
	b.WriteString(ellipsis)

	return b.String()
}
