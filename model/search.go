package model

// SemanticQuery searches one semantic_text field
type SemanticQuery struct {
	Field string `json:"field"`
	Query string `json:"query"`
}

// Query is the query clause of a search request
type Query struct {
	Semantic *SemanticQuery `json:"semantic,omitempty"`
}

// HighlightField configures highlighting for one field
type HighlightField struct {
	Order             string `json:"order,omitempty"`
	NumberOfFragments int    `json:"number_of_fragments"`
}

// Highlight is the highlight clause of a search request
type Highlight struct {
	Fields map[string]HighlightField `json:"fields"`
}

// SearchRequest is the body of a search request
type SearchRequest struct {
	Source    []string   `json:"_source"`
	Size      int        `json:"size"`
	Query     Query      `json:"query"`
	Highlight *Highlight `json:"highlight,omitempty"`
}

// NewSemanticSearchRequest builds a semantic search scoped to a single field,
// highlighting the same field
func NewSemanticSearchRequest(query string, field string, config *QueryConfig) SearchRequest {
	return SearchRequest{
		Source: []string{EntityKeyField},
		Size:   config.ResultLimit,
		Query: Query{
			Semantic: &SemanticQuery{
				Field: field,
				Query: query,
			},
		},
		Highlight: &Highlight{
			Fields: map[string]HighlightField{
				field: {
					Order:             config.HighlightOrder,
					NumberOfFragments: config.FragmentsPerField,
				},
			},
		},
	}
}

// TotalHits is the hit count reported by the service
type TotalHits struct {
	Value    int    `json:"value"`
	Relation string `json:"relation"`
}

// SearchHit is one hit of a search response
type SearchHit struct {
	Index     string              `json:"_index"`
	ID        string              `json:"_id"`
	Score     *float64            `json:"_score"`
	Source    DocumentSource      `json:"_source"`
	Highlight map[string][]string `json:"highlight,omitempty"`
}

// SearchHits is the hits section of a search response
type SearchHits struct {
	Total    TotalHits   `json:"total"`
	MaxScore *float64    `json:"max_score"`
	Hits     []SearchHit `json:"hits"`
}

// SearchResponse is the body of a search response
type SearchResponse struct {
	Took     int        `json:"took"`
	TimedOut bool       `json:"timed_out"`
	Hits     SearchHits `json:"hits"`
}
