package model

// QueryResult is one normalized hit, ready for display
type QueryResult struct {
	Rank      int      `json:"rank"`
	EntityKey string   `json:"entity_key"`
	Score     float64  `json:"score"`
	Fragments []string `json:"fragments"`
}

// StrategyReport holds the results of one strategy for one query
type StrategyReport struct {
	Strategy    RetrievalStrategy `json:"strategy"`
	Results     []QueryResult     `json:"results"`
	ResultCount int               `json:"result_count"`
	MaxScore    float64           `json:"max_score"`
}

// NewStrategyReport summarizes results. MaxScore is 0 for an empty result set.
func NewStrategyReport(strategy RetrievalStrategy, results []QueryResult) StrategyReport {
	if results == nil {
		results = []QueryResult{}
	}
	return StrategyReport{
		Strategy:    strategy,
		Results:     results,
		ResultCount: len(results),
		MaxScore:    MaxScore(results),
	}
}

// ComparisonReport pairs the results of the compared strategies for the same query
type ComparisonReport struct {
	Query   string           `json:"query"`
	Config  QueryConfig      `json:"config"`
	Reports []StrategyReport `json:"reports"`
}

// MaxScore returns the highest score in results, or 0 if there are none
func MaxScore(results []QueryResult) float64 {
	if len(results) == 0 {
		return 0
	}
	top := results[0].Score
	for _, r := range results[1:] {
		if r.Score > top {
			top = r.Score
		}
	}
	return top
}
