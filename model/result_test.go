package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxScore(t *testing.T) {
	t.Run("Empty results give zero", func(t *testing.T) {
		assert.Equal(t, 0.0, MaxScore(nil))
		assert.Equal(t, 0.0, MaxScore([]QueryResult{}))
	})

	t.Run("Highest score is returned regardless of position", func(t *testing.T) {
		results := []QueryResult{
			{Rank: 1, EntityKey: "Brazil", Score: 12.5},
			{Rank: 2, EntityKey: "Colombia", Score: 14.1},
			{Rank: 3, EntityKey: "Peru", Score: 3.2},
		}
		assert.Equal(t, 14.1, MaxScore(results))
	})
}

func TestNewStrategyReport(t *testing.T) {
	t.Run("Empty report", func(t *testing.T) {
		report := NewStrategyReport(NoChunkingStrategy(), nil)

		assert.NotNil(t, report.Results, "Expected empty, non-nil results")
		assert.Empty(t, report.Results)
		assert.Equal(t, 0, report.ResultCount)
		assert.Equal(t, 0.0, report.MaxScore)
	})

	t.Run("Report summarizes results", func(t *testing.T) {
		results := []QueryResult{
			{Rank: 1, EntityKey: "Canada", Score: 9.0},
			{Rank: 2, EntityKey: "United States", Score: 7.5},
		}
		report := NewStrategyReport(SentenceChunkingStrategy(), results)

		assert.Equal(t, 2, report.ResultCount)
		assert.Equal(t, 9.0, report.MaxScore)
		assert.Equal(t, "sentence-chunking-demo", report.Strategy.ID)
	})
}
