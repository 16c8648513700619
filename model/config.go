package model

import "fmt"

// QueryConfig represents configuration for a retrieval query
type QueryConfig struct {
	ResultLimit       int    `json:"result_limit"`        // Maximum hits per strategy
	HighlightOrder    string `json:"highlight_order"`     // Fragment ordering requested from the service
	FragmentsPerField int    `json:"fragments_per_field"` // Maximum fragments per field per hit
	MaxFragmentLength int    `json:"max_fragment_length"` // Display characters kept per fragment
}

// DefaultQueryConfig returns the configuration used by the demo
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		ResultLimit:       5,
		HighlightOrder:    "score",
		FragmentsPerField: 1,
		MaxFragmentLength: 500,
	}
}

// Validate checks that the configuration can be sent to the service
func (c *QueryConfig) Validate() error {
	if c.ResultLimit <= 0 {
		return fmt.Errorf("result limit must be positive, got %d", c.ResultLimit)
	}
	if c.FragmentsPerField < 0 {
		return fmt.Errorf("fragments per field must not be negative, got %d", c.FragmentsPerField)
	}
	if c.MaxFragmentLength <= 0 {
		return fmt.Errorf("max fragment length must be positive, got %d", c.MaxFragmentLength)
	}
	return nil
}
