package model

import "fmt"

// ChunkingPolicy is the way the service splits a field before embedding it
type ChunkingPolicy string

const (
	// ChunkingNone embeds the whole field as one unit
	ChunkingNone ChunkingPolicy = "none"
	// ChunkingSentence embeds overlapping groups of sentences
	ChunkingSentence ChunkingPolicy = "sentence"
)

// Validate checks that the policy is one the service understands
func (p ChunkingPolicy) Validate() error {
	switch p {
	case ChunkingNone, ChunkingSentence:
		return nil
	default:
		return fmt.Errorf("unknown chunking policy %q", string(p))
	}
}

// ChunkingSettings are the chunking parameters sent with an inference configuration
type ChunkingSettings struct {
	Strategy        ChunkingPolicy `json:"strategy"`
	MaxChunkSize    int            `json:"max_chunk_size,omitempty"`
	SentenceOverlap *int           `json:"sentence_overlap,omitempty"`
}

// RetrievalStrategy is a named inference configuration together with the
// index sub-field that is embedded with it
type RetrievalStrategy struct {
	ID       string           `json:"id"`        // Inference id registered with the service
	Name     string           `json:"name"`      // Display name used in reports
	SubField string           `json:"sub_field"` // Sub-field of the body field bound to ID
	Chunking ChunkingSettings `json:"chunking"`
}

// Field returns the full field selector targeted by this strategy
func (s RetrievalStrategy) Field() string {
	return BodyField + "." + s.SubField
}

// Validate checks the strategy before it is registered
func (s RetrievalStrategy) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("strategy id is required")
	}
	if s.SubField == "" {
		return fmt.Errorf("strategy %s: sub-field is required", s.ID)
	}
	if err := s.Chunking.Strategy.Validate(); err != nil {
		return fmt.Errorf("strategy %s: %w", s.ID, err)
	}
	return nil
}

// SentenceChunkingStrategy returns the sentence-bounded strategy with one sentence of overlap
func SentenceChunkingStrategy() RetrievalStrategy {
	overlap := 1
	return RetrievalStrategy{
		ID:       "sentence-chunking-demo",
		Name:     "WITH Chunking",
		SubField: string(ChunkingSentence),
		Chunking: ChunkingSettings{
			Strategy:        ChunkingSentence,
			MaxChunkSize:    80,
			SentenceOverlap: &overlap,
		},
	}
}

// NoChunkingStrategy returns the strategy embedding whole articles
func NoChunkingStrategy() RetrievalStrategy {
	return RetrievalStrategy{
		ID:       "none-chunking-demo",
		Name:     "WITHOUT Chunking",
		SubField: string(ChunkingNone),
		Chunking: ChunkingSettings{
			Strategy: ChunkingNone,
		},
	}
}

// DefaultStrategies returns both compared strategies, sentence chunking first
func DefaultStrategies() []RetrievalStrategy {
	return []RetrievalStrategy{
		SentenceChunkingStrategy(),
		NoChunkingStrategy(),
	}
}
