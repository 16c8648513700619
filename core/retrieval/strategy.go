package retrieval

import (
	"context"

	"github.com/siherrmann/chunkcompare/model"
)

// Strategy defines a retrieval strategy
type Strategy interface {
	Definition() model.RetrievalStrategy
	Retrieve(ctx context.Context, query string, config *model.QueryConfig) ([]model.QueryResult, error)
}

// FieldStrategy retrieves from the sub-field bound to one chunking strategy
type FieldStrategy struct {
	engine     *Engine
	definition model.RetrievalStrategy
}

// NewFieldStrategy creates a strategy for an arbitrary strategy definition
func NewFieldStrategy(engine *Engine, definition model.RetrievalStrategy) *FieldStrategy {
	return &FieldStrategy{
		engine:     engine,
		definition: definition,
	}
}

// NewNoChunkingStrategy creates a strategy querying whole article embeddings
func NewNoChunkingStrategy(engine *Engine) *FieldStrategy {
	return NewFieldStrategy(engine, model.NoChunkingStrategy())
}

// NewSentenceChunkingStrategy creates a strategy querying sentence chunk embeddings
func NewSentenceChunkingStrategy(engine *Engine) *FieldStrategy {
	return NewFieldStrategy(engine, model.SentenceChunkingStrategy())
}

// Definition returns the strategy definition
func (s *FieldStrategy) Definition() model.RetrievalStrategy {
	return s.definition
}

// Retrieve queries the strategy's sub-field and normalizes the hits
func (s *FieldStrategy) Retrieve(ctx context.Context, query string, config *model.QueryConfig) ([]model.QueryResult, error) {
	if config == nil {
		defaults := model.DefaultQueryConfig()
		config = &defaults
	}

	res, err := s.engine.Retrieve(ctx, query, s.definition.Field(), config)
	if err != nil {
		return nil, err
	}

	return Normalize(res, config), nil
}
