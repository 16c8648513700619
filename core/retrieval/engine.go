package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/siherrmann/chunkcompare/database"
	"github.com/siherrmann/chunkcompare/helper"
	"github.com/siherrmann/chunkcompare/model"
)

// Engine dispatches semantic queries against single sub-fields of the index
type Engine struct {
	search database.SearchDBHandlerFunctions
}

// NewEngine creates a new retrieval engine
func NewEngine(search database.SearchDBHandlerFunctions) *Engine {
	return &Engine{
		search: search,
	}
}

// Retrieve runs a semantic query scoped to one sub-field. Everything but the
// field is taken from config, so two calls with the same query and config only
// differ in the field they target.
func (e *Engine) Retrieve(ctx context.Context, query string, field string, config *model.QueryConfig) (*model.SearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, helper.NewError("validate query", fmt.Errorf("query is empty"))
	}
	if field == "" {
		return nil, helper.NewError("validate query", fmt.Errorf("field is empty"))
	}
	if config == nil {
		defaults := model.DefaultQueryConfig()
		config = &defaults
	}
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("validate query config", err)
	}

	res, err := e.search.SelectBySearch(ctx, model.NewSemanticSearchRequest(query, field, config))
	if err != nil {
		return nil, helper.NewError(fmt.Sprintf("retrieve %s", field), err)
	}

	return res, nil
}

// SearchWithoutChunking queries the sub-field embedded as a single chunk
func (e *Engine) SearchWithoutChunking(ctx context.Context, query string, config *model.QueryConfig) (*model.SearchResponse, error) {
	return e.Retrieve(ctx, query, model.NoChunkingStrategy().Field(), config)
}

// SearchWithChunking queries the sentence chunked sub-field
func (e *Engine) SearchWithChunking(ctx context.Context, query string, config *model.QueryConfig) (*model.SearchResponse, error) {
	return e.Retrieve(ctx, query, model.SentenceChunkingStrategy().Field(), config)
}
