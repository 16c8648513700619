package chunkcompare

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/siherrmann/chunkcompare/core/pipeline"
	"github.com/siherrmann/chunkcompare/core/report"
	"github.com/siherrmann/chunkcompare/core/retrieval"
	"github.com/siherrmann/chunkcompare/database"
	"github.com/siherrmann/chunkcompare/helper"
	"github.com/siherrmann/chunkcompare/model"
)

// ChunkCompare provides a unified interface to provisioning and comparing chunking strategies
type ChunkCompare struct {
	Service    *helper.Service
	Inference  *database.InferenceDBHandler
	Indices    *database.IndicesDBHandler
	Documents  *database.DocumentsDBHandler
	Search     *database.SearchDBHandler
	Strategies []model.RetrievalStrategy
	Engine     *retrieval.Engine
	Reporter   *report.Reporter
	Pipeline   *pipeline.Pipeline
	// Logging
	log *slog.Logger
}

// NewChunkCompare creates a new ChunkCompare instance with all handlers initialized.
// A nil logger logs to stdout with the configured level.
func NewChunkCompare(config *helper.ServiceConfiguration, logger *slog.Logger) (*ChunkCompare, error) {
	if logger == nil && config != nil {
		logger = helper.NewLogger(os.Stdout, config.LogLevel)
	}

	service, err := helper.NewService("chunkcompare", config, logger)
	if err != nil {
		return nil, helper.NewError("create service", err)
	}

	inference, err := database.NewInferenceDBHandler(service)
	if err != nil {
		return nil, helper.NewError("create inference handler", err)
	}

	indices, err := database.NewIndicesDBHandler(service)
	if err != nil {
		return nil, helper.NewError("create indices handler", err)
	}

	documents, err := database.NewDocumentsDBHandler(service)
	if err != nil {
		return nil, helper.NewError("create documents handler", err)
	}

	search, err := database.NewSearchDBHandler(service)
	if err != nil {
		return nil, helper.NewError("create search handler", err)
	}

	// Sentence strategy is compared first
	engine := retrieval.NewEngine(search)
	reporter, err := report.NewReporter([]retrieval.Strategy{
		retrieval.NewSentenceChunkingStrategy(engine),
		retrieval.NewNoChunkingStrategy(engine),
	}, nil, service.Logger)
	if err != nil {
		return nil, helper.NewError("create reporter", err)
	}

	fetcher := pipeline.NewWikipediaFetcher(config.WikipediaAPIURL, config.RequestTimeout)

	return &ChunkCompare{
		Service:    service,
		Inference:  inference,
		Indices:    indices,
		Documents:  documents,
		Search:     search,
		Strategies: model.DefaultStrategies(),
		Engine:     engine,
		Reporter:   reporter,
		Pipeline:   pipeline.NewPipeline(fetcher.Fetch, service.Logger),
		log:        service.Logger,
	}, nil
}

// SetPipeline replaces the article collection pipeline
func (c *ChunkCompare) SetPipeline(p *pipeline.Pipeline) {
	c.Pipeline = p
}

// RegisterStrategy registers the inference configuration of a strategy unless it exists.
// It returns true if the configuration was created. An existing configuration is not an
// error; registered configurations are never updated.
func (c *ChunkCompare) RegisterStrategy(ctx context.Context, strategy model.RetrievalStrategy) (bool, error) {
	exists, err := c.Inference.SelectInference(ctx, strategy.ID)
	if err != nil {
		return false, helper.NewError("check strategy", err)
	}
	if exists {
		c.log.Warn("Inference configuration already exists, skipping", slog.String("inference_id", strategy.ID))
		return false, nil
	}

	err = c.Inference.InsertInference(ctx, strategy, c.Service.Config.ElserModelID)
	if helper.IsAlreadyExists(err) {
		c.log.Warn("Inference configuration already exists, skipping", slog.String("inference_id", strategy.ID))
		return false, nil
	}
	if err != nil {
		return false, helper.NewError("register strategy", err)
	}

	c.log.Info("Inference configuration created", slog.String("inference_id", strategy.ID), slog.String("chunking", string(strategy.Chunking.Strategy)))
	return true, nil
}

// RegisterStrategies registers all strategies. Failures are logged and never stop
// provisioning. Returns the number of created configurations.
func (c *ChunkCompare) RegisterStrategies(ctx context.Context) int {
	c.log.Info("Setting up inference models", slog.Int("strategies", len(c.Strategies)))

	created := 0
	for _, strategy := range c.Strategies {
		ok, err := c.RegisterStrategy(ctx, strategy)
		if err != nil {
			c.log.Warn("Inference configuration might already exist", slog.String("inference_id", strategy.ID), slog.Any("error", err))
			continue
		}
		if ok {
			created++
		}
	}

	return created
}

// ResetIndex deletes the index if it exists and creates it with one semantic
// sub-field per strategy. A missing index is the only tolerated deletion failure.
func (c *ChunkCompare) ResetIndex(ctx context.Context) error {
	c.log.Info("Setting up index", slog.String("index", c.Indices.Index()))

	deleted, err := c.Indices.DeleteIndex(ctx)
	if err != nil {
		return helper.NewError("reset index", err)
	}
	if deleted {
		c.log.Info("Deleted existing index", slog.String("index", c.Indices.Index()))
	}

	err = c.Indices.CreateIndex(ctx, model.NewIndexSchema(c.Strategies))
	if err != nil {
		return helper.NewError("reset index", err)
	}

	c.log.Info("Index created with semantic text mappings", slog.String("index", c.Indices.Index()))
	return nil
}

// Ingest writes the documents one after another. A failing document is logged
// and skipped. Returns the number of documents written.
func (c *ChunkCompare) Ingest(ctx context.Context, documents []*model.Document) int {
	uploaded := 0
	for _, doc := range documents {
		if doc == nil {
			c.log.Error("Error uploading document", slog.String("error", "document is nil"))
			continue
		}

		id, err := c.Documents.InsertDocument(ctx, doc)
		if err != nil {
			c.log.Error("Error uploading document", slog.String("entity", doc.EntityKey), slog.Any("error", err))
			continue
		}

		c.log.Info("Uploaded document", slog.String("entity", doc.EntityKey), slog.String("id", id))
		uploaded++
	}

	if uploaded > 0 {
		if err := c.Indices.RefreshIndex(ctx); err != nil {
			c.log.Warn("Error refreshing index", slog.Any("error", err))
		}
	}

	return uploaded
}

// Provision runs the complete setup: register strategies, reset the index,
// fetch the articles of all entities and ingest them. Returns the number of
// ingested documents.
func (c *ChunkCompare) Provision(ctx context.Context, entities []string) (int, error) {
	start := time.Now()

	c.RegisterStrategies(ctx)

	if err := c.ResetIndex(ctx); err != nil {
		return 0, err
	}

	documents := c.Pipeline.Collect(ctx, entities)
	uploaded := c.Ingest(ctx, documents)

	c.log.Info("Total countries collected", slog.Int("collected", len(documents)), slog.Int("uploaded", uploaded), slog.Int("requested", len(entities)))
	c.log.Info("Set up completed", slog.Float64("seconds", time.Since(start).Seconds()))

	return uploaded, nil
}

// Compare runs the query against every strategy
func (c *ChunkCompare) Compare(ctx context.Context, query string) (*model.ComparisonReport, error) {
	return c.Reporter.Compare(ctx, query)
}

// RunDemo compares and renders every query to w
func (c *ChunkCompare) RunDemo(ctx context.Context, w io.Writer, queries []string) error {
	return c.Reporter.RunDemo(ctx, w, queries)
}
