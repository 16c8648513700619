package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/siherrmann/chunkcompare/model"
)

// FetchFunc returns the plain text article for an entity
type FetchFunc func(ctx context.Context, entity string) (string, error)

// Pipeline turns entity names into documents ready for ingestion
type Pipeline struct {
	Fetcher FetchFunc
	log     *slog.Logger
}

// NewPipeline creates a new collection pipeline
func NewPipeline(fetcher FetchFunc, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Pipeline{
		Fetcher: fetcher,
		log:     logger,
	}
}

// Collect fetches the article of every entity in order. Entities whose
// article cannot be fetched are logged and skipped. A cancelled context
// stops the collection and returns what was collected so far.
func (p *Pipeline) Collect(ctx context.Context, entities []string) []*model.Document {
	documents := make([]*model.Document, 0, len(entities))

	for _, entity := range entities {
		if ctx.Err() != nil {
			p.log.Warn("Collection cancelled", slog.Int("collected", len(documents)), slog.Any("error", ctx.Err()))
			break
		}

		entity = strings.TrimSpace(entity)
		if entity == "" {
			continue
		}

		content, err := p.Fetcher(ctx, entity)
		if err != nil {
			p.log.Error("Error fetching article", slog.String("entity", entity), slog.Any("error", err))
			continue
		}
		if strings.TrimSpace(content) == "" {
			p.log.Error("Error fetching article", slog.String("entity", entity), slog.String("error", "article is empty"))
			continue
		}

		p.log.Debug("Fetched article", slog.String("entity", entity), slog.Int("length", len(content)))
		documents = append(documents, model.NewDocument(entity, content))
	}

	return documents
}
