package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/siherrmann/chunkcompare/helper"
	"github.com/siherrmann/chunkcompare/model"
)

// DocumentsDBHandlerFunctions defines the interface for document write operations.
type DocumentsDBHandlerFunctions interface {
	InsertDocument(ctx context.Context, doc *model.Document) (string, error)
}

// DocumentsDBHandler writes documents to the configured index
type DocumentsDBHandler struct {
	service *helper.Service
	index   string
}

type indexResponse struct {
	ID     string `json:"_id"`
	Result string `json:"result"`
}

// NewDocumentsDBHandler creates a new documents handler for the configured index
func NewDocumentsDBHandler(service *helper.Service) (*DocumentsDBHandler, error) {
	if service == nil || service.Client == nil {
		return nil, helper.NewError("service connection validation", fmt.Errorf("service connection is nil"))
	}

	service.Logger.Debug("Initialized DocumentsDBHandler")

	return &DocumentsDBHandler{
		service: service,
		index:   service.Config.Index,
	}, nil
}

// InsertDocument writes a document under its deterministic id, replacing an
// earlier version of the same entity. Embedding happens synchronously on the
// service, so the request carries the configured timeout as server side
// timeout as well. Returns the id assigned by the service.
func (h *DocumentsDBHandler) InsertDocument(ctx context.Context, doc *model.Document) (string, error) {
	if doc == nil || doc.EntityKey == "" {
		return "", helper.NewError("validate document", fmt.Errorf("document entity key is empty"))
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return "", helper.NewError("marshal document", err)
	}

	ctx, cancel := context.WithTimeout(ctx, h.service.Config.RequestTimeout)
	defer cancel()

	res, err := esapi.IndexRequest{
		Index:      h.index,
		DocumentID: doc.RID.String(),
		Body:       bytes.NewReader(body),
		Timeout:    h.service.Config.RequestTimeout,
	}.Do(ctx, h.service.Client)
	if err != nil {
		return "", helper.NewError("index document", err)
	}
	defer helper.CloseResponse(res)

	if err := helper.CheckResponse(res); err != nil {
		return "", helper.NewError("index document", err)
	}

	var indexed indexResponse
	if err := json.NewDecoder(res.Body).Decode(&indexed); err != nil {
		return "", helper.NewError("decode index response", err)
	}

	return indexed.ID, nil
}
