package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/siherrmann/chunkcompare/helper"
	"github.com/siherrmann/chunkcompare/model"
)

// IndicesDBHandlerFunctions defines the interface for index lifecycle operations.
type IndicesDBHandlerFunctions interface {
	SelectIndex(ctx context.Context) (bool, error)
	DeleteIndex(ctx context.Context) (bool, error)
	CreateIndex(ctx context.Context, schema model.IndexSchema) error
	RefreshIndex(ctx context.Context) error
}

// IndicesDBHandler manages the lifecycle of the configured index
type IndicesDBHandler struct {
	service *helper.Service
	index   string
}

// NewIndicesDBHandler creates a new indices handler for the configured index
func NewIndicesDBHandler(service *helper.Service) (*IndicesDBHandler, error) {
	if service == nil || service.Client == nil {
		return nil, helper.NewError("service connection validation", fmt.Errorf("service connection is nil"))
	}

	service.Logger.Debug("Initialized IndicesDBHandler", slog.String("index", service.Config.Index))

	return &IndicesDBHandler{
		service: service,
		index:   service.Config.Index,
	}, nil
}

// Index returns the name of the managed index
func (h *IndicesDBHandler) Index() string {
	return h.index
}

// SelectIndex reports whether the index exists
func (h *IndicesDBHandler) SelectIndex(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, h.service.Config.RequestTimeout)
	defer cancel()

	res, err := esapi.IndicesExistsRequest{
		Index: []string{h.index},
	}.Do(ctx, h.service.Client)
	if err != nil {
		return false, helper.NewError("index exists", err)
	}
	defer helper.CloseResponse(res)

	err = helper.CheckResponse(res)
	if helper.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, helper.NewError("index exists", err)
	}

	return true, nil
}

// DeleteIndex deletes the index. A missing index is not an error and
// reported as false, every other failure is returned.
func (h *IndicesDBHandler) DeleteIndex(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, h.service.Config.RequestTimeout)
	defer cancel()

	res, err := esapi.IndicesDeleteRequest{
		Index: []string{h.index},
	}.Do(ctx, h.service.Client)
	if err != nil {
		return false, helper.NewError("delete index", err)
	}
	defer helper.CloseResponse(res)

	err = helper.CheckResponse(res)
	if helper.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, helper.NewError("delete index", err)
	}

	return true, nil
}

// CreateIndex creates the index with the given schema
func (h *IndicesDBHandler) CreateIndex(ctx context.Context, schema model.IndexSchema) error {
	body, err := json.Marshal(schema)
	if err != nil {
		return helper.NewError("marshal index schema", err)
	}

	ctx, cancel := context.WithTimeout(ctx, h.service.Config.RequestTimeout)
	defer cancel()

	res, err := esapi.IndicesCreateRequest{
		Index: h.index,
		Body:  bytes.NewReader(body),
	}.Do(ctx, h.service.Client)
	if err != nil {
		return helper.NewError("create index", err)
	}
	defer helper.CloseResponse(res)

	if err := helper.CheckResponse(res); err != nil {
		return helper.NewError("create index", err)
	}

	return nil
}

// RefreshIndex makes all written documents visible to search
func (h *IndicesDBHandler) RefreshIndex(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.service.Config.RequestTimeout)
	defer cancel()

	res, err := esapi.IndicesRefreshRequest{
		Index: []string{h.index},
	}.Do(ctx, h.service.Client)
	if err != nil {
		return helper.NewError("refresh index", err)
	}
	defer helper.CloseResponse(res)

	if err := helper.CheckResponse(res); err != nil {
		return helper.NewError("refresh index", err)
	}

	return nil
}
