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

// SearchDBHandlerFunctions defines the interface for search operations.
type SearchDBHandlerFunctions interface {
	SelectBySearch(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error)
}

// SearchDBHandler runs searches against the configured index
type SearchDBHandler struct {
	service *helper.Service
	index   string
}

// NewSearchDBHandler creates a new search handler for the configured index
func NewSearchDBHandler(service *helper.Service) (*SearchDBHandler, error) {
	if service == nil || service.Client == nil {
		return nil, helper.NewError("service connection validation", fmt.Errorf("service connection is nil"))
	}

	service.Logger.Debug("Initialized SearchDBHandler")

	return &SearchDBHandler{
		service: service,
		index:   service.Config.Index,
	}, nil
}

// SelectBySearch sends the search request and decodes the response
func (h *SearchDBHandler) SelectBySearch(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, helper.NewError("marshal search request", err)
	}

	ctx, cancel := context.WithTimeout(ctx, h.service.Config.RequestTimeout)
	defer cancel()

	res, err := esapi.SearchRequest{
		Index: []string{h.index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, h.service.Client)
	if err != nil {
		return nil, helper.NewError("search", err)
	}
	defer helper.CloseResponse(res)

	if err := helper.CheckResponse(res); err != nil {
		return nil, helper.NewError("search", err)
	}

	response := &model.SearchResponse{}
	if err := json.NewDecoder(res.Body).Decode(response); err != nil {
		return nil, helper.NewError("decode search response", err)
	}

	return response, nil
}
