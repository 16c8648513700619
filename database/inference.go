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

// InferenceDBHandlerFunctions defines the interface for inference configuration operations.
type InferenceDBHandlerFunctions interface {
	SelectInference(ctx context.Context, inferenceID string) (bool, error)
	InsertInference(ctx context.Context, strategy model.RetrievalStrategy, modelID string) error
}

// InferenceDBHandler handles the inference configurations of the search service
type InferenceDBHandler struct {
	service *helper.Service
}

// NewInferenceDBHandler creates a new inference handler
func NewInferenceDBHandler(service *helper.Service) (*InferenceDBHandler, error) {
	if service == nil || service.Client == nil {
		return nil, helper.NewError("service connection validation", fmt.Errorf("service connection is nil"))
	}

	service.Logger.Debug("Initialized InferenceDBHandler")

	return &InferenceDBHandler{
		service: service,
	}, nil
}

// SelectInference reports whether an inference configuration with the id exists
func (h *InferenceDBHandler) SelectInference(ctx context.Context, inferenceID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, h.service.Config.RequestTimeout)
	defer cancel()

	res, err := esapi.InferenceGetRequest{
		InferenceID: inferenceID,
		TaskType:    model.ElserTaskType,
	}.Do(ctx, h.service.Client)
	if err != nil {
		return false, helper.NewError("get inference", err)
	}
	defer helper.CloseResponse(res)

	err = helper.CheckResponse(res)
	if helper.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, helper.NewError("get inference", err)
	}

	return true, nil
}

// InsertInference registers the inference configuration of a strategy
func (h *InferenceDBHandler) InsertInference(ctx context.Context, strategy model.RetrievalStrategy, modelID string) error {
	if err := strategy.Validate(); err != nil {
		return helper.NewError("validate strategy", err)
	}

	body, err := json.Marshal(model.NewRegisterStrategyRequest(strategy, modelID))
	if err != nil {
		return helper.NewError("marshal inference config", err)
	}

	ctx, cancel := context.WithTimeout(ctx, h.service.Config.RequestTimeout)
	defer cancel()

	res, err := esapi.InferencePutRequest{
		InferenceID: strategy.ID,
		TaskType:    model.ElserTaskType,
		Body:        bytes.NewReader(body),
	}.Do(ctx, h.service.Client)
	if err != nil {
		return helper.NewError("put inference", err)
	}
	defer helper.CloseResponse(res)

	if err := helper.CheckResponse(res); err != nil {
		return helper.NewError("put inference", err)
	}

	h.service.Logger.Debug("Registered inference", slog.String("inference_id", strategy.ID), slog.String("chunking", string(strategy.Chunking.Strategy)))

	return nil
}
