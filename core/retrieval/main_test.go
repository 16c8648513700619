package retrieval

import (
	"bytes"
	"context"
	"testing"

	"github.com/siherrmann/chunkcompare/database"
	"github.com/siherrmann/chunkcompare/helper/helpertest"
	"github.com/siherrmann/chunkcompare/model"
	"github.com/stretchr/testify/require"
)

// recordingSearch captures search requests and answers with a fixed response
type recordingSearch struct {
	requests []model.SearchRequest
	response *model.SearchResponse
	err      error
}

func (r *recordingSearch) SelectBySearch(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
	r.requests = append(r.requests, req)
	if r.err != nil {
		return nil, r.err
	}
	if r.response == nil {
		return &model.SearchResponse{}, nil
	}
	return r.response, nil
}

func float(v float64) *float64 {
	return &v
}

// initEngine creates an engine on a fake service holding the given articles
func initEngine(t *testing.T, articles map[string]string) (*Engine, *helpertest.FakeService) {
	ctx := context.Background()
	fake := helpertest.NewFakeService(t)
	service, err := fake.NewTestService(&bytes.Buffer{})
	require.NoError(t, err)

	for _, strategy := range model.DefaultStrategies() {
		fake.RegisterInference(strategy.ID)
	}
	indices, err := database.NewIndicesDBHandler(service)
	require.NoError(t, err)
	require.NoError(t, indices.CreateIndex(ctx, model.NewIndexSchema(model.DefaultStrategies())))

	documents, err := database.NewDocumentsDBHandler(service)
	require.NoError(t, err)
	for key, body := range articles {
		_, err := documents.InsertDocument(ctx, model.NewDocument(key, body))
		require.NoError(t, err)
	}

	search, err := database.NewSearchDBHandler(service)
	require.NoError(t, err)

	return NewEngine(search), fake
}
