package model

// Field types used in the index schema
const (
	FieldTypeKeyword      = "keyword"
	FieldTypeText         = "text"
	FieldTypeSemanticText = "semantic_text"
)

// ElserTaskType is the inference task type of the ELSER model
const ElserTaskType = "sparse_embedding"

// ServiceSettings configure the model deployment behind an inference id
type ServiceSettings struct {
	NumAllocations int    `json:"num_allocations"`
	NumThreads     int    `json:"num_threads"`
	ModelID        string `json:"model_id"`
}

// RegisterStrategyRequest is the body of an inference configuration registration
type RegisterStrategyRequest struct {
	Service          string           `json:"service"`
	ServiceSettings  ServiceSettings  `json:"service_settings"`
	ChunkingSettings ChunkingSettings `json:"chunking_settings"`
}

// NewRegisterStrategyRequest builds the registration body for a strategy using the given model
func NewRegisterStrategyRequest(strategy RetrievalStrategy, modelID string) RegisterStrategyRequest {
	return RegisterStrategyRequest{
		Service: "elasticsearch",
		ServiceSettings: ServiceSettings{
			NumAllocations: 1,
			NumThreads:     2,
			ModelID:        modelID,
		},
		ChunkingSettings: strategy.Chunking,
	}
}

// Property is one field mapping
type Property struct {
	Type        string              `json:"type"`
	InferenceID string              `json:"inference_id,omitempty"`
	Fields      map[string]Property `json:"fields,omitempty"`
}

// Mappings holds the field mappings of an index
type Mappings struct {
	Properties map[string]Property `json:"properties"`
}

// IndexSchema is the body of an index creation request
type IndexSchema struct {
	Mappings Mappings `json:"mappings"`
}

// NewIndexSchema binds one semantic sub-field of the body field to each strategy
func NewIndexSchema(strategies []RetrievalStrategy) IndexSchema {
	subFields := make(map[string]Property, len(strategies))
	for _, s := range strategies {
		subFields[s.SubField] = Property{
			Type:        FieldTypeSemanticText,
			InferenceID: s.ID,
		}
	}

	return IndexSchema{
		Mappings: Mappings{
			Properties: map[string]Property{
				EntityKeyField: {Type: FieldTypeKeyword},
				BodyField: {
					Type:   FieldTypeText,
					Fields: subFields,
				},
			},
		},
	}
}
