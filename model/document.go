package model

import (
	"strings"

	"github.com/google/uuid"
)

const (
	// EntityKeyField is the keyword field holding the entity name
	EntityKeyField = "country"
	// BodyField is the text field whose sub-fields are semantically indexed
	BodyField = "wiki_article"
)

// documentNamespace scopes the deterministic document ids
var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://en.wikipedia.org/wiki/"))

// Document is one article in the index
type Document struct {
	RID       uuid.UUID `json:"-"`
	EntityKey string    `json:"country"`
	Body      string    `json:"wiki_article"`
}

// NewDocument creates a document whose id is derived from the entity key,
// so writing the same entity twice replaces the earlier version
func NewDocument(entityKey string, body string) *Document {
	return &Document{
		RID:       DocumentRID(entityKey),
		EntityKey: entityKey,
		Body:      body,
	}
}

// DocumentRID returns the deterministic id for an entity key
func DocumentRID(entityKey string) uuid.UUID {
	return uuid.NewSHA1(documentNamespace, []byte(strings.TrimSpace(entityKey)))
}

// DocumentSource is the part of a stored document returned with search hits
type DocumentSource struct {
	EntityKey string `json:"country"`
}
