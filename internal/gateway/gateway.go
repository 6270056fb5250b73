package gateway

import (
	"context"
	"errors"

	"collab-docs-be/internal/entity"
)

// ErrDocumentNotFound is returned by PopulateMetadata when the storage
// server has no such document.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentGateway mediates all IO on behalf of a document: remote metadata
// and permissions from the storage server, and local state persistence.
type DocumentGateway interface {
	// Load fills the document's persisted state. An id never fetched before
	// is left in the unset state.
	Load(ctx context.Context, doc *entity.Document) error
	// CanBeEdited answers whether doc.Requester may edit the document.
	CanBeEdited(ctx context.Context, doc *entity.Document) (bool, error)
	// PopulateMetadata fetches extension and raw metadata from the storage
	// server.
	PopulateMetadata(ctx context.Context, doc *entity.Document) error
	// Save persists the document's current state.
	Save(ctx context.Context, doc *entity.Document) error
}
