package mapper

import (
	"encoding/json"

	"collab-docs-be/internal/dto"
	"collab-docs-be/internal/entity"

	"gorm.io/datatypes"
)

// ToDocumentPayload maps a document entity to the client-facing payload.
func ToDocumentPayload(doc *entity.Document) dto.DocumentPayload {
	return dto.DocumentPayload{
		DocumentId:               doc.Id,
		WorkGroupId:              doc.WorkGroupId,
		DocumentStorageServerUrl: doc.StorageServerUrl,
		State:                    string(doc.State),
		Extension:                doc.Extension,
		Metadata:                 json.RawMessage(doc.Metadata),
	}
}

// ToDocumentEntity maps a bus-side document event back to an entity.
func ToDocumentEntity(ev dto.DocumentEvent) *entity.Document {
	return &entity.Document{
		Id:               ev.DocumentId,
		WorkGroupId:      ev.WorkGroupId,
		StorageServerUrl: ev.DocumentStorageServerUrl,
		State:            entity.DocumentState(ev.State),
		Extension:        ev.Extension,
		Metadata:         datatypes.JSON(ev.Metadata),
	}
}
