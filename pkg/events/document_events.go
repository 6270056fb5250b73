package events

import (
	"time"

	"collab-docs-be/internal/constant"
	"collab-docs-be/internal/entity"
)

func documentData(doc *entity.Document) map[string]interface{} {
	return map[string]interface{}{
		"documentId":               doc.Id,
		"workGroupId":              doc.WorkGroupId,
		"documentStorageServerUrl": doc.StorageServerUrl,
		"state":                    string(doc.State),
		"extension":                doc.Extension,
	}
}

// NewDocumentDownloaded is published by the fetch worker once a document
// is materialized.
func NewDocumentDownloaded(doc *entity.Document) Event {
	return BaseEvent{
		Type:       constant.TopicDocumentDownloaded,
		Data:       documentData(doc),
		OccurredAt: time.Now(),
	}
}

// NewDocumentDownloadFailed carries the failure cause alongside the
// document.
func NewDocumentDownloadFailed(doc *entity.Document, cause string) Event {
	return BaseEvent{
		Type: constant.TopicDocumentDownloadFailed,
		Data: map[string]interface{}{
			"document": documentData(doc),
			"error":    cause,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentSaved signals a conflicting write that invalidates any
// fetched copy.
func NewDocumentSaved(doc *entity.Document) Event {
	return BaseEvent{
		Type:       constant.TopicDocumentSaved,
		Data:       documentData(doc),
		OccurredAt: time.Now(),
	}
}
