package dto

import "encoding/json"

// SubscribeRequest is the payload of the "subscribe" websocket event.
type SubscribeRequest struct {
	WorkGroupId              string `json:"workGroupId" validate:"required"`
	DocumentId               string `json:"documentId" validate:"required"`
	DocumentStorageServerUrl string `json:"documentStorageServerUrl" validate:"omitempty,url"`
}

// UnsubscribeRequest is the payload of the "unsubscribe" websocket event.
type UnsubscribeRequest struct {
	DocumentId string `json:"documentId" validate:"required"`
}

// DocumentPayload is the client-facing representation broadcast with
// DOCUMENT_LOAD_DONE.
type DocumentPayload struct {
	DocumentId               string          `json:"documentId"`
	WorkGroupId              string          `json:"workGroupId"`
	DocumentStorageServerUrl string          `json:"documentStorageServerUrl,omitempty"`
	State                    string          `json:"state"`
	Extension                string          `json:"extension,omitempty"`
	Metadata                 json.RawMessage `json:"metadata,omitempty"`
}

// DocumentEvent is the bus-side representation of a document, published by
// the fetch worker on the documents.* topics.
type DocumentEvent struct {
	DocumentId               string          `json:"documentId"`
	WorkGroupId              string          `json:"workGroupId"`
	DocumentStorageServerUrl string          `json:"documentStorageServerUrl,omitempty"`
	State                    string          `json:"state,omitempty"`
	Extension                string          `json:"extension,omitempty"`
	Metadata                 json.RawMessage `json:"metadata,omitempty"`
}

// DocumentDownloadFailedEvent is the payload of documents.download-failed.
type DocumentDownloadFailedEvent struct {
	Document DocumentEvent `json:"document"`
	Error    string        `json:"error"`
}
