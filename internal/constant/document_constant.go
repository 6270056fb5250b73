package constant

const (
	// Inbound websocket events (client -> server).
	WSEventSubscribe   = "subscribe"
	WSEventUnsubscribe = "unsubscribe"

	// Outbound websocket events (server -> room/clients).
	WSEventDocumentLoadDone   = "DOCUMENT_LOAD_DONE"
	WSEventDocumentLoadFailed = "DOCUMENT_LOAD_FAILED"

	// Event bus topics consumed by the relay. The external fetch worker
	// publishes on these subjects (NATS side uses the same names).
	TopicDocumentDownloaded     = "documents.downloaded"
	TopicDocumentDownloadFailed = "documents.download-failed"
	TopicDocumentSaved          = "documents.saved"
)
