package service

import (
	"context"
	"encoding/json"

	"collab-docs-be/internal/constant"
	"collab-docs-be/internal/dto"
	"collab-docs-be/internal/entity"
	"collab-docs-be/internal/gateway"
	"collab-docs-be/internal/mapper"
	"collab-docs-be/internal/pkg/logger"
	"collab-docs-be/internal/websocket"

	"github.com/go-playground/validator/v10"
)

// ISessionRegistry is the room surface of the websocket hub.
type ISessionRegistry interface {
	Join(documentId string, conn websocket.Conn)
	Leave(documentId string, conn websocket.Conn)
	Broadcast(documentId string, event string, payload interface{})
}

// IDocumentSessionService admits connections into document sessions and
// decides whether a download has to be triggered. It is the websocket
// dispatcher for the documents namespace.
type IDocumentSessionService interface {
	websocket.Dispatcher
	// TriggerDownload marks the document as downloading and persists that
	// fact. Persistence failures are logged only; the eventual outcome
	// reaches clients through the relay.
	TriggerDownload(ctx context.Context, doc *entity.Document)
}

type documentSessionService struct {
	gateway  gateway.DocumentGateway
	registry ISessionRegistry
	validate *validator.Validate
	logger   logger.ILogger
}

func NewDocumentSessionService(gw gateway.DocumentGateway, registry ISessionRegistry, log logger.ILogger) IDocumentSessionService {
	return &documentSessionService{
		gateway:  gw,
		registry: registry,
		validate: validator.New(),
		logger:   log,
	}
}

// OnSubscribe runs the admission pipeline. Every failure is reported to
// the requester only, as exactly one DOCUMENT_LOAD_FAILED; nothing is
// broadcast until the connection has joined the room.
func (s *documentSessionService) OnSubscribe(ctx context.Context, conn websocket.Conn, data json.RawMessage) {
	var req dto.SubscribeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		conn.Emit(constant.WSEventDocumentLoadFailed, dto.Build400Error("Malformed subscribe request"))
		return
	}
	// Reject bad identifiers before touching the gateway at all.
	if err := s.validate.Struct(&req); err != nil {
		s.logger.Warn("DocumentSession", "Invalid subscribe request", map[string]interface{}{"error": err, "document_id": req.DocumentId})
		conn.Emit(constant.WSEventDocumentLoadFailed, dto.Build400Error("Invalid subscribe request"))
		return
	}

	doc := &entity.Document{
		Id:               req.DocumentId,
		WorkGroupId:      req.WorkGroupId,
		StorageServerUrl: req.DocumentStorageServerUrl,
		Requester:        conn.Identity(),
	}

	if err := s.gateway.Load(ctx, doc); err != nil {
		s.logger.Error("DocumentSession", "Error while getting document", map[string]interface{}{"error": err, "document_id": doc.Id})
		conn.Emit(constant.WSEventDocumentLoadFailed, dto.Build500Error("Error while getting document"))
		return
	}

	canEdit, err := s.gateway.CanBeEdited(ctx, doc)
	if err != nil {
		s.logger.Error("DocumentSession", "Error while checking edit permission", map[string]interface{}{"error": err, "document_id": doc.Id})
		conn.Emit(constant.WSEventDocumentLoadFailed, dto.Build500Error("Error while getting document"))
		return
	}
	if !canEdit {
		conn.Emit(constant.WSEventDocumentLoadFailed, dto.Build403Error("User does not have required permissions to edit the document"))
		return
	}

	if err := s.gateway.PopulateMetadata(ctx, doc); err != nil {
		s.logger.Warn("DocumentSession", "Document metadata not found", map[string]interface{}{"error": err, "document_id": doc.Id})
		conn.Emit(constant.WSEventDocumentLoadFailed, dto.Build404Error("Document not found"))
		return
	}

	if !doc.IsEditableExtension() {
		conn.Emit(constant.WSEventDocumentLoadFailed, dto.Build400Error("Document extension is not supported"))
		return
	}

	s.logger.Info("DocumentSession", "Joining document room", map[string]interface{}{"document_id": doc.Id, "user": conn.Identity()})
	s.registry.Join(doc.Id, conn)

	if doc.State == entity.DocumentStateUnset {
		s.TriggerDownload(ctx, doc)
		return
	}

	if doc.IsDownloaded() {
		// The whole room, not just the requester: a concurrent joiner may
		// have missed the original completion broadcast.
		s.registry.Broadcast(doc.Id, constant.WSEventDocumentLoadDone, mapper.ToDocumentPayload(doc))
	}
	// downloading: the pending relay broadcast covers this connection too.
}

func (s *documentSessionService) OnUnsubscribe(ctx context.Context, conn websocket.Conn, data json.RawMessage) {
	var req dto.UnsubscribeRequest
	if err := json.Unmarshal(data, &req); err != nil || req.DocumentId == "" {
		s.logger.Warn("DocumentSession", "Invalid unsubscribe request", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("DocumentSession", "Leaving document room", map[string]interface{}{"document_id": req.DocumentId})
	s.registry.Leave(req.DocumentId, conn)
}

func (s *documentSessionService) TriggerDownload(ctx context.Context, doc *entity.Document) {
	if err := doc.SetState(entity.DocumentStateDownloading); err != nil {
		s.logger.Warn("DocumentSession", "Refusing download trigger", map[string]interface{}{"error": err, "document_id": doc.Id})
		return
	}
	if err := s.gateway.Save(ctx, doc); err != nil {
		// Known gap: no client-visible signal here. The relay reports the
		// fetch outcome if the worker ever picks the document up.
		s.logger.Error("DocumentSession", "Error while saving document", map[string]interface{}{"error": err, "document_id": doc.Id})
	}
}
