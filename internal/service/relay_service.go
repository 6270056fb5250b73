package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"collab-docs-be/internal/constant"
	"collab-docs-be/internal/dto"
	"collab-docs-be/internal/mapper"
	"collab-docs-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

// IRelayService turns asynchronous fetch-outcome events from the bus into
// room broadcasts. Subscriptions live for the coordinator's lifetime and
// are torn down by Stop.
type IRelayService interface {
	Start(ctx context.Context) error
	Stop()
}

type relayService struct {
	subscriber message.Subscriber
	registry   ISessionRegistry
	sessions   IDocumentSessionService
	logger     logger.ILogger

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
}

func NewRelayService(
	subscriber message.Subscriber,
	registry ISessionRegistry,
	sessions IDocumentSessionService,
	log logger.ILogger,
) IRelayService {
	return &relayService{
		subscriber: subscriber,
		registry:   registry,
		sessions:   sessions,
		logger:     log,
	}
}

func (r *relayService) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return errors.New("document relay is already started")
	}

	ctx, cancel := context.WithCancel(ctx)

	topics := map[string]func(context.Context, *message.Message){
		constant.TopicDocumentDownloaded:     r.onDocumentDownloaded,
		constant.TopicDocumentDownloadFailed: r.onDocumentDownloadFailed,
		constant.TopicDocumentSaved:          r.onDocumentSaved,
	}
	for topic, handle := range topics {
		messages, err := r.subscriber.Subscribe(ctx, topic)
		if err != nil {
			cancel()
			return err
		}
		go r.consume(ctx, messages, handle)
	}

	r.started = true
	r.cancel = cancel
	return nil
}

func (r *relayService) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return
	}
	r.cancel()
	r.started = false
}

// consume acks every message: relay handlers are fire-and-forget, failures
// are logged and never retried.
func (r *relayService) consume(ctx context.Context, messages <-chan *message.Message, handle func(context.Context, *message.Message)) {
	for msg := range messages {
		handle(ctx, msg)
		msg.Ack()
	}
}

func (r *relayService) onDocumentDownloaded(ctx context.Context, msg *message.Message) {
	var ev dto.DocumentEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil || ev.DocumentId == "" {
		r.logger.Warn("DocumentRelay", "Invalid downloaded event", map[string]interface{}{"error": err})
		return
	}

	doc := mapper.ToDocumentEntity(ev)
	r.registry.Broadcast(doc.Id, constant.WSEventDocumentLoadDone, mapper.ToDocumentPayload(doc))
}

func (r *relayService) onDocumentDownloadFailed(ctx context.Context, msg *message.Message) {
	var ev dto.DocumentDownloadFailedEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil || ev.Document.DocumentId == "" {
		r.logger.Warn("DocumentRelay", "Invalid download-failed event", map[string]interface{}{"error": err})
		return
	}

	r.logger.Error("DocumentRelay", "Document download failed", map[string]interface{}{"document_id": ev.Document.DocumentId, "cause": ev.Error})
	// Everyone in the room shares the fetch outcome, so everyone hears
	// about the failure.
	r.registry.Broadcast(ev.Document.DocumentId, constant.WSEventDocumentLoadFailed, dto.Build500Error("Error while getting document"))
}

// onDocumentSaved handles a conflicting write: whatever was fetched is now
// stale, so the document goes back to downloading regardless of how many
// connections are currently waiting on it.
func (r *relayService) onDocumentSaved(ctx context.Context, msg *message.Message) {
	var ev dto.DocumentEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil || ev.DocumentId == "" {
		r.logger.Warn("DocumentRelay", "Invalid saved event", map[string]interface{}{"error": err})
		return
	}

	r.sessions.TriggerDownload(ctx, mapper.ToDocumentEntity(ev))
}
