package bootstrap

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"collab-docs-be/internal/config"
	"collab-docs-be/internal/gateway"
	"collab-docs-be/internal/handler"
	"collab-docs-be/internal/pkg/logger"
	"collab-docs-be/internal/repository/implementation"
	"collab-docs-be/internal/service"
	"collab-docs-be/internal/websocket"
	"collab-docs-be/pkg/events"
	pktNats "collab-docs-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Container wires the coordinator exactly once; there is no package-level
// init state anywhere else.
type Container struct {
	DocumentWSHandler    *handler.DocumentWSHandler
	DocumentStateHandler *handler.DocumentStateHandler

	WebSocketHub   *websocket.Hub
	SessionService service.IDocumentSessionService
	RelayService   service.IRelayService

	natsSub *pktNats.Subscriber
	logger  logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event Bus (in-process). The NATS bridge below feeds it from the
	// cluster-wide stream.
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Redis (optional, for multi-instance room fan-out)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Invalid REDIS_URL, running single-instance: %v", err)
		} else {
			rdb = redis.NewClient(opts)
		}
	}

	// Session Registry
	hub := websocket.NewHub(rdb, sysLogger)
	go hub.Run()

	// Document Gateway
	stateRepo := implementation.NewDocumentStateRepository(db)
	storageGateway := gateway.NewStorageGateway(
		stateRepo,
		cfg.Storage.ServerURL,
		time.Duration(cfg.Storage.RequestTimeoutSeconds)*time.Second,
		time.Duration(cfg.Storage.PermissionCacheTTL)*time.Second,
		sysLogger,
	)

	// Core services
	sessionService := service.NewDocumentSessionService(storageGateway, hub, sysLogger)
	relayService := service.NewRelayService(pubSub, hub, sessionService, sysLogger)
	if err := relayService.Start(context.Background()); err != nil {
		log.Fatalf("[FATAL] Failed to start document relay: %v", err)
	}

	// NATS bridge: republish cluster-wide document events onto the local
	// bus so the relay has a single subscription surface.
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		err = natsSub.Subscribe("documents.*", "", func(ctx context.Context, ev events.Event) error {
			payload, err := json.Marshal(ev.Payload())
			if err != nil {
				return err
			}
			return pubSub.Publish(ev.EventType(), message.NewMessage(watermill.NewUUID(), payload))
		})
		if err != nil {
			log.Printf("[WARN] Failed to subscribe to document events: %v", err)
		}
	}

	return &Container{
		DocumentWSHandler:    handler.NewDocumentWSHandler(hub, sessionService, sysLogger),
		DocumentStateHandler: handler.NewDocumentStateHandler(stateRepo),
		WebSocketHub:         hub,
		SessionService:       sessionService,
		RelayService:         relayService,
		natsSub:              natsSub,
		logger:               sysLogger,
	}
}

// Shutdown tears the relay subscriptions down so a re-initialized process
// (or test) never leaks handlers.
func (c *Container) Shutdown() {
	c.RelayService.Stop()
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.logger != nil {
		c.logger.Sync()
	}
}
