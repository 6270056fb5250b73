package handler

import (
	"os"

	"collab-docs-be/internal/pkg/logger"
	"collab-docs-be/internal/service"
	internalWS "collab-docs-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
)

// DocumentWSHandler upgrades clients into the documents namespace. The
// handshake must carry a valid token; the authenticated identity is what
// the admission pipeline checks permissions for.
type DocumentWSHandler struct {
	hub      *internalWS.Hub
	sessions service.IDocumentSessionService
	logger   logger.ILogger
}

func NewDocumentWSHandler(hub *internalWS.Hub, sessions service.IDocumentSessionService, log logger.ILogger) *DocumentWSHandler {
	return &DocumentWSHandler{
		hub:      hub,
		sessions: sessions,
		logger:   log,
	}
}

func (h *DocumentWSHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/documents", h.ServeWs)
}

// ServeWs handles websocket requests from the peer.
func (h *DocumentWSHandler) ServeWs(c *fiber.Ctx) error {
	// Priority 1: Query Param (Browser standard)
	tokenStr := c.Query("token")

	// Priority 2: Authorization Header (Tooling/Non-browser standard)
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		h.logger.Warn("DocumentWSHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	userId, ok := claims["user_id"].(string)
	if !ok || userId == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("DocumentWSHandler", "Starting WebSocket session", map[string]interface{}{"user": userId})
			internalWS.ServeWs(h.hub, conn, userId, h.sessions, h.logger)
			h.logger.Info("DocumentWSHandler", "WebSocket session ended", map[string]interface{}{"user": userId})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
