package handler

import (
	"collab-docs-be/internal/mapper"
	"collab-docs-be/internal/pkg/serverutils"
	"collab-docs-be/internal/repository/contract"

	"github.com/gofiber/fiber/v2"
)

// DocumentStateHandler exposes the persisted fetch state over plain HTTP,
// mainly for operators and the fetch worker.
type DocumentStateHandler struct {
	repo contract.DocumentStateRepository
}

func NewDocumentStateHandler(repo contract.DocumentStateRepository) *DocumentStateHandler {
	return &DocumentStateHandler{repo: repo}
}

func (h *DocumentStateHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/documents/:id/state", serverutils.JwtMiddleware, h.GetState)
}

func (h *DocumentStateHandler) GetState(c *fiber.Ctx) error {
	doc, err := h.repo.FindById(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if doc == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No state recorded for document"})
	}
	return c.JSON(mapper.ToDocumentPayload(doc))
}
