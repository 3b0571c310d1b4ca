package handlers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.SendString("AppOrbit server is running")
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "ok"
	storeStatus := "ok"
	if err := h.store.Ping(ctx); err != nil {
		status = "degraded"
		storeStatus = "unhealthy: " + err.Error()
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Store:     storeStatus,
	})
}
