package handlers

import (
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	review, err := h.reviewService.Create(c.UserContext(), middleware.PrincipalEmail(c), &req)
	if err != nil {
		return respondError(c, "create_review", err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *ReviewHandler) List(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Query("productId"))
	if err != nil {
		return badRequest(c, "productId must be a valid id")
	}
	reviews, err := h.reviewService.List(c.UserContext(), productID)
	if err != nil {
		return respondError(c, "list_reviews", err)
	}
	return c.JSON(reviews)
}
