package handlers

import (
	"net/url"
	"strings"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Upsert is called by the client after every sign-in.
func (h *UserHandler) Upsert(c *fiber.Ctx) error {
	var req dto.UpsertUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, created, err := h.userService.Upsert(c.UserContext(), &req)
	if err != nil {
		return respondError(c, "upsert_user", err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(dto.UpsertUserResponse{Created: created, User: user})
}

func (h *UserHandler) Role(c *fiber.Ctx) error {
	role, err := h.userService.RoleOf(c.UserContext(), emailParam(c))
	if err != nil {
		return respondError(c, "get_role", err)
	}
	return c.JSON(dto.RoleResponse{Role: role})
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateProfile(c.UserContext(), middleware.PrincipalEmail(c), emailParam(c), &req)
	if err != nil {
		return respondError(c, "update_profile", err)
	}
	return c.JSON(user)
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	users, pagination, err := h.userService.List(c.UserContext(), page, limit, c.Query("search"))
	if err != nil {
		return respondError(c, "list_users", err)
	}
	return c.JSON(dto.UserListResponse{Users: users, Pagination: pagination})
}

func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "update_role", err)
	}
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateRole(c.UserContext(), id, models.Role(strings.ToLower(strings.TrimSpace(req.Role))))
	if err != nil {
		return respondError(c, "update_role", err)
	}
	return c.JSON(user)
}

func emailParam(c *fiber.Ctx) string {
	raw := c.Params("email")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
