package handlers

import (
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

type AppHandler struct {
	appService    *services.AppService
	votingService *services.VotingService
}

func NewAppHandler(appService *services.AppService, votingService *services.VotingService) *AppHandler {
	return &AppHandler{appService: appService, votingService: votingService}
}

func (h *AppHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAppRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	app, err := h.appService.Create(c.UserContext(), middleware.PrincipalEmail(c), &req)
	if err != nil {
		return respondError(c, "create_app", err)
	}
	return c.Status(fiber.StatusCreated).JSON(app)
}

// List handles GET /apps?status=&featured=&sort=&tag=.
func (h *AppHandler) List(c *fiber.Ctx) error {
	filter := store.AppFilter{
		Status: models.AppStatus(strings.ToLower(c.Query("status"))),
		Sort:   store.AppSort(strings.ToLower(c.Query("sort"))),
		Tag:    c.Query("tag"),
	}
	if raw := c.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "featured must be true or false")
		}
		filter.Featured = &featured
	}

	apps, err := h.appService.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, "list_apps", err)
	}
	return c.JSON(apps)
}

func (h *AppHandler) Paginated(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	apps, pagination, err := h.appService.Paginated(c.UserContext(), page, limit, c.Query("search"))
	if err != nil {
		return respondError(c, "list_apps", err)
	}
	return c.JSON(dto.AppListResponse{Apps: apps, Pagination: pagination})
}

func (h *AppHandler) ListMine(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	apps, pagination, err := h.appService.ListByOwner(c.UserContext(), middleware.PrincipalEmail(c), c.Query("email"), page, limit)
	if err != nil {
		return respondError(c, "list_own_apps", err)
	}
	return c.JSON(dto.AppListResponse{Apps: apps, Pagination: pagination})
}

func (h *AppHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "get_app", err)
	}
	app, err := h.appService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, "get_app", err)
	}
	return c.JSON(app)
}

func (h *AppHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "update_app", err)
	}
	var req dto.UpdateAppRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	app, err := h.appService.Update(c.UserContext(), id, middleware.PrincipalEmail(c), &req)
	if err != nil {
		return respondError(c, "update_app", err)
	}
	return c.JSON(app)
}

func (h *AppHandler) Feature(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "feature_app", err)
	}
	// An empty body features the application.
	featured := true
	if len(c.Body()) > 0 {
		var req dto.FeatureRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if req.IsFeatured != nil {
			featured = *req.IsFeatured
		}
	}

	app, err := h.appService.SetFeatured(c.UserContext(), id, featured)
	if err != nil {
		return respondError(c, "feature_app", err)
	}
	return c.JSON(app)
}

func (h *AppHandler) SetStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "set_app_status", err)
	}
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	app, err := h.appService.SetStatus(c.UserContext(), id, models.AppStatus(strings.ToLower(req.Status)))
	if err != nil {
		return respondError(c, "set_app_status", err)
	}
	return c.JSON(app)
}

func (h *AppHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "delete_app", err)
	}
	if err := h.appService.Delete(c.UserContext(), id, middleware.PrincipalEmail(c)); err != nil {
		return respondError(c, "delete_app", err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Application deleted"})
}

func (h *AppHandler) Upvote(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "upvote", err)
	}
	app, err := h.votingService.ApplyVote(c.UserContext(), id, middleware.PrincipalEmail(c))
	if err != nil {
		return respondError(c, "upvote", err)
	}
	return c.JSON(dto.VoteResponse{Success: true, Upvotes: app.Upvotes, Voters: app.Voters})
}

func (h *AppHandler) UndoUpvote(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "undo_upvote", err)
	}
	app, err := h.votingService.UndoVote(c.UserContext(), id, middleware.PrincipalEmail(c))
	if err != nil {
		return respondError(c, "undo_upvote", err)
	}
	return c.JSON(dto.VoteResponse{Success: true, Upvotes: app.Upvotes, Voters: app.Voters})
}
