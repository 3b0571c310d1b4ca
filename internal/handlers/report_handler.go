package handlers

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	appID, err := uuid.Parse(strings.TrimSpace(req.AppID))
	if err != nil {
		return badRequest(c, "appId must be a valid id")
	}

	report, err := h.reportService.FileReport(c.UserContext(), appID, middleware.PrincipalEmail(c), req.ProductName, req.Reason)
	if err != nil {
		return respondError(c, "file_report", err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	reports, pagination, err := h.reportService.ListReports(c.UserContext(), page, limit)
	if err != nil {
		return respondError(c, "list_reports", err)
	}
	return c.JSON(dto.ReportListResponse{Reports: reports, Pagination: pagination})
}

func (h *ReportHandler) ForApp(c *fiber.Ctx) error {
	appID, err := parseID(c, "appId")
	if err != nil {
		return respondError(c, "list_app_reports", err)
	}
	reports, err := h.reportService.ReportsForApp(c.UserContext(), appID)
	if err != nil {
		return respondError(c, "list_app_reports", err)
	}
	return c.JSON(reports)
}

func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "delete_report", err)
	}
	if err := h.reportService.DeleteReport(c.UserContext(), id); err != nil {
		return respondError(c, "delete_report", err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Report deleted"})
}
