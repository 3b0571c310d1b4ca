package handlers

import (
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CouponHandler struct {
	couponService *services.CouponService
}

func NewCouponHandler(couponService *services.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

func (h *CouponHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	coupon, err := h.couponService.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, "create_coupon", err)
	}
	return c.Status(fiber.StatusCreated).JSON(coupon)
}

func (h *CouponHandler) List(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	coupons, pagination, err := h.couponService.List(c.UserContext(), page, limit)
	if err != nil {
		return respondError(c, "list_coupons", err)
	}
	return c.JSON(dto.CouponListResponse{Coupons: coupons, Pagination: pagination})
}

func (h *CouponHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "get_coupon", err)
	}
	coupon, err := h.couponService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, "get_coupon", err)
	}
	return c.JSON(coupon)
}

func (h *CouponHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "update_coupon", err)
	}
	var req dto.UpdateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	coupon, err := h.couponService.Update(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, "update_coupon", err)
	}
	return c.JSON(coupon)
}

func (h *CouponHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "delete_coupon", err)
	}
	if err := h.couponService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, "delete_coupon", err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Coupon deleted"})
}

// ListValid returns coupons that can be redeemed right now.
func (h *CouponHandler) ListValid(c *fiber.Ctx) error {
	coupons, err := h.couponService.ListValid(c.UserContext())
	if err != nil {
		return respondError(c, "list_valid_coupons", err)
	}
	return c.JSON(coupons)
}

func (h *CouponHandler) Validate(c *fiber.Ctx) error {
	coupon, err := h.couponService.Validate(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, "validate_coupon", err)
	}
	return c.JSON(coupon)
}
