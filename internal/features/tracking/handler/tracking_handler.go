package handler

import (
	"errors"

	"parcel-tracker/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
)

const (
	allowedMethods = "GET, POST, OPTIONS"
	allowedHeaders = "Content-Type"
)

// TrackingHandler handles HTTP requests for tracking operations.
type TrackingHandler struct {
	trackingService *service.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
	}
}

// FetchStatusRequest is the JSON body accepted by POST /api/fetchStatus.
type FetchStatusRequest struct {
	// Carrier is the carrier key, e.g. sagawa.
	Carrier string `json:"carrier" example:"sagawa"`
	// Tracking is the tracking number; hyphens and spaces are ignored.
	Tracking string `json:"tracking" example:"1234-5678-9012"`
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Error is a generic description; upstream details are only logged.
	Error string `json:"error"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// RegisterRoutes mounts the tracking endpoints on router.
func (h *TrackingHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/api/carriers", h.ListCarriers)

	router.Get("/api/fetchStatus", h.GetStatus)
	router.Post("/api/fetchStatus", h.PostStatus)
	router.Options("/api/fetchStatus", h.Preflight)
	router.All("/api/fetchStatus", h.MethodNotAllowed)
}

// GetStatus godoc
// @Summary Get the current status of a parcel
// @Description Scrapes the carrier's tracking page, or asks Track123 for carriers without a scraper
// @Tags tracking
// @Produce json
// @Param carrier query string true "Carrier key (e.g., sagawa, yamato, japanpost)"
// @Param tracking query string true "Tracking number"
// @Success 200 {object} domain.TrackingResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/fetchStatus [get]
func (h *TrackingHandler) GetStatus(c *fiber.Ctx) error {
	return h.lookup(c, c.Query("carrier"), c.Query("tracking"))
}

// PostStatus godoc
// @Summary Get the current status of a parcel
// @Description Same as the GET form with a JSON body
// @Tags tracking
// @Accept json
// @Produce json
// @Param request body FetchStatusRequest true "Carrier and tracking number"
// @Success 200 {object} domain.TrackingResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/fetchStatus [post]
func (h *TrackingHandler) PostStatus(c *fiber.Ctx) error {
	var req FetchStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	return h.lookup(c, req.Carrier, req.Tracking)
}

// Preflight answers CORS preflight requests with no body.
func (h *TrackingHandler) Preflight(c *fiber.Ctx) error {
	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	c.Set(fiber.HeaderAccessControlAllowMethods, allowedMethods)
	c.Set(fiber.HeaderAccessControlAllowHeaders, allowedHeaders)
	return c.SendStatus(fiber.StatusNoContent)
}

// MethodNotAllowed rejects every other method on the lookup route.
func (h *TrackingHandler) MethodNotAllowed(c *fiber.Ctx) error {
	c.Set(fiber.HeaderAllow, allowedMethods)
	return h.fail(c, fiber.StatusMethodNotAllowed, "method not allowed")
}

// ListCarriers godoc
// @Summary List supported carriers
// @Description Lists every carrier key and whether it is scraped or served by Track123
// @Tags tracking
// @Produce json
// @Success 200 {array} domain.CarrierInfo
// @Router /api/carriers [get]
func (h *TrackingHandler) ListCarriers(c *fiber.Ctx) error {
	return c.JSON(h.trackingService.Carriers())
}

func (h *TrackingHandler) lookup(c *fiber.Ctx, carrier, tracking string) error {
	result, err := h.trackingService.Lookup(c.UserContext(), carrier, tracking)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			return h.fail(c, fiber.StatusBadRequest, "invalid carrier/tracking")
		case errors.Is(err, service.ErrCarrierNotSupported):
			return h.fail(c, fiber.StatusNotFound, "carrier not supported")
		default:
			return h.fail(c, fiber.StatusInternalServerError, "fetch error")
		}
	}

	return c.JSON(result)
}

func (h *TrackingHandler) fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Error: message,
		RayID: rayID(c),
	})
}

// rayID returns the request id set by the requestid middleware, if any.
func rayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
