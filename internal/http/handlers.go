package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/observability/metrics"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/service"
)

func Register(app *fiber.App, svcs *service.Services) {
	h := &handlers{svcs: svcs}

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	g := app.Group("/")
	g.Get("facilities", h.listFacilities)
	g.Get("zones", h.listZones)
	g.Get("devices", h.listDevices)
	g.Get("devices/status", h.deviceStatus)

	g.Post("telemetry", h.ingestTelemetry)
	g.Post("telemetry/bulk", h.ingestTelemetryBulk)
	g.Post("parking-log", h.ingestOccupancy)
	g.Post("parking-log/bulk", h.ingestOccupancyBulk)

	g.Get("dashboard/summary", h.dashboardSummary)
	g.Post("dashboard/export", h.dashboardExport)
	g.Get("metrics/hourly-usage", h.hourlyUsage)

	g.Get("alerts", h.listAlerts)
	g.Patch("alerts/:id/ack", h.acknowledgeAlert)
	g.Patch("alerts/:id/resolve", h.resolveAlert)

	g.Post("monitor/sweep", h.runSweep)
}

type handlers struct {
	svcs *service.Services
}

// fail maps the domain error taxonomy onto status codes.
func fail(c *fiber.Ctx, err error) error {
	var nf *domain.NotFoundError
	switch {
	case errors.Is(err, domain.ErrInvalidDate):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid date. Use YYYY-MM-DD."})
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error(), "missing": nf.Keys})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrExportDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body: " + err.Error()})
}

// scope reads date, facility (or facility_id) and zone_code.
func (h *handlers) scope(c *fiber.Ctx) (domain.Scope, error) {
	facility := c.Query("facility")
	if facility == "" {
		facility = c.Query("facility_id")
	}
	return domain.ParseScope(c.Query("date"), facility, c.Query("zone_code"), h.svcs.Location)
}

func (h *handlers) listFacilities(c *fiber.Ctx) error {
	items, err := h.svcs.Store.ListFacilities(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(items)
}

func (h *handlers) listZones(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return fail(c, err)
	}
	items, err := h.svcs.Store.ListZones(c.UserContext(), scope)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(items)
}

func (h *handlers) listDevices(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return fail(c, err)
	}
	items, err := h.svcs.Store.ListDevices(c.UserContext(), scope)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(items)
}

func (h *handlers) deviceStatus(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return fail(c, err)
	}
	out, err := h.svcs.Status.List(c.UserContext(), scope)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"results": out})
}
