package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
)

func (h *handlers) listAlerts(c *fiber.Ctx) error {
	f := domain.AlertFilter{
		Status:     domain.AlertStatus(c.Query("status")),
		Severity:   domain.Severity(c.Query("severity")),
		Type:       domain.AlertType(c.Query("alert_type")),
		DeviceCode: c.Query("device_code"),
	}
	items, err := h.svcs.Alerts.List(c.UserContext(), f)
	if err != nil {
		return fail(c, err)
	}
	if items == nil {
		items = []domain.Alert{}
	}
	return c.JSON(items)
}

func (h *handlers) acknowledgeAlert(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fail(c, &domain.ValidationError{Field: "id", Reason: "must be an integer"})
	}
	a, err := h.svcs.Alerts.Acknowledge(c.UserContext(), int64(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(a)
}

func (h *handlers) resolveAlert(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fail(c, &domain.ValidationError{Field: "id", Reason: "must be an integer"})
	}
	a, err := h.svcs.Alerts.Resolve(c.UserContext(), int64(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(a)
}

func (h *handlers) runSweep(c *fiber.Ctx) error {
	res, err := h.svcs.Monitor.RunSweep(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(res)
}
