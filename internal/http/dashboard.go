package http

import (
	"github.com/gofiber/fiber/v2"
)

func (h *handlers) dashboardSummary(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return fail(c, err)
	}
	out, err := h.svcs.Dashboard.Summary(c.UserContext(), scope)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *handlers) dashboardExport(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return fail(c, err)
	}
	url, err := h.svcs.Dashboard.Export(c.UserContext(), scope)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}

func (h *handlers) hourlyUsage(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return fail(c, err)
	}
	rows, err := h.svcs.Dashboard.HourlyUsage(c.UserContext(), scope)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"hourly": rows})
}
