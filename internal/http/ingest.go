package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/service"
)

type telemetryBatch struct {
	Records []service.TelemetryInput `json:"records"`
}

type occupancyBatch struct {
	Records []service.OccupancyInput `json:"records"`
}

func (h *handlers) ingestTelemetry(c *fiber.Ctx) error {
	var in service.TelemetryInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	res, err := h.svcs.Telemetry.Ingest(c.UserContext(), []service.TelemetryInput{in})
	return single(c, res, err)
}

func (h *handlers) ingestTelemetryBulk(c *fiber.Ctx) error {
	var in telemetryBatch
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	res, err := h.svcs.Telemetry.Ingest(c.UserContext(), in.Records)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *handlers) ingestOccupancy(c *fiber.Ctx) error {
	var in service.OccupancyInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	res, err := h.svcs.Occupancy.Ingest(c.UserContext(), []service.OccupancyInput{in})
	return single(c, res, err)
}

func (h *handlers) ingestOccupancyBulk(c *fiber.Ctx) error {
	var in occupancyBatch
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	res, err := h.svcs.Occupancy.Ingest(c.UserContext(), in.Records)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// single turns a one-record batch into a plain create response: a rejected record
// is a 400, a duplicate is a 200 and a fresh row is a 201.
func single(c *fiber.Ctx, res service.IngestResult, err error) error {
	if err != nil {
		return fail(c, err)
	}
	if len(res.Rejected) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": res.Rejected[0].Error})
	}
	if res.Skipped > 0 {
		return c.Status(fiber.StatusOK).JSON(res)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}
