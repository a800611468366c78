package api

import (
	"flightfare-core/internal/domain/entity"

	"github.com/gofiber/fiber/v2"
)

// Predict prices the query for every known airline.
func (h *Handler) Predict(c *fiber.Ctx) error {
	var req flightQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	q, err := req.query()
	if err != nil {
		return fail(c, err)
	}

	prices, err := h.predictor.Predict(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, prices)
}

// SaveRecord prices one airline and stores the result for the caller.
func (h *Handler) SaveRecord(c *fiber.Ctx) error {
	var req flightQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	q, err := req.query()
	if err != nil {
		return fail(c, err)
	}

	record, err := h.bookings.SaveRecord(c.UserContext(), currentUser(c), q, req.Airline)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, record)
}

func (h *Handler) Logs(c *fiber.Ctx) error {
	records, err := h.bookings.Logs(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, records)
}

func (h *Handler) DeleteRecord(c *fiber.Ctx) error {
	if err := h.bookings.DeleteRecord(c.UserContext(), currentUser(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ListKeys(kind entity.ReferenceKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		keys, err := h.datasets.Keys(c.UserContext(), kind)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, fiber.StatusOK, keys)
	}
}

func (h *Handler) AddReferences(kind entity.ReferenceKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req []referenceRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		vectors := make([]entity.ReferenceVector, 0, len(req))
		for _, r := range req {
			vectors = append(vectors, r.vector(kind))
		}

		if err := h.datasets.Add(c.UserContext(), kind, vectors); err != nil {
			return fail(c, err)
		}
		return message(c, fiber.StatusCreated, string(kind)+" records added")
	}
}

// ReloadModel swaps in a freshly loaded model artifact.
func (h *Handler) ReloadModel(c *fiber.Ctx) error {
	schema, err := h.models.Reload(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{
		"schema_version": schema.Version,
		"n_features":     schema.NumFeatures,
	})
}
