package api

import (
	"flightfare-core/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Book(c *fiber.Ctx) error {
	var req bookingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.FlightID == "" {
		return badRequest(c, "flight_id is required")
	}

	booking, err := h.bookings.Book(c.UserContext(), currentUser(c), usecase.BookingRequest{
		FlightID:    req.FlightID,
		UserName:    req.UserName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Flight booked",
		"data":    booking,
	})
}

func (h *Handler) FlightInfo(c *fiber.Ctx) error {
	record, err := h.bookings.Info(c.UserContext(), currentUser(c), c.Params("flight_id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, record)
}

func (h *Handler) CancelBooking(c *fiber.Ctx) error {
	if err := h.bookings.Cancel(c.UserContext(), currentUser(c), c.Params("flight_id")); err != nil {
		return fail(c, err)
	}
	return message(c, fiber.StatusOK, "Flight booking cancelled")
}

func (h *Handler) BookedLogs(c *fiber.Ctx) error {
	records, err := h.bookings.BookedLogs(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, records)
}
