package api

import (
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, err := h.accounts.Register(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User Verification Email sent",
		"data":    user,
	})
}

func (h *Handler) RequestVerification(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.accounts.RequestVerification(c.UserContext(), req.Email); err != nil {
		return fail(c, err)
	}
	return message(c, fiber.StatusOK, "Verification email sent")
}

func (h *Handler) VerifyEmail(c *fiber.Ctx) error {
	if err := h.accounts.VerifyEmail(c.UserContext(), c.Params("token")); err != nil {
		return fail(c, err)
	}
	return message(c, fiber.StatusOK, "Email verified")
}

func (h *Handler) ForgotPassword(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.accounts.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return fail(c, err)
	}
	return message(c, fiber.StatusOK, "Password reset email sent")
}

// ResetPassword takes the token from the query string, as in the mailed link.
func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req passwordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.accounts.ResetPassword(c.UserContext(), c.Query("token"), req.Password); err != nil {
		return fail(c, err)
	}
	return message(c, fiber.StatusOK, "Password reset successful")
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	tokens, err := h.accounts.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *Handler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	tokens, err := h.accounts.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *Handler) CurrentUser(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, currentUser(c))
}

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	if err := h.accounts.Delete(c.UserContext(), currentUser(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
