package api

import (
	"flightfare-core/internal/domain/entity"
	"flightfare-core/internal/domain/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

type RouterConfig struct {
	Version string
	Env     string
	// Limiter guards /flight/predict; nil disables rate limiting.
	Limiter repository.RateLimiter
	// AdminToken guards operational routes; empty leaves them unregistered.
	AdminToken string
}

func SetupRouter(app *fiber.App, handler *Handler, cfg RouterConfig) {
	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"version": cfg.Version,
			"env":     cfg.Env,
		})
	})
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": "Server Up and Running"})
	})

	auth := handler.RequireAuth

	authGroup := app.Group("/auth")
	authGroup.Post("/login", handler.Login)
	authGroup.Post("/refresh", handler.Refresh)

	mailGroup := app.Group("/mail")
	mailGroup.Post("/verify", handler.RequestVerification)
	mailGroup.Get("/verify/:token", handler.VerifyEmail)

	register := app.Group("/register")
	register.Post("", handler.Register)
	register.Post("/forgot-password", handler.ForgotPassword)
	register.Post("/reset-password", handler.ResetPassword)

	user := app.Group("/user", auth)
	user.Get("", handler.CurrentUser)
	user.Delete("", handler.DeleteUser)

	flight := app.Group("/flight")
	if cfg.Limiter != nil {
		flight.Post("/predict", RateLimit(cfg.Limiter), handler.Predict)
	} else {
		flight.Post("/predict", handler.Predict)
	}
	flight.Post("/record", auth, handler.SaveRecord)
	flight.Post("/logs", auth, handler.Logs)
	flight.Delete("/delete/:id", auth, handler.DeleteRecord)

	flight.Get("/sources", handler.ListKeys(entity.KindSource))
	flight.Get("/destinations", handler.ListKeys(entity.KindDestination))
	flight.Get("/airlines", handler.ListKeys(entity.KindAirline))
	flight.Post("/source", auth, handler.AddReferences(entity.KindSource))
	flight.Post("/destination", auth, handler.AddReferences(entity.KindDestination))
	flight.Post("/airline", auth, handler.AddReferences(entity.KindAirline))

	flight.Post("/book", auth, handler.Book)
	flight.Get("/info/:flight_id", auth, handler.FlightInfo)
	flight.Post("/cancel/:flight_id", auth, handler.CancelBooking)
	flight.Get("/booked/logs", auth, handler.BookedLogs)

	if cfg.AdminToken != "" {
		app.Post("/model/reload", RequireAdmin(cfg.AdminToken), handler.ReloadModel)
	}
}
