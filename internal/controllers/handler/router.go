package handler

import (
	"wardflow/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Router struct {
	handler Handler
	app     *fiber.App
	conf    *config.Config
	logger  *zap.SugaredLogger
}

func NewRouter(handler Handler, app *fiber.App, conf *config.Config, logger *zap.SugaredLogger) *Router {
	return &Router{
		logger:  logger,
		app:     app,
		conf:    conf,
		handler: handler,
	}
}

func (r *Router) RegisterRouter() {
	r.app.Get("/health", r.handler.HealthCheck)

	r.app.Use(
		recover.New(recover.Config{
			EnableStackTrace: true,
		}),
		logger.New(),
	)

	r.app.Route("/wardflow", func(router fiber.Router) {

		router.Use("/swagger/*", swagger.New(swagger.Config{
			DeepLinking: false,
			URL:         "/wardflow/swagger/doc.json",
		}))

		api := router.Group("/api")

		v1 := api.Group("/v1")

		tenant := v1.Group("/tenants/:tenantId")

		tenant.Post("/callings", r.handler.CreateAssignment)
		tenant.Get("/callings/:id", r.handler.GetAssignment)
		tenant.Post("/callings/:id/transitions", r.handler.ApplyTransition)
		tenant.Post("/callings/:id/sustain", r.handler.SustainCalling)
		tenant.Post("/callings/:id/set-apart", r.handler.SetApartCalling)
		tenant.Post("/callings/:id/release", r.handler.ScheduleRelease)

		tenant.Post("/meetings", r.handler.CreateMeeting)
		tenant.Post("/meetings/:id/complete", r.handler.CompleteMeeting)
		tenant.Post("/meetings/:id/publish", r.handler.PublishMeeting)
		tenant.Get("/meetings/:id/snapshots", r.handler.ListSnapshots)
		tenant.Get("/meetings/:id/snapshots/latest", r.handler.LatestSnapshot)
		tenant.Get("/meetings/:id/snapshots/:version", r.handler.GetSnapshot)

		tenant.Get("/deliveries", r.handler.ListDeliveries)
		tenant.Post("/outbox/:id/redeliver", r.handler.Redeliver)
	})
}
