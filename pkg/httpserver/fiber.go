package httpserver

import (
	"strconv"
	"strings"
	"time"
	"wardflow/pkg/config"
	"wardflow/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewFiber(conf config.Config, m *metrics.Metrics, gatherer prometheus.Gatherer) *fiber.App {
	bodyLimit := conf.Server.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = 4 * 1024 * 1024
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 1024 * 100,
			BodyLimit:      bodyLimit,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				code := fiber.StatusInternalServerError
				if fe, ok := err.(*fiber.Error); ok {
					code = fe.Code
				}
				return c.Status(code).JSON(fiber.Map{
					"status":  false,
					"message": err.Error(),
				})
			},
		},
	)

	app.Use(
		cors.New(cors.Config{
			AllowOrigins:  "*",
			ExposeHeaders: "Authorization",
		}),
		recover.New(),
	)

	// Prometheus middleware
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// Путь берём из шаблона роута, чтобы не раздувать кардинальность uuid-ами
		path := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			path = r.Path
		}

		method := strings.ToUpper(strings.TrimSpace(c.Method()))
		if r := c.Route(); r != nil && r.Method != "" {
			method = strings.ToUpper(r.Method)
		}

		status := c.Response().StatusCode()
		statusStr := strconv.Itoa(status)
		m.API.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
		m.API.HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(time.Since(start).Seconds())
		return err
	})

	if gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return app
}
