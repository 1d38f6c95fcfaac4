// Package server assembles the fiber application and its routes.
package server

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"sku-dashboard/internal/audit"
	"sku-dashboard/internal/auth"
	"sku-dashboard/internal/config"
	"sku-dashboard/internal/dashboard"
	"sku-dashboard/internal/logger"
	"sku-dashboard/internal/snapshot"
	"sku-dashboard/internal/workspace"
)

type Deps struct {
	Config   *config.Config
	Log      *logger.Logger
	Snapshot *snapshot.Adapter
	Staging  *workspace.Staging
	Cache    *workspace.Cache
	Audit    *audit.Service
}

func New(d Deps) *fiber.App {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	bodyLimit := d.Config.UploadMaxMB << 20
	if bodyLimit <= 0 {
		bodyLimit = fiber.DefaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *fiber.Error
			if errors.As(err, &e) {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			d.Log.Error("unexpected error", "path", c.Path(), "request_id", c.Locals("requestid"), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unexpected server error",
			})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())

	corsOrigins := strings.Split(d.Config.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, " + auth.HeaderUserID,
		AllowMethods: "GET,POST,OPTIONS",
	}))

	api := app.Group("/api")
	api.Use(auth.Identity(d.Config))

	admin := api.Group("/admin")
	admin.Use(auth.RequireAdmin())
	admin.Post("/master", UploadMasterHandler(d))
	admin.Post("/uploads/:kind", UploadTableHandler(d))
	admin.Post("/save", SaveHandler(d))
	admin.Get("/save-logs", audit.ListSaveLogsHandler(d.Audit))

	readers := api.Group("")
	readers.Use(auth.RequireUser())
	readers.Get("/tables/:kind", GetTableHandler(d))
	readers.Get("/tables/:kind/export", ExportTableHandler(d))
	readers.Get("/decoder", GetDecoderHandler(d))
	readers.Get("/last-update", LastUpdateHandler(d))
	readers.Get("/dashboard/sales-summary", dashboard.SalesSummaryHandler(d.Cache, nil))
	readers.Get("/dashboard/kpis", dashboard.KPIHandler(d.Cache))
	readers.Get("/dashboard/breakdown/:dimension", dashboard.BreakdownHandler(d.Cache))

	return app
}
