// Package dashboard aggregates the saved sales table for the dashboard
// charts.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sku-dashboard/internal/dataset"
	"sku-dashboard/internal/snapshot"

	"github.com/gofiber/fiber/v2"
)

type DatasetSource interface {
	Current(ctx context.Context) (snapshot.Dataset, time.Time, error)
}

type SalesSummaryResponse struct {
	Summary
	LastUpdate *time.Time `json:"last_update"`
}

// GET /api/dashboard/sales-summary?period=weekly&count=8
func SalesSummaryHandler(src DatasetSource, clock func() time.Time) fiber.Handler {
	if clock == nil {
		clock = time.Now
	}
	return func(c *fiber.Ctx) error {
		period, err := ParsePeriod(c.Query("period"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "period must be daily, weekly or monthly")
		}

		count := period.DefaultCount()
		if s := c.Query("count"); s != "" {
			if _, err := fmt.Sscan(s, &count); err != nil || count <= 0 || count > 366 {
				return fiber.NewError(fiber.StatusBadRequest, "invalid count")
			}
		}

		ds, marker, err := src.Current(c.UserContext())
		sales := ds.Table(dataset.KindSales)
		if err != nil && sales.IsEmpty() {
			return fiber.NewError(fiber.StatusServiceUnavailable, "sales data unavailable, try again shortly")
		}

		resp := SalesSummaryResponse{Summary: Summarize(sales, period, count, clock())}
		if !marker.IsZero() {
			resp.LastUpdate = &marker
		}
		return c.JSON(resp)
	}
}

type KPIResponse struct {
	KPI
	LastUpdate *time.Time `json:"last_update"`
}

// GET /api/dashboard/kpis?from=2024-05-01&to=2024-05-31
func KPIHandler(src DatasetSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rng, err := ParseRange(c.Query("from"), c.Query("to"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		ds, marker, err := src.Current(c.UserContext())
		sales := ds.Table(dataset.KindSales)
		if err != nil && sales.IsEmpty() {
			return fiber.NewError(fiber.StatusServiceUnavailable, "sales data unavailable, try again shortly")
		}
		resp := KPIResponse{KPI: ComputeKPI(sales, ds.Table(dataset.KindStock), rng)}
		if !marker.IsZero() {
			resp.LastUpdate = &marker
		}
		return c.JSON(resp)
	}
}

// GET /api/dashboard/breakdown/:dimension?from=&to=
func BreakdownHandler(src DatasetSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dim, err := ParseDimension(c.Params("dimension"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		rng, err := ParseRange(c.Query("from"), c.Query("to"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		ds, _, err := src.Current(c.UserContext())
		sales := ds.Table(dataset.KindSales)
		if err != nil && sales.IsEmpty() {
			return fiber.NewError(fiber.StatusServiceUnavailable, "sales data unavailable, try again shortly")
		}
		out, err := BreakdownBy(sales, dim, rng)
		if errors.Is(err, ErrDimensionUnavailable) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}
