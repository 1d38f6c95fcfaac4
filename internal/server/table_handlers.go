package server

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"sku-dashboard/internal/dataset"
	"sku-dashboard/internal/snapshot"
	"sku-dashboard/internal/spreadsheet"
)

const (
	timeLayout = time.RFC3339
	xlsxMIME   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// current returns the saved dataset. A partial load is served as is; only
// a failure with nothing loaded becomes a 503.
func current(c *fiber.Ctx, d Deps) (snapshot.Dataset, time.Time, error) {
	ds, marker, err := d.Cache.Current(c.UserContext())
	if err != nil {
		d.Log.Warn("serving partial dataset", "path", c.Path(), "error", err)
		empty := true
		for _, t := range ds.Tables {
			if !t.IsEmpty() {
				empty = false
				break
			}
		}
		if empty {
			return ds, marker, fiber.NewError(fiber.StatusServiceUnavailable, "dataset unavailable, try again shortly")
		}
	}
	return ds, marker, nil
}

func formatMarker(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(timeLayout)
	return &s
}

type TableResponse struct {
	Kind       string         `json:"kind"`
	Total      int            `json:"total"`
	Offset     int            `json:"offset"`
	Columns    []string       `json:"columns"`
	Rows       []dataset.Row  `json:"rows"`
	Schema     dataset.Schema `json:"schema"`
	LastUpdate *string        `json:"last_update"`
}

// GET /api/tables/:kind?offset=0&limit=100
func GetTableHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := parseKind(c)
		if err != nil {
			return err
		}

		offset, limit := 0, 0
		if s := c.Query("offset"); s != "" {
			if _, err := fmt.Sscan(s, &offset); err != nil || offset < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "invalid offset")
			}
		}
		if s := c.Query("limit"); s != "" {
			if _, err := fmt.Sscan(s, &limit); err != nil || limit <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
			}
		}

		ds, marker, err := current(c, d)
		if err != nil {
			return err
		}
		t := ds.Table(kind)

		rows := t.Rows
		if offset > len(rows) {
			offset = len(rows)
		}
		rows = rows[offset:]
		if limit > 0 && limit < len(rows) {
			rows = rows[:limit]
		}
		if rows == nil {
			rows = []dataset.Row{}
		}
		cols := t.Columns
		if cols == nil {
			cols = []string{}
		}

		return c.JSON(TableResponse{
			Kind:       string(kind),
			Total:      t.Len(),
			Offset:     offset,
			Columns:    cols,
			Rows:       rows,
			Schema:     dataset.DescribeSchema(t),
			LastUpdate: formatMarker(marker),
		})
	}
}

// GET /api/tables/:kind/export
func ExportTableHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := parseKind(c)
		if err != nil {
			return err
		}
		ds, _, err := current(c, d)
		if err != nil {
			return err
		}

		f, err := spreadsheet.WriteTable(ds.Table(kind))
		if err != nil {
			return fmt.Errorf("export %s: %w", kind, err)
		}
		defer f.Close()

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fmt.Errorf("export %s: %w", kind, err)
		}

		c.Set(fiber.HeaderContentType, xlsxMIME)
		c.Attachment(fmt.Sprintf("%s_%s.xlsx", kind, time.Now().Format("20060102")))
		return c.Send(buf.Bytes())
	}
}

// GET /api/decoder
func GetDecoderHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ds, marker, err := current(c, d)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"decoder":     ds.Decoder,
			"codes":       ds.Decoder.Len(),
			"last_update": formatMarker(marker),
		})
	}
}

// GET /api/last-update
//
// Reads the marker straight from the store so clients can poll it cheaply.
func LastUpdateHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ts, err := d.Snapshot.LastUpdated(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "update marker unavailable")
		}
		return c.JSON(fiber.Map{"last_update": formatMarker(ts)})
	}
}
