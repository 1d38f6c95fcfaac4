package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"sku-dashboard/internal/auth"
	"sku-dashboard/internal/ingest"
	"sku-dashboard/internal/sku"
)

type MasterResponse struct {
	Codes    map[sku.CodeType]int `json:"codes"`
	Warnings []sku.Warning        `json:"warnings"`
	// Restaged lists the staged tables re-enriched with the new decoder.
	Restaged []string `json:"restaged"`
}

// POST /api/admin/master (multipart "file")
func UploadMasterHandler(d Deps) fiber.Handler {
	log := d.Log.With("handler", "UploadMaster")
	return func(c *fiber.Ctx) error {
		t, err := readUpload(c)
		if err != nil {
			return err
		}

		decoder, warnings, err := sku.LoadMaster(t)
		if errors.Is(err, sku.ErrMissingColumns) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		if err != nil {
			return err
		}
		for _, w := range warnings {
			log.Warn("legend row skipped", "row", w.Row, "code", w.Code, "type", w.Type)
		}

		d.Staging.SetMaster(decoder)

		resp := MasterResponse{
			Codes:    make(map[sku.CodeType]int, len(decoder)),
			Warnings: warnings,
			Restaged: []string{},
		}
		for ct, bucket := range decoder {
			resp.Codes[ct] = len(bucket)
		}
		for kind, tbl := range d.Staging.Dataset().Tables {
			if !tbl.IsEmpty() {
				resp.Restaged = append(resp.Restaged, string(kind))
			}
		}
		if resp.Warnings == nil {
			resp.Warnings = []sku.Warning{}
		}
		log.Info("sku master loaded", "user", auth.UserID(c), "codes", decoder.Len(), "warnings", len(warnings))
		return c.JSON(resp)
	}
}

type UploadResponse struct {
	Kind string `json:"kind"`
	Rows int    `json:"rows"`
	ingest.Result
}

// POST /api/admin/uploads/:kind (multipart "file")
func UploadTableHandler(d Deps) fiber.Handler {
	log := d.Log.With("handler", "UploadTable")
	return func(c *fiber.Ctx) error {
		kind, err := parseKind(c)
		if err != nil {
			return err
		}
		t, err := readUpload(c)
		if err != nil {
			return err
		}

		res, err := d.Staging.Ingest(kind, t)
		switch {
		case errors.Is(err, ingest.ErrNoDecoder):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case errors.Is(err, ingest.ErrMissingColumns):
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		case err != nil:
			return err
		}
		if res.Warnings == nil {
			res.Warnings = []string{}
		}

		log.Info("table staged", "user", auth.UserID(c), "kind", kind, "rows", res.Table.Len(), "warnings", len(res.Warnings))
		return c.JSON(UploadResponse{Kind: string(kind), Rows: res.Table.Len(), Result: res})
	}
}

type TableSaveResponse struct {
	Kind       string `json:"kind"`
	Rows       int    `json:"rows"`
	Chunks     int    `json:"chunks"`
	Generation string `json:"generation,omitempty"`
	Error      string `json:"error,omitempty"`
}

type SaveResponse struct {
	Tables     []TableSaveResponse `json:"tables"`
	DecoderOK  bool                `json:"decoder_ok"`
	LastUpdate string              `json:"last_update,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// POST /api/admin/save
//
// Persists the staged dataset. Tables fail independently; the response
// lists every table and is a 500 when any part failed.
func SaveHandler(d Deps) fiber.Handler {
	log := d.Log.With("handler", "Save")
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		userID := auth.UserID(c)

		report, saveErr := d.Snapshot.SaveAll(ctx, d.Staging.Dataset())
		d.Cache.Invalidate()

		if _, err := d.Audit.Record(ctx, userID, report); err != nil {
			log.Error("save log not written", "error", err)
		}

		resp := SaveResponse{Tables: make([]TableSaveResponse, 0, len(report.Tables)), DecoderOK: report.DecoderOK}
		for _, t := range report.Tables {
			tr := TableSaveResponse{
				Kind:       string(t.Kind),
				Rows:       t.Result.Rows,
				Chunks:     t.Result.Chunks,
				Generation: t.Result.Generation,
			}
			if t.Err != nil {
				tr.Error = t.Err.Error()
			}
			resp.Tables = append(resp.Tables, tr)
		}
		if !report.UpdatedAt.IsZero() {
			resp.LastUpdate = report.UpdatedAt.Format(timeLayout)
		}

		if saveErr != nil {
			log.Error("save incomplete", "user", userID, "error", saveErr)
			resp.Error = saveErr.Error()
			return c.Status(fiber.StatusInternalServerError).JSON(resp)
		}
		log.Info("dataset saved", "user", userID, "last_update", report.UpdatedAt)
		return c.JSON(resp)
	}
}
