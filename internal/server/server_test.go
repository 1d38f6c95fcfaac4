package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sku-dashboard/internal/audit"
	"sku-dashboard/internal/config"
	"sku-dashboard/internal/dashboard"
	"sku-dashboard/internal/docstore"
	"sku-dashboard/internal/snapshot"
	"sku-dashboard/internal/testutil"
	"sku-dashboard/internal/workspace"
)

const adminID = "boss"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := &config.Config{AdminUserID: adminID, CORSOrigins: "*", UploadMaxMB: 8}
	adapter, err := snapshot.New(docstore.NewGormStore(db), snapshot.Options{Namespace: adminID, ChunkMaxRows: 2})
	require.NoError(t, err)
	return New(Deps{
		Config:   cfg,
		Snapshot: adapter,
		Staging:  workspace.NewStaging(),
		Cache:    workspace.NewCache(adapter, nil),
		Audit:    audit.NewService(db),
	})
}

func xlsx(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func uploadRequest(t *testing.T, path, user, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	return req
}

func get(user, path string) *http.Request {
	req := httptest.NewRequest("GET", path, nil)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request, v any) int {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if v != nil {
		require.NoError(t, json.Unmarshal(body, v), string(body))
	}
	return resp.StatusCode
}

func legendFile(t *testing.T) []byte {
	return xlsx(t,
		[]any{"CODE", "ARTI", "JENIS"},
		[]any{"ZOZ", "Kids", "CATEGORY"},
		[]any{"35", "L", "UKURAN"},
		[]any{"TBW", "Tobacco Brown", "WARNA"},
		[]any{"XX", "Mystery", "FLAVOUR"},
	)
}

func salesFile(t *testing.T) []byte {
	return xlsx(t,
		[]any{"SK U", "Tanggal", "QTY", "Harga", "Sub Total", "Nett Sales", "HPP", "Gross Profit"},
		[]any{"ZOZA21BAS-MIA-TBW35", "15/05/2024 10:00", "2", "Rp 150.000,00", "300.000,00", "300.000,00", "120.000,00", "180.000,00"},
		[]any{"ZOZD1BAS-MIA-TBW35", "16/05/2024 11:30", "1", "150000", "150000", "150000", "60000", "90000"},
		[]any{"", "17/05/2024 09:00", "1", "1,000.50", "1,000.50", "1,000.50", "0", "1,000.50"},
	)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	app := newTestApp(t)
	var e map[string]string

	assert.Equal(t, fiber.StatusUnauthorized, do(t, app, uploadRequest(t, "/api/admin/master", "", "m.xlsx", legendFile(t)), &e))
	assert.Equal(t, fiber.StatusForbidden, do(t, app, uploadRequest(t, "/api/admin/master", "reader", "m.xlsx", legendFile(t)), &e))
	assert.Equal(t, "admin only", e["error"])
	assert.Equal(t, fiber.StatusUnauthorized, do(t, app, get("", "/api/tables/sales"), &e))
}

func TestUploadValidation(t *testing.T) {
	app := newTestApp(t)
	var e map[string]string

	assert.Equal(t, fiber.StatusConflict, do(t, app, uploadRequest(t, "/api/admin/uploads/sales", adminID, "s.xlsx", salesFile(t)), &e))
	assert.Equal(t, fiber.StatusBadRequest, do(t, app, uploadRequest(t, "/api/admin/master", adminID, "m.csv", []byte("a,b")), &e))
	assert.Equal(t, fiber.StatusBadRequest, do(t, app, uploadRequest(t, "/api/admin/master", adminID, "m.xlsx", []byte("not a zip")), &e))

	noType := xlsx(t, []any{"CODE", "ARTI"}, []any{"ZOZ", "Kids"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, do(t, app, uploadRequest(t, "/api/admin/master", adminID, "m.xlsx", noType), &e))

	var m MasterResponse
	require.Equal(t, fiber.StatusOK, do(t, app, uploadRequest(t, "/api/admin/master", adminID, "m.xlsx", legendFile(t)), &m))
	noPrice := xlsx(t, []any{"SKU", "Tanggal"}, []any{"ZOZA21BAS-MIA-TBW35", "15/05/2024 10:00"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, do(t, app, uploadRequest(t, "/api/admin/uploads/sales", adminID, "s.xlsx", noPrice), &e))
	assert.Equal(t, fiber.StatusNotFound, do(t, app, uploadRequest(t, "/api/admin/uploads/returns", adminID, "s.xlsx", salesFile(t)), &e))
}

func TestUploadSaveAndRead(t *testing.T) {
	app := newTestApp(t)

	var last map[string]*string
	require.Equal(t, fiber.StatusOK, do(t, app, get("reader", "/api/last-update"), &last))
	assert.Nil(t, last["last_update"])

	var m MasterResponse
	require.Equal(t, fiber.StatusOK, do(t, app, uploadRequest(t, "/api/admin/master", adminID, "m.xlsx", legendFile(t)), &m))
	assert.Equal(t, 1, m.Codes["CATEGORY"])
	assert.Equal(t, 1, m.Codes["SIZE"])
	require.Len(t, m.Warnings, 1)
	assert.Equal(t, "FLAVOUR", m.Warnings[0].Type)

	var up UploadResponse
	require.Equal(t, fiber.StatusOK, do(t, app, uploadRequest(t, "/api/admin/uploads/sales", adminID, "s.xlsx", salesFile(t)), &up))
	assert.Equal(t, "sales", up.Kind)
	assert.Equal(t, 3, up.Rows)
	assert.True(t, up.Schema.HasTransactionID)
	assert.Len(t, up.Warnings, 1)

	// Nothing is visible to readers until the admin saves.
	var tbl TableResponse
	require.Equal(t, fiber.StatusOK, do(t, app, get("reader", "/api/tables/sales"), &tbl))
	assert.Zero(t, tbl.Total)

	var saved SaveResponse
	assert.Equal(t, fiber.StatusUnauthorized, do(t, app, httptest.NewRequest("POST", "/api/admin/save", nil), nil))
	req := httptest.NewRequest("POST", "/api/admin/save", nil)
	req.Header.Set("X-User-ID", adminID)
	require.Equal(t, fiber.StatusOK, do(t, app, req, &saved))
	require.Len(t, saved.Tables, 3)
	assert.Equal(t, "sales", saved.Tables[0].Kind)
	assert.Equal(t, 2, saved.Tables[0].Chunks)
	assert.Equal(t, 3, saved.Tables[0].Rows)
	assert.Zero(t, saved.Tables[1].Chunks)
	assert.True(t, saved.DecoderOK)
	assert.NotEmpty(t, saved.LastUpdate)

	require.Equal(t, fiber.StatusOK, do(t, app, get("reader", "/api/tables/sales?offset=1&limit=1"), &tbl))
	assert.Equal(t, 3, tbl.Total)
	require.Len(t, tbl.Rows, 1)
	row := tbl.Rows[0]
	assert.Equal(t, "ZOZD1BAS-MIA-TBW35", row["SKU"])
	assert.Equal(t, "Kids", row["Category"])
	assert.Equal(t, "2021", row["ProductionYear"])
	assert.Equal(t, true, row["IsDefect"])
	assert.Equal(t, "Tobacco Brown", row["Color"])
	assert.Equal(t, 150000.0, row["Harga"])
	assert.Equal(t, "2024-05-16T11:30:00Z", row["Tanggal"])
	assert.Equal(t, "1", row["No Transaksi"])
	require.NotNil(t, tbl.LastUpdate)

	var dec map[string]any
	require.Equal(t, fiber.StatusOK, do(t, app, get("reader", "/api/decoder"), &dec))
	assert.EqualValues(t, 3, dec["codes"])

	require.Equal(t, fiber.StatusOK, do(t, app, get("reader", "/api/last-update"), &last))
	assert.NotNil(t, last["last_update"])

	var logs []audit.SaveLogResponse
	require.Equal(t, fiber.StatusOK, do(t, app, get(adminID, "/api/admin/save-logs?dataset=sales"), &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, 3, logs[0].Rows)

	var summary map[string]any
	require.Equal(t, fiber.StatusOK, do(t, app, get("reader", "/api/dashboard/sales-summary?period=monthly&count=1"), &summary))
	assert.Equal(t, "monthly", summary["period"])

	var kpis map[string]any
	require.Equal(t, fiber.StatusOK, do(t, app, get("reader", "/api/dashboard/kpis"), &kpis))
	assert.Contains(t, kpis, "average_order_value")

	var breakdown dashboard.Breakdown
	require.Equal(t, fiber.StatusOK, do(t, app, get("reader", "/api/dashboard/breakdown/category"), &breakdown))
	assert.NotEmpty(t, breakdown.Groups)
}

func TestExportTable(t *testing.T) {
	app := newTestApp(t)
	var m MasterResponse
	require.Equal(t, fiber.StatusOK, do(t, app, uploadRequest(t, "/api/admin/master", adminID, "m.xlsx", legendFile(t)), &m))
	var up UploadResponse
	require.Equal(t, fiber.StatusOK, do(t, app, uploadRequest(t, "/api/admin/uploads/sales", adminID, "s.xlsx", salesFile(t)), &up))
	req := httptest.NewRequest("POST", "/api/admin/save", nil)
	req.Header.Set("X-User-ID", adminID)
	require.Equal(t, fiber.StatusOK, do(t, app, req, nil))

	resp, err := app.Test(get("reader", "/api/tables/sales/export"), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxMIME, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "sales_")

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Data")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}
