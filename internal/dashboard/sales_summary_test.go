package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sku-dashboard/internal/dataset"
	"sku-dashboard/internal/sku"
	"sku-dashboard/internal/snapshot"
)

// Wednesday.
var now = time.Date(2024, 5, 15, 16, 0, 0, 0, time.UTC)

func sale(day time.Time, category string, nett, gross, qty float64) dataset.Row {
	return dataset.Row{
		dataset.ColDate:        day,
		sku.ColCategory:        category,
		dataset.ColNettSales:   nett,
		dataset.ColGrossProfit: gross,
		dataset.ColQty:         qty,
	}
}

func salesTable() dataset.Table {
	t := dataset.NewTable(dataset.ColDate, sku.ColCategory, dataset.ColNettSales, dataset.ColGrossProfit, dataset.ColQty)
	t.Append(sale(time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC), "Kids", 100, 40, 1))
	t.Append(sale(time.Date(2024, 5, 15, 11, 0, 0, 0, time.UTC), "Men", 300, 90, 3))
	t.Append(sale(time.Date(2024, 5, 13, 10, 0, 0, 0, time.UTC), "Kids", 50, 20, 1))
	t.Append(sale(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), "Kids", 1000, 100, 10))
	t.Append(dataset.Row{dataset.ColDate: nil, dataset.ColNettSales: 5.0})
	return t
}

func TestSummarizeDaily(t *testing.T) {
	s := Summarize(salesTable(), Daily, 3, now)

	assert.Equal(t, "2024-05-13", s.From)
	assert.Equal(t, "2024-05-15", s.To)
	require.Len(t, s.Points, 3)
	assert.Equal(t, "2024-05-13", s.Points[0].Label)
	assert.Equal(t, 50.0, s.Points[0].NettSales)
	assert.Zero(t, s.Points[1].NettSales)
	assert.Equal(t, 400.0, s.Points[2].NettSales)
	assert.Equal(t, 4.0, s.Points[2].Qty)

	assert.Equal(t, 450.0, s.GrandTotals.NettSales)
	assert.Equal(t, 150.0, s.GrandTotals.GrossProfit)
	assert.Equal(t, 1, s.Undated)

	require.Len(t, s.Categories, 2)
	assert.Equal(t, "Men", s.Categories[0].Category)
	assert.Equal(t, 150.0, s.Categories[1].NettSales)
}

func TestSummarizeWeeklyStartsOnMonday(t *testing.T) {
	s := Summarize(salesTable(), Weekly, 3, now)

	require.Len(t, s.Points, 3)
	assert.Equal(t, "2024-04-29", s.Points[0].Label)
	assert.Equal(t, 1000.0, s.Points[0].NettSales)
	assert.Equal(t, "2024-05-13", s.Points[2].Label)
	assert.Equal(t, 450.0, s.Points[2].NettSales)
	assert.Equal(t, "2024-05-19", s.To)
}

func TestSummarizeMonthly(t *testing.T) {
	s := Summarize(salesTable(), Monthly, 2, now)

	require.Len(t, s.Points, 2)
	assert.Equal(t, "2024-04-01", s.Points[0].Label)
	assert.Equal(t, "2024-05-01", s.Points[1].Label)
	assert.Equal(t, 1450.0, s.Points[1].NettSales)
	assert.Equal(t, "2024-05-31", s.To)
}

func TestSummarizeEmptyTable(t *testing.T) {
	s := Summarize(dataset.Table{}, Daily, 0, now)
	assert.Len(t, s.Points, Daily.DefaultCount())
	assert.Empty(t, s.Categories)
}

type stubSource struct {
	ds  snapshot.Dataset
	err error
}

func (s stubSource) Current(context.Context) (snapshot.Dataset, time.Time, error) {
	return s.ds, now, s.err
}

func TestSalesSummaryHandler(t *testing.T) {
	ds := snapshot.NewDataset()
	ds.Tables[dataset.KindSales] = salesTable()

	app := fiber.New()
	app.Get("/summary", SalesSummaryHandler(stubSource{ds: ds}, func() time.Time { return now }))

	resp, err := app.Test(httptest.NewRequest("GET", "/summary?period=daily&count=3", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var got SalesSummaryResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, Daily, got.Period)
	assert.Len(t, got.Points, 3)
	assert.Equal(t, 450.0, got.GrandTotals.NettSales)
	require.NotNil(t, got.LastUpdate)

	for _, q := range []string{"period=hourly", "count=-1", "count=abc"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/summary?"+q, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestSalesSummaryHandlerUnavailable(t *testing.T) {
	app := fiber.New()
	app.Get("/summary", SalesSummaryHandler(stubSource{ds: snapshot.NewDataset(), err: errors.New("torn")}, nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/summary", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
