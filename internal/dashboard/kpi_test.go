package dashboard

import (
	"encoding/json"
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

func orderLine(day int, order, customer, color string, defect bool, sub, nett, gross, qty float64) dataset.Row {
	return dataset.Row{
		dataset.ColDate:          time.Date(2024, 5, day, 10, 0, 0, 0, time.UTC),
		dataset.ColTransactionID: order,
		dataset.ColCustomer:      customer,
		sku.ColColor:             color,
		sku.ColIsDefect:          defect,
		dataset.ColSubTotal:      sub,
		dataset.ColNettSales:     nett,
		dataset.ColGrossProfit:   gross,
		dataset.ColQty:           qty,
	}
}

func ordersTable() dataset.Table {
	t := dataset.NewTable(dataset.ColDate, dataset.ColTransactionID, dataset.ColCustomer,
		sku.ColColor, sku.ColIsDefect, dataset.ColSubTotal, dataset.ColNettSales, dataset.ColGrossProfit, dataset.ColQty)
	t.Append(orderLine(1, "T1", "C1", "Black", false, 110, 100, 40, 1))
	t.Append(orderLine(1, "T1", "C1", "White", false, 220, 200, 80, 2))
	t.Append(orderLine(2, "T2", "C2", "Black", true, 330, 300, 30, 3))
	t.Append(orderLine(9, "T3", "C1", "", false, 50, 50, 10, 1))
	return t
}

func TestComputeKPICountsDistinctOrders(t *testing.T) {
	stock := dataset.NewTable("SKU", "Tersedia")
	stock.Append(dataset.Row{"SKU": "A", "Tersedia": 5.0})
	stock.Append(dataset.Row{"SKU": "B", "Tersedia": "7"})

	k := ComputeKPI(ordersTable(), stock, Range{})

	assert.Equal(t, 650.0, k.NettSales)
	assert.Equal(t, 710.0, k.SubTotal)
	assert.Equal(t, 160.0, k.GrossProfit)
	assert.Equal(t, 7.0, k.QtySold)
	assert.Equal(t, 3, k.Orders)
	assert.InDelta(t, 650.0/3, k.AverageOrderValue, 1e-9)
	require.NotNil(t, k.Customers)
	assert.Equal(t, 2, *k.Customers)
	assert.Equal(t, 12.0, k.AvailableStock)
	assert.True(t, k.Schema.HasTransactionID)
}

func TestComputeKPIWithoutOptionalColumns(t *testing.T) {
	sales := dataset.NewTable(dataset.ColNettSales, dataset.ColQty)
	sales.Append(dataset.Row{dataset.ColNettSales: 100.0, dataset.ColQty: 1.0})
	sales.Append(dataset.Row{dataset.ColNettSales: 300.0, dataset.ColQty: 2.0})

	k := ComputeKPI(sales, dataset.Table{}, Range{})

	assert.Equal(t, 2, k.Orders)
	assert.Equal(t, 200.0, k.AverageOrderValue)
	assert.Nil(t, k.Customers)
	assert.False(t, k.Schema.HasCustomer)
}

func TestComputeKPIEmptyHasNoAverage(t *testing.T) {
	k := ComputeKPI(dataset.Table{}, dataset.Table{}, Range{})
	assert.Zero(t, k.Orders)
	assert.Zero(t, k.AverageOrderValue)
}

func TestComputeKPIRange(t *testing.T) {
	rng, err := ParseRange("2024-05-01", "2024-05-02")
	require.NoError(t, err)

	k := ComputeKPI(ordersTable(), dataset.Table{}, rng)
	assert.Equal(t, 600.0, k.NettSales)
	assert.Equal(t, 2, k.Orders)
}

func TestParseRange(t *testing.T) {
	_, err := ParseRange("2024-05-02", "2024-05-01")
	assert.Error(t, err)
	_, err = ParseRange("05/01/2024", "")
	assert.Error(t, err)
	r, err := ParseRange("", "")
	require.NoError(t, err)
	assert.False(t, r.bounded())
}

func TestBreakdownByColor(t *testing.T) {
	b, err := BreakdownBy(ordersTable(), DimColor, Range{})
	require.NoError(t, err)

	require.Len(t, b.Groups, 3)
	assert.Equal(t, "Black", b.Groups[0].Key)
	assert.Equal(t, 440.0, b.Groups[0].SubTotal)
	assert.Equal(t, 400.0, b.Groups[0].NettSales)
	assert.Equal(t, 2, b.Groups[0].Orders)
	assert.Equal(t, "White", b.Groups[1].Key)
	assert.Equal(t, "Unknown", b.Groups[2].Key)
}

func TestBreakdownByDefectFlag(t *testing.T) {
	b, err := BreakdownBy(ordersTable(), DimIsDefect, Range{})
	require.NoError(t, err)

	require.Len(t, b.Groups, 2)
	assert.Equal(t, "false", b.Groups[0].Key)
	assert.Equal(t, 4.0, b.Groups[0].Qty)
	assert.Equal(t, "true", b.Groups[1].Key)
}

func TestBreakdownGatedBySchema(t *testing.T) {
	_, err := BreakdownBy(ordersTable(), DimStore, Range{})
	assert.ErrorIs(t, err, ErrDimensionUnavailable)

	_, err = ParseDimension("weather")
	assert.Error(t, err)
}

func TestKPIAndBreakdownHandlers(t *testing.T) {
	ds := snapshot.NewDataset()
	ds.Tables[dataset.KindSales] = ordersTable()

	app := fiber.New()
	app.Get("/kpis", KPIHandler(stubSource{ds: ds}))
	app.Get("/breakdown/:dimension", BreakdownHandler(stubSource{ds: ds}))

	resp, err := app.Test(httptest.NewRequest("GET", "/kpis?from=2024-05-01&to=2024-05-02", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var k KPIResponse
	require.NoError(t, json.Unmarshal(body, &k))
	assert.Equal(t, 2, k.Orders)
	assert.Equal(t, 300.0, k.AverageOrderValue)
	require.NotNil(t, k.LastUpdate)

	resp, err = app.Test(httptest.NewRequest("GET", "/breakdown/color", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	var b Breakdown
	require.NoError(t, json.Unmarshal(body, &b))
	assert.Equal(t, DimColor, b.Dimension)
	assert.Len(t, b.Groups, 3)

	for path, status := range map[string]int{
		"/breakdown/weather":         fiber.StatusNotFound,
		"/breakdown/location":        fiber.StatusUnprocessableEntity,
		"/kpis?from=2024-13-01":      fiber.StatusBadRequest,
		"/breakdown/size?to=garbage": fiber.StatusBadRequest,
	} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode, path)
	}
}
