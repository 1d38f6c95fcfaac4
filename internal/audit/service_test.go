package audit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sku-dashboard/internal/dataset"
	"sku-dashboard/internal/snapshot"
	"sku-dashboard/internal/testutil"
)

func sampleReport() snapshot.SaveReport {
	return snapshot.SaveReport{
		Tables: []snapshot.TableReport{
			{Kind: dataset.KindSales, Result: snapshot.SaveResult{Chunks: 2, Rows: 600, Generation: "g1"}},
			{Kind: dataset.KindInbound, Err: errors.New("disk full")},
			{Kind: dataset.KindStock},
		},
		DecoderOK: true,
	}
}

func TestRecordAndList(t *testing.T) {
	svc := NewService(testutil.SetupTestDB(t))
	ctx := context.Background()

	logs, err := svc.Record(ctx, "boss", sampleReport())
	require.NoError(t, err)
	require.Len(t, logs, 4)
	for _, l := range logs {
		assert.NotZero(t, l.ID)
	}

	all, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, DecoderDataset, all[0].Dataset)

	sales, err := svc.List(ctx, Filter{Dataset: "sales"})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, 600, sales[0].Rows)
	assert.Equal(t, 2, sales[0].Chunks)
	assert.True(t, sales[0].Success)

	inbound, err := svc.List(ctx, Filter{Dataset: "inbound", UserID: "boss"})
	require.NoError(t, err)
	require.Len(t, inbound, 1)
	assert.False(t, inbound[0].Success)
	assert.Equal(t, "disk full", inbound[0].Error)

	none, err := svc.List(ctx, Filter{UserID: "someone"})
	require.NoError(t, err)
	assert.Empty(t, none)

	limited, err := svc.List(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListSaveLogsHandler(t *testing.T) {
	svc := NewService(testutil.SetupTestDB(t))
	_, err := svc.Record(context.Background(), "boss", sampleReport())
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/logs", ListSaveLogsHandler(svc))

	resp, err := app.Test(httptest.NewRequest("GET", "/logs?dataset=stock", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var got []SaveLogResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "stock", got[0].Dataset)
	assert.Equal(t, "boss", got[0].UserID)

	resp, err = app.Test(httptest.NewRequest("GET", "/logs?limit=zero", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
