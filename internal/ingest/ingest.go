// Package ingest turns raw upload tables into cleaned, SKU-enriched tables.
package ingest

import (
	"errors"
	"fmt"
	"strings"

	"sku-dashboard/internal/dataset"
	"sku-dashboard/internal/finance"
	"sku-dashboard/internal/sku"
)

var (
	ErrMissingColumns = errors.New("upload is missing required columns")
	ErrNoDecoder      = errors.New("sku master must be loaded before uploading tables")
)

// Result is a cleaned table plus non-fatal notes for the uploader.
type Result struct {
	Table    dataset.Table  `json:"-"`
	Schema   dataset.Schema `json:"schema"`
	Warnings []string       `json:"warnings"`
}

var salesAliases = map[string]string{
	"Toka Ziel Kids Officia Shop": dataset.ColStore,
	"SK U":                        dataset.ColSKU,
	"Salesmen":                    dataset.ColSalesman,
	"Pelanggan":                   dataset.ColCustomer,
	"No. Transaksi":               dataset.ColTransactionID,
	"ID Transaksi":                dataset.ColTransactionID,
	"Nomor Transaksi":             dataset.ColTransactionID,
	"Order ID":                    dataset.ColTransactionID,
	"Transaction ID":              dataset.ColTransactionID,
}

var salesMoney = []string{
	dataset.ColQty, dataset.ColPrice, dataset.ColSubTotal,
	dataset.ColNettSales, dataset.ColCOGS, dataset.ColGrossProfit,
}

var inboundAliases = map[string]string{
	"purchaseorder_no": "No PO",
	"supplier_name":    "Nama Supplier",
	"Qty Dipesan":      "Qty Dipesan Unit",
	"bill_no":          "No Bill",
	"Pajak.1":          "Pajak Total",
	"amount":           "Amount",
}

var inboundMoney = []string{
	"Qty Dipesan Unit", "Qty Diterima", "Harga", "Amount",
	"Sub Total", "Diskon", "Pajak Total", "Grand Total",
}

var stockAliases = map[string]string{
	"Nama":      "Nama Item",
	"is_bundle": "Is Bundle",
}

var stockMoney = []string{
	"QTY", "Dipesan", "Tersedia", "Harga Jual", "HPP", "Nilai Persediaan",
}

// Upload dispatches to the pipeline for kind.
func Upload(kind dataset.Kind, t dataset.Table, d sku.Decoder) (Result, error) {
	switch kind {
	case dataset.KindSales:
		return Sales(t, d)
	case dataset.KindInbound:
		return Inbound(t, d)
	case dataset.KindStock:
		return Stock(t, d)
	}
	return Result{}, fmt.Errorf("unknown table kind %q", kind)
}

// Sales cleans a sales export. SKU, Tanggal and the money columns are
// required; a missing transaction number is synthesized from row position.
func Sales(t dataset.Table, d sku.Decoder) (Result, error) {
	if d.IsEmpty() {
		return Result{}, ErrNoDecoder
	}
	out := t.Clone()
	out.Rename(salesAliases)

	required := append([]string{dataset.ColSKU, dataset.ColDate}, salesMoney...)
	if missing := out.Missing(required...); len(missing) > 0 {
		return Result{}, fmt.Errorf("sales: %w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var warnings []string
	if dataset.EnsureTransactionID(&out) {
		warnings = append(warnings, "column 'No Transaksi' not found; orders are counted per row")
	}
	parseDates(&out, dataset.ColDate, dayFirstLayouts)
	finance.NormalizeColumns(&out, salesMoney...)

	out = sku.Enrich(out, d)
	return Result{Table: out, Schema: dataset.DescribeSchema(out), Warnings: warnings}, nil
}

// Inbound cleans a goods-received export. Only Tanggal is required.
func Inbound(t dataset.Table, d sku.Decoder) (Result, error) {
	if d.IsEmpty() {
		return Result{}, ErrNoDecoder
	}
	out := t.Clone()
	out.Rename(inboundAliases)
	if !out.HasColumn(dataset.ColDate) {
		return Result{}, fmt.Errorf("inbound: %w: %s", ErrMissingColumns, dataset.ColDate)
	}

	parseDates(&out, dataset.ColDate, isoFirstLayouts)
	finance.NormalizeColumns(&out, inboundMoney...)

	out = sku.Enrich(out, d)
	return Result{Table: out, Schema: dataset.DescribeSchema(out)}, nil
}

// Stock cleans a stock-on-hand export.
func Stock(t dataset.Table, d sku.Decoder) (Result, error) {
	if d.IsEmpty() {
		return Result{}, ErrNoDecoder
	}
	out := t.Clone()
	out.Rename(stockAliases)
	finance.NormalizeColumns(&out, stockMoney...)

	out = sku.Enrich(out, d)
	return Result{Table: out, Schema: dataset.DescribeSchema(out)}, nil
}
