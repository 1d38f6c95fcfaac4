package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"sku-dashboard/internal/dataset"
	"sku-dashboard/internal/finance"
	"sku-dashboard/internal/sku"
)

var ErrDimensionUnavailable = errors.New("dimension not present in sales data")

// Stock column holding the units on hand.
const colAvailable = "Tersedia"

// KPI is the headline block of the dashboard.
type KPI struct {
	SubTotal          float64 `json:"sub_total"`
	NettSales         float64 `json:"nett_sales"`
	GrossProfit       float64 `json:"gross_profit"`
	QtySold           float64 `json:"qty_sold"`
	Orders            int     `json:"orders"`
	AverageOrderValue float64 `json:"average_order_value"`
	// Customers is nil when the sales table has no customer column.
	Customers      *int           `json:"customers"`
	AvailableStock float64        `json:"available_stock"`
	Schema         dataset.Schema `json:"schema"`
}

// Range limits rows to dates in [From, To] by calendar day. A zero bound
// is open. Undated rows only pass an unbounded range.
type Range struct {
	From, To time.Time
}

func (r Range) bounded() bool { return !r.From.IsZero() || !r.To.IsZero() }

func (r Range) contains(row dataset.Row) bool {
	if !r.bounded() {
		return true
	}
	ts, ok := row[dataset.ColDate].(time.Time)
	if !ok {
		return false
	}
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	if !r.From.IsZero() && day.Before(r.From) {
		return false
	}
	return r.To.IsZero() || !day.After(r.To)
}

// ParseRange reads YYYY-MM-DD bounds; empty strings leave a side open.
func ParseRange(from, to string) (Range, error) {
	var r Range
	var err error
	if from != "" {
		if r.From, err = time.Parse("2006-01-02", from); err != nil {
			return Range{}, fmt.Errorf("invalid from date %q", from)
		}
	}
	if to != "" {
		if r.To, err = time.Parse("2006-01-02", to); err != nil {
			return Range{}, fmt.Errorf("invalid to date %q", to)
		}
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return Range{}, errors.New("to date is before from date")
	}
	return r, nil
}

// orderKey identifies the order a row belongs to. Without a transaction
// column every row counts as its own order.
func orderKey(schema dataset.Schema, i int, r dataset.Row) string {
	if schema.HasTransactionID {
		if id := cellText(r[dataset.ColTransactionID]); id != "" {
			return id
		}
	}
	return "#" + strconv.Itoa(i)
}

func ComputeKPI(sales, stock dataset.Table, rng Range) KPI {
	schema := dataset.DescribeSchema(sales)
	k := KPI{Schema: schema}
	orders := make(map[string]struct{})
	customers := make(map[string]struct{})

	for i, r := range sales.Rows {
		if !rng.contains(r) {
			continue
		}
		k.SubTotal += finance.Normalize(r[dataset.ColSubTotal])
		k.NettSales += finance.Normalize(r[dataset.ColNettSales])
		k.GrossProfit += finance.Normalize(r[dataset.ColGrossProfit])
		k.QtySold += finance.Normalize(r[dataset.ColQty])
		orders[orderKey(schema, i, r)] = struct{}{}
		if schema.HasCustomer {
			if id := cellText(r[dataset.ColCustomer]); id != "" {
				customers[id] = struct{}{}
			}
		}
	}

	k.Orders = len(orders)
	if k.Orders > 0 {
		k.AverageOrderValue = k.NettSales / float64(k.Orders)
	}
	if schema.HasCustomer {
		n := len(customers)
		k.Customers = &n
	}
	for _, r := range stock.Rows {
		k.AvailableStock += finance.Normalize(r[colAvailable])
	}
	return k
}

// Dimension is a column the sales table can be grouped by.
type Dimension string

const (
	DimCategory       Dimension = "category"
	DimSubCategory    Dimension = "sub_category"
	DimProductionYear Dimension = "production_year"
	DimSeason         Dimension = "season"
	DimColor          Dimension = "color"
	DimSize           Dimension = "size"
	DimIsDefect       Dimension = "is_defect"
	DimSalesman       Dimension = "salesman"
	DimStore          Dimension = "store"
	DimLocation       Dimension = "location"
)

var dimensionColumns = map[Dimension]string{
	DimCategory:       sku.ColCategory,
	DimSubCategory:    sku.ColSubCategory,
	DimProductionYear: sku.ColProductionYear,
	DimSeason:         sku.ColSeason,
	DimColor:          sku.ColColor,
	DimSize:           sku.ColSize,
	DimIsDefect:       sku.ColIsDefect,
	DimSalesman:       dataset.ColSalesman,
	DimStore:          dataset.ColStore,
	DimLocation:       dataset.ColLocation,
}

func ParseDimension(s string) (Dimension, error) {
	d := Dimension(s)
	if _, ok := dimensionColumns[d]; !ok {
		return "", fmt.Errorf("unknown dimension %q", s)
	}
	return d, nil
}

// available reports whether the sales schema carries the dimension. The
// enrichment columns are always present after a master upload.
func (d Dimension) available(s dataset.Schema) bool {
	switch d {
	case DimSalesman:
		return s.HasSalesman
	case DimStore:
		return s.HasStore
	case DimLocation:
		return s.HasLocation
	}
	return true
}

type Group struct {
	Key string `json:"key"`
	Totals
	SubTotal float64 `json:"sub_total"`
	Orders   int     `json:"orders"`
}

type Breakdown struct {
	Dimension Dimension `json:"dimension"`
	Groups    []Group   `json:"groups"`
}

// BreakdownBy groups the sales rows in rng by dimension, largest Sub Total
// first. Rows with no value fall under "Unknown".
func BreakdownBy(sales dataset.Table, d Dimension, rng Range) (Breakdown, error) {
	col, ok := dimensionColumns[d]
	if !ok {
		return Breakdown{}, fmt.Errorf("unknown dimension %q", d)
	}
	schema := dataset.DescribeSchema(sales)
	if !d.available(schema) {
		return Breakdown{}, fmt.Errorf("%w: %s", ErrDimensionUnavailable, d)
	}

	type acc struct {
		g      Group
		orders map[string]struct{}
	}
	groups := make(map[string]*acc)
	for i, r := range sales.Rows {
		if !rng.contains(r) {
			continue
		}
		key := cellText(r[col])
		if key == "" {
			key = "Unknown"
		}
		a, ok := groups[key]
		if !ok {
			a = &acc{g: Group{Key: key}, orders: make(map[string]struct{})}
			groups[key] = a
		}
		a.g.add(r)
		a.g.SubTotal += finance.Normalize(r[dataset.ColSubTotal])
		a.orders[orderKey(schema, i, r)] = struct{}{}
	}

	out := Breakdown{Dimension: d, Groups: make([]Group, 0, len(groups))}
	for _, a := range groups {
		a.g.Orders = len(a.orders)
		out.Groups = append(out.Groups, a.g)
	}
	sort.Slice(out.Groups, func(i, j int) bool {
		a, b := out.Groups[i], out.Groups[j]
		if a.SubTotal != b.SubTotal {
			return a.SubTotal > b.SubTotal
		}
		return a.Key < b.Key
	})
	return out, nil
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format("2006-01-02")
	}
	return fmt.Sprint(v)
}
