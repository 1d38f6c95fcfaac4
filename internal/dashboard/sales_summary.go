package dashboard

import (
	"fmt"
	"sort"
	"time"

	"sku-dashboard/internal/dataset"
	"sku-dashboard/internal/finance"
	"sku-dashboard/internal/sku"
)

type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// DefaultCount is the number of buckets shown when the caller gives none.
func (p Period) DefaultCount() int {
	switch p {
	case Weekly:
		return 8
	case Monthly:
		return 12
	default:
		return 7
	}
}

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case Daily, Weekly, Monthly:
		return p, nil
	case "":
		return Daily, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

type Totals struct {
	NettSales   float64 `json:"nett_sales"`
	GrossProfit float64 `json:"gross_profit"`
	Qty         float64 `json:"qty"`
}

func (t *Totals) add(r dataset.Row) {
	t.NettSales += finance.Normalize(r[dataset.ColNettSales])
	t.GrossProfit += finance.Normalize(r[dataset.ColGrossProfit])
	t.Qty += finance.Normalize(r[dataset.ColQty])
}

type Point struct {
	Label string `json:"label"` // bucket start date
	Totals
}

type CategoryTotals struct {
	Category string `json:"category"`
	Totals
}

type Summary struct {
	Period      Period           `json:"period"`
	From        string           `json:"from"`
	To          string           `json:"to"`
	Points      []Point          `json:"points"`
	GrandTotals Totals           `json:"grand_totals"`
	Categories  []CategoryTotals `json:"categories"`
	// Undated counts rows skipped for having no parsed Tanggal.
	Undated int `json:"undated"`
}

// window returns the first bucket start and the exclusive end of the
// last bucket for count buckets ending at now.
func window(p Period, count int, now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch p {
	case Weekly:
		end := bucketStart(Weekly, today)
		return end.AddDate(0, 0, -7*(count-1)), end.AddDate(0, 0, 7)
	case Monthly:
		end := bucketStart(Monthly, today)
		return end.AddDate(0, -(count - 1), 0), end.AddDate(0, 1, 0)
	default:
		return today.AddDate(0, 0, -(count - 1)), today.AddDate(0, 0, 1)
	}
}

// bucketStart truncates t to its day, its Monday or its first of month.
func bucketStart(p Period, t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	switch p {
	case Weekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return day
	}
}

func next(p Period, t time.Time) time.Time {
	switch p {
	case Weekly:
		return t.AddDate(0, 0, 7)
	case Monthly:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// Summarize buckets the sales table over the count periods ending at now.
// Every bucket in the window is present, empty ones with zero totals.
func Summarize(sales dataset.Table, p Period, count int, now time.Time) Summary {
	if count <= 0 {
		count = p.DefaultCount()
	}
	loc := now.Location()
	start, end := window(p, count, now)

	buckets := make(map[string]*Totals)
	var order []string
	for b := start; b.Before(end); b = next(p, b) {
		label := b.Format("2006-01-02")
		buckets[label] = &Totals{}
		order = append(order, label)
	}

	summary := Summary{
		Period: p,
		From:   start.Format("2006-01-02"),
		To:     end.AddDate(0, 0, -1).Format("2006-01-02"),
	}
	categories := make(map[string]*Totals)

	for _, r := range sales.Rows {
		ts, ok := r[dataset.ColDate].(time.Time)
		if !ok {
			summary.Undated++
			continue
		}
		ts = ts.In(loc)
		if ts.Before(start) || !ts.Before(end) {
			continue
		}
		buckets[bucketStart(p, ts).Format("2006-01-02")].add(r)
		summary.GrandTotals.add(r)

		cat, _ := r.String(sku.ColCategory)
		if cat == "" {
			cat = sku.UnknownCategory
		}
		ct, ok := categories[cat]
		if !ok {
			ct = &Totals{}
			categories[cat] = ct
		}
		ct.add(r)
	}

	summary.Points = make([]Point, 0, len(order))
	for _, b := range order {
		summary.Points = append(summary.Points, Point{Label: b, Totals: *buckets[b]})
	}

	summary.Categories = make([]CategoryTotals, 0, len(categories))
	for name, t := range categories {
		summary.Categories = append(summary.Categories, CategoryTotals{Category: name, Totals: *t})
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		a, b := summary.Categories[i], summary.Categories[j]
		if a.NettSales != b.NettSales {
			return a.NettSales > b.NettSales
		}
		return a.Category < b.Category
	})
	return summary
}
