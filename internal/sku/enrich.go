package sku

import (
	"strconv"
	"strings"

	"sku-dashboard/internal/dataset"
)

// Enrichment columns written on every row.
const (
	ColCategory            = "Category"
	ColSubCategory         = "SubCategory"
	ColProductionYear      = "ProductionYear"
	ColSeason              = "Season"
	ColProductAbbreviation = "ProductAbbreviation"
	ColColor               = "Color"
	ColSize                = "Size"
	ColIsDefect            = "IsDefect"
)

// Sentinels used when a code cannot be resolved.
const (
	UnknownCategory    = "Unknown Category"
	UnknownSubCategory = "Unknown Sub Category"
	UnknownYear        = "Unknown Year"
	UnknownSeason      = "Unknown Season"
	UnknownProduct     = "Unknown Product"
	UnknownColor       = "Unknown Color"
	UnknownSize        = "Unknown Size"
)

// defectBaseYear is added to the defect digit when the legend has no entry
// for the defect code: D1 means 2021.
const defectBaseYear = 2020

func EnrichmentColumns() []string {
	return []string{
		ColCategory, ColSubCategory, ColProductionYear, ColSeason,
		ColProductAbbreviation, ColColor, ColSize, ColIsDefect,
	}
}

// Attributes are the product facts decoded from one SKU.
type Attributes struct {
	Category            string `json:"category"`
	SubCategory         string `json:"sub_category"`
	ProductionYear      string `json:"production_year"`
	Season              string `json:"season"`
	ProductAbbreviation string `json:"product_abbreviation"`
	Color               string `json:"color"`
	Size                string `json:"size"`
	IsDefect            bool   `json:"is_defect"`
}

func UnknownAttributes() Attributes {
	return Attributes{
		Category:            UnknownCategory,
		SubCategory:         UnknownSubCategory,
		ProductionYear:      UnknownYear,
		Season:              UnknownSeason,
		ProductAbbreviation: UnknownProduct,
		Color:               UnknownColor,
		Size:                UnknownSize,
	}
}

// Decode resolves a SKU with the standard grammar.
func Decode(sku string, d Decoder) Attributes {
	return DecodeWith(sku, d, StandardGrammar)
}

// DecodeWith resolves a SKU against d. Prefix slicing (size, category,
// sub-category) and the grammar parse are independent: a SKU the grammar
// rejects still gets whatever the slices resolve, and each grammar segment
// falls back to its own sentinel when the legend lacks the code.
func DecodeWith(sku string, d Decoder, g Grammar) Attributes {
	a := UnknownAttributes()
	s := strings.ToUpper(strings.TrimSpace(sku))
	if s == "" {
		return a
	}

	a.Size = lookupOr(d, CodeSize, lastRunes(s, 2), UnknownSize)
	a.Category = lookupOr(d, CodeCategory, firstRunes(s, 3), UnknownCategory)
	a.SubCategory = lookupOr(d, CodeSubCategory, firstRunes(s, 4), UnknownSubCategory)

	seg, ok := g(s)
	if !ok {
		return a
	}

	if seg.IsDefect() {
		a.IsDefect = true
		if year, found := d.Lookup(CodeDefect, seg.YearOrDefect); found {
			a.ProductionYear = year
		} else if digit, err := strconv.Atoi(seg.YearOrDefect[1:]); err == nil {
			a.ProductionYear = strconv.Itoa(defectBaseYear + digit)
		}
	} else {
		a.ProductionYear = lookupOr(d, CodeProductionYear, seg.YearOrDefect, UnknownYear)
	}

	a.Season = lookupOr(d, CodeSeason, seg.Season, UnknownSeason)
	a.ProductAbbreviation = lookupOr(d, CodeProductAbbreviation, seg.Product, UnknownProduct)
	a.Color = lookupOr(d, CodeColor, seg.Color, UnknownColor)
	return a
}

// Enrich returns a copy of t with the enrichment columns set on every row.
// Rows are never dropped; a table without a SKU column gets sentinels only.
func Enrich(t dataset.Table, d Decoder) dataset.Table {
	return EnrichWith(t, d, StandardGrammar)
}

func EnrichWith(t dataset.Table, d Decoder, g Grammar) dataset.Table {
	out := t.Clone()
	for _, col := range EnrichmentColumns() {
		out.AddColumn(col)
	}
	for _, r := range out.Rows {
		setAttributes(r, DecodeWith(cellText(r[dataset.ColSKU]), d, g))
	}
	return out
}

func setAttributes(r dataset.Row, a Attributes) {
	r[ColCategory] = a.Category
	r[ColSubCategory] = a.SubCategory
	r[ColProductionYear] = a.ProductionYear
	r[ColSeason] = a.Season
	r[ColProductAbbreviation] = a.ProductAbbreviation
	r[ColColor] = a.Color
	r[ColSize] = a.Size
	r[ColIsDefect] = a.IsDefect
}

func lookupOr(d Decoder, ct CodeType, code, fallback string) string {
	if meaning, ok := d.Lookup(ct, code); ok {
		return meaning
	}
	return fallback
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
