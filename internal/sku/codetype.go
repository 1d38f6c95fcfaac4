package sku

import (
	"regexp"
	"strings"
)

// CodeType names one bucket of the SKU legend.
type CodeType string

const (
	CodeCategory            CodeType = "CATEGORY"
	CodeSubCategory         CodeType = "SUB_CATEGORY"
	CodeSeason              CodeType = "SEASON"
	CodeColor               CodeType = "COLOR"
	CodeSize                CodeType = "SIZE"
	CodeProductionYear      CodeType = "PRODUCTION_YEAR"
	CodeProductAbbreviation CodeType = "PRODUCT_ABBREVIATION"
	CodeDefect              CodeType = "DEFECT"
)

func CodeTypes() []CodeType {
	return []CodeType{
		CodeCategory, CodeSubCategory, CodeSeason, CodeColor,
		CodeSize, CodeProductionYear, CodeProductAbbreviation, CodeDefect,
	}
}

// JENIS labels accepted in the legend spreadsheet, before whitespace removal.
var codeTypeAliases = map[string]CodeType{
	"CATEGORY":                   CodeCategory,
	"KATEGORI":                   CodeCategory,
	"SUB CATEGORY":               CodeSubCategory,
	"SUB_CATEGORY":               CodeSubCategory,
	"SEASON":                     CodeSeason,
	"WARNA":                      CodeColor,
	"COLOR":                      CodeColor,
	"UKURAN":                     CodeSize,
	"SIZE":                       CodeSize,
	"TAHUN":                      CodeProductionYear,
	"TAHUN PRODUKSI":             CodeProductionYear,
	"TAHUN LAUNCHING":            CodeProductionYear,
	"PRODUCTION YEAR":            CodeProductionYear,
	"SINGKATAN DARI NAMA PRODUK": CodeProductAbbreviation,
	"SINGKATAN NAMA PRODUK":      CodeProductAbbreviation,
	"NAMA PRODUK":                CodeProductAbbreviation,
	"PRODUCT ABBREVIATION":       CodeProductAbbreviation,
	"DEFFECT":                    CodeDefect,
	"DEFECT":                     CodeDefect,
}

var whitespace = regexp.MustCompile(`\s+`)

var normalizedAliases = func() map[string]CodeType {
	m := make(map[string]CodeType, len(codeTypeAliases))
	for k, v := range codeTypeAliases {
		m[normalizeLabel(k)] = v
	}
	return m
}()

func normalizeLabel(s string) string {
	return whitespace.ReplaceAllString(strings.ToUpper(s), "")
}

// ParseCodeType resolves a JENIS label to its bucket. Matching ignores case
// and all whitespace, so "sub category" and "SUB_CATEGORY" agree.
func ParseCodeType(label string) (CodeType, bool) {
	ct, ok := normalizedAliases[normalizeLabel(label)]
	return ct, ok
}
