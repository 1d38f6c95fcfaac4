package sku

import "regexp"

// Segments are the coded parts of a SKU suffix.
type Segments struct {
	YearOrDefect string // two digits ("21") or D plus one digit ("D1")
	Season       string
	Product      string
	Color        string
	Size         string
}

// IsDefect reports whether the year segment carries the defect marker.
func (s Segments) IsDefect() bool {
	return len(s.YearOrDefect) == 2 && s.YearOrDefect[0] == 'D'
}

// Grammar extracts Segments from an uppercased SKU. ok is false when the SKU
// does not follow the grammar; that is expected and not an error.
type Grammar func(sku string) (seg Segments, ok bool)

// standardPattern is
//
//	[any prefix] YEAR SEASON SEP ABBR "-" COLOR SIZE <end>
//
// where YEAR is two digits or D+digit, SEASON and COLOR are three letters,
// SEP is a space or hyphen, ABBR is one or more letters and SIZE is two
// digits. The match is not anchored at the start, so the prefix may hold
// anything. Examples: ZOZA21BAS-MIA-TBW35, Z11822BAS LUNA-BWT03,
// 202D4BAS-HTR-BLK01.
var standardPattern = regexp.MustCompile(`([0-9]{2}|D[0-9])([A-Z]{3})[ -]([A-Z]+)-([A-Z]{3})([0-9]{2})$`)

// StandardGrammar is the SKU layout used by every current export.
func StandardGrammar(sku string) (Segments, bool) {
	m := standardPattern.FindStringSubmatch(sku)
	if m == nil {
		return Segments{}, false
	}
	return Segments{
		YearOrDefect: m[1],
		Season:       m[2],
		Product:      m[3],
		Color:        m[4],
		Size:         m[5],
	}, true
}
